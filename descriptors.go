package filters

import "fmt"

// FieldDescriptor describes one flattened entry: its path and the value's
// runtime type name.
type FieldDescriptor struct {
	Path string
	Type string
}

// Describe lists a state's entries as sorted path/type descriptors, handy
// for diagnostics and for eyeballing what a partition produced.
func Describe(state FlatState) []FieldDescriptor {
	entries := state.Entries()
	out := make([]FieldDescriptor, len(entries))
	for i, entry := range entries {
		out[i] = FieldDescriptor{
			Path: entry.Path.String(),
			Type: typeName(entry.Value),
		}
	}
	return out
}

func typeName(value any) string {
	if value == nil {
		return "nil"
	}
	return fmt.Sprintf("%T", value)
}
