package filters

import (
	"reflect"
	"sort"
	"strconv"
	"strings"
)

type keyKind int

const (
	keyField keyKind = iota
	keyIndex
)

// Key is a single immutable step of a path: either a field name or a
// sequence index.
type Key struct {
	kind  keyKind
	name  string
	index int
}

// FieldKey builds a Key addressing a named field.
func FieldKey(name string) Key {
	return Key{kind: keyField, name: name}
}

// IndexKey builds a Key addressing a sequence position.
func IndexKey(index int) Key {
	return Key{kind: keyIndex, index: index}
}

// IsIndex reports whether the key addresses a sequence position.
func (k Key) IsIndex() bool {
	return k.kind == keyIndex
}

// Name returns the field name, or the empty string for index keys.
func (k Key) Name() string {
	if k.kind != keyField {
		return ""
	}
	return k.name
}

// Index returns the sequence position, or -1 for field keys.
func (k Key) Index() int {
	if k.kind != keyIndex {
		return -1
	}
	return k.index
}

func (k Key) String() string {
	if k.kind == keyIndex {
		return strconv.Itoa(k.index)
	}
	return k.name
}

// Path is an immutable ordered sequence of Keys from root to leaf. The
// canonical dotted form (e.g. "layers.0.weight") is precomputed so paths can
// be used as deterministic map keys and compared cheaply.
type Path struct {
	keys      []Key
	canonical string
}

// NewPath builds a Path from the supplied keys. The key slice is copied so
// later mutation of the argument cannot affect the path.
func NewPath(keys ...Key) Path {
	copied := make([]Key, len(keys))
	copy(copied, keys)
	return Path{
		keys:      copied,
		canonical: joinKeys(copied),
	}
}

// ParsePath converts a dotted string into a Path. Segments that parse as
// non-negative integers become index keys, everything else becomes a field
// key. The empty string yields the empty (root) path.
func ParsePath(raw string) Path {
	if raw == "" {
		return Path{}
	}
	segments := strings.Split(raw, ".")
	keys := make([]Key, 0, len(segments))
	for _, segment := range segments {
		if index, err := strconv.Atoi(segment); err == nil && index >= 0 {
			keys = append(keys, IndexKey(index))
			continue
		}
		keys = append(keys, FieldKey(segment))
	}
	return NewPath(keys...)
}

// Keys returns a defensive copy of the path components.
func (p Path) Keys() []Key {
	if len(p.keys) == 0 {
		return nil
	}
	out := make([]Key, len(p.keys))
	copy(out, p.keys)
	return out
}

// Len returns the number of components in the path.
func (p Path) Len() int {
	return len(p.keys)
}

func (p Path) String() string {
	return p.canonical
}

// Equal reports structural, component-wise equality.
func (p Path) Equal(other Path) bool {
	if len(p.keys) != len(other.keys) {
		return false
	}
	return p.canonical == other.canonical
}

// Contains reports whether key appears anywhere in the path.
func (p Path) Contains(key Key) bool {
	for _, candidate := range p.keys {
		if candidate == key {
			return true
		}
	}
	return false
}

// Child returns a new path with key appended. The receiver is unchanged.
func (p Path) Child(key Key) Path {
	keys := make([]Key, len(p.keys)+1)
	copy(keys, p.keys)
	keys[len(p.keys)] = key
	return Path{
		keys:      keys,
		canonical: joinKeys(keys),
	}
}

func joinKeys(keys []Key) string {
	if len(keys) == 0 {
		return ""
	}
	segments := make([]string, len(keys))
	for i, key := range keys {
		segments[i] = key.String()
	}
	return strings.Join(segments, ".")
}

// Entry pairs a path with the value stored at that location.
type Entry struct {
	Path  Path
	Value any
}

// FlatState is a path-keyed, flattened view of a nested value structure.
// Paths are unique by construction and iteration order is deterministic
// (sorted canonical path), so repeated partitions of the same state always
// observe entries in the same order.
type FlatState struct {
	entries map[string]Entry
}

// NewFlatState returns an empty FlatState ready for use.
func NewFlatState() FlatState {
	return FlatState{entries: map[string]Entry{}}
}

// FlatStateOf builds a FlatState from dotted-path keys, parsing each key via
// ParsePath.
func FlatStateOf(values map[string]any) FlatState {
	state := NewFlatState()
	for raw, value := range values {
		state.Set(ParsePath(raw), value)
	}
	return state
}

// Set stores value at path, replacing any previous entry for the same path.
func (s *FlatState) Set(path Path, value any) {
	if s.entries == nil {
		s.entries = map[string]Entry{}
	}
	s.entries[path.String()] = Entry{Path: path, Value: value}
}

// Get returns the value stored at path.
func (s FlatState) Get(path Path) (any, bool) {
	entry, ok := s.entries[path.String()]
	if !ok {
		return nil, false
	}
	return entry.Value, true
}

// Delete removes the entry at path when present.
func (s *FlatState) Delete(path Path) {
	delete(s.entries, path.String())
}

// Len returns the number of entries.
func (s FlatState) Len() int {
	return len(s.entries)
}

// Paths returns every entry path sorted by canonical string.
func (s FlatState) Paths() []Path {
	entries := s.Entries()
	out := make([]Path, len(entries))
	for i, entry := range entries {
		out[i] = entry.Path
	}
	return out
}

// Entries returns every entry sorted by canonical path string.
func (s FlatState) Entries() []Entry {
	keys := make([]string, 0, len(s.entries))
	for key := range s.entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	out := make([]Entry, len(keys))
	for i, key := range keys {
		out[i] = s.entries[key]
	}
	return out
}

// Clone returns a shallow copy: entries are copied, values are shared.
func (s FlatState) Clone() FlatState {
	out := FlatState{entries: make(map[string]Entry, len(s.entries))}
	for key, entry := range s.entries {
		out.entries[key] = entry
	}
	return out
}

// Equal reports whether both states hold the same paths with deeply equal
// values. Values are compared with reflect.DeepEqual: flattened states may
// carry uncomparable leaves such as empty map and slice containers, which a
// plain interface comparison would panic on.
func (s FlatState) Equal(other FlatState) bool {
	if len(s.entries) != len(other.entries) {
		return false
	}
	for key, entry := range s.entries {
		candidate, ok := other.entries[key]
		if !ok || !reflect.DeepEqual(candidate.Value, entry.Value) {
			return false
		}
	}
	return true
}
