package filters

import (
	"fmt"
	"sort"
)

// Flattener linearizes a structured node into a path-keyed FlatState.
type Flattener interface {
	Flatten(node any) (FlatState, error)
}

// Unflattener rebuilds a structured node from a FlatState.
type Unflattener interface {
	Unflatten(state FlatState) (any, error)
}

// MapCodec is the default flatten/unflatten codec. It descends into
// map[string]any and []any containers and treats every other value (scalars,
// structs, descriptor wrappers) as a leaf. Empty containers are kept as
// leaves so flatten/unflatten round-trips preserve them.
type MapCodec struct{}

// Flatten implements Flattener.
func (MapCodec) Flatten(node any) (FlatState, error) {
	state := NewFlatState()
	if err := flattenInto(&state, Path{}, node); err != nil {
		return FlatState{}, err
	}
	return state, nil
}

// Flatten linearizes node with the default MapCodec.
func Flatten(node any) (FlatState, error) {
	return MapCodec{}.Flatten(node)
}

// Unflatten rebuilds a nested node with the default MapCodec.
func Unflatten(state FlatState) (any, error) {
	return MapCodec{}.Unflatten(state)
}

func flattenInto(state *FlatState, prefix Path, node any) error {
	switch typed := node.(type) {
	case map[string]any:
		if len(typed) == 0 {
			state.Set(prefix, typed)
			return nil
		}
		keys := make([]string, 0, len(typed))
		for key := range typed {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			if err := flattenInto(state, prefix.Child(FieldKey(key)), typed[key]); err != nil {
				return err
			}
		}
		return nil
	case []any:
		if len(typed) == 0 {
			state.Set(prefix, typed)
			return nil
		}
		for i, element := range typed {
			if err := flattenInto(state, prefix.Child(IndexKey(i)), element); err != nil {
				return err
			}
		}
		return nil
	default:
		if prefix.Len() == 0 {
			return fmt.Errorf("root node must be a map or slice, got %T", node)
		}
		state.Set(prefix, node)
		return nil
	}
}

// Unflatten implements Unflattener. Index keys become []any slices; a
// sequence with missing positions is an error rather than a silently padded
// slice.
func (MapCodec) Unflatten(state FlatState) (any, error) {
	root := newTreeNode()
	for _, entry := range state.Entries() {
		if entry.Path.Len() == 0 {
			return nil, fmt.Errorf("cannot unflatten the empty path")
		}
		if err := root.insert(entry.Path.Keys(), entry.Value); err != nil {
			return nil, fmt.Errorf("path %q: %w", entry.Path.String(), err)
		}
	}
	return root.materialize()
}

type treeNode struct {
	leaf     bool
	value    any
	children map[Key]*treeNode
}

func newTreeNode() *treeNode {
	return &treeNode{children: map[Key]*treeNode{}}
}

func (n *treeNode) insert(keys []Key, value any) error {
	if n.leaf {
		return fmt.Errorf("leaf value shadowed by a longer path")
	}
	if len(keys) == 0 {
		if len(n.children) > 0 {
			return fmt.Errorf("container shadowed by a leaf value")
		}
		n.leaf = true
		n.value = value
		return nil
	}
	child, ok := n.children[keys[0]]
	if !ok {
		child = newTreeNode()
		n.children[keys[0]] = child
	}
	return child.insert(keys[1:], value)
}

func (n *treeNode) materialize() (any, error) {
	if n.leaf {
		return n.value, nil
	}
	if len(n.children) == 0 {
		return map[string]any{}, nil
	}

	indexed := true
	for key := range n.children {
		if !key.IsIndex() {
			indexed = false
			break
		}
	}

	if indexed {
		out := make([]any, len(n.children))
		for key, child := range n.children {
			if key.Index() < 0 || key.Index() >= len(out) {
				return nil, fmt.Errorf("sparse sequence: index %d with %d elements", key.Index(), len(out))
			}
			value, err := child.materialize()
			if err != nil {
				return nil, err
			}
			out[key.Index()] = value
		}
		return out, nil
	}

	out := make(map[string]any, len(n.children))
	for key, child := range n.children {
		if key.IsIndex() {
			return nil, fmt.Errorf("mixed field and index keys in one container")
		}
		value, err := child.materialize()
		if err != nil {
			return nil, err
		}
		out[key.Name()] = value
	}
	return out, nil
}
