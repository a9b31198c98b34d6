package state

import (
	"fmt"

	filters "github.com/goliatone/go-filters"
	"github.com/goliatone/go-filters/internal/hydrate"
)

// DecodeGroup rebuilds one partitioned group into a typed struct. The group
// is unflattened with the default map codec and then decoded through the
// JSON round-trip decoder, so T follows ordinary encoding/json rules.
func DecodeGroup[T any](ref Ref, group int, state filters.FlatState) (T, error) {
	var zero T
	node, err := filters.Unflatten(state)
	if err != nil {
		return zero, fmt.Errorf("state: unflatten group %d for domain %q: %w", group, ref.Domain, err)
	}
	payload, ok := node.(map[string]any)
	if !ok {
		return zero, fmt.Errorf("state: group %d for domain %q is not an object (got %T)", group, ref.Domain, node)
	}
	decoder := hydrate.NewDecoder[T]()
	return decoder.Decode(hydrate.Context{Domain: ref.Domain, Group: group}, payload)
}
