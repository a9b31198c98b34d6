package state

import (
	"context"
	"errors"
	"fmt"
	"time"

	filters "github.com/goliatone/go-filters"
)

// ErrNotFound indicates the referenced snapshot does not exist in the store.
var ErrNotFound = errors.New("state: snapshot not found")

// Ref identifies one persisted state snapshot within a domain.
type Ref struct {
	Domain string
	Name   string
}

// Identifier returns a stable slug store adapters can use when composing
// deterministic storage keys (e.g., "model/encoder").
func (r Ref) Identifier() (string, error) {
	if r.Domain == "" {
		return "", fmt.Errorf("state: domain is required")
	}
	if r.Name == "" {
		return "", fmt.Errorf("state: name is required")
	}
	return fmt.Sprintf("%s/%s", r.Domain, r.Name), nil
}

// Meta is storage-owned metadata used for trace/audit and concurrency control.
type Meta struct {
	SnapshotID string            `json:"snapshot_id,omitempty"`
	ETag       string            `json:"etag,omitempty"`
	UpdatedAt  time.Time         `json:"updated_at,omitempty"`
	Extra      map[string]string `json:"extra,omitempty"`
}

// Store loads/saves one snapshot for a single state reference.
type Store[T any] interface {
	Load(ctx context.Context, ref Ref) (snapshot T, meta Meta, ok bool, err error)
	Save(ctx context.Context, ref Ref, snapshot T, meta Meta) (Meta, error)
}

// FlattenFunc linearizes a stored snapshot into a FlatState. The default
// hands the snapshot to the filters.Flatten map codec.
type FlattenFunc[T any] func(T) (filters.FlatState, error)

// Splitter loads stored states and partitions them with a filter list.
type Splitter[T any] struct {
	Store       Store[T]
	Partitioner *filters.Partitioner
	Flatten     FlattenFunc[T]
}

// Split loads the referenced snapshot, flattens it, and partitions the
// result with the supplied filter literals. Group order follows literal
// order; the loaded snapshot's metadata rides along for auditing.
func (s Splitter[T]) Split(ctx context.Context, ref Ref, literals ...any) ([]filters.FlatState, Meta, error) {
	if s.Store == nil {
		return nil, Meta{}, fmt.Errorf("state: store is required")
	}
	if _, err := ref.Identifier(); err != nil {
		return nil, Meta{}, err
	}

	snapshot, meta, ok, err := s.Store.Load(ctx, ref)
	if err != nil {
		return nil, Meta{}, fmt.Errorf("state: load %q for domain %q: %w", ref.Name, ref.Domain, err)
	}
	if !ok {
		return nil, Meta{}, fmt.Errorf("%w: %s/%s", ErrNotFound, ref.Domain, ref.Name)
	}

	flat, err := s.flatten(snapshot)
	if err != nil {
		return nil, Meta{}, fmt.Errorf("state: flatten %q for domain %q: %w", ref.Name, ref.Domain, err)
	}

	groups, err := s.partitioner().Partition(flat, literals...)
	if err != nil {
		return nil, Meta{}, err
	}
	return groups, cloneMeta(meta), nil
}

func (s Splitter[T]) flatten(snapshot T) (filters.FlatState, error) {
	if s.Flatten != nil {
		return s.Flatten(snapshot)
	}
	return filters.Flatten(any(snapshot))
}

func (s Splitter[T]) partitioner() *filters.Partitioner {
	if s.Partitioner != nil {
		return s.Partitioner
	}
	return filters.New()
}
