package task

import (
	"errors"
	"fmt"
	"slices"

	"github.com/zyedidia/generic/mapset"
)

// ErrOccupied is returned when spawning onto a tile that already has a task.
var ErrOccupied = errors.New("tile already has a task")

// Entry is the registry's record of one live task.
type Entry struct {
	Handle Handle
	Kind   Kind
	Ref    Ref
	Task   any
	// Tick is the scheduler tick the task was spawned on.
	Tick uint64
}

// Registry owns every live task of a session and guarantees at most one task
// per tile.
type Registry struct {
	next      Handle
	entries   map[Handle]*Entry
	order     []Handle
	occupied  mapset.Set[Ref]
	factories map[Kind]Factory
}

// NewRegistry creates a registry. Kinds missing from factories spawn
// Placeholder tasks.
func NewRegistry(factories map[Kind]Factory) *Registry {
	fs := make(map[Kind]Factory, len(Kinds))
	for _, k := range Kinds {
		fs[k] = PlaceholderFactory(k)
	}
	for k, f := range factories {
		if f != nil {
			fs[k] = f
		}
	}
	return &Registry{
		entries:   make(map[Handle]*Entry),
		occupied:  mapset.New[Ref](),
		factories: fs,
	}
}

// Spawn constructs a task of the given kind bound to ref.
func (r *Registry) Spawn(kind Kind, ref Ref, tick uint64) (*Entry, error) {
	if r.occupied.Has(ref) {
		return nil, fmt.Errorf("spawn %s on %s: %w", kind, ref, ErrOccupied)
	}
	f, ok := r.factories[kind]
	if !ok {
		return nil, fmt.Errorf("spawn %s on %s: unknown task kind", kind, ref)
	}
	r.next++
	e := &Entry{Handle: r.next, Kind: kind, Ref: ref, Task: f(ref), Tick: tick}
	r.entries[e.Handle] = e
	r.order = append(r.order, e.Handle)
	r.occupied.Put(ref)
	return e, nil
}

// Get returns the entry for h.
func (r *Registry) Get(h Handle) (*Entry, bool) {
	e, ok := r.entries[h]
	return e, ok
}

// Remove drops the task and frees its tile.
func (r *Registry) Remove(h Handle) (*Entry, bool) {
	e, ok := r.entries[h]
	if !ok {
		return nil, false
	}
	delete(r.entries, h)
	r.occupied.Remove(e.Ref)
	if i := slices.Index(r.order, h); i >= 0 {
		r.order = slices.Delete(r.order, i, i+1)
	}
	return e, true
}

// Occupied reports whether ref already carries a task.
func (r *Registry) Occupied(ref Ref) bool { return r.occupied.Has(ref) }

// Len is the number of live tasks.
func (r *Registry) Len() int { return len(r.entries) }

// Active returns live tasks in spawn order.
func (r *Registry) Active() []*Entry {
	out := make([]*Entry, 0, len(r.order))
	for _, h := range r.order {
		out = append(out, r.entries[h])
	}
	return out
}

// Oldest returns the longest-running task.
func (r *Registry) Oldest() (*Entry, bool) {
	if len(r.order) == 0 {
		return nil, false
	}
	return r.entries[r.order[0]], true
}

// Counts tallies live tasks by kind.
func (r *Registry) Counts() map[Kind]int {
	out := make(map[Kind]int, len(Kinds))
	for _, e := range r.entries {
		out[e.Kind]++
	}
	return out
}
