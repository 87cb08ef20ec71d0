package scheduler

import "sort"

// registry owns the id to subscription mapping. It is not safe for concurrent
// use; the scheduler serializes access.
type registry struct {
	entries map[ID]*entry
	nextID  ID
}

func newRegistry() *registry {
	return &registry{
		entries: make(map[ID]*entry),
		nextID:  1,
	}
}

// reserve hands out the next id.
func (r *registry) reserve() ID {
	id := r.nextID
	r.nextID++
	return id
}

func (r *registry) insert(e *entry) ID {
	r.entries[e.sub.ID] = e
	return e.sub.ID
}

// remove reports whether id was present. Removing an unknown id is a no-op.
func (r *registry) remove(id ID) bool {
	e, ok := r.entries[id]
	if !ok {
		return false
	}
	e.removed.Store(true)
	delete(r.entries, id)
	return true
}

func (r *registry) get(id ID) (*entry, bool) {
	e, ok := r.entries[id]
	return e, ok
}

// all returns the entries ordered by id.
func (r *registry) all() []*entry {
	out := make([]*entry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].sub.ID < out[j].sub.ID
	})
	return out
}

func (r *registry) isEmpty() bool {
	return len(r.entries) == 0
}

func (r *registry) len() int {
	return len(r.entries)
}

// clear removes every entry and returns them.
func (r *registry) clear() []*entry {
	out := r.all()
	for _, e := range out {
		e.removed.Store(true)
	}
	r.entries = make(map[ID]*entry)
	return out
}
