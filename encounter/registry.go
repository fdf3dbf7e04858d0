package encounter

// Registry maps ids to live encounters. It holds no ownership: lookups
// revalidate the entry every time and stale entries read as missing.
type Registry struct {
	entries map[ID]*Encounter
	last    ID
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[ID]*Encounter)}
}

func (r *Registry) Register(e *Encounter) {
	if r == nil || e == nil {
		return
	}
	r.entries[e.id] = e
	if e.id > r.last {
		r.last = e.id
	}
}

func (r *Registry) Unregister(id ID) {
	if r == nil {
		return
	}
	delete(r.entries, id)
}

// Lookup returns the encounter for id if it is still active.
func (r *Registry) Lookup(id ID) (*Encounter, bool) {
	if r == nil {
		return nil, false
	}
	e, ok := r.entries[id]
	if !ok || !e.Active() {
		return nil, false
	}
	return e, true
}

func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.entries)
}

func (r *Registry) nextID() ID {
	r.last++
	return r.last
}
