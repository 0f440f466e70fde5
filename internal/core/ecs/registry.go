package ecs

// Registry tracks all component stores and supports bulk cleanup on despawn.
type Registry struct {
	stores []Removable
}

func NewRegistry() *Registry {
	return &Registry{
		stores: make([]Removable, 0, 16),
	}
}

// Register adds a component store to the registry.
func (r *Registry) Register(store Removable) {
	r.stores = append(r.stores, store)
}

// RemoveAll clears the given entity from every registered component store.
func (r *Registry) RemoveAll(id EntityID) {
	for _, s := range r.stores {
		s.Remove(id)
	}
}

// ClearAll wipes every registered store; used when a saved world is loaded
// over a live one.
func (r *Registry) ClearAll() {
	for _, s := range r.stores {
		s.Clear()
	}
}
