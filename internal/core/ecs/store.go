package ecs

import "sort"

// Removable is implemented by all component stores so the Registry can
// bulk-remove an entity's data on despawn and wipe every store on a world
// reload.
type Removable interface {
	Remove(id EntityID)
	Clear()
}

// Store is a generic typed map store for components.
// No reflect and no interface{} values, just generics.
type Store[T any] struct {
	data map[EntityID]*T
}

func NewStore[T any]() *Store[T] {
	return &Store[T]{
		data: make(map[EntityID]*T, 256),
	}
}

func (s *Store[T]) Set(id EntityID, c *T) {
	s.data[id] = c
}

func (s *Store[T]) Get(id EntityID) (*T, bool) {
	c, ok := s.data[id]
	return c, ok
}

func (s *Store[T]) Remove(id EntityID) {
	delete(s.data, id)
}

// Clear drops every component in the store.
func (s *Store[T]) Clear() {
	clear(s.data)
}

func (s *Store[T]) Has(id EntityID) bool {
	_, ok := s.data[id]
	return ok
}

func (s *Store[T]) Len() int {
	return len(s.data)
}

func (s *Store[T]) Each(fn func(EntityID, *T)) {
	for id, c := range s.data {
		fn(id, c)
	}
}

// EachSorted visits entities in EntityID order. Systems that mutate state or
// record events must use this instead of Each: Go randomizes map iteration,
// and the event log has to come out identical across runs.
func (s *Store[T]) EachSorted(fn func(EntityID, *T)) {
	ids := make([]EntityID, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].Less(ids[j]) })
	for _, id := range ids {
		fn(id, s.data[id])
	}
}
