package engine

import (
	"slices"
	"sync"
)

// Store holds every component of type T in two parallel dense slices
// index maps an entity to its slot; removal moves the last slot into the hole
type Store[T any] struct {
	mu     sync.RWMutex
	index  map[Entity]int
	owners []Entity
	values []T
}

// NewStore creates an empty store for T
func NewStore[T any]() *Store[T] {
	return &Store[T]{index: make(map[Entity]int)}
}

// Set attaches val to e, replacing any previous value
func (s *Store[T]) Set(e Entity, val T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i, ok := s.index[e]; ok {
		s.values[i] = val
		return
	}
	s.index[e] = len(s.owners)
	s.owners = append(s.owners, e)
	s.values = append(s.values, val)
}

// Get returns the value attached to e
func (s *Store[T]) Get(e Entity) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[e]
	if !ok {
		var zero T
		return zero, false
	}
	return s.values[i], true
}

// Remove detaches the component from e; absent entities are ignored
func (s *Store[T]) Remove(e Entity) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[e]
	if !ok {
		return
	}
	last := len(s.owners) - 1
	if i != last {
		moved := s.owners[last]
		s.owners[i] = moved
		s.values[i] = s.values[last]
		s.index[moved] = i
	}
	var zero T
	s.values[last] = zero
	s.owners = s.owners[:last]
	s.values = s.values[:last]
	delete(s.index, e)
}

func (s *Store[T]) Has(e Entity) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.index[e]
	return ok
}

// All returns the owning entities in ascending id order
func (s *Store[T]) All() []Entity {
	s.mu.RLock()
	result := slices.Clone(s.owners)
	s.mu.RUnlock()

	slices.Sort(result)
	return result
}

func (s *Store[T]) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.owners)
}

// Clear drops every component
func (s *Store[T]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.index)
	s.owners = nil
	s.values = nil
}
