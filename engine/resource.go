package engine

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
)

// ResourceStore is the thread-safe singleton table of the world
// Resources are keyed by their Go type; there is at most one of each
type ResourceStore struct {
	mu        sync.RWMutex
	resources map[reflect.Type]any
}

// NewResourceStore creates a new empty resource store
func NewResourceStore() *ResourceStore {
	return &ResourceStore{
		resources: make(map[reflect.Type]any),
	}
}

// AddResource registers or replaces a single resource
func AddResource[T any](rs *ResourceStore, resource T) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.resources[reflect.TypeFor[T]()] = resource
}

// GetResource retrieves a resource of type T
// Returns the zero value of T and false if not found
func GetResource[T any](rs *ResourceStore) (T, bool) {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	val, ok := rs.resources[reflect.TypeFor[T]()]
	if !ok {
		var zero T
		return zero, false
	}
	return val.(T), true
}

// HasResource reports whether a resource of type T is present
func HasResource[T any](rs *ResourceStore) bool {
	_, ok := GetResource[T](rs)
	return ok
}

// Publish inserts every resource under one lock acquisition
// Validation happens first: on error nothing is inserted
func (rs *ResourceStore) Publish(resources ...any) error {
	seen := make(map[reflect.Type]struct{}, len(resources))
	for i, res := range resources {
		if isNil(res) {
			return fmt.Errorf("publish resource %d: %w", i, errNilResource)
		}
		t := reflect.TypeOf(res)
		if _, dup := seen[t]; dup {
			return fmt.Errorf("publish resource %d: duplicate %s", i, t)
		}
		seen[t] = struct{}{}
	}

	rs.mu.Lock()
	defer rs.mu.Unlock()
	for _, res := range resources {
		rs.resources[reflect.TypeOf(res)] = res
	}
	return nil
}

// Len returns the number of resources present
func (rs *ResourceStore) Len() int {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	return len(rs.resources)
}

var errNilResource = errors.New("nil resource")

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
