package engine

// AnyStore provides type-erased operations for lifecycle management
// World uses it to destroy entities without knowing concrete component types
type AnyStore interface {
	// Remove deletes a component from an entity
	Remove(e Entity)

	// Has checks if an entity has this component
	Has(e Entity) bool

	// Count returns the number of entities with this component
	Count() int

	// Clear removes all components from this store
	Clear()
}

// QueryableStore extends AnyStore with the listing needed by QueryBuilder
type QueryableStore interface {
	AnyStore

	// All returns all entities that have this component type
	All() []Entity
}
