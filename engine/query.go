package engine

import (
	"cmp"
	"slices"
)

// QueryBuilder finds entities holding every component in a set of stores
type QueryBuilder struct {
	world    *World
	stores   []QueryableStore
	executed bool
	results  []Entity
}

// Query starts a component intersection over w
//
// Example:
//
//	meshes, _ := GetStore[component.MeshGraphicComponent](w)
//	texts, _ := GetStore[component.TextDisplayComponent](w)
//	boxes := w.Query().With(meshes).With(texts).Execute()
func (w *World) Query() *QueryBuilder {
	return &QueryBuilder{world: w}
}

// With adds a store to the intersection
// Panics after Execute
func (qb *QueryBuilder) With(store QueryableStore) *QueryBuilder {
	if qb.executed {
		panic("query already executed - cannot modify after Execute()")
	}
	qb.stores = append(qb.stores, store)
	return qb
}

// Execute returns entities present in all stores, ascending by id
// Repeat calls return the cached result
func (qb *QueryBuilder) Execute() []Entity {
	if qb.executed {
		return qb.results
	}
	qb.executed = true

	if len(qb.stores) == 0 {
		qb.results = []Entity{}
		return qb.results
	}

	// Walk the smallest store; the rest only answer Has
	smallest := slices.MinFunc(qb.stores, func(a, b QueryableStore) int {
		return cmp.Compare(a.Count(), b.Count())
	})
	qb.results = slices.DeleteFunc(smallest.All(), func(e Entity) bool {
		for _, s := range qb.stores {
			if s != smallest && !s.Has(e) {
				return true
			}
		}
		return false
	})
	return qb.results
}
