package engine

// Entity is a unique identifier for an entity
// Zero is never allocated and marks "no entity"
type Entity uint64

// System runs one pass over the world
// Callers decide whether the pass holds shared or exclusive world access
type System interface {
	Run(w *World) error
}

// RunSystems runs systems in order, stopping at the first error
func RunSystems(w *World, systems ...System) error {
	for _, s := range systems {
		if err := s.Run(w); err != nil {
			return err
		}
	}
	return nil
}
