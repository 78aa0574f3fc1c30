// Package engine provides the simulation core: the world state, the per-tick
// behavior state machine, the interaction rules (predation, breeding,
// spawning), and the tick orchestrator that sequences them.
package engine

import (
	"github.com/loolos/Antarctica/internal/animal"
	"github.com/loolos/Antarctica/internal/environment"
)

// WorldState is the authoritative simulation state: the monotonic tick
// counter, the per-species animal collections, and the terrain. The spatial
// index is derived from it and lives in the Engine, never here.
type WorldState struct {
	Tick     int
	Penguins []*animal.Animal
	Seals    []*animal.Animal
	Fish     []*animal.Animal
	Env      *environment.Environment
}

// Counts returns the live population size of each species.
func (w *WorldState) Counts() (penguins, seals, fish int) {
	return len(w.Penguins), len(w.Seals), len(w.Fish)
}

// speciesSlice returns the collection an animal of the given species lives in.
func (w *WorldState) speciesSlice(s animal.Species) *[]*animal.Animal {
	switch s {
	case animal.SpeciesPenguin:
		return &w.Penguins
	case animal.SpeciesSeal:
		return &w.Seals
	default:
		return &w.Fish
	}
}
