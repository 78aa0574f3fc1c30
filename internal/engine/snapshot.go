package engine

import (
	"github.com/loolos/Antarctica/internal/animal"
	"github.com/loolos/Antarctica/internal/environment"
)

// Snapshot is the wire shape of the world, as served by GET /state and the
// SSE stream. It is a deep copy: the caller may hold it while the engine
// keeps ticking.
type Snapshot struct {
	Tick        int               `json:"tick"`
	Penguins    []AnimalStatus    `json:"penguins"`
	Seals       []AnimalStatus    `json:"seals"`
	Fish        []FishStatus      `json:"fish"`
	Environment EnvironmentStatus `json:"environment"`
	Stats       SimStats          `json:"stats"`
}

// AnimalStatus is the wire shape of a penguin or seal. The "state" field
// reports the medium the animal currently occupies, not its behavior state.
type AnimalStatus struct {
	ID        string  `json:"id"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Energy    float64 `json:"energy"`
	Age       int     `json:"age"`
	State     string  `json:"state"`
	MaxEnergy float64 `json:"max_energy"`
}

// FishStatus is the wire shape of a fish. Fish are always at sea, so there
// is no state field.
type FishStatus struct {
	ID        string  `json:"id"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Energy    float64 `json:"energy"`
	Age       int     `json:"age"`
	MaxEnergy float64 `json:"max_energy"`
}

// EnvironmentStatus is the wire shape of the terrain and climate. Season is
// the raw position in the four-season tick cycle; the 0-3 quarter index is
// reported by the stats summary instead.
type EnvironmentStatus struct {
	Width       int          `json:"width"`
	Height      int          `json:"height"`
	IceCoverage float64      `json:"ice_coverage"`
	Temperature float64      `json:"temperature"`
	SeaLevel    float64      `json:"sea_level"`
	Season      int          `json:"season"`
	IceFloes    []FloeStatus `json:"ice_floes"`
}

// FloeStatus is the wire shape of one ice floe.
type FloeStatus struct {
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
	Radius       float64 `json:"radius"`
	Shape        string  `json:"shape"`
	RadiusX      float64 `json:"radius_x"`
	RadiusY      float64 `json:"radius_y"`
	Rotation     float64 `json:"rotation"`
	Irregularity float64 `json:"irregularity"`
}

// Snapshot captures the current world state in wire shape.
func (e *Engine) Snapshot() Snapshot {
	env := e.world.Env
	s := Snapshot{
		Tick:     e.world.Tick,
		Penguins: animalStatuses(e.world.Penguins),
		Seals:    animalStatuses(e.world.Seals),
		Fish:     fishStatuses(e.world.Fish),
		Environment: EnvironmentStatus{
			Width:       env.Width,
			Height:      env.Height,
			IceCoverage: env.IceCoverage,
			Temperature: env.Temperature,
			SeaLevel:    env.SeaLevel,
			Season:      env.Season,
			IceFloes:    floeStatuses(env.Floes),
		},
		Stats: e.Stats(),
	}
	return s
}

func animalStatuses(list []*animal.Animal) []AnimalStatus {
	out := make([]AnimalStatus, 0, len(list))
	for _, a := range list {
		out = append(out, AnimalStatus{
			ID:        a.ID,
			X:         a.X,
			Y:         a.Y,
			Energy:    a.Energy,
			Age:       a.Age,
			State:     a.Medium.String(),
			MaxEnergy: a.P.MaxEnergy,
		})
	}
	return out
}

func fishStatuses(list []*animal.Animal) []FishStatus {
	out := make([]FishStatus, 0, len(list))
	for _, f := range list {
		out = append(out, FishStatus{
			ID:        f.ID,
			X:         f.X,
			Y:         f.Y,
			Energy:    f.Energy,
			Age:       f.Age,
			MaxEnergy: f.P.MaxEnergy,
		})
	}
	return out
}

func floeStatuses(floes []*environment.Floe) []FloeStatus {
	out := make([]FloeStatus, 0, len(floes))
	for _, f := range floes {
		out = append(out, FloeStatus{
			X:            f.X,
			Y:            f.Y,
			Radius:       f.Radius,
			Shape:        f.Shape.String(),
			RadiusX:      f.RadiusX,
			RadiusY:      f.RadiusY,
			Rotation:     f.Rotation,
			Irregularity: f.Irregularity,
		})
	}
	return out
}
