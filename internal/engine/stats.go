package engine

import (
	"gonum.org/v1/gonum/stat"

	"github.com/loolos/Antarctica/internal/animal"
)

// SimStats is a point-in-time statistical summary of the run.
type SimStats struct {
	Tick     int `json:"tick" db:"tick"`
	Penguins int `json:"penguins" db:"penguins"`
	Seals    int `json:"seals" db:"seals"`
	Fish     int `json:"fish" db:"fish"`

	Births int `json:"births" db:"births"`
	Deaths int `json:"deaths" db:"deaths"`
	Kills  int `json:"kills" db:"kills"`
	Spawns int `json:"spawns" db:"spawns"`

	MeanEnergy   float64 `json:"mean_energy" db:"mean_energy"`
	StdDevEnergy float64 `json:"stddev_energy" db:"stddev_energy"`

	Temperature float64 `json:"temperature" db:"temperature"`
	Season      int     `json:"season" db:"season"`
}

// Stats computes the current summary. Energy statistics cover every live
// animal across species; an empty world reports zeros.
func (e *Engine) Stats() SimStats {
	s := SimStats{
		Tick:        e.world.Tick,
		Penguins:    len(e.world.Penguins),
		Seals:       len(e.world.Seals),
		Fish:        len(e.world.Fish),
		Births:      e.counters.Births,
		Deaths:      e.counters.Deaths,
		Kills:       e.counters.Kills,
		Spawns:      e.counters.Spawns,
		Temperature: e.world.Env.Temperature,
		Season:      e.world.Env.SeasonIndex(),
	}

	var energies []float64
	for _, list := range [][]*animal.Animal{e.world.Penguins, e.world.Seals, e.world.Fish} {
		for _, a := range list {
			energies = append(energies, a.Energy)
		}
	}
	if len(energies) > 0 {
		s.MeanEnergy = stat.Mean(energies, nil)
	}
	if len(energies) > 1 {
		s.StdDevEnergy = stat.StdDev(energies, nil)
	}
	return s
}
