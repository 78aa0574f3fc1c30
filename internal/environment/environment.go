// Package environment owns the map: dimensions, seasonal climate, and the ice
// floes that make up the land. Every point of the map is sea unless it falls
// inside at least one floe. All queries are pure; Tick advances the climate
// and slowly drifts the floes.
package environment

import (
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/loolos/Antarctica/internal/config"
	"github.com/loolos/Antarctica/internal/entropy"
)

// Environment is the terrain and climate state of the world.
type Environment struct {
	Width       int
	Height      int
	IceCoverage float64
	Temperature float64
	SeaLevel    float64
	Season      int // position in the 4×seasonLength tick cycle
	Floes       []*Floe

	seasonLength int
	driftSpeed   float64
	driftNoise   opensimplex.Noise
	ticks        float64 // noise time axis for drift sampling
}

// Generate creates an environment with randomly placed ice floes.
func Generate(cfg *config.Config, rng *entropy.Source) *Environment {
	env := &Environment{
		Width:        cfg.World.Width,
		Height:       cfg.World.Height,
		IceCoverage:  cfg.Climate.IceCoverage,
		Temperature:  -10.0,
		SeaLevel:     cfg.Climate.SeaLevel,
		seasonLength: cfg.Climate.SeasonLength,
		driftSpeed:   cfg.Floes.DriftSpeed,
		driftNoise:   opensimplex.NewNormalized(rng.Seed() + 1),
	}
	env.generateFloes(cfg.Floes, rng)
	return env
}

func (e *Environment) generateFloes(fc config.FloeConfig, rng *entropy.Source) {
	count := rng.IntBetween(fc.MinCount, fc.MaxCount)
	e.Floes = make([]*Floe, 0, count)

	w, h := float64(e.Width), float64(e.Height)
	for i := 0; i < count; i++ {
		base := rng.Range(fc.MinRadius, fc.MaxRadius)
		x := rng.Range(100, w-100)
		y := rng.Range(100, h-100)

		// Ellipses are twice as likely as the other shapes.
		var floe *Floe
		switch rng.IntN(4) {
		case 0:
			floe = &Floe{
				X: x, Y: y,
				Shape:   ShapeCircle,
				Radius:  base,
				RadiusX: base,
				RadiusY: base,
			}
		case 1, 2:
			rx := base
			ry := base * rng.Range(0.6, 1.0)
			floe = &Floe{
				X: x, Y: y,
				Shape:    ShapeEllipse,
				Radius:   math.Max(rx, ry),
				RadiusX:  rx,
				RadiusY:  ry,
				Rotation: rng.Angle(),
			}
		default:
			rx := base * rng.Range(0.8, 1.2)
			ry := base * rng.Range(0.7, 1.1)
			floe = &Floe{
				X: x, Y: y,
				Shape:        ShapeIrregular,
				Radius:       math.Max(rx, ry) * 1.1, // bounding circle with margin
				RadiusX:      rx,
				RadiusY:      ry,
				Rotation:     rng.Angle(),
				Irregularity: rng.Range(0.1, 0.3),
			}
		}
		e.Floes = append(e.Floes, floe)
	}
}

// IsLand reports whether the point lies inside any ice floe.
func (e *Environment) IsLand(x, y float64) bool {
	for _, f := range e.Floes {
		if f.Contains(x, y) {
			return true
		}
	}
	return false
}

// IsSea reports whether the point is open water.
func (e *Environment) IsSea(x, y float64) bool {
	return !e.IsLand(x, y)
}

// FloeAt returns the floe containing the point, or nil in open water.
func (e *Environment) FloeAt(x, y float64) *Floe {
	for _, f := range e.Floes {
		if f.Contains(x, y) {
			return f
		}
	}
	return nil
}

// NearestFloe returns the floe whose center is closest to the point.
// Returns nil only when the map has no floes at all.
func (e *Environment) NearestFloe(x, y float64) *Floe {
	var nearest *Floe
	best := math.Inf(1)
	for _, f := range e.Floes {
		dx, dy := f.X-x, f.Y-y
		d := dx*dx + dy*dy
		if d < best {
			best = d
			nearest = f
		}
	}
	return nearest
}

// SeasonIndex returns the current season as 0 spring, 1 summer, 2 autumn,
// 3 winter.
func (e *Environment) SeasonIndex() int {
	return e.Season / e.seasonLength
}

// IceThickness estimates the ice thickness at a point: land floes are thick,
// cold sea carries a thin skin of ice.
func (e *Environment) IceThickness(x, y float64) float64 {
	if e.IsLand(x, y) {
		return 2.0
	}
	if e.Temperature < -5 {
		return math.Min(1.0, math.Abs(e.Temperature)/20.0)
	}
	return 0.0
}

// Tick advances the season counter, updates temperature, and drifts the floes.
func (e *Environment) Tick() {
	e.Season = (e.Season + 1) % (4 * e.seasonLength)
	e.Temperature = e.seasonTemperature()
	e.driftFloes()
}

// seasonTemperature maps the season counter onto a yearly temperature curve:
// spring warms, summer peaks, autumn cools, winter plunges.
func (e *Environment) seasonTemperature() float64 {
	factor := float64(e.Season) / float64(e.seasonLength)
	switch {
	case factor < 1: // spring
		return -5 + factor*5
	case factor < 2: // summer
		return 0 + (factor-1)*5
	case factor < 3: // autumn
		return 5 - (factor-2)*5
	default: // winter
		return 0 - (factor-3)*10
	}
}

// driftFloes pushes each floe slowly eastward, with a noise-modulated lateral
// wander so floes do not march in lockstep. Centers wrap at the map edge.
func (e *Environment) driftFloes() {
	e.ticks += 0.002
	w, h := float64(e.Width), float64(e.Height)
	for _, f := range e.Floes {
		lateral := e.driftNoise.Eval2(f.X*0.01, e.ticks)*2 - 1 // [-1, 1]
		f.X += e.driftSpeed
		f.Y += lateral * e.driftSpeed
		if f.X > w {
			f.X = 0
		}
		if f.Y > h {
			f.Y = 0
		} else if f.Y < 0 {
			f.Y = h
		}
	}
}
