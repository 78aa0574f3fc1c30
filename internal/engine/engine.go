package engine

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/loolos/Antarctica/internal/animal"
	"github.com/loolos/Antarctica/internal/config"
	"github.com/loolos/Antarctica/internal/entropy"
	"github.com/loolos/Antarctica/internal/environment"
	"github.com/loolos/Antarctica/internal/spatial"
)

// maxStepBatch is the largest number of ticks one Step call may advance.
const maxStepBatch = 100

// ErrStepCount rejects out-of-range step counts at the engine boundary.
var ErrStepCount = errors.New("step count must be between 1 and 100")

// Engine is the simulation core. It is single-threaded and synchronous:
// a tick runs to completion with no internal parallelism, and callers must
// serialize Step/Reset against concurrent snapshot reads (see Driver).
type Engine struct {
	cfg   *config.Config
	rng   *entropy.Source
	table *animal.Table

	world *WorldState
	grid  *spatial.Grid
	byID  map[string]*animal.Animal

	events   []Event
	counters Counters
}

// Counters accumulates lifecycle totals over the run.
type Counters struct {
	Births int
	Deaths int
	Kills  int
	Spawns int
}

// New creates an engine, generates terrain, and seeds the initial
// populations at terrain-consistent positions.
func New(cfg *config.Config, rng *entropy.Source) *Engine {
	e := &Engine{
		cfg:   cfg,
		rng:   rng,
		table: animal.TableFromConfig(cfg),
	}
	e.buildWorld()
	slog.Info("world seeded",
		"seed", rng.Seed(),
		"penguins", len(e.world.Penguins),
		"seals", len(e.world.Seals),
		"fish", len(e.world.Fish),
		"floes", len(e.world.Env.Floes),
	)
	return e
}

func (e *Engine) buildWorld() {
	cfg := e.cfg
	env := environment.Generate(cfg, e.rng)
	e.world = &WorldState{Env: env}
	e.grid = spatial.New(float64(env.Width), float64(env.Height), cfg.World.CellSize)
	e.byID = make(map[string]*animal.Animal)

	w := float64(env.Width)
	h := float64(env.Height)

	// Penguins start in the western strip: that is where the colonies are.
	pp := e.table.For(animal.SpeciesPenguin)
	for i := 0; i < cfg.World.InitialPenguins; i++ {
		a := animal.New(pp,
			e.rng.Range(0, w*0.3),
			e.rng.Range(0, h),
			e.rng.Range(cfg.Penguin.MinStartEnergy, cfg.Penguin.MaxStartEnergy),
		)
		e.insert(a)
	}

	// Seals patrol the eastern half.
	sp := e.table.For(animal.SpeciesSeal)
	for i := 0; i < cfg.World.InitialSeals; i++ {
		a := animal.New(sp,
			e.rng.Range(w*0.5, w),
			e.rng.Range(0, h),
			e.rng.Range(cfg.Seal.MinStartEnergy, cfg.Seal.MaxStartEnergy),
		)
		e.insert(a)
	}

	// Fish spawn only in open water.
	fp := e.table.For(animal.SpeciesFish)
	for i := 0; i < cfg.World.InitialFish; i++ {
		x, y := e.findSeaPosition()
		a := animal.New(fp, x, y,
			e.rng.Range(cfg.Fish.MinStartEnergy, cfg.Fish.MaxStartEnergy),
		)
		e.insert(a)
	}
}

// Step advances the simulation by n ticks. The 1..100 bound is the engine's
// only input validation; everything below this boundary assumes valid state.
func (e *Engine) Step(n int) error {
	if n < 1 || n > maxStepBatch {
		return fmt.Errorf("%w: got %d", ErrStepCount, n)
	}
	for i := 0; i < n; i++ {
		e.TickOnce()
	}
	return nil
}

// TickOnce executes one simulation tick: climate, behavior and movement for
// every animal, then predation, breeding, spawning, and dead-animal
// collection. An empty population is a valid, inert state.
func (e *Engine) TickOnce() {
	e.world.Tick++
	e.world.Env.Tick()
	e.updateAnimals()
	e.handlePredation()
	e.handleBreeding()
	e.handleSpawning()
	e.collectDead()
}

// Reset rebuilds the world with the same configuration and a fresh stream
// forked from the engine's RNG.
func (e *Engine) Reset() {
	e.rng = e.rng.Fork()
	e.events = nil
	e.counters = Counters{}
	e.buildWorld()
	slog.Info("simulation reset", "seed", e.rng.Seed())
}

// World returns the authoritative state. Read-only by convention: mutating
// it without going through the engine desynchronizes the spatial index.
func (e *Engine) World() *WorldState { return e.world }

// TickCount returns the current tick number.
func (e *Engine) TickCount() int { return e.world.Tick }

// updateAnimals runs aging, metabolism, and the behavior state machine for
// every live animal. Animals that die this tick stop acting immediately but
// stay in the collections until collectDead so within-tick logic always sees
// a consistent population.
func (e *Engine) updateAnimals() {
	metabolism := e.cfg.Energy.Metabolism
	for _, list := range [][]*animal.Animal{e.world.Penguins, e.world.Seals, e.world.Fish} {
		for _, a := range list {
			if !a.IsAlive() {
				continue
			}
			a.Tick(metabolism)
			if a.IsAlive() {
				e.moveAnimal(a)
			}
		}
	}
}

// insert adds an animal to the entity store and the spatial index.
// The position is clamped into bounds first; offspring jitter may land
// slightly outside the map.
func (e *Engine) insert(a *animal.Animal) {
	w := float64(e.world.Env.Width)
	h := float64(e.world.Env.Height)
	if a.X < 0 {
		a.X = 0
	} else if a.X > w-1 {
		a.X = w - 1
	}
	if a.Y < 0 {
		a.Y = 0
	} else if a.Y > h-1 {
		a.Y = h - 1
	}
	if e.world.Env.IsLand(a.X, a.Y) {
		a.Medium = animal.MediumLand
	} else {
		a.Medium = animal.MediumSea
	}

	list := e.world.speciesSlice(a.Species)
	*list = append(*list, a)
	e.byID[a.ID] = a
	e.grid.Insert(a.ID, a.X, a.Y)
}

// remove evicts an animal from the entity store and the spatial index.
func (e *Engine) remove(a *animal.Animal) {
	list := e.world.speciesSlice(a.Species)
	for i, b := range *list {
		if b.ID == a.ID {
			*list = append((*list)[:i], (*list)[i+1:]...)
			break
		}
	}
	delete(e.byID, a.ID)
	e.grid.Remove(a.ID)
}

// resolve looks an animal up by id. A nil result means "target lost".
func (e *Engine) resolve(id string) *animal.Animal {
	if id == "" {
		return nil
	}
	return e.byID[id]
}

// collectDead removes every animal whose energy or age has run out.
func (e *Engine) collectDead() {
	for _, list := range []*[]*animal.Animal{&e.world.Penguins, &e.world.Seals, &e.world.Fish} {
		alive := (*list)[:0]
		for _, a := range *list {
			if a.IsAlive() {
				alive = append(alive, a)
				continue
			}
			delete(e.byID, a.ID)
			e.grid.Remove(a.ID)
			e.counters.Deaths++
			e.recordEvent("death", fmt.Sprintf("%s died at age %d", a.ID, a.Age))
		}
		*list = alive
	}
}

// findSeaPosition rejection-samples a random open-water position. After the
// attempt budget it falls back to the eastern half, which is overwhelmingly
// sea with the default floe layout.
func (e *Engine) findSeaPosition() (float64, float64) {
	w := float64(e.world.Env.Width)
	h := float64(e.world.Env.Height)
	for i := 0; i < e.cfg.Spawning.SampleAttempts; i++ {
		x := e.rng.Range(0, w)
		y := e.rng.Range(0, h)
		if e.world.Env.IsSea(x, y) {
			return x, y
		}
	}
	return e.rng.Range(w*0.5, w), e.rng.Range(0, h)
}
