package engine

import (
	"fmt"

	"github.com/loolos/Antarctica/internal/animal"
)

// handleBreeding runs paired breeding for penguins and seals, then the
// fish's opportunistic spawning. Offspring join the world mid-tick but have
// already had their turn, so they first act on the next tick.
func (e *Engine) handleBreeding() {
	e.breedPaired(e.world.Penguins, e.cfg.Penguin.BreedDistance)
	e.breedPaired(e.world.Seals, e.cfg.Seal.BreedDistance)
	e.breedFish()
}

// breedPaired pairs up eligible animals of one species. Candidates are
// shuffled and consumed sequentially, so each animal breeds at most once per
// tick and pairing is unbiased by insertion order.
func (e *Engine) breedPaired(list []*animal.Animal, maxDist float64) {
	var ready []*animal.Animal
	for _, a := range list {
		if a.IsAlive() && a.CanBreed() {
			ready = append(ready, a)
		}
	}
	if len(ready) < 2 {
		return
	}
	e.rng.Shuffle(len(ready), func(i, j int) {
		ready[i], ready[j] = ready[j], ready[i]
	})

	for i := 0; i+1 < len(ready); i += 2 {
		p1, p2 := ready[i], ready[i+1]
		if p1.DistanceTo(p2) > maxDist {
			continue
		}
		child := p1.Breed(e.rng)
		p2.ConsumeEnergy(p2.P.BreedCost)
		p2.BreedingCooldown = p2.P.BreedingCooldown
		e.insert(child)
		e.counters.Births++
		e.recordEvent("birth", fmt.Sprintf("%s born to %s and %s", child.ID, p1.ID, p2.ID))
	}
}

// breedFish gives the fish population a per-tick chance to breed. Pairing
// is positional like the paired species, but capped, and offspring must end
// up in open water.
func (e *Engine) breedFish() {
	if !e.rng.Chance(e.cfg.Breeding.FishChance) {
		return
	}

	var ready []*animal.Animal
	for _, f := range e.world.Fish {
		if f.IsAlive() && f.Energy > f.P.BreedEnergy {
			ready = append(ready, f)
		}
	}
	if len(ready) < 2 {
		return
	}
	e.rng.Shuffle(len(ready), func(i, j int) {
		ready[i], ready[j] = ready[j], ready[i]
	})

	maxDist := e.cfg.Fish.BreedDistance
	for i := 0; i+1 < len(ready) && i < 2*e.cfg.Breeding.FishMaxPairs; i += 2 {
		p1, p2 := ready[i], ready[i+1]
		if p1.DistanceTo(p2) > maxDist {
			continue
		}
		child := p1.Breed(e.rng)
		p2.ConsumeEnergy(p2.P.BreedCost)
		e.placeFish(child, p1.X, p1.Y)
		e.insert(child)
		e.counters.Births++
		e.recordEvent("birth", fmt.Sprintf("%s spawned near %s", child.ID, p1.ID))
	}
}

// placeFish keeps a new fish out of the ice: if the jittered position fell
// on a floe, resample near the parent, then fall back to any open water.
func (e *Engine) placeFish(f *animal.Animal, px, py float64) {
	if e.world.Env.IsSea(f.X, f.Y) {
		return
	}
	for i := 0; i < 10; i++ {
		x := px + e.rng.Range(-30, 30)
		y := py + e.rng.Range(-30, 30)
		if e.inBounds(x, y) && e.world.Env.IsSea(x, y) {
			f.X, f.Y = x, y
			return
		}
	}
	f.X, f.Y = e.findSeaPosition()
}

// handleSpawning tops the fish population back up when it collapses below
// the floor, modeling migration into the region.
func (e *Engine) handleSpawning() {
	s := e.cfg.Spawning
	if len(e.world.Fish) >= s.FishFloor || !e.rng.Chance(s.FishChance) {
		return
	}
	x, y := e.findSeaPosition()
	fp := e.table.For(animal.SpeciesFish)
	f := animal.New(fp, x, y,
		e.rng.Range(e.cfg.Fish.MinStartEnergy, e.cfg.Fish.MaxStartEnergy),
	)
	e.insert(f)
	e.counters.Spawns++
	e.recordEvent("spawn", fmt.Sprintf("%s migrated into the region", f.ID))
}

func (e *Engine) inBounds(x, y float64) bool {
	return x >= 0 && x < float64(e.world.Env.Width) &&
		y >= 0 && y < float64(e.world.Env.Height)
}
