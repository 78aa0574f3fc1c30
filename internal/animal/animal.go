package animal

import (
	"math"

	"github.com/loolos/Antarctica/internal/entropy"
)

// Animal is one live entity. All species share this record; species-specific
// constants live in Params and species-specific rules dispatch on the tag.
type Animal struct {
	ID      string
	Species Species
	X, Y    float64
	Energy  float64
	Age     int

	// Derived from terrain each tick.
	Medium Medium

	// Behavior state machine.
	State    State
	TargetID string // weak reference: resolved by id each tick, cleared on loss

	// Cooldowns, decremented once per tick, never below zero.
	BreedingCooldown int
	HuntingCooldown  int
	FleeCooldown     int

	// Steering scratch: the held heading and how long to keep holding it.
	Heading      float64
	HeadingTicks int

	// Species constants (shared, immutable).
	P *Params
}

// New creates an animal of a species at a position.
func New(p *Params, x, y, energy float64) *Animal {
	return &Animal{
		ID:      NewID(p.Species),
		Species: p.Species,
		X:       x,
		Y:       y,
		Energy:  energy,
		P:       p,
	}
}

// IsAlive reports whether the animal is still part of the simulation.
func (a *Animal) IsAlive() bool {
	return a.Energy > 0 && a.Age < a.P.MaxAge
}

// Tick ages the animal, pays basal metabolism, and decrements cooldowns.
func (a *Animal) Tick(metabolism float64) {
	a.Age++
	a.ConsumeEnergy(metabolism)
	if a.BreedingCooldown > 0 {
		a.BreedingCooldown--
	}
	if a.HuntingCooldown > 0 {
		a.HuntingCooldown--
	}
	if a.FleeCooldown > 0 {
		a.FleeCooldown--
	}
}

// ConsumeEnergy drains energy, clamping at zero.
func (a *Animal) ConsumeEnergy(amount float64) {
	a.Energy = math.Max(0, a.Energy-amount)
}

// GainEnergy adds energy, clamping at the species maximum.
func (a *Animal) GainEnergy(amount float64) {
	a.Energy = math.Min(a.P.MaxEnergy, a.Energy+amount)
}

// EnergyFraction returns energy as a fraction of the species maximum.
func (a *Animal) EnergyFraction() float64 {
	return a.Energy / a.P.MaxEnergy
}

// Speed returns the species speed for the animal's current medium.
func (a *Animal) Speed() float64 {
	if a.Medium == MediumLand {
		return a.P.LandSpeed
	}
	return a.P.WaterSpeed
}

// DistanceTo returns the Euclidean distance to another animal.
func (a *Animal) DistanceTo(b *Animal) float64 {
	return a.DistanceToPoint(b.X, b.Y)
}

// DistanceToPoint returns the Euclidean distance to a point.
func (a *Animal) DistanceToPoint(x, y float64) float64 {
	dx := a.X - x
	dy := a.Y - y
	return math.Sqrt(dx*dx + dy*dy)
}

// Move applies a displacement, clamps the position into the map, pays the
// movement cost, and reports whether the animal ran into a boundary.
func (a *Animal) Move(dx, dy, width, height, moveCost float64) bool {
	nx := a.X + dx
	ny := a.Y + dy

	hit := false
	if nx < 0 {
		nx, hit = 0, true
	} else if nx > width-1 {
		nx, hit = width-1, true
	}
	if ny < 0 {
		ny, hit = 0, true
	} else if ny > height-1 {
		ny, hit = height-1, true
	}

	a.X = nx
	a.Y = ny
	a.ConsumeEnergy(moveCost)
	return hit
}

// CanBreed reports paired-breeding eligibility: cooldown expired, energy
// above the species threshold, and standing on land.
func (a *Animal) CanBreed() bool {
	return BreedsPaired(a.Species) &&
		a.BreedingCooldown == 0 &&
		a.Energy > a.P.BreedEnergy &&
		a.Medium == MediumLand
}

// Breed produces an offspring jittered near this parent and charges this
// parent the breeding cost plus a full cooldown. The caller charges the
// partner and inserts the offspring into the world.
func (a *Animal) Breed(rng *entropy.Source) *Animal {
	a.BreedingCooldown = a.P.BreedingCooldown
	a.ConsumeEnergy(a.P.BreedCost)

	jitter := 5.0
	if a.Species == SpeciesFish {
		jitter = 3.0
	}
	return New(a.P,
		a.X+rng.Range(-jitter, jitter),
		a.Y+rng.Range(-jitter, jitter),
		a.P.OffspringEnergy,
	)
}
