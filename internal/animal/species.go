// Package animal provides the animal data model: a closed species variant
// with shared fields in one record, per-species constant tables, and the
// lifecycle rules (energy, aging, cooldowns, breeding eligibility) common to
// the whole ecosystem. Behavior dispatch switches on the species tag; there
// is no virtual hierarchy.
package animal

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/loolos/Antarctica/internal/config"
)

// Species tags an animal record with its kind.
type Species uint8

const (
	SpeciesPenguin Species = iota
	SpeciesSeal
	SpeciesFish
	NumSpecies
)

// String returns the lowercase species name.
func (s Species) String() string {
	switch s {
	case SpeciesPenguin:
		return "penguin"
	case SpeciesSeal:
		return "seal"
	default:
		return "fish"
	}
}

// Medium classifies a position as land or sea. An animal's medium is derived
// from the terrain each tick, never set independently.
type Medium uint8

const (
	MediumLand Medium = iota
	MediumSea
)

// String returns the wire name of the medium.
func (m Medium) String() string {
	if m == MediumLand {
		return "land"
	}
	return "sea"
}

// State is the active behavior state governing this tick's movement intent.
type State uint8

const (
	StateIdle State = iota
	StateSearching
	StateTargeting
	StateFleeing
	StateSocial
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case StateSearching:
		return "searching"
	case StateTargeting:
		return "targeting"
	case StateFleeing:
		return "fleeing"
	case StateSocial:
		return "social"
	default:
		return "idle"
	}
}

// Params are the fixed constants of one species, immutable at runtime.
type Params struct {
	Species          Species
	MaxEnergy        float64
	MaxAge           int
	LandSpeed        float64
	WaterSpeed       float64
	BreedingCooldown int
	BreedEnergy      float64
	BreedCost        float64
	BreedDistance    float64
	OffspringEnergy  float64
}

// Table holds the parameters of every species, indexed by tag.
type Table [NumSpecies]Params

// TableFromConfig builds the species table from the loaded configuration.
func TableFromConfig(cfg *config.Config) *Table {
	var t Table
	for sp, sc := range map[Species]config.SpeciesConfig{
		SpeciesPenguin: cfg.Penguin,
		SpeciesSeal:    cfg.Seal,
		SpeciesFish:    cfg.Fish,
	} {
		t[sp] = Params{
			Species:          sp,
			MaxEnergy:        sc.MaxEnergy,
			MaxAge:           sc.MaxAge,
			LandSpeed:        sc.LandSpeed,
			WaterSpeed:       sc.WaterSpeed,
			BreedingCooldown: sc.BreedingCooldown,
			BreedEnergy:      sc.BreedEnergy,
			BreedCost:        sc.BreedCost,
			BreedDistance:    sc.BreedDistance,
			OffspringEnergy:  sc.OffspringEnergy,
		}
	}
	return &t
}

// For returns the parameters of a species.
func (t *Table) For(s Species) *Params { return &t[s] }

// CanFlee reports whether a species has predator-avoidance behavior.
// Only penguins flee: seals have no predator here, fish rely on dispersal.
func CanFlee(s Species) bool { return s == SpeciesPenguin }

// BreedsPaired reports whether a species breeds through on-land pairing.
// Fish breed opportunistically in open water instead.
func BreedsPaired(s Species) bool {
	return s == SpeciesPenguin || s == SpeciesSeal
}

// PreysOn returns the species a predator hunts in the given medium.
// Seals take penguins in either medium and fish in the sea; penguins take
// fish in the sea; fish hunt nothing.
func PreysOn(s Species, m Medium) []Species {
	switch s {
	case SpeciesSeal:
		if m == MediumSea {
			return []Species{SpeciesPenguin, SpeciesFish}
		}
		return []Species{SpeciesPenguin}
	case SpeciesPenguin:
		if m == MediumSea {
			return []Species{SpeciesFish}
		}
		return nil
	default:
		return nil
	}
}

// PredatorsOf returns the species that hunt the given species.
func PredatorsOf(s Species) []Species {
	switch s {
	case SpeciesPenguin:
		return []Species{SpeciesSeal}
	case SpeciesFish:
		return []Species{SpeciesSeal, SpeciesPenguin}
	default:
		return nil
	}
}

// NewID mints a unique id for an animal of a species. Ids are opaque handles;
// the species prefix exists only to make logs and wire payloads readable.
func NewID(s Species) string {
	return fmt.Sprintf("%s-%s", s, uuid.NewString())
}
