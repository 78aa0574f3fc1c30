package engine

import (
	"fmt"

	"github.com/loolos/Antarctica/internal/animal"
)

// handlePredation resolves strikes for the tick in a fixed pass order:
// seals on penguins, seals on fish, penguins on fish. A predator lands at
// most one strike per tick and is then locked out by its hunting cooldown.
// Prey is removed immediately so later passes never strike a carcass.
func (e *Engine) handlePredation() {
	p := e.cfg.Predation

	for _, seal := range e.world.Seals {
		e.tryStrike(seal, animal.SpeciesPenguin, p.SealPenguinDistance, p.SealPenguinEnergy)
	}
	for _, seal := range e.world.Seals {
		e.tryStrike(seal, animal.SpeciesFish, p.SealFishDistance, p.SealFishEnergy)
	}
	for _, penguin := range e.world.Penguins {
		e.tryStrike(penguin, animal.SpeciesFish, p.PenguinFishDistance, p.PenguinFishEnergy)
	}
}

// tryStrike lets the predator kill the nearest eligible prey of the given
// species within the strike distance.
func (e *Engine) tryStrike(pred *animal.Animal, species animal.Species, dist, gain float64) {
	if !pred.IsAlive() || pred.HuntingCooldown > 0 {
		return
	}

	var prey *animal.Animal
	bestSq := dist * dist
	for _, id := range e.grid.QueryRadius(pred.X, pred.Y, dist, pred.ID) {
		c := e.byID[id]
		if c == nil || c.Species != species || !c.IsAlive() {
			continue
		}
		if !e.strikeAllowed(pred, c) {
			continue
		}
		dx := c.X - pred.X
		dy := c.Y - pred.Y
		d := dx*dx + dy*dy
		if d <= bestSq {
			bestSq = d
			prey = c
		}
	}
	if prey == nil {
		return
	}

	pred.GainEnergy(gain)
	pred.HuntingCooldown = e.cfg.Behavior.HuntingCooldown
	pred.TargetID = ""
	pred.State = animal.StateIdle
	e.remove(prey)
	e.counters.Kills++
	e.counters.Deaths++
	e.recordEvent("predation", fmt.Sprintf("%s ate %s", pred.ID, prey.ID))
}

// strikeAllowed applies the medium rules for a predator/prey pair: fish are
// taken only by predators in the sea, while seal on penguin requires both to
// share a medium (ambush on a floe, or a chase in open water).
func (e *Engine) strikeAllowed(pred, prey *animal.Animal) bool {
	if prey.Species == animal.SpeciesFish {
		return pred.Medium == animal.MediumSea
	}
	return pred.Medium == prey.Medium
}
