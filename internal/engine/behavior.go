// Behavior state machine: the inline, priority-ordered decision procedure
// run once per animal per tick. Priority is fleeing > targeting > social >
// searching > idle; the first state whose conditions hold supplies the
// movement intent, which then goes through the shared movement pipeline
// (edge constraint, speed normalization, boundary handling).
package engine

import (
	"math"

	"github.com/loolos/Antarctica/internal/animal"
)

// moveAnimal derives the animal's medium from terrain, runs the decision
// procedure, and applies the resulting movement intent.
func (e *Engine) moveAnimal(a *animal.Animal) {
	if e.world.Env.IsLand(a.X, a.Y) {
		a.Medium = animal.MediumLand
	} else {
		a.Medium = animal.MediumSea
	}

	var dx, dy float64
	if a.Species == animal.SpeciesFish {
		dx, dy = e.fishIntent(a)
	} else {
		dx, dy = e.decide(a)
	}

	if dx != 0 || dy != 0 {
		dx, dy = e.constrainNearEdges(a.X, a.Y, dx, dy)
		dx, dy = limitSpeed(a, dx, dy, e.cfg.Behavior.ExplorationSpeedCap)
	}

	hit := a.Move(dx, dy, float64(e.world.Env.Width), float64(e.world.Env.Height), e.cfg.Energy.MoveCost)
	if hit {
		e.onBoundaryHit(a)
	}
	e.grid.Relocate(a.ID, a.X, a.Y)
}

// decide selects this tick's movement intent for a penguin or seal.
func (e *Engine) decide(a *animal.Animal) (float64, float64) {
	b := e.cfg.Behavior
	frac := a.EnergyFraction()

	// 1. Fleeing overrides everything for predator-sensitive species.
	if animal.CanFlee(a.Species) {
		if dx, dy, ok := e.fleeIntent(a, frac); ok {
			return dx, dy
		}
	} else if a.State == animal.StateFleeing {
		a.State = animal.StateIdle
	}

	// 2. Targeting: keep chasing a remembered prey.
	if a.State == animal.StateTargeting {
		if dx, dy, ok := e.targetIntent(a); ok {
			return dx, dy
		}
		// Target lost and no replacement; lower priorities take over.
	}

	// 3. Social: well-fed animals head for land and congregate.
	if frac > b.SocialThreshold {
		a.State = animal.StateSocial
		a.TargetID = ""
		return e.socialIntent(a)
	}

	// 4. Searching: hungry and off hunting cooldown.
	if frac < b.HuntingThreshold && a.HuntingCooldown == 0 {
		if a.State != animal.StateSearching {
			a.State = animal.StateSearching
			a.Heading = e.rng.Angle()
			a.HeadingTicks = e.rng.IntBetween(b.SearchHoldMin, b.SearchHoldMax)
		}
		return e.searchIntent(a)
	}

	// 5. Idle: dispersal steering, then active exploration.
	if a.State != animal.StateIdle {
		a.State = animal.StateIdle
		a.TargetID = ""
		a.HeadingTicks = 0
	}
	return e.idleIntent(a, frac)
}

// fleeIntent handles the Fleeing state. Entry happens when a predator comes
// within the medium-dependent perception radius; animals are less aware of
// danger on land. The flee heading is fixed on entry (away from the predator
// plus jitter, bent inward near edges) and held for the full flee cooldown
// regardless of whether the predator stays visible.
func (e *Engine) fleeIntent(a *animal.Animal, frac float64) (float64, float64, bool) {
	b := e.cfg.Behavior

	perception := b.PerceptionSea
	if a.Medium == animal.MediumLand {
		perception = b.PerceptionLand
	}

	if pred := e.nearestPredator(a, perception); pred != nil {
		if a.State != animal.StateFleeing || a.FleeCooldown == 0 {
			away := math.Atan2(a.Y-pred.Y, a.X-pred.X)
			if a.X == pred.X && a.Y == pred.Y {
				away = e.rng.Angle()
			}
			away += e.rng.Range(-b.FleeJitter, b.FleeJitter)
			dx, dy := e.constrainNearEdges(a.X, a.Y, math.Cos(away), math.Sin(away))
			a.Heading = math.Atan2(dy, dx)
			a.FleeCooldown = b.FleeHoldTicks
			a.State = animal.StateFleeing
			a.TargetID = ""
		}
	}

	if a.State != animal.StateFleeing {
		return 0, 0, false
	}

	if a.FleeCooldown > 0 {
		step := e.rng.Range(b.SearchStepMin, b.SearchStepMax)
		return math.Cos(a.Heading) * step, math.Sin(a.Heading) * step, true
	}

	// Hold expired with no predator in range: stand down.
	if frac < b.HuntingThreshold && a.HuntingCooldown == 0 {
		a.State = animal.StateSearching
		a.Heading = e.rng.Angle()
		a.HeadingTicks = e.rng.IntBetween(b.SearchHoldMin, b.SearchHoldMax)
	} else {
		a.State = animal.StateIdle
		a.HeadingTicks = 0
	}
	return 0, 0, false
}

// targetIntent handles the Targeting state: re-resolve the weak target
// reference, chase while it stays within the tracking limit, retarget to the
// nearest valid prey when it is lost, and otherwise give the turn back to
// the lower-priority states.
func (e *Engine) targetIntent(a *animal.Animal) (float64, float64, bool) {
	b := e.cfg.Behavior

	prey := e.resolve(a.TargetID)
	if prey != nil && prey.IsAlive() && e.isValidPrey(a, prey) {
		if a.DistanceTo(prey) <= b.MaxTrackingDistance {
			return prey.X - a.X, prey.Y - a.Y, true
		}
	}

	// Tracked prey died, became invalid, or slipped out of range.
	if next := e.nearestPrey(a, b.RetargetRadius); next != nil {
		a.TargetID = next.ID
		return next.X - a.X, next.Y - a.Y, true
	}

	a.TargetID = ""
	a.State = animal.StateIdle
	a.HeadingTicks = 0
	return 0, 0, false
}

// searchIntent handles the Searching state: hold a random heading for a
// randomized duration, scanning for prey every tick.
func (e *Engine) searchIntent(a *animal.Animal) (float64, float64) {
	b := e.cfg.Behavior

	if prey := e.nearestPrey(a, b.SearchRadius); prey != nil {
		a.State = animal.StateTargeting
		a.TargetID = prey.ID
		a.HeadingTicks = 0
		return prey.X - a.X, prey.Y - a.Y
	}

	if a.HeadingTicks <= 0 {
		a.Heading = e.rng.Angle()
		a.HeadingTicks = e.rng.IntBetween(b.SearchHoldMin, b.SearchHoldMax)
	}
	a.HeadingTicks--

	step := e.rng.Range(b.SearchStepMin, b.SearchStepMax)
	return math.Cos(a.Heading) * step, math.Sin(a.Heading) * step
}

// socialIntent handles the Social state: off land, head for the nearest
// floe; on land, disperse when crowded and otherwise drift gently toward a
// conspecific.
func (e *Engine) socialIntent(a *animal.Animal) (float64, float64) {
	b := e.cfg.Behavior

	if a.Medium == animal.MediumSea {
		if f := e.world.Env.NearestFloe(a.X, a.Y); f != nil {
			return f.X - a.X, f.Y - a.Y
		}
		// Degenerate map with no floes: wander instead.
		angle := e.rng.Angle()
		step := e.exploreSea()
		return math.Cos(angle) * step, math.Sin(angle) * step
	}

	neighbors := e.sameSpeciesNearby(a, b.CrowdRadiusLand, animal.MediumLand)
	if len(neighbors) == 0 {
		return e.exploreFloe(a)
	}

	if len(neighbors) > b.CrowdLimit {
		dx, dy := awayFromCentroid(a, neighbors)
		if math.Abs(dx) < 5 && math.Abs(dy) < 5 {
			dx += e.rng.Range(-20, 20)
			dy += e.rng.Range(-20, 20)
		}
		return dx, dy
	}

	// Gentle attraction toward one nearby conspecific.
	buddy := neighbors[e.rng.IntN(len(neighbors))]
	dx := buddy.X - a.X
	dy := buddy.Y - a.Y
	if math.Abs(dx) < 3 && math.Abs(dy) < 3 {
		angle := e.rng.Angle()
		dx += math.Cos(angle) * 10
		dy += math.Sin(angle) * 10
	}
	return dx, dy
}

// idleIntent handles the Idle default: dispersal steering first (same-type
// repulsion when crowded, low energy disperses, high energy on land groups),
// then active exploration toward floe interior or open sea.
func (e *Engine) idleIntent(a *animal.Animal, frac float64) (float64, float64) {
	b := e.cfg.Behavior

	if a.Medium == animal.MediumSea {
		// Spread out while foraging: repulsion from the local cluster.
		neighbors := e.sameSpeciesNearby(a, b.CrowdRadiusSea, animal.MediumSea)
		if len(neighbors) > 0 {
			dx, dy := awayFromCentroid(a, neighbors)
			dist := math.Hypot(dx, dy)
			switch {
			case dist < 0.1:
				angle := e.rng.Angle()
				return math.Cos(angle) * 50, math.Sin(angle) * 50
			case dist < 30:
				return dx * 2, dy * 2
			case math.Abs(dx) < 5 && math.Abs(dy) < 5:
				angle := e.rng.Angle()
				return dx + math.Cos(angle)*30, dy + math.Sin(angle)*30
			default:
				return dx, dy
			}
		}
		// Open water, nobody around: explore a larger area.
		angle := e.rng.Angle()
		step := e.exploreSea()
		return math.Cos(angle) * step, math.Sin(angle) * step
	}

	neighbors := e.sameSpeciesNearby(a, b.CrowdRadiusLand, animal.MediumLand)
	if len(neighbors) > 0 {
		if frac > b.HuntingThreshold && len(neighbors) <= b.CrowdLimit {
			// Energy to spare: loose grouping.
			buddy := neighbors[e.rng.IntN(len(neighbors))]
			return buddy.X - a.X, buddy.Y - a.Y
		}
		// Crowded or conserving energy: disperse.
		dx, dy := awayFromCentroid(a, neighbors)
		if math.Abs(dx) < 5 && math.Abs(dy) < 5 {
			angle := e.rng.Angle()
			return math.Cos(angle) * 40, math.Sin(angle) * 40
		}
		return dx * 1.5, dy * 1.5
	}

	return e.exploreFloe(a)
}

// fishIntent gives fish their fixed behavior: small random dispersal, with a
// hard swim-away from any floe they drift too close to. Fish have no
// behavior states.
func (e *Engine) fishIntent(a *animal.Animal) (float64, float64) {
	dx := e.rng.Range(-10, 10)
	dy := e.rng.Range(-10, 10)

	for _, f := range e.world.Env.Floes {
		ddx := a.X - f.X
		ddy := a.Y - f.Y
		margin := f.Radius + 20
		if ddx*ddx+ddy*ddy < margin*margin {
			return ddx, ddy
		}
	}
	return dx, dy
}

// exploreFloe picks a point in the interior of the animal's current floe to
// wander toward; off-floe land (possible while a floe drifts away) falls
// back to an unanchored exploration step.
func (e *Engine) exploreFloe(a *animal.Animal) (float64, float64) {
	f := e.world.Env.FloeAt(a.X, a.Y)
	if f == nil {
		angle := e.rng.Angle()
		step := 30 + e.rng.Range(0, 50)
		return math.Cos(angle) * step, math.Sin(angle) * step
	}

	angle := e.rng.Angle()
	reach := f.Radius * e.rng.Range(0.3, 0.6)
	dx := f.X + math.Cos(angle)*reach - a.X
	dy := f.Y + math.Sin(angle)*reach - a.Y
	if math.Abs(dx) < 10 && math.Abs(dy) < 10 {
		extra := e.rng.Angle()
		step := 20 + e.rng.Range(0, 30)
		dx += math.Cos(extra) * step
		dy += math.Sin(extra) * step
	}
	return dx, dy
}

// exploreSea returns an open-water exploration step length.
func (e *Engine) exploreSea() float64 {
	return 50 + e.rng.Range(0, 100)
}

// nearestPredator returns the closest live predator of the animal within the
// radius, using the spatial index.
func (e *Engine) nearestPredator(a *animal.Animal, radius float64) *animal.Animal {
	predators := animal.PredatorsOf(a.Species)
	if len(predators) == 0 {
		return nil
	}
	return e.nearestMatching(a, radius, func(c *animal.Animal) bool {
		for _, s := range predators {
			if c.Species == s {
				return true
			}
		}
		return false
	})
}

// nearestPrey returns the closest valid prey of the animal within the radius.
func (e *Engine) nearestPrey(a *animal.Animal, radius float64) *animal.Animal {
	if len(animal.PreysOn(a.Species, a.Medium)) == 0 {
		return nil
	}
	return e.nearestMatching(a, radius, func(c *animal.Animal) bool {
		return e.isValidPrey(a, c)
	})
}

// nearestMatching scans the spatial index around the animal and returns the
// closest live candidate accepted by the filter.
func (e *Engine) nearestMatching(a *animal.Animal, radius float64, accept func(*animal.Animal) bool) *animal.Animal {
	var best *animal.Animal
	bestSq := radius * radius
	for _, id := range e.grid.QueryRadius(a.X, a.Y, radius, a.ID) {
		c := e.byID[id]
		if c == nil || !c.IsAlive() || !accept(c) {
			continue
		}
		dx := c.X - a.X
		dy := c.Y - a.Y
		d := dx*dx + dy*dy
		if d < bestSq {
			bestSq = d
			best = c
		}
	}
	return best
}

// isValidPrey reports whether c is prey the predator can pursue right now:
// the species pair must be in the predator's prey set for its medium, and
// non-fish prey must share the predator's medium.
func (e *Engine) isValidPrey(a, c *animal.Animal) bool {
	for _, s := range animal.PreysOn(a.Species, a.Medium) {
		if c.Species != s {
			continue
		}
		if c.Species == animal.SpeciesFish {
			return true
		}
		return c.Medium == a.Medium
	}
	return false
}

// sameSpeciesNearby returns live conspecifics within the radius that share
// the given medium.
func (e *Engine) sameSpeciesNearby(a *animal.Animal, radius float64, m animal.Medium) []*animal.Animal {
	var out []*animal.Animal
	for _, id := range e.grid.QueryRadius(a.X, a.Y, radius, a.ID) {
		c := e.byID[id]
		if c != nil && c.IsAlive() && c.Species == a.Species && c.Medium == m {
			out = append(out, c)
		}
	}
	return out
}

// awayFromCentroid returns the vector from the neighbors' centroid to the
// animal: the direction that spreads the group out.
func awayFromCentroid(a *animal.Animal, neighbors []*animal.Animal) (float64, float64) {
	var cx, cy float64
	for _, n := range neighbors {
		cx += n.X
		cy += n.Y
	}
	cx /= float64(len(neighbors))
	cy /= float64(len(neighbors))
	return a.X - cx, a.Y - cy
}

// limitSpeed normalizes an intent vector to the species speed for the
// current medium. Large exploration vectors may exceed it by a bounded
// multiplier so distant targets stay reachable.
func limitSpeed(a *animal.Animal, dx, dy, speedCap float64) (float64, float64) {
	dist := math.Hypot(dx, dy)
	if dist == 0 {
		return 0, 0
	}
	speed := a.Speed()
	if speed <= 0 {
		speed = 0.1
	}
	if dist > speed*3 {
		mult := math.Min(speedCap, 1.0+dist/(speed*10))
		speed *= mult
	}
	return dx / dist * speed, dy / dist * speed
}

// onBoundaryHit adjusts steering scratch state after a wall collision.
// Fleeing animals keep their already-fixed heading; searching animals
// reflect the heading with jitter and restart the hold.
func (e *Engine) onBoundaryHit(a *animal.Animal) {
	b := e.cfg.Behavior
	switch a.State {
	case animal.StateFleeing:
		// Heading stays fixed for the rest of the hold.
	case animal.StateSearching:
		a.Heading = math.Mod(a.Heading+math.Pi, 2*math.Pi) + e.rng.Range(-0.5, 0.5)
		a.HeadingTicks = e.rng.IntBetween(b.SearchHoldMin, b.SearchHoldMax)
	}
}

// constrainNearEdges restricts a movement direction to the 180° arc facing
// inward when the position is within the edge margin, so animals cannot pin
// themselves against a wall. Corners are more restrictive: only the diagonal
// quadrant pointing back into the map is allowed. Magnitude is preserved.
func (e *Engine) constrainNearEdges(x, y, dx, dy float64) (float64, float64) {
	margin := e.cfg.Behavior.EdgeMargin
	w := float64(e.world.Env.Width)
	h := float64(e.world.Env.Height)

	nearLeft := x < margin
	nearRight := x > w-margin
	nearTop := y < margin
	nearBottom := y > h-margin
	if !nearLeft && !nearRight && !nearTop && !nearBottom {
		return dx, dy
	}

	angle := math.Atan2(dy, dx)
	if angle < 0 {
		angle += 2 * math.Pi
	}
	dist := math.Hypot(dx, dy)

	// Angles: 0 = +x (right), π/2 = +y (down), π = left, 3π/2 = up.
	if nearBottom && angle > math.Pi/4 && angle < 3*math.Pi/4 {
		if angle < math.Pi/2 {
			angle = math.Pi / 4
		} else {
			angle = 3 * math.Pi / 4
		}
	}
	if nearTop && angle > 5*math.Pi/4 && angle < 7*math.Pi/4 {
		if angle < 3*math.Pi/2 {
			angle = 5 * math.Pi / 4
		} else {
			angle = 7 * math.Pi / 4
		}
	}
	if nearLeft && angle > 3*math.Pi/4 && angle < 5*math.Pi/4 {
		if angle < math.Pi {
			angle = 3 * math.Pi / 4
		} else {
			angle = 5 * math.Pi / 4
		}
	}
	if nearRight && (angle > 7*math.Pi/4 || angle < math.Pi/4) {
		if angle > 7*math.Pi/4 {
			angle = 7 * math.Pi / 4
		} else {
			angle = math.Pi / 4
		}
	}

	// Corners: force the diagonal pointing back into the map.
	switch {
	case nearLeft && nearTop:
		if !(angle > math.Pi/8 && angle < 3*math.Pi/8) {
			angle = math.Pi / 4
		}
	case nearRight && nearTop:
		if !(angle > 5*math.Pi/8 && angle < 7*math.Pi/8) {
			angle = 3 * math.Pi / 4
		}
	case nearLeft && nearBottom:
		if !(angle > 13*math.Pi/8 || angle < math.Pi/8) {
			angle = 7 * math.Pi / 4
		}
	case nearRight && nearBottom:
		if !(angle > 9*math.Pi/8 && angle < 11*math.Pi/8) {
			angle = 5 * math.Pi / 4
		}
	}

	return math.Cos(angle) * dist, math.Sin(angle) * dist
}
