package engine

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// Speed multiplier bounds for SetSpeed.
const (
	minSpeed = 0.1
	maxSpeed = 10.0
)

// ErrSpeedRange rejects speed multipliers outside 0.1–10.0.
var ErrSpeedRange = errors.New("speed multiplier must be between 0.1 and 10.0")

// Driver owns the engine and serializes all access to it: the background
// tick loop, manual steps from the API, resets, and snapshot reads all go
// through the driver's mutex. Each driver tick broadcasts a snapshot to SSE
// subscribers.
type Driver struct {
	mu  sync.Mutex
	eng *Engine

	baseInterval time.Duration
	speed        float64
	running      bool

	subs      map[int]chan Snapshot
	nextSubID int

	// OnReport, when set, is called every ReportInterval ticks with fresh
	// stats and the drained event backlog. It runs under the driver lock;
	// keep it quick.
	OnReport       func(SimStats, []Event)
	ReportInterval int
}

// NewDriver wraps the engine with a tick loop running at ticksPerSecond
// when started.
func NewDriver(eng *Engine, ticksPerSecond float64) *Driver {
	if ticksPerSecond <= 0 {
		ticksPerSecond = 1
	}
	return &Driver{
		eng:          eng,
		baseInterval: time.Duration(float64(time.Second) / ticksPerSecond),
		speed:        1.0,
		subs:         make(map[int]chan Snapshot),
	}
}

// Run drives the tick loop until the context is canceled. Ticks advance
// only while the driver is running; the loop keeps polling while stopped so
// Start takes effect without a separate wakeup.
func (d *Driver) Run(ctx context.Context) {
	for {
		d.mu.Lock()
		interval := time.Duration(float64(d.baseInterval) / d.speed)
		active := d.running
		d.mu.Unlock()

		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			d.closeSubs()
			return
		case <-timer.C:
		}

		if !active {
			continue
		}
		d.mu.Lock()
		d.eng.TickOnce()
		d.afterTickLocked()
		d.mu.Unlock()
	}
}

// afterTickLocked broadcasts a snapshot and fires the report hook. Callers
// hold d.mu.
func (d *Driver) afterTickLocked() {
	if len(d.subs) > 0 {
		snap := d.eng.Snapshot()
		for _, ch := range d.subs {
			select {
			case ch <- snap:
			default: // slow consumer drops frames, never blocks the loop
			}
		}
	}
	if d.OnReport != nil && d.ReportInterval > 0 && d.eng.TickCount()%d.ReportInterval == 0 {
		d.OnReport(d.eng.Stats(), d.eng.DrainEvents())
	}
}

// Start enables the background tick loop.
func (d *Driver) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.running {
		d.running = true
		slog.Info("simulation started", "tick", d.eng.TickCount())
	}
}

// Stop pauses the background tick loop. Manual Step still works.
func (d *Driver) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.running {
		d.running = false
		slog.Info("simulation stopped", "tick", d.eng.TickCount())
	}
}

// Running reports whether the background loop is advancing ticks.
func (d *Driver) Running() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.running
}

// SetSpeed adjusts the tick rate multiplier.
func (d *Driver) SetSpeed(mult float64) error {
	if mult < minSpeed || mult > maxSpeed {
		return ErrSpeedRange
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.speed = mult
	slog.Info("speed changed", "multiplier", mult)
	return nil
}

// Speed returns the current tick rate multiplier.
func (d *Driver) Speed() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.speed
}

// Step advances the simulation by n ticks synchronously.
func (d *Driver) Step(n int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.eng.Step(n); err != nil {
		return err
	}
	d.afterTickLocked()
	return nil
}

// Reset rebuilds the world and broadcasts the fresh state.
func (d *Driver) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.eng.Reset()
	d.afterTickLocked()
}

// Snapshot returns a consistent copy of the world state.
func (d *Driver) Snapshot() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.eng.Snapshot()
}

// Stats returns the current run statistics.
func (d *Driver) Stats() SimStats {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.eng.Stats()
}

// Subscribe registers an SSE consumer. Each driver tick delivers one
// snapshot; frames are dropped rather than buffered when the consumer lags.
func (d *Driver) Subscribe() (int, <-chan Snapshot) {
	d.mu.Lock()
	defer d.mu.Unlock()
	id := d.nextSubID
	d.nextSubID++
	ch := make(chan Snapshot, 4)
	d.subs[id] = ch
	return id, ch
}

// Unsubscribe removes an SSE consumer.
func (d *Driver) Unsubscribe(id int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if ch, ok := d.subs[id]; ok {
		delete(d.subs, id)
		close(ch)
	}
}

func (d *Driver) closeSubs() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for id, ch := range d.subs {
		delete(d.subs, id)
		close(ch)
	}
}
