package engine

// maxEventBacklog bounds the in-memory event log between drains.
const maxEventBacklog = 1000

// Event is one narrated occurrence in the simulation: a birth, death,
// predation strike, or spawn.
type Event struct {
	Tick        int    `json:"tick" db:"tick"`
	Category    string `json:"category" db:"category"`
	Description string `json:"description" db:"description"`
}

func (e *Engine) recordEvent(category, description string) {
	e.events = append(e.events, Event{
		Tick:        e.world.Tick,
		Category:    category,
		Description: description,
	})
	if len(e.events) > maxEventBacklog {
		e.events = e.events[len(e.events)-maxEventBacklog:]
	}
}

// DrainEvents returns the events recorded since the last drain and clears
// the backlog.
func (e *Engine) DrainEvents() []Event {
	out := e.events
	e.events = nil
	return out
}

// Events returns the current backlog without clearing it.
func (e *Engine) Events() []Event {
	return e.events
}
