package result

import "time"

// State is the machine's view of the screen.
type State int

const (
	StateIdle State = iota
	StateInResult
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateInResult:
		return "in_result"
	default:
		return "unknown"
	}
}

// Suppression explains why an edge did not notify.
type Suppression int

const (
	NotSuppressed Suppression = iota
	SuppressedByMode
	SuppressedByCooldown
)

func (s Suppression) String() string {
	switch s {
	case SuppressedByMode:
		return "mode"
	case SuppressedByCooldown:
		return "cooldown"
	default:
		return "none"
	}
}

// Params are the tunables read once per tick.
type Params struct {
	Threshold  float64
	Hysteresis float64
	Cooldown   time.Duration
	Mode       NotifyMode
}

// Rearm is the score below which an in-result machine returns to idle.
func (p Params) Rearm() float64 { return p.Threshold - p.Hysteresis }

// Step reports what a single Feed did.
type Step struct {
	Prev, Next State
	Edge       bool // idle -> in_result on this tick
	Outcome    Outcome
	Score      float64
	Notify     bool
	Suppressed Suppression
}

// Event builds the event to deliver for a notifying step.
func (s Step) Event(at time.Time) Event {
	return Event{Outcome: s.Outcome, Score: s.Score, At: at}
}

// Machine turns per-tick scores into edge-triggered result events.
// Not safe for concurrent use; the detector loop owns one instance per run.
type Machine struct {
	state      State
	lastNotify time.Time
	notified   bool
}

// NewMachine returns a machine in the idle state that has never notified.
func NewMachine() *Machine { return &Machine{} }

// State returns the current state.
func (m *Machine) State() State { return m.state }

// InResult reports whether a result screen is currently being shown.
func (m *Machine) InResult() bool { return m.state == StateInResult }

// LastNotify returns the time of the last emitted event, if any.
func (m *Machine) LastNotify() (time.Time, bool) { return m.lastNotify, m.notified }

// Reset returns the machine to idle with no notification history.
func (m *Machine) Reset() {
	m.state = StateIdle
	m.lastNotify = time.Time{}
	m.notified = false
}

// Feed advances the machine with one tick of scores observed at now.
func (m *Machine) Feed(s Scores, p Params, now time.Time) Step {
	best := s.Best()
	step := Step{Prev: m.state, Next: m.state, Score: best}
	switch m.state {
	case StateIdle:
		if best < p.Threshold {
			return step
		}
		step.Edge = true
		step.Outcome = s.Outcome()
		switch {
		case !p.Mode.Allows(step.Outcome):
			step.Suppressed = SuppressedByMode
		case m.coolingDown(p.Cooldown, now):
			step.Suppressed = SuppressedByCooldown
		default:
			step.Notify = true
			m.lastNotify = now
			m.notified = true
		}
		m.state = StateInResult
	case StateInResult:
		if best < p.Rearm() {
			m.state = StateIdle
		}
	}
	step.Next = m.state
	return step
}

func (m *Machine) coolingDown(cooldown time.Duration, now time.Time) bool {
	if !m.notified || cooldown <= 0 {
		return false
	}
	return now.Sub(m.lastNotify) < cooldown
}
