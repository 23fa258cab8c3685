package model

import (
	"time"
)

// SessionModel tracks how long detection has been running in the current run
// and across all runs since launch. The zero value is ready to use.
type SessionModel struct {
	running  bool
	runStart time.Time
	lastRun  time.Duration
	total    time.Duration
}

// NewSessionModel returns a pointer to a ready-to-use SessionModel.
func NewSessionModel() *SessionModel { return &SessionModel{} }

// OnTick updates the model from the detector run state at now.
func (m *SessionModel) OnTick(running bool, now time.Time) {
	if m == nil {
		return
	}
	switch {
	case running && !m.running:
		m.running = true
		m.runStart = now
		m.lastRun = 0
	case running:
		m.lastRun = now.Sub(m.runStart)
	case m.running:
		m.lastRun = now.Sub(m.runStart)
		m.total += m.lastRun
		m.running = false
	}
}

// Values returns the current (or last) run duration and the total; the total
// includes a run in progress.
func (m *SessionModel) Values() (run, total time.Duration) {
	if m == nil {
		return 0, 0
	}
	run, total = m.lastRun, m.total
	if m.running {
		total += run
	}
	return
}
