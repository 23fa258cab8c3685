package model

import (
	"github.com/soocke/result-watch-go/domain/result"
)

// TallyModel counts notified results since launch. Updates happen on the UI
// tick only, so no synchronization is needed.
type TallyModel struct {
	success int
	fail    int
	last    result.Event
	seen    bool
}

func NewTallyModel() *TallyModel { return &TallyModel{} }

// Observe records ev unless it is the event already counted. It reports
// whether the tally changed.
func (m *TallyModel) Observe(ev result.Event) bool {
	if m == nil {
		return false
	}
	if m.seen && ev.At.Equal(m.last.At) && ev.Outcome == m.last.Outcome {
		return false
	}
	m.last, m.seen = ev, true
	if ev.Outcome == result.OutcomeFail {
		m.fail++
	} else {
		m.success++
	}
	return true
}

// Counts returns the success and fail totals.
func (m *TallyModel) Counts() (success, fail int) {
	if m == nil {
		return 0, 0
	}
	return m.success, m.fail
}

// Last returns the most recent event, if any.
func (m *TallyModel) Last() (result.Event, bool) {
	if m == nil {
		return result.Event{}, false
	}
	return m.last, m.seen
}
