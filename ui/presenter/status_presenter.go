package presenter

import (
	"fmt"
	"time"

	"github.com/soocke/result-watch-go/domain/detector"
	"github.com/soocke/result-watch-go/domain/result"
	"github.com/soocke/result-watch-go/ui/model"
)

// StatusSource provides the detector status the presenter polls.
type StatusSource interface {
	Status() detector.Status
}

// StatusView displays detector state.
type StatusView interface {
	SetStateLabel(string)
	SetScores(string)
	SetLastResult(string)
	SetTally(success, fail int)
}

// StatusPresenter polls the detector each UI tick and pushes changed text to
// the view.
type StatusPresenter struct {
	src   StatusSource
	view  StatusView
	tally *model.TallyModel

	state, scores, last string
}

func NewStatusPresenter(src StatusSource, tally *model.TallyModel, view StatusView) *StatusPresenter {
	return &StatusPresenter{src: src, view: view, tally: tally}
}

// Tick reads the latest status and updates the labels that changed.
func (p *StatusPresenter) Tick(now time.Time) {
	if p == nil || p.src == nil || p.view == nil {
		return
	}
	st := p.src.Status()

	state := StateText(st)
	if state != p.state {
		p.state = state
		p.view.SetStateLabel(state)
	}

	scores := "Scores: -"
	if st.Running && st.LastError == "" {
		scores = fmt.Sprintf("Scores: success %.2f / fail %.2f", st.Scores.Success, st.Scores.Fail)
	} else if st.Running {
		scores = "Scores: " + st.LastError
	}
	if scores != p.scores {
		p.scores = scores
		p.view.SetScores(scores)
	}

	if st.HasEvent && p.tally.Observe(st.LastEvent) {
		s, f := p.tally.Counts()
		p.view.SetTally(s, f)
	}
	if ev, ok := p.tally.Last(); ok {
		last := LastResultText(ev, now)
		if last != p.last {
			p.last = last
			p.view.SetLastResult(last)
		}
	}
}

// StateText renders the run and machine state.
func StateText(st detector.Status) string {
	if !st.Running {
		return "State: stopped"
	}
	if st.State == result.StateInResult {
		return "State: result screen"
	}
	return "State: watching"
}

// LastResultText renders the latest event with its age in whole seconds.
func LastResultText(ev result.Event, now time.Time) string {
	age := now.Sub(ev.At).Truncate(time.Second)
	if age < 0 {
		age = 0
	}
	return fmt.Sprintf("Last: %s %.2f (%s ago)", ev.Outcome, ev.Score, age)
}
