package presenter

import (
	"testing"
	"time"

	"github.com/soocke/result-watch-go/domain/detector"
	"github.com/soocke/result-watch-go/domain/result"
	"github.com/soocke/result-watch-go/ui/model"
)

type fixedStatus struct{ st detector.Status }

func (f *fixedStatus) Status() detector.Status { return f.st }

type mockStatusView struct {
	state, scores, last string
	stateCalls          int
	success, fail       int
}

func (v *mockStatusView) SetStateLabel(s string) { v.state = s; v.stateCalls++ }
func (v *mockStatusView) SetScores(s string)     { v.scores = s }
func (v *mockStatusView) SetLastResult(s string) { v.last = s }
func (v *mockStatusView) SetTally(s, f int)      { v.success, v.fail = s, f }

func TestStatusPresenter_UpdatesOnlyOnChange(t *testing.T) {
	src := &fixedStatus{}
	view := &mockStatusView{}
	p := NewStatusPresenter(src, model.NewTallyModel(), view)
	now := time.Unix(1000, 0)

	p.Tick(now)
	p.Tick(now)
	if view.state != "State: stopped" || view.stateCalls != 1 {
		t.Fatalf("unexpected state %q calls=%d", view.state, view.stateCalls)
	}

	src.st = detector.Status{Running: true, State: result.StateInResult, Scores: result.Scores{Success: 0.91, Fail: 0.2}}
	p.Tick(now)
	if view.state != "State: result screen" || view.scores != "Scores: success 0.91 / fail 0.20" {
		t.Fatalf("unexpected labels %q %q", view.state, view.scores)
	}
}

func TestStatusPresenter_TalliesEvents(t *testing.T) {
	at := time.Unix(1000, 0)
	src := &fixedStatus{st: detector.Status{Running: true, HasEvent: true,
		LastEvent: result.Event{Outcome: result.OutcomeFail, Score: 0.9, At: at}}}
	view := &mockStatusView{}
	p := NewStatusPresenter(src, model.NewTallyModel(), view)
	p.Tick(at.Add(3 * time.Second))
	p.Tick(at.Add(4 * time.Second))
	if view.success != 0 || view.fail != 1 {
		t.Fatalf("expected one fail, got %d/%d", view.success, view.fail)
	}
	if view.last != "Last: fail 0.90 (4s ago)" {
		t.Fatalf("unexpected last label %q", view.last)
	}
}

func TestStatusPresenter_ShowsTickError(t *testing.T) {
	src := &fixedStatus{st: detector.Status{Running: true, LastError: "capture: invalid region"}}
	view := &mockStatusView{}
	NewStatusPresenter(src, model.NewTallyModel(), view).Tick(time.Now())
	if view.scores != "Scores: capture: invalid region" {
		t.Fatalf("unexpected scores label %q", view.scores)
	}
}
