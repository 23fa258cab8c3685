package presenter

import (
	"time"

	"github.com/soocke/result-watch-go/ui/model"
)

// RunningSource reports whether detection is running.
type RunningSource interface{ IsRunning() bool }

// SessionView displays formatted run and total durations.
type SessionView interface {
	SetSession(run, total time.Duration)
}

// SessionPresenter formats run and total durations from the model to the view.
type SessionPresenter struct {
	sess *model.SessionModel
	src  RunningSource
	view SessionView
}

// NewSessionPresenter returns a new SessionPresenter.
func NewSessionPresenter(sess *model.SessionModel, src RunningSource, view SessionView) *SessionPresenter {
	return &SessionPresenter{sess: sess, src: src, view: view}
}

// Tick advances the session model and pushes values to the view.
func (p *SessionPresenter) Tick(now time.Time) {
	if p == nil || p.sess == nil || p.src == nil || p.view == nil {
		return
	}
	p.sess.OnTick(p.src.IsRunning(), now)
	s, t := p.sess.Values()
	p.view.SetSession(s, t)
}
