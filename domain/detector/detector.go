// Package detector drives the capture, scoring and result state machine on a
// fixed interval and exposes start/stop control to hosts.
package detector

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/soocke/result-watch-go/config"
	"github.com/soocke/result-watch-go/domain/capture"
	"github.com/soocke/result-watch-go/domain/notify"
	"github.com/soocke/result-watch-go/domain/result"
	"github.com/soocke/result-watch-go/domain/templates"
	"github.com/soocke/result-watch-go/metrics"
)

const (
	statsLogInterval = 10 * time.Second
	// scoreBudget is the per-template multiply-add count above which scoring
	// alone takes tens of milliseconds per tick.
	scoreBudget = 20_000_000
	// stopWait bounds how long Start waits for a stopped loop to finish its tick.
	stopWait = 2 * time.Second
)

// ErrStopping is returned by Start when the previous loop has not exited yet.
var ErrStopping = errors.New("detector: previous run still stopping")

// TemplateLoader produces a complete template pair or an error.
type TemplateLoader interface {
	Load() (*templates.Set, error)
}

// Options carries the detector collaborators. Source, Templates and Notifier
// are required.
type Options struct {
	Source    capture.Source
	Templates TemplateLoader
	Notifier  notify.Notifier
	Metrics   *metrics.Metrics // nil creates a private instance
	Logger    *slog.Logger
	Clock     func() time.Time // nil uses time.Now
}

// Status is a point-in-time view for hosts.
type Status struct {
	Running   bool
	RunID     string
	State     result.State
	Scores    result.Scores
	LastEvent result.Event
	HasEvent  bool
	LastError string
	Ticks     uint64
}

type tickInfo struct {
	state  result.State
	scores result.Scores
	err    string
}

// Detector watches the configured region for result screens.
type Detector struct {
	cfg      *config.Live
	source   capture.Source
	loader   TemplateLoader
	notifier notify.Notifier
	metrics  *metrics.Metrics
	logger   *slog.Logger
	now      func() time.Time

	mu     sync.Mutex // serializes Start/Stop
	cancel context.CancelFunc
	done   chan struct{}
	runID  atomic.Pointer[string]

	running   atomic.Bool
	tmpl      atomic.Pointer[templates.Set]
	last      atomic.Pointer[tickInfo]
	lastEvent atomic.Pointer[result.Event]
}

// New returns a stopped detector reading its tunables from cfg.
func New(cfg *config.Live, opts Options) *Detector {
	if opts.Metrics == nil {
		opts.Metrics = metrics.New()
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	done := make(chan struct{})
	close(done)
	return &Detector{
		cfg:      cfg,
		source:   opts.Source,
		loader:   opts.Templates,
		notifier: opts.Notifier,
		metrics:  opts.Metrics,
		logger:   opts.Logger,
		now:      opts.Clock,
		done:     done,
	}
}

// Metrics returns the counters updated by the loop.
func (d *Detector) Metrics() *metrics.Metrics { return d.metrics }

// IsRunning reports whether a detection loop is active.
func (d *Detector) IsRunning() bool { return d.running.Load() }

// Done returns a channel closed when the current (or last) loop has exited.
func (d *Detector) Done() <-chan struct{} {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.done
}

// Start validates the region and templates and launches the loop. It is a
// no-op when already running. After a Stop it first waits for the previous
// loop to exit, so two runs never overlap. On failure the detector stays
// stopped and the operator is alerted once.
func (d *Detector) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cancel != nil {
		return nil
	}
	select {
	case <-d.done:
	case <-time.After(stopWait):
		d.log().Warn("detector start refused, previous run still stopping")
		return ErrStopping
	}
	snap := d.cfg.Snapshot()
	set, err := d.prepare(snap.ROI())
	if err != nil {
		d.log().Error("detector start failed", "error", err)
		d.alert(startFailureMessage(err))
		return err
	}
	d.tmpl.Store(set)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	runID := uuid.NewString()
	d.cancel, d.done = cancel, done
	d.runID.Store(&runID)
	d.last.Store(&tickInfo{state: result.StateIdle})
	d.running.Store(true)
	d.metrics.SetRunning(true)
	d.metrics.SetInResult(false)

	logger := d.log().With("run", runID)
	logger.Info("detector started",
		"roi", snap.ROI().String(),
		"threshold", snap.Threshold,
		"hysteresis", snap.Hysteresis,
		"interval", snap.Interval(),
		"cooldown", snap.Cooldown(),
		"mode", snap.Mode.String(),
	)
	go d.loop(ctx, done, result.NewMachine(), logger)
	return nil
}

// Stop requests the loop to exit; it returns without waiting. A tick already
// in progress, including its notification, still completes. Use Done to wait.
func (d *Detector) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cancel == nil {
		return
	}
	d.cancel()
	d.cancel = nil
	d.running.Store(false)
	d.metrics.SetRunning(false)
}

// ReloadTemplates loads a fresh pair and swaps it in for the next tick. On
// failure the current pair stays in use.
func (d *Detector) ReloadTemplates() error {
	snap := d.cfg.Snapshot()
	set, err := d.prepare(snap.ROI())
	if err != nil {
		d.log().Warn("template reload failed, keeping current templates", "error", err)
		return err
	}
	d.tmpl.Store(set)
	d.log().Info("templates reloaded", "dir", set.Dir)
	return nil
}

// SetMode changes the notify mode; it applies from the next tick.
func (d *Detector) SetMode(m result.NotifyMode) {
	c := d.cfg.Update(func(c *config.Config) { c.Mode = m })
	d.log().Info("notify mode changed", "mode", c.Mode.String())
}

// Status returns the latest observed state.
func (d *Detector) Status() Status {
	st := Status{
		Running: d.running.Load(),
		Ticks:   d.metrics.Ticks.Load(),
	}
	if id := d.runID.Load(); id != nil {
		st.RunID = *id
	}
	if t := d.last.Load(); t != nil {
		st.State, st.Scores, st.LastError = t.state, t.scores, t.err
	}
	if ev := d.lastEvent.Load(); ev != nil {
		st.LastEvent, st.HasEvent = *ev, true
	}
	return st
}

// prepare validates the region and loads a template pair that fits it.
func (d *Detector) prepare(roi image.Rectangle) (*templates.Set, error) {
	if err := capture.CheckRegion(roi); err != nil {
		return nil, err
	}
	set, err := d.loader.Load()
	if err != nil {
		return nil, err
	}
	for _, t := range []*capture.Template{set.Success, set.Fail} {
		if !t.Fits(roi.Dx(), roi.Dy()) {
			return nil, &templates.UnavailableError{
				Name: t.Name,
				Path: set.Dir,
				Err: errors.Wrapf(capture.ErrTemplateTooLarge, "template %dx%d, region %dx%d",
					t.Plane.W, t.Plane.H, roi.Dx(), roi.Dy()),
			}
		}
	}
	for _, t := range slowTemplates(set, roi) {
		d.log().Warn("template much smaller than region, ticks will be slow; crop the region or recapture the template",
			"template", t.Name,
			"template_size", fmt.Sprintf("%dx%d", t.Plane.W, t.Plane.H),
			"region_size", fmt.Sprintf("%dx%d", roi.Dx(), roi.Dy()),
			"cost", t.Cost(roi.Dx(), roi.Dy()),
		)
	}
	return set, nil
}

// slowTemplates returns the templates whose scoring cost in roi exceeds scoreBudget.
func slowTemplates(set *templates.Set, roi image.Rectangle) []*capture.Template {
	var slow []*capture.Template
	for _, t := range []*capture.Template{set.Success, set.Fail} {
		if t.Cost(roi.Dx(), roi.Dy()) > scoreBudget {
			slow = append(slow, t)
		}
	}
	return slow
}

func (d *Detector) loop(ctx context.Context, done chan struct{}, m *result.Machine, logger *slog.Logger) {
	defer close(done)
	defer logger.Info("detector stopped")
	lastStats := time.Now()
	for {
		if ctx.Err() != nil {
			return
		}
		start := time.Now()
		snap := d.cfg.Snapshot()
		d.tick(m, snap, start, logger)

		if time.Since(lastStats) >= statsLogInterval {
			d.logStats(logger)
			lastStats = time.Now()
		}

		wait := snap.Interval() - time.Since(start)
		if wait < 0 {
			wait = 0
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

// tick runs one capture/score/feed cycle. Any failure skips the tick.
func (d *Detector) tick(m *result.Machine, snap config.Config, start time.Time, logger *slog.Logger) {
	defer func() {
		if r := recover(); r != nil {
			d.metrics.Panics.Add(1)
			d.setLast(m.State(), result.Scores{}, "panic")
			logger.Error("tick panic recovered", "panic", r)
		}
	}()

	roi := snap.ROI()
	if err := capture.CheckRegion(roi); err != nil {
		d.skip(m, &d.metrics.CaptureErrors, err, logger)
		return
	}
	img, err := d.source.Capture(roi)
	if err != nil {
		d.skip(m, &d.metrics.CaptureErrors, err, logger)
		return
	}
	if rc, ok := d.source.(capture.Recycler); ok {
		defer rc.Recycle(img)
	}
	if err := capture.CheckFrame(img, roi); err != nil {
		d.skip(m, &d.metrics.CaptureErrors, err, logger)
		return
	}

	frame := capture.Preprocess(img)
	set := d.tmpl.Load()
	ss, err := capture.Score(frame, set.Success)
	if err != nil {
		d.skip(m, &d.metrics.ScoreErrors, err, logger)
		return
	}
	fs, err := capture.Score(frame, set.Fail)
	if err != nil {
		d.skip(m, &d.metrics.ScoreErrors, err, logger)
		return
	}
	scores := result.Scores{Success: ss, Fail: fs}

	now := d.now()
	step := m.Feed(scores, snap.Params(), now)
	d.metrics.ObserveTick(ss, fs, time.Since(start))
	d.metrics.SetInResult(step.Next == result.StateInResult)
	d.setLast(step.Next, scores, "")

	if step.Prev != step.Next {
		logger.Debug("state changed", "from", step.Prev.String(), "to", step.Next.String(),
			"success", ss, "fail", fs)
	}
	if !step.Edge {
		return
	}
	d.metrics.Edges.Add(1)
	switch step.Suppressed {
	case result.SuppressedByMode:
		d.metrics.SuppressedMode.Add(1)
	case result.SuppressedByCooldown:
		d.metrics.SuppressedCooldown.Add(1)
	}
	logger.Info("result screen",
		"outcome", step.Outcome.String(),
		"score", step.Score,
		"notify", step.Notify,
		"suppressed", step.Suppressed.String(),
	)
	if step.Notify {
		ev := step.Event(now)
		d.lastEvent.Store(&ev)
		if ev.Outcome == result.OutcomeSuccess {
			d.metrics.SuccessEvents.Add(1)
		} else {
			d.metrics.FailEvents.Add(1)
		}
		d.dispatch(ev, logger)
	}
}

func (d *Detector) skip(m *result.Machine, counter *atomic.Uint64, err error, logger *slog.Logger) {
	counter.Add(1)
	d.setLast(m.State(), result.Scores{}, err.Error())
	logger.Warn("tick skipped", "error", err)
}

func (d *Detector) setLast(s result.State, sc result.Scores, errMsg string) {
	d.last.Store(&tickInfo{state: s, scores: sc, err: errMsg})
}

// dispatch delivers ev; notifier errors and panics never reach the loop.
func (d *Detector) dispatch(ev result.Event, logger *slog.Logger) {
	defer func() {
		if r := recover(); r != nil {
			d.metrics.NotifyErrors.Add(1)
			logger.Warn("notifier panic", "panic", r)
		}
	}()
	if err := d.notifier.Notify(ev); err != nil {
		d.metrics.NotifyErrors.Add(1)
		logger.Debug("notify failed", "error", err)
	}
}

func (d *Detector) alert(msg string) {
	defer func() {
		if r := recover(); r != nil {
			d.log().Warn("alert panic", "panic", r)
		}
	}()
	if err := d.notifier.Alert(msg); err != nil {
		d.log().Debug("alert failed", "error", err)
	}
}

func (d *Detector) logStats(logger *slog.Logger) {
	ss, fs := d.metrics.Scores()
	logger.Debug("detector.stats",
		"ticks", d.metrics.Ticks.Load(),
		"capture_errors", d.metrics.CaptureErrors.Load(),
		"score_errors", d.metrics.ScoreErrors.Load(),
		"edges", d.metrics.Edges.Load(),
		"events", d.metrics.SuccessEvents.Load()+d.metrics.FailEvents.Load(),
		"success", ss,
		"fail", fs,
		"tick_latency_us", d.metrics.TickLatencyUs.Load(),
	)
}

func (d *Detector) log() *slog.Logger {
	if d.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return d.logger
}

func startFailureMessage(err error) string {
	switch {
	case errors.Is(err, templates.ErrUnavailable):
		return "Templates missing or unusable: place success.png and fail.png in the templates folder"
	case errors.Is(err, capture.ErrInvalidRegion):
		return "Capture region is invalid: check roi_width and roi_height"
	default:
		return "Detection could not start: " + err.Error()
	}
}
