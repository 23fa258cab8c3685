// Package notify turns result events into sounds and desktop toasts.
package notify

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/pkg/errors"

	"github.com/soocke/result-watch-go/domain/result"
)

// Notifier delivers result events and operator alerts. Delivery is best
// effort; callers log the returned error and move on.
type Notifier interface {
	Notify(ev result.Event) error
	Alert(msg string) error
}

// ErrUnsupported is returned when the platform has no way to show a toast.
var ErrUnsupported = errors.New("notify: unsupported on this platform")

// Tone is one beep.
type Tone struct {
	Freq int // Hz
	Dur  time.Duration
}

var (
	// ResultPattern is a falling two-tone chime.
	ResultPattern = []Tone{{Freq: 1200, Dur: 180 * time.Millisecond}, {Freq: 900, Dur: 180 * time.Millisecond}}
	// AlertPattern is three low beeps, distinct from a result.
	AlertPattern = []Tone{{Freq: 500, Dur: 220 * time.Millisecond}, {Freq: 500, Dur: 220 * time.Millisecond}, {Freq: 500, Dur: 220 * time.Millisecond}}
)

// AppName is the title used for toasts.
const AppName = "Result Watch"

// Message is the text of a toast.
type Message struct {
	Title string
	Body  string
}

// EventMessage formats a result event.
func EventMessage(ev result.Event) Message {
	label := "Mission success"
	if ev.Outcome == result.OutcomeFail {
		label = "Mission failed"
	}
	return Message{
		Title: AppName + ": result screen detected",
		Body:  fmt.Sprintf("%s (match %.2f)\nOne more round, or call it here?", label, ev.Score),
	}
}

// AlertMessage formats an operator alert.
func AlertMessage(msg string) Message {
	return Message{Title: AppName, Body: msg}
}

// Options selects the channels of a Desktop notifier.
type Options struct {
	Beep  bool
	Toast bool
}

// Desktop plays a tone pattern and shows a toast.
type Desktop struct {
	opts   func() Options
	logger *slog.Logger
	beep   func([]Tone) error
	toast  func(Message) error
}

// NewDesktop returns a notifier backed by the platform sound and toast APIs.
func NewDesktop(opts Options, logger *slog.Logger) *Desktop {
	return NewDesktopFunc(func() Options { return opts }, logger)
}

// NewDesktopFunc is NewDesktop with options read on every delivery.
func NewDesktopFunc(opts func() Options, logger *slog.Logger) *Desktop {
	return &Desktop{opts: opts, logger: logger, beep: playTones, toast: showToast}
}

// Notify plays the result pattern and shows the event toast. The sound goes
// first so it is heard even when toasts are suppressed.
func (d *Desktop) Notify(ev result.Event) error {
	return d.deliver(ResultPattern, EventMessage(ev))
}

// Alert plays the alert pattern and shows msg.
func (d *Desktop) Alert(msg string) error {
	return d.deliver(AlertPattern, AlertMessage(msg))
}

func (d *Desktop) deliver(tones []Tone, m Message) error {
	opts := d.opts()
	var first error
	if opts.Beep {
		if err := d.beep(tones); err != nil {
			first = errors.Wrap(err, "notify: beep")
		}
	}
	if opts.Toast {
		if err := d.toast(m); err != nil {
			if d.logger != nil {
				d.logger.Debug("toast failed", "error", err)
			}
			if first == nil {
				first = errors.Wrap(err, "notify: toast")
			}
		}
	}
	return first
}

// Log writes events and alerts to a logger. Used in headless mode next to
// Desktop, and on its own when sound and toasts are off.
type Log struct {
	Logger *slog.Logger
}

func (l Log) Notify(ev result.Event) error {
	if l.Logger != nil {
		l.Logger.Info("result", "outcome", ev.Outcome.String(), "score", ev.Score, "at", ev.At)
	}
	return nil
}

func (l Log) Alert(msg string) error {
	if l.Logger != nil {
		l.Logger.Warn("alert", "message", msg)
	}
	return nil
}

// Multi fans out to every notifier and returns the first error.
type Multi []Notifier

func (m Multi) Notify(ev result.Event) error {
	var first error
	for _, n := range m {
		if err := n.Notify(ev); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (m Multi) Alert(msg string) error {
	var first error
	for _, n := range m {
		if err := n.Alert(msg); err != nil && first == nil {
			first = err
		}
	}
	return first
}
