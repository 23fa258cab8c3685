package view

import (
	"fmt"
	"image"
	"log/slog"
	"strconv"
	"time"

	"github.com/soocke/result-watch-go/config"
	"github.com/soocke/result-watch-go/domain/result"
	"github.com/soocke/result-watch-go/ui/theme"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// Handlers are the user actions the root view forwards to presenters.
type Handlers struct {
	OnToggle     func()
	OnMode       func(result.NotifyMode)
	OnReload     func()
	OnPickRegion func()
	OnApply      func(edit func(*config.Config))
	OnExit       func()
}

// RootView composes the top-level application layout and wires UI callbacks.
// It owns high-level subviews but exposes minimal exported fields for presenters.
type RootView struct {
	cfg    *config.Live
	logger *slog.Logger

	// Subviews
	Session     SessionStats
	ConfigPanel ConfigPanel
	Templates   TemplatePreview
	Region      RegionOverlay

	// Widgets
	StateLabel   *LabelWidget
	ScoresLabel  *LabelWidget
	LastLabel    *LabelWidget
	TallyLabel   *LabelWidget
	MessageLabel *LabelWidget
	ToggleBtn    *ButtonWidget
	ModeSelect   *TComboboxWidget
}

// UI abstracts the subset of view operations needed by presenters, enabling decoupling
// from the concrete RootView implementation.
type UI interface {
	SetStateLabel(text string)
	SetScores(text string)
	SetLastResult(text string)
	SetTally(success, fail int)
	SetSession(run, total time.Duration)
	SetRunning(running bool)
	ConfigEditable(editable bool)
	ShowMessage(msg string)
	UpdateTemplates(success, fail image.Image)
}

func NewRootView(cfg *config.Live, logger *slog.Logger) *RootView {
	return &RootView{cfg: cfg, logger: logger}
}

// Build constructs the layout and binds h to the widgets.
func (rv *RootView) Build(h Handlers) {
	if rv == nil {
		return
	}
	snap := rv.cfg.Snapshot()

	// Row 0: state, scores, buttons frame
	rv.StateLabel = Label(Txt("State: stopped"), Borderwidth(1), Relief("ridge"))
	Grid(rv.StateLabel, Row(0), Column(0), Columnspan(2), Sticky("we"), Padx("0.4m"), Pady("0.3m"))
	rv.ScoresLabel = Label(Txt("Scores: -"), Anchor("w"))
	Grid(rv.ScoresLabel, Row(0), Column(2), Columnspan(2), Sticky("we"), Padx("0.4m"), Pady("0.3m"))

	btnFrame := Frame()
	Grid(btnFrame, Row(0), Column(4), Rowspan(4), Sticky("ne"), Padx("0.3m"), Pady("0.3m"))
	rv.ToggleBtn = Button(Txt("Start"), Command(h.OnToggle))
	Grid(rv.ToggleBtn, In(btnFrame), Row(0), Column(0), Sticky("we"), Padx("0.2m"), Pady("0.2m"))

	labels := make([]string, len(result.Modes))
	current := 0
	for i, m := range result.Modes {
		labels[i] = m.Label()
		if m == snap.Mode {
			current = i
		}
	}
	rv.ModeSelect = TCombobox(Values(labels), Width(18))
	Grid(rv.ModeSelect, In(btnFrame), Row(1), Column(0), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	rv.ModeSelect.Current(current)
	Bind(rv.ModeSelect, "<<ComboboxSelected>>", Command(func() {
		idx, err := strconv.Atoi(rv.ModeSelect.Current(nil))
		if err != nil || idx < 0 || idx >= len(result.Modes) {
			if rv.logger != nil {
				rv.logger.Error("mode selection parse error", "error", err)
			}
			return
		}
		h.OnMode(result.Modes[idx])
	}))
	reloadBtn := Button(Txt("Reload Templates"), Command(h.OnReload))
	Grid(reloadBtn, In(btnFrame), Row(2), Column(0), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	regionBtn := Button(Txt("Adjust Region"), Command(h.OnPickRegion))
	Grid(regionBtn, In(btnFrame), Row(3), Column(0), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	exitBtn := Button(Txt("Exit"), Command(h.OnExit))
	Grid(exitBtn, In(btnFrame), Row(4), Column(0), Sticky("we"), Padx("0.2m"), Pady("0.2m"))

	// Row 1: session durations and tallies
	rv.Session = NewSessionStats(nil, 1, 0)
	rv.TallyLabel = Label(Txt(tallyText(0, 0)), Anchor("w"))
	Grid(rv.TallyLabel, Row(1), Column(2), Sticky("w"), Padx("0.4m"))
	rv.LastLabel = Label(Txt("Last: -"), Anchor("w"))
	Grid(rv.LastLabel, Row(1), Column(3), Sticky("w"), Padx("0.4m"))

	// Config panel rows
	rv.ConfigPanel = NewConfigPanel(rv.cfg, h.OnApply)
	row := rv.ConfigPanel.Build(2)

	rv.Templates = NewTemplatePreview(row)
	row++
	rv.MessageLabel = Label(Txt(""), Anchor("w"))
	Grid(rv.MessageLabel, Row(row), Column(0), Columnspan(5), Sticky("we"), Padx("0.4m"), Pady("0.3m"))

	rv.Region = NewRegionOverlay(rv.cfg, func(r image.Rectangle) {
		h.OnApply(func(c *config.Config) { c.SetROI(r) })
		rv.ConfigPanel.Refresh()
	})
}

// SetStateLabel updates the state label text.
func (rv *RootView) SetStateLabel(text string) {
	if rv != nil && rv.StateLabel != nil {
		rv.StateLabel.Configure(Txt(text))
	}
}

// SetScores updates the live score label.
func (rv *RootView) SetScores(text string) {
	if rv != nil && rv.ScoresLabel != nil {
		rv.ScoresLabel.Configure(Txt(text))
	}
}

// SetLastResult updates the last event label.
func (rv *RootView) SetLastResult(text string) {
	if rv != nil && rv.LastLabel != nil {
		rv.LastLabel.Configure(Txt(text))
	}
}

// SetTally updates the per-outcome counters.
func (rv *RootView) SetTally(success, fail int) {
	if rv != nil && rv.TallyLabel != nil {
		rv.TallyLabel.Configure(Txt(tallyText(success, fail)))
	}
}

// SetSession updates both run and total durations.
func (rv *RootView) SetSession(run, total time.Duration) {
	if rv == nil || rv.Session == nil {
		return
	}
	rv.Session.SetSession(run)
	rv.Session.SetTotal(total)
}

// SetRunning flips the toggle button caption and colour.
func (rv *RootView) SetRunning(running bool) {
	if rv == nil || rv.ToggleBtn == nil {
		return
	}
	p := theme.CurrentPalette()
	if running {
		rv.ToggleBtn.Configure(Txt("Stop"), Background(p.Danger))
		return
	}
	rv.ToggleBtn.Configure(Txt("Start"), Background(p.Primary))
}

// ConfigEditable toggles config panel editability.
func (rv *RootView) ConfigEditable(editable bool) {
	if rv != nil && rv.ConfigPanel != nil {
		rv.ConfigPanel.SetEditable(editable)
	}
}

// ShowMessage shows one line of feedback at the bottom of the window.
func (rv *RootView) ShowMessage(msg string) {
	if rv != nil && rv.MessageLabel != nil {
		rv.MessageLabel.Configure(Txt(msg))
	}
}

// UpdateTemplates refreshes the template thumbnails.
func (rv *RootView) UpdateTemplates(success, fail image.Image) {
	if rv != nil && rv.Templates != nil {
		rv.Templates.Update(success, fail)
	}
}

func tallyText(success, fail int) string {
	return fmt.Sprintf("Success: %d  Fail: %d", success, fail)
}
