package view

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/soocke/result-watch-go/config"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// ConfigPanel encapsulates the configuration form widgets and apply logic.
// Edits are handed to the apply callback, which publishes and persists them.
type ConfigPanel interface {
	Build(startRow int) (endRow int) // constructs widgets starting at startRow, returns next free row
	SetEditable(enabled bool)
	ApplyChanges()
	Refresh() // reloads widget text from the live config
}

type field struct {
	id, label string
	get       func(c *config.Config) string
	set       func(c *config.Config, s string)
}

var fields = []field{
	{"threshold", "Threshold (0-1]",
		func(c *config.Config) string { return fmt.Sprintf("%.3f", c.Threshold) },
		func(c *config.Config, s string) { setFloat(s, &c.Threshold) }},
	{"hysteresis", "Hysteresis",
		func(c *config.Config) string { return fmt.Sprintf("%.3f", c.Hysteresis) },
		func(c *config.Config, s string) { setFloat(s, &c.Hysteresis) }},
	{"scanInterval", "Scan Interval (s)",
		func(c *config.Config) string { return fmt.Sprintf("%.2f", c.ScanInterval) },
		func(c *config.Config, s string) { setFloat(s, &c.ScanInterval) }},
	{"cooldown", "Cooldown (s)",
		func(c *config.Config) string { return fmt.Sprintf("%.1f", c.CooldownSec) },
		func(c *config.Config, s string) { setFloat(s, &c.CooldownSec) }},
	{"roiLeft", "ROI Left",
		func(c *config.Config) string { return strconv.Itoa(c.ROILeft) },
		func(c *config.Config, s string) { setInt(s, &c.ROILeft) }},
	{"roiTop", "ROI Top",
		func(c *config.Config) string { return strconv.Itoa(c.ROITop) },
		func(c *config.Config, s string) { setInt(s, &c.ROITop) }},
	{"roiWidth", "ROI Width",
		func(c *config.Config) string { return strconv.Itoa(c.ROIWidth) },
		func(c *config.Config, s string) { setInt(s, &c.ROIWidth) }},
	{"roiHeight", "ROI Height",
		func(c *config.Config) string { return strconv.Itoa(c.ROIHeight) },
		func(c *config.Config, s string) { setInt(s, &c.ROIHeight) }},
	{"beep", "Beep (true/false)",
		func(c *config.Config) string { return strconv.FormatBool(c.Beep) },
		func(c *config.Config, s string) { setBool(s, &c.Beep) }},
	{"toast", "Toast (true/false)",
		func(c *config.Config) string { return strconv.FormatBool(c.Toast) },
		func(c *config.Config, s string) { setBool(s, &c.Toast) }},
	{"autoStart", "Auto Start (true/false)",
		func(c *config.Config) string { return strconv.FormatBool(c.AutoStart) },
		func(c *config.Config, s string) { setBool(s, &c.AutoStart) }},
}

type configPanel struct {
	cfg      *config.Live
	apply    func(edit func(*config.Config))
	applyBtn *ButtonWidget
	widgets  map[string]*TextWidget // keyed by field id
}

// NewConfigPanel creates the view bound to cfg.
func NewConfigPanel(cfg *config.Live, apply func(edit func(*config.Config))) ConfigPanel {
	return &configPanel{cfg: cfg, apply: apply, widgets: make(map[string]*TextWidget)}
}

func (v *configPanel) Build(startRow int) (row int) {
	c := v.cfg.Snapshot()
	row = startRow
	for i, f := range fields {
		// two columns of label/entry pairs
		r, col := row+i/2, (i%2)*2
		lbl := Label(Txt(f.label), Anchor("w"))
		Grid(lbl, Row(r), Column(col), Sticky("w"), Padx("0.4m"), Pady("0.15m"))
		w := Text(Height(1), Width(12))
		Grid(w, Row(r), Column(col+1), Sticky("we"), Padx("0.4m"), Pady("0.15m"))
		w.Delete("1.0", END)
		w.Insert("1.0", f.get(&c))
		v.widgets[f.id] = w
	}
	row += (len(fields) + 1) / 2
	v.applyBtn = Button(Txt("Apply Changes"), Command(func() { v.ApplyChanges() }))
	Grid(v.applyBtn, Row(row), Column(0), Columnspan(4), Sticky("we"), Padx("0.4m"), Pady("0.3m"))
	row++
	return row
}

func (v *configPanel) SetEditable(enabled bool) {
	state := "disabled"
	if enabled {
		state = "normal"
	}
	for _, w := range v.widgets {
		if w != nil {
			w.Configure(State(state))
		}
	}
	if v.applyBtn != nil {
		v.applyBtn.Configure(State(state))
	}
}

func (v *configPanel) Refresh() {
	c := v.cfg.Snapshot()
	for _, f := range fields {
		w := v.widgets[f.id]
		if w == nil {
			continue
		}
		w.Delete("1.0", END)
		w.Insert("1.0", f.get(&c))
	}
}

func (v *configPanel) text(w *TextWidget) string {
	if w == nil {
		return ""
	}
	return strings.TrimSpace(strings.Join(w.Get("1.0", END), ""))
}

func (v *configPanel) ApplyChanges() {
	if v.apply == nil {
		return
	}
	values := make(map[string]string, len(fields))
	for _, f := range fields {
		values[f.id] = v.text(v.widgets[f.id])
	}
	v.apply(func(c *config.Config) { applyValues(c, values) })
	v.Refresh()
}

// applyValues writes parsable values into c; unparsable ones keep the old value.
func applyValues(c *config.Config, values map[string]string) {
	for _, f := range fields {
		if s, ok := values[f.id]; ok && s != "" {
			f.set(c, s)
		}
	}
}

// parsing helpers (unexported)
func setFloat(s string, dst *float64) {
	if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
		*dst = f
	}
}

func setInt(s string, dst *int) {
	if i, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
		*dst = i
	}
}

func setBool(s string, dst *bool) {
	if b, ok := parseBoolLoose(s); ok {
		*dst = b
	}
}

func parseBoolLoose(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "y", "on", "t":
		return true, true
	case "false", "0", "no", "n", "off", "f":
		return false, true
	default:
		return false, false
	}
}
