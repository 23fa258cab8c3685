package theme

// Palette and ttk styles for the control window.

import (
	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// Light palette.
const (
	ColorBg        = "#f7f9fb"
	ColorSurface   = "#ffffff"
	ColorPrimary   = "#2563eb"
	ColorDanger    = "#dc2626"
	ColorSuccess   = "#10b981"
	ColorText      = "#1e293b"
	ColorTextMuted = "#64748b"
)

// PaletteSnapshot represents resolved colors for the active mode.
type PaletteSnapshot struct {
	AppBg     string
	Surface   string
	Primary   string
	Danger    string
	Success   string
	Text      string
	TextMuted string
}

// CurrentPalette returns colors for the current dark/light mode.
func CurrentPalette() PaletteSnapshot {
	if darkMode {
		return PaletteSnapshot{
			AppBg:     "#0f172a",
			Surface:   "#1e293b",
			Primary:   "#3b82f6",
			Danger:    "#ef4444",
			Success:   "#10b981",
			Text:      "#f1f5f9",
			TextMuted: "#94a3b8",
		}
	}
	return PaletteSnapshot{
		AppBg:     ColorBg,
		Surface:   ColorSurface,
		Primary:   ColorPrimary,
		Danger:    ColorDanger,
		Success:   ColorSuccess,
		Text:      ColorText,
		TextMuted: ColorTextMuted,
	}
}

var darkMode bool

// InitStyles applies the base theme and styles; dark selects the dark palette.
func InitStyles(dark bool) {
	darkMode = dark
	p := CurrentPalette()
	theme := "azure light"
	if dark {
		theme = "azure dark"
	}
	_ = ActivateTheme(theme)
	App.Configure(Background(p.AppBg))
	StyleConfigure("TCombobox", Padding("2p 1p"))
}

// IsDark reports current mode.
func IsDark() bool { return darkMode }
