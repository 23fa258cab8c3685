package presenter

import (
	"log/slog"

	"github.com/soocke/result-watch-go/config"
	"github.com/soocke/result-watch-go/domain/result"
)

// ModeSetter applies a notify mode to the running detector.
type ModeSetter interface {
	SetMode(result.NotifyMode)
}

// TemplateReloader reloads templates.
type TemplateReloader interface {
	ReloadTemplates() error
}

// MessageView shows one-line feedback.
type MessageView interface {
	ShowMessage(msg string)
}

// SettingsPresenter handles mode changes, template reloads and config edits.
// Every accepted change is persisted immediately.
type SettingsPresenter struct {
	cfg     *config.Live
	cfgPath string
	modes   ModeSetter
	reload  TemplateReloader
	view    MessageView
	logger  *slog.Logger

	// OnTemplatesReloaded runs after a successful reload.
	OnTemplatesReloaded func()
}

func NewSettingsPresenter(cfg *config.Live, cfgPath string, modes ModeSetter, reload TemplateReloader, view MessageView, logger *slog.Logger) *SettingsPresenter {
	return &SettingsPresenter{cfg: cfg, cfgPath: cfgPath, modes: modes, reload: reload, view: view, logger: logger}
}

// SelectMode switches the notify mode and saves the config.
func (p *SettingsPresenter) SelectMode(m result.NotifyMode) {
	if p == nil || p.modes == nil || !m.Valid() {
		return
	}
	p.modes.SetMode(m)
	p.save()
	p.show("Notify: " + m.Label())
}

// Reload reloads templates; on failure the current pair stays active.
func (p *SettingsPresenter) Reload() {
	if p == nil || p.reload == nil {
		return
	}
	if err := p.reload.ReloadTemplates(); err != nil {
		p.show("Reload failed: " + err.Error())
		return
	}
	p.show("Templates reloaded")
	if p.OnTemplatesReloaded != nil {
		p.OnTemplatesReloaded()
	}
}

// Apply publishes edited config values and saves them.
func (p *SettingsPresenter) Apply(edit func(*config.Config)) {
	if p == nil || p.cfg == nil || edit == nil {
		return
	}
	p.cfg.Update(edit)
	p.save()
	p.show("Settings applied")
}

func (p *SettingsPresenter) save() {
	if p.cfg == nil || p.cfgPath == "" {
		return
	}
	if err := p.cfg.Save(p.cfgPath); err != nil {
		if p.logger != nil {
			p.logger.Error("config save failed", "error", err)
		}
		return
	}
	if p.logger != nil {
		p.logger.Info("config saved", "path", p.cfgPath)
	}
}

func (p *SettingsPresenter) show(msg string) {
	if p.view != nil {
		p.view.ShowMessage(msg)
	}
}
