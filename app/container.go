package app

import (
	"log/slog"

	"github.com/soocke/result-watch-go/config"
	"github.com/soocke/result-watch-go/domain/capture"
	"github.com/soocke/result-watch-go/domain/detector"
	"github.com/soocke/result-watch-go/domain/notify"
	"github.com/soocke/result-watch-go/domain/templates"
	"github.com/soocke/result-watch-go/metrics"
	"github.com/soocke/result-watch-go/ui/model"
	"github.com/soocke/result-watch-go/ui/presenter"
	"github.com/soocke/result-watch-go/ui/view"
)

// Services are the UI-independent parts shared by the window and headless mode.
type Services struct {
	Config   *config.Live
	CfgPath  string
	Logger   *slog.Logger
	Store    *templates.Store
	Metrics  *metrics.Metrics
	Notifier notify.Notifier
	Detector *detector.Detector
}

// NewServices wires the detector to the screen, the template store and the
// desktop notifier.
func NewServices(cfg *config.Live, cfgPath, templatesDir string, logger *slog.Logger) *Services {
	s := &Services{Config: cfg, CfgPath: cfgPath, Logger: logger}
	s.Store = templates.NewStore(templatesDir, logger)
	s.Metrics = metrics.New()
	s.Notifier = notify.Multi{
		notify.Log{Logger: logger},
		notify.NewDesktopFunc(func() notify.Options {
			c := cfg.Snapshot()
			return notify.Options{Beep: c.Beep, Toast: c.Toast}
		}, logger),
	}
	s.Detector = detector.New(cfg, detector.Options{
		Source:    capture.NewScreenSource(),
		Templates: s.Store,
		Notifier:  s.Notifier,
		Metrics:   s.Metrics,
		Logger:    logger,
	})
	return s
}

// AppContainer assembles models, presenters and the root view.
type AppContainer struct {
	*Services
	Session  *model.SessionModel
	Tally    *model.TallyModel
	RootView *view.RootView
	UI       view.UI

	// Presenters
	ControlPresenter  *presenter.ControlPresenter
	StatusPresenter   *presenter.StatusPresenter
	SessionPresenter  *presenter.SessionPresenter
	SettingsPresenter *presenter.SettingsPresenter
	Loop              *presenter.Loop
}

// BuildContainer constructs all components. Widgets are created later by
// RootView.Build on the Tk thread.
func BuildContainer(svc *Services) *AppContainer {
	c := &AppContainer{Services: svc}
	c.Session = model.NewSessionModel()
	c.Tally = model.NewTallyModel()
	c.RootView = view.NewRootView(svc.Config, svc.Logger)
	c.UI = c.RootView

	c.ControlPresenter = presenter.NewControlPresenter(svc.Detector, c.UI)
	c.StatusPresenter = presenter.NewStatusPresenter(svc.Detector, c.Tally, c.UI)
	c.SessionPresenter = presenter.NewSessionPresenter(c.Session, svc.Detector, c.UI)
	c.SettingsPresenter = presenter.NewSettingsPresenter(svc.Config, svc.CfgPath, svc.Detector, svc.Detector, c.UI, svc.Logger)
	return c
}
