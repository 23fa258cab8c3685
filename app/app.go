package app

import (
	"fmt"
	"image"
	"time"

	"github.com/disintegration/imaging"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"

	"github.com/soocke/result-watch-go/domain/templates"
	"github.com/soocke/result-watch-go/ui/presenter"
	"github.com/soocke/result-watch-go/ui/theme"
	"github.com/soocke/result-watch-go/ui/view"
)

const (
	tick           = 250 * time.Millisecond
	autoStartDelay = 600 * time.Millisecond
)

type app struct {
	c       *AppContainer
	width   int
	height  int
	afterID string
}

// NewApp prepares the main window.
func NewApp(title string, width, height int, svc *Services) *app {
	a := &app{c: BuildContainer(svc), width: width, height: height}
	App.WmTitle(title)
	WmProtocol(App, "WM_DELETE_WINDOW", a.exitHandler)
	WmGeometry(App, fmt.Sprintf("%dx%d+100+100", width, height))
	return a
}

// Start builds the widgets and blocks in the Tk event loop.
func (a *app) Start() {
	c := a.c
	theme.InitStyles(false)
	c.RootView.Build(view.Handlers{
		OnToggle:     c.ControlPresenter.Toggle,
		OnMode:       c.SettingsPresenter.SelectMode,
		OnReload:     c.SettingsPresenter.Reload,
		OnPickRegion: func() { c.RootView.Region.OpenOrFocus() },
		OnApply:      c.SettingsPresenter.Apply,
		OnExit:       a.exitHandler,
	})
	c.SettingsPresenter.OnTemplatesReloaded = a.refreshTemplates
	a.refreshTemplates()

	c.Loop = presenter.NewLoop(c.SessionPresenter, c.StatusPresenter, a.scheduleUpdate)
	if c.Config.Snapshot().AutoStart {
		TclAfter(autoStartDelay, c.ControlPresenter.Enable)
	}
	a.scheduleUpdate()
	App.Wait()
}

func (a *app) scheduleUpdate() {
	// Schedule the next update using TclAfter to stay on Tk's event loop thread.
	a.afterID = TclAfter(tick, func() { a.c.Loop.Tick() })
}

// refreshTemplates shows whatever template files are currently on disk.
func (a *app) refreshTemplates() {
	load := func(name string) image.Image {
		img, err := imaging.Open(a.c.Store.Path(name))
		if err != nil {
			return nil
		}
		return img
	}
	a.c.UI.UpdateTemplates(load(templates.NameSuccess), load(templates.NameFail))
}

func (a *app) exitHandler() {
	if a.afterID != "" {
		TclAfterCancel(a.afterID)
	}
	a.c.Detector.Stop()
	select {
	case <-a.c.Detector.Done():
	case <-time.After(2 * time.Second):
	}
	if err := a.c.Config.Save(a.c.CfgPath); err != nil && a.c.Logger != nil {
		a.c.Logger.Error("config save failed", "error", err)
	}
	Destroy(App)
}
