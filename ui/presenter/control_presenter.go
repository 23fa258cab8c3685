package presenter

// Controller is the part of the detector the control buttons drive.
type Controller interface {
	Start() error
	Stop()
	IsRunning() bool
}

// ControlView updates UI elements affected by starting and stopping.
type ControlView interface {
	SetRunning(running bool)
	ConfigEditable(editable bool)
	ShowMessage(msg string)
}

// ControlPresenter owns start/stop presentation logic.
type ControlPresenter struct {
	det  Controller
	view ControlView
}

func NewControlPresenter(det Controller, view ControlView) *ControlPresenter {
	return &ControlPresenter{det: det, view: view}
}

// Enable starts detection. On failure the view shows the reason and stays
// in the stopped layout. Idempotent.
func (c *ControlPresenter) Enable() {
	if c == nil || c.det == nil || c.view == nil {
		return
	}
	if c.det.IsRunning() {
		return
	}
	if err := c.det.Start(); err != nil {
		c.view.ShowMessage("Start failed: " + err.Error())
		c.view.SetRunning(false)
		return
	}
	c.view.ShowMessage("Watching for result screens")
	c.view.SetRunning(true)
	c.view.ConfigEditable(false)
}

// Disable stops detection. Idempotent.
func (c *ControlPresenter) Disable() {
	if c == nil || c.det == nil || c.view == nil {
		return
	}
	if !c.det.IsRunning() {
		return
	}
	c.det.Stop()
	c.view.ShowMessage("Stopped")
	c.view.SetRunning(false)
	c.view.ConfigEditable(true)
}

// Toggle flips the run state delegating to Enable/Disable.
func (c *ControlPresenter) Toggle() {
	if c == nil || c.det == nil {
		return
	}
	if c.det.IsRunning() {
		c.Disable()
		return
	}
	c.Enable()
}
