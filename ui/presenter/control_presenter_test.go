package presenter

import (
	"errors"
	"testing"
)

type mockDetector struct {
	running         bool
	started, stopped int
	startErr        error
}

func (d *mockDetector) Start() error {
	if d.startErr != nil {
		return d.startErr
	}
	if !d.running {
		d.running = true
		d.started++
	}
	return nil
}
func (d *mockDetector) Stop()           { d.running = false; d.stopped++ }
func (d *mockDetector) IsRunning() bool { return d.running }

type mockControlView struct {
	running, editable bool
	editableCalls     int
	messages          []string
}

func (v *mockControlView) SetRunning(b bool)     { v.running = b }
func (v *mockControlView) ConfigEditable(b bool) { v.editableCalls++; v.editable = b }
func (v *mockControlView) ShowMessage(m string)  { v.messages = append(v.messages, m) }

func TestControlPresenter_EnableDisable_Idempotent(t *testing.T) {
	det := &mockDetector{}
	view := &mockControlView{editable: true}
	p := NewControlPresenter(det, view)

	p.Enable()
	if !view.running || det.started != 1 || view.editable || view.editableCalls != 1 {
		t.Fatalf("enable failed: running=%v started=%d editable=%v calls=%d", view.running, det.started, view.editable, view.editableCalls)
	}
	p.Enable()
	if det.started != 1 || view.editableCalls != 1 {
		t.Fatalf("enable not idempotent: started=%d calls=%d", det.started, view.editableCalls)
	}

	p.Disable()
	if view.running || det.stopped != 1 || !view.editable || view.editableCalls != 2 {
		t.Fatalf("disable failed: running=%v stopped=%d editable=%v", view.running, det.stopped, view.editable)
	}
	p.Disable()
	if det.stopped != 1 {
		t.Fatalf("disable not idempotent: stopped=%d", det.stopped)
	}
}

func TestControlPresenter_StartFailureShownAndStaysEditable(t *testing.T) {
	det := &mockDetector{startErr: errors.New("templates unavailable")}
	view := &mockControlView{editable: true}
	p := NewControlPresenter(det, view)
	p.Toggle()
	if view.running || !view.editable || view.editableCalls != 0 {
		t.Fatalf("failed start must keep the stopped layout")
	}
	if len(view.messages) != 1 || view.messages[0] != "Start failed: templates unavailable" {
		t.Fatalf("unexpected messages %v", view.messages)
	}
}

func TestControlPresenter_Toggle(t *testing.T) {
	det := &mockDetector{}
	view := &mockControlView{}
	p := NewControlPresenter(det, view)
	p.Toggle()
	if !det.running || det.started != 1 {
		t.Fatalf("toggle enable failed")
	}
	p.Toggle()
	if det.running || det.stopped != 1 {
		t.Fatalf("toggle disable failed")
	}
}
