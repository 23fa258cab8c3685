//go:build windows

package capture

import "github.com/pkg/errors"

// dpiAwarenessPerMonitorV2 is DPI_AWARENESS_CONTEXT_PER_MONITOR_AWARE_V2 (-4).
const dpiAwarenessPerMonitorV2 = ^uintptr(3)

// SetDPIAware opts the process out of DPI virtualization so ROI coordinates
// map to physical pixels. Must run before the first capture.
func SetDPIAware() error {
	if p := user32.NewProc("SetProcessDpiAwarenessContext"); p.Find() == nil {
		if ok, _, _ := p.Call(dpiAwarenessPerMonitorV2); ok != 0 {
			return nil
		}
	}
	p := user32.NewProc("SetProcessDPIAware")
	if err := p.Find(); err != nil {
		return errors.Wrap(err, "capture: dpi awareness unavailable")
	}
	if ok, _, err := p.Call(); ok == 0 {
		return errors.Wrap(err, "capture: SetProcessDPIAware")
	}
	return nil
}
