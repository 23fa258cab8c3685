//go:build !windows

package notify

import (
	"os/exec"
)

// showToast uses notify-send when it is installed.
func showToast(m Message) error {
	bin, err := exec.LookPath("notify-send")
	if err != nil {
		return ErrUnsupported
	}
	cmd := exec.Command(bin, "--app-name", AppName, m.Title, m.Body)
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() { _ = cmd.Wait() }()
	return nil
}
