//go:build windows

package notify

import (
	"golang.org/x/sys/windows"
)

const mbIconAsterisk = 0x00000040

var (
	kernel32        = windows.NewLazySystemDLL("kernel32.dll")
	user32          = windows.NewLazySystemDLL("user32.dll")
	procBeep        = kernel32.NewProc("Beep")
	procMessageBeep = user32.NewProc("MessageBeep")
)

// playTones uses kernel32 Beep and falls back to the asterisk system sound.
func playTones(tones []Tone) error {
	for _, t := range tones {
		if ok, _, err := procBeep.Call(uintptr(t.Freq), uintptr(t.Dur.Milliseconds())); ok == 0 {
			if r, _, _ := procMessageBeep.Call(mbIconAsterisk); r != 0 {
				return nil
			}
			return err
		}
	}
	return nil
}
