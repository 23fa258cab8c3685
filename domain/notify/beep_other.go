//go:build !windows

package notify

import (
	"os"
	"time"
)

// playTones rings the terminal bell once per tone.
func playTones(tones []Tone) error {
	for i, t := range tones {
		if _, err := os.Stderr.Write([]byte{'\a'}); err != nil {
			return err
		}
		if i < len(tones)-1 {
			time.Sleep(t.Dur)
		}
	}
	return nil
}
