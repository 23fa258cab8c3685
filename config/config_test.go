package config

import (
	"image"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/soocke/result-watch-go/domain/result"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Threshold != 0.82 || cfg.Hysteresis != 0.08 || cfg.ScanInterval != 0.20 || cfg.CooldownSec != 8 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.ROI().Dx() != 500 || cfg.ROI().Dy() != 160 || cfg.ROI().Min.X != 150 {
		t.Fatalf("unexpected default roi %v", cfg.ROI())
	}
}

func TestSaveLoad_PreservesModeName(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	cfg := DefaultConfig()
	cfg.Mode = result.ModeFailOnly
	cfg.Threshold = 0.9
	if err := cfg.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if want := `"mode": "fail"`; !strings.Contains(string(raw), want) {
		t.Fatalf("expected %s in %s", want, raw)
	}
	back, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if back.Mode != result.ModeFailOnly || back.Threshold != 0.9 {
		t.Fatalf("round trip mismatch: %+v", back)
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_ModeIsCaseInsensitive(t *testing.T) {
	path := writeConfig(t, `{"roi_left":900,"roi_top":40,"roi_width":320,"roi_height":90,"threshold":0.9,"mode":"Fail"}`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Mode != result.ModeFailOnly {
		t.Fatalf("expected fail-only, got %v", cfg.Mode)
	}
	if cfg.ROI() != image.Rect(900, 40, 1220, 130) || cfg.Threshold != 0.9 {
		t.Fatalf("fields lost: roi=%v threshold=%v", cfg.ROI(), cfg.Threshold)
	}
}

func TestLoad_UnknownModeKeepsOtherFields(t *testing.T) {
	path := writeConfig(t, `{"roi_left":900,"roi_top":40,"roi_width":320,"roi_height":90,"threshold":0.9,"mode":"sometimes"}`)
	cfg, err := Load(path)
	if err == nil {
		t.Fatalf("expected a warning for the unknown mode")
	}
	if errors.Is(err, ErrUnreadable) {
		t.Fatalf("unknown mode must not mark the file unreadable: %v", err)
	}
	if cfg.Mode != result.ModeBoth {
		t.Fatalf("expected mode reset to both, got %v", cfg.Mode)
	}
	if cfg.ROI() != image.Rect(900, 40, 1220, 130) || cfg.Threshold != 0.9 {
		t.Fatalf("fields lost: roi=%v threshold=%v", cfg.ROI(), cfg.Threshold)
	}

	// Saving what was loaded keeps the user's region.
	if err := cfg.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	back, err := Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if back.ROI() != cfg.ROI() || back.Threshold != 0.9 {
		t.Fatalf("saved config lost fields: %+v", back)
	}
}

func TestLoad_WrongTypeKeepsOtherFields(t *testing.T) {
	path := writeConfig(t, `{"roi_left":900,"threshold":"high","cooldown_sec":3}`)
	cfg, err := Load(path)
	if err == nil || errors.Is(err, ErrUnreadable) {
		t.Fatalf("expected a field warning, got %v", err)
	}
	if cfg.ROILeft != 900 || cfg.CooldownSec != 3 || cfg.Threshold != 0.82 {
		t.Fatalf("unexpected partial load: %+v", cfg)
	}
}

func TestLoad_SyntaxErrorIsUnreadable(t *testing.T) {
	path := writeConfig(t, `{"roi_left":900,`)
	cfg, err := Load(path)
	if !errors.Is(err, ErrUnreadable) {
		t.Fatalf("expected ErrUnreadable, got %v", err)
	}
	if cfg.ROILeft != 150 || cfg.Mode != result.ModeBoth {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLive_SaveWithoutPathLeavesFileAlone(t *testing.T) {
	path := writeConfig(t, `{"roi_left":900,`)
	if err := NewLive(nil).Save(""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(raw) != `{"roi_left":900,` {
		t.Fatalf("file was modified: %s", raw)
	}
}

func TestValidate_ClampsOutOfRange(t *testing.T) {
	cfg := &Config{Threshold: 1.5, Hysteresis: -1, ScanInterval: 0, CooldownSec: -3, ROIWidth: 0, ROIHeight: -2, Mode: result.NotifyMode(9)}
	_ = cfg.Validate()
	if cfg.Threshold != 0.82 || cfg.Hysteresis != 0.08 || cfg.ScanInterval != 0.20 || cfg.CooldownSec != 0 {
		t.Fatalf("unexpected clamp result: %+v", cfg)
	}
	if cfg.ROIWidth != 500 || cfg.ROIHeight != 160 || cfg.Mode != result.ModeBoth {
		t.Fatalf("unexpected roi/mode clamp: %+v", cfg)
	}
}

func TestConfig_Durations(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Interval() != 200*time.Millisecond {
		t.Fatalf("interval %v", cfg.Interval())
	}
	p := cfg.Params()
	if p.Cooldown != 8*time.Second || p.Mode != result.ModeBoth || p.Rearm() != cfg.Threshold-cfg.Hysteresis {
		t.Fatalf("unexpected params %+v", p)
	}
}

func TestLive_UpdateIsVisibleToSnapshots(t *testing.T) {
	l := NewLive(nil)
	l.Update(func(c *Config) { c.Mode = result.ModeSuccessOnly })
	if got := l.Snapshot().Mode; got != result.ModeSuccessOnly {
		t.Fatalf("expected success-only, got %v", got)
	}
	snap := l.Snapshot()
	snap.Threshold = 0.1
	if l.Snapshot().Threshold == 0.1 {
		t.Fatalf("snapshot must be a copy")
	}
}

func TestLive_ConcurrentUpdates(t *testing.T) {
	l := NewLive(nil)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Update(func(c *Config) { c.ROILeft++ })
			_ = l.Snapshot()
		}()
	}
	wg.Wait()
	if got := l.Snapshot().ROILeft; got != 200 {
		t.Fatalf("expected 200 after 50 increments, got %d", got)
	}
}
