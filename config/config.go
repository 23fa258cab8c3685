package config

import (
	"encoding/json"
	"image"
	"math"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/soocke/result-watch-go/domain/result"
)

// FileName is the default config file name, resolved next to the executable.
const FileName = "config.json"

// Config holds runtime configuration for detection and app behavior.
// Fields may be loaded from a JSON file and overridden by command-line flags.
type Config struct {
	Debug bool `json:"debug"`

	// Region of interest in screen pixels.
	ROILeft   int `json:"roi_left"`
	ROITop    int `json:"roi_top"`
	ROIWidth  int `json:"roi_width"`
	ROIHeight int `json:"roi_height"`

	// Detection parameters
	Threshold    float64           `json:"threshold"`
	Hysteresis   float64           `json:"hysteresis"`
	ScanInterval float64           `json:"scan_interval"` // seconds
	CooldownSec  float64           `json:"cooldown_sec"`
	Mode         result.NotifyMode `json:"mode"`

	// Host behaviour
	TemplatesDir string `json:"templates_dir"` // empty: assets/templates next to the executable
	Beep         bool   `json:"beep"`
	Toast        bool   `json:"toast"`
	AutoStart    bool   `json:"auto_start"`
	MetricsAddr  string `json:"metrics_addr"` // empty disables the /metrics listener
}

// DefaultConfig returns a Config populated with standard defaults.
func DefaultConfig() *Config {
	return &Config{
		Debug:        false,
		ROILeft:      150,
		ROITop:       150,
		ROIWidth:     500,
		ROIHeight:    160,
		Threshold:    0.82,
		Hysteresis:   0.08,
		ScanInterval: 0.20,
		CooldownSec:  8.0,
		Mode:         result.ModeBoth,
		Beep:         true,
		Toast:        true,
		AutoStart:    true,
	}
}

// Validate clamps/normalizes values to safe ranges.
func (c *Config) Validate() error {
	d := DefaultConfig()
	if c.ROIWidth <= 0 {
		c.ROIWidth = d.ROIWidth
	}
	if c.ROIHeight <= 0 {
		c.ROIHeight = d.ROIHeight
	}
	if c.Threshold <= 0 || c.Threshold > 1 || math.IsNaN(c.Threshold) {
		c.Threshold = d.Threshold
	}
	if c.Hysteresis < 0 || math.IsNaN(c.Hysteresis) {
		c.Hysteresis = d.Hysteresis
	}
	if c.ScanInterval <= 0 || math.IsNaN(c.ScanInterval) {
		c.ScanInterval = d.ScanInterval
	}
	if c.CooldownSec < 0 || math.IsNaN(c.CooldownSec) {
		c.CooldownSec = 0
	}
	if !c.Mode.Valid() {
		c.Mode = result.ModeBoth
	}
	return nil
}

// ROI returns the region of interest as a rectangle in screen coordinates.
func (c *Config) ROI() image.Rectangle {
	return image.Rect(c.ROILeft, c.ROITop, c.ROILeft+c.ROIWidth, c.ROITop+c.ROIHeight)
}

// SetROI stores r as the region of interest.
func (c *Config) SetROI(r image.Rectangle) {
	c.ROILeft, c.ROITop = r.Min.X, r.Min.Y
	c.ROIWidth, c.ROIHeight = r.Dx(), r.Dy()
}

// Interval is the scan interval as a duration.
func (c *Config) Interval() time.Duration {
	return time.Duration(c.ScanInterval * float64(time.Second))
}

// Cooldown is the notification cooldown as a duration.
func (c *Config) Cooldown() time.Duration {
	if c.CooldownSec <= 0 {
		return 0
	}
	return time.Duration(c.CooldownSec * float64(time.Second))
}

// Params extracts the state machine tunables.
func (c *Config) Params() result.Params {
	return result.Params{
		Threshold:  c.Threshold,
		Hysteresis: c.Hysteresis,
		Cooldown:   c.Cooldown(),
		Mode:       c.Mode,
	}
}

// ErrUnreadable is matched when the config file exists but could not be read
// or parsed as JSON. Nothing from the file was applied; callers should not
// overwrite it.
var ErrUnreadable = errors.New("config: unreadable")

// fileConfig decodes mode as plain text so that one bad value cannot discard
// the rest of the file.
type fileConfig struct {
	*Config
	Mode *string `json:"mode"`
}

// Load attempts to read configuration from the given JSON file path. If the file does not
// exist it returns DefaultConfig(). Fields that decode are kept even when others fail; the
// returned error then describes what was ignored.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, errors.Wrapf(ErrUnreadable, "open %s: %v", path, err)
	}
	defer f.Close()

	fc := fileConfig{Config: cfg}
	var decodeErr error
	if err := json.NewDecoder(f).Decode(&fc); err != nil {
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			return DefaultConfig(), errors.Wrapf(ErrUnreadable, "decode %s: %v", path, err)
		}
		decodeErr = errors.Wrapf(err, "config: %s", path)
	}
	if fc.Mode != nil {
		m, err := result.ParseNotifyMode(strings.ToLower(strings.TrimSpace(*fc.Mode)))
		if err != nil && decodeErr == nil {
			decodeErr = errors.Wrapf(err, "config: %s", path)
		}
		cfg.Mode = m
	}
	_ = cfg.Validate()
	return cfg, decodeErr
}

// Save writes the configuration to the given path in JSON format.
func (c *Config) Save(path string) error {
	_ = c.Validate()
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}
