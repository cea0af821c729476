package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Duration wraps time.Duration so intervals can be written as "200ms" or "10s" in TOML.
type Duration time.Duration

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	if parsed <= 0 {
		return fmt.Errorf("duration %q must be positive", string(text))
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

type StorageConfig struct {
	UsageFile string `toml:"usage_file"`
	GameFile  string `toml:"game_file"`
}

type MonitorConfig struct {
	PollInterval    Duration `toml:"poll_interval"`
	RefreshInterval Duration `toml:"refresh_interval"`
	SaveInterval    Duration `toml:"save_interval"`
	MaxPauses       int      `toml:"max_pauses"`
	Targets         string   `toml:"targets"`
	DailyLimitMin   float64  `toml:"daily_limit_minutes"`
}

// Scoring holds the game scoring constants. The defaults reproduce the
// original scoring table; every rate is tunable from the config file.
type Scoring struct {
	PointsPerStudyMin      int     `toml:"points_per_study_min"`
	PenaltyPerIllegal10Sec int     `toml:"penalty_per_illegal_10sec"`
	PenaltyPerBreakMin     int     `toml:"penalty_per_break_min"`
	BonusNoIllegal         int     `toml:"bonus_no_illegal"`
	BonusLowBreaks         int     `toml:"bonus_low_breaks"`
	BonusNoPauses          int     `toml:"bonus_no_pauses"`
	LowBreaksSec           float64 `toml:"low_breaks_sec"`
	XPPerPoint             int     `toml:"xp_per_point"`
	LevelXPUnit            int64   `toml:"level_xp_unit"`
}

// ToneConfig is passed through to the alert sink.
type ToneConfig struct {
	FreqHz      int     `toml:"freq_hz"`
	DurationSec float64 `toml:"duration_sec"`
	Volume      float64 `toml:"volume"`
}

type Config struct {
	Storage StorageConfig `toml:"storage"`
	Monitor MonitorConfig `toml:"monitor"`
	Scoring Scoring       `toml:"scoring"`
	Tone    ToneConfig    `toml:"tone"`
}

// Default returns a fully populated configuration.
func Default() *Config {
	c := &Config{}
	c.SetDefault()
	return c
}

// SetDefault fills any unset field with its default value.
func (c *Config) SetDefault() {
	dataDir := defaultDataDir()
	if c.Storage.UsageFile == "" {
		c.Storage.UsageFile = filepath.Join(dataDir, "usage.json")
	}
	if c.Storage.GameFile == "" {
		c.Storage.GameFile = filepath.Join(dataDir, "game.json")
	}

	if c.Monitor.PollInterval <= 0 {
		c.Monitor.PollInterval = Duration(200 * time.Millisecond)
	}
	if c.Monitor.RefreshInterval <= 0 {
		c.Monitor.RefreshInterval = Duration(350 * time.Millisecond)
	}
	if c.Monitor.SaveInterval <= 0 {
		c.Monitor.SaveInterval = Duration(10 * time.Second)
	}
	if c.Monitor.MaxPauses <= 0 {
		c.Monitor.MaxPauses = 2
	}

	if c.Scoring == (Scoring{}) {
		c.Scoring = Scoring{
			PointsPerStudyMin:      10,
			PenaltyPerIllegal10Sec: 5,
			PenaltyPerBreakMin:     8,
			BonusNoIllegal:         50,
			BonusLowBreaks:         20,
			BonusNoPauses:          10,
			LowBreaksSec:           120,
			XPPerPoint:             1,
			LevelXPUnit:            500,
		}
	}
	if c.Scoring.LevelXPUnit <= 0 {
		c.Scoring.LevelXPUnit = 500
	}

	if c.Tone.FreqHz <= 0 {
		c.Tone.FreqHz = 2500
	}
	if c.Tone.DurationSec <= 0 {
		c.Tone.DurationSec = 0.12
	}
	if c.Tone.Volume <= 0 {
		c.Tone.Volume = 0.35
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		base = os.Getenv("HOME")
	}
	return filepath.Join(base, "focusguard", "config.toml")
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".local", "share", "focusguard")
}

// LoadFromFile reads a TOML config file. A missing file is not an error:
// the defaults are returned so the daemon can start without any setup.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}
	return LoadFromBytes(data)
}

func LoadFromBytes(data []byte) (*Config, error) {
	var c Config
	if err := toml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	c.SetDefault()
	return &c, nil
}
