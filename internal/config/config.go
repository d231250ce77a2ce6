// Package config loads the settings file and the Last.fm credentials file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const appName = "mediascrobbler"

type Config struct {
	Credentials string `koanf:"credentials"` // path of the credentials JSON file

	Target    TargetConfig    `koanf:"target"`
	Intervals IntervalsConfig `koanf:"intervals"`
	Scrobble  ScrobbleConfig  `koanf:"scrobble"`
	Lastfm    LastfmConfig    `koanf:"lastfm"`
	Log       LogConfig       `koanf:"log"`
	Notify    NotifyConfig    `koanf:"notify"`
}

// TargetConfig identifies the watched media application.
type TargetConfig struct {
	ProcessName string `koanf:"process_name"` // executable name in the process list
	AppMarker   string `koanf:"app_marker"`   // substring of the session owner id
}

// IntervalsConfig holds the loop timings.
type IntervalsConfig struct {
	IdlePoll     time.Duration `koanf:"idle_poll"`
	Tick         time.Duration `koanf:"tick"`
	NowPlaying   time.Duration `koanf:"now_playing"`
	SampleWindow time.Duration `koanf:"sample_window"` // gap between the two position reads
}

// ScrobbleConfig holds the track length rules.
type ScrobbleConfig struct {
	DefaultDuration time.Duration `koanf:"default_duration"` // used when the lookup fails
	MinDuration     time.Duration `koanf:"min_duration"`     // floor for reported lengths
}

// LastfmConfig holds the remote call limits.
type LastfmConfig struct {
	RequestTimeout    time.Duration `koanf:"request_timeout"`
	RequestsPerSecond float64       `koanf:"requests_per_second"`
}

// LogConfig holds the logger settings.
type LogConfig struct {
	Level string `koanf:"level"` // zerolog level name
}

// Load reads the config files in priority order; explicit, when set, is
// read last and must exist. Missing default files are skipped.
func Load(explicit string) (*Config, error) {
	k := koanf.New(".")

	for _, path := range getConfigPaths() {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, fmt.Errorf("read %s: %w", path, err)
			}
		}
	}
	if explicit != "" {
		path := expandPath(explicit)
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.applyDefaults()
	cfg.Credentials = expandPath(cfg.Credentials)

	return cfg, nil
}

// NotifyConfig toggles desktop notifications.
type NotifyConfig struct {
	Enabled bool `koanf:"enabled"` // notify after each scrobble
}

// applyDefaults fills every unset or invalid value.
func (c *Config) applyDefaults() {
	if c.Credentials == "" {
		c.Credentials = "auth.json"
	}
	if c.Target.ProcessName == "" {
		c.Target.ProcessName = "AppleMusic.exe"
	}
	if c.Target.AppMarker == "" {
		c.Target.AppMarker = "AppleMusic"
	}

	setDuration(&c.Intervals.IdlePoll, 5*time.Second)
	setDuration(&c.Intervals.Tick, time.Second)
	setDuration(&c.Intervals.NowPlaying, 10*time.Second)
	setDuration(&c.Intervals.SampleWindow, 2*time.Second)
	setDuration(&c.Scrobble.DefaultDuration, 60*time.Second)
	setDuration(&c.Scrobble.MinDuration, 60*time.Second)
	setDuration(&c.Lastfm.RequestTimeout, 15*time.Second)

	if c.Lastfm.RequestsPerSecond <= 0 {
		c.Lastfm.RequestsPerSecond = 5
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

func setDuration(d *time.Duration, def time.Duration) {
	if *d <= 0 {
		*d = def
	}
}

func getConfigPaths() []string {
	return []string{
		// 1. $XDG_CONFIG_HOME/mediascrobbler/config.toml
		filepath.Join(xdg.ConfigHome, appName, "config.toml"),
		// 2. ./config.toml (pwd, highest priority)
		"config.toml",
	}
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
