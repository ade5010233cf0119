// Package config loads the padctl configuration file.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v2"
)

// DefaultPath is where Load looks when no path is given.
const DefaultPath = "padctl.yaml"

type Log struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

type Stream struct {
	PollIntervalMS int `yaml:"poll_interval_ms"` // XInput poll cadence
	WaitTimeoutMS  int `yaml:"wait_timeout_ms"`  // DirectInput wait bound
	BufferSize     int `yaml:"buffer_size"`      // DirectInput event buffer
}

type Filter struct {
	ProxyMarkers []string `yaml:"proxy_markers"` // overrides the built-in list when set
}

type Relay struct {
	Addr      string `yaml:"addr"`
	StaticDir string `yaml:"static_dir"` // serve this directory instead of the embedded page
}

type Config struct {
	Log    Log    `yaml:"log"`
	Stream Stream `yaml:"stream"`
	Filter Filter `yaml:"filter"`
	Relay  Relay  `yaml:"relay"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Log: Log{Level: "info"},
		Stream: Stream{
			PollIntervalMS: 2,
			WaitTimeoutMS:  100,
			BufferSize:     64,
		},
		Relay: Relay{Addr: ":8787"},
	}
}

// Load reads the file at path. An empty path tries DefaultPath and
// falls back to the defaults when nothing is there; a path given
// explicitly must exist.
func Load(path string) (*Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			slog.Debug("no config file, using defaults", slog.String("path", path))
			return cfg, nil
		}
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.sanitize()
	switch strings.ToLower(cfg.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		slog.Warn("unknown log level, using info", slog.String("level", cfg.Log.Level))
	}
	return cfg, nil
}

// sanitize puts defaults back where the file zeroed or disabled a
// value that has no meaningful off switch.
func (c *Config) sanitize() {
	d := Default()
	if c.Stream.PollIntervalMS <= 0 {
		c.Stream.PollIntervalMS = d.Stream.PollIntervalMS
	}
	if c.Stream.WaitTimeoutMS <= 0 {
		c.Stream.WaitTimeoutMS = d.Stream.WaitTimeoutMS
	}
	if c.Stream.BufferSize <= 0 {
		c.Stream.BufferSize = d.Stream.BufferSize
	}
	if c.Relay.Addr == "" {
		c.Relay.Addr = d.Relay.Addr
	}
}

func (s Stream) PollInterval() time.Duration {
	return time.Duration(s.PollIntervalMS) * time.Millisecond
}

func (s Stream) WaitTimeout() time.Duration {
	return time.Duration(s.WaitTimeoutMS) * time.Millisecond
}

// SlogLevel maps the configured level name onto slog. Unknown names
// mean info.
func (l Log) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
