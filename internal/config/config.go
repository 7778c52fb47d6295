// Package config loads the sketch viewer configuration from TOML.
package config

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	gotoml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"

	"github.com/akhildatla/sketch/internal/logging"
)

// DefaultPath is the config file looked up when none is given.
const DefaultPath = "sketch.toml"

// Limits for the canvas size.
const (
	MaxDimension = 4096
	MaxScale     = 16
)

var ErrInvalidConfig = errors.New("invalid config")

// Config holds the viewer settings.
type Config struct {
	Width         int
	Height        int
	Scale         int // canvas pixels per terminal cell column
	FrameInterval time.Duration
	QuitKey       int
	MaxFrames     int // frames played by headless commands, 0 means until end of stream
	LogLevel      string
	LogFile       string // empty discards viewer logs
}

type fileConfig struct {
	Width         int    `toml:"width"`
	Height        int    `toml:"height"`
	Scale         int    `toml:"scale"`
	FrameInterval string `toml:"frame_interval"`
	QuitKey       int    `toml:"quit_key"`
	MaxFrames     int    `toml:"max_frames"`
	LogLevel      string `toml:"log_level"`
	LogFile       string `toml:"log_file"`
}

func Default() Config {
	return Config{
		Width:         200,
		Height:        200,
		Scale:         2,
		FrameInterval: 100 * time.Millisecond,
		QuitKey:       27,
		MaxFrames:     1000,
		LogLevel:      "info",
	}
}

// Load reads path from fs over the defaults. Keys missing from the file
// keep their default value.
func Load(fs afero.Fs, path string) (Config, error) {
	cfg := Default()

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}

	var raw fileConfig
	meta, err := toml.Decode(string(data), &raw)
	if err != nil {
		return Config{}, fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%w: unknown key %q", ErrInvalidConfig, undecoded[0].String())
	}

	if meta.IsDefined("width") {
		cfg.Width = raw.Width
	}
	if meta.IsDefined("height") {
		cfg.Height = raw.Height
	}
	if meta.IsDefined("scale") {
		cfg.Scale = raw.Scale
	}
	if meta.IsDefined("frame_interval") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.FrameInterval))
		if err != nil {
			return Config{}, fmt.Errorf("parse frame_interval: %w", err)
		}
		cfg.FrameInterval = d
	}
	if meta.IsDefined("quit_key") {
		cfg.QuitKey = raw.QuitKey
	}
	if meta.IsDefined("max_frames") {
		cfg.MaxFrames = raw.MaxFrames
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}
	if meta.IsDefined("log_file") {
		cfg.LogFile = strings.TrimSpace(raw.LogFile)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadOrDefault loads path if it exists and returns the defaults otherwise.
func LoadOrDefault(fs afero.Fs, path string) (Config, error) {
	ok, err := afero.Exists(fs, path)
	if err != nil {
		return Config{}, fmt.Errorf("config stat failed (%s): %w", path, err)
	}
	if !ok {
		return Default(), nil
	}
	return Load(fs, path)
}

func (c Config) Validate() error {
	if c.Width < 1 || c.Width > MaxDimension {
		return fmt.Errorf("%w: width %d not in [1, %d]", ErrInvalidConfig, c.Width, MaxDimension)
	}
	if c.Height < 1 || c.Height > MaxDimension {
		return fmt.Errorf("%w: height %d not in [1, %d]", ErrInvalidConfig, c.Height, MaxDimension)
	}
	if c.Scale < 1 || c.Scale > MaxScale {
		return fmt.Errorf("%w: scale %d not in [1, %d]", ErrInvalidConfig, c.Scale, MaxScale)
	}
	if c.FrameInterval <= 0 {
		return fmt.Errorf("%w: frame_interval must be positive", ErrInvalidConfig)
	}
	if c.QuitKey < 1 || c.QuitKey > 255 {
		return fmt.Errorf("%w: quit_key %d not in [1, 255]", ErrInvalidConfig, c.QuitKey)
	}
	if c.MaxFrames < 0 {
		return fmt.Errorf("%w: max_frames must not be negative", ErrInvalidConfig)
	}
	if _, ok := logging.ParseLevel(c.LogLevel); !ok {
		return fmt.Errorf("%w: log_level %q", ErrInvalidConfig, c.LogLevel)
	}
	return nil
}

// Encode writes c as TOML.
func Encode(w io.Writer, c Config) error {
	raw := fileConfig{
		Width:         c.Width,
		Height:        c.Height,
		Scale:         c.Scale,
		FrameInterval: c.FrameInterval.String(),
		QuitKey:       c.QuitKey,
		MaxFrames:     c.MaxFrames,
		LogLevel:      c.LogLevel,
		LogFile:       c.LogFile,
	}
	if err := gotoml.NewEncoder(w).Encode(raw); err != nil {
		return fmt.Errorf("config encode failed: %w", err)
	}
	return nil
}
