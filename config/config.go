// Package config loads runtime settings from the environment and command line
package config

import (
	"errors"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/lixenwraith/scenery/load"
)

// Config holds everything the executable needs to load and run a scene stack
type Config struct {
	AssetRoot  string `env:"SCENERY_ASSET_ROOT" envDefault:"assets/"`
	JSONDir    string `env:"SCENERY_JSON_DIR" envDefault:"json/"`
	SceneStack string `env:"SCENERY_SCENE_STACK" envDefault:"basic_test_scene_stack"`

	LogLevel  string `env:"SCENERY_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"SCENERY_LOG_FORMAT" envDefault:"text"`
	// Terminal owns stdout, so logs go to a file
	LogFile string `env:"SCENERY_LOG_FILE" envDefault:"scenery.log"`

	FrameRate int  `env:"SCENERY_FRAME_RATE" envDefault:"60"`
	Mute      bool `env:"SCENERY_MUTE" envDefault:"false"`
}

// ParseEnv loads configuration from environment variables
func ParseEnv() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &cfg, nil
}

// BindFlags registers flags that override the environment values already in cfg
func (c *Config) BindFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.AssetRoot, "assets", c.AssetRoot, "asset root directory")
	fs.StringVar(&c.JSONDir, "json-dir", c.JSONDir, "json directory under the asset root")
	fs.StringVar(&c.SceneStack, "stack", c.SceneStack, "scene stack id under scene_stacks/")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "debug, info, warn or error")
	fs.StringVar(&c.LogFormat, "log-format", c.LogFormat, "text or json")
	fs.StringVar(&c.LogFile, "log-file", c.LogFile, "log destination; empty disables logging")
	fs.IntVar(&c.FrameRate, "fps", c.FrameRate, "ticks per second")
	fs.BoolVar(&c.Mute, "mute", c.Mute, "disable audio output")
}

// Load parses the environment and then args
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cfg, err := ParseEnv()
	if err != nil {
		return nil, err
	}
	cfg.BindFlags(fs)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints after parsing
func (c *Config) Validate() error {
	var errs []error
	if c.SceneStack == "" {
		errs = append(errs, errors.New("scene stack id is required"))
	}
	if c.FrameRate <= 0 {
		errs = append(errs, fmt.Errorf("frame rate must be positive, got %d", c.FrameRate))
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.LogFormat))
	}
	return errors.Join(errs...)
}

// Paths returns the asset path resolver
func (c *Config) Paths() load.Paths {
	return load.Paths{Root: c.AssetRoot, JSONDir: c.JSONDir}
}

// SceneStackPath returns the file holding the configured scene stack
func (c *Config) SceneStackPath() string {
	return c.Paths().JSON(load.SceneStacksDir, c.SceneStack)
}

// FrameInterval is the duration of one tick
func (c *Config) FrameInterval() time.Duration {
	return time.Second / time.Duration(c.FrameRate)
}
