// Package config holds the tunables of a game: board rules, the timing of
// the frame loop and the random seed. Values are read from YAML on top of
// Default.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/plus3/hiddengems/gem"
	"gopkg.in/yaml.v3"
)

// EnvPath names the environment variable FromEnv reads the config path from.
const EnvPath = "HIDDENGEMS_CONFIG"

// ErrInvalidConfig is wrapped by every error Validate returns.
var ErrInvalidConfig = errors.New("config: invalid")

// Config is the full set of game settings.
type Config struct {
	Board  Board  `yaml:"board"`
	Timing Timing `yaml:"timing"`

	// Seed makes piece colors reproducible. Zero picks a random seed.
	Seed uint64 `yaml:"seed"`
}

// Board mirrors gem.Rules.
type Board struct {
	Rows           int `yaml:"rows"`
	Cols           int `yaml:"cols"`
	FullColumnRun  int `yaml:"full_column_run"`
	PointsPerLevel int `yaml:"points_per_level"`
	MaxLevel       int `yaml:"max_level"`
}

// Timing drives the frame loop. Durations are written as Go duration strings
// such as "1s" or "100ms".
type Timing struct {
	Fall          time.Duration `yaml:"fall"`
	FallDecrement time.Duration `yaml:"fall_decrement"`
	FastFall      time.Duration `yaml:"fast_fall"`
	ShiftRepeat   time.Duration `yaml:"shift_repeat"`
	MatchFlash    time.Duration `yaml:"match_flash"`
}

// Default returns the settings of the reference game.
func Default() *Config {
	rules := gem.DefaultRules()
	return &Config{
		Board: Board{
			Rows:           rules.Rows,
			Cols:           rules.Cols,
			FullColumnRun:  rules.FullColumnRun,
			PointsPerLevel: rules.PointsPerLevel,
			MaxLevel:       rules.MaxLevel,
		},
		Timing: Timing{
			Fall:          time.Second,
			FallDecrement: 100 * time.Millisecond,
			FastFall:      100 * time.Millisecond,
			ShiftRepeat:   100 * time.Millisecond,
			MatchFlash:    time.Second,
		},
	}
}

// Load reads the YAML file at path over Default. Keys missing from the file
// keep their default; unknown keys are an error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML bytes over Default and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if len(bytes.TrimSpace(data)) > 0 {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil {
			return nil, fmt.Errorf("decode: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromEnv loads the file named by $HIDDENGEMS_CONFIG, or returns Default
// when the variable is unset.
func FromEnv() (*Config, error) {
	path := os.Getenv(EnvPath)
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// Validate checks the board against gem.Rules and the timing for values the
// frame loop cannot run with.
func (c *Config) Validate() error {
	if err := c.Rules().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	t := c.Timing
	switch {
	case t.Fall <= 0:
		return fmt.Errorf("%w: fall interval %v", ErrInvalidConfig, t.Fall)
	case t.FastFall <= 0:
		return fmt.Errorf("%w: fast fall interval %v", ErrInvalidConfig, t.FastFall)
	case t.FallDecrement < 0:
		return fmt.Errorf("%w: fall decrement %v", ErrInvalidConfig, t.FallDecrement)
	case t.ShiftRepeat <= 0:
		return fmt.Errorf("%w: shift repeat %v", ErrInvalidConfig, t.ShiftRepeat)
	case t.MatchFlash < 0:
		return fmt.Errorf("%w: match flash %v", ErrInvalidConfig, t.MatchFlash)
	}
	return nil
}

// Rules converts the board section for gem.NewSession.
func (c *Config) Rules() gem.Rules {
	return gem.Rules{
		Rows:           c.Board.Rows,
		Cols:           c.Board.Cols,
		FullColumnRun:  c.Board.FullColumnRun,
		PointsPerLevel: c.Board.PointsPerLevel,
		MaxLevel:       c.Board.MaxLevel,
	}
}

// SessionOptions returns the gem options implied by the config.
func (c *Config) SessionOptions() []gem.Option {
	if c.Seed == 0 {
		return nil
	}
	return []gem.Option{gem.WithSeed(c.Seed)}
}

// FallInterval is the normal fall period at level. Each level shortens it by
// FallDecrement, never below the fast fall period.
func (t Timing) FallInterval(level int) time.Duration {
	interval := t.Fall - time.Duration(level)*t.FallDecrement
	if interval < t.FastFall {
		return t.FastFall
	}
	return interval
}
