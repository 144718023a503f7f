// Package config loads the workload configuration for cmd/bench.
//
// Configuration is resolved with the following precedence (highest wins):
//  1. Defaults
//  2. A JSON-with-comments file (--config)
//  3. Flags that were set explicitly on the command line
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/tailscale/hujson"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Duration is a time.Duration that reads and writes as "10s" in JSON.
type Duration time.Duration

// UnmarshalJSON accepts a Go duration string.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("duration must be a string like \"10s\": %w", err)
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalJSON writes the duration as a string.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// Config describes one benchmark run.
type Config struct {
	// Cache shape
	Capacity               int64 `json:"capacity_bytes"`
	Segments               int   `json:"segments,omitempty"`
	SegmentInitialCapacity int   `json:"segment_initial_capacity,omitempty"`

	// Workload
	Workers   int      `json:"workers"`
	Duration  Duration `json:"duration"`
	ReadPct   int      `json:"read_pct"`
	CASPct    int      `json:"cas_pct"`
	RemovePct int      `json:"remove_pct"`
	Keys      int      `json:"keys"`
	ValueSize int      `json:"value_size"`
	ZipfS     float64  `json:"zipf_s"`
	ZipfV     float64  `json:"zipf_v"`
	Seed      int64    `json:"seed"`
	Preload   int      `json:"preload"`

	// Surfaces
	HTTPAddr string `json:"http_addr,omitempty"`
	Report   string `json:"report,omitempty"`
	LogLevel string `json:"log_level,omitempty"`

	// Source is the file the config was read from, if any.
	Source string `json:"-"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Capacity:  64 << 20,
		Workers:   8,
		Duration:  Duration(10 * time.Second),
		ReadPct:   80,
		CASPct:    5,
		RemovePct: 5,
		Keys:      1_000_000,
		ValueSize: 128,
		ZipfS:     1.1,
		ZipfV:     1.0,
		Seed:      1,
		LogLevel:  "info",
	}
}

// Load reads path on top of Default and validates the result.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	cfg.Source = path
	return cfg, nil
}

// Parse decodes JSONC data on top of Default and validates the result.
// Unknown fields are rejected.
func Parse(data []byte) (Config, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, fmt.Errorf("parse: %w", err)
	}
	cfg := Default()
	dec := json.NewDecoder(bytes.NewReader(standardized))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks ranges and the operation mix.
func (c Config) Validate() error {
	switch {
	case c.Capacity <= 0:
		return fmt.Errorf("%w: capacity_bytes must be > 0", ErrInvalid)
	case c.Segments < 0:
		return fmt.Errorf("%w: segments must be >= 0", ErrInvalid)
	case c.Workers <= 0:
		return fmt.Errorf("%w: workers must be > 0", ErrInvalid)
	case c.Duration <= 0:
		return fmt.Errorf("%w: duration must be > 0", ErrInvalid)
	case c.Keys < 2:
		return fmt.Errorf("%w: keys must be >= 2", ErrInvalid)
	case c.ValueSize < 0:
		return fmt.Errorf("%w: value_size must be >= 0", ErrInvalid)
	case c.ZipfS <= 1:
		return fmt.Errorf("%w: zipf_s must be > 1", ErrInvalid)
	case c.ZipfV < 1:
		return fmt.Errorf("%w: zipf_v must be >= 1", ErrInvalid)
	case c.Preload < 0:
		return fmt.Errorf("%w: preload must be >= 0", ErrInvalid)
	}
	for name, pct := range map[string]int{"read_pct": c.ReadPct, "cas_pct": c.CASPct, "remove_pct": c.RemovePct} {
		if pct < 0 || pct > 100 {
			return fmt.Errorf("%w: %s must be in [0..100]", ErrInvalid, name)
		}
	}
	if c.ReadPct+c.CASPct+c.RemovePct > 100 {
		return fmt.Errorf("%w: read_pct+cas_pct+remove_pct exceeds 100", ErrInvalid)
	}
	return nil
}
