package config

import (
	"time"

	flag "github.com/spf13/pflag"
)

// Flags binds command-line flags to a Config and merges the ones the user
// actually set onto a base Config.
type Flags struct {
	fs   *flag.FlagSet
	vals Config
	path string
}

// NewFlags registers all config flags (and --config) on fs.
// Defaults shown in help come from Default().
func NewFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{fs: fs, vals: Default()}
	v := &f.vals

	fs.StringVarP(&f.path, "config", "c", "", "JSONC config file")
	fs.Int64Var(&v.Capacity, "capacity", v.Capacity, "cache byte budget")
	fs.IntVar(&v.Segments, "segments", v.Segments, "number of segments (0=auto)")
	fs.IntVar(&v.SegmentInitialCapacity, "segment-initial-capacity", v.SegmentInitialCapacity, "presized entries per segment (0=default)")
	fs.IntVarP(&v.Workers, "workers", "w", v.Workers, "number of worker goroutines")
	fs.DurationVarP((*time.Duration)(&v.Duration), "duration", "d", time.Duration(v.Duration), "benchmark duration")
	fs.IntVar(&v.ReadPct, "reads", v.ReadPct, "read percentage [0..100]")
	fs.IntVar(&v.CASPct, "cas", v.CASPct, "compare-and-swap percentage [0..100]")
	fs.IntVar(&v.RemovePct, "removes", v.RemovePct, "remove percentage [0..100]")
	fs.IntVar(&v.Keys, "keys", v.Keys, "keyspace size")
	fs.IntVar(&v.ValueSize, "value-size", v.ValueSize, "value size in bytes")
	fs.Float64Var(&v.ZipfS, "zipf-s", v.ZipfS, "Zipf s > 1 (skew)")
	fs.Float64Var(&v.ZipfV, "zipf-v", v.ZipfV, "Zipf v >= 1")
	fs.Int64Var(&v.Seed, "seed", v.Seed, "random seed")
	fs.IntVar(&v.Preload, "preload", v.Preload, "entries to preload before measuring")
	fs.StringVar(&v.HTTPAddr, "http", v.HTTPAddr, "serve /metrics and /stats at addr (empty = disabled)")
	fs.StringVar(&v.Report, "report", v.Report, "write a JSON report to this path")
	fs.StringVar(&v.LogLevel, "log-level", v.LogLevel, "debug|info|warn|error")
	return f
}

// Path returns the --config value.
func (f *Flags) Path() string { return f.path }

// Resolve loads the config file (if any) and applies explicitly set flags.
func (f *Flags) Resolve() (Config, error) {
	cfg := Default()
	if f.path != "" {
		var err error
		if cfg, err = Load(f.path); err != nil {
			return Config{}, err
		}
	}

	setters := map[string]func(){
		"capacity":                 func() { cfg.Capacity = f.vals.Capacity },
		"segments":                 func() { cfg.Segments = f.vals.Segments },
		"segment-initial-capacity": func() { cfg.SegmentInitialCapacity = f.vals.SegmentInitialCapacity },
		"workers":                  func() { cfg.Workers = f.vals.Workers },
		"duration":                 func() { cfg.Duration = f.vals.Duration },
		"reads":                    func() { cfg.ReadPct = f.vals.ReadPct },
		"cas":                      func() { cfg.CASPct = f.vals.CASPct },
		"removes":                  func() { cfg.RemovePct = f.vals.RemovePct },
		"keys":                     func() { cfg.Keys = f.vals.Keys },
		"value-size":               func() { cfg.ValueSize = f.vals.ValueSize },
		"zipf-s":                   func() { cfg.ZipfS = f.vals.ZipfS },
		"zipf-v":                   func() { cfg.ZipfV = f.vals.ZipfV },
		"seed":                     func() { cfg.Seed = f.vals.Seed },
		"preload":                  func() { cfg.Preload = f.vals.Preload },
		"http":                     func() { cfg.HTTPAddr = f.vals.HTTPAddr },
		"report":                   func() { cfg.Report = f.vals.Report },
		"log-level":                func() { cfg.LogLevel = f.vals.LogLevel },
	}
	f.fs.Visit(func(fl *flag.Flag) {
		if set, ok := setters[fl.Name]; ok {
			set()
		}
	})

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
