// Command bench runs a synthetic workload against a segmented cache and
// optionally serves Prometheus metrics and live statistics over HTTP.
//
// Usage:
//
//	bench [-c bench.jsonc] [--capacity N] [--segments N] [-w workers] [-d 10s]
//	      [--reads 80] [--cas 5] [--removes 5] [--keys N] [--value-size N]
//	      [--http :8080] [--report out.json]
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	atomicfile "github.com/natefinch/atomic"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	flag "github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/IvanBrykalov/segcache/cache"
	"github.com/IvanBrykalov/segcache/internal/config"
	"github.com/IvanBrykalov/segcache/internal/logx"
	pmet "github.com/IvanBrykalov/segcache/metrics/prom"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// Report is the summary printed at the end of a run and optionally written
// to --report.
type Report struct {
	Config  config.Config    `json:"config"`
	Elapsed string           `json:"elapsed"`
	Ops     uint64           `json:"ops"`
	OpsPerS float64          `json:"ops_per_sec"`
	Reads   uint64           `json:"reads"`
	Writes  uint64           `json:"writes"`
	CAS     uint64           `json:"cas"`
	Removes uint64           `json:"removes"`
	Cache   cache.TableStats `json:"cache"`
}

// counters are shared by all workers.
type counters struct {
	total, reads, writes, cas, removes atomic.Uint64
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("bench", flag.ContinueOnError)
	fs.SetOutput(stderr)
	flags := config.NewFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := flags.Resolve()
	if err != nil {
		return err
	}

	level, err := logx.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	log := logx.New(stderr, level)
	if cfg.Source != "" {
		log.Info("config loaded", slog.String("path", cfg.Source))
	}

	reg := prometheus.NewRegistry()
	c, err := cache.NewE(cache.Options{
		Capacity:               cfg.Capacity,
		Segments:               cfg.Segments,
		SegmentInitialCapacity: cfg.SegmentInitialCapacity,
		Metrics:                pmet.New(reg, "segcache", "bench", nil),
		Logger:                 log,
	})
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	if cfg.HTTPAddr != "" {
		srv := &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           newRouter(c, reg),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			log.Info("http: serving", slog.String("addr", cfg.HTTPAddr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("http: server failed", slog.Any("err", err))
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	value := bytes.Repeat([]byte{'v'}, cfg.ValueSize)
	for i := 0; i < cfg.Preload; i++ {
		c.Put(keyBytes(uint64(i)), value)
	}
	c.ResetStatistics()

	var cnt counters
	start := time.Now()
	if err := drive(ctx, c, cfg, value, &cnt); err != nil {
		return err
	}
	elapsed := time.Since(start)

	rep := Report{
		Config:  cfg,
		Elapsed: elapsed.String(),
		Ops:     cnt.total.Load(),
		OpsPerS: float64(cnt.total.Load()) / elapsed.Seconds(),
		Reads:   cnt.reads.Load(),
		Writes:  cnt.writes.Load(),
		CAS:     cnt.cas.Load(),
		Removes: cnt.removes.Load(),
		Cache:   c.Stats(),
	}
	printReport(stdout, rep)

	if cfg.Report != "" {
		b, err := json.MarshalIndent(rep, "", "  ")
		if err != nil {
			return fmt.Errorf("encode report: %w", err)
		}
		if err := atomicfile.WriteFile(cfg.Report, bytes.NewReader(b)); err != nil {
			return fmt.Errorf("write report %s: %w", cfg.Report, err)
		}
		log.Info("report written", slog.String("path", cfg.Report))
	}
	return nil
}

// drive runs cfg.Workers goroutines until cfg.Duration elapses or ctx ends.
func drive(ctx context.Context, c cache.Cache, cfg config.Config, value []byte, cnt *counters) error {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(cfg.Duration))
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	keysMax := uint64(cfg.Keys - 1)
	for w := 0; w < cfg.Workers; w++ {
		id := w
		g.Go(func() error {
			// rand.Rand is not goroutine-safe: one RNG + Zipf per worker.
			r := rand.New(rand.NewSource(cfg.Seed + int64(id)*9973))
			zipf := rand.NewZipf(r, cfg.ZipfS, cfg.ZipfV, keysMax)

			for ctx.Err() == nil {
				k := keyBytes(zipf.Uint64())
				cnt.total.Add(1)
				switch p := r.Intn(100); {
				case p < cfg.ReadPct:
					cnt.reads.Add(1)
					c.Get(k)
				case p < cfg.ReadPct+cfg.CASPct:
					cnt.cas.Add(1)
					if old, ok := c.Get(k); ok {
						c.Replace(k, old, value)
					}
				case p < cfg.ReadPct+cfg.CASPct+cfg.RemovePct:
					cnt.removes.Add(1)
					c.Remove(k)
				default:
					cnt.writes.Add(1)
					c.Put(k, value)
				}
			}
			return nil
		})
	}
	return g.Wait()
}

func newRouter(c cache.Cache, reg *prometheus.Registry) http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/stats", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(c.Stats())
	})
	r.Get("/stats/segments", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(c.SegmentStats())
	})
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	return r
}

func keyBytes(i uint64) []byte {
	return strconv.AppendUint([]byte("k:"), i, 10)
}

func printReport(w io.Writer, rep Report) {
	st := rep.Cache
	fmt.Fprintf(w, "capacity=%d segments=%d workers=%d keys=%d dur=%s seed=%d\n",
		st.Capacity, st.Segments, rep.Config.Workers, rep.Config.Keys, rep.Elapsed, rep.Config.Seed)
	fmt.Fprintf(w, "ops=%d (%.0f ops/s)  reads=%d  writes=%d  cas=%d  removes=%d\n",
		rep.Ops, rep.OpsPerS, rep.Reads, rep.Writes, rep.CAS, rep.Removes)
	fmt.Fprintf(w, "hits=%d  misses=%d  hit-rate=%.2f%%\n", st.HitCount, st.MissCount, st.HitRate()*100)
	fmt.Fprintf(w, "adds=%d  replaces=%d  removes=%d  size=%d  free=%d/%d\n",
		st.PutAddCount, st.PutReplaceCount, st.RemoveCount, st.Size, st.FreeCapacity, st.Capacity)
}
