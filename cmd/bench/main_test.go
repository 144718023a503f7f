package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/IvanBrykalov/segcache/cache"
	pmet "github.com/IvanBrykalov/segcache/metrics/prom"
)

func TestRun_WritesReport(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "bench.jsonc")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`{
		// tiny run
		"capacity_bytes": 65536,
		"segments": 4,
		"workers": 2,
		"duration": "50ms",
		"keys": 1000,
		"value_size": 16,
		"preload": 100,
	}`), 0o600))
	report := filepath.Join(dir, "report.json")

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{"-c", cfgPath, "--report", report, "--log-level", "warn"}, &stdout, &stderr)
	require.NoError(t, err, stderr.String())
	require.Contains(t, stdout.String(), "hit-rate=")

	raw, err := os.ReadFile(report)
	require.NoError(t, err)
	var rep Report
	require.NoError(t, json.Unmarshal(raw, &rep))
	require.Positive(t, rep.Ops)
	require.Equal(t, rep.Ops, rep.Reads+rep.Writes+rep.CAS+rep.Removes)
	require.Equal(t, 4, rep.Cache.Segments)
	require.EqualValues(t, 65536, rep.Cache.Capacity)
	require.Equal(t, rep.Cache.Capacity-rep.Cache.UsedBytes, rep.Cache.FreeCapacity)
}

func TestRun_InvalidFlags(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{"--workers", "0"}, &stdout, &stderr)
	require.Error(t, err)

	err = run(context.Background(), []string{"--no-such-flag"}, &stdout, &stderr)
	require.Error(t, err)
}

func TestRouter_Endpoints(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	c := cache.New(cache.Options{Capacity: 1 << 10, Segments: 2, Metrics: pmet.New(reg, "segcache", "test", nil)})
	c.Put([]byte("a"), []byte("1"))
	c.Get([]byte("a"))

	srv := httptest.NewServer(newRouter(c, reg))
	t.Cleanup(srv.Close)

	get := func(path string) (int, string) {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		defer resp.Body.Close()
		var b bytes.Buffer
		_, err = b.ReadFrom(resp.Body)
		require.NoError(t, err)
		return resp.StatusCode, b.String()
	}

	code, body := get("/healthz")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "ok", body)

	code, body = get("/stats")
	require.Equal(t, http.StatusOK, code)
	var st cache.TableStats
	require.NoError(t, json.Unmarshal([]byte(body), &st))
	require.EqualValues(t, 1, st.HitCount)
	require.EqualValues(t, 1, st.Size)

	code, body = get("/stats/segments")
	require.Equal(t, http.StatusOK, code)
	var segs []cache.Stats
	require.NoError(t, json.Unmarshal([]byte(body), &segs))
	require.Len(t, segs, 2)

	code, body = get("/metrics")
	require.Equal(t, http.StatusOK, code)
	require.True(t, strings.Contains(body, "segcache_test_hits_total 1"), body)
}
