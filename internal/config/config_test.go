package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	flag "github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

func TestParse_JSONCWithCommentsAndTrailingCommas(t *testing.T) {
	t.Parallel()

	cfg, err := Parse([]byte(`{
		// budget for the whole cache
		"capacity_bytes": 1048576,
		"segments": 4,
		"duration": "250ms",
		"read_pct": 70, /* inline */
		"cas_pct": 10,
	}`))
	require.NoError(t, err)
	require.EqualValues(t, 1<<20, cfg.Capacity)
	require.Equal(t, 4, cfg.Segments)
	require.Equal(t, Duration(250*time.Millisecond), cfg.Duration)
	require.Equal(t, 70, cfg.ReadPct)
	require.Equal(t, 10, cfg.CASPct)
	// Untouched fields keep their defaults.
	require.Equal(t, Default().Workers, cfg.Workers)
}

func TestParse_Rejects(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		data string
	}{
		{name: "UnknownField", data: `{"capacity": 1}`},
		{name: "BadDuration", data: `{"duration": "soon"}`},
		{name: "NumericDuration", data: `{"duration": 10}`},
		{name: "ZeroCapacity", data: `{"capacity_bytes": 0}`},
		{name: "MixOver100", data: `{"read_pct": 90, "cas_pct": 20}`},
		{name: "NegativePct", data: `{"remove_pct": -1}`},
		{name: "FlatZipf", data: `{"zipf_s": 1.0}`},
		{name: "Malformed", data: `{`},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse([]byte(testCase.data))
			require.Error(t, err)
		})
	}
}

func TestValidate_WrapsErrInvalid(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Workers = 0
	require.ErrorIs(t, cfg.Validate(), ErrInvalid)
	require.NoError(t, Default().Validate())
}

func TestDuration_RoundTrip(t *testing.T) {
	t.Parallel()

	b, err := Duration(1500 * time.Millisecond).MarshalJSON()
	require.NoError(t, err)
	require.JSONEq(t, `"1.5s"`, string(b))
}

func TestFlags_FileThenExplicitFlags(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bench.jsonc")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"capacity_bytes": 4096,
		"workers": 3, // overridden below
		"keys": 100,
	}`), 0o600))

	fs := flag.NewFlagSet("bench", flag.ContinueOnError)
	f := NewFlags(fs)
	require.NoError(t, fs.Parse([]string{"-c", path, "--workers", "5", "--duration=1s"}))

	cfg, err := f.Resolve()
	require.NoError(t, err)
	require.Equal(t, path, f.Path())
	require.Equal(t, path, cfg.Source)
	require.EqualValues(t, 4096, cfg.Capacity, "file value kept")
	require.Equal(t, 100, cfg.Keys, "file value kept")
	require.Equal(t, 5, cfg.Workers, "flag overrides file")
	require.Equal(t, Duration(time.Second), cfg.Duration)
}

func TestFlags_MissingFile(t *testing.T) {
	t.Parallel()

	fs := flag.NewFlagSet("bench", flag.ContinueOnError)
	f := NewFlags(fs)
	require.NoError(t, fs.Parse([]string{"--config", filepath.Join(t.TempDir(), "nope.json")}))

	_, err := f.Resolve()
	require.ErrorIs(t, err, os.ErrNotExist)
}
