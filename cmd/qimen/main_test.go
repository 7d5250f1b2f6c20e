package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/qimen/calendar"
	"github.com/spektr-org/qimen/config"
	"github.com/spektr-org/qimen/engine"
	"github.com/spektr-org/qimen/refdata"
)

// ── Fixtures ──────────────────────────────────────────────────────────────────

// fixedCharts casts stamps against a Yang 1 moment with every stem at home.
func fixedCharts(t *testing.T, stamps ...string) []*engine.ChartResult {
	t.Helper()
	tables, err := refdata.Default()
	require.NoError(t, err)

	jiazi, err := calendar.ParsePillar("甲子")
	require.NoError(t, err)
	month, err := calendar.ParsePillar("丙子")
	require.NoError(t, err)
	m := calendar.Moment{
		SolarTerm: "冬至",
		Pillars:   calendar.FourPillars{Year: jiazi, Month: month, Day: jiazi, Hour: jiazi},
	}

	e, err := engine.New(tables,
		engine.WithCalendar(calendar.ResolverFunc(func(time.Time) (calendar.Moment, error) { return m, nil })),
		engine.WithLocation(time.UTC),
	)
	require.NoError(t, err)

	out := make([]*engine.ChartResult, 0, len(stamps))
	for _, ts := range stamps {
		r, err := e.Cast(ts)
		require.NoError(t, err)
		out = append(out, r)
	}
	return out
}

// withBatchFlags sets the batch globals for one test and restores them after.
func withBatchFlags(t *testing.T, from, to, file string, step time.Duration) {
	t.Helper()
	oldCfg, oldFrom, oldTo, oldFile, oldStep := cfg, batchFrom, batchTo, batchFile, batchStep
	t.Cleanup(func() {
		cfg, batchFrom, batchTo, batchFile, batchStep = oldCfg, oldFrom, oldTo, oldFile, oldStep
	})

	cfg = config.Default()
	cfg.Timezone = "UTC"
	batchFrom, batchTo, batchFile, batchStep = from, to, file, step
}

// ============================================================================
// RENDER
// ============================================================================

func TestRenderFormats(t *testing.T) {
	one := fixedCharts(t, "20240101000000")
	two := fixedCharts(t, "20240101000000", "20240101020000")

	tests := []struct {
		name    string
		format  string
		results []*engine.ChartResult
		check   func(t *testing.T, out string)
	}{
		{
			name:    "json single object",
			format:  "json",
			results: one,
			check: func(t *testing.T, out string) {
				var v map[string]interface{}
				require.NoError(t, json.Unmarshal([]byte(out), &v))
				assert.Equal(t, "蓬", v["chiefStar"])
				assert.Equal(t, 1, strings.Count(out, "\n"))
			},
		},
		{
			name:    "json array",
			format:  "json",
			results: two,
			check: func(t *testing.T, out string) {
				var v []map[string]interface{}
				require.NoError(t, json.Unmarshal([]byte(out), &v))
				require.Len(t, v, 2)
				assert.Equal(t, "20240101020000", v[1]["timestamp"])
			},
		},
		{
			name:    "pretty",
			format:  "pretty",
			results: one,
			check: func(t *testing.T, out string) {
				assert.Contains(t, out, "\n  \"timestamp\": \"20240101000000\"")
			},
		},
		{
			name:    "csv",
			format:  "csv",
			results: two,
			check: func(t *testing.T, out string) {
				rows, err := csv.NewReader(strings.NewReader(out)).ReadAll()
				require.NoError(t, err)
				assert.Len(t, rows, 1+18)
			},
		},
		{
			name:    "text",
			format:  "text",
			results: one,
			check: func(t *testing.T, out string) {
				assert.Equal(t, engine.BuildText(one[0]), out)
			},
		},
		{
			name:    "grid",
			format:  "grid",
			results: one,
			check: func(t *testing.T, out string) {
				assert.Contains(t, out, "20240101000000 冬至 阳遁1局")
				assert.Contains(t, out, "蓬")
				assert.Contains(t, out, "双辛入墓")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, render(&buf, tt.format, tt.results))
			tt.check(t, buf.String())
		})
	}
}

func TestRenderCellStruckAnnotation(t *testing.T) {
	out := renderCell(engine.GridCell{
		Palace:      2,
		Color:       "#D97706",
		Lines:       []string{"玄武"},
		Annotations: []string{"未:~日空~", "未:己六击"},
	})
	assert.NotContains(t, out, "~")
	assert.Contains(t, out, "未:日空")
	assert.Contains(t, out, "未:己六击")
}

// ============================================================================
// BATCH STAMPS
// ============================================================================

func TestBatchStampsRange(t *testing.T) {
	withBatchFlags(t, "20250901000000", "20250901060000", "", 0)
	stamps, err := batchStamps()
	require.NoError(t, err)
	assert.Equal(t, []string{"20250901000000", "20250901020000", "20250901040000", "20250901060000"}, stamps)

	withBatchFlags(t, "20250901000000", "20250901060000", "", 3*time.Hour)
	stamps, err = batchStamps()
	require.NoError(t, err)
	assert.Equal(t, []string{"20250901000000", "20250901030000", "20250901060000"}, stamps)
}

func TestBatchStampsRejectsBadRange(t *testing.T) {
	withBatchFlags(t, "2025-09-01", "20250901060000", "", 0)
	_, err := batchStamps()
	assert.ErrorIs(t, err, calendar.ErrInvalidTimestamp)
}

func TestBatchStampsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stamps.csv")
	require.NoError(t, os.WriteFile(path, []byte("timestamp\n20250901060000\n20250901120000\n"), 0o644))

	// The file wins even when range flags are left over.
	withBatchFlags(t, "20250901000000", "20250902000000", path, 0)
	stamps, err := batchStamps()
	require.NoError(t, err)
	assert.Equal(t, []string{"20250901060000", "20250901120000"}, stamps)

	withBatchFlags(t, "", "", filepath.Join(t.TempDir(), "missing.csv"), 0)
	_, err = batchStamps()
	assert.Error(t, err)
}

// ============================================================================
// CONFIG INIT
// ============================================================================

func TestInitConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "qimen.yaml")

	require.NoError(t, initConfig(path, false))
	loaded, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), loaded)

	err = initConfig(path, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	require.NoError(t, initConfig(path, true))
}
