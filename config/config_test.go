package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/spektr-org/qimen/refdata"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "text", cfg.Output.Format)

	step, err := cfg.GetStep()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Hour, step)

	loc, err := cfg.GetLocation()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "qimen.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
reference_data: tables/core.json
timezone: Asia/Shanghai
output:
  format: grid
batch:
  workers: 3
logging:
  level: debug
metrics:
  enabled: true
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "tables/core.json"), cfg.ReferenceData)
	assert.Equal(t, "grid", cfg.Output.Format)
	assert.Equal(t, 3, cfg.Batch.Workers)
	assert.Equal(t, "2h", cfg.Batch.Step, "unset keys keep their defaults")
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "qimen.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output: [unclosed"), 0o644))
	_, err := Load(path)
	assert.ErrorContains(t, err, "failed to parse config")
}

func TestValidate(t *testing.T) {
	cases := map[string]func(c *Config){
		"format":     func(c *Config) { c.Output.Format = "pdf" },
		"level":      func(c *Config) { c.Logging.Level = "loud" },
		"log format": func(c *Config) { c.Logging.Format = "xml" },
		"workers":    func(c *Config) { c.Batch.Workers = -1 },
		"step":       func(c *Config) { c.Batch.Step = "soon" },
		"zero step":  func(c *Config) { c.Batch.Step = "0s" },
		"timezone":   func(c *Config) { c.Timezone = "Mars/Olympus" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "qimen.yaml")
	cfg := Default()
	cfg.Output.Format = "json"
	require.NoError(t, cfg.Save(path))

	back, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, back)
}

func TestLoadTables(t *testing.T) {
	tables, err := Default().LoadTables()
	require.NoError(t, err)
	assert.Len(t, tables.Stars, refdata.StarCount)

	path := filepath.Join(t.TempDir(), "core.json")
	require.NoError(t, os.WriteFile(path, refdata.DefaultDocument(), 0o644))
	cfg := Default()
	cfg.ReferenceData = path
	tables, err = cfg.LoadTables()
	require.NoError(t, err)
	assert.Len(t, tables.Gates, refdata.GateCount)
}

func TestNewLogger(t *testing.T) {
	cfg := Default()
	logger, err := cfg.NewLogger(false)
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))

	logger, err = cfg.NewLogger(true)
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))

	cfg.Logging.Level = "nope"
	_, err = cfg.NewLogger(false)
	assert.Error(t, err)
}
