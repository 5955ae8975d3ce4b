package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/cortex/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 100*time.Millisecond, cfg.Interval())
	assert.Equal(t, domain.DecayRate, cfg.Activation.DecayRate)
	assert.Equal(t, domain.NodeReinforcement, cfg.Reinforce.Node)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Empty(t, cfg.Redis.Addr)
}

func TestLoad_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cortex.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log:
  level: debug
tick:
  interval: 250ms
activation:
  decay_rate: 0.1
signals:
  on_link: true
redis:
  addr: localhost:6379
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format, "unset fields keep defaults")
	assert.Equal(t, 250*time.Millisecond, cfg.Interval())
	assert.Equal(t, 0.1, cfg.Activation.DecayRate)
	assert.True(t, cfg.Signals.OnLink)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, "cortex:snapshots", cfg.Redis.Channel)
}

func TestLoad_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cortex.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"tick":{"interval":"1s"},"placement":{"jitter":0}}`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, time.Second, cfg.Interval())
	assert.Equal(t, 0.0, cfg.Placement.Jitter)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("tick:\n  interval: soon\n"), 0o644))
	_, err = Load(bad)
	assert.ErrorContains(t, err, "invalid duration")

	zero := filepath.Join(dir, "zero.yaml")
	require.NoError(t, os.WriteFile(zero, []byte("signals:\n  speed: 0\n"), 0o644))
	_, err = Load(zero)
	assert.ErrorContains(t, err, "signals.speed")
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"CORTEX_HTTP_ADDR":       "127.0.0.1:9000",
		"CORTEX_LOG_LEVEL":       "warn",
		"CORTEX_TICK_INTERVAL":   "50ms",
		"CORTEX_SIGNALS_ON_LINK": "true",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Default()
	require.NoError(t, cfg.applyEnv(lookup))

	assert.Equal(t, "127.0.0.1:9000", cfg.HTTP.Addr)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, 50*time.Millisecond, cfg.Interval())
	assert.True(t, cfg.Signals.OnLink)

	env["CORTEX_SIGNALS_ON_LINK"] = "maybe"
	assert.Error(t, cfg.applyEnv(lookup))
}

func TestBrainOptions(t *testing.T) {
	cfg := Default()
	opts, err := cfg.BrainOptions()
	require.NoError(t, err)
	assert.Len(t, opts, 6)

	cfg.Regions.File = filepath.Join(t.TempDir(), "nope.yaml")
	_, err = cfg.BrainOptions()
	assert.Error(t, err)
}
