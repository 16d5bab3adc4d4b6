package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odvcencio/tabstop/pkg/config"
	tserrors "github.com/odvcencio/tabstop/pkg/errors"
)

func TestDefaultConfig(t *testing.T) {
	cfg := config.DefaultConfig()

	assert.Equal(t, 350*time.Millisecond, cfg.TypeAhead.Timeout)
	assert.Equal(t, config.DefaultHistorySize, cfg.Focus.HistorySize)
	assert.ElementsMatch(t, config.DefaultTrapFeatures, cfg.Focus.TrapFeatures)
	require.NoError(t, cfg.Validate())
}

func TestDefaultTrapFeaturesAreCopied(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Focus.TrapFeatures[0] = "mutated"

	assert.Equal(t, "initial_focus", config.DefaultConfig().Focus.TrapFeatures[0])
}

func TestParseOverridesOnlyGivenKeys(t *testing.T) {
	cfg, err := config.Parse([]byte(`
type_ahead:
  timeout: 500ms
logging:
  level: debug
`))
	require.NoError(t, err)

	assert.Equal(t, 500*time.Millisecond, cfg.TypeAhead.Timeout)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, config.DefaultHistorySize, cfg.Focus.HistorySize)
	assert.Len(t, cfg.Focus.TrapFeatures, 4)
}

func TestParseTrapFeatures(t *testing.T) {
	cfg, err := config.Parse([]byte(`
focus:
  trap_features: [tab_lock, restore_focus]
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"tab_lock", "restore_focus"}, cfg.Focus.TrapFeatures)
}

func TestParseRejectsUnknownFeature(t *testing.T) {
	_, err := config.Parse([]byte(`
focus:
  trap_features: [teleport]
`))
	require.Error(t, err)
	assert.True(t, tserrors.IsCode(err, tserrors.ErrCodeConfigInvalid))
}

func TestParseInvalidYAML(t *testing.T) {
	_, err := config.Parse([]byte("type_ahead: [unterminated"))
	require.Error(t, err)
	assert.True(t, tserrors.IsCode(err, tserrors.ErrCodeConfigParse))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"zero timeout", func(c *config.Config) { c.TypeAhead.Timeout = 0 }},
		{"bad level", func(c *config.Config) { c.Logging.Level = "loud" }},
		{"empty history", func(c *config.Config) { c.Focus.HistorySize = 0 }},
		{"metrics without namespace", func(c *config.Config) { c.Metrics.Namespace = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, tserrors.IsCode(err, tserrors.ErrCodeConfigInvalid))
		})
	}
}

func TestLoadFromPathWithEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("focus:\n  history_size: 3\n"), 0o644))

	t.Setenv("TABSTOP_TYPEAHEAD_TIMEOUT", "1s")
	t.Setenv("TABSTOP_LOG_LEVEL", "warn")

	cfg, err := config.LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Focus.HistorySize)
	assert.Equal(t, time.Second, cfg.TypeAhead.Timeout)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadFromPathMissing(t *testing.T) {
	_, err := config.LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, tserrors.IsCode(err, tserrors.ErrCodeConfigLoad))
}

func TestInvalidEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0o644))
	t.Setenv("TABSTOP_HISTORY_SIZE", "many")

	_, err := config.LoadFromPath(path)
	require.Error(t, err)
	assert.True(t, tserrors.IsCode(err, tserrors.ErrCodeConfigInvalid))
}

func TestLoadProjectConfig(t *testing.T) {
	project := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(project, ".tabstop"), 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(project, ".tabstop", "config.yaml"),
		[]byte("metrics:\n  namespace: myapp\n"),
		0o644,
	))

	oldWD, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(project))
	t.Cleanup(func() { _ = os.Chdir(oldWD) })

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "myapp", cfg.Metrics.Namespace)
}
