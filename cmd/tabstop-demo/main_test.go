package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odvcencio/tabstop/pkg/config"
	tserrors "github.com/odvcencio/tabstop/pkg/errors"
)

func TestParseOptions(t *testing.T) {
	var stderr bytes.Buffer
	opts, err := parseOptions([]string{"-config", "c.yaml", "-log", "demo.log", "-metrics-addr", ":9464"}, &stderr)
	require.NoError(t, err)
	assert.Equal(t, "c.yaml", opts.configPath)
	assert.Equal(t, "demo.log", opts.logPath)
	assert.Equal(t, ":9464", opts.metricsAddr)
	assert.False(t, opts.version)
}

func TestParseOptionsRejectsExtraArgs(t *testing.T) {
	var stderr bytes.Buffer
	_, err := parseOptions([]string{"stray"}, &stderr)
	require.Error(t, err)
	assert.Equal(t, 2, exitCodeForError(err))

	_, err = parseOptions([]string{"-nope"}, &stderr)
	require.Error(t, err)
	assert.Equal(t, 2, exitCodeForError(err))
	assert.Contains(t, stderr.String(), "flag provided but not defined")
}

func TestParseOptionsHelp(t *testing.T) {
	var stderr bytes.Buffer
	_, err := parseOptions([]string{"-h"}, &stderr)
	assert.True(t, errors.Is(err, flag.ErrHelp))
}

func TestExitCodeForError(t *testing.T) {
	assert.Equal(t, 0, exitCodeForError(nil))
	assert.Equal(t, 1, exitCodeForError(errors.New("boom")))
	assert.Equal(t, 4, exitCodeForError(fmt.Errorf("wrapped: %w", withExitCode(errors.New("boom"), 4))))
	assert.Equal(t, exitCodeConfig, exitCodeForError(tserrors.New(tserrors.ErrCodeConfigInvalid, "bad")))
}

func TestLoadConfigFromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("focus:\n  history_size: 7\n"), 0o644))

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Focus.HistorySize)

	_, err = loadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, tserrors.IsCode(err, tserrors.ErrCodeConfigLoad))
}

func TestOpenLogger(t *testing.T) {
	cfg := config.DefaultConfig()

	logger, closeLog, err := openLogger(cfg, "")
	require.NoError(t, err)
	logger.Info("discarded")
	closeLog()

	path := filepath.Join(t.TempDir(), "demo.log")
	logger, closeLog, err = openLogger(cfg, path)
	require.NoError(t, err)
	logger.Info("hello")
	closeLog()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
	assert.Contains(t, string(data), `"component":"tabstop-demo"`)
}

func TestMetricsServerExposesRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "demo_presses_total", Help: "presses"})
	reg.MustRegister(counter)
	counter.Inc()

	srv := metricsServer(":0", reg)
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "demo_presses_total 1")
}
