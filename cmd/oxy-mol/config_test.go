package main

import (
	"flag"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envOf(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig(flag.NewFlagSet("oxy-mol", flag.ContinueOnError), nil, envOf(nil))
	require.NoError(t, err)

	assert.Equal(t, Config{
		LogLevel: "info",
		Window:   true,
		Width:    1280,
		Height:   720,
	}, cfg)
}

func TestLoadConfig_EnvVars(t *testing.T) {
	cfg, err := loadConfig(flag.NewFlagSet("oxy-mol", flag.ContinueOnError), nil, envOf(map[string]string{
		"OXYMOL_SCENE":   "water.yaml",
		"OXYMOL_WATCH":   "true",
		"OXYMOL_WINDOW":  "false",
		"OXYMOL_WS_ADDR": ":8090",
		"OXYMOL_WORKERS": "4",
	}))
	require.NoError(t, err)

	assert.Equal(t, "water.yaml", cfg.Scene)
	assert.True(t, cfg.Watch)
	assert.False(t, cfg.Window)
	assert.Equal(t, ":8090", cfg.WSAddr)
	assert.Equal(t, 4, cfg.Workers)
}

func TestLoadConfig_FlagsOverrideEnvVars(t *testing.T) {
	args := []string{"-scene", "flag.json", "-log-level", "debug", "-window=false", "-width", "640"}
	cfg, err := loadConfig(flag.NewFlagSet("oxy-mol", flag.ContinueOnError), args, envOf(map[string]string{
		"OXYMOL_SCENE":     "env.json",
		"OXYMOL_LOG_LEVEL": "error",
		"OXYMOL_WINDOW":    "true",
	}))
	require.NoError(t, err)

	assert.Equal(t, "flag.json", cfg.Scene)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.False(t, cfg.Window)
	assert.Equal(t, 640, cfg.Width)
	assert.Equal(t, 720, cfg.Height)
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	_, err := loadConfig(flag.NewFlagSet("oxy-mol", flag.ContinueOnError), nil, envOf(map[string]string{
		"OXYMOL_WATCH":   "sometimes",
		"OXYMOL_WORKERS": "-2",
	}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "watch")
	assert.Contains(t, err.Error(), "workers")
}

func TestWindowTitle(t *testing.T) {
	assert.Equal(t, "oxy-mol", windowTitle(""))
	assert.Equal(t, "oxy-mol - water.yaml", windowTitle("water.yaml"))
}
