package config_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-wit/framework/config"
)

// ── helpers ──────────────────────────────────────────────────────────────────

// unsetEnv clears key for the duration of the test and restores it afterwards.
func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

var allKeys = []string{
	"APP_NAME", "APP_ENV", "APP_DEBUG", "APP_PORT",
	"CONTAINER_CAPACITY", "CONTAINER_MONITOR",
	"LOG_LEVEL", "LOG_FORMAT", "INSPECT_ENABLED",
}

// ── Load ─────────────────────────────────────────────────────────────────────

func TestLoad_Defaults(t *testing.T) {
	unsetEnv(t, allKeys...)
	cfg := config.Load("testdata/empty.env")

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"App.Name", cfg.App.Name, "GoWit"},
		{"App.Env", cfg.App.Env, "local"},
		{"App.Debug", cfg.App.Debug, true},
		{"App.Port", cfg.App.Port, "8000"},
		{"Container.Capacity", cfg.Container.Capacity, 16},
		{"Container.Monitor", cfg.Container.Monitor, false},
		{"Log.Level", cfg.Log.Level, "info"},
		{"Log.Format", cfg.Log.Format, "text"},
		{"Inspect.Enabled", cfg.Inspect.Enabled, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	t.Setenv("APP_NAME", "MyApp")
	t.Setenv("APP_ENV", "production")
	t.Setenv("APP_PORT", "9000")
	t.Setenv("CONTAINER_CAPACITY", "128")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("INSPECT_ENABLED", "true")

	cfg := config.Load("testdata/empty.env")

	assert.Equal(t, "MyApp", cfg.App.Name)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "9000", cfg.App.Port)
	assert.Equal(t, 128, cfg.Container.Capacity)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Inspect.Enabled)
}

func TestLoad_ReadsDotEnvFile(t *testing.T) {
	unsetEnv(t, allKeys...)

	cfg := config.Load("testdata/app.env")

	assert.Equal(t, "FromDotEnv", cfg.App.Name)
	assert.Equal(t, 64, cfg.Container.Capacity)
	assert.True(t, cfg.Container.Monitor)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_ProcessEnvWinsOverDotEnv(t *testing.T) {
	unsetEnv(t, allKeys...)
	t.Setenv("APP_NAME", "FromProcess")

	cfg := config.Load("testdata/app.env")

	assert.Equal(t, "FromProcess", cfg.App.Name)
}

func TestLoad_MissingFileIsNotFatal(t *testing.T) {
	unsetEnv(t, allKeys...)
	cfg := config.Load("testdata/does-not-exist.env")
	assert.Equal(t, "GoWit", cfg.App.Name)
}

func TestLoad_AppDebugFalse(t *testing.T) {
	t.Setenv("APP_DEBUG", "false")
	cfg := config.Load("testdata/empty.env")
	assert.False(t, cfg.App.Debug)
}

func TestLoad_InvalidCapacityFallsBack(t *testing.T) {
	t.Setenv("CONTAINER_CAPACITY", "lots")
	cfg := config.Load("testdata/empty.env")
	assert.Equal(t, 16, cfg.Container.Capacity)
}

// ── Get / GetInt / GetBool ───────────────────────────────────────────────────

func TestGet(t *testing.T) {
	t.Setenv("CUSTOM_KEY", "hello")
	assert.Equal(t, "hello", config.Get("CUSTOM_KEY", "default"))

	unsetEnv(t, "MISSING_KEY")
	assert.Equal(t, "fallback", config.Get("MISSING_KEY", "fallback"))
}

func TestGetInt(t *testing.T) {
	t.Setenv("SOME_INT", "42")
	assert.Equal(t, 42, config.GetInt("SOME_INT", 0))

	t.Setenv("SOME_INT", "notanint")
	assert.Equal(t, 99, config.GetInt("SOME_INT", 99))
}

func TestGetBool(t *testing.T) {
	for _, val := range []string{"true", "1", "True", "TRUE"} {
		t.Setenv("BOOL_KEY", val)
		assert.True(t, config.GetBool("BOOL_KEY", false), "value %q", val)
	}

	t.Setenv("BOOL_KEY", "false")
	assert.False(t, config.GetBool("BOOL_KEY", true))

	t.Setenv("BOOL_KEY", "notabool")
	assert.True(t, config.GetBool("BOOL_KEY", true), "fallback on invalid")
}
