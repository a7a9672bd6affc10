package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	chdir(t, t.TempDir())

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, "localhost:3000", cfg.ServerAddress)
	assert.Equal(t, 5*time.Second, cfg.DialTimeout)
	assert.True(t, cfg.IsLocal())
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server_address: funko.example:3000\ndial_timeout: 2s\napp_env: prod\n"), 0o600))
	chdir(t, t.TempDir())

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, "funko.example:3000", cfg.ServerAddress)
	assert.Equal(t, 2*time.Second, cfg.DialTimeout)
	assert.True(t, cfg.IsProd())
}

func TestLoad_EnvironmentWins(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	chdir(t, t.TempDir())
	t.Setenv("SERVER_ADDRESS", "10.0.0.5:3000")

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.5:3000", cfg.ServerAddress)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	chdir(t, t.TempDir())

	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidDialTimeout(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	chdir(t, t.TempDir())
	t.Setenv("DIAL_TIMEOUT", "0s")

	_, err := Load(viper.New(), "")
	assert.EqualError(t, err, "dial_timeout must be positive")
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
