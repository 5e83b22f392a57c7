package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPersistAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigDir, ConfigFile)

	cfg := NewDefaultConfig()
	cfg.SetPath(path)
	cfg.DeviceConfig.Kind = "melomind"
	cfg.StreamConfig.TriggerEnabled = true
	require.NoError(t, cfg.Persist(false))

	err := cfg.Persist(false)
	require.Error(t, err)
	assert.IsType(t, ErrConfigFileExists{}, err)
	require.NoError(t, cfg.Persist(true))

	loaded := NewDefaultConfig()
	loaded.SetPath(path)
	require.NoError(t, loaded.Load())
	assert.Equal(t, "melomind", loaded.DeviceConfig.Kind)
	assert.True(t, loaded.StreamConfig.TriggerEnabled)
	assert.Equal(t, DefaultApiPort, loaded.ApiConfig.Port)
}

func TestLoadMissingFileKeepsDefaults(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.SetPath(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, cfg.Load())
	assert.Equal(t, DefaultDeviceKind, cfg.DeviceConfig.Kind)
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.TransportConfig.Kind = "bluetooth"
	assert.IsType(t, ErrInvalidConfig{}, cfg.Validate())

	cfg = NewDefaultConfig()
	cfg.TransportConfig.Kind = TransportTCP
	cfg.TransportConfig.Address = ""
	assert.Error(t, cfg.Validate())

	cfg = NewDefaultConfig()
	cfg.StreamConfig.QueueSize = 0
	assert.Error(t, cfg.Validate())
}

func TestApiURL(t *testing.T) {
	cfg := NewDefaultConfig()
	assert.Equal(t, "http://127.0.0.1:8010/api", cfg.ApiURL())
}
