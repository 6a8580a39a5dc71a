package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gobench.yaml")
	require.NoError(t, os.WriteFile(path, []byte(text), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
listen: ":9090"
timeout: 2s
log:
  level: debug
instruments:
  - {name: scope, address: "tcp://192.168.1.20", model: DSOX1204G}
  - {name: psu, address: "serial:///dev/ttyUSB0?baud=9600", model: e36312a}
redis:
  addr: "127.0.0.1:6379"
  history: 20
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Listen)
	assert.Equal(t, 2*time.Second, cfg.Timeout)
	assert.Equal(t, "debug", cfg.Log.Level)
	require.Len(t, cfg.Instruments, 2)
	require.NotNil(t, cfg.Redis)
	assert.Equal(t, "gobench_waveforms", cfg.Redis.Channel)
	assert.Equal(t, 10, cfg.Redis.PoolSize)
	assert.Equal(t, 20, cfg.Redis.History)

	ic, ok := cfg.Instrument("PSU")
	require.True(t, ok)
	assert.Equal(t, "serial:///dev/ttyUSB0?baud=9600", ic.Address)
	_, ok = cfg.Instrument("dmm")
	assert.False(t, ok)
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "instruments: []\n"))
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Listen)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Nil(t, cfg.Redis)
	assert.Positive(t, cfg.Timeout)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := map[string]string{
		"negative timeout": "timeout: -1s\n",
		"missing address":  "instruments: [{name: scope, model: DSOX1204G}]\n",
		"unknown model":    "instruments: [{name: dmm, address: tcp://dmm, model: HP34401A}]\n",
		"duplicate name": `
instruments:
  - {name: scope, address: tcp://a, model: DSOX1204G}
  - {name: Scope, address: tcp://b, model: DSOX1204G}
`,
		"shared address": `
instruments:
  - {name: a, address: tcp://bench, model: DSOX1204G}
  - {name: b, address: tcp://bench, model: E36312A}
`,
		"redis without addr": "redis: {history: 5}\n",
		"not yaml":           "instruments: [\n",
	}
	for name, text := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, text))
			assert.Error(t, err)
		})
	}

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
