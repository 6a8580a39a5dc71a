package main

import (
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/momentics/gobench/internal/sink"
	"github.com/momentics/gobench/pkg/bench"
)

// Config - конфигурация сервера.
type Config struct {
	Listen      string             `yaml:"listen"`
	Timeout     time.Duration      `yaml:"timeout"`
	Log         LogConfig          `yaml:"log"`
	Instruments []InstrumentConfig `yaml:"instruments"`
	Redis       *sink.Config       `yaml:"redis"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Source bool   `yaml:"source"`
}

// InstrumentConfig - прибор, доступный через API под именем Name.
type InstrumentConfig struct {
	Name    string `yaml:"name"`
	Address string `yaml:"address"`
	Model   string `yaml:"model"`
}

// DefaultConfig возвращает конфигурацию по умолчанию, без приборов.
func DefaultConfig() *Config {
	return &Config{
		Listen:  ":8080",
		Timeout: bench.DefaultTimeout,
		Log:     LogConfig{Level: "info"},
	}
}

// LoadConfig читает YAML поверх значений по умолчанию и проверяет результат.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "parse config")
	}
	if cfg.Redis != nil {
		if cfg.Redis.Channel == "" {
			cfg.Redis.Channel = "gobench_waveforms"
		}
		if cfg.Redis.PoolSize == 0 {
			cfg.Redis.PoolSize = 10
		}
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Timeout <= 0 {
		return errors.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	names := make(map[string]bool, len(c.Instruments))
	addrs := make(map[string]string, len(c.Instruments))
	for i, inst := range c.Instruments {
		if inst.Name == "" || inst.Address == "" {
			return errors.Errorf("instrument %d: name and address are required", i)
		}
		key := strings.ToLower(inst.Name)
		if names[key] {
			return errors.Errorf("instrument %s declared twice", inst.Name)
		}
		names[key] = true
		if other, ok := addrs[inst.Address]; ok {
			return errors.Errorf("instruments %s and %s share address %s", other, inst.Name, inst.Address)
		}
		addrs[inst.Address] = inst.Name
		if _, err := bench.LookupModel(inst.Model); err != nil {
			return errors.Wrapf(err, "instrument %s", inst.Name)
		}
	}
	if c.Redis != nil && c.Redis.Addr == "" {
		return errors.New("redis: addr is required")
	}
	return nil
}

// Instrument ищет прибор по имени без учёта регистра.
func (c *Config) Instrument(name string) (InstrumentConfig, bool) {
	for _, inst := range c.Instruments {
		if strings.EqualFold(inst.Name, name) {
			return inst, true
		}
	}
	return InstrumentConfig{}, false
}
