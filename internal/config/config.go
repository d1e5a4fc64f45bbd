// Package config loads the engine settings from a YAML file. Everything has
// a working default; a missing file is not an error.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type GoogleConfig struct {
	// DailyThresholdHours reclassifies a rate-limit window as daily when the
	// remaining time until reset exceeds it.
	DailyThresholdHours float64 `yaml:"daily_threshold_hours"`
}

type Config struct {
	// TimeoutSeconds bounds every upstream usage call.
	TimeoutSeconds int `yaml:"timeout_seconds"`

	// AuthFile overrides the credential store location.
	AuthFile string `yaml:"auth_file"`

	// BaseURLs overrides upstream base URLs per provider id.
	BaseURLs map[string]string `yaml:"base_urls"`

	Google GoogleConfig `yaml:"google"`
}

func DefaultConfig() Config {
	return Config{
		TimeoutSeconds: 15,
		Google:         GoogleConfig{DailyThresholdHours: 10},
	}
}

func (c Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (c Config) DailyThreshold() time.Duration {
	if c.Google.DailyThresholdHours <= 0 {
		return 10 * time.Hour
	}
	return time.Duration(c.Google.DailyThresholdHours * float64(time.Hour))
}

func ConfigDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "openchamber")
}

func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

func Load() (Config, error) {
	return LoadFrom(ConfigPath())
}

func LoadFrom(path string) (Config, error) {
	c := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return c, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &c); err != nil {
		return DefaultConfig(), fmt.Errorf("parsing config %s: %w", path, err)
	}
	return c, nil
}

func Save(c Config) error {
	return SaveTo(ConfigPath(), c)
}

func SaveTo(path string, c Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
