// Package config resolves application settings from defaults, an optional
// YAML file, a .env file and environment variables, in that order of
// increasing precedence. Command-line flags are applied by the caller last.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-priceform/pkg/notify"
	"github.com/goliatone/go-priceform/pkg/predict"
)

const (
	EnvEndpoint = "PRICEFORM_ENDPOINT"
	EnvContract = "PRICEFORM_CONTRACT"
	EnvTimeout  = "PRICEFORM_TIMEOUT"
	EnvLogLevel = "PRICEFORM_LOG_LEVEL"
)

// Config holds every runtime setting.
type Config struct {
	Endpoint      string        `yaml:"endpoint"`
	Contract      string        `yaml:"contract"`
	Timeout       time.Duration `yaml:"timeout"`
	BusyLabel     string        `yaml:"busy_label"`
	SubmitLabel   string        `yaml:"submit_label"`
	Notifications Notifications `yaml:"notifications"`
	Log           Log           `yaml:"log"`
}

// Notifications mirrors notify.Timing.
type Notifications struct {
	EnterDelay   time.Duration `yaml:"enter_delay"`
	Lifetime     time.Duration `yaml:"lifetime"`
	ExitDuration time.Duration `yaml:"exit_duration"`
}

// Timing converts to notify.Timing.
func (n Notifications) Timing() notify.Timing {
	return notify.Timing{
		EnterDelay:   n.EnterDelay,
		Lifetime:     n.Lifetime,
		ExitDuration: n.ExitDuration,
	}
}

// Log configures logging.
type Log struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Default returns the built-in settings.
func Default() Config {
	timing := notify.DefaultTiming()
	return Config{
		Endpoint:    predict.DefaultEndpoint,
		BusyLabel:   "Predicting...",
		SubmitLabel: "Predict Price",
		Notifications: Notifications{
			EnterDelay:   timing.EnterDelay,
			Lifetime:     timing.Lifetime,
			ExitDuration: timing.ExitDuration,
		},
		Log: Log{Level: "info"},
	}
}

// Load builds a Config. path may be empty; a missing file at an explicit path
// is an error. envFile names a dotenv file whose absence is ignored.
func Load(path, envFile string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("config: load %s: %w", envFile, err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvEndpoint); ok && strings.TrimSpace(v) != "" {
		c.Endpoint = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvContract); ok {
		c.Contract = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvTimeout); ok && strings.TrimSpace(v) != "" {
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("config: %s: %w", EnvTimeout, err)
		}
		c.Timeout = d
	}
	if v, ok := lookup(EnvLogLevel); ok && strings.TrimSpace(v) != "" {
		c.Log.Level = strings.TrimSpace(v)
	}
	return nil
}

// Validate checks values that would otherwise fail later in confusing ways.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Endpoint) == "" {
		return errors.New("config: endpoint is required")
	}
	if c.Timeout < 0 {
		return errors.New("config: timeout must not be negative")
	}
	n := c.Notifications
	if n.EnterDelay < 0 || n.Lifetime < 0 || n.ExitDuration < 0 {
		return errors.New("config: notification durations must not be negative")
	}
	if n.Lifetime < n.EnterDelay {
		return errors.New("config: notification lifetime is shorter than the entrance delay")
	}
	return nil
}
