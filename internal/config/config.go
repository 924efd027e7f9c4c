package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel string   `yaml:"log-level" env:"TTT_LOG_LEVEL" env-default:"info"`
	HTTP     HTTP     `yaml:"http"`
	Sessions Sessions `yaml:"sessions"`
}

type HTTP struct {
	Addr            string        `yaml:"addr" env:"TTT_HTTP_ADDR" env-default:":8080"`
	ReadTimeout     time.Duration `yaml:"read-timeout" env:"TTT_READ_TIMEOUT" env-default:"10s"`
	ShutdownTimeout time.Duration `yaml:"shutdown-timeout" env:"TTT_SHUTDOWN_TIMEOUT" env-default:"10s"`
	// Heartbeat is the keep-alive interval on board event streams.
	Heartbeat time.Duration `yaml:"heartbeat" env:"TTT_HEARTBEAT" env-default:"15s"`
}

// Sessions controls eviction of idle in-memory games.
type Sessions struct {
	TTL           time.Duration `yaml:"ttl" env:"TTT_SESSION_TTL" env-default:"2h"`
	SweepInterval time.Duration `yaml:"sweep-interval" env:"TTT_SWEEP_INTERVAL" env-default:"5m"`
}

// Load reads the YAML file at path, or only the environment when path is empty.
// Environment variables override file values.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	var err error
	if path == "" {
		err = cleanenv.ReadEnv(cfg)
	} else {
		err = cleanenv.ReadConfig(path, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("unable to load config: %w", err)
	}
	return cfg, nil
}

// MustLoad is Load that panics on error.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

// Level maps LogLevel to a slog level; unknown values fall back to info.
func (c *Config) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
