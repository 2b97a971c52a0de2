package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Defaults applied when neither the environment nor a config file
// provides a value.
const (
	DefaultPort            = 8080
	DefaultLogLevel        = "info"
	DefaultMaxProjects     = 100
	DefaultMaxTasks        = 100
	DefaultOverdueInterval = "15m"
)

// Load reads configuration from environment variables, with a .env file
// as a convenience for local development. Environment variables use the
// TODOLIST_ prefix with underscores for nesting, e.g.
// TODOLIST_SERVER_PORT or TODOLIST_LIMITS_MAX_PROJECTS.
// Returns a populated Config struct or an error if loading/validation
// fails.
func Load() (*Config, error) {
	// Missing .env is the normal case outside local development.
	_ = godotenv.Load()

	v := viper.New()

	v.SetDefault("server.port", DefaultPort)
	v.SetDefault("server.log_level", DefaultLogLevel)
	v.SetDefault("database.url", "")
	v.SetDefault("limits.max_projects", DefaultMaxProjects)
	v.SetDefault("limits.max_tasks", DefaultMaxTasks)
	v.SetDefault("overdue.interval", DefaultOverdueInterval)

	v.SetEnvPrefix("TODOLIST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if _, err := time.ParseDuration(cfg.Overdue.Interval); err != nil {
		return nil, fmt.Errorf("invalid overdue interval %q: %w", cfg.Overdue.Interval, err)
	}

	return &cfg, nil
}

// OverdueInterval returns the parsed overdue run interval. Load has
// already validated the string, so errors here mean the Config was
// built by hand.
func (c *Config) OverdueInterval() (time.Duration, error) {
	return time.ParseDuration(c.Overdue.Interval)
}
