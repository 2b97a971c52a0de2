package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database"`
	Limits   LimitsConfig   `mapstructure:"limits"   validate:"required"`
	Overdue  OverdueConfig  `mapstructure:"overdue"  validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
// An empty URL selects the in-memory backend.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"omitempty,url"`
}

// LimitsConfig caps how many projects may exist and how many tasks each
// project may hold.
type LimitsConfig struct {
	MaxProjects int `mapstructure:"max_projects" validate:"required,gt=0"`
	MaxTasks    int `mapstructure:"max_tasks"    validate:"required,gt=0"`
}

// OverdueConfig controls the background job that closes overdue tasks.
type OverdueConfig struct {
	// Interval between runs, as a Go duration string ("15m").
	Interval string `mapstructure:"interval" validate:"required"`
}
