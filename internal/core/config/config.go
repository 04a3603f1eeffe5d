package config

import (
	"time"

	"github.com/Waito3007/aRefactor/internal/api"
	redisclient "github.com/Waito3007/aRefactor/internal/infra/redis"
	"github.com/Waito3007/aRefactor/internal/infra/storage/postgres"
)

// AppConfig represents the top-level configuration.
type AppConfig struct {
	Server   api.ServerConfig   `yaml:"server"`
	Catalog  CatalogConfig      `yaml:"catalog"`
	Redis    redisclient.Config `yaml:"redis"`
	Logging  LoggingConfig      `yaml:"logging"`
	Database postgres.Config    `yaml:"database"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// CatalogConfig holds catalog behavior settings.
type CatalogConfig struct {
	// TrashRetention is how long a soft-deleted product stays recoverable
	// before the pruner removes it permanently. 0 = keep forever.
	TrashRetention time.Duration `yaml:"trash_retention"`
	// ReadOnly rejects every catalog mutation while set.
	ReadOnly bool `yaml:"read_only"`
}
