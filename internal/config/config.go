package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Store backends.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"CabinetDoc"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	DB struct {
		Host        string        `envconfig:"DB_HOST" default:"localhost"`
		Port        int           `envconfig:"DB_PORT" default:"5432"`
		User        string        `envconfig:"DB_USER" default:"postgres"`
		Password    string        `envconfig:"DB_PASSWORD" default:""`
		Name        string        `envconfig:"DB_NAME" default:"cabinetdoc"`
		MaxOpen     int           `envconfig:"DB_MAX_OPEN_CONNS" default:"25"`
		MaxIdle     int           `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
		MaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"5m"`
		Migrate     bool          `envconfig:"DB_MIGRATE" default:"true"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}

	Store struct {
		Backend string `envconfig:"STORE_BACKEND" default:"file"`
		File    string `envconfig:"STORE_FILE" default:"data/cabinetdoc.json"`
	}

	Redis struct {
		Addr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
		Password string `envconfig:"REDIS_PASSWORD" default:""`
		DB       int    `envconfig:"REDIS_DB" default:"0"`
		Prefix   string `envconfig:"REDIS_PREFIX" default:"cabinetdoc:"`
	}

	Persistence struct {
		// Strict surfaces store failures to callers instead of logging them.
		Strict bool `envconfig:"PERSISTENCE_STRICT" default:"false"`
	}

	CORS struct {
		AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:5173"`
	}

	// Firm overrides the cabinet identity printed on documents. Empty fields
	// keep the built-in values.
	Firm struct {
		Name        string `envconfig:"FIRM_NAME"`
		Title       string `envconfig:"FIRM_TITLE"`
		Address     string `envconfig:"FIRM_ADDRESS"`
		Agrement    string `envconfig:"FIRM_AGREMENT"`
		NIF         string `envconfig:"FIRM_NIF"`
		NIS         string `envconfig:"FIRM_NIS"`
		AI          string `envconfig:"FIRM_AI"`
		BankName    string `envconfig:"FIRM_BANK_NAME"`
		RIB         string `envconfig:"FIRM_RIB"`
		BankAddress string `envconfig:"FIRM_BANK_ADDRESS"`
		City        string `envconfig:"FIRM_CITY"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	switch cfg.Store.Backend {
	case BackendMemory, BackendFile, BackendPostgres, BackendRedis:
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}

	return &cfg, nil
}
