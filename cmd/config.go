package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"pickup/internal/core/application/usecases/commands"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Storage drivers.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config is the service configuration. Values come from defaults, then the
// optional YAML file, then the environment (after loading an optional .env).
type Config struct {
	HTTPPort string `yaml:"http_port"`
	LogLevel string `yaml:"log_level"`

	Storage struct {
		Driver string `yaml:"driver"`
	} `yaml:"storage"`

	DB struct {
		Host     string `yaml:"host"`
		Port     string `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
		SslMode  string `yaml:"sslmode"`
	} `yaml:"db"`

	Dispatch struct {
		DefaultRadiusKm       float64 `yaml:"default_radius_km"`
		MaxLocationAgeSeconds int     `yaml:"max_location_age_seconds"`
		SingleActiveJob       bool    `yaml:"single_active_job"`
	} `yaml:"dispatch"`

	Lifecycle struct {
		AllowCollectorAbort bool `yaml:"allow_collector_abort"`
	} `yaml:"lifecycle"`

	Jobs struct {
		BacklogSchedule      string `yaml:"backlog_schedule"`
		AutoDispatchEnabled  bool   `yaml:"auto_dispatch_enabled"`
		AutoDispatchSchedule string `yaml:"auto_dispatch_schedule"`
	} `yaml:"jobs"`
}

// DefaultConfig returns the configuration used when nothing overrides it.
func DefaultConfig() Config {
	var c Config
	c.HTTPPort = "8080"
	c.LogLevel = "info"
	c.Storage.Driver = StoragePostgres
	c.DB.Host = "localhost"
	c.DB.Port = "5432"
	c.DB.User = "postgres"
	c.DB.Name = "pickup"
	c.DB.SslMode = "disable"
	c.Dispatch.DefaultRadiusKm = 10
	c.Jobs.BacklogSchedule = "*/15 * * * * *"
	c.Jobs.AutoDispatchSchedule = "*/30 * * * * *"
	return c
}

// LoadConfig builds the configuration. An empty path skips the YAML file; a
// path that does not exist is an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		if err = yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env file: %w", err)
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str("HTTP_PORT", &c.HTTPPort)
	str("LOG_LEVEL", &c.LogLevel)
	str("STORAGE_DRIVER", &c.Storage.Driver)
	str("DB_HOST", &c.DB.Host)
	str("DB_PORT", &c.DB.Port)
	str("DB_USER", &c.DB.User)
	str("DB_PASSWORD", &c.DB.Password)
	str("DB_NAME", &c.DB.Name)
	str("DB_SSLMODE", &c.DB.SslMode)
	str("JOBS_BACKLOG_SCHEDULE", &c.Jobs.BacklogSchedule)
	str("JOBS_AUTO_DISPATCH_SCHEDULE", &c.Jobs.AutoDispatchSchedule)

	var errList []error
	parse := func(key string, set func(string) error) {
		if v, ok := lookup(key); ok && v != "" {
			if err := set(v); err != nil {
				errList = append(errList, fmt.Errorf("%s: %w", key, err))
			}
		}
	}
	parse("DISPATCH_DEFAULT_RADIUS_KM", func(v string) (err error) {
		c.Dispatch.DefaultRadiusKm, err = strconv.ParseFloat(v, 64)
		return err
	})
	parse("DISPATCH_MAX_LOCATION_AGE_SECONDS", func(v string) (err error) {
		c.Dispatch.MaxLocationAgeSeconds, err = strconv.Atoi(v)
		return err
	})
	parse("DISPATCH_SINGLE_ACTIVE_JOB", func(v string) (err error) {
		c.Dispatch.SingleActiveJob, err = strconv.ParseBool(v)
		return err
	})
	parse("LIFECYCLE_ALLOW_COLLECTOR_ABORT", func(v string) (err error) {
		c.Lifecycle.AllowCollectorAbort, err = strconv.ParseBool(v)
		return err
	})
	parse("JOBS_AUTO_DISPATCH_ENABLED", func(v string) (err error) {
		c.Jobs.AutoDispatchEnabled, err = strconv.ParseBool(v)
		return err
	})

	return errors.Join(errList...)
}

// Validate rejects settings the service cannot run with.
func (c Config) Validate() error {
	var errList []error
	if c.Storage.Driver != StoragePostgres && c.Storage.Driver != StorageMemory {
		errList = append(errList, fmt.Errorf("storage driver %q is not one of %s, %s",
			c.Storage.Driver, StoragePostgres, StorageMemory))
	}
	if !(c.Dispatch.DefaultRadiusKm > 0) {
		errList = append(errList, fmt.Errorf("default dispatch radius must be positive, got %v", c.Dispatch.DefaultRadiusKm))
	}
	if c.Dispatch.MaxLocationAgeSeconds < 0 {
		errList = append(errList, errors.New("max location age must not be negative"))
	}
	if c.HTTPPort == "" {
		errList = append(errList, errors.New("http port is required"))
	}
	return errors.Join(errList...)
}

// DSN is the postgres connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%v port=%v user=%v password=%v dbname=%v sslmode=%v",
		c.DB.Host, c.DB.Port, c.DB.User, c.DB.Password, c.DB.Name, c.DB.SslMode)
}

// Policy is the lifecycle policy the command handlers enforce.
func (c Config) Policy() commands.LifecyclePolicy {
	return commands.LifecyclePolicy{
		SingleActiveJob:     c.Dispatch.SingleActiveJob,
		AllowCollectorAbort: c.Lifecycle.AllowCollectorAbort,
		MaxLocationAge:      time.Duration(c.Dispatch.MaxLocationAgeSeconds) * time.Second,
	}
}
