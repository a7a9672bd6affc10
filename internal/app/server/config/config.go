package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"funkokeeper/internal/infrastructure/storage"
)

const (
	envPath  = ".env"
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

type Config struct {
	Env     string
	DB      db
	Server  server
	Storage store
	Logger  logger
}

type db struct {
	DatabaseURI string `env:"DATABASE_URI"`
}

type server struct {
	RunAddress      string        `env:"RUN_ADDRESS" envDefault:":3000"`
	HealthAddress   string        `env:"HEALTH_ADDRESS"`
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"30s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
	MaxRequestBytes int64         `env:"MAX_REQUEST_BYTES" envDefault:"1048576"`
}

type store struct {
	Driver   string `env:"STORAGE_DRIVER" envDefault:"fs"`
	DataRoot string `env:"DATA_ROOT" envDefault:"./data"`
}

type logger struct {
	LogLevel string `env:"LOG_LEVEL"`
}

// MustLoad reads the configuration and stops the process when it is invalid.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalln(err)
	}
	return cfg
}

// Load reads an optional .env file (ENV_FILE overrides its path) and then
// the process environment.
func Load() (*Config, error) {
	path := envPath
	if p := os.Getenv("ENV_FILE"); p != "" {
		path = p
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	return fromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("app_env", EnvLocal)
	v.SetDefault("run_address", ":3000")
	v.SetDefault("health_address", "")
	v.SetDefault("data_root", "./data")
	v.SetDefault("storage_driver", storage.DriverFS)
	v.SetDefault("database_uri", "")
	v.SetDefault("log_level", "")
	v.SetDefault("read_timeout", 30*time.Second)
	v.SetDefault("write_timeout", 10*time.Second)
	v.SetDefault("max_request_bytes", 1<<20)
	return v
}

func fromViper(v *viper.Viper) (*Config, error) {
	config := Config{
		Env: strings.ToLower(v.GetString("app_env")),
		DB: db{
			DatabaseURI: v.GetString("database_uri"),
		},
		Server: server{
			RunAddress:      v.GetString("run_address"),
			HealthAddress:   v.GetString("health_address"),
			ReadTimeout:     v.GetDuration("read_timeout"),
			WriteTimeout:    v.GetDuration("write_timeout"),
			MaxRequestBytes: v.GetInt64("max_request_bytes"),
		},
		Storage: store{
			Driver:   strings.ToLower(v.GetString("storage_driver")),
			DataRoot: v.GetString("data_root"),
		},
		Logger: logger{LogLevel: v.GetString("log_level")},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate rejects combinations the server cannot start with.
func (c *Config) Validate() error {
	switch c.Env {
	case EnvLocal, EnvDev, EnvProd:
	default:
		return fmt.Errorf("unknown APP_ENV %q", c.Env)
	}

	switch c.Storage.Driver {
	case storage.DriverFS:
		if c.Storage.DataRoot == "" {
			return errors.New("DATA_ROOT is required for the fs storage driver")
		}
	case storage.DriverSQLite:
		if c.DB.DatabaseURI == "" && c.Storage.DataRoot == "" {
			return errors.New("DATABASE_URI or DATA_ROOT is required for the sqlite storage driver")
		}
	case storage.DriverPostgres:
		if c.DB.DatabaseURI == "" {
			return errors.New("DATABASE_URI is required for the postgres storage driver")
		}
	case storage.DriverMemory:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.Storage.Driver)
	}

	if c.Server.RunAddress == "" {
		return errors.New("RUN_ADDRESS must not be empty")
	}
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 {
		return errors.New("timeouts must not be negative")
	}
	if c.Server.MaxRequestBytes <= 0 {
		return errors.New("MAX_REQUEST_BYTES must be positive")
	}
	return nil
}

// StorageOptions maps the configuration onto storage.Open.
func (c *Config) StorageOptions() storage.Options {
	return storage.Options{
		Driver:      c.Storage.Driver,
		DataRoot:    c.Storage.DataRoot,
		DatabaseURI: c.DB.DatabaseURI,
	}
}
