package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultServerAddress = "localhost:3000"
	defaultEnv           = "local"
	defaultDialTimeout   = 5 * time.Second
	defaultConfigDir     = ".funkokeeper"
)

type Config struct {
	Env           string        `mapstructure:"app_env"`
	ServerAddress string        `mapstructure:"server_address"`
	LogLevel      string        `mapstructure:"log_level"`
	DialTimeout   time.Duration `mapstructure:"dial_timeout"`
}

// Load reads the client configuration. An explicit cfgFile must exist;
// otherwise config.yaml is looked up in ~/.funkokeeper and the working
// directory, and a missing file falls back to the environment and defaults.
func Load(v *viper.Viper, cfgFile string) (*Config, error) {
	// .env рядом с бинарником не обязателен
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, defaultConfigDir))
		}
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.AutomaticEnv()
	v.SetDefault("app_env", defaultEnv)
	v.SetDefault("server_address", defaultServerAddress)
	v.SetDefault("log_level", "")
	v.SetDefault("dial_timeout", defaultDialTimeout)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	config := &Config{
		Env:           v.GetString("app_env"),
		ServerAddress: v.GetString("server_address"),
		LogLevel:      v.GetString("log_level"),
		DialTimeout:   v.GetDuration("dial_timeout"),
	}
	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// MustLoad загружает конфигурацию клиента из глобального viper
func MustLoad() *Config {
	cfg, err := Load(viper.GetViper(), "")
	if err != nil {
		panic(fmt.Sprintf("client config: %v", err))
	}
	return cfg
}

func (c *Config) validate() error {
	if c.ServerAddress == "" {
		return errors.New("server_address must not be empty")
	}
	if c.DialTimeout <= 0 {
		return errors.New("dial_timeout must be positive")
	}
	return nil
}

// IsProd проверяет, prod ли окружение
func (c *Config) IsProd() bool {
	return c.Env == "prod"
}

// IsLocal проверяет, local ли окружение
func (c *Config) IsLocal() bool {
	return c.Env == "local" || c.Env == ""
}
