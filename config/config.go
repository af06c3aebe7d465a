package config

import (
	"fmt"
	"log"
	"net"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is stripped from every environment variable the service reads.
// The first underscore after the prefix separates the section from the key:
// PASTILLERO_STORE_MONGO_URI -> store.mongo_uri
const EnvPrefix = "PASTILLERO_"

type Config struct {
	Server  ServerConfig  `koanf:"server" validate:"required"`
	Store   StoreConfig   `koanf:"store" validate:"required"`
	Log     LogConfig     `koanf:"log" validate:"required"`
	Metrics MetricsConfig `koanf:"metrics"`
}

type ServerConfig struct {
	Host string `koanf:"host"`
	Port string `koanf:"port" validate:"required,numeric"`
	Mode string `koanf:"mode" validate:"oneof=debug release test"`
}

type StoreConfig struct {
	Driver         string        `koanf:"driver" validate:"oneof=mongo sqlite"`
	MongoURI       string        `koanf:"mongo_uri" validate:"required_if=Driver mongo"`
	Database       string        `koanf:"database" validate:"required"`
	SQLitePath     string        `koanf:"sqlite_path" validate:"required_if=Driver sqlite"`
	ConnectTimeout time.Duration `koanf:"connect_timeout" validate:"min=0"`
}

type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=debug info warn error"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

type MetricsConfig struct {
	Enabled bool `koanf:"enabled"`
}

// Default returns the configuration used when no variable overrides a key.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: "5000",
			Mode: "release",
		},
		Store: StoreConfig{
			Driver:         "sqlite",
			Database:       "pastillero",
			SQLitePath:     "./data/pastillero.db",
			ConnectTimeout: 10 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// Load reads an optional .env file, overlays PASTILLERO_* variables on the
// defaults and validates the result.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	k := koanf.New(".")
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("decode configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks struct tags and the cross-field rules tags cannot express.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	if c.Store.Driver == "mongo" && !strings.HasPrefix(c.Store.MongoURI, "mongodb://") &&
		!strings.HasPrefix(c.Store.MongoURI, "mongodb+srv://") {
		return fmt.Errorf("configuration validation failed: %sSTORE_MONGO_URI must be a mongodb:// or mongodb+srv:// URI", EnvPrefix)
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, s.Port)
}

func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.Replace(key, "_", ".", 1)
}
