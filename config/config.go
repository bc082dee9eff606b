// Package config loads the lazyrest configuration from lazyrest.yml,
// with environment variable overrides.
package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Config represents the lazyrest configuration.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Server   ServerConfig   `mapstructure:"server"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// DatabaseConfig represents database configuration. An empty URL means
// the in-memory store backs the generated endpoints.
type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

// ServerConfig represents server configuration.
type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Host string `mapstructure:"host"`
}

// LoggingConfig represents logging configuration.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads lazyrest.yml (or lazyrest.yaml) from the current
// directory. A missing file is not an error; defaults apply.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("server.port", 3000)
	v.SetDefault("server.host", "localhost")
	v.SetDefault("logging.level", "info")

	v.SetConfigName("lazyrest")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

// Address renders the host:port listen address.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// DatabaseURL returns the database URL, preferring the DATABASE_URL
// environment variable over the config file.
func (c *Config) DatabaseURL() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}
	return c.Database.URL
}
