package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server Server `mapstructure:"server"`
	Log    Log    `mapstructure:"log"`
	Garmin Garmin `mapstructure:"garmin"`
}

// Server holds server-specific configuration
type Server struct {
	Port string `mapstructure:"port"`
	Env  string `mapstructure:"env"`
}

// Log holds logging configuration
type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Garmin holds wearable-sync configuration. SampleMode controls the
// fallback policy: when enabled, authentication or connectivity failures
// load the bundled sample dataset instead of failing the request.
type Garmin struct {
	BaseURL    string `mapstructure:"base_url"`
	SampleMode bool   `mapstructure:"sample_mode"`
}

// Load reads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set default values
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.env", "development")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("garmin.base_url", "https://connectapi.garmin.com")
	v.SetDefault("garmin.sample_mode", true)

	// Read from environment variables
	v.SetEnvPrefix("SOMNUS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Also bind to non-prefixed environment variables for convenience
	v.BindEnv("server.port", "PORT")
	v.BindEnv("garmin.sample_mode", "GARMIN_SAMPLE_MODE")

	// Read from config file if it exists
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// It's okay if config file doesn't exist
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks that all required configuration values are present
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if !c.Garmin.SampleMode && c.Garmin.BaseURL == "" {
		return fmt.Errorf("GARMIN base_url is required when sample mode is disabled")
	}
	return nil
}
