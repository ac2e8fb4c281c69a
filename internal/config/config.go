package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Upload    UploadConfig
	Extractor ServiceClientConfig
	Verifier  ServiceClientConfig
	Session   SessionConfig
	CORS      CORSConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string `mapstructure:"port"`
	ReadTimeout  string `mapstructure:"read_timeout"`
	WriteTimeout string `mapstructure:"write_timeout"`
	Environment  string `mapstructure:"environment"`
}

// UploadConfig holds document upload limits.
type UploadConfig struct {
	MaxFileSizeMB int64 `mapstructure:"max_file_size_mb"`
}

// ServiceClientConfig holds settings for one external HTTP service client.
type ServiceClientConfig struct {
	BaseURL      string `mapstructure:"base_url"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`
	MaxAttempts  int    `mapstructure:"max_attempts"`
	RetryDelayMS int    `mapstructure:"retry_delay_ms"`
}

// SessionConfig holds session registry settings.
type SessionConfig struct {
	TTLMinutes        int `mapstructure:"ttl_minutes"`
	SweepIntervalSecs int `mapstructure:"sweep_interval_secs"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Load reads configuration from environment variables (prefix SCANFORM),
// applying defaults for anything unset.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SCANFORM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// Upload defaults
	v.SetDefault("upload.max_file_size_mb", 20)

	// Extraction service defaults
	v.SetDefault("extractor.base_url", "http://127.0.0.1:8000")
	v.SetDefault("extractor.timeout_secs", 120)
	v.SetDefault("extractor.max_attempts", 3)
	v.SetDefault("extractor.retry_delay_ms", 2000)

	// Verification service defaults
	v.SetDefault("verifier.base_url", "http://127.0.0.1:8000")
	v.SetDefault("verifier.timeout_secs", 120)
	v.SetDefault("verifier.max_attempts", 3)
	v.SetDefault("verifier.retry_delay_ms", 2000)

	// Session defaults
	v.SetDefault("session.ttl_minutes", 60)
	v.SetDefault("session.sweep_interval_secs", 60)

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000,http://localhost:5173,http://127.0.0.1:5173")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Comma-separated env value support for allowed origins
	if len(cfg.CORS.AllowedOrigins) == 1 && strings.Contains(cfg.CORS.AllowedOrigins[0], ",") {
		cfg.CORS.AllowedOrigins = strings.Split(cfg.CORS.AllowedOrigins[0], ",")
	}

	return &cfg, nil
}
