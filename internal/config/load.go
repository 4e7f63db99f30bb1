package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load reads configuration from environment variables and an optional
// config file. Environment variables (prefixed with PRESENTPAL_) take
// precedence over values from the config file, which in turn take
// precedence over defaults. Returns a populated Config struct or an
// error if loading or validation fails.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	// Optional config file: config.yaml in the working directory.
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		// A missing file is fine, a malformed one is not.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Environment variables: PRESENTPAL_SERVER_PORT, PRESENTPAL_STORAGE_ENDPOINT, ...
	v.SetEnvPrefix("PRESENTPAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// setDefaults registers default values for all settings that have a
// sensible out-of-the-box value.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 5100)
	v.SetDefault("server.log_level", "info")

	v.SetDefault("storage.endpoint", "localhost:9000")
	v.SetDefault("storage.use_ssl", false)
	v.SetDefault("storage.public_base_url", "http://localhost:9000")

	// Registered with empty defaults so viper binds the keys for
	// environment lookup; validation rejects them when left unset.
	v.SetDefault("storage.access_key", "")
	v.SetDefault("storage.secret_key", "")
	v.SetDefault("services.audio_url", "")
	v.SetDefault("services.animation_url", "")
	v.SetDefault("services.compose_url", "")
	v.SetDefault("services.ask_url", "")

	v.SetDefault("converter.soffice_path", "soffice")
	v.SetDefault("converter.pdftoppm_path", "pdftoppm")

	v.SetDefault("pipeline.upload_dir", "uploads")
	v.SetDefault("pipeline.media_timeout_seconds", 120)
	v.SetDefault("pipeline.compose_timeout_seconds", 180)
}
