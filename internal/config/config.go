package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Storage   StorageConfig   `mapstructure:"storage" validate:"required"`
	Services  ServicesConfig  `mapstructure:"services" validate:"required"`
	Converter ConverterConfig `mapstructure:"converter" validate:"required"`
	Pipeline  PipelineConfig  `mapstructure:"pipeline" validate:"required"`
}

// ServerConfig contains all HTTP server related settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// StorageConfig contains the connection settings for the S3-compatible
// blob store holding every artifact the pipeline produces.
type StorageConfig struct {
	Endpoint  string `mapstructure:"endpoint" validate:"required"`
	AccessKey string `mapstructure:"access_key" validate:"required"`
	SecretKey string `mapstructure:"secret_key" validate:"required"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	// PublicBaseURL is the externally reachable prefix from which public
	// object URLs are derived: {PublicBaseURL}/{bucket}/{key}.
	PublicBaseURL string `mapstructure:"public_base_url" validate:"required,url"`
}

// ServicesConfig contains the endpoints of the external media services.
type ServicesConfig struct {
	AudioURL     string `mapstructure:"audio_url" validate:"required,url"`
	AnimationURL string `mapstructure:"animation_url" validate:"required,url"`
	ComposeURL   string `mapstructure:"compose_url" validate:"required,url"`
	AskURL       string `mapstructure:"ask_url" validate:"required,url"`
}

// ConverterConfig locates the local document conversion tools.
type ConverterConfig struct {
	SofficePath  string `mapstructure:"soffice_path" validate:"required"`
	PdftoppmPath string `mapstructure:"pdftoppm_path" validate:"required"`
}

// PipelineConfig tunes the upload pipeline.
type PipelineConfig struct {
	// UploadDir is where incoming files and composition scratch
	// directories are placed before cleanup.
	UploadDir string `mapstructure:"upload_dir" validate:"required"`

	// MediaTimeoutSeconds bounds a single speech/animation generation call.
	MediaTimeoutSeconds int `mapstructure:"media_timeout_seconds" validate:"required,gt=0"`

	// ComposeTimeoutSeconds bounds a single audio/video composition call.
	ComposeTimeoutSeconds int `mapstructure:"compose_timeout_seconds" validate:"required,gt=0"`
}

// MediaTimeout returns the media generation timeout as a duration.
func (c PipelineConfig) MediaTimeout() time.Duration {
	return time.Duration(c.MediaTimeoutSeconds) * time.Second
}

// ComposeTimeout returns the composition timeout as a duration.
func (c PipelineConfig) ComposeTimeout() time.Duration {
	return time.Duration(c.ComposeTimeoutSeconds) * time.Second
}
