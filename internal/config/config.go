// Package config loads the Aurelia configuration from a YAML file, a .env
// file and AURELIA_* environment variables, and validates it.
package config

import "time"

// Config is the complete application configuration.
type Config struct {
	Logger    LoggerConfig    `mapstructure:"logger"`
	Server    ServerConfig    `mapstructure:"server"`
	Gemini    GeminiConfig    `mapstructure:"gemini"`
	Prayer    PrayerConfig    `mapstructure:"prayer"`
	Database  DatabaseConfig  `mapstructure:"database"`
	History   HistoryConfig   `mapstructure:"history"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Messages  MessagesConfig  `mapstructure:"messages"`
}

// LoggerConfig controls the slog handler.
type LoggerConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"             validate:"required"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"     validate:"min=1s"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"    validate:"min=1s"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"min=1s"`
	AllowedOrigin   string        `mapstructure:"allowed_origin"   validate:"required"`
	MaxBodyBytes    int64         `mapstructure:"max_body_bytes"   validate:"min=1024"`
}

// GeminiConfig configures the Gemini client. BreakerFailures consecutive
// upstream failures open the circuit for BreakerCooldown; 0 disables it.
type GeminiConfig struct {
	APIKey          string        `mapstructure:"api_key"          validate:"required"`
	BaseURL         string        `mapstructure:"base_url"         validate:"omitempty,url"`
	TextModel       string        `mapstructure:"text_model"       validate:"required"`
	SpeechModel     string        `mapstructure:"speech_model"     validate:"required"`
	Temperature     *float32      `mapstructure:"temperature"      validate:"omitempty,min=0,max=2"`
	GoogleSearch    bool          `mapstructure:"google_search"`
	MaxRetries      int           `mapstructure:"max_retries"      validate:"min=0,max=10"`
	RetryDelay      time.Duration `mapstructure:"retry_delay"      validate:"min=0"`
	BreakerFailures int           `mapstructure:"breaker_failures" validate:"min=0"`
	BreakerCooldown time.Duration `mapstructure:"breaker_cooldown" validate:"min=0"`
}

// PrayerConfig configures the generation pipeline.
type PrayerConfig struct {
	TextTimeout   time.Duration     `mapstructure:"text_timeout"   validate:"min=1s,max=10m"`
	SpeechTimeout time.Duration     `mapstructure:"speech_timeout" validate:"min=1s,max=10m"`
	RateLimit     float64           `mapstructure:"rate_limit"     validate:"min=0"`
	RateBurst     int               `mapstructure:"rate_burst"     validate:"min=1"`
	DefaultVoice  string            `mapstructure:"default_voice"  validate:"required"`
	Voices        map[string]string `mapstructure:"voices"`
}

// DatabaseConfig configures the SQLite store.
type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// HistoryConfig bounds the stored prayer history.
type HistoryConfig struct {
	MaxPerOwner int           `mapstructure:"max_per_owner" validate:"min=1,max=1000"`
	Retention   time.Duration `mapstructure:"retention"     validate:"min=0"`
}

// SchedulerConfig maps task names to their schedules.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks" validate:"dive"`
}

// TaskConfig is a single scheduled task. Schedule is a cron expression with
// an optional seconds field.
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule" validate:"required_if=Enabled true"`
}

// TelegramConfig configures the optional Telegram front-end.
type TelegramConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	Token          string        `mapstructure:"token"           validate:"required_if=Enabled true"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" validate:"min=1s"`
	Role           string        `mapstructure:"role"`
	Feeling        string        `mapstructure:"feeling"`
	Religion       string        `mapstructure:"religion"`
	Language       string        `mapstructure:"language"`
	HistorySize    int           `mapstructure:"history_size"    validate:"min=1,max=20"`
}

// MessagesConfig holds user-facing bot texts.
type MessagesConfig struct {
	Welcome       string `mapstructure:"welcome"        validate:"required"`
	Help          string `mapstructure:"help"           validate:"required"`
	PrayUsage     string `mapstructure:"pray_usage"     validate:"required"`
	Fallback      string `mapstructure:"fallback"       validate:"required"`
	NoHistory     string `mapstructure:"no_history"     validate:"required"`
	HistoryHeader string `mapstructure:"history_header" validate:"required"`
	GeneralError  string `mapstructure:"general_error"  validate:"required"`
}
