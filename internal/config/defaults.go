package config

import (
	"time"

	"github.com/spf13/viper"
)

// Default values for configuration.
const (
	DefaultLogLevel = "info"

	DefaultServerAddr            = ":8080"
	DefaultServerReadTimeout     = 15 * time.Second
	DefaultServerWriteTimeout    = 3 * time.Minute // covers both model calls
	DefaultServerShutdownTimeout = 10 * time.Second
	DefaultServerAllowedOrigin   = "*"
	DefaultServerMaxBodyBytes    = 64 << 10

	DefaultGeminiTextModel       = "gemini-2.5-flash-preview-05-20"
	DefaultGeminiSpeechModel     = "gemini-2.5-flash-preview-tts"
	DefaultGeminiRetryDelay      = 2 * time.Second
	DefaultGeminiBreakerFailures = 5
	DefaultGeminiBreakerCooldown = 30 * time.Second

	DefaultPrayerTextTimeout   = time.Minute
	DefaultPrayerSpeechTimeout = 90 * time.Second
	DefaultPrayerRateBurst     = 5
	DefaultPrayerVoice         = "Kore"

	DefaultDatabasePath = "aurelia.db"

	DefaultHistoryMaxPerOwner = 50

	DefaultTelegramRequestTimeout = 3 * time.Minute
	DefaultTelegramReligion       = "interfaith"
	DefaultTelegramLanguage       = "en-US"
	DefaultTelegramHistorySize    = 5
)

// DefaultMessages are the bot texts used when the config file sets none.
var DefaultMessages = MessagesConfig{
	Welcome:       "🕊️ Welcome. Tell me what weighs on you with /pray and I will write and read a prayer for you.",
	Help:          "/pray <challenge> - a prayer for what you are facing\n/pray <feeling> | <challenge> - include how you feel\n/history - your recent prayers",
	PrayUsage:     "Please tell me what to pray for, e.g. /pray anxious | a job interview tomorrow",
	Fallback:      "I could not reach the prayer service, so here is a simple prayer for you:",
	NoHistory:     "You have no saved prayers yet.",
	HistoryHeader: "Your recent prayers:",
	GeneralError:  "❌ An error occurred. Please try again later.",
}

// DefaultTasks are the scheduled tasks enabled out of the box.
var DefaultTasks = map[string]any{
	"sql_maintenance":   map[string]any{"enabled": true, "schedule": "0 0 4 * * *"},
	"history_retention": map[string]any{"enabled": true, "schedule": "0 30 4 * * *"},
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", DefaultLogLevel)
	v.SetDefault("logger.json", false)

	v.SetDefault("server.addr", DefaultServerAddr)
	v.SetDefault("server.read_timeout", DefaultServerReadTimeout)
	v.SetDefault("server.write_timeout", DefaultServerWriteTimeout)
	v.SetDefault("server.shutdown_timeout", DefaultServerShutdownTimeout)
	v.SetDefault("server.allowed_origin", DefaultServerAllowedOrigin)
	v.SetDefault("server.max_body_bytes", DefaultServerMaxBodyBytes)

	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.base_url", "")
	v.SetDefault("gemini.text_model", DefaultGeminiTextModel)
	v.SetDefault("gemini.speech_model", DefaultGeminiSpeechModel)
	v.SetDefault("gemini.google_search", true)
	v.SetDefault("gemini.max_retries", 0)
	v.SetDefault("gemini.retry_delay", DefaultGeminiRetryDelay)
	v.SetDefault("gemini.breaker_failures", DefaultGeminiBreakerFailures)
	v.SetDefault("gemini.breaker_cooldown", DefaultGeminiBreakerCooldown)

	v.SetDefault("prayer.text_timeout", DefaultPrayerTextTimeout)
	v.SetDefault("prayer.speech_timeout", DefaultPrayerSpeechTimeout)
	v.SetDefault("prayer.rate_limit", 0)
	v.SetDefault("prayer.rate_burst", DefaultPrayerRateBurst)
	v.SetDefault("prayer.default_voice", DefaultPrayerVoice)

	v.SetDefault("database.path", DefaultDatabasePath)

	v.SetDefault("history.max_per_owner", DefaultHistoryMaxPerOwner)
	v.SetDefault("history.retention", 0)

	v.SetDefault("scheduler.tasks", DefaultTasks)

	v.SetDefault("telegram.enabled", false)
	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.request_timeout", DefaultTelegramRequestTimeout)
	v.SetDefault("telegram.role", "")
	v.SetDefault("telegram.feeling", "")
	v.SetDefault("telegram.religion", DefaultTelegramReligion)
	v.SetDefault("telegram.language", DefaultTelegramLanguage)
	v.SetDefault("telegram.history_size", DefaultTelegramHistorySize)

	v.SetDefault("messages.welcome", DefaultMessages.Welcome)
	v.SetDefault("messages.help", DefaultMessages.Help)
	v.SetDefault("messages.pray_usage", DefaultMessages.PrayUsage)
	v.SetDefault("messages.fallback", DefaultMessages.Fallback)
	v.SetDefault("messages.no_history", DefaultMessages.NoHistory)
	v.SetDefault("messages.history_header", DefaultMessages.HistoryHeader)
	v.SetDefault("messages.general_error", DefaultMessages.GeneralError)
}
