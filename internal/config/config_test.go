package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"GEMINI_API_KEY", "AURELIA_GEMINI_API_KEY", "AURELIA_LOGGER_LEVEL", "AURELIA_TELEGRAM_ENABLED"} {
		t.Setenv(key, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
gemini:
  api_key: file-key
server:
  addr: "127.0.0.1:9000"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Gemini.APIKey != "file-key" {
		t.Errorf("api key = %q", cfg.Gemini.APIKey)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
	if cfg.Gemini.TextModel != DefaultGeminiTextModel || cfg.Gemini.SpeechModel != DefaultGeminiSpeechModel {
		t.Errorf("models = %q, %q", cfg.Gemini.TextModel, cfg.Gemini.SpeechModel)
	}
	if cfg.Gemini.MaxRetries != 0 {
		t.Errorf("max retries = %d, want 0", cfg.Gemini.MaxRetries)
	}
	if cfg.Gemini.Temperature != nil {
		t.Errorf("temperature = %v, want unset", *cfg.Gemini.Temperature)
	}
	if cfg.History.MaxPerOwner != 50 {
		t.Errorf("max per owner = %d, want 50", cfg.History.MaxPerOwner)
	}
	if cfg.Prayer.TextTimeout != time.Minute {
		t.Errorf("text timeout = %v", cfg.Prayer.TextTimeout)
	}
	if task, ok := cfg.Scheduler.Tasks["sql_maintenance"]; !ok || !task.Enabled || task.Schedule == "" {
		t.Errorf("sql_maintenance task = %+v, %v", task, ok)
	}
	if cfg.Messages.Welcome != DefaultMessages.Welcome {
		t.Errorf("welcome = %q", cfg.Messages.Welcome)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "env-key")
	t.Setenv("AURELIA_LOGGER_LEVEL", "debug")

	path := writeConfig(t, `
logger:
  level: warn
prayer:
  text_timeout: 30s
  voices:
    ja-JP: Aoede
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Gemini.APIKey != "env-key" {
		t.Errorf("api key = %q, want env-key", cfg.Gemini.APIKey)
	}
	if cfg.Logger.Level != "debug" {
		t.Errorf("level = %q, want env override debug", cfg.Logger.Level)
	}
	if cfg.Prayer.TextTimeout != 30*time.Second {
		t.Errorf("text timeout = %v, want 30s", cfg.Prayer.TextTimeout)
	}
	if cfg.Prayer.Voices["ja-jp"] != "Aoede" && cfg.Prayer.Voices["ja-JP"] != "Aoede" {
		t.Errorf("voices = %v", cfg.Prayer.Voices)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "missing api key", body: "logger:\n  level: info\n", want: "APIKey"},
		{name: "bad log level", body: "gemini:\n  api_key: k\nlogger:\n  level: loud\n", want: "Level"},
		{name: "telegram without token", body: "gemini:\n  api_key: k\ntelegram:\n  enabled: true\n", want: "Token"},
		{name: "history bound", body: "gemini:\n  api_key: k\nhistory:\n  max_per_owner: 0\n", want: "MaxPerOwner"},
		{name: "negative retries", body: "gemini:\n  api_key: k\n  max_retries: -1\n", want: "MaxRetries"},
		{name: "malformed yaml", body: "gemini: [\n", want: "failed to read config file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			_, err := LoadConfig(writeConfig(t, tt.body))
			if !errors.Is(err, ErrConfiguration) {
				t.Fatalf("LoadConfig() error = %v, want ErrConfiguration", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("LoadConfig() error = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	clearEnv(t)
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml")); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("LoadConfig() error = %v, want ErrConfiguration", err)
	}
}
