package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestLoadConfig_File проверяет загрузку YAML-файла и значения по умолчанию.
func TestLoadConfig_File(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "config.yaml")
	content := `
telegram_bot:
  token: "test-token"
api:
  base_url: "https://api.quizmaker.example"
storage:
  type: "memory"
`
	if err := os.WriteFile(filename, []byte(content), 0644); err != nil {
		t.Fatalf("не удалось записать файл: %v", err)
	}

	cfg, err := LoadConfig(filename)
	if err != nil {
		t.Fatalf("LoadConfig вернул ошибку: %v", err)
	}

	if cfg.TelegramBot.Token != "test-token" {
		t.Errorf("токен %q", cfg.TelegramBot.Token)
	}
	if cfg.API.BaseURL != "https://api.quizmaker.example" {
		t.Errorf("адрес API %q", cfg.API.BaseURL)
	}
	if cfg.Storage.Type != "memory" {
		t.Errorf("тип хранилища %q", cfg.Storage.Type)
	}
	if cfg.API.Timeout != 30*time.Second {
		t.Errorf("таймаут по умолчанию %v", cfg.API.Timeout)
	}
	if cfg.Storage.Path != "data/sessions.json" {
		t.Errorf("путь хранилища по умолчанию %q", cfg.Storage.Path)
	}
}

// TestLoadConfig_EnvOverride проверяет приоритет переменных окружения
// над файлом.
func TestLoadConfig_EnvOverride(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "config.yaml")
	content := `
telegram_bot:
  token: "file-token"
api:
  base_url: "https://file.example"
`
	if err := os.WriteFile(filename, []byte(content), 0644); err != nil {
		t.Fatalf("не удалось записать файл: %v", err)
	}

	t.Setenv("TELEGRAM_BOT_TOKEN", "env-token")
	t.Setenv("QUIZMAKER_API_URL", "https://env.example")

	cfg, err := LoadConfig(filename)
	if err != nil {
		t.Fatalf("LoadConfig вернул ошибку: %v", err)
	}
	if cfg.TelegramBot.Token != "env-token" {
		t.Errorf("окружение должно перекрывать файл, токен %q", cfg.TelegramBot.Token)
	}
	if cfg.API.BaseURL != "https://env.example" {
		t.Errorf("окружение должно перекрывать файл, адрес %q", cfg.API.BaseURL)
	}
}

// TestLoadConfig_MissingToken проверяет обязательность токена.
func TestLoadConfig_MissingToken(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("QUIZMAKER_API_URL", "")
	if _, err := LoadConfig(""); err == nil {
		t.Error("без токена ожидалась ошибка")
	}
}
