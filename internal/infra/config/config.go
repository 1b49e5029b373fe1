package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config содержит параметры приложения: токен Telegram-бота, адрес API
// платформы QuizMaker и настройки хранилища сессий.
type Config struct {
	TelegramBot struct {
		Token string `yaml:"token"`
	} `yaml:"telegram_bot"`
	API struct {
		BaseURL string        `yaml:"base_url"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"api"`
	Storage struct {
		// Тип хранилища сессий: "memory", "json" или "postgres".
		Type string `yaml:"type"`
		Path string `yaml:"path"`
		DSN  string `yaml:"dsn"`
	} `yaml:"storage"`
	Debug bool `yaml:"debug"`
}

// LoadConfig загружает конфигурацию из YAML-файла, затем применяет
// переменные окружения (и .env, если он существует) поверх файла.
func LoadConfig(filename string) (*Config, error) {
	config := &Config{}

	if filename != "" {
		f, err := os.Open(filename)
		if err != nil {
			return nil, fmt.Errorf("failed to open config: %w", err)
		}
		defer func() {
			if err := f.Close(); err != nil {
				fmt.Println("f.Close() failed ", err)
			}
		}()

		if err := yaml.NewDecoder(f).Decode(config); err != nil {
			return nil, fmt.Errorf("failed to decode config: %w", err)
		}
	}

	// Переменные окружения имеют приоритет над файлом.
	_ = godotenv.Load()

	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		config.TelegramBot.Token = v
	}
	if v := os.Getenv("QUIZMAKER_API_URL"); v != "" {
		config.API.BaseURL = v
	}
	if v := os.Getenv("STORAGE_TYPE"); v != "" {
		config.Storage.Type = v
	}
	if v := os.Getenv("STORAGE_PATH"); v != "" {
		config.Storage.Path = v
	}
	if v := os.Getenv("STORAGE_DSN"); v != "" {
		config.Storage.DSN = v
	}
	if v := os.Getenv("DEBUG"); v != "" {
		config.Debug, _ = strconv.ParseBool(v)
	}

	applyDefaults(config)

	if config.TelegramBot.Token == "" {
		return nil, fmt.Errorf("не задан токен Telegram-бота (TELEGRAM_BOT_TOKEN)")
	}
	if config.API.BaseURL == "" {
		return nil, fmt.Errorf("не задан адрес API QuizMaker (QUIZMAKER_API_URL)")
	}

	return config, nil
}

func applyDefaults(config *Config) {
	if config.API.Timeout <= 0 {
		config.API.Timeout = 30 * time.Second
	}
	if config.Storage.Type == "" {
		config.Storage.Type = "json"
	}
	if config.Storage.Path == "" {
		config.Storage.Path = "data/sessions.json"
	}
}
