package config

import (
	"fmt"
	"log"

	"github.com/caarlos0/env/v6"
)

type LLMProvider string

const (
	ProviderOpenAI LLMProvider = "openai"
	ProviderYandex LLMProvider = "yandex"
)

type Config struct {
	// LLM settings. Together.ai speaks the OpenAI protocol, so it goes through the openai provider.
	TogetherToken    string      `env:"TOGETHER_TOKEN,required"`
	LLMProvider      LLMProvider `env:"LLM_PROVIDER" envDefault:"openai"`
	LLMBaseURL       string      `env:"LLM_BASE_URL" envDefault:"https://api.together.xyz/v1"`
	LLMModel         string      `env:"LLM_MODEL" envDefault:"meta-llama/Meta-Llama-3.1-8B-Instruct-Turbo"`
	YandexOAuthToken string      `env:"YANDEX_OAUTH_TOKEN"`
	YandexFolderID   string      `env:"YANDEX_FOLDER_ID"`

	// Storage
	DBFile          string `env:"DB_FILE" envDefault:"client.db"`
	ChatHistoryFile string `env:"CHAT_HISTORY_FILE" envDefault:"chat_history.json"`

	// Front-ends
	HTTPPort         int    `env:"HTTP_PORT" envDefault:"8501"`
	TelegramBotToken string `env:"TELEGRAM_BOT_TOKEN"`

	// Cron spec for the history digest, empty disables it
	DigestCron string `env:"DIGEST_CRON"`
}

// Load reads the configuration from the process environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// StorageConfig is the subset of Config that tools touching only the local files need.
// It does not require any credentials.
type StorageConfig struct {
	DBFile          string `env:"DB_FILE" envDefault:"client.db"`
	ChatHistoryFile string `env:"CHAT_HISTORY_FILE" envDefault:"chat_history.json"`
}

func LoadStorage() (*StorageConfig, error) {
	cfg := &StorageConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse storage config: %w", err)
	}
	return cfg, nil
}

func New() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("%v", err)
	}
	return cfg
}
