package config

import (
	"os"
	"testing"
)

func TestLoad_RequiresToken(t *testing.T) {
	t.Setenv("TOGETHER_TOKEN", "")
	_ = os.Unsetenv("TOGETHER_TOKEN")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error without TOGETHER_TOKEN")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("TOGETHER_TOKEN", "tok")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.TogetherToken != "tok" {
		t.Fatalf("token not read: %q", cfg.TogetherToken)
	}
	if cfg.LLMProvider != ProviderOpenAI {
		t.Fatalf("want openai provider, got %q", cfg.LLMProvider)
	}
	if cfg.LLMBaseURL != "https://api.together.xyz/v1" {
		t.Fatalf("unexpected base url: %q", cfg.LLMBaseURL)
	}
	if cfg.DBFile != "client.db" || cfg.ChatHistoryFile != "chat_history.json" {
		t.Fatalf("unexpected file defaults: %q %q", cfg.DBFile, cfg.ChatHistoryFile)
	}
	if cfg.HTTPPort != 8501 {
		t.Fatalf("unexpected port: %d", cfg.HTTPPort)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("TOGETHER_TOKEN", "tok")
	t.Setenv("LLM_PROVIDER", "yandex")
	t.Setenv("CHAT_HISTORY_FILE", "/tmp/h.json")
	t.Setenv("HTTP_PORT", "9000")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.LLMProvider != ProviderYandex || cfg.ChatHistoryFile != "/tmp/h.json" || cfg.HTTPPort != 9000 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestLoadStorage_NoTokenNeeded(t *testing.T) {
	t.Setenv("TOGETHER_TOKEN", "")
	_ = os.Unsetenv("TOGETHER_TOKEN")
	t.Setenv("DB_FILE", "data/shop.db")
	cfg, err := LoadStorage()
	if err != nil {
		t.Fatalf("load storage: %v", err)
	}
	if cfg.DBFile != "data/shop.db" {
		t.Fatalf("DB_FILE not read: %q", cfg.DBFile)
	}
	if cfg.ChatHistoryFile != "chat_history.json" {
		t.Fatalf("unexpected history default: %q", cfg.ChatHistoryFile)
	}
}

func TestLoadStorage_MatchesFullConfig(t *testing.T) {
	t.Setenv("TOGETHER_TOKEN", "tok")
	t.Setenv("DB_FILE", "data/shop.db")
	full, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	st, err := LoadStorage()
	if err != nil {
		t.Fatalf("load storage: %v", err)
	}
	if full.DBFile != st.DBFile || full.ChatHistoryFile != st.ChatHistoryFile {
		t.Fatalf("storage config diverges: %+v vs %+v", st, full)
	}
}
