package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadEnvFiles_LoadsKeyValues(t *testing.T) {
	t.Setenv("FOO", "")
	t.Setenv("BAR", "")

	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env.test")
	content := "\n# sample dotenv file\nFOO=alpha\nBAR=\"beta gamma\"\n"
	if err := os.WriteFile(envPath, []byte(content), 0o600); err != nil {
		t.Fatalf("write dotenv: %v", err)
	}

	if err := LoadEnvFiles(envPath); err != nil {
		t.Fatalf("LoadEnvFiles error: %v", err)
	}
	if got := os.Getenv("FOO"); got != "alpha" {
		t.Fatalf("FOO=%q, want alpha", got)
	}
	if got := os.Getenv("BAR"); got != "beta gamma" {
		t.Fatalf("BAR=%q, want beta gamma", got)
	}
}

// Later files override earlier ones when loading multiple dotenv files.
func TestLoadEnvFiles_OverrideOrder(t *testing.T) {
	t.Setenv("K", "")
	dir := t.TempDir()
	a := filepath.Join(dir, ".env.a")
	b := filepath.Join(dir, ".env.b")
	if err := os.WriteFile(a, []byte("K=first\n"), 0o600); err != nil {
		t.Fatalf("write a: %v", err)
	}
	if err := os.WriteFile(b, []byte("K=second\n"), 0o600); err != nil {
		t.Fatalf("write b: %v", err)
	}

	if err := LoadEnvFiles(a, filepath.Join(dir, "missing"), b); err != nil {
		t.Fatalf("LoadEnvFiles error: %v", err)
	}
	if got := os.Getenv("K"); got != "second" {
		t.Fatalf("override order failed: got %q, want second", got)
	}
}

func TestApplyEnvToConfig_FromEnv(t *testing.T) {
	t.Setenv("SEARX_URL", "")
	t.Setenv("SEARXNG_URL", "http://searxng.example")
	t.Setenv("SEARCH_PROVIDER", "searxng")
	t.Setenv("SEARCH_MAX_RESULTS", "5")
	t.Setenv("FETCH_TIMEOUT", "7")
	t.Setenv("BOT_NAME", "ASH-9")
	t.Setenv("BOT_WATCH", "yes")
	t.Setenv("CORS_ORIGINS", "http://a.test, ,http://b.test")

	var cfg Config
	ApplyEnvToConfig(&cfg)
	if cfg.SearxURL != "http://searxng.example" {
		t.Fatalf("SearxURL=%q, want fallback from SEARXNG_URL", cfg.SearxURL)
	}
	if cfg.SearchProvider != "searxng" || cfg.MaxResults != 5 {
		t.Fatalf("provider=%q max=%d", cfg.SearchProvider, cfg.MaxResults)
	}
	if cfg.FetchTimeout != 7*time.Second {
		t.Fatalf("FetchTimeout=%v, want 7s", cfg.FetchTimeout)
	}
	if cfg.BotName != "ASH-9" || !cfg.BotWatch {
		t.Fatalf("bot settings: %+v", cfg)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "http://b.test" {
		t.Fatalf("AllowedOrigins=%v", cfg.AllowedOrigins)
	}
}

func TestApplyEnvToConfig_ExplicitValuesWin(t *testing.T) {
	t.Setenv("SANJI_ADDR", ":9999")
	t.Setenv("SUMMARY_SENTENCES", "2")
	cfg := Config{Addr: ":7000", SummarySentences: 6}
	ApplyEnvToConfig(&cfg)
	if cfg.Addr != ":7000" || cfg.SummarySentences != 6 {
		t.Fatalf("explicit values overwritten: %+v", cfg)
	}
}
