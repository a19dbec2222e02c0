package app

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// ApplyEnvToConfig populates unset fields of cfg from environment variables.
// Explicit cfg values take precedence over env.
func ApplyEnvToConfig(cfg *Config) {
	if cfg == nil {
		return
	}
	setString := func(dst *string, keys ...string) {
		if *dst != "" {
			return
		}
		for _, k := range keys {
			if v := strings.TrimSpace(os.Getenv(k)); v != "" {
				*dst = v
				return
			}
		}
	}
	setString(&cfg.Addr, "SANJI_ADDR")
	setString(&cfg.SearchProvider, "SEARCH_PROVIDER")
	setString(&cfg.SearxURL, "SEARX_URL", "SEARXNG_URL")
	setString(&cfg.SearxKey, "SEARX_KEY", "SEARXNG_KEY")
	setString(&cfg.FileSearchPath, "SEARCH_FILE")
	setString(&cfg.UserAgent, "FETCH_USER_AGENT")
	setString(&cfg.BotName, "BOT_NAME")
	setString(&cfg.BotCorpus, "BOT_CORPUS")
	setString(&cfg.BotDatabase, "BOT_DATABASE")
	setString(&cfg.LLMBaseURL, "LLM_BASE_URL")
	setString(&cfg.LLMModel, "LLM_MODEL")
	setString(&cfg.LLMAPIKey, "LLM_API_KEY")

	if cfg.MaxResults == 0 {
		if n, ok := envInt("SEARCH_MAX_RESULTS"); ok {
			cfg.MaxResults = n
		}
	}
	if cfg.SummarySentences == 0 {
		if n, ok := envInt("SUMMARY_SENTENCES"); ok {
			cfg.SummarySentences = n
		}
	}
	if cfg.FetchTimeout == 0 {
		if d, ok := envDuration("FETCH_TIMEOUT"); ok {
			cfg.FetchTimeout = d
		}
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = splitList(os.Getenv("CORS_ORIGINS"))
	}

	setBool := func(dst *bool, key string) {
		if *dst {
			return
		}
		if v, ok := envBool(key); ok {
			*dst = v
		}
	}
	setBool(&cfg.BotWatch, "BOT_WATCH")
	setBool(&cfg.Verbose, "VERBOSE")
	setBool(&cfg.LogJSON, "LOG_JSON")
}

func envInt(key string) (int, bool) {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

func envDuration(key string) (time.Duration, bool) {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return 0, false
	}
	if d, err := time.ParseDuration(s); err == nil {
		return d, true
	}
	// bare numbers are seconds
	if n, err := strconv.Atoi(s); err == nil {
		return time.Duration(n) * time.Second, true
	}
	return 0, false
}

func envBool(key string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "on":
		return true, true
	case "0", "false", "no", "off":
		return false, true
	}
	return false, false
}

// splitList splits a comma-separated list, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}
