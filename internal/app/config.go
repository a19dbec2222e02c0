package app

import "time"

// Defaults applied when neither flags, environment nor a config file set a
// value.
const (
	DefaultAddr             = ":8000"
	DefaultSearchProvider   = "duckduckgo"
	DefaultMaxResults       = 3
	DefaultFetchTimeout     = 10 * time.Second
	DefaultUserAgent        = "sanji/1.0 (+https://github.com/hyperifyio/sanji)"
	DefaultSummarySentences = 4
	DefaultBotName          = "ASH-1"
	DefaultBotCorpus        = "ash_corpus.yaml"
	DefaultBotDatabase      = "ASH-1.sqlite3"
)

// Search provider names accepted by SearchProvider.
const (
	ProviderDuckDuckGo = "duckduckgo"
	ProviderSearxNG    = "searxng"
	ProviderFile       = "file"
)

// Config holds runtime configuration for the application.
type Config struct {
	// Server
	Addr           string
	AllowedOrigins []string

	// Search
	SearchProvider string
	MaxResults     int
	SearxURL       string
	SearxKey       string
	FileSearchPath string

	// Fetch
	FetchTimeout time.Duration
	UserAgent    string

	// Summarization
	SummarySentences int

	// Chat bot
	BotName     string
	BotCorpus   string
	BotDatabase string
	BotWatch    bool

	// LLM chat responder, enabled when LLMModel is set
	LLMBaseURL string
	LLMModel   string
	LLMAPIKey  string

	// One-shot ask mode
	AskQuery      string
	OutputPath    string
	OutputPDFPath string

	// Logging
	Verbose bool
	LogJSON bool
}

// DefaultConfig returns a Config with every default filled in.
func DefaultConfig() Config {
	return Config{
		Addr:             DefaultAddr,
		SearchProvider:   DefaultSearchProvider,
		MaxResults:       DefaultMaxResults,
		FetchTimeout:     DefaultFetchTimeout,
		UserAgent:        DefaultUserAgent,
		SummarySentences: DefaultSummarySentences,
		BotName:          DefaultBotName,
		BotCorpus:        DefaultBotCorpus,
		BotDatabase:      DefaultBotDatabase,
	}
}

// ApplyDefaults fills zero-valued fields of cfg from DefaultConfig.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}
	d := DefaultConfig()
	if cfg.Addr == "" {
		cfg.Addr = d.Addr
	}
	if cfg.SearchProvider == "" {
		cfg.SearchProvider = d.SearchProvider
	}
	if cfg.MaxResults == 0 {
		cfg.MaxResults = d.MaxResults
	}
	if cfg.FetchTimeout == 0 {
		cfg.FetchTimeout = d.FetchTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = d.UserAgent
	}
	if cfg.SummarySentences == 0 {
		cfg.SummarySentences = d.SummarySentences
	}
	if cfg.BotName == "" {
		cfg.BotName = d.BotName
	}
	if cfg.BotCorpus == "" {
		cfg.BotCorpus = d.BotCorpus
	}
	if cfg.BotDatabase == "" {
		cfg.BotDatabase = d.BotDatabase
	}
}
