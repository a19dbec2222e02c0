package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	yaml "gopkg.in/yaml.v3"
)

// FileConfig represents the single-file configuration schema.
type FileConfig struct {
	Addr           string   `yaml:"addr" json:"addr"`
	AllowedOrigins []string `yaml:"allowedOrigins" json:"allowedOrigins"`

	Search struct {
		Provider   string `yaml:"provider" json:"provider"`
		MaxResults int    `yaml:"maxResults" json:"maxResults"`
		File       string `yaml:"file" json:"file"`
	} `yaml:"search" json:"search"`

	Searx struct {
		URL string `yaml:"url" json:"url"`
		Key string `yaml:"key" json:"key"`
	} `yaml:"searx" json:"searx"`

	Fetch struct {
		Timeout   Duration `yaml:"timeout" json:"timeout"`
		UserAgent string   `yaml:"userAgent" json:"userAgent"`
	} `yaml:"fetch" json:"fetch"`

	Summary struct {
		Sentences int `yaml:"sentences" json:"sentences"`
	} `yaml:"summary" json:"summary"`

	Bot struct {
		Name     string `yaml:"name" json:"name"`
		Corpus   string `yaml:"corpus" json:"corpus"`
		Database string `yaml:"database" json:"database"`
		Watch    bool   `yaml:"watch" json:"watch"`
	} `yaml:"bot" json:"bot"`

	LLM struct {
		BaseURL string `yaml:"base" json:"base"`
		Model   string `yaml:"model" json:"model"`
		APIKey  string `yaml:"key" json:"key"`
	} `yaml:"llm" json:"llm"`

	Verbose bool `yaml:"verbose" json:"verbose"`
	LogJSON bool `yaml:"logJSON" json:"logJSON"`
}

// Duration accepts "10s"-style strings or a number of seconds in YAML and
// JSON config files.
type Duration time.Duration

func (d *Duration) parse(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		*d = 0
		return nil
	}
	if v, err := time.ParseDuration(s); err == nil {
		*d = Duration(v)
		return nil
	}
	var secs float64
	if _, err := fmt.Sscanf(s, "%g", &secs); err != nil {
		return fmt.Errorf("invalid duration %q", s)
	}
	*d = Duration(secs * float64(time.Second))
	return nil
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	return d.parse(node.Value)
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		return d.parse(s)
	}
	var secs float64
	if err := json.Unmarshal(b, &secs); err != nil {
		return fmt.Errorf("invalid duration %s", string(b))
	}
	*d = Duration(secs * float64(time.Second))
	return nil
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		// Try YAML then JSON
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays values from FileConfig into cfg for any fields that
// are currently unset/zero in cfg, so flags and env keep precedence.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	setString := func(dst *string, v string) {
		if *dst == "" && v != "" {
			*dst = v
		}
	}
	setInt := func(dst *int, v int) {
		if *dst == 0 && v != 0 {
			*dst = v
		}
	}

	setString(&cfg.Addr, fc.Addr)
	if len(cfg.AllowedOrigins) == 0 && len(fc.AllowedOrigins) > 0 {
		cfg.AllowedOrigins = append([]string{}, fc.AllowedOrigins...)
	}
	setString(&cfg.SearchProvider, fc.Search.Provider)
	setInt(&cfg.MaxResults, fc.Search.MaxResults)
	setString(&cfg.FileSearchPath, fc.Search.File)
	setString(&cfg.SearxURL, fc.Searx.URL)
	setString(&cfg.SearxKey, fc.Searx.Key)
	if cfg.FetchTimeout == 0 && fc.Fetch.Timeout != 0 {
		cfg.FetchTimeout = time.Duration(fc.Fetch.Timeout)
	}
	setString(&cfg.UserAgent, fc.Fetch.UserAgent)
	setInt(&cfg.SummarySentences, fc.Summary.Sentences)
	setString(&cfg.BotName, fc.Bot.Name)
	setString(&cfg.BotCorpus, fc.Bot.Corpus)
	setString(&cfg.BotDatabase, fc.Bot.Database)
	setString(&cfg.LLMBaseURL, fc.LLM.BaseURL)
	setString(&cfg.LLMModel, fc.LLM.Model)
	setString(&cfg.LLMAPIKey, fc.LLM.APIKey)
	if !cfg.BotWatch && fc.Bot.Watch {
		cfg.BotWatch = true
	}
	if !cfg.Verbose && fc.Verbose {
		cfg.Verbose = true
	}
	if !cfg.LogJSON && fc.LogJSON {
		cfg.LogJSON = true
	}
}

// ResolveConfig merges the configuration sources with precedence
// flags > environment > config file > defaults and validates the result.
// flags holds only explicitly provided values; filePath may be empty.
func ResolveConfig(flags Config, filePath string) (Config, error) {
	cfg := flags
	ApplyEnvToConfig(&cfg)
	if strings.TrimSpace(filePath) != "" {
		fc, err := LoadConfigFile(filePath)
		if err != nil {
			return cfg, fmt.Errorf("config file: %w", err)
		}
		ApplyFileConfig(&cfg, fc)
	}
	ApplyDefaults(&cfg)
	return cfg, ValidateConfig(cfg)
}

// ValidateConfig performs minimal schema validation for required settings.
func ValidateConfig(cfg Config) error {
	if cfg.MaxResults < 0 || cfg.SummarySentences < 0 || cfg.FetchTimeout < 0 {
		return errors.New("config: negative limits are not allowed")
	}
	switch cfg.SearchProvider {
	case ProviderDuckDuckGo:
	case ProviderSearxNG:
		if strings.TrimSpace(cfg.SearxURL) == "" {
			return errors.New("config: searx.url is required for the searxng provider (or set SEARX_URL)")
		}
	case ProviderFile:
		if strings.TrimSpace(cfg.FileSearchPath) == "" {
			return errors.New("config: search.file is required for the file provider (or set SEARCH_FILE)")
		}
	default:
		return fmt.Errorf("config: unknown search provider %q", cfg.SearchProvider)
	}
	if (cfg.OutputPath != "" || cfg.OutputPDFPath != "") && strings.TrimSpace(cfg.AskQuery) == "" {
		return errors.New("config: output files require -ask")
	}
	return nil
}
