package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/sanji/internal/app"
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if err := app.LoadEnvFiles(".env", ".env.local"); err != nil {
		log.Warn().Err(err).Msg("dotenv load failed")
	}

	flags, configPath, showVersion, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}
	if showVersion {
		fmt.Printf("sanji %s (%s)\n", app.BuildVersion, app.BuildCommit)
		return
	}

	cfg, err := app.ResolveConfig(flags, configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	setupLogging(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, os.Stdout); err != nil {
		log.Error().Err(err).Msg("run failed")
		os.Exit(1)
	}
}

// parseFlags reads command-line flags into a Config holding only explicitly
// set values; defaults are applied later by app.ResolveConfig.
func parseFlags(args []string, errOut io.Writer) (app.Config, string, bool, error) {
	var (
		cfg         app.Config
		configPath  string
		origins     string
		showVersion bool
	)
	fs := flag.NewFlagSet("sanji", flag.ContinueOnError)
	fs.SetOutput(errOut)

	fs.StringVar(&configPath, "config", os.Getenv("SANJI_CONFIG"), "Path to YAML or JSON config file")
	fs.StringVar(&cfg.Addr, "addr", "", "HTTP listen address (default \":8000\")")
	fs.StringVar(&origins, "cors.origins", "", "Comma-separated allowed CORS origins (default any)")
	fs.StringVar(&cfg.SearchProvider, "search.provider", "", "Search provider: duckduckgo, searxng or file (default duckduckgo)")
	fs.IntVar(&cfg.MaxResults, "search.max", 0, "Maximum search results per query (default 3)")
	fs.StringVar(&cfg.SearxURL, "searx.url", "", "SearxNG base URL")
	fs.StringVar(&cfg.SearxKey, "searx.key", "", "SearxNG API key (optional)")
	fs.StringVar(&cfg.FileSearchPath, "search.file", "", "Path to JSON file for offline file-based search provider")
	fs.DurationVar(&cfg.FetchTimeout, "fetch.timeout", 0, "Per-page fetch timeout (default 10s)")
	fs.StringVar(&cfg.UserAgent, "fetch.ua", "", "User-Agent for search and page requests")
	fs.IntVar(&cfg.SummarySentences, "summary.sentences", 0, "Sentences per source summary (default 4)")
	fs.StringVar(&cfg.BotName, "bot.name", "", "Chat bot name (default ASH-1)")
	fs.StringVar(&cfg.BotCorpus, "bot.corpus", "", "Chat corpus YAML file (default ash_corpus.yaml)")
	fs.StringVar(&cfg.BotDatabase, "bot.db", "", "Chat statement SQLite database (default ASH-1.sqlite3)")
	fs.BoolVar(&cfg.BotWatch, "bot.watch", false, "Retrain the chat bot when the corpus file changes")
	fs.StringVar(&cfg.LLMBaseURL, "llm.base", "", "OpenAI-compatible base URL")
	fs.StringVar(&cfg.LLMModel, "llm.model", "", "Model name; enables the LLM chat responder")
	fs.StringVar(&cfg.LLMAPIKey, "llm.key", "", "API key for OpenAI-compatible server")
	fs.StringVar(&cfg.AskQuery, "ask", "", "Answer one question from the web and exit")
	fs.StringVar(&cfg.OutputPath, "output", "", "With -ask, also write the answer as Markdown to this path")
	fs.StringVar(&cfg.OutputPDFPath, "output.pdf", "", "With -ask, also write the answer as PDF to this path")
	fs.BoolVar(&cfg.Verbose, "v", false, "Verbose logging")
	fs.BoolVar(&cfg.LogJSON, "log.json", false, "Log JSON lines instead of console output")
	fs.BoolVar(&showVersion, "version", false, "Print version and exit")

	if err := fs.Parse(args); err != nil {
		return cfg, "", false, err
	}
	if s := strings.TrimSpace(origins); s != "" {
		for _, p := range strings.Split(s, ",") {
			if v := strings.TrimSpace(p); v != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, v)
			}
		}
	}
	if fs.NArg() > 0 && cfg.AskQuery == "" {
		cfg.AskQuery = strings.Join(fs.Args(), " ")
	}
	return cfg, configPath, showVersion, nil
}

func setupLogging(cfg app.Config) {
	if cfg.LogJSON {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	zerolog.DefaultContextLogger = &log.Logger
}

// run serves HTTP, or answers cfg.AskQuery once when set.
func run(ctx context.Context, cfg app.Config, out io.Writer) error {
	a, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	defer a.Close()

	if strings.TrimSpace(cfg.AskQuery) != "" {
		return a.RunAsk(ctx, out)
	}
	return a.Serve(ctx)
}
