package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/sanji/internal/chatbot"
	"github.com/hyperifyio/sanji/internal/fetch"
	"github.com/hyperifyio/sanji/internal/llm"
	"github.com/hyperifyio/sanji/internal/metrics"
	"github.com/hyperifyio/sanji/internal/pipeline"
	"github.com/hyperifyio/sanji/internal/search"
	"github.com/hyperifyio/sanji/internal/server"
	"github.com/hyperifyio/sanji/internal/summarize"
)

// App wires the configured collaborators together.
type App struct {
	cfg      Config
	registry *prometheus.Registry
	metrics  *metrics.Metrics
	pipeline *pipeline.Pipeline
	llm      llm.Client

	store *chatbot.Store
	bot   *chatbot.Bot
}

// New builds the ask pipeline and, when a model is configured, the LLM
// client. The chat bot is trained separately by TrainBot.
func New(ctx context.Context, cfg Config) (*App, error) {
	ApplyDefaults(&cfg)
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}

	provider, err := NewProvider(cfg)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	a := &App{
		cfg:      cfg,
		registry: reg,
		metrics:  m,
		pipeline: &pipeline.Pipeline{
			Search:     provider,
			MaxResults: cfg.MaxResults,
			Fetcher: &fetch.Client{
				HTTPClient:        newHTTPClient(0),
				UserAgent:         cfg.UserAgent,
				PerRequestTimeout: cfg.FetchTimeout,
			},
			Summarizer: &summarize.Summarizer{Sentences: cfg.SummarySentences},
			Metrics:    m,
		},
	}

	if strings.TrimSpace(cfg.LLMModel) != "" {
		p := llm.New(cfg.LLMBaseURL, cfg.LLMAPIKey)
		a.llm = p
		preflightModels(ctx, p)
	}
	return a, nil
}

// NewProvider builds the search provider named by cfg.SearchProvider.
func NewProvider(cfg Config) (search.Provider, error) {
	client := newHTTPClient(cfg.FetchTimeout)
	switch cfg.SearchProvider {
	case ProviderDuckDuckGo:
		return &search.DuckDuckGo{HTTPClient: client, UserAgent: cfg.UserAgent}, nil
	case ProviderSearxNG:
		return &search.SearxNG{BaseURL: cfg.SearxURL, APIKey: cfg.SearxKey, HTTPClient: client, UserAgent: cfg.UserAgent}, nil
	case ProviderFile:
		return &search.FileProvider{Path: cfg.FileSearchPath}, nil
	}
	return nil, fmt.Errorf("unknown search provider %q", cfg.SearchProvider)
}

// preflightModels lists models as a best-effort connectivity check.
func preflightModels(ctx context.Context, c llm.ModelLister) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	models, err := c.ListModels(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("LLM model list failed; continuing")
		return
	}
	log.Info().Int("count", len(models.Models)).Msg("LLM models available")
}

// Pipeline returns the ask pipeline.
func (a *App) Pipeline() *pipeline.Pipeline { return a.pipeline }

// Registry returns the Prometheus registry backing /metrics.
func (a *App) Registry() *prometheus.Registry { return a.registry }

// TrainBot opens the statement store and trains the corpus bot. It must
// complete before the server is built.
func (a *App) TrainBot(ctx context.Context) error {
	if a.bot != nil {
		return nil
	}
	store, err := chatbot.OpenStore(ctx, a.cfg.BotDatabase)
	if err != nil {
		return err
	}
	bot := &chatbot.Bot{Name: a.cfg.BotName, Store: store}
	if err := bot.TrainFile(ctx, a.cfg.BotCorpus); err != nil {
		_ = store.Close()
		return err
	}
	a.store, a.bot = store, bot
	return nil
}

// Responder returns the chat responder and its metrics label. TrainBot must
// have run.
func (a *App) Responder() (chatbot.Responder, string) {
	if a.llm != nil {
		return &chatbot.LLMBot{
			Name:     a.cfg.BotName,
			Model:    a.cfg.LLMModel,
			Client:   a.llm,
			Fallback: a.bot,
		}, "llm"
	}
	return a.bot, "corpus"
}

// Serve trains the bot, optionally watches the corpus, and serves HTTP until
// ctx is done.
func (a *App) Serve(ctx context.Context) error {
	if err := a.TrainBot(ctx); err != nil {
		return fmt.Errorf("train bot: %w", err)
	}
	if a.cfg.BotWatch {
		go func() {
			if err := chatbot.Watch(ctx, a.cfg.BotCorpus, a.bot); err != nil {
				log.Warn().Err(err).Msg("corpus watcher stopped")
			}
		}()
	}

	responder, name := a.Responder()
	srv := server.New(server.Options{
		Chat:           responder,
		Ask:            a.pipeline,
		ResponderName:  name,
		Metrics:        a.metrics,
		Gatherer:       a.registry,
		AllowedOrigins: a.cfg.AllowedOrigins,
		Logger:         log.Logger,
	})
	return srv.ListenAndServe(ctx, a.cfg.Addr)
}

// RunAsk answers the configured query once, prints it to w and writes the
// optional Markdown and PDF exports.
func (a *App) RunAsk(ctx context.Context, w io.Writer) error {
	query := strings.TrimSpace(a.cfg.AskQuery)
	if query == "" {
		return errors.New("empty query")
	}
	res := a.pipeline.Run(ctx, query)

	if _, err := io.WriteString(w, RenderText(res)); err != nil {
		return err
	}
	if a.cfg.OutputPath == "" && a.cfg.OutputPDFPath == "" {
		return nil
	}

	md := RenderMarkdown(query, res)
	md = appendFooter(md, a.pipeline.Search.Name(), len(res.Sources), time.Now())
	if a.cfg.OutputPath != "" {
		if err := os.WriteFile(a.cfg.OutputPath, []byte(md), 0o644); err != nil {
			return fmt.Errorf("write markdown: %w", err)
		}
		log.Info().Str("path", a.cfg.OutputPath).Msg("wrote markdown")
	}
	if a.cfg.OutputPDFPath != "" {
		if err := writePDF(md, a.cfg.OutputPDFPath); err != nil {
			return fmt.Errorf("write pdf: %w", err)
		}
		log.Info().Str("path", a.cfg.OutputPDFPath).Msg("wrote pdf")
	}
	return nil
}

// Close releases the statement store.
func (a *App) Close() error {
	if a.store != nil {
		return a.store.Close()
	}
	return nil
}
