package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/sanji/internal/app"
	"github.com/hyperifyio/sanji/internal/search"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	_ = app.LoadEnvFiles(".env")

	var cfg app.Config
	flag.StringVar(&cfg.SearchProvider, "provider", "", "Search provider: duckduckgo, searxng or file")
	flag.StringVar(&cfg.SearxURL, "searx.url", "", "SearxNG base URL")
	flag.StringVar(&cfg.FileSearchPath, "search.file", "", "JSON file for the file provider")
	flag.IntVar(&cfg.MaxResults, "n", 0, "Number of links (default 3)")
	flag.Parse()

	q := "What is love?"
	if flag.NArg() > 0 {
		q = strings.Join(flag.Args(), " ")
	}

	cfg, err := app.ResolveConfig(cfg, "")
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	prov, err := app.NewProvider(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("search provider")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
	defer cancel()
	res, err := prov.Search(ctx, q, cfg.MaxResults)
	fmt.Printf("%s raw results (err: %v)\n", prov.Name(), err)
	for i, r := range res {
		fmt.Printf("%d. %s | %s\n", i+1, r.Title, r.URL)
	}

	links, err := search.Links(ctx, prov, q, cfg.MaxResults)
	fmt.Printf("\nlinks (err: %v)\n", err)
	for i, u := range links {
		fmt.Printf("%d. %s\n", i+1, u)
	}
}
