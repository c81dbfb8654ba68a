package main

import (
	"context"
	"flag"

	"github.com/sirupsen/logrus"

	"metaseek/internal/aggregator"
	"metaseek/internal/cache"
	"metaseek/internal/config"
	"metaseek/internal/engine"
	"metaseek/internal/filter"
	"metaseek/internal/httpclient"
	"metaseek/internal/output"
)

func main() {
	query := flag.String("q", "", "Search query (required)")
	page := flag.Uint("p", 1, "Result page (0 and 1 both mean the first page)")
	safeSearch := flag.Uint("safe", 0, "Safe search level (0 = off)")
	blocked := flag.String("blocked", "", "Comma-separated domains to drop from results")
	keywords := flag.String("keywords", "", "Comma-separated terms; results must match at least one")
	exclude := flag.String("exclude", "", "Comma-separated terms; matching results are dropped")
	configPath := flag.String("config", ".", "Directory containing config.yaml")
	flag.Parse()

	log := logrus.New()

	if *query == "" {
		flag.Usage()
		log.Fatal("-q (query) is required")
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.WithError(err).Fatal("loading config")
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	client, err := httpclient.New(httpclient.Options{
		ProxyURL:   cfg.ProxyURL,
		MinDelay:   cfg.MinDelay,
		MaxDelay:   cfg.MaxDelay,
		MaxRetries: cfg.MaxRetries,
		Logger:     log,
	})
	if err != nil {
		log.WithError(err).Fatal("building HTTP client")
	}

	engines, err := engine.Registry()
	if err != nil {
		log.WithError(err).Fatal("building engine registry")
	}

	var resultCache *cache.Cache
	if cfg.RedisURL != "" {
		resultCache, err = cache.New(cfg.RedisURL, cfg.CacheTTL)
		if err != nil {
			log.WithError(err).Warn("cache unavailable, searching without it")
		} else {
			defer resultCache.Close()
		}
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = httpclient.RandomUserAgent()
	}

	agg := aggregator.New(engines, client, aggregator.Options{
		Cache:      resultCache,
		Logger:     log,
		SafeSearch: uint8(*safeSearch),
	})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout)
	defer cancel()

	results, err := agg.Search(ctx, *query, uint32(*page), userAgent)
	if err != nil {
		log.WithError(err).Fatal("search failed")
	}

	results = filter.Apply(results, filter.Options{
		BlockedDomains: *blocked,
		Keywords:       *keywords,
		Exclude:        *exclude,
	})

	writers := []output.ResultWriter{output.NewConsolePrinter()}
	if cfg.TelegramToken != "" && cfg.TelegramChatID != "" {
		writers = append(writers, output.NewTelegramWriter(cfg.TelegramToken, cfg.TelegramChatID))
	}
	if cfg.DiscordWebhookURL != "" {
		writers = append(writers, output.NewDiscordWriter(cfg.DiscordWebhookURL))
	}

	for _, w := range writers {
		if err := w.WriteResults(results.Results()); err != nil {
			log.WithError(err).Error("writing results")
		}
	}

	log.WithFields(logrus.Fields{
		"query":   *query,
		"page":    *page,
		"results": results.Len(),
	}).Info("search finished")
}
