package main

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"intrinsicpe/browser"
	"intrinsicpe/cache"
	"intrinsicpe/config"
	"intrinsicpe/logger"
	"intrinsicpe/scraper"
)

// app holds the long-lived pieces built from configuration.
type app struct {
	cfg     *config.Config
	log     *zap.Logger
	service *scraper.Service

	pool  *browser.Pool
	cache *cache.Cache
}

func newApp(ctx context.Context, configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	a := &app{cfg: cfg, log: log}

	var fetcher scraper.Fetcher
	switch cfg.Source.Fetcher {
	case config.FetcherHTTP:
		fetcher = scraper.NewHTTPFetcher(cfg.Source.Timeout, cfg.Browser.UserAgent)
	default:
		a.pool, err = browser.New(browser.Options{
			MinSize:     cfg.Browser.MinSize,
			MaxSize:     cfg.Browser.MaxSize,
			Headless:    cfg.Browser.Headless,
			UserAgent:   cfg.Browser.UserAgent,
			Timeout:     cfg.Source.Timeout,
			SettleDelay: cfg.Source.SettleDelay,
		}, log)
		if err != nil {
			return nil, fmt.Errorf("failed to create browser pool: %w", err)
		}
		fetcher = a.pool
	}

	if cfg.Redis.Enabled {
		a.cache = cache.New(redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}), log)
		if err := a.cache.Ping(ctx); err != nil {
			log.Warn("redis unreachable, snapshots will be fetched on every request",
				zap.String("address", cfg.Redis.Address), zap.Error(err))
		}
	}

	a.service = scraper.NewService(fetcher, a.cache, scraper.Options{
		URLTemplate: cfg.Source.URLTemplate,
		FetcherName: cfg.Source.Fetcher,
		CacheTTL:    cfg.Redis.TTL,
	}, log)

	log.Debug("application configured",
		zap.String("fetcher", cfg.Source.Fetcher),
		zap.Bool("redis", cfg.Redis.Enabled),
		zap.String("policy", string(cfg.Policy())))
	return a, nil
}

func (a *app) Close() {
	if a.pool != nil {
		a.pool.Close()
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.log.Warn("failed to close redis client", zap.Error(err))
		}
	}
	_ = a.log.Sync()
}
