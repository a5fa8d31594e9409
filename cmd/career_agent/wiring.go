package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jonathan/career-advisor/internal/analysis"
	"github.com/jonathan/career-advisor/internal/cache"
	"github.com/jonathan/career-advisor/internal/catalog"
	"github.com/jonathan/career-advisor/internal/config"
	"github.com/jonathan/career-advisor/internal/db"
	"github.com/jonathan/career-advisor/internal/localstore"
	"github.com/jonathan/career-advisor/internal/repository"
	"go.uber.org/zap"
)

// app holds the long-lived components shared by the serve command
type app struct {
	catalog *catalog.Catalog
	repo    *repository.TwoTier
	cache   *cache.Results
	service *analysis.Service
	closers []func()
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// buildApp opens the configured stores and wires the analysis service.
// An unreachable Postgres or Redis degrades to the remaining tiers.
func buildApp(ctx context.Context, cfg *config.Config, logger *zap.Logger, migrate bool) (*app, error) {
	a := &app{}

	cat, err := catalog.LoadOrDefault(cfg.CatalogPath)
	if err != nil {
		return nil, err
	}
	a.catalog = cat

	var primary, fallback repository.Tier
	if cfg.DatabaseURL != "" {
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Warn("postgres unavailable, continuing without primary store", zap.Error(err))
		} else {
			a.closers = append(a.closers, database.Close)
			if migrate {
				if err := database.Migrate(ctx); err != nil {
					a.Close()
					return nil, err
				}
			}
			primary = database
		}
	}
	if cfg.SQLiteEnabled() {
		local, err := localstore.Open(cfg.SQLitePath)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.closers = append(a.closers, func() { _ = local.Close() })
		fallback = local
	}
	if primary == nil && fallback == nil {
		a.Close()
		return nil, fmt.Errorf("no profile store available: set DATABASE_URL or SQLITE_PATH")
	}
	a.repo = repository.NewTwoTier(primary, fallback, logger)

	var cacheOpts []cache.Option
	if cfg.RedisURL != "" {
		rdb, err := cache.ConnectRedis(ctx, cfg.RedisURL)
		if err != nil {
			logger.Warn("redis unavailable, using in-memory cache only", zap.Error(err))
		} else {
			a.closers = append(a.closers, func() { _ = rdb.Close() })
			cacheOpts = append(cacheOpts, cache.WithRedis(rdb))
		}
	}
	a.cache = cache.New(time.Duration(cfg.StaleAfter), logger, cacheOpts...)

	a.service, err = analysis.NewService(analysis.Config{
		Catalog:          cat,
		Profiles:         a.repo,
		Results:          a.repo,
		Cache:            a.cache,
		Logger:           logger,
		StaleAfter:       time.Duration(cfg.StaleAfter),
		BatchConcurrency: cfg.BatchConcurrency,
	})
	if err != nil {
		a.Close()
		return nil, err
	}

	logger.Info("stores ready",
		zap.Bool("postgres", primary != nil),
		zap.Bool("sqlite", fallback != nil),
		zap.Bool("redis", a.cache.Redis()),
		zap.Int("roles", cat.Len()))
	return a, nil
}
