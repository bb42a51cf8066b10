package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/miradorstack/mirador-twin/internal/cache"
	"github.com/miradorstack/mirador-twin/internal/config"
	"github.com/miradorstack/mirador-twin/internal/engine"
	"github.com/miradorstack/mirador-twin/internal/models"
	"github.com/miradorstack/mirador-twin/internal/repo"
)

// engineOptions maps configuration onto engine tuning. A zero recovery
// probability in config means self-healing is switched off. The tick interval
// only sets playback speed; one tick always stands for one simulated second.
func engineOptions(cfg *config.Config, policy *engine.Policy) engine.Options {
	return engine.Options{
		Seed:                cfg.Simulation.Seed,
		HistorySize:         cfg.Simulation.HistorySize,
		EventLogSize:        cfg.Simulation.EventLogSize,
		TickDuration:        time.Second,
		RecoveryThreshold:   cfg.Simulation.RecoveryThreshold,
		RecoveryProbability: cfg.Simulation.RecoveryProbability,
		DisableAutoRecovery: cfg.Simulation.DisableAutoRecovery || cfg.Simulation.RecoveryProbability == 0,
		MinutesPerHop:       cfg.Simulation.MinutesPerHop,
		DefaultSLA: models.SLATargets{
			Availability: cfg.SLA.Availability,
			LatencyMs:    cfg.SLA.LatencyMs,
			ErrorRate:    cfg.SLA.ErrorRate,
		},
		Policy: policy,
	}
}

// newCacheProvider picks Redis when enabled, falling back to an in-process
// cache if the server cannot be reached.
func newCacheProvider(ctx context.Context, cfg config.CacheConfig, logger *slog.Logger) cache.Provider {
	if !cfg.Enabled {
		return cache.NoopProvider{}
	}
	if cfg.Addr == "" {
		logger.Info("cache enabled without address, using in-memory cache")
		return cache.NewMemoryProvider()
	}
	provider, err := cache.NewRedisProvider(ctx, cache.RedisConfig{
		Addr:         cfg.Addr,
		Username:     cfg.Username,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		MaxRetries:   cfg.MaxRetries,
	})
	if err != nil {
		logger.Warn("redis cache unavailable, using in-memory cache", slog.Any("error", err))
		return cache.NewMemoryProvider()
	}
	return provider
}

// graphSource builds the configured source. The returned closer releases
// driver resources and is never nil.
func graphSource(cfg *config.Config, provider cache.Provider, logger *slog.Logger) (repo.GraphSource, func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }
	switch cfg.Graph.Source {
	case config.SourceFile:
		return repo.NewFileSource(cfg.Graph.Path), noop, nil
	case config.SourceEditor:
		editor := cfg.Graph.Editor
		return repo.NewEditorClient(editor.BaseURL, editor.GraphPath, editor.Project, editor.Timeout, provider, cfg.Cache.GraphTTL, logger), noop, nil
	case config.SourceNeo4j:
		n := cfg.Graph.Neo4j
		src, err := repo.NewNeo4jSource(n.URI, n.Username, n.Password, n.Database, logger)
		if err != nil {
			return nil, noop, err
		}
		return src, src.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown graph source %q", cfg.Graph.Source)
	}
}
