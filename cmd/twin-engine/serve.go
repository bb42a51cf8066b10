package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/miradorstack/mirador-twin/internal/api"
	"github.com/miradorstack/mirador-twin/internal/config"
	"github.com/miradorstack/mirador-twin/internal/engine"
	"github.com/miradorstack/mirador-twin/internal/extractors"
	"github.com/miradorstack/mirador-twin/internal/metrics"
	"github.com/miradorstack/mirador-twin/internal/models"
	"github.com/miradorstack/mirador-twin/internal/repo"
	"github.com/miradorstack/mirador-twin/internal/services"
	"github.com/miradorstack/mirador-twin/internal/utils"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the simulation clock with the gRPC, HTTP and metrics listeners",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := utils.NewLogger(cfg.Logging.Level, cfg.Logging.JSON)
	logger.Info("starting mirador-twin",
		slog.String("grpc", cfg.Server.GRPCAddress),
		slog.String("http", cfg.Server.HTTPAddress),
		slog.String("graph_source", cfg.Graph.Source),
	)

	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cacheProvider := newCacheProvider(ctx, cfg.Cache, logger)
	defer cacheProvider.Close()

	source, closeSource, err := graphSource(cfg, cacheProvider, logger)
	if err != nil {
		return err
	}
	defer closeSource(context.Background())

	loadCtx, cancelLoad := context.WithTimeout(ctx, 30*time.Second)
	graph, err := source.LoadGraph(loadCtx)
	cancelLoad()
	if err != nil {
		return err
	}

	policy, err := engine.LoadPolicy(cfg.Policy.Path, logger)
	if err != nil {
		return err
	}

	eng, err := engine.New(graph, logger, engineOptions(cfg, policy))
	if err != nil {
		return err
	}
	if cfg.Simulation.AutoStart {
		eng.Start()
	}

	twinService := services.NewTwinService(logger, eng, extractors.NewTelemetryExtractor())

	grpcServer, err := api.NewServer(cfg.Server, twinService)
	if err != nil {
		return err
	}
	httpServer := api.NewHTTPServer(cfg.Server.HTTPAddress, cfg.Server.CORSOrigins, twinService, logger)

	var metricsServer *http.Server
	if cfg.Server.MetricsAddress != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsServer = &http.Server{
			Addr:         cfg.Server.MetricsAddress,
			Handler:      mux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 15 * time.Second,
		}
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return engine.NewClock(eng, cfg.Simulation.TickInterval, logger).Run(gCtx)
	})
	g.Go(func() error {
		logger.Info("grpc server listening", slog.String("address", grpcServer.Address()))
		return grpcServer.Start()
	})
	g.Go(httpServer.Start)
	if metricsServer != nil {
		g.Go(func() error {
			logger.Info("metrics server listening", slog.String("address", cfg.Server.MetricsAddress))
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}
	if fileSource, ok := source.(*repo.FileSource); ok && cfg.Graph.Watch {
		g.Go(func() error {
			return repo.WatchFile(gCtx, fileSource, 0, logger, func(updated models.Graph) {
				if err := eng.Load(updated); err != nil {
					logger.Warn("reloaded graph rejected", slog.Any("error", err))
				}
			})
		})
	}

	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
		defer cancel()
		grpcServer.Shutdown(shutdownCtx)
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("http server shutdown", slog.Any("error", err))
		}
		if metricsServer != nil {
			if err := metricsServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Warn("metrics server shutdown", slog.Any("error", err))
			}
		}
		return nil
	})

	err = g.Wait()
	logger.Info("mirador-twin stopped",
		slog.Int64("tick", eng.CurrentTick()),
		slog.Duration("injection_p95", twinService.InjectionLatencyP95()),
	)
	return err
}
