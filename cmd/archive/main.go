package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/rcastillo-dev/paper-archive-platform/internal/analysis"
	"github.com/rcastillo-dev/paper-archive-platform/internal/archive"
	"github.com/rcastillo-dev/paper-archive-platform/internal/archive/cache"
	"github.com/rcastillo-dev/paper-archive-platform/internal/archive/handler"
	"github.com/rcastillo-dev/paper-archive-platform/internal/paper"
	"github.com/rcastillo-dev/paper-archive-platform/internal/stats"
	"github.com/rcastillo-dev/paper-archive-platform/pkg/collation"
	"github.com/rcastillo-dev/paper-archive-platform/pkg/config"
	"github.com/rcastillo-dev/paper-archive-platform/pkg/health"
	"github.com/rcastillo-dev/paper-archive-platform/pkg/kafka"
	"github.com/rcastillo-dev/paper-archive-platform/pkg/logger"
	"github.com/rcastillo-dev/paper-archive-platform/pkg/metrics"
	"github.com/rcastillo-dev/paper-archive-platform/pkg/middleware"
	"github.com/rcastillo-dev/paper-archive-platform/pkg/postgres"
	pkgredis "github.com/rcastillo-dev/paper-archive-platform/pkg/redis"
	"github.com/rcastillo-dev/paper-archive-platform/pkg/tracing"
)

func main() {
	configPath := flag.String("config", "configs/development.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("starting paper archive", "port", cfg.Server.Port, "data_dir", cfg.Archive.DataDir)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	if cfg.Metrics.Enabled {
		shutdownMetrics := metrics.StartServer(cfg.Metrics.Port)
		defer func() {
			if err := shutdownMetrics(context.Background()); err != nil {
				slog.Error("metrics server shutdown error", "error", err)
			}
		}()
	}

	store, err := paper.NewFileStore(cfg.Archive.DataDir, cfg.Archive.FileSuffix)
	if err != nil {
		slog.Error("failed to open archive directory", "error", err)
		os.Exit(1)
	}

	repo := archive.NewRepository(store, paper.Parse, collation.NewSpanish())

	bootCtx := ctx
	var bootSpan *tracing.Span
	if cfg.Tracing.Enabled {
		bootCtx, bootSpan = tracing.StartSpan(ctx, "archive.boot", uuid.NewString())
	}
	loaded, skipped, err := repo.LoadAll(bootCtx)
	if err != nil {
		slog.Error("failed to load archive", "error", err)
		os.Exit(1)
	}
	if bootSpan != nil {
		bootSpan.End()
		bootSpan.Log()
	}
	m.SummariesLoadedTotal.Add(float64(loaded))
	m.LoadFailuresTotal.Add(float64(skipped))
	m.IndexSize.WithLabelValues("summaries").Set(float64(repo.SummaryCount()))
	m.IndexSize.WithLabelValues("authors").Set(float64(repo.AuthorCount()))
	m.IndexSize.WithLabelValues("keywords").Set(float64(repo.KeywordCount()))
	slog.Info("archive loaded", "summaries", loaded, "authors", repo.AuthorCount(), "keywords", repo.KeywordCount())

	var responseCache *cache.ResponseCache
	var redisClient *pkgredis.Client
	if cfg.Redis.Enabled {
		redisClient, err = pkgredis.NewClient(cfg.Redis)
		if err != nil {
			slog.Warn("redis unavailable, response caching disabled", "error", err)
			redisClient = nil
		} else {
			defer redisClient.Close()
			responseCache = cache.New(redisClient, cfg.Redis)
			slog.Info("response cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.CacheTTL)
		}
	}

	var collector *stats.Collector
	var statsHandler *stats.Handler
	var pgClient *postgres.Client
	if cfg.Stats.Enabled {
		producer := kafka.NewProducer(cfg.Kafka, cfg.Kafka.Topics.ArchiveEvents)
		collector = stats.NewCollector(producer, cfg.Stats.BufferSize, cfg.Stats.BatchSize, cfg.Stats.FlushInterval)
		collector.Start(ctx)
		defer collector.Close()

		aggregator := stats.NewAggregator()
		aggregator.Consume(kafka.NewConsumer(cfg.Kafka, cfg.Kafka.Topics.ArchiveEvents, stats.HandleEvent(aggregator)))
		go func() {
			if err := aggregator.Start(ctx); err != nil {
				slog.Error("stats aggregator error", "error", err)
			}
		}()
		statsHandler = stats.NewHandler(aggregator)
		slog.Info("stats pipeline started", "topic", cfg.Kafka.Topics.ArchiveEvents)

		pgClient, err = postgres.New(cfg.Postgres)
		if err != nil {
			slog.Warn("postgres unavailable, stats snapshots disabled", "error", err)
			pgClient = nil
		} else {
			defer pgClient.Close()
			snapshotStore := stats.NewStore(pgClient)
			if err := snapshotStore.EnsureSchema(ctx); err != nil {
				slog.Error("failed to prepare snapshot schema", "error", err)
				os.Exit(1)
			}
			snapshotStore.StartPeriodicSave(ctx, aggregator, cfg.Stats.SnapshotInterval)
			slog.Info("stats snapshots enabled", "interval", cfg.Stats.SnapshotInterval)
		}
	}

	checker := health.NewChecker()
	checker.Register("archive", func(ctx context.Context) health.ComponentHealth {
		if repo.IsEmpty() {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: "no summaries indexed"}
		}
		return health.ComponentHealth{Status: health.StatusUp, Message: fmt.Sprintf("%d summaries indexed", repo.SummaryCount())}
	})
	checker.Register("storage", func(ctx context.Context) health.ComponentHealth {
		if err := store.Writable(); err != nil {
			return health.ComponentHealth{Status: health.StatusDown, Message: err.Error()}
		}
		return health.ComponentHealth{Status: health.StatusUp}
	})
	checker.Register("redis", func(ctx context.Context) health.ComponentHealth {
		if redisClient == nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: "not configured"}
		}
		if err := redisClient.Ping(ctx); err != nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: err.Error()}
		}
		return health.ComponentHealth{Status: health.StatusUp}
	})
	if pgClient != nil {
		checker.Register("postgres", func(ctx context.Context) health.ComponentHealth {
			if err := pgClient.Ping(ctx); err != nil {
				return health.ComponentHealth{Status: health.StatusDegraded, Message: err.Error()}
			}
			return health.ComponentHealth{Status: health.StatusUp}
		})
	}

	h := handler.New(repo, analysis.New(repo), responseCache, collector, m)

	mux := http.NewServeMux()
	h.Register(mux)
	if statsHandler != nil {
		mux.HandleFunc("GET /api/v1/stats", statsHandler.Stats)
	}
	mux.HandleFunc("GET /health/live", checker.LiveHandler())
	mux.HandleFunc("GET /health/ready", checker.ReadyHandler())

	var chain http.Handler = mux
	chain = middleware.Timeout(cfg.Server.WriteTimeout)(chain)
	chain = middleware.Metrics(m)(chain)
	chain = middleware.CORS(middleware.DefaultCORSConfig())(chain)
	chain = middleware.RequestID(chain)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      chain,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		<-ctx.Done()
		slog.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()

	slog.Info("paper archive listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	// In-flight handlers finish inside Shutdown; the deferred collector and
	// client closes must not run before they do.
	<-shutdownDone
	slog.Info("paper archive stopped")
}
