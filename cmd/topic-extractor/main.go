package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/spacesedan/trendflow/config"
	"github.com/spacesedan/trendflow/internal/clients"
	"github.com/spacesedan/trendflow/internal/logging"
	"github.com/spacesedan/trendflow/internal/metrics"
	"github.com/spacesedan/trendflow/internal/monitoring"
	"github.com/spacesedan/trendflow/internal/scheduler"
	"github.com/spacesedan/trendflow/internal/topics"
)

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)
	logging.InitLogger()

	settings, err := config.Load()
	if err != nil {
		slog.Error("[Main] Failed to load settings", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	collector := metrics.NewPrometheus(prometheus.DefaultRegisterer)

	store := clients.GetOpensearchClient(ctx)
	if !store.IsHealthy(ctx) {
		slog.Warn("[Main] OpenSearch not reachable at startup, continuing degraded")
	}

	opensearchHealthy := &atomic.Bool{}
	opensearchHealthy.Store(true)
	go monitoring.MonitorOpensearchHealth(ctx, opensearchHealthy)
	go metrics.ServeHTTP(settings.MetricsPort, opensearchHealthy)
	window := time.Duration(settings.TopicWindowMinutes) * time.Minute
	extractor := topics.NewExtractor(store,
		window,
		settings.TopicMaxClusters,
		settings.TopicMinDocs,
		settings.TopicMaxFetch,
		collector)

	scheduler.Run(ctx, settings.TopicExtractInterval, "topic-extraction", extractor.Extract)
	slog.Info("[Main] Topic extractor stopped")
}
