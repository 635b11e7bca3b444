package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/spacesedan/trendflow/config"
	"github.com/spacesedan/trendflow/internal/clients"
	"github.com/spacesedan/trendflow/internal/clients/kafka_client"
	"github.com/spacesedan/trendflow/internal/indexer"
	"github.com/spacesedan/trendflow/internal/logging"
	"github.com/spacesedan/trendflow/internal/metrics"
	"github.com/spacesedan/trendflow/internal/monitoring"
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

	ix := indexer.New(store, settings.BatchSize, settings.BatchMaxLinger, settings.QueuePopTimeout, collector)

	cfg := kafka_client.GetKafkaConfig()
	cfg.Topic = kafka_client.QUEUE_ENRICHED_POSTS

	kafka_client.RegisterConsumer(kafka_client.QUEUE_ENRICHED_POSTS, ix.Run)
	if err := kafka_client.StartConsumer(ctx, cfg); err != nil {
		slog.Error("[Main] Failed to start consumer",
			slog.String("error", err.Error()))
		os.Exit(1)
	}
}
