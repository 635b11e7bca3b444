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
	"github.com/spacesedan/trendflow/internal/clients/kafka_client"
	"github.com/spacesedan/trendflow/internal/dedup"
	"github.com/spacesedan/trendflow/internal/enrichment"
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

	clients.InitValkey()
	defer clients.CloseValkey()

	if !clients.GetValkeyClient().IsHealthy(ctx) {
		slog.Warn("[Main] Valkey not reachable at startup, continuing degraded")
	}

	valkeyHealthy := &atomic.Bool{}
	valkeyHealthy.Store(true)
	go monitoring.MonitorValkeyHealth(ctx, valkeyHealthy)
	go metrics.ServeHTTP(settings.MetricsPort, valkeyHealthy)

	cfg := kafka_client.GetKafkaConfig()
	cfg.Topic = kafka_client.QUEUE_RAW_POSTS

	for {
		err := kafka_client.InitProducer(cfg)
		if err == nil {
			break
		}

		slog.Warn("Kafka init failed, retrying...", slog.String("error", err.Error()))
		time.Sleep(5 * time.Second)
	}
	defer kafka_client.CloseProducer()

	gate := dedup.NewGate(clients.GetValkeyClient(), settings.DedupTTL, collector)
	enricher := enrichment.NewEnricher(gate, collector)
	stage := enrichment.NewStage(enricher, settings.QueuePopTimeout, collector)

	kafka_client.RegisterConsumer(kafka_client.QUEUE_RAW_POSTS, stage.Run)
	if err := kafka_client.StartConsumer(ctx, cfg); err != nil {
		slog.Error("[Main] Failed to start consumer",
			slog.String("error", err.Error()))
		os.Exit(1)
	}
}
