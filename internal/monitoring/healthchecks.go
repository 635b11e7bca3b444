package monitoring

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/spacesedan/trendflow/internal/clients"
)

const HEALTHCHECK_TIMER = 15

func MonitorValkeyHealth(ctx context.Context, healthy *atomic.Bool) {
	ticker := time.NewTicker(time.Second * HEALTHCHECK_TIMER)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			isHealthy := clients.GetValkeyClient().IsHealthy(ctx)
			healthy.Store(isHealthy)
			if !isHealthy {
				slog.Warn("[HealthCheck] Valkey is unhealthy")
			}
		}
	}
}

func MonitorOpensearchHealth(ctx context.Context, healthy *atomic.Bool) {
	ticker := time.NewTicker(time.Second * HEALTHCHECK_TIMER)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			isHealthy := clients.GetOpensearchClient(ctx).IsHealthy(ctx)
			healthy.Store(isHealthy)
			if !isHealthy {
				slog.Warn("[HealthCheck] OpenSearch is unhealthy")
			}
		}
	}
}
