package dedup

import (
	"context"
	"log/slog"
	"time"

	"github.com/spacesedan/trendflow/internal/metrics"
)

// Store is the conditional-set surface of the shared fingerprint store. The
// single SetIfAbsent operation is the system's only concurrency-control
// primitive: correctness under concurrent workers rests on it, never on a
// separate check-then-set.
type Store interface {
	SetIfAbsent(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

type Gate struct {
	store     Store
	ttl       time.Duration
	collector metrics.Collector
}

func NewGate(store Store, ttl time.Duration, collector metrics.Collector) *Gate {
	if collector == nil {
		collector = metrics.Noop{}
	}
	return &Gate{store: store, ttl: ttl, collector: collector}
}

// Admit returns true exactly once per canonical id per TTL window; the first
// caller wins and every later caller inside the window gets false. When the
// store is unreachable the gate fails open: the message is treated as novel
// and the miss is counted, trading a possible duplicate (harmless under
// upsert-by-canonical-id) for not stalling the stream.
func (g *Gate) Admit(ctx context.Context, canonicalID string) bool {
	ok, err := g.store.SetIfAbsent(ctx, seenKey(canonicalID), g.ttl)
	if err != nil {
		slog.Warn("[DedupGate] Seen-set unreachable, admitting without dedup",
			slog.String("canonical_id", canonicalID),
			slog.String("error", err.Error()))
		g.collector.Error("dedup", "store_unreachable")
		return true
	}
	return ok
}

func seenKey(canonicalID string) string {
	return "seen:" + canonicalID
}
