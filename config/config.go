package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Settings is the processing configuration shared by the workers. Connection
// settings for Kafka, Valkey and OpenSearch live next to their clients.
type Settings struct {
	AppEnv string `env:"APP_ENV" envDefault:"dev"`

	// BatchIndexer flush policy
	BatchSize      int           `env:"BATCH_SIZE" envDefault:"500"`
	BatchMaxLinger time.Duration `env:"BATCH_MAX_LINGER" envDefault:"30s"`

	// Queue consumption
	QueuePopTimeout time.Duration `env:"QUEUE_POP_TIMEOUT" envDefault:"5s"`

	// Deduplication
	DedupTTL time.Duration `env:"DEDUP_TTL" envDefault:"24h"`

	// Topic extraction
	TopicWindowMinutes   int           `env:"TOPIC_WINDOW_MINUTES" envDefault:"15"`
	TopicExtractInterval time.Duration `env:"TOPIC_EXTRACT_INTERVAL" envDefault:"10m"`
	TopicMaxClusters     int           `env:"TOPIC_MAX_CLUSTERS" envDefault:"10"`
	TopicMinDocs         int           `env:"TOPIC_MIN_DOCS" envDefault:"5"`
	TopicMaxFetch        int           `env:"TOPIC_MAX_FETCH" envDefault:"1000"`

	// Observability
	MetricsPort int `env:"METRICS_PORT" envDefault:"9090"`
}

func Load() (*Settings, error) {
	cfg := &Settings{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment: %w", err)
	}
	return cfg, nil
}
