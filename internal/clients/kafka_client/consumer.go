package kafka_client

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"
)

func NewConsumer(cfg KafkaConfig) (*kafka.Consumer, error) {
	slog.Info("[KafkaClient] Initializing Kafka Consumer...",
		slog.String("broker", cfg.Broker),
		slog.String("group_id", cfg.GroupID),
		slog.String("topic", cfg.Topic))

	c, err := kafka.NewConsumer(&kafka.ConfigMap{
		"bootstrap.servers":  cfg.Broker,
		"group.id":           cfg.GroupID,
		"auto.offset.reset":  "earliest",
		"enable.auto.commit": false,
	})
	if err != nil {
		return nil, fmt.Errorf("[KafkaClient] Failed to create consumer: %w", err)
	}

	if err := c.SubscribeTopics([]string{cfg.Topic}, nil); err != nil {
		c.Close()
		return nil, fmt.Errorf("[KafkaClient] Failed to subscribe to topic: %w", err)
	}

	slog.Info("[KafkaClient] Kafka Consumer initialized successfully")
	return c, nil
}

// QueueDepth reports the unconsumed backlog across the consumer's assigned
// partitions: high watermark minus committed offset. Observability only.
func QueueDepth(consumer *kafka.Consumer) (int64, error) {
	assigned, err := consumer.Assignment()
	if err != nil {
		return 0, fmt.Errorf("[KafkaClient] Failed to read assignment: %w", err)
	}

	committed, err := consumer.Committed(assigned, 5000)
	if err != nil {
		return 0, fmt.Errorf("[KafkaClient] Failed to read committed offsets: %w", err)
	}

	var depth int64
	for _, tp := range committed {
		_, high, err := consumer.QueryWatermarkOffsets(*tp.Topic, tp.Partition, 5000)
		if err != nil {
			return 0, fmt.Errorf("[KafkaClient] Failed to query watermarks: %w", err)
		}

		offset := int64(tp.Offset)
		if tp.Offset == kafka.OffsetInvalid {
			offset = 0
		}
		if high > offset {
			depth += high - offset
		}
	}

	return depth, nil
}

// MonitorQueueDepth samples the backlog on an interval and hands it to
// report until ctx is cancelled. Sampling failures are debug noise only.
func MonitorQueueDepth(ctx context.Context, consumer *kafka.Consumer, queue string, report func(queue string, depth int64)) {
	ticker := time.NewTicker(QUEUE_DEPTH_SAMPLE_INTERVAL)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			depth, err := QueueDepth(consumer)
			if err != nil {
				slog.Debug("[KafkaClient] Failed to sample queue depth",
					slog.String("queue", queue),
					slog.String("error", err.Error()))
				continue
			}
			report(queue, depth)
		}
	}
}
