package kafka_client

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"
)

type KafkaMessageIterator struct {
	consumer *kafka.Consumer
	ctx      context.Context
}

func NewKafkaMessageIterator(ctx context.Context, consumer *kafka.Consumer) *KafkaMessageIterator {
	return &KafkaMessageIterator{
		consumer: consumer,
		ctx:      ctx,
	}
}

// Next is a blocking pop with timeout: it returns (nil, nil) when no message
// arrives in time, so callers can run their linger checks between polls.
func (it *KafkaMessageIterator) Next(timeout time.Duration) (*kafka.Message, error) {
	if it.consumer == nil {
		return nil, errors.New("[KafkaIterator] Kafka consumer has not been initialized")
	}

	select {
	case <-it.ctx.Done():
		slog.Warn("[KafkaIterator] Context cancelled, stopping iterator")
		return nil, it.ctx.Err()
	default:
	}

	msg, err := it.consumer.ReadMessage(timeout)
	if err != nil {
		if kafkaErr, ok := err.(kafka.Error); ok {
			if kafkaErr.Code() == kafka.ErrTimedOut {
				return nil, nil
			}
			if kafkaErr.Code() == kafka.ErrAllBrokersDown {
				slog.Error("[KafkaIterator] All Kafka brokers are down. Aborting")
				return nil, err
			}
		}
		return nil, err
	}

	return msg, nil
}
