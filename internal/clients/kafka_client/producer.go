package kafka_client

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"
)

var producer *kafka.Producer

func InitProducer(cfg KafkaConfig) error {
	slog.Info("[KafkaClient] Initializing Kafka Producer...",
		slog.String("broker", cfg.Broker))

	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers":  cfg.Broker,
		"enable.idempotence": true,
		"acks":               "all",
	})
	if err != nil {
		return fmt.Errorf("[KafkaClient] Failed to create producer: %w", err)
	}

	producer = p
	slog.Info("[KafkaClient] Kafka Producer initialized successfully")
	return nil
}

func CloseProducer() {
	slog.Info("[KafkaClient] Shutting down Kafka producer...")
	if producer != nil {
		if remaining := producer.Flush(5000); remaining > 0 {
			slog.Warn("[KafkaClient] Not all messages were delivered before shutdown",
				slog.Int("remaining", remaining))
		}
		producer.Close()
		slog.Info("[KafkaClient] Kafka producer shut down")
	}
}

// PublishToQueue appends a record to the named queue topic. Delivery is
// at-least-once: the call retries transient produce failures and waits for
// the broker acknowledgement.
func PublishToQueue(queue string, key string, record any) error {
	if producer == nil {
		return fmt.Errorf("[KafkaClient] Producer has not been initialized")
	}

	jsonData, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("[KafkaClient] Failed to serialize record: %w", err)
	}

	deliveryChan := make(chan kafka.Event, 1)
	msg := &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &queue, Partition: kafka.PartitionAny},
		Key:            []byte(key),
		Value:          jsonData,
	}

	for i := 0; i < 3; i++ {
		err = producer.Produce(msg, deliveryChan)
		if err == nil {
			break
		}
		slog.Warn("[KafkaClient] Failed to produce message, retrying...",
			slog.Int("attempt", i+1),
			slog.String("error", err.Error()))
		time.Sleep(RETRY_DELAY)
	}
	if err != nil {
		return fmt.Errorf("[KafkaClient] Failed to produce message after retries: %w", err)
	}

	e := <-deliveryChan
	if m, ok := e.(*kafka.Message); ok && m.TopicPartition.Error != nil {
		return fmt.Errorf("[KafkaClient] Delivery failed: %w", m.TopicPartition.Error)
	}

	return nil
}
