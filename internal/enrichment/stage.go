package enrichment

import (
	"context"
	"log/slog"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"

	"github.com/spacesedan/trendflow/internal/clients/kafka_client"
	"github.com/spacesedan/trendflow/internal/clients/kafka_client/utils"
	"github.com/spacesedan/trendflow/internal/metrics"
	"github.com/spacesedan/trendflow/internal/models"
)

const queueErrorBackoff = 1 * time.Second

// Stage drains the raw-posts queue, enriches each message and hands novel
// posts to the enriched-posts queue. Offsets are committed only after
// handoff, so a crash mid-message re-delivers (at-least-once) and the dedup
// gate plus upsert-by-canonical-id absorb the replay.
type Stage struct {
	enricher   *Enricher
	popTimeout time.Duration
	collector  metrics.Collector
}

func NewStage(enricher *Enricher, popTimeout time.Duration, collector metrics.Collector) *Stage {
	if collector == nil {
		collector = metrics.Noop{}
	}
	return &Stage{enricher: enricher, popTimeout: popTimeout, collector: collector}
}

func (s *Stage) Run(ctx context.Context, consumer *kafka.Consumer) {
	iterator := kafka_client.NewKafkaMessageIterator(ctx, consumer)
	committer := kafka_client.NewCommitHandler(ctx, consumer)

	go kafka_client.MonitorQueueDepth(ctx, consumer, kafka_client.QUEUE_RAW_POSTS, s.collector.QueueDepth)

	slog.Info("[EnrichmentStage] Listening for raw posts...")

	for {
		select {
		case <-ctx.Done():
			slog.Warn("[EnrichmentStage] Stopping consumer...")
			return
		default:
			msg, err := iterator.Next(s.popTimeout)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				utils.HandleConsumerError(err)
				s.collector.Error("enrichment", "queue_error")
				time.Sleep(queueErrorBackoff)
				continue
			}
			if msg == nil {
				continue
			}

			s.handleMessage(ctx, committer, msg)
		}
	}
}

// handleMessage contains the per-message boundary: every outcome ends with
// either a commit (terminal) or a deliberate non-commit (redelivery), and
// the loop always moves on.
func (s *Stage) handleMessage(ctx context.Context, committer *kafka_client.KafkaCommitHandler, msg *kafka.Message) {
	var raw models.RawMessage
	if err := utils.DeserializeFromJSON(msg.Value, &raw); err != nil {
		s.collector.PostProcessed(ReasonMalformed)
		s.commit(committer, msg)
		return
	}

	result := s.enricher.Process(ctx, raw)

	switch result.Status {
	case StatusOK:
		if err := s.publishWithRetry(result.Post); err != nil {
			// The gate already claimed this canonical id, so a redelivery
			// would be dropped as a duplicate anyway. Count the loss and
			// move on rather than wedging the partition.
			slog.Error("[EnrichmentStage] Giving up on enriched post",
				slog.String("canonical_id", result.Post.CanonicalID),
				slog.String("error", err.Error()))
			s.collector.Error("enrichment", "publish_error")
			break
		}
		s.collector.PostProcessed("success")
		slog.Debug("[EnrichmentStage] Processed post",
			slog.String("post_id", result.Post.PostID),
			slog.String("canonical_id", result.Post.CanonicalID))
	case StatusSkipped:
		s.collector.PostProcessed(result.Reason)
		slog.Debug("[EnrichmentStage] Skipping post",
			slog.String("post_id", raw.PostID),
			slog.String("reason", result.Reason))
	case StatusFailed:
		s.collector.PostProcessed("error")
		s.collector.Error("enrichment", "processing_error")
		slog.Error("[EnrichmentStage] Failed to process post",
			slog.String("post_id", raw.PostID),
			slog.String("error", result.Err.Error()))
	}

	s.commit(committer, msg)
}

func (s *Stage) publishWithRetry(post *models.SocialPost) error {
	var err error
	for i := 0; i < 3; i++ {
		err = kafka_client.PublishToQueue(kafka_client.QUEUE_ENRICHED_POSTS, post.CanonicalID, post)
		if err == nil {
			return nil
		}
		slog.Warn("[EnrichmentStage] Failed to publish enriched post, retrying...",
			slog.Int("attempt", i+1),
			slog.String("error", err.Error()))
		time.Sleep(queueErrorBackoff)
	}
	return err
}

func (s *Stage) commit(committer *kafka_client.KafkaCommitHandler, msg *kafka.Message) {
	if err := committer.Commit(msg); err != nil {
		slog.Warn("[EnrichmentStage] Failed to commit offset",
			slog.String("error", err.Error()))
	}
}
