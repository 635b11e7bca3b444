package indexer

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

const (
	queueErrorBackoff = 1 * time.Second
	flushRetries      = 3
)

// DocumentStore is the slice of the document store the indexer needs:
// an idempotent bulk upsert keyed by canonical_id.
type DocumentStore interface {
	UpsertPosts(ctx context.Context, posts []models.SocialPost) (written, failed int, err error)
}

type offsetCommitter interface {
	Commit(msg *kafka.Message) error
}

// Indexer drains the enriched-posts queue into the document store under a
// size-or-linger flush policy. Offsets commit only after their batch is
// flushed; the upsert is idempotent, so redelivered posts are harmless.
type Indexer struct {
	store      DocumentStore
	batchSize  int
	maxLinger  time.Duration
	popTimeout time.Duration
	collector  metrics.Collector

	batch   *Batch[models.SocialPost]
	tracked map[string]*kafka.Message
}

func New(store DocumentStore, batchSize int, maxLinger, popTimeout time.Duration, collector metrics.Collector) *Indexer {
	if collector == nil {
		collector = metrics.Noop{}
	}
	return &Indexer{
		store:      store,
		batchSize:  batchSize,
		maxLinger:  maxLinger,
		popTimeout: popTimeout,
		collector:  collector,
		batch:      NewBatch[models.SocialPost](batchSize),
		tracked:    make(map[string]*kafka.Message),
	}
}

func (ix *Indexer) Run(ctx context.Context, consumer *kafka.Consumer) {
	iterator := kafka_client.NewKafkaMessageIterator(ctx, consumer)
	committer := kafka_client.NewCommitHandler(ctx, consumer)

	go kafka_client.MonitorQueueDepth(ctx, consumer, kafka_client.QUEUE_ENRICHED_POSTS, ix.collector.QueueDepth)

	slog.Info("[BatchIndexer] Listening for enriched posts...",
		slog.Int("batch_size", ix.batchSize),
		slog.Duration("max_linger", ix.maxLinger))

	for {
		select {
		case <-ctx.Done():
			// Nothing stays stranded in memory on shutdown.
			slog.Warn("[BatchIndexer] Stopping, flushing open batch...")
			ix.flush(context.Background(), committer)
			return
		default:
			msg, err := iterator.Next(ix.popTimeout)
			if err != nil {
				if ctx.Err() != nil {
					continue
				}
				utils.HandleConsumerError(err)
				ix.collector.Error("indexer", "queue_error")
				time.Sleep(queueErrorBackoff)
			} else if msg != nil {
				ix.accept(msg)
			}

			if ix.shouldFlush() {
				ix.flush(ctx, committer)
			}
		}
	}
}

func (ix *Indexer) accept(msg *kafka.Message) {
	var post models.SocialPost
	if err := utils.DeserializeFromJSON(msg.Value, &post); err != nil {
		ix.collector.Error("indexer", "deserialize_error")
		return
	}

	ix.batch.Add(post)
	ix.tracked[post.CanonicalID] = msg
	ix.collector.OpenBatchSize(ix.batch.Size())
}

// shouldFlush applies the size-or-timeout policy: whichever trigger fires
// first wins, and an empty batch never flushes.
func (ix *Indexer) shouldFlush() bool {
	if ix.batch.Size() >= ix.batchSize {
		return true
	}
	return ix.batch.HasData() && ix.batch.Age() > ix.maxLinger
}

func (ix *Indexer) flush(ctx context.Context, committer offsetCommitter) {
	batch := ix.batch.GetAndClear()
	if len(batch) == 0 {
		return
	}

	start := time.Now()

	var written, failed int
	var err error
	for i := 0; i < flushRetries; i++ {
		written, failed, err = ix.store.UpsertPosts(ctx, batch)
		if err == nil {
			break
		}
		slog.Error("[BatchIndexer] Failed to write batch to store",
			slog.Int("attempt", i+1),
			slog.String("error", err.Error()))
		ix.collector.Error("indexer", "store_error")
	}

	if err != nil {
		// The whole batch was rejected; leave offsets uncommitted so the
		// queue redelivers and the idempotent upsert replays it.
		ix.dropTracked(batch)
		return
	}

	ix.collector.PostsIndexed("success", written)
	if failed > 0 {
		ix.collector.PostsIndexed("error", failed)
	}
	ix.collector.FlushDuration(time.Since(start))
	ix.collector.OpenBatchSize(ix.batch.Size())

	slog.Info("[BatchIndexer] Flushed batch",
		slog.Int("written", written),
		slog.Int("failed", failed),
		slog.Duration("duration", time.Since(start)))

	for _, post := range batch {
		msg, found := ix.tracked[post.CanonicalID]
		if !found {
			continue
		}
		delete(ix.tracked, post.CanonicalID)
		if err := committer.Commit(msg); err != nil {
			slog.Warn("[BatchIndexer] Failed to commit offset",
				slog.String("error", err.Error()))
		}
	}
}

func (ix *Indexer) dropTracked(batch []models.SocialPost) {
	for _, post := range batch {
		delete(ix.tracked, post.CanonicalID)
	}
}
