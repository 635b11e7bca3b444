package indexer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spacesedan/trendflow/internal/metrics"
	"github.com/spacesedan/trendflow/internal/models"
)

type fakeStore struct {
	batches [][]models.SocialPost
	calls   int
	err     error
	failed  int
}

func (s *fakeStore) UpsertPosts(_ context.Context, posts []models.SocialPost) (int, int, error) {
	s.calls++
	if s.err != nil {
		return 0, 0, s.err
	}
	s.batches = append(s.batches, posts)
	return len(posts) - s.failed, s.failed, nil
}

type fakeCommitter struct {
	committed []*kafka.Message
	err       error
}

func (c *fakeCommitter) Commit(msg *kafka.Message) error {
	if c.err != nil {
		return c.err
	}
	c.committed = append(c.committed, msg)
	return nil
}

func messageFor(t *testing.T, canonicalID string) *kafka.Message {
	t.Helper()
	payload, err := json.Marshal(models.SocialPost{CanonicalID: canonicalID, Text: "some post"})
	require.NoError(t, err)
	return &kafka.Message{Value: payload}
}

func TestIndexerFlushesWhenBatchSizeReached(t *testing.T) {
	store := &fakeStore{}
	committer := &fakeCommitter{}
	ix := New(store, 3, time.Minute, time.Second, metrics.Noop{})

	ix.accept(messageFor(t, "a"))
	ix.accept(messageFor(t, "b"))
	assert.False(t, ix.shouldFlush())

	ix.accept(messageFor(t, "c"))
	require.True(t, ix.shouldFlush())

	ix.flush(context.Background(), committer)

	require.Len(t, store.batches, 1)
	assert.Len(t, store.batches[0], 3)
	assert.Len(t, committer.committed, 3)
	assert.Equal(t, 0, ix.batch.Size())
	assert.Empty(t, ix.tracked)
}

func TestIndexerFlushesAfterLinger(t *testing.T) {
	store := &fakeStore{}
	ix := New(store, 500, 10*time.Millisecond, time.Second, metrics.Noop{})

	ix.accept(messageFor(t, "a"))
	assert.False(t, ix.shouldFlush())

	time.Sleep(20 * time.Millisecond)
	require.True(t, ix.shouldFlush())

	ix.flush(context.Background(), &fakeCommitter{})

	require.Len(t, store.batches, 1)
	assert.Len(t, store.batches[0], 1)
}

func TestIndexerEmptyBatchNeverFlushes(t *testing.T) {
	store := &fakeStore{}
	ix := New(store, 3, 10*time.Millisecond, time.Second, metrics.Noop{})

	time.Sleep(20 * time.Millisecond)
	assert.False(t, ix.shouldFlush())

	ix.flush(context.Background(), &fakeCommitter{})
	assert.Zero(t, store.calls)
}

func TestIndexerRetriesThenLeavesOffsetsUncommitted(t *testing.T) {
	store := &fakeStore{err: errors.New("cluster unreachable")}
	committer := &fakeCommitter{}
	ix := New(store, 2, time.Minute, time.Second, metrics.Noop{})

	ix.accept(messageFor(t, "a"))
	ix.accept(messageFor(t, "b"))
	ix.flush(context.Background(), committer)

	assert.Equal(t, flushRetries, store.calls)
	assert.Empty(t, committer.committed)
	assert.Empty(t, ix.tracked)
}

func TestIndexerCommitsOnlyFlushedMessages(t *testing.T) {
	store := &fakeStore{}
	committer := &fakeCommitter{}
	ix := New(store, 2, time.Minute, time.Second, metrics.Noop{})

	ix.accept(messageFor(t, "a"))
	ix.accept(messageFor(t, "b"))
	ix.flush(context.Background(), committer)

	ix.accept(messageFor(t, "c"))

	assert.Len(t, committer.committed, 2)
	assert.Len(t, ix.tracked, 1)
	assert.Equal(t, 1, ix.batch.Size())
}

func TestIndexerCountsPartialFailures(t *testing.T) {
	store := &fakeStore{failed: 1}
	ix := New(store, 3, time.Minute, time.Second, metrics.Noop{})

	ix.accept(messageFor(t, "a"))
	ix.accept(messageFor(t, "b"))
	ix.accept(messageFor(t, "c"))
	ix.flush(context.Background(), &fakeCommitter{})

	// Partial failures do not poison the batch; every offset still commits
	// and the open batch is empty afterwards.
	assert.Equal(t, 0, ix.batch.Size())
	assert.Empty(t, ix.tracked)
}

func TestIndexerSkipsMalformedMessages(t *testing.T) {
	store := &fakeStore{}
	ix := New(store, 3, time.Minute, time.Second, metrics.Noop{})

	ix.accept(&kafka.Message{Value: []byte("{not json")})
	assert.Equal(t, 0, ix.batch.Size())
	assert.Empty(t, ix.tracked)
}
