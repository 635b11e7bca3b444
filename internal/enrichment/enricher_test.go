package enrichment

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spacesedan/trendflow/internal/dedup"
	"github.com/spacesedan/trendflow/internal/models"
)

type memorySeenStore struct {
	mu   sync.Mutex
	seen map[string]bool
}

func newMemorySeenStore() *memorySeenStore {
	return &memorySeenStore{seen: make(map[string]bool)}
}

func (m *memorySeenStore) SetIfAbsent(_ context.Context, key string, _ time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.seen[key] {
		return false, nil
	}
	m.seen[key] = true
	return true, nil
}

func newTestEnricher() *Enricher {
	gate := dedup.NewGate(newMemorySeenStore(), 24*time.Hour, nil)
	return NewEnricher(gate, nil)
}

func rawMessage(id, text string) models.RawMessage {
	return models.RawMessage{
		Platform:      "reddit",
		PostID:        id,
		CreatedAt:     time.Date(2025, 3, 1, 12, 1, 0, 0, time.UTC),
		UserID:        "user-" + id,
		UserName:      "poster_" + id,
		UserFollowers: 42,
		Text:          text,
	}
}

func TestProcessRejectsMalformed(t *testing.T) {
	e := newTestEnricher()

	t.Run("missing post id", func(t *testing.T) {
		raw := rawMessage("", "a perfectly reasonable message about databases")
		result := e.Process(context.Background(), raw)
		assert.Equal(t, StatusSkipped, result.Status)
		assert.Equal(t, ReasonMalformed, result.Reason)
	})

	t.Run("missing created_at", func(t *testing.T) {
		raw := rawMessage("p1", "a perfectly reasonable message about databases")
		raw.CreatedAt = time.Time{}
		result := e.Process(context.Background(), raw)
		assert.Equal(t, StatusSkipped, result.Status)
		assert.Equal(t, ReasonMalformed, result.Reason)
	})
}

func TestProcessRejectsShortText(t *testing.T) {
	e := newTestEnricher()

	result := e.Process(context.Background(), rawMessage("p1", "hi all"))
	assert.Equal(t, StatusSkipped, result.Status)
	assert.Equal(t, ReasonTooShort, result.Reason)
}

func TestProcessDropsDuplicates(t *testing.T) {
	e := newTestEnricher()
	raw := rawMessage("p1", "the same interesting take on distributed systems")

	first := e.Process(context.Background(), raw)
	require.Equal(t, StatusOK, first.Status)

	// Same author, same text, same 5-minute bucket, different platform id.
	duplicate := raw
	duplicate.PostID = "p2"
	duplicate.CreatedAt = raw.CreatedAt.Add(30 * time.Second)

	second := e.Process(context.Background(), duplicate)
	assert.Equal(t, StatusSkipped, second.Status)
	assert.Equal(t, ReasonDuplicate, second.Reason)
}

func TestProcessEnrichesFields(t *testing.T) {
	e := newTestEnricher()
	raw := rawMessage("p1",
		"The new streaming engine handles enormous ingestion volume with impressive grace and wonderful stability")
	raw.UserLocation = "Lisbon"

	result := e.Process(context.Background(), raw)
	require.Equal(t, StatusOK, result.Status)
	require.NotNil(t, result.Post)

	post := result.Post
	assert.Equal(t, "reddit", post.Platform)
	assert.Equal(t, "p1", post.PostID)
	assert.Len(t, post.CanonicalID, 64)
	assert.NotEmpty(t, post.Language)
	assert.NotEmpty(t, post.SentimentLabel)
	assert.GreaterOrEqual(t, post.SentimentScore, -1.0)
	assert.LessOrEqual(t, post.SentimentScore, 1.0)
	assert.NotEmpty(t, post.Keywords)
	assert.Equal(t, "Lisbon", post.Region)
	assert.GreaterOrEqual(t, post.BotScore, 0.0)
	assert.LessOrEqual(t, post.BotScore, 1.0)
	assert.False(t, post.IngestTS.IsZero())
	assert.Empty(t, post.TopicID)
}

// Five raw messages, two of which are identical text from the same author in
// the same 5-minute bucket: exactly four distinct canonical ids survive.
func TestProcessStreamDeduplication(t *testing.T) {
	e := newTestEnricher()
	base := time.Date(2025, 3, 1, 12, 1, 0, 0, time.UTC)

	messages := []models.RawMessage{
		{Platform: "reddit", PostID: "a", CreatedAt: base, UserID: "u1", Text: "kubernetes upgrade broke our ingress controllers again"},
		{Platform: "reddit", PostID: "b", CreatedAt: base.Add(time.Minute), UserID: "u1", Text: "kubernetes upgrade broke our ingress controllers again"},
		{Platform: "reddit", PostID: "c", CreatedAt: base, UserID: "u2", Text: "the championship final last night was absolutely thrilling"},
		{Platform: "reddit", PostID: "d", CreatedAt: base, UserID: "u3", Text: "new language model benchmarks look surprisingly strong"},
		{Platform: "reddit", PostID: "e", CreatedAt: base, UserID: "u4", Text: "coffee prices keep climbing across european markets"},
	}

	canonical := make(map[string]bool)
	admitted := 0
	for _, raw := range messages {
		result := e.Process(context.Background(), raw)
		if result.Status == StatusOK {
			admitted++
			canonical[result.Post.CanonicalID] = true
		} else {
			assert.Equal(t, ReasonDuplicate, result.Reason)
		}
	}

	assert.Equal(t, 4, admitted)
	assert.Len(t, canonical, 4)
}
