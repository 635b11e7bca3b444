package topics

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/spacesedan/trendflow/internal/metrics"
	"github.com/spacesedan/trendflow/internal/models"
)

const (
	// Posts shorter than this carry too little signal to cluster.
	MIN_CLUSTER_TEXT_LENGTH = 20
	MAX_TOPIC_KEYWORDS      = 10
	MAX_TOP_KEYWORDS        = 5
	MAX_SAMPLE_POSTS        = 5
	MAX_SAMPLE_TEXT_LENGTH  = 200
)

// TopicStore is the document-store surface the extractor needs: a windowed
// read of enriched posts, topic writes, and the topic-id writeback.
type TopicStore interface {
	SearchRecentPosts(ctx context.Context, window time.Duration, maxDocs int) ([]models.SocialPost, error)
	IndexTopics(ctx context.Context, topics []models.Topic) (int, int, error)
	AssignTopic(ctx context.Context, topicID string, postIDs []string) (int64, error)
}

// Extractor clusters a sliding window of enriched posts into topics. One run
// is a full pipeline: fetch, vectorize, cluster, summarize, persist, write
// topic ids back onto the posts.
type Extractor struct {
	store       TopicStore
	window      time.Duration
	maxClusters int
	minDocs     int
	maxFetch    int
	tracker     *VelocityTracker
	collector   metrics.Collector
}

func NewExtractor(store TopicStore, window time.Duration, maxClusters, minDocs, maxFetch int, collector metrics.Collector) *Extractor {
	if collector == nil {
		collector = metrics.Noop{}
	}
	return &Extractor{
		store:       store,
		window:      window,
		maxClusters: maxClusters,
		minDocs:     minDocs,
		maxFetch:    maxFetch,
		tracker:     NewVelocityTracker(nil),
		collector:   collector,
	}
}

// Extract runs one clustering pass. A window with too few usable posts is a
// clean no-op, not an error.
func (e *Extractor) Extract(ctx context.Context) error {
	runID := uuid.NewString()
	logger := slog.With(slog.String("run_id", runID))

	posts, err := e.store.SearchRecentPosts(ctx, e.window, e.maxFetch)
	if err != nil {
		e.collector.Error("topics", "search_error")
		return fmt.Errorf("failed to fetch window: %w", err)
	}

	usable := make([]models.SocialPost, 0, len(posts))
	for _, p := range posts {
		if len(p.Text) >= MIN_CLUSTER_TEXT_LENGTH {
			usable = append(usable, p)
		}
	}
	if len(usable) < e.minDocs {
		logger.Info("[TopicExtractor] Not enough posts in window, skipping run",
			slog.Int("usable", len(usable)),
			slog.Int("min_docs", e.minDocs))
		return nil
	}

	k := len(usable) / e.minDocs
	if k > e.maxClusters {
		k = e.maxClusters
	}
	if k < 2 {
		logger.Info("[TopicExtractor] Window too small to form clusters, skipping run",
			slog.Int("usable", len(usable)))
		return nil
	}

	docs := make([]string, len(usable))
	for i, p := range usable {
		docs[i] = p.Text
	}
	vectorizer, rows := Vectorize(docs)
	if len(vectorizer.Terms) == 0 {
		logger.Info("[TopicExtractor] Window produced an empty vocabulary, skipping run")
		return nil
	}

	assignments, centroids := Cluster(rows, k)

	topics := e.buildTopics(usable, assignments, centroids, vectorizer)
	if len(topics) == 0 {
		logger.Info("[TopicExtractor] No cluster met the minimum size, skipping run")
		return nil
	}

	summaries := make([]topicSummary, len(topics))
	for i := range topics {
		topics[i].Velocity = e.tracker.Velocity(topics[i].TopKeywords, topics[i].Volume)
		summaries[i] = topicSummary{topKeywords: topics[i].TopKeywords, volume: topics[i].Volume}
	}
	e.tracker.Remember(summaries)

	written, failed, err := e.store.IndexTopics(ctx, topics)
	if err != nil {
		e.collector.Error("topics", "index_error")
		return fmt.Errorf("failed to index topics: %w", err)
	}
	if failed > 0 {
		logger.Warn("[TopicExtractor] Some topics failed to index",
			slog.Int("failed", failed))
	}
	e.collector.TopicsExtracted(written)

	for _, topic := range topics {
		updated, err := e.store.AssignTopic(ctx, topic.TopicID, topic.PostIDs)
		if err != nil {
			// The topic document itself is already stored; the writeback
			// catches up on the next run when the posts recluster.
			logger.Error("[TopicExtractor] Failed to assign topic to posts",
				slog.String("topic_id", topic.TopicID),
				slog.String("error", err.Error()))
			e.collector.Error("topics", "assign_error")
			continue
		}
		logger.Debug("[TopicExtractor] Assigned topic",
			slog.String("topic_id", topic.TopicID),
			slog.Int64("posts_updated", updated))
	}

	logger.Info("[TopicExtractor] Extraction run complete",
		slog.Int("posts", len(usable)),
		slog.Int("clusters", k),
		slog.Int("topics", len(topics)))
	return nil
}

func (e *Extractor) buildTopics(posts []models.SocialPost, assignments []int, centroids [][]float64, v *Vectorizer) []models.Topic {
	grouped := make(map[int][]models.SocialPost)
	for i, c := range assignments {
		grouped[c] = append(grouped[c], posts[i])
	}

	now := time.Now().UTC()
	clusters := make([]int, 0, len(grouped))
	for c := range grouped {
		clusters = append(clusters, c)
	}
	sort.Ints(clusters)

	topics := make([]models.Topic, 0, len(clusters))
	for _, c := range clusters {
		members := grouped[c]
		if len(members) < e.minDocs {
			continue
		}

		keywords := centroidKeywords(centroids[c], v.Terms, MAX_TOPIC_KEYWORDS)

		var sentimentSum float64
		postIDs := make([]string, len(members))
		for i, p := range members {
			sentimentSum += p.SentimentScore
			postIDs[i] = p.PostID
		}

		samples := make([]models.SamplePost, 0, MAX_SAMPLE_POSTS)
		for _, p := range members[:min(len(members), MAX_SAMPLE_POSTS)] {
			samples = append(samples, models.SamplePost{
				PostID:         p.PostID,
				Text:           truncate(p.Text, MAX_SAMPLE_TEXT_LENGTH),
				SentimentScore: p.SentimentScore,
			})
		}

		topics = append(topics, models.Topic{
			TopicID:      fmt.Sprintf("topic_%d_%d", c, now.Unix()),
			Keywords:     keywords,
			TopKeywords:  keywords[:min(len(keywords), MAX_TOP_KEYWORDS)],
			Volume:       len(members),
			AvgSentiment: sentimentSum / float64(len(members)),
			SamplePosts:  samples,
			CreatedAt:    now,
			UpdatedAt:    now,
			PostIDs:      postIDs,
		})
	}
	return topics
}

// centroidKeywords ranks vocabulary terms by centroid weight.
func centroidKeywords(centroid []float64, terms []string, limit int) []string {
	idx := make([]int, len(centroid))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool {
		if centroid[idx[a]] != centroid[idx[b]] {
			return centroid[idx[a]] > centroid[idx[b]]
		}
		return terms[idx[a]] < terms[idx[b]]
	})

	keywords := make([]string, 0, limit)
	for _, i := range idx {
		if centroid[i] <= 0 || len(keywords) == limit {
			break
		}
		keywords = append(keywords, terms[i])
	}
	return keywords
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
