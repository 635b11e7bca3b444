package signals

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractKeywords(t *testing.T) {
	t.Run("short text yields nothing", func(t *testing.T) {
		assert.Nil(t, ExtractKeywords("tiny post", MaxKeywords))
	})

	t.Run("empty text yields nothing", func(t *testing.T) {
		assert.Nil(t, ExtractKeywords("", MaxKeywords))
	})

	t.Run("extracts content phrases", func(t *testing.T) {
		keywords := ExtractKeywords(
			"the new machine learning framework makes distributed training much faster", MaxKeywords)

		assert.NotEmpty(t, keywords)
		assert.Contains(t, keywords, "machine learning framework")
	})

	t.Run("stop words never appear as keywords", func(t *testing.T) {
		keywords := ExtractKeywords(
			"the server and the client are both failing under heavy production load", MaxKeywords)

		for _, kw := range keywords {
			assert.NotEqual(t, "the", kw)
			assert.NotEqual(t, "and", kw)
			assert.NotEqual(t, "are", kw)
		}
	})

	t.Run("keywords are lowercase", func(t *testing.T) {
		keywords := ExtractKeywords(
			"Kubernetes Cluster Autoscaling Broke Our Production Deployment Again", MaxKeywords)

		for _, kw := range keywords {
			assert.Equal(t, kw, stringsToLower(kw))
		}
	})

	t.Run("respects max keywords", func(t *testing.T) {
		text := "databases networking compilers observability caching sharding batching " +
			"indexing clustering streaming partitioning replication encryption hashing"
		keywords := ExtractKeywords(text, 3)
		assert.LessOrEqual(t, len(keywords), 3)
	})

	t.Run("no phrases shorter than three characters", func(t *testing.T) {
		keywords := ExtractKeywords("go is ok but c is faster than js in some niche benchmark", MaxKeywords)
		for _, kw := range keywords {
			assert.Greater(t, len(kw), 2)
		}
	})

	t.Run("deterministic ordering", func(t *testing.T) {
		text := "streaming ingestion pipeline handles duplicate submissions across platform boundaries"
		first := ExtractKeywords(text, MaxKeywords)
		for i := 0; i < 20; i++ {
			assert.Equal(t, first, ExtractKeywords(text, MaxKeywords))
		}
	})
}

func stringsToLower(s string) string {
	out := []rune(s)
	for i, r := range out {
		if r >= 'A' && r <= 'Z' {
			out[i] = r + 32
		}
	}
	return string(out)
}
