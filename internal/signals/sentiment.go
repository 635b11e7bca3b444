package signals

import (
	"github.com/jonreiter/govader"

	"github.com/spacesedan/trendflow/internal/models"
)

var analyzer = govader.NewSentimentIntensityAnalyzer()

// AnalyzeSentiment scores normalized text with VADER. The compound score is
// in [-1, 1]; empty text is neutral by definition.
func AnalyzeSentiment(text string) (float64, string) {
	if text == "" {
		return 0.0, models.SentimentNeutral
	}

	score := analyzer.PolarityScores(text).Compound
	return score, SentimentLabel(score)
}

// SentimentLabel maps a polarity score to its label. Both boundaries are
// exclusive: exactly 0.1 and exactly -0.1 are neutral.
func SentimentLabel(score float64) string {
	switch {
	case score > 0.1:
		return models.SentimentPositive
	case score < -0.1:
		return models.SentimentNegative
	default:
		return models.SentimentNeutral
	}
}
