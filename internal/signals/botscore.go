package signals

import (
	"strings"

	"github.com/spacesedan/trendflow/internal/textutil"
)

const (
	shortTextPenalty    = 0.3
	noFollowersPenalty  = 0.2
	botNamePenalty      = 0.5
	lowDiversityPenalty = 0.3

	minBotTextLength  = 10
	minDistinctTokens = 5
)

var botNamePatterns = []string{"bot", "auto", "spam"}

// BotScore is an additive, explainable bot-likelihood heuristic in [0, 1].
// The individual penalties and the cap are load-bearing: downstream consumers
// and tests depend on these exact values.
func BotScore(text, userName string, userFollowers int) float64 {
	score := 0.0

	if len(text) < minBotTextLength {
		score += shortTextPenalty
	}

	if userFollowers == 0 {
		score += noFollowersPenalty
	}

	if userName != "" {
		lowered := strings.ToLower(userName)
		for _, pattern := range botNamePatterns {
			if strings.Contains(lowered, pattern) {
				score += botNamePenalty
				break
			}
		}
	}

	if text != "" {
		distinct := make(map[string]struct{})
		for _, token := range textutil.Tokenize(text) {
			distinct[token] = struct{}{}
		}
		if len(distinct) < minDistinctTokens {
			score += lowDiversityPenalty
		}
	}

	if score > 1.0 {
		return 1.0
	}
	return score
}
