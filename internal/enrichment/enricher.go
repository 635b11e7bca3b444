package enrichment

import (
	"context"
	"fmt"
	"time"

	"github.com/spacesedan/trendflow/internal/dedup"
	"github.com/spacesedan/trendflow/internal/metrics"
	"github.com/spacesedan/trendflow/internal/models"
	"github.com/spacesedan/trendflow/internal/normalize"
	"github.com/spacesedan/trendflow/internal/signals"
)

// minTextLength rejects posts whose normalized text is too short to carry
// any signal worth enriching.
const minTextLength = 10

type Status int

const (
	StatusOK Status = iota
	StatusSkipped
	StatusFailed
)

const (
	ReasonMalformed = "malformed"
	ReasonTooShort  = "too_short"
	ReasonDuplicate = "duplicate"
)

// Result is the explicit per-message outcome. Skips are intentional data
// quality filtering, failures are errors; the consuming loop counts both and
// always continues to the next message.
type Result struct {
	Status Status
	Reason string
	Err    error
	Post   *models.SocialPost
}

func skipped(reason string) Result {
	return Result{Status: StatusSkipped, Reason: reason}
}

type Enricher struct {
	gate      *dedup.Gate
	collector metrics.Collector
}

func NewEnricher(gate *dedup.Gate, collector metrics.Collector) *Enricher {
	if collector == nil {
		collector = metrics.Noop{}
	}
	return &Enricher{gate: gate, collector: collector}
}

// Process runs one raw message through normalize → dedup → signal extraction
// and assembles the enriched record. Each message is isolated: a panic in
// any derivation becomes a failed Result, never a crashed worker.
func (e *Enricher) Process(ctx context.Context, raw models.RawMessage) (result Result) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			result = Result{Status: StatusFailed, Err: fmt.Errorf("panic during enrichment: %v", r)}
		}
		e.collector.ProcessingDuration(time.Since(start))
	}()

	if raw.PostID == "" || raw.CreatedAt.IsZero() {
		return skipped(ReasonMalformed)
	}

	normalized := normalize.Text(raw.Text)
	if len(normalized) < minTextLength {
		return skipped(ReasonTooShort)
	}

	canonicalID := dedup.CanonicalID(raw.Platform, normalized, raw.UserID, raw.CreatedAt)
	if !e.gate.Admit(ctx, canonicalID) {
		return skipped(ReasonDuplicate)
	}

	language := signals.DetectLanguage(normalized)
	sentimentScore, sentimentLabel := signals.AnalyzeSentiment(normalized)

	post := &models.SocialPost{
		Platform:       raw.Platform,
		PostID:         raw.PostID,
		CanonicalID:    canonicalID,
		CreatedAt:      raw.CreatedAt,
		IngestTS:       time.Now().UTC(),
		UserID:         raw.UserID,
		UserName:       raw.UserName,
		UserFollowers:  raw.UserFollowers,
		Text:           normalized,
		Language:       language,
		SentimentScore: sentimentScore,
		SentimentLabel: sentimentLabel,
		Keywords:       signals.ExtractKeywords(normalized, signals.MaxKeywords),
		Region:         signals.InferRegion(raw.UserLocation, language),
		BotScore:       signals.BotScore(normalized, raw.UserName, raw.UserFollowers),
		Engagement:     raw.Engagement,
		Raw:            raw.Raw,
	}

	return Result{Status: StatusOK, Post: post}
}
