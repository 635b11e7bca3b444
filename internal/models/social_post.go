package models

import "time"

// SocialPost is the enriched record keyed by CanonicalID in the document
// store. After creation it is only ever mutated to attach a topic id.
type SocialPost struct {
	Platform       string         `json:"platform"`
	PostID         string         `json:"post_id"`
	CanonicalID    string         `json:"canonical_id"`
	CreatedAt      time.Time      `json:"created_at"`
	IngestTS       time.Time      `json:"ingest_ts"`
	UserID         string         `json:"user_id"`
	UserName       string         `json:"user_name"`
	UserFollowers  int            `json:"user_followers"`
	Text           string         `json:"text"`
	Language       string         `json:"language"`
	SentimentScore float64        `json:"sentiment_score"`
	SentimentLabel string         `json:"sentiment_label"`
	Keywords       []string       `json:"keywords"`
	Region         string         `json:"region,omitempty"`
	BotScore       float64        `json:"is_bot_score"`
	TopicID        string         `json:"topic_id,omitempty"`
	Engagement     Engagement     `json:"engagement"`
	Raw            map[string]any `json:"raw,omitempty"`
}

const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
)
