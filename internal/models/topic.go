package models

import (
	"encoding/json"
	"math"
	"time"
)

// VelocityNew is the serialized sentinel for a topic with no matched
// predecessor: JSON cannot carry +Inf, so anything at or above this value
// means "new topic, unbounded growth".
const VelocityNew = 1e9

// Topic is one cluster produced by a single extraction run. Identity across
// runs is heuristic (keyword overlap), never a foreign key.
type Topic struct {
	TopicID      string       `json:"topic_id"`
	Keywords     []string     `json:"keywords"`
	TopKeywords  []string     `json:"top_keywords"`
	Volume       int          `json:"volume"`
	Velocity     float64      `json:"velocity"`
	AvgSentiment float64      `json:"avg_sentiment"`
	SamplePosts  []SamplePost `json:"sample_posts"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`

	// PostIDs is carried between extraction and topic writeback,
	// never stored on the topic document.
	PostIDs []string `json:"-"`
}

type SamplePost struct {
	PostID         string  `json:"post_id"`
	Text           string  `json:"text"`
	SentimentScore float64 `json:"sentiment_score"`
}

func (t Topic) MarshalJSON() ([]byte, error) {
	type alias Topic
	a := alias(t)
	if math.IsInf(a.Velocity, 1) || a.Velocity > VelocityNew {
		a.Velocity = VelocityNew
	}
	return json.Marshal(a)
}
