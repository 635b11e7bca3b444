package models

import "time"

// RawMessage is the transient payload produced by a platform fetch adapter
// and moved over the raw-posts queue. It never touches durable storage.
type RawMessage struct {
	Platform      string         `json:"platform"`
	PostID        string         `json:"post_id"`
	CreatedAt     time.Time      `json:"created_at"`
	UserID        string         `json:"user_id"`
	UserName      string         `json:"user_name"`
	UserFollowers int            `json:"user_followers"`
	UserLocation  string         `json:"user_location,omitempty"`
	Text          string         `json:"text"`
	Engagement    Engagement     `json:"engagement"`
	Raw           map[string]any `json:"raw,omitempty"`
}

type Engagement struct {
	Score    int `json:"score"`
	Comments int `json:"comments"`
	Likes    int `json:"likes"`
}
