package kafka_client

import "time"

const (
	QUEUE_RAW_POSTS      = "raw-posts"      // raw messages from the platform fetch adapters
	QUEUE_ENRICHED_POSTS = "enriched-posts" // deduplicated, signal-extracted posts awaiting indexing
)

const (
	MAX_RETRIES = 5
	RETRY_DELAY = 2 * time.Second

	QUEUE_DEPTH_SAMPLE_INTERVAL = 15 * time.Second
)
