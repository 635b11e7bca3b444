package dedup

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// BucketWidth absorbs near-simultaneous reposts of identical content from
// the same author while keeping genuinely repeated content hours apart
// distinct. Fixed by design; widening it collapses legitimate reposts.
const BucketWidth = 5 * time.Minute

// CanonicalID is the content fingerprint used as both the dedup key and the
// document store primary key. It is a deterministic function of platform,
// normalized text, author and the 5-minute creation bucket: two messages
// sharing all four must collide.
func CanonicalID(platform, normalizedText, userID string, createdAt time.Time) string {
	bucket := TimeBucket(createdAt).Format(time.RFC3339)
	content := fmt.Sprintf("%s:%s:%s:%s", platform, normalizedText, userID, bucket)
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// TimeBucket truncates ts down to the nearest 5-minute boundary in UTC.
func TimeBucket(ts time.Time) time.Time {
	ts = ts.UTC()
	minute := (ts.Minute() / 5) * 5
	return time.Date(ts.Year(), ts.Month(), ts.Day(), ts.Hour(), minute, 0, 0, time.UTC)
}
