package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/opensearch-project/opensearch-go/v4"
	"github.com/opensearch-project/opensearch-go/v4/opensearchapi"

	"github.com/spacesedan/trendflow/internal/models"
)

const (
	POSTS_INDEX_PREFIX  = "socialposts-v1"
	POSTS_INDEX_PATTERN = "socialposts-v1-*"
	TOPICS_INDEX        = "topics-v1"
)

var (
	opensearchInstance Opensearch
	openseachOnce      sync.Once
)

// Opensearch is the document store: system of record for enriched posts and
// topic clusters. All writes are idempotent upserts keyed by canonical_id or
// topic_id.
type Opensearch struct {
	Client *opensearch.Client
}

func GetOpensearchClient(ctx context.Context) Opensearch {
	openseachOnce.Do(func() {
		appEnv := os.Getenv("APP_ENV")

		var cfg opensearch.Config

		if appEnv == "prod" {
			awsCfg, err := config.LoadDefaultConfig(ctx)
			if err != nil {
				log.Fatalf("failed to load AWS config: %v", err)
			}

			signer := v4.NewSigner()
			creds := awsCfg.Credentials
			region := awsCfg.Region

			cfg = opensearch.Config{
				Addresses: []string{os.Getenv("AWS_OPENSEARCH_ENDPOINT")},
				Transport: NewSigV4Transport(creds, signer, region, "es"),
			}

		} else {

			if os.Getenv("OPENSEARCH_ENDPOINT") == "" || os.Getenv("OPENSEARCH_PASSWORD") == "" {
				log.Fatal("Missing credentials for opensearch")
			}
			cfg = opensearch.Config{
				Addresses: []string{os.Getenv("OPENSEARCH_ENDPOINT")},
				Password:  os.Getenv("OPENSEARCH_PASSWORD"),
			}
		}

		client, err := opensearch.NewClient(cfg)
		if err != nil {
			log.Fatalf("failed to initialize OpenSearch Client: %v", err.Error())
		}

		opensearchInstance = Opensearch{
			client,
		}
	})
	return opensearchInstance
}

type sigV4Transport struct {
	credentials aws.CredentialsProvider
	signer      *v4.Signer
	region      string
	service     string
	next        http.RoundTripper
}

func NewSigV4Transport(creds aws.CredentialsProvider, signer *v4.Signer, region string, service string) http.RoundTripper {
	return &sigV4Transport{
		credentials: creds,
		signer:      signer,
		region:      region,
		service:     service,
		next:        http.DefaultTransport,
	}
}

func (t *sigV4Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	creds, err := t.credentials.Retrieve(context.Background())
	if err != nil {
		return nil, err
	}

	signedReq := req.Clone(req.Context())

	signedReq.Header.Del("Authorization")

	err = t.signer.SignHTTP(
		context.Background(),
		creds,
		signedReq,
		v4.GetPayloadHash(req.Context()),
		t.service,
		t.region,
		time.Now(),
	)
	if err != nil {
		return nil, err
	}

	return t.next.RoundTrip(signedReq)
}

func (o Opensearch) IsHealthy(ctx context.Context) bool {
	req := opensearchapi.ClusterHealthReq{}
	res, err := o.Client.Do(ctx, req, nil)
	if err != nil {
		return false
	}
	defer res.Body.Close()

	if res.IsError() {
		return false
	}

	return res.StatusCode == http.StatusOK
}

// PostsIndexFor returns the day partition a post lands in, derived from its
// creation timestamp: socialposts-v1-YYYY.MM.DD.
func PostsIndexFor(ts time.Time) string {
	return fmt.Sprintf("%s-%s", POSTS_INDEX_PREFIX, ts.UTC().Format("2006.01.02"))
}

type bulkItemResult struct {
	Status int             `json:"status"`
	Error  json.RawMessage `json:"error,omitempty"`
}

type bulkResponse struct {
	Errors bool                        `json:"errors"`
	Items  []map[string]bulkItemResult `json:"items"`
}

// UpsertPosts bulk-writes enriched posts keyed by canonical_id, grouped by
// day partition. Replaying the same post overwrites the same document, so
// retries and duplicate deliveries are safe. Per-document rejections are
// counted, never fatal.
func (o Opensearch) UpsertPosts(ctx context.Context, posts []models.SocialPost) (int, int, error) {
	if len(posts) == 0 {
		return 0, 0, nil
	}

	var body bytes.Buffer
	for _, post := range posts {
		meta := map[string]map[string]string{
			"index": {
				"_index": PostsIndexFor(post.CreatedAt),
				"_id":    post.CanonicalID,
			},
		}
		metaJSON, err := json.Marshal(meta)
		if err != nil {
			return 0, 0, fmt.Errorf("opensearch: failed to marshal bulk action: %w", err)
		}
		docJSON, err := json.Marshal(post)
		if err != nil {
			return 0, 0, fmt.Errorf("opensearch: failed to marshal post %s: %w", post.CanonicalID, err)
		}
		body.Write(metaJSON)
		body.WriteByte('\n')
		body.Write(docJSON)
		body.WriteByte('\n')
	}

	return o.bulk(ctx, body.Bytes())
}

// IndexTopics bulk-writes topic clusters keyed by topic_id.
func (o Opensearch) IndexTopics(ctx context.Context, topics []models.Topic) (int, int, error) {
	if len(topics) == 0 {
		return 0, 0, nil
	}

	var body bytes.Buffer
	for _, topic := range topics {
		meta := map[string]map[string]string{
			"index": {
				"_index": TOPICS_INDEX,
				"_id":    topic.TopicID,
			},
		}
		metaJSON, err := json.Marshal(meta)
		if err != nil {
			return 0, 0, fmt.Errorf("opensearch: failed to marshal bulk action: %w", err)
		}
		docJSON, err := json.Marshal(topic)
		if err != nil {
			return 0, 0, fmt.Errorf("opensearch: failed to marshal topic %s: %w", topic.TopicID, err)
		}
		body.Write(metaJSON)
		body.WriteByte('\n')
		body.Write(docJSON)
		body.WriteByte('\n')
	}

	return o.bulk(ctx, body.Bytes())
}

func (o Opensearch) bulk(ctx context.Context, body []byte) (int, int, error) {
	req := opensearchapi.BulkReq{
		Body: bytes.NewReader(body),
	}

	var parsed bulkResponse
	res, err := o.Client.Do(ctx, req, &parsed)
	if err != nil {
		return 0, 0, fmt.Errorf("opensearch: bulk request failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return 0, 0, fmt.Errorf("opensearch: bulk error: %s", res.Status())
	}

	written, failed := 0, 0
	for _, item := range parsed.Items {
		for _, result := range item {
			if result.Status >= 200 && result.Status < 300 {
				written++
			} else {
				failed++
			}
		}
	}

	if failed > 0 {
		slog.Warn("[OpenSearchClient] Some documents were rejected",
			slog.Int("written", written),
			slog.Int("failed", failed))
	}

	return written, failed, nil
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			Source models.SocialPost `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// SearchRecentPosts pulls every enriched post created within the trailing
// window, capped at maxDocs.
func (o Opensearch) SearchRecentPosts(ctx context.Context, window time.Duration, maxDocs int) ([]models.SocialPost, error) {
	cutoff := time.Now().UTC().Add(-window)

	query := map[string]any{
		"size": maxDocs,
		"query": map[string]any{
			"range": map[string]any{
				"created_at": map[string]any{
					"gte": cutoff.Format(time.RFC3339),
				},
			},
		},
		"sort": []map[string]any{
			{"created_at": map[string]string{"order": "desc"}},
		},
	}

	payload, err := json.Marshal(query)
	if err != nil {
		return nil, fmt.Errorf("opensearch: failed to marshal search query: %w", err)
	}

	req := opensearchapi.SearchReq{
		Indices: []string{POSTS_INDEX_PATTERN},
		Body:    strings.NewReader(string(payload)),
	}

	var parsed searchResponse
	res, err := o.Client.Do(ctx, req, &parsed)
	if err != nil {
		return nil, fmt.Errorf("opensearch: search failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("opensearch: search error: %s", res.Status())
	}

	posts := make([]models.SocialPost, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		posts = append(posts, hit.Source)
	}
	return posts, nil
}

type updateByQueryResponse struct {
	Updated int64 `json:"updated"`
}

// AssignTopic writes topicID back onto every member post, keyed by the
// platform-native post id, via a scripted partial update.
func (o Opensearch) AssignTopic(ctx context.Context, topicID string, postIDs []string) (int64, error) {
	if len(postIDs) == 0 {
		return 0, nil
	}

	body := map[string]any{
		"query": map[string]any{
			"terms": map[string]any{
				"post_id": postIDs,
			},
		},
		"script": map[string]any{
			"source": "ctx._source.topic_id = params.topic_id",
			"lang":   "painless",
			"params": map[string]string{"topic_id": topicID},
		},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return 0, fmt.Errorf("opensearch: failed to marshal update request: %w", err)
	}

	req := opensearchapi.UpdateByQueryReq{
		Indices: []string{POSTS_INDEX_PATTERN},
		Body:    strings.NewReader(string(payload)),
	}

	var parsed updateByQueryResponse
	res, err := o.Client.Do(ctx, req, &parsed)
	if err != nil {
		return 0, fmt.Errorf("opensearch: update by query failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return 0, fmt.Errorf("opensearch: update by query error: %s", res.Status())
	}

	return parsed.Updated, nil
}
