package opensearch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/opensearch-project/opensearch-go/v2"
	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"

	"github.com/workhub/paysnap/infra/config"
)

const indexPrefix = "paysnap-payments"

// Client wraps the OpenSearch client used for payment event auditing
type Client struct {
	client  *opensearch.Client
	enabled bool
}

// NewClient creates a new OpenSearch client from the application configuration
func NewClient(cfg *config.AppConfig) (*Client, error) {
	opensearchConfig := opensearch.Config{
		Addresses:     []string{cfg.OpenSearchURL},
		MaxRetries:    3,
		RetryOnStatus: []int{502, 503, 504, 429},
		RetryBackoff: func(i int) time.Duration {
			return time.Duration(i) * 100 * time.Millisecond
		},
	}

	if cfg.OpenSearchUser != "" && cfg.OpenSearchPass != "" {
		opensearchConfig.Username = cfg.OpenSearchUser
		opensearchConfig.Password = cfg.OpenSearchPass
	}

	client, err := opensearch.NewClient(opensearchConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create opensearch client: %w", err)
	}

	osClient := &Client{client: client, enabled: true}

	if err := osClient.Ping(); err != nil {
		return nil, fmt.Errorf("opensearch not reachable: %w", err)
	}

	return osClient, nil
}

// IsEnabled reports whether event indexing is active
func (c *Client) IsEnabled() bool {
	return c != nil && c.enabled
}

// EventIndexName returns the index events are written to, partitioned by month
func (c *Client) EventIndexName(t time.Time) string {
	return fmt.Sprintf("%s-events-%s", indexPrefix, t.UTC().Format("2006.01"))
}

func (c *Client) Ping(reqCtx ...context.Context) error {
	ctx := context.Background()
	if len(reqCtx) > 0 {
		ctx = reqCtx[0]
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req := opensearchapi.PingRequest{}
	res, err := req.Do(ctx, c.client)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("ping returned %s", strings.TrimSpace(res.Status()))
	}
	return nil
}

// index writes a single JSON document
func (c *Client) index(ctx context.Context, indexName, documentID string, body *strings.Reader) error {
	req := opensearchapi.IndexRequest{
		Index:      indexName,
		DocumentID: documentID,
		Body:       body,
	}

	res, err := req.Do(ctx, c.client)
	if err != nil {
		return fmt.Errorf("failed to index document: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("indexing failed with status %d", res.StatusCode)
	}
	return nil
}
