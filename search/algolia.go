package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	defaultBatchSize  = 1000
	defaultMaxRetries = 3
	defaultRetryDelay = 500 * time.Millisecond
	defaultTimeout    = 30 * time.Second
)

// AlgoliaConfig configures the REST client. AppID and APIKey are required;
// BaseURL overrides the derived https://<app>.algolia.net host, mainly for
// tests.
type AlgoliaConfig struct {
	AppID      string
	APIKey     string
	BaseURL    string
	BatchSize  int
	MaxRetries int
	RetryDelay time.Duration
	HTTPClient *http.Client
}

// AlgoliaClient talks to the Algolia REST API directly. Only the two write
// operations the migration needs are implemented: batch upsert and clear.
type AlgoliaClient struct {
	appID      string
	apiKey     string
	baseURL    string
	batchSize  int
	maxRetries int
	retryDelay time.Duration
	httpClient *http.Client
}

var _ IndexClient = (*AlgoliaClient)(nil)

// NewAlgoliaClient validates the configuration and returns a ready client.
func NewAlgoliaClient(cfg AlgoliaConfig) (*AlgoliaClient, error) {
	if cfg.AppID == "" {
		return nil, errors.New("search: algolia app id is required")
	}
	if cfg.APIKey == "" {
		return nil, errors.New("search: algolia api key is required")
	}

	client := &AlgoliaClient{
		appID:      cfg.AppID,
		apiKey:     cfg.APIKey,
		baseURL:    cfg.BaseURL,
		batchSize:  cfg.BatchSize,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
		httpClient: cfg.HTTPClient,
	}
	if client.baseURL == "" {
		client.baseURL = fmt.Sprintf("https://%s.algolia.net", cfg.AppID)
	}
	if client.batchSize <= 0 {
		client.batchSize = defaultBatchSize
	}
	if client.maxRetries <= 0 {
		client.maxRetries = defaultMaxRetries
	}
	if client.retryDelay <= 0 {
		client.retryDelay = defaultRetryDelay
	}
	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return client, nil
}

type batchOperation struct {
	Action string         `json:"action"`
	Body   map[string]any `json:"body"`
}

type batchRequest struct {
	Requests []batchOperation `json:"requests"`
}

// SaveRecords upserts records through the batch endpoint in chunks.
func (c *AlgoliaClient) SaveRecords(ctx context.Context, index string, records []Record) error {
	if index == "" {
		return errors.New("search: index name is required")
	}

	for start := 0; start < len(records); start += c.batchSize {
		end := start + c.batchSize
		if end > len(records) {
			end = len(records)
		}

		operations := make([]batchOperation, 0, end-start)
		for _, record := range records[start:end] {
			body, err := record.Map()
			if err != nil {
				return err
			}
			operations = append(operations, batchOperation{
				Action: "updateObject",
				Body:   body,
			})
		}

		endpoint := fmt.Sprintf("%s/1/indexes/%s/batch", c.baseURL, url.PathEscape(index))
		if err := c.post(ctx, endpoint, batchRequest{Requests: operations}); err != nil {
			return err
		}
	}
	return nil
}

// ClearIndex removes all records from the index.
func (c *AlgoliaClient) ClearIndex(ctx context.Context, index string) error {
	if index == "" {
		return errors.New("search: index name is required")
	}
	endpoint := fmt.Sprintf("%s/1/indexes/%s/clear", c.baseURL, url.PathEscape(index))
	return c.post(ctx, endpoint, struct{}{})
}

// post sends the payload, retrying transient failures (network errors, 429
// and 5xx responses) with a linear backoff.
func (c *AlgoliaClient) post(ctx context.Context, endpoint string, payload any) error {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("search: marshal request: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt-1) * c.retryDelay):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
		if err != nil {
			return fmt.Errorf("search: create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Algolia-Application-Id", c.appID)
		req.Header.Set("X-Algolia-API-Key", c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("search: do request: %w", err)
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode < 300 {
			return nil
		}

		if readErr != nil {
			body = nil
		}
		lastErr = fmt.Errorf("search: algolia responded %d: %s", resp.StatusCode, bytes.TrimSpace(body))

		if resp.StatusCode != http.StatusTooManyRequests && resp.StatusCode < 500 {
			return lastErr
		}
	}
	return lastErr
}
