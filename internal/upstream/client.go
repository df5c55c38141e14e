package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/media-lookup-api/internal/models"
	"github.com/noah-isme/media-lookup-api/pkg/config"
	appErrors "github.com/noah-isme/media-lookup-api/pkg/errors"
)

// searchExpression restricts the listing to the resource kinds the media
// library serves.
const searchExpression = "resource_type:image OR resource_type:video OR resource_type:raw"

// Client talks to the upstream media account's admin search endpoint. The
// endpoint is rate limited, so only the ingest run calls it.
type Client struct {
	cfg    config.UpstreamConfig
	http   *http.Client
	logger *zap.Logger
}

// NewClient constructs an upstream client with a timeout-bounded transport.
func NewClient(cfg config.UpstreamConfig, logger *zap.Logger) *Client {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		cfg:    cfg,
		logger: logger,
		http: &http.Client{
			Timeout: timeout,
		},
	}
}

type searchRequest struct {
	Expression string `json:"expression"`
	MaxResults int    `json:"max_results"`
	NextCursor string `json:"next_cursor,omitempty"`
	WithField  string `json:"with_field,omitempty"`
}

type searchResource struct {
	PublicID     string   `json:"public_id"`
	ResourceType string   `json:"resource_type"`
	Format       string   `json:"format"`
	Tags         []string `json:"tags"`
	Width        int      `json:"width"`
	Height       int      `json:"height"`
	SecureURL    string   `json:"secure_url"`
}

type searchResponse struct {
	Resources  []searchResource `json:"resources"`
	NextCursor string           `json:"next_cursor"`
	TotalCount int              `json:"total_count"`
}

// ListPage fetches one page of the upstream listing. An empty cursor starts
// from the beginning; the returned cursor is empty once the listing is
// exhausted.
func (c *Client) ListPage(ctx context.Context, cursor string, maxResults int) ([]models.RawAsset, string, error) {
	if maxResults <= 0 {
		maxResults = c.cfg.PageSize
	}

	payload, err := json.Marshal(searchRequest{
		Expression: searchExpression,
		MaxResults: maxResults,
		NextCursor: cursor,
		WithField:  "tags",
	})
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "encode upstream search request")
	}

	url := fmt.Sprintf("%s/%s/resources/search", c.cfg.BaseURL, c.cfg.CloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "build upstream search request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.cfg.APIKey, c.cfg.APISecret)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrUpstreamUnavailable.Code, appErrors.ErrUpstreamUnavailable.Status, "upstream search call failed")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Warn("upstream search returned non-2xx",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body),
		)
		return nil, "", appErrors.New(appErrors.ErrUpstreamUnavailable.Code, appErrors.ErrUpstreamUnavailable.Status,
			fmt.Sprintf("upstream search returned status %d", resp.StatusCode))
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrUpstreamUnavailable.Code, appErrors.ErrUpstreamUnavailable.Status, "decode upstream search response")
	}

	records := make([]models.RawAsset, 0, len(parsed.Resources))
	for _, res := range parsed.Resources {
		records = append(records, models.RawAsset{
			PublicID:     res.PublicID,
			ResourceType: res.ResourceType,
			Format:       res.Format,
			Tags:         res.Tags,
			Width:        res.Width,
			Height:       res.Height,
			SecureURL:    res.SecureURL,
		})
	}

	return records, parsed.NextCursor, nil
}
