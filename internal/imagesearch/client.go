package imagesearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/workhub-io/assistant/internal/config"
)

// Searcher finds a header image for a query. An empty URL with a nil error
// means no image was found; callers treat any failure as non-fatal.
type Searcher interface {
	Search(ctx context.Context, query string) (string, error)
}

// Client is a client for the image search provider API
type Client struct {
	cfg    config.ImageSearchConfig
	client *http.Client
}

// NewClient creates a new image search Client
func NewClient(cfg config.ImageSearchConfig) *Client {
	return &Client{
		cfg:    cfg,
		client: &http.Client{},
	}
}

// Search returns the URL of the first image matching query, or "" when the
// provider has no match.
func (c *Client) Search(ctx context.Context, query string) (string, error) {
	if c.cfg.URL == "" {
		return "", nil
	}

	u := fmt.Sprintf("%s?q=%s", c.cfg.URL, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.cfg.APIKey))
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var body struct {
		Results []struct {
			URL string `json:"url"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}
	if len(body.Results) == 0 {
		return "", nil
	}
	return body.Results[0].URL, nil
}
