package pexels

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/vbonduro/foodlens/internal/lookup"
)

const defaultBaseURL = "https://api.pexels.com/v1"

type PexelsFinder struct {
	apiKey  string
	client  *http.Client
	baseURL string
}

func NewPexelsFinder(apiKey string) *PexelsFinder {
	return &PexelsFinder{
		apiKey:  apiKey,
		client:  &http.Client{},
		baseURL: defaultBaseURL,
	}
}

type searchResponse struct {
	Photos []struct {
		Src struct {
			Medium string `json:"medium"`
		} `json:"src"`
	} `json:"photos"`
}

// FindPhoto returns the medium-size URL of the first search hit.
func (p *PexelsFinder) FindPhoto(ctx context.Context, query string) (string, error) {
	if p.apiKey == "" {
		return "", lookup.ErrMissingAPIKey
	}

	q := url.Values{}
	q.Set("query", query)
	q.Set("per_page", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call pexels: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("pexels returned status %d", resp.StatusCode)
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(body.Photos) == 0 {
		return "", nil
	}
	return body.Photos[0].Src.Medium, nil
}
