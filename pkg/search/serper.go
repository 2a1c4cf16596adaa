package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultSerperURL = "https://google.serper.dev/search"

// SerperProvider implements Provider against the Serper.dev search API.
type SerperProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

type serperRequest struct {
	Query string `json:"q"`
	Num   int    `json:"num,omitempty"`
}

type serperResponse struct {
	Organic []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"organic"`
}

func NewSerperProvider(apiKey string) *SerperProvider {
	return &SerperProvider{
		apiKey:  apiKey,
		baseURL: defaultSerperURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (p *SerperProvider) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	var results []Result
	var err error
	// One retry covers the transient failures the search API is prone to.
	for attempt := 0; attempt < 2; attempt++ {
		results, err = p.search(ctx, query, limit)
		if err == nil {
			return results, nil
		}
		if ctx.Err() != nil {
			break
		}
	}
	return nil, err
}

func (p *SerperProvider) search(ctx context.Context, query string, limit int) ([]Result, error) {
	reqBody := serperRequest{
		Query: query,
		Num:   limit,
	}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", p.baseURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-KEY", p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("serper api error (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var serperResp serperResponse
	if err := json.Unmarshal(bodyBytes, &serperResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	results := make([]Result, 0, len(serperResp.Organic))
	for _, item := range serperResp.Organic {
		result := Result{
			Title:       item.Title,
			URL:         item.Link,
			Description: item.Snippet,
		}
		if item.Snippet != "" {
			result.Snippets = []string{item.Snippet}
		}
		results = append(results, result)
	}

	return results, nil
}

var _ Provider = (*SerperProvider)(nil)
