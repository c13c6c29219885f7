package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/promptly-dev/promptly/pkg/model"
)

const tavilyBaseURL = "https://api.tavily.com"

// SearchResult is one hit from the web search provider
type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
}

// SearchResponse holds search hits in provider rank order
type SearchResponse struct {
	Results []SearchResult `json:"results"`
}

// Search is the boundary to the web search provider
type Search interface {
	Search(ctx context.Context, query string, maxResults int) (*SearchResponse, error)
}

type tavilyClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

type TavilyOption func(*tavilyClient)

// WithTavilyBaseURL overrides the API endpoint, mainly for tests
func WithTavilyBaseURL(baseURL string) TavilyOption {
	return func(t *tavilyClient) {
		t.baseURL = baseURL
	}
}

// NewTavily creates a Tavily search client. A client created without an
// API key is valid and always returns an empty result set, so a partially
// configured process still starts.
func NewTavily(apiKey string, opts ...TavilyOption) Search {
	t := &tavilyClient{
		apiKey:  apiKey,
		baseURL: tavilyBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

type tavilySearchRequest struct {
	Query       string `json:"query"`
	SearchDepth string `json:"search_depth"`
	MaxResults  int    `json:"max_results"`
}

func (t *tavilyClient) Search(ctx context.Context, query string, maxResults int) (*SearchResponse, error) {
	if t.apiKey == "" {
		return &SearchResponse{}, nil
	}

	body, err := json.Marshal(tavilySearchRequest{
		Query:       query,
		SearchDepth: "basic",
		MaxResults:  maxResults,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to marshal search request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create search request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+t.apiKey)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(model.ErrSearchUnavailable, "failed to call search API",
			goerr.Value("cause", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, goerr.Wrap(model.ErrSearchUnavailable, "search API returned error",
			goerr.Value("status", resp.StatusCode),
			goerr.Value("body", string(respBody)))
	}

	var result SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, goerr.Wrap(err, "failed to decode search response")
	}

	return &result, nil
}
