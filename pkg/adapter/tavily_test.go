package adapter_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/promptly-dev/promptly/pkg/adapter"
	"github.com/promptly-dev/promptly/pkg/model"
)

func TestTavilySearch(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gt.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]string{
				{"title": "Fusion breakthrough", "url": "https://example.com/fusion", "content": "net energy gain"},
				{"title": "ITER update", "url": "https://iter.org/news", "content": "assembly milestone"},
			},
		})
	}))
	defer srv.Close()

	client := adapter.NewTavily("test-key", adapter.WithTavilyBaseURL(srv.URL))

	resp, err := client.Search(context.Background(), "fusion energy", 5)
	gt.NoError(t, err)
	gt.A(t, resp.Results).Length(2)
	gt.Equal(t, resp.Results[0].Title, "Fusion breakthrough")
	gt.Equal(t, resp.Results[1].URL, "https://iter.org/news")

	gt.Equal(t, gotAuth, "Bearer test-key")
	gt.Equal(t, gotBody["query"], "fusion energy")
	gt.Equal(t, gotBody["search_depth"], "basic")
	gt.Equal(t, gotBody["max_results"].(float64), float64(5))
}

func TestTavilySearchWithoutAPIKey(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	client := adapter.NewTavily("", adapter.WithTavilyBaseURL(srv.URL))

	resp, err := client.Search(context.Background(), "anything", 5)
	gt.NoError(t, err)
	gt.A(t, resp.Results).Length(0)
	gt.False(t, called)
}

func TestTavilySearchProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := adapter.NewTavily("test-key", adapter.WithTavilyBaseURL(srv.URL))

	_, err := client.Search(context.Background(), "anything", 5)
	gt.Error(t, err)
	gt.True(t, errors.Is(err, model.ErrSearchUnavailable))
}
