package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jonathan/career-advisor/internal/fetch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_MissingKey(t *testing.T) {
	_, err := NewClient("", nil)
	assert.ErrorIs(t, err, ErrNoAPIKey)
}

func TestSearch_Success(t *testing.T) {
	var gotPayload map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		_, _ = w.Write([]byte(`{
			"answer": "demand is strong",
			"results": [
				{"title": "Go jobs", "url": "https://example.com/a", "content": "<p>Go &amp; backend roles</p>", "score": 0.92},
				{"title": "Market", "url": "https://example.com/b", "content": "plain text", "score": 0.81}
			]
		}`))
	}))
	defer server.Close()

	client, err := NewClient("tvly-test", &Options{BaseURL: server.URL})
	require.NoError(t, err)

	resp, err := client.Search(context.Background(), "golang demand", Params{
		Depth:      "basic",
		MaxResults: 2,
	})
	require.NoError(t, err)

	assert.Equal(t, "tvly-test", gotPayload["api_key"])
	assert.Equal(t, "golang demand", gotPayload["query"])
	assert.Equal(t, "basic", gotPayload["search_depth"])
	assert.Equal(t, float64(2), gotPayload["max_results"])

	require.Len(t, resp.Results, 2)
	assert.Equal(t, "Go & backend roles", resp.Results[0].Content)
	assert.Equal(t, "demand is strong", resp.Answer)
	assert.Equal(t, 1, client.Calls())
}

func TestSearchJobMarket_PinsDomains(t *testing.T) {
	var gotPayload searchPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		_, _ = w.Write([]byte(`{"results": []}`))
	}))
	defer server.Close()

	client, err := NewClient("tvly-test", &Options{BaseURL: server.URL})
	require.NoError(t, err)

	_, err = client.SearchJobMarket(context.Background(), "golang salary trends")
	require.NoError(t, err)

	assert.Equal(t, "advanced", gotPayload.SearchDepth)
	assert.Equal(t, 10, gotPayload.MaxResults)
	assert.Contains(t, gotPayload.IncludeDomains, "indeed.com")
	assert.Contains(t, gotPayload.IncludeDomains, "bls.gov")
}

func TestSearchCourses_PinsDomains(t *testing.T) {
	var gotPayload searchPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		_, _ = w.Write([]byte(`{"results": []}`))
	}))
	defer server.Close()

	client, err := NewClient("tvly-test", &Options{BaseURL: server.URL})
	require.NoError(t, err)

	_, err = client.SearchCourses(context.Background(), "golang courses")
	require.NoError(t, err)

	assert.Contains(t, gotPayload.IncludeDomains, "coursera.org")
	assert.Contains(t, gotPayload.IncludeDomains, "udemy.com")
}

func TestSearch_ProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client, err := NewClient("tvly-test", &Options{BaseURL: server.URL})
	require.NoError(t, err)

	_, err = client.Search(context.Background(), "anything", Params{})
	require.Error(t, err)

	var fetchErr *fetch.Error
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, http.StatusBadGateway, fetchErr.StatusCode)
	assert.Equal(t, 0, client.Calls())
}
