// Package search provides a Tavily search client used for optional
// market grounding of analysis results.
package search

import (
	"context"
	"errors"
	"time"

	"github.com/jonathan/career-advisor/internal/fetch"
)

// DefaultBaseURL is the Tavily search endpoint.
const DefaultBaseURL = "https://api.tavily.com/search"

// ErrNoAPIKey is returned when no Tavily API key is configured.
// Callers treat this as "grounding disabled", not a failure.
var ErrNoAPIKey = errors.New("Tavily API key is required")

// jobMarketDomains focuses job-market searches on job boards and labor statistics.
var jobMarketDomains = []string{
	"linkedin.com", "indeed.com", "glassdoor.com",
	"monster.com", "dice.com", "bls.gov",
}

// courseDomains focuses course searches on learning platforms.
var courseDomains = []string{
	"coursera.org", "udemy.com", "edx.org", "pluralsight.com",
	"udacity.com", "linkedin.com/learning", "skillshare.com",
}

// Params configures a single search request.
type Params struct {
	Depth          string // "basic" or "advanced"
	MaxResults     int
	IncludeDomains []string
}

// Result is a single ranked search hit.
type Result struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

// Response holds the provider's answer summary and ranked results.
type Response struct {
	Answer  string   `json:"answer"`
	Results []Result `json:"results"`
}

// Options configures the client.
type Options struct {
	BaseURL string
	Timeout time.Duration
}

// Client calls the Tavily search API.
type Client struct {
	apiKey  string
	baseURL string
	timeout time.Duration
	calls   int
}

// NewClient creates a Tavily client. Returns ErrNoAPIKey when apiKey is empty.
func NewClient(apiKey string, opts *Options) (*Client, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}

	client := &Client{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		timeout: fetch.DefaultTimeout,
	}
	if opts != nil {
		if opts.BaseURL != "" {
			client.baseURL = opts.BaseURL
		}
		if opts.Timeout > 0 {
			client.timeout = opts.Timeout
		}
	}
	return client, nil
}

// searchPayload mirrors the Tavily request body.
type searchPayload struct {
	APIKey         string   `json:"api_key"`
	Query          string   `json:"query"`
	SearchDepth    string   `json:"search_depth,omitempty"`
	MaxResults     int      `json:"max_results,omitempty"`
	IncludeDomains []string `json:"include_domains,omitempty"`
}

// Search performs a search with the given parameters.
func (c *Client) Search(ctx context.Context, query string, params Params) (*Response, error) {
	payload := searchPayload{
		APIKey:         c.apiKey,
		Query:          query,
		SearchDepth:    params.Depth,
		MaxResults:     params.MaxResults,
		IncludeDomains: params.IncludeDomains,
	}

	var resp Response
	err := fetch.PostJSON(ctx, c.baseURL, payload, &resp, &fetch.Options{Timeout: c.timeout})
	if err != nil {
		return nil, err
	}
	c.calls++

	for i := range resp.Results {
		resp.Results[i].Content = CleanSnippet(resp.Results[i].Content)
	}

	return &resp, nil
}

// SearchJobMarket performs a search focused on job market data.
func (c *Client) SearchJobMarket(ctx context.Context, query string) (*Response, error) {
	return c.Search(ctx, query, Params{
		Depth:          "advanced",
		MaxResults:     10,
		IncludeDomains: jobMarketDomains,
	})
}

// SearchCourses performs a search focused on online courses and learning resources.
func (c *Client) SearchCourses(ctx context.Context, query string) (*Response, error) {
	return c.Search(ctx, query, Params{
		Depth:          "advanced",
		MaxResults:     10,
		IncludeDomains: courseDomains,
	})
}

// Calls returns the number of successful searches made by this client.
func (c *Client) Calls() int {
	return c.calls
}
