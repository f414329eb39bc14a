package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// ErrUpstream is returned when TMDB answers with a non-2xx status.
var ErrUpstream = errors.New("upstream request failed")

// Client fetches one category page.
type Client interface {
	FetchCategory(ctx context.Context, category string) ([]Movie, error)
}

type moviesResponse struct {
	Page    int     `json:"page"`
	Results []Movie `json:"results"`
}

// TMDBClient fetches movie lists from the TMDB v3 API.
type TMDBClient struct {
	baseURL string
	apiKey  string
	timeout time.Duration
}

// NewTMDBClient creates a client for baseURL.
func NewTMDBClient(baseURL, apiKey string, timeout time.Duration) *TMDBClient {
	return &TMDBClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		timeout: timeout,
	}
}

// FetchCategory returns the first page of category, e.g. "popular".
func (c *TMDBClient) FetchCategory(ctx context.Context, category string) ([]Movie, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = min(timeout, time.Until(deadline))
	}

	agent := fiber.Get(c.baseURL + "/movie/" + url.PathEscape(category))
	agent.QueryString(url.Values{"api_key": {c.apiKey}}.Encode())
	agent.Timeout(timeout)

	var resp moviesResponse
	code, body, errs := agent.Struct(&resp)
	if code != 0 && (code < fiber.StatusOK || code >= fiber.StatusMultipleChoices) {
		return nil, fmt.Errorf("%w: %s returned %d: %s", ErrUpstream, category, code, snippet(body))
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("fetch %s: %w", category, errors.Join(errs...))
	}
	return resp.Results, nil
}

func snippet(body []byte) string {
	const limit = 120
	if len(body) > limit {
		return string(body[:limit]) + "..."
	}
	return string(body)
}
