package websearch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/time/rate"

	"blog-agent/internal/domain"
)

const defaultBraveBaseURL = "https://api.search.brave.com"

// BraveClient queries the Brave web search API.
type BraveClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
	limiter *rate.Limiter
	policy  *bluemonday.Policy
	logger  *slog.Logger
}

// NewBraveClient creates a client allowing one request per interval.
// An empty baseURL uses the public API endpoint.
func NewBraveClient(baseURL, apiKey string, client *http.Client, interval time.Duration, logger *slog.Logger) (*BraveClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("brave api key: %w", domain.ErrConfigMissing)
	}
	if baseURL == "" {
		baseURL = defaultBraveBaseURL
	}
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &BraveClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  client,
		limiter: rate.NewLimiter(limit, 1),
		policy:  bluemonday.StrictPolicy(),
		logger:  logger,
	}, nil
}

type braveResponse struct {
	Web struct {
		Results []struct {
			Title       string `json:"title"`
			URL         string `json:"url"`
			Description string `json:"description"`
		} `json:"results"`
	} `json:"web"`
}

// Search returns up to limit web results for query.
func (c *BraveClient) Search(ctx context.Context, query string, limit int) ([]domain.WebResult, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("brave rate limit: %w", err)
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("count", strconv.Itoa(limit))
	endpoint := c.baseURL + "/res/v1/web/search?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", c.apiKey)

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call brave search: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("brave search returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var decoded braveResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode brave response: %w", err)
	}

	results := make([]domain.WebResult, 0, len(decoded.Web.Results))
	for _, r := range decoded.Web.Results {
		if r.URL == "" {
			continue
		}
		results = append(results, domain.WebResult{
			Title:   c.clean(r.Title),
			URL:     r.URL,
			Snippet: c.clean(r.Description),
		})
		if limit > 0 && len(results) == limit {
			break
		}
	}

	c.logger.Debug("web_search_completed",
		slog.String("query", query),
		slog.Int("results", len(results)),
		slog.Duration("elapsed", time.Since(start)))
	return results, nil
}

func (c *BraveClient) clean(s string) string {
	return strings.Join(strings.Fields(c.policy.Sanitize(s)), " ")
}

var _ domain.WebSearcher = (*BraveClient)(nil)
