package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"

	"trackarr/internal/config"
)

const (
	defaultBaseURL = "https://api.themoviedb.org/3"
	posterBaseURL  = "https://image.tmdb.org/t/p/w500"

	searchCacheTTL  = 5 * time.Minute
	detailsCacheTTL = 30 * time.Minute

	// maxSearchResults caps candidate lists presented to the user.
	maxSearchResults = 10
)

var apiRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "trackarr_tmdb_requests_total",
	Help: "TMDB API requests by endpoint and outcome.",
}, []string{"endpoint", "outcome"})

// Client handles communication with the TMDB API.
type Client struct {
	baseURL    string
	apiKey     string
	language   string
	httpClient *http.Client
	cache      *gocache.Cache
	logger     *logrus.Logger
}

// NewClient creates a new TMDB API client.
func NewClient(cfg *config.Config, logger *logrus.Logger) (*Client, error) {
	if cfg.TMDBAPIKey == "" {
		return nil, fmt.Errorf("TMDB API key is required")
	}

	return &Client{
		baseURL:    defaultBaseURL,
		apiKey:     cfg.TMDBAPIKey,
		language:   cfg.TMDBLanguage,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		cache:      gocache.New(searchCacheTTL, 10*time.Minute),
		logger:     logger,
	}, nil
}

// PosterURL returns the full image URL for a poster path, or empty for none.
func PosterURL(posterPath string) string {
	if posterPath == "" {
		return ""
	}
	return posterBaseURL + posterPath
}

// doRequest performs a GET against the TMDB API and decodes the JSON response.
func (c *Client) doRequest(ctx context.Context, path string, params url.Values, result interface{}) (int, error) {
	params.Set("api_key", c.apiKey)
	params.Set("language", c.language)
	fullURL := c.baseURL + path + "?" + params.Encode()

	c.logger.WithField("path", path).Debug("Making TMDB API request")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return resp.StatusCode, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
	}
	return resp.StatusCode, nil
}

type searchResponse struct {
	Results []SearchResult `json:"results"`
}

// Search finds series by title, capped to the first 10 results in the
// relevance order returned by TMDB.
func (c *Client) Search(ctx context.Context, query string) ([]SearchResult, error) {
	cacheKey := "search:" + query
	if cached, ok := c.cache.Get(cacheKey); ok {
		return cached.([]SearchResult), nil
	}

	params := url.Values{}
	params.Set("query", query)

	var response searchResponse
	if _, err := c.doRequest(ctx, "/search/tv", params, &response); err != nil {
		apiRequests.WithLabelValues("search", "error").Inc()
		return nil, fmt.Errorf("search failed: %w", err)
	}
	apiRequests.WithLabelValues("search", "ok").Inc()

	results := response.Results
	if len(results) > maxSearchResults {
		results = results[:maxSearchResults]
	}

	c.logger.WithFields(logrus.Fields{
		"query": query,
		"count": len(results),
	}).Debug("TMDB search completed")

	c.cache.Set(cacheKey, results, searchCacheTTL)
	return results, nil
}

// Details fetches the full record for one series. Unknown ids yield
// ErrNotFound.
func (c *Client) Details(ctx context.Context, id int64) (*ShowDetails, error) {
	cacheKey := "details:" + strconv.FormatInt(id, 10)
	if cached, ok := c.cache.Get(cacheKey); ok {
		return cached.(*ShowDetails), nil
	}

	var details ShowDetails
	status, err := c.doRequest(ctx, "/tv/"+strconv.FormatInt(id, 10), url.Values{}, &details)
	if err != nil {
		if status == http.StatusNotFound {
			apiRequests.WithLabelValues("details", "not_found").Inc()
			return nil, ErrNotFound
		}
		apiRequests.WithLabelValues("details", "error").Inc()
		return nil, fmt.Errorf("details fetch failed: %w", err)
	}
	apiRequests.WithLabelValues("details", "ok").Inc()

	c.cache.Set(cacheKey, &details, detailsCacheTTL)
	return &details, nil
}
