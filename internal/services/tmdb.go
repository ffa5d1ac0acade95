package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"reelsync/internal/models"
	"reelsync/internal/sync"
)

const (
	tmdbAPIURL      = "https://api.themoviedb.org/3"
	defaultTimeout  = 30 * time.Second
	rateLimitDelay  = 250 * time.Millisecond
	maxRetries      = 3
	retryDelay      = 2 * time.Second
	userAgent       = "ReelSyncBot/1.0"
	maxResponseSize = 5 * 1024 * 1024 // 5MB
	defaultRegion   = "US"
)

var _ sync.Catalog = (*TmdbClient)(nil)

type TmdbClient struct {
	apiKey     string
	baseURL    string
	region     string
	httpClient *http.Client
	limiter    *rate.Limiter
	maxRetries int
	retryDelay time.Duration
	logger     *logrus.Logger
}

type TmdbConfig struct {
	APIKey     string
	BaseURL    string
	Region     string
	Timeout    time.Duration
	RateLimit  time.Duration
	MaxRetries int
	RetryDelay time.Duration
	Logger     *logrus.Logger
}

func NewTmdbClient(apiKey, region string, logger *logrus.Logger) *TmdbClient {
	return NewTmdbClientWithConfig(&TmdbConfig{
		APIKey:     apiKey,
		BaseURL:    tmdbAPIURL,
		Region:     region,
		Timeout:    defaultTimeout,
		RateLimit:  rateLimitDelay,
		MaxRetries: maxRetries,
		RetryDelay: retryDelay,
		Logger:     logger,
	})
}

func NewTmdbClientWithConfig(config *TmdbConfig) *TmdbClient {
	if config.Logger == nil {
		config.Logger = logrus.New()
	}
	if config.BaseURL == "" {
		config.BaseURL = tmdbAPIURL
	}
	if config.Region == "" {
		config.Region = defaultRegion
	}
	if config.RateLimit <= 0 {
		config.RateLimit = rateLimitDelay
	}
	if config.MaxRetries <= 0 {
		config.MaxRetries = maxRetries
	}

	return &TmdbClient{
		apiKey:  config.APIKey,
		baseURL: strings.TrimRight(config.BaseURL, "/"),
		region:  config.Region,
		httpClient: &http.Client{
			Timeout: config.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:          100,
				MaxIdleConnsPerHost:   10,
				IdleConnTimeout:       90 * time.Second,
				TLSHandshakeTimeout:   10 * time.Second,
				ExpectContinueTimeout: 1 * time.Second,
			},
		},
		limiter:    rate.NewLimiter(rate.Every(config.RateLimit), 1),
		maxRetries: config.MaxRetries,
		retryDelay: config.RetryDelay,
		logger:     config.Logger,
	}
}

// Resolve searches the catalog for title and picks the best trackable hit:
// an exact case-insensitive title match of a supported media type wins over
// the first generic hit, then the first movie/tv hit. Returns
// sync.ErrNotFound when the search comes back empty and
// sync.ErrUnsupportedMediaType when hits exist but none is a movie or
// series.
func (c *TmdbClient) Resolve(ctx context.Context, title string) (*models.ExternalItem, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("search query cannot be empty")
	}

	c.logger.WithField("query", title).Info("Searching catalog...")

	params := url.Values{}
	params.Set("query", title)
	params.Set("include_adult", "false")

	body, err := c.makeRequest(ctx, fmt.Sprintf("%s/search/multi?%s", c.baseURL, c.withKey(params)))
	if err != nil {
		return nil, err
	}

	var searchResult models.TmdbSearchResponse
	if err := json.Unmarshal(body, &searchResult); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}
	if len(searchResult.Results) == 0 {
		return nil, sync.ErrNotFound
	}

	hit := pickHit(searchResult.Results, title)
	if hit == nil {
		return nil, sync.ErrUnsupportedMediaType
	}

	item := &models.ExternalItem{
		ExternalID: hit.ID,
		MediaType:  models.MediaType(hit.MediaType),
		Title:      hit.Title,
	}
	if item.Title == "" {
		item.Title = hit.Name
	}
	return item, nil
}

func pickHit(results []models.TmdbSearchHit, query string) *models.TmdbSearchHit {
	for i := range results {
		hit := &results[i]
		if !models.MediaType(hit.MediaType).Supported() {
			continue
		}
		name := hit.Title
		if name == "" {
			name = hit.Name
		}
		if strings.EqualFold(name, query) {
			return hit
		}
	}
	for i := range results {
		if models.MediaType(results[i].MediaType).Supported() {
			return &results[i]
		}
	}
	return nil
}

// FetchDetail loads the full metadata record for a catalog item.
func (c *TmdbClient) FetchDetail(ctx context.Context, externalID int64, mediaType models.MediaType) (*models.TmdbDetail, error) {
	params := url.Values{}
	params.Set("append_to_response", "external_ids")

	requestURL := fmt.Sprintf("%s/%s/%d?%s", c.baseURL, mediaType, externalID, c.withKey(params))
	body, err := c.makeRequest(ctx, requestURL)
	if err != nil {
		return nil, err
	}

	var detail models.TmdbDetail
	if err := json.Unmarshal(body, &detail); err != nil {
		return nil, fmt.Errorf("failed to decode detail response: %w", err)
	}
	return &detail, nil
}

// FetchProviders returns the streaming platform names for an item in the
// configured region, subscription services only. The caller treats a failure
// here as non-fatal.
func (c *TmdbClient) FetchProviders(ctx context.Context, externalID int64, mediaType models.MediaType) ([]string, error) {
	requestURL := fmt.Sprintf("%s/%s/%d/watch/providers?%s", c.baseURL, mediaType, externalID, c.withKey(url.Values{}))
	body, err := c.makeRequest(ctx, requestURL)
	if err != nil {
		return nil, err
	}

	var response models.TmdbProvidersResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to decode providers response: %w", err)
	}

	var names []string
	for _, provider := range response.Results[c.region].Flatrate {
		names = append(names, provider.ProviderName)
	}
	return names, nil
}

func (c *TmdbClient) withKey(params url.Values) string {
	params.Set("api_key", c.apiKey)
	return params.Encode()
}

func (c *TmdbClient) makeRequest(ctx context.Context, requestURL string) ([]byte, error) {
	var rErr error

	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("User-Agent", userAgent)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			rErr = fmt.Errorf("failed to make HTTP request: %w", err)
			c.retryLogger(attempt, requestURL, err)
			c.waitForRetry(ctx, attempt)
			continue
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			rErr = fmt.Errorf("API returned status code %d", resp.StatusCode)
			c.retryLogger(attempt, requestURL, rErr)
			c.waitForRetry(ctx, attempt)
			continue
		}

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
		resp.Body.Close()
		if err != nil {
			rErr = fmt.Errorf("failed to read response body: %w", err)
			c.retryLogger(attempt, requestURL, err)
			c.waitForRetry(ctx, attempt)
			continue
		}

		c.logger.WithFields(logrus.Fields{
			"url":           requestURL,
			"attempt":       attempt,
			"status":        resp.StatusCode,
			"response_size": len(body),
		}).Debug("API request successful")

		return body, nil
	}

	return nil, fmt.Errorf("failed after %d attempts: %w", c.maxRetries, rErr)
}

func (c *TmdbClient) retryLogger(attempt int, url string, err error) {
	c.logger.WithFields(logrus.Fields{
		"attempt": attempt + 1,
		"url":     url,
		"error":   err.Error(),
	}).Warn("API request failed, retrying...")
}

func (c *TmdbClient) waitForRetry(ctx context.Context, attempt int) {
	if attempt >= c.maxRetries-1 {
		return
	}
	delay := time.Duration(attempt+1) * c.retryDelay
	c.logger.WithField("delay", delay).Debug("waiting before retry")
	select {
	case <-time.After(delay):
	case <-ctx.Done():
	}
}
