// Package krx provides a client for KRX market-wide listing data
package krx

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/minseokoh/folio/internal/common"
	"github.com/minseokoh/folio/internal/interfaces"
	"github.com/minseokoh/folio/internal/models"
)

const (
	DefaultBaseURL   = "http://data.krx.co.kr/comm/bldAttendant/getJsonData.cmd"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 2 // requests per second
	DefaultCacheTTL  = 15 * time.Minute

	bldStockListing = "dbms/MDC/STAT/standard/MDCSTAT01501"
	bldETFListing   = "dbms/MDC/STAT/standard/MDCSTAT04301"
)

// Client fetches full-market stock and ETF listings. Listings change
// rarely within a session, so both are cached with a TTL.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
	clock      func() time.Time

	cacheTTL time.Duration
	mu       sync.Mutex
	stocks   listingCache
	etfs     listingCache
}

type listingCache struct {
	rows      []*models.ListingRow
	fetchedAt time.Time
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithCacheTTL sets how long fetched listings are reused
func WithCacheTTL(ttl time.Duration) ClientOption {
	return func(c *Client) {
		c.cacheTTL = ttl
	}
}

// WithClock overrides the time source used for cache expiry
func WithClock(clock func() time.Time) ClientOption {
	return func(c *Client) {
		c.clock = clock
	}
}

// NewClient creates a new KRX client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter:  rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:   common.NewSilentLogger(),
		clock:    time.Now,
		cacheTTL: DefaultCacheTTL,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents an API error
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("KRX API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// StockListing returns all KOSPI and KOSDAQ listed stocks.
func (c *Client) StockListing(ctx context.Context) ([]*models.ListingRow, error) {
	return c.listing(ctx, bldStockListing, &c.stocks)
}

// ETFListing returns all domestic exchange traded funds.
func (c *Client) ETFListing(ctx context.Context) ([]*models.ListingRow, error) {
	return c.listing(ctx, bldETFListing, &c.etfs)
}

func (c *Client) listing(ctx context.Context, bld string, cache *listingCache) ([]*models.ListingRow, error) {
	c.mu.Lock()
	if cache.rows != nil && c.clock().Sub(cache.fetchedAt) < c.cacheTTL {
		rows := cache.rows
		c.mu.Unlock()
		return rows, nil
	}
	c.mu.Unlock()

	rows, err := c.fetch(ctx, bld)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	cache.rows = rows
	cache.fetchedAt = c.clock()
	c.mu.Unlock()

	return rows, nil
}

// listingResponse is the raw KRX response. All fields are strings with
// thousands separators.
type listingResponse struct {
	Output []struct {
		Symbol    string `json:"ISU_SRT_CD"`
		Name      string `json:"ISU_ABBRV"`
		Market    string `json:"MKT_NM"`
		Close     string `json:"TDD_CLSPRC"`
		MarketCap string `json:"MKTCAP"`
	} `json:"OutBlock_1"`
}

func (c *Client) fetch(ctx context.Context, bld string) ([]*models.ListingRow, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	form := url.Values{}
	form.Set("bld", bld)
	form.Set("trdDd", c.clock().Format("20060102"))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	c.logger.Debug().Str("bld", bld).Msg("KRX API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   bld,
		}
	}

	var decoded listingResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	rows := make([]*models.ListingRow, 0, len(decoded.Output))
	for _, raw := range decoded.Output {
		rows = append(rows, &models.ListingRow{
			Symbol:    strings.TrimSpace(raw.Symbol),
			Name:      strings.TrimSpace(raw.Name),
			Market:    strings.TrimSpace(raw.Market),
			Close:     parseNumber(raw.Close),
			MarketCap: parseNumber(raw.MarketCap),
		})
	}

	return rows, nil
}

// parseNumber converts "1,234,567" style strings. Unparseable values
// become zero rather than failing the whole listing.
func parseNumber(raw string) float64 {
	cleaned := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if cleaned == "" || cleaned == "-" {
		return 0
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return v
}

var _ interfaces.ListingClient = (*Client)(nil)
