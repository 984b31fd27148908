// Package koreaexim provides a client for the Korea Eximbank exchange rate API
package koreaexim

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	"github.com/minseokoh/folio/internal/common"
	"github.com/minseokoh/folio/internal/interfaces"
	"github.com/minseokoh/folio/internal/models"
)

const (
	DefaultBaseURL   = "https://oapi.koreaexim.go.kr/site/program/financial/exchangeJSON"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 5 // requests per second
)

// Client calls the Korea Eximbank daily exchange rate endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
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

// NewClient creates a new Korea Eximbank client
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
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
	return fmt.Sprintf("koreaexim API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// rateRow is the raw row shape returned by the API. Numeric fields come
// back as strings with thousands separators.
type rateRow struct {
	Result  int    `json:"result"` // 1 = success
	CurUnit string `json:"cur_unit"`
	CurName string `json:"cur_nm"`
	DealBas string `json:"deal_bas_r"`
}

// FetchRates returns the rate table published for searchDate. The API
// returns an empty array on weekends, holidays, and before the daily
// publication time. That is not an error: callers keep their stored
// values when nothing was published.
func (c *Client) FetchRates(ctx context.Context, searchDate time.Time) ([]*models.CurrencyRate, error) {
	if c.apiKey == "" {
		return nil, common.ErrMissingAPIKey
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	params := url.Values{}
	params.Set("authkey", c.apiKey)
	params.Set("searchdate", searchDate.Format("20060102"))
	params.Set("data", "AP01")

	reqURL := fmt.Sprintf("%s?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	c.logger.Debug().Str("search_date", searchDate.Format("2006-01-02")).Msg("koreaexim API request")

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
			Endpoint:   "exchangeJSON",
		}
	}

	var rows []rateRow
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	rates := make([]*models.CurrencyRate, 0, len(rows))
	for _, row := range rows {
		if row.Result != 1 {
			continue
		}
		rateValue, err := parseRate(row.DealBas)
		if err != nil {
			c.logger.Warn().
				Str("currency", row.CurUnit).
				Str("raw", row.DealBas).
				Msg("skipping unparseable exchange rate")
			continue
		}
		rates = append(rates, &models.CurrencyRate{
			Currency: NormalizeCurrencyLabel(row.CurUnit),
			Rate:     rateValue,
		})
	}

	return rates, nil
}

// FetchRatesFor filters the published table down to the given currency
// codes. Unknown codes are silently absent from the result.
func (c *Client) FetchRatesFor(ctx context.Context, searchDate time.Time, currencies []string) ([]*models.CurrencyRate, error) {
	all, err := c.FetchRates(ctx, searchDate)
	if err != nil {
		return nil, err
	}

	wanted := make(map[string]bool, len(currencies))
	for _, cur := range currencies {
		wanted[strings.ToUpper(cur)] = true
	}

	filtered := make([]*models.CurrencyRate, 0, len(currencies))
	for _, r := range all {
		if wanted[r.Currency] {
			filtered = append(filtered, r)
		}
	}
	return filtered, nil
}

// NormalizeCurrencyLabel strips the Korean name suffix from labels like
// "EUR(유로)" and uppercases the ISO code.
func NormalizeCurrencyLabel(label string) string {
	if idx := strings.Index(label, "("); idx >= 0 {
		label = label[:idx]
	}
	return strings.ToUpper(strings.TrimSpace(label))
}

// parseRate converts a rate string like "1,386.50" to a decimal.
func parseRate(raw string) (decimal.Decimal, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("empty rate")
	}
	return decimal.NewFromString(cleaned)
}

var _ interfaces.RateClient = (*Client)(nil)
