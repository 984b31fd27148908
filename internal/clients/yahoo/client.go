// Package yahoo provides a client for Yahoo Finance quote data
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/minseokoh/folio/internal/common"
	"github.com/minseokoh/folio/internal/interfaces"
	"github.com/minseokoh/folio/internal/models"
)

const (
	DefaultBaseURL   = "https://query2.finance.yahoo.com"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 5 // requests per second

	userAgent = "Mozilla/5.0 (compatible; folio/1.0)"
)

// Client fetches quote metadata and daily history from Yahoo Finance.
type Client struct {
	baseURL    string
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

// NewClient creates a new Yahoo Finance client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
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
	return fmt.Sprintf("yahoo API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	c.logger.Debug().Str("path", path).Msg("yahoo API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		io.Copy(io.Discard, resp.Body)
		return errNotFound
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   path,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

var errNotFound = fmt.Errorf("ticker not found")

type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			Price struct {
				QuoteType          string `json:"quoteType"`
				LongName           string `json:"longName"`
				ShortName          string `json:"shortName"`
				Exchange           string `json:"exchange"`
				MarketCap          raw    `json:"marketCap"`
				RegularMarketPrice raw    `json:"regularMarketPrice"`
				RegularMarketTime  int64  `json:"regularMarketTime"`
			} `json:"price"`
			AssetProfile struct {
				Sector   string `json:"sector"`
				Industry string `json:"industry"`
			} `json:"assetProfile"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

// raw unwraps Yahoo's {"raw": n, "fmt": "..."} number envelopes.
type raw struct {
	Raw float64 `json:"raw"`
}

// Info returns quote metadata for ticker, or nil when the ticker is
// unknown to Yahoo.
func (c *Client) Info(ctx context.Context, ticker string) (*models.QuoteInfo, error) {
	params := url.Values{}
	params.Set("modules", "price,assetProfile")

	var decoded quoteSummaryResponse
	err := c.get(ctx, "/v10/finance/quoteSummary/"+url.PathEscape(ticker), params, &decoded)
	if err == errNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if decoded.QuoteSummary.Error != nil || len(decoded.QuoteSummary.Result) == 0 {
		return nil, nil
	}

	r := decoded.QuoteSummary.Result[0]
	return &models.QuoteInfo{
		Sector:             r.AssetProfile.Sector,
		Industry:           r.AssetProfile.Industry,
		MarketCap:          int64(r.Price.MarketCap.Raw),
		CurrentPrice:       r.Price.RegularMarketPrice.Raw,
		RegularMarketPrice: r.Price.RegularMarketPrice.Raw,
		RegularMarketTime:  r.Price.RegularMarketTime,
		QuoteType:          r.Price.QuoteType,
		LongName:           r.Price.LongName,
		ShortName:          r.Price.ShortName,
		Exchange:           r.Price.Exchange,
	}, nil
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code string `json:"code"`
		} `json:"error"`
	} `json:"chart"`
}

// History returns daily closing bars for ticker between from and to.
// Null closes (market holidays mid-range) are skipped.
func (c *Client) History(ctx context.Context, ticker string, from, to time.Time) ([]*models.Bar, error) {
	params := url.Values{}
	params.Set("period1", fmt.Sprintf("%d", from.Unix()))
	params.Set("period2", fmt.Sprintf("%d", to.Unix()))
	params.Set("interval", "1d")

	var decoded chartResponse
	err := c.get(ctx, "/v8/finance/chart/"+url.PathEscape(ticker), params, &decoded)
	if err == errNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if decoded.Chart.Error != nil || len(decoded.Chart.Result) == 0 {
		return nil, nil
	}

	r := decoded.Chart.Result[0]
	if len(r.Indicators.Quote) == 0 {
		return nil, nil
	}

	closes := r.Indicators.Quote[0].Close
	bars := make([]*models.Bar, 0, len(r.Timestamp))
	for i, ts := range r.Timestamp {
		if i >= len(closes) || closes[i] == nil {
			continue
		}
		bars = append(bars, &models.Bar{
			Date:  time.Unix(ts, 0),
			Close: *closes[i],
		})
	}

	return bars, nil
}

var _ interfaces.QuoteClient = (*Client)(nil)
