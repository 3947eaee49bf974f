// Package cryptocompare provides a client for the CryptoCompare min-api
package cryptocompare

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/bobmcallan/dcacalc/internal/common"
	"github.com/bobmcallan/dcacalc/internal/interfaces"
	"github.com/bobmcallan/dcacalc/internal/models"
)

const (
	DefaultBaseURL    = "https://min-api.cryptocompare.com/data"
	DefaultTimeout    = 30 * time.Second
	DefaultRateLimit  = 5 // requests per second
	DefaultRetries    = 3
	DefaultRetryDelay = time.Second

	// MaxHistoryLimit is the largest number of daily bars accepted per histoday request.
	MaxHistoryLimit = 2000

	// Upper bound on response bodies read into memory.
	maxResponseSize = 4 << 20
)

// ErrMalformedResponse indicates a body that decoded but lacked the expected fields.
var ErrMalformedResponse = errors.New("malformed quote response")

// HTTPDoer executes HTTP requests. *http.Client satisfies it.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client implements the QuoteClient interface
type Client struct {
	baseURL    string
	apiKey     string
	httpClient HTTPDoer
	timeout    time.Duration
	logger     *common.Logger
	limiter    *rate.Limiter
	retries    int
	retryDelay time.Duration
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithAPIKey sets the optional API key
func WithAPIKey(apiKey string) ClientOption {
	return func(c *Client) {
		c.apiKey = apiKey
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
		if requestsPerSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
		}
	}
}

// WithTimeout sets the HTTP timeout of the default client
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithRetry sets the number of attempts per request and the fixed delay between them
func WithRetry(attempts int, delay time.Duration) ClientOption {
	return func(c *Client) {
		if attempts < 1 {
			attempts = 1
		}
		c.retries = attempts
		c.retryDelay = delay
	}
}

// WithHTTPClient replaces the HTTP client
func WithHTTPClient(doer HTTPDoer) ClientOption {
	return func(c *Client) {
		c.httpClient = doer
	}
}

// NewClient creates a new CryptoCompare client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		timeout:    DefaultTimeout,
		limiter:    rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:     common.NewSilentLogger(),
		retries:    DefaultRetries,
		retryDelay: DefaultRetryDelay,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: c.timeout}
	}

	return c
}

// APIError represents a non-200 HTTP response
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("CryptoCompare API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// ResponseError is a well-formed body carrying the failure discriminator
type ResponseError struct {
	Message  string
	Endpoint string
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("CryptoCompare returned error: %s (endpoint: %s)", e.Message, e.Endpoint)
}

// getWithRetry performs get up to c.retries times, sleeping retryDelay between
// attempts. The last failure is returned.
func (c *Client) getWithRetry(ctx context.Context, path string, params url.Values, result interface{}) error {
	var lastErr error
	for attempt := 1; attempt <= c.retries; attempt++ {
		lastErr = c.get(ctx, path, params, result)
		if lastErr == nil {
			return nil
		}
		if ctx.Err() != nil || attempt == c.retries {
			break
		}

		c.logger.Warn().
			Err(lastErr).
			Str("path", path).
			Int("attempt", attempt).
			Int("max_attempts", c.retries).
			Dur("retry_in", c.retryDelay).
			Msg("CryptoCompare request failed, retrying")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.retryDelay):
		}
	}
	return lastErr
}

// get performs a single rate-limited GET request
func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Apikey "+c.apiKey)
	}

	c.logger.Debug().Str("url", c.baseURL+path).Str("query", params.Encode()).Msg("CryptoCompare API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body := io.LimitReader(resp.Body, maxResponseSize)

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(body)
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(msg)),
			Endpoint:   path,
		}
	}

	if err := json.NewDecoder(body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// GetSpotPrice retrieves the current price
func (c *Client) GetSpotPrice(ctx context.Context, symbol, currency string) (float64, error) {
	params := url.Values{}
	params.Set("fsym", strings.ToUpper(symbol))
	params.Set("tsyms", strings.ToUpper(currency))

	var payload map[string]json.RawMessage
	if err := c.getWithRetry(ctx, "/price", params, &payload); err != nil {
		return 0, err
	}

	if failure := responseFailure(payload); failure != "" {
		return 0, &ResponseError{Message: failure, Endpoint: "/price"}
	}

	raw, ok := payload[strings.ToUpper(currency)]
	if !ok {
		return 0, fmt.Errorf("%w: no %s price in spot response", ErrMalformedResponse, currency)
	}
	var price float64
	if err := json.Unmarshal(raw, &price); err != nil {
		return 0, fmt.Errorf("%w: spot price: %v", ErrMalformedResponse, err)
	}
	return price, nil
}

// responseFailure returns the failure message when the body carries Response=Error.
func responseFailure(payload map[string]json.RawMessage) string {
	raw, ok := payload["Response"]
	if !ok {
		return ""
	}
	var status string
	if err := json.Unmarshal(raw, &status); err != nil || status != "Error" {
		return ""
	}
	var message string
	if m, ok := payload["Message"]; ok {
		_ = json.Unmarshal(m, &message)
	}
	if message == "" {
		message = "unknown error"
	}
	return message
}

// histodayResponse represents the /v2/histoday payload
type histodayResponse struct {
	Response string `json:"Response"`
	Message  string `json:"Message"`
	Data     struct {
		Data []histodayBar `json:"Data"`
	} `json:"Data"`
}

type histodayBar struct {
	Time  int64   `json:"time"`
	Close float64 `json:"close"`
}

// GetDailyHistory retrieves daily closing prices ending at to. Limit is clamped to [1, MaxHistoryLimit].
// Points are returned in upstream order and are not filtered.
func (c *Client) GetDailyHistory(ctx context.Context, symbol, currency string, to time.Time, limit int) ([]models.PricePoint, error) {
	if limit < 1 {
		limit = 1
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}

	params := url.Values{}
	params.Set("fsym", strings.ToUpper(symbol))
	params.Set("tsym", strings.ToUpper(currency))
	params.Set("e", "CCCAGG")
	params.Set("limit", strconv.Itoa(limit))
	params.Set("toTs", strconv.FormatInt(to.Unix(), 10))
	params.Set("tryConversion", "true")
	params.Set("aggregate", "1")

	var resp histodayResponse
	if err := c.getWithRetry(ctx, "/v2/histoday", params, &resp); err != nil {
		return nil, err
	}

	if resp.Response != "Success" {
		msg := resp.Message
		if msg == "" {
			msg = fmt.Sprintf("unexpected response status %q", resp.Response)
		}
		return nil, &ResponseError{Message: msg, Endpoint: "/v2/histoday"}
	}

	points := make([]models.PricePoint, 0, len(resp.Data.Data))
	for _, bar := range resp.Data.Data {
		points = append(points, models.PricePoint{
			Date:  models.DateOf(time.Unix(bar.Time, 0)),
			Price: bar.Close,
		})
	}
	return points, nil
}

// Ensure Client implements QuoteClient
var _ interfaces.QuoteClient = (*Client)(nil)
