package alphavantage

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"StockPulse/internal/domain/models"
	drepo "StockPulse/internal/domain/repository"
	"StockPulse/internal/service/ratelimit"
	xhttp "StockPulse/pkg/http"
	"StockPulse/pkg/util"
)

const functionDaily = "TIME_SERIES_DAILY"

// Client implements a SeriesSource backed by the Alpha Vantage daily
// time-series endpoint. One HTTP GET per invocation, no retries.
type Client struct {
	apiKey  string
	baseURL string
	http    *xhttp.Client

	limiter    *ratelimit.Limiter
	capacity   float64
	refillRate float64
}

// Option configures the client.
type Option func(*Client)

// New creates an Alpha Vantage client.
func New(apiKey, baseURL string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		baseURL:    baseURL,
		http:       xhttp.NewClient(xhttp.WithTimeout(30 * time.Second)),
		limiter:    ratelimit.New(),
		capacity:   5,
		refillRate: 5.0 / 60.0,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithHTTPTimeout sets the transport timeout.
func WithHTTPTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http = xhttp.NewClient(xhttp.WithTimeout(d))
	}
}

// WithRateLimit sets the local token-bucket parameters.
func WithRateLimit(capacity, refillPerSec float64) Option {
	return func(c *Client) {
		c.capacity = capacity
		c.refillRate = refillPerSec
	}
}

type dailyBar struct {
	Open   string `json:"1. open"`
	High   string `json:"2. high"`
	Low    string `json:"3. low"`
	Close  string `json:"4. close"`
	Volume string `json:"5. volume"`
}

type dailyPayload struct {
	ErrorMessage string              `json:"Error Message"`
	Note         string              `json:"Note"`
	Information  string              `json:"Information"`
	Series       map[string]dailyBar `json:"Time Series (Daily)"`
}

// FetchDaily fetches the daily series for symbol, ascending by date. The
// exchange suffix is stripped for the upstream call but the original symbol
// is preserved on returned records.
func (c *Client) FetchDaily(ctx context.Context, symbol string, size drepo.OutputSize) ([]models.PricePoint, error) {
	if !c.limiter.Allow("alphavantage", c.capacity, c.refillRate) {
		return nil, &drepo.APIError{Message: "local rate limit exceeded"}
	}

	query := url.Values{}
	query.Set("function", functionDaily)
	query.Set("symbol", util.StripExchangeSuffix(symbol))
	query.Set("outputsize", string(size))
	query.Set("apikey", c.apiKey)

	resp, err := c.http.SendRequest(ctx, &xhttp.RequestOptions{
		Method:      http.MethodGet,
		URL:         c.baseURL,
		QueryParams: query,
	})
	if err != nil {
		return nil, &drepo.NetworkError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &drepo.StatusError{Status: resp.StatusCode}
	}

	var payload dailyPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &drepo.MalformedError{Reason: "invalid json"}
	}

	if payload.ErrorMessage != "" {
		return nil, &drepo.APIError{Message: payload.ErrorMessage}
	}
	if payload.Note != "" {
		return nil, &drepo.APIError{Message: payload.Note}
	}
	if payload.Information != "" {
		return nil, &drepo.APIError{Message: payload.Information}
	}
	if len(payload.Series) == 0 {
		return nil, &drepo.MalformedError{Reason: "missing daily time series"}
	}

	points := make([]models.PricePoint, 0, len(payload.Series))
	for date, bar := range payload.Series {
		p, err := normalizeBar(date, symbol, bar)
		if err != nil {
			return nil, err
		}
		points = append(points, p)
	}

	// Provider order is not guaranteed; YYYY-MM-DD sorts lexicographically.
	sort.Slice(points, func(i, j int) bool {
		return points[i].Date < points[j].Date
	})
	return points, nil
}

func normalizeBar(date, symbol string, bar dailyBar) (models.PricePoint, error) {
	if _, ok := util.ParseDay(date); !ok {
		return models.PricePoint{}, &drepo.MalformedError{Reason: "bad date key " + date}
	}

	open, err1 := strconv.ParseFloat(bar.Open, 64)
	high, err2 := strconv.ParseFloat(bar.High, 64)
	low, err3 := strconv.ParseFloat(bar.Low, 64)
	closePx, err4 := strconv.ParseFloat(bar.Close, 64)
	volume, err5 := strconv.ParseInt(bar.Volume, 10, 64)
	for _, err := range []error{err1, err2, err3, err4, err5} {
		if err != nil {
			return models.PricePoint{}, &drepo.MalformedError{Reason: "bad numeric field for " + date}
		}
	}

	return models.PricePoint{
		Date:   date,
		Symbol: symbol,
		Open:   open,
		High:   high,
		Low:    low,
		Close:  closePx,
		Volume: volume,
	}, nil
}

var _ drepo.SeriesSource = (*Client)(nil)
