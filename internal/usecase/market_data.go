package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"StockPulse/internal/domain/models"
	"StockPulse/internal/domain/repository"
	"StockPulse/internal/service/forecast"
	"StockPulse/internal/service/seriescache"
	"StockPulse/pkg/cache"
	"StockPulse/pkg/logger"
)

const (
	// DefaultSeriesDays is the trailing window served when the caller does
	// not ask for a specific one.
	DefaultSeriesDays = 30

	historyDays  = 60
	snapshotDays = 365
	queryRows    = 5
)

// MarketData is the single entry point for price data. Callers never reach
// the source or the cache directly; every read is cache-first and every
// cache miss refills through the source.
type MarketData struct {
	symbol    string
	source    repository.SeriesSource
	cache     *seriescache.Cache
	metrics   repository.Metrics
	publisher repository.Publisher
	log       *logger.Logger
	window    int
	models    int
	now       func() time.Time

	mu         sync.Mutex
	rng        *rand.Rand
	connected  bool
	dbType     string
	lastSynced string
}

type MarketDataOption func(*MarketData)

func WithMetrics(m repository.Metrics) MarketDataOption {
	return func(u *MarketData) { u.metrics = m }
}

func WithPublisher(p repository.Publisher) MarketDataOption {
	return func(u *MarketData) { u.publisher = p }
}

func WithLogger(log *logger.Logger) MarketDataOption {
	return func(u *MarketData) { u.log = log }
}

func WithClock(now func() time.Time) MarketDataOption {
	return func(u *MarketData) { u.now = now }
}

func WithRand(rng *rand.Rand) MarketDataOption {
	return func(u *MarketData) { u.rng = rng }
}

// WithPredictionWindow sets the trailing-close count for next-day forecasts.
func WithPredictionWindow(n int) MarketDataOption {
	return func(u *MarketData) { u.window = n }
}

// WithModelCount sets how many model versions the stats snapshot reports.
func WithModelCount(n int) MarketDataOption {
	return func(u *MarketData) { u.models = n }
}

func NewMarketData(symbol string, source repository.SeriesSource, sc *seriescache.Cache, opts ...MarketDataOption) *MarketData {
	u := &MarketData{
		symbol:    symbol,
		source:    source,
		cache:     sc,
		metrics:   nopMetrics{},
		publisher: nopPublisher{},
		log:       logger.Nop(),
		window:    10,
		models:    3,
		now:       time.Now,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// FetchSeries returns the trailing days of annotated history for a symbol.
// Served from cache when fresh; a miss refetches, annotates and stores.
// Source errors pass through unchanged so callers can inspect their type.
func (u *MarketData) FetchSeries(ctx context.Context, symbol string, days int) ([]models.AnnotatedPricePoint, error) {
	if days <= 0 {
		days = DefaultSeriesDays
	}

	if cached, err := u.cache.Get(ctx, symbol, days); err == nil {
		u.metrics.RecordCacheLookup("hit")
		return cached, nil
	} else if !errors.Is(err, cache.ErrMiss) {
		u.log.Warn("series cache read failed", logger.String("symbol", symbol), logger.Error(err))
	}
	u.metrics.RecordCacheLookup("miss")

	started := u.now()
	raw, err := u.source.FetchDaily(ctx, symbol, repository.SizeForDays(days))
	if err != nil {
		u.metrics.RecordUpstreamRequest("error")
		return nil, err
	}
	u.metrics.RecordUpstreamRequest("success")
	u.metrics.RecordLatency("fetch_daily", u.now().Sub(started).Seconds())

	annotated := forecast.Annotate(raw)
	if len(annotated) > days {
		annotated = annotated[len(annotated)-days:]
	}

	if len(annotated) > 0 {
		u.metrics.RecordLastClose(symbol, annotated[len(annotated)-1].Close)
	}
	if err := u.cache.Set(ctx, symbol, days, annotated); err != nil {
		u.log.Warn("series cache write failed", logger.String("symbol", symbol), logger.Error(err))
	}
	if err := u.publisher.PublishRefresh(ctx, symbol, len(annotated)); err != nil {
		u.log.Warn("refresh event publish failed", logger.String("symbol", symbol), logger.Error(err))
	}

	return annotated, nil
}

// FetchLatest returns the most recent annotated point for a symbol.
func (u *MarketData) FetchLatest(ctx context.Context, symbol string) (models.AnnotatedPricePoint, error) {
	series, err := u.FetchSeries(ctx, symbol, DefaultSeriesDays)
	if err != nil {
		return models.AnnotatedPricePoint{}, err
	}
	if len(series) == 0 {
		return models.AnnotatedPricePoint{}, fmt.Errorf("no data for symbol %s", symbol)
	}
	return series[len(series)-1], nil
}

// FetchPrediction produces the one-step-ahead forecast for a symbol.
func (u *MarketData) FetchPrediction(ctx context.Context, symbol string) (models.Prediction, error) {
	series, err := u.FetchSeries(ctx, symbol, DefaultSeriesDays)
	if err != nil {
		return models.Prediction{}, err
	}

	raw := make([]models.PricePoint, len(series))
	for i, p := range series {
		raw[i] = p.PricePoint
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	return forecast.NextDay(raw, u.window, u.rng)
}

// FetchHistoricalPredictions returns parallel actual/predicted arrays over
// the trailing window, restricted to days that carry a prediction.
func (u *MarketData) FetchHistoricalPredictions(ctx context.Context, symbol string) (models.HistoricalPredictions, error) {
	series, err := u.FetchSeries(ctx, symbol, historyDays)
	if err != nil {
		return models.HistoricalPredictions{}, err
	}

	out := models.HistoricalPredictions{
		Dates:     []string{},
		Actual:    []float64{},
		Predicted: []float64{},
	}
	for _, p := range series {
		if p.PredictedClose == nil {
			continue
		}
		out.Dates = append(out.Dates, p.Date)
		out.Actual = append(out.Actual, p.Close)
		out.Predicted = append(out.Predicted, *p.PredictedClose)
	}
	return out, nil
}

// DatabaseStats recomputes the snapshot from the current pipeline state.
// LastUpdated is the snapshot time, not a mutation time.
func (u *MarketData) DatabaseStats(ctx context.Context) (models.DatabaseStats, error) {
	series, err := u.FetchSeries(ctx, u.symbol, snapshotDays)
	if err != nil {
		return models.DatabaseStats{}, err
	}

	predictions := 0
	for _, p := range series {
		if p.PredictedClose != nil {
			predictions++
		}
	}

	total := len(series) + predictions + u.models
	return models.DatabaseStats{
		TotalRows:       total,
		StockDataCount:  len(series),
		PredictionCount: predictions,
		ModelsCount:     u.models,
		LastUpdated:     u.now().UTC().Format(time.RFC3339),
		DatabaseSize:    fmt.Sprintf("%.1f KB", float64(total)*0.4),
	}, nil
}

// RunQuery evaluates a sandboxed query against the current series. Policy
// violations are reported in the result status, never as a Go error.
func (u *MarketData) RunQuery(ctx context.Context, query string) (models.QueryResult, error) {
	q := strings.ToLower(query)
	if strings.Contains(q, "drop") {
		return models.QueryResult{
			Status:  models.QueryError,
			Message: "DROP statements are not permitted",
		}, nil
	}
	if !strings.Contains(q, "select") {
		return models.QueryResult{
			Status:  models.QueryError,
			Message: "only SELECT queries are supported",
		}, nil
	}

	series, err := u.FetchSeries(ctx, u.symbol, DefaultSeriesDays)
	if err != nil {
		return models.QueryResult{}, err
	}
	if len(series) > queryRows {
		series = series[:queryRows]
	}
	return models.QueryResult{
		Status:   models.QuerySuccess,
		Results:  series,
		RowCount: len(series),
	}, nil
}

// SyncNow drops every cached series so subsequent reads refetch, and stamps
// the sync time.
func (u *MarketData) SyncNow(ctx context.Context) (models.DatabaseConfig, error) {
	if err := u.cache.Flush(ctx); err != nil {
		return models.DatabaseConfig{}, fmt.Errorf("flush series cache: %w", err)
	}

	u.mu.Lock()
	u.lastSynced = u.now().UTC().Format(time.RFC3339)
	cfg := u.configLocked()
	u.mu.Unlock()

	if err := u.publisher.PublishSync(ctx, u.symbol); err != nil {
		u.log.Warn("sync event publish failed", logger.Error(err))
	}
	u.log.Info("cache synced", logger.String("symbol", u.symbol))
	return cfg, nil
}

// Connect flips the simulated connection on under the given backend label.
func (u *MarketData) Connect(dbType string) models.DatabaseConfig {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.connected = true
	u.dbType = dbType
	return u.configLocked()
}

// Disconnect flips the simulated connection off. The backend label and the
// sync stamp survive for the next connect.
func (u *MarketData) Disconnect() models.DatabaseConfig {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.connected = false
	return u.configLocked()
}

// Config reports the simulated connection state.
func (u *MarketData) Config() models.DatabaseConfig {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.configLocked()
}

func (u *MarketData) configLocked() models.DatabaseConfig {
	return models.DatabaseConfig{
		Connected:  u.connected,
		Type:       u.dbType,
		LastSynced: u.lastSynced,
	}
}

// Explorer filters, sorts and paginates the current series for the data
// browser.
func (u *MarketData) Explorer(ctx context.Context, req models.ExplorerRequest) (models.ExplorerPage, error) {
	series, err := u.FetchSeries(ctx, u.symbol, snapshotDays)
	if err != nil {
		return models.ExplorerPage{}, err
	}

	rows := make([]models.AnnotatedPricePoint, 0, len(series))
	for _, p := range series {
		if req.Search == "" || strings.Contains(p.Date, req.Search) {
			rows = append(rows, p)
		}
	}

	asc := req.Order == "asc"
	sort.SliceStable(rows, func(i, j int) bool {
		switch req.Sort {
		case "price":
			if asc {
				return rows[i].Close < rows[j].Close
			}
			return rows[i].Close > rows[j].Close
		case "volume":
			if asc {
				return rows[i].Volume < rows[j].Volume
			}
			return rows[i].Volume > rows[j].Volume
		default:
			if asc {
				return rows[i].Date < rows[j].Date
			}
			return rows[i].Date > rows[j].Date
		}
	})

	total := len(rows)
	page := req.Page
	if page < 1 {
		page = 1
	}
	size := req.PageSize
	if size < 1 {
		size = 10
	}
	start := (page - 1) * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}

	return models.ExplorerPage{Rows: rows[start:end], Total: total, Page: page}, nil
}

// Symbol is the configured primary symbol.
func (u *MarketData) Symbol() string { return u.symbol }

type nopMetrics struct{}

func (nopMetrics) RecordUpstreamRequest(string)    {}
func (nopMetrics) RecordCacheLookup(string)        {}
func (nopMetrics) RecordLastClose(string, float64) {}
func (nopMetrics) RecordLatency(string, float64)   {}

type nopPublisher struct{}

func (nopPublisher) PublishRefresh(context.Context, string, int) error { return nil }
func (nopPublisher) PublishSync(context.Context, string) error         { return nil }
func (nopPublisher) Close() error                                      { return nil }
