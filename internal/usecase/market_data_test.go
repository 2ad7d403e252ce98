package usecase

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"StockPulse/internal/domain/models"
	"StockPulse/internal/domain/repository"
	"StockPulse/internal/service/seriescache"
	"StockPulse/pkg/cache"
)

type fakeSource struct {
	mu     sync.Mutex
	calls  int
	series []models.PricePoint
	err    error
}

func (f *fakeSource) FetchDaily(_ context.Context, _ string, _ repository.OutputSize) ([]models.PricePoint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.PricePoint, len(f.series))
	copy(out, f.series)
	return out, nil
}

func (f *fakeSource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func dailySeries(n int) []models.PricePoint {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	series := make([]models.PricePoint, n)
	for i := range series {
		c := 100 + float64(i)
		series[i] = models.PricePoint{
			Date:   base.AddDate(0, 0, i).Format("2006-01-02"),
			Symbol: "RELIANCE.NS",
			Open:   c - 0.5,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: int64(1_000_000 + i),
		}
	}
	return series
}

type env struct {
	data   *MarketData
	source *fakeSource
	now    *time.Time
}

func newEnv(points int) *env {
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	e := &env{
		source: &fakeSource{series: dailySeries(points)},
		now:    &now,
	}
	store := cache.NewMemoryCache(cache.WithClock(func() time.Time { return *e.now }))
	e.data = NewMarketData("RELIANCE.NS", e.source, seriescache.New(store, 0),
		WithClock(func() time.Time { return *e.now }),
		WithRand(rand.New(rand.NewSource(42))),
	)
	return e
}

func TestFetchSeriesTrailingWindow(t *testing.T) {
	e := newEnv(100)

	series, err := e.data.FetchSeries(context.Background(), "RELIANCE.NS", 30)
	if err != nil {
		t.Fatalf("FetchSeries() error = %v", err)
	}
	if len(series) != 30 {
		t.Fatalf("FetchSeries() returned %d points, want 30", len(series))
	}
	// The window keeps the most recent 30 days of the 100-day fetch.
	if got := series[len(series)-1].Close; got != 199 {
		t.Fatalf("FetchSeries() last close = %v, want 199", got)
	}
	if series[0].PredictedClose == nil {
		t.Fatal("trailing slice dropped its annotations")
	}
}

func TestFetchSeriesServedFromCache(t *testing.T) {
	e := newEnv(40)
	ctx := context.Background()

	if _, err := e.data.FetchSeries(ctx, "RELIANCE.NS", 30); err != nil {
		t.Fatalf("FetchSeries() error = %v", err)
	}
	if _, err := e.data.FetchSeries(ctx, "RELIANCE.NS", 30); err != nil {
		t.Fatalf("FetchSeries() error = %v", err)
	}
	if got := e.source.callCount(); got != 1 {
		t.Fatalf("source fetched %d times within TTL, want 1", got)
	}

	*e.now = e.now.Add(16 * time.Minute)
	if _, err := e.data.FetchSeries(ctx, "RELIANCE.NS", 30); err != nil {
		t.Fatalf("FetchSeries() error = %v", err)
	}
	if got := e.source.callCount(); got != 2 {
		t.Fatalf("source fetched %d times after expiry, want 2", got)
	}
}

func TestFetchSeriesPropagatesSourceErrors(t *testing.T) {
	e := newEnv(0)
	e.source.err = &repository.APIError{Message: "rate limit exceeded"}

	_, err := e.data.FetchSeries(context.Background(), "RELIANCE.NS", 30)
	var apiErr *repository.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("FetchSeries() error = %v, want *repository.APIError", err)
	}
	if apiErr.Message != "rate limit exceeded" {
		t.Fatalf("FetchSeries() error message = %q", apiErr.Message)
	}
}

func TestFetchLatest(t *testing.T) {
	e := newEnv(40)

	latest, err := e.data.FetchLatest(context.Background(), "RELIANCE.NS")
	if err != nil {
		t.Fatalf("FetchLatest() error = %v", err)
	}
	if latest.Close != 139 {
		t.Fatalf("FetchLatest() close = %v, want 139", latest.Close)
	}
}

func TestFetchPredictionBounds(t *testing.T) {
	e := newEnv(40)

	p, err := e.data.FetchPrediction(context.Background(), "RELIANCE.NS")
	if err != nil {
		t.Fatalf("FetchPrediction() error = %v", err)
	}
	if p.CurrentPrice != 139 {
		t.Fatalf("FetchPrediction() current price = %v, want 139", p.CurrentPrice)
	}
	// Mean of the last 10 closes is 134.5; the perturbation stays within 2%.
	if p.PredictedPrice < 131.81 || p.PredictedPrice > 137.19 {
		t.Fatalf("FetchPrediction() predicted price = %v out of bounds", p.PredictedPrice)
	}
	if p.PredictedDate == "" {
		t.Fatal("FetchPrediction() has empty predicted date")
	}
}

func TestFetchHistoricalPredictionsFiltered(t *testing.T) {
	e := newEnv(70)

	h, err := e.data.FetchHistoricalPredictions(context.Background(), "RELIANCE.NS")
	if err != nil {
		t.Fatalf("FetchHistoricalPredictions() error = %v", err)
	}
	if len(h.Dates) == 0 {
		t.Fatal("FetchHistoricalPredictions() returned no points")
	}
	if len(h.Dates) != len(h.Actual) || len(h.Dates) != len(h.Predicted) {
		t.Fatalf("FetchHistoricalPredictions() arrays out of step: %d/%d/%d",
			len(h.Dates), len(h.Actual), len(h.Predicted))
	}
	// The 70-day fetch is trimmed to 60 trailing days; all of them carry a
	// prediction because the bare first point fell outside the window.
	if len(h.Dates) != 60 {
		t.Fatalf("FetchHistoricalPredictions() returned %d points, want 60", len(h.Dates))
	}
}

func TestDatabaseStats(t *testing.T) {
	e := newEnv(50)

	stats, err := e.data.DatabaseStats(context.Background())
	if err != nil {
		t.Fatalf("DatabaseStats() error = %v", err)
	}
	if stats.StockDataCount != 50 {
		t.Fatalf("DatabaseStats() stock rows = %d, want 50", stats.StockDataCount)
	}
	// Index 0 has no prediction.
	if stats.PredictionCount != 49 {
		t.Fatalf("DatabaseStats() prediction rows = %d, want 49", stats.PredictionCount)
	}
	if stats.TotalRows != stats.StockDataCount+stats.PredictionCount+stats.ModelsCount {
		t.Fatalf("DatabaseStats() total = %d, want sum of parts", stats.TotalRows)
	}
	if stats.LastUpdated != "2024-06-01T09:00:00Z" {
		t.Fatalf("DatabaseStats() lastUpdated = %q", stats.LastUpdated)
	}
}

func TestRunQuerySandbox(t *testing.T) {
	e := newEnv(40)
	ctx := context.Background()

	res, err := e.data.RunQuery(ctx, "SELECT * FROM stocks LIMIT 5")
	if err != nil {
		t.Fatalf("RunQuery() error = %v", err)
	}
	if res.Status != models.QuerySuccess || res.RowCount != 5 || len(res.Results) != 5 {
		t.Fatalf("RunQuery() = %+v, want 5-row success", res)
	}

	res, err = e.data.RunQuery(ctx, "DROP TABLE stocks")
	if err != nil {
		t.Fatalf("RunQuery() returned Go error for policy violation: %v", err)
	}
	if res.Status != models.QueryError || len(res.Results) != 0 {
		t.Fatalf("RunQuery() on DROP = %+v, want error status", res)
	}

	// DROP wins even when the text also says select.
	res, _ = e.data.RunQuery(ctx, "select * from stocks; drop table stocks")
	if res.Status != models.QueryError {
		t.Fatalf("RunQuery() on mixed statement = %+v, want error status", res)
	}

	res, _ = e.data.RunQuery(ctx, "UPDATE stocks SET close = 0")
	if res.Status != models.QueryError {
		t.Fatalf("RunQuery() on UPDATE = %+v, want error status", res)
	}

	// Keyword matching ignores case.
	res, _ = e.data.RunQuery(ctx, "Select date, close From stocks")
	if res.Status != models.QuerySuccess {
		t.Fatalf("RunQuery() on mixed-case select = %+v, want success", res)
	}
}

func TestSyncNowForcesRefetch(t *testing.T) {
	e := newEnv(40)
	ctx := context.Background()

	if _, err := e.data.FetchSeries(ctx, "RELIANCE.NS", 30); err != nil {
		t.Fatalf("FetchSeries() error = %v", err)
	}
	cfg, err := e.data.SyncNow(ctx)
	if err != nil {
		t.Fatalf("SyncNow() error = %v", err)
	}
	if cfg.LastSynced != "2024-06-01T09:00:00Z" {
		t.Fatalf("SyncNow() lastSynced = %q", cfg.LastSynced)
	}

	if _, err := e.data.FetchSeries(ctx, "RELIANCE.NS", 30); err != nil {
		t.Fatalf("FetchSeries() error = %v", err)
	}
	if got := e.source.callCount(); got != 2 {
		t.Fatalf("source fetched %d times after sync, want 2", got)
	}
}

func TestConnectionLifecycle(t *testing.T) {
	e := newEnv(40)

	if cfg := e.data.Config(); cfg.Connected {
		t.Fatal("Config() reports connected before Connect()")
	}

	cfg := e.data.Connect("supabase")
	if !cfg.Connected || cfg.Type != "supabase" {
		t.Fatalf("Connect() = %+v", cfg)
	}

	cfg = e.data.Disconnect()
	if cfg.Connected {
		t.Fatalf("Disconnect() = %+v, still connected", cfg)
	}
	// The backend label survives a disconnect.
	if cfg.Type != "supabase" {
		t.Fatalf("Disconnect() type = %q, want supabase", cfg.Type)
	}
}

func TestExplorer(t *testing.T) {
	e := newEnv(40)
	ctx := context.Background()

	page, err := e.data.Explorer(ctx, models.ExplorerRequest{
		Sort: "date", Order: "desc", Page: 1, PageSize: 10,
	})
	if err != nil {
		t.Fatalf("Explorer() error = %v", err)
	}
	if page.Total != 40 || len(page.Rows) != 10 {
		t.Fatalf("Explorer() total=%d rows=%d, want 40/10", page.Total, len(page.Rows))
	}
	if page.Rows[0].Date < page.Rows[1].Date {
		t.Fatal("Explorer() desc order not applied")
	}

	page, err = e.data.Explorer(ctx, models.ExplorerRequest{
		Search: "2024-02", Sort: "price", Order: "asc", Page: 1, PageSize: 100,
	})
	if err != nil {
		t.Fatalf("Explorer() error = %v", err)
	}
	for _, row := range page.Rows {
		if row.Date[:7] != "2024-02" {
			t.Fatalf("Explorer() search let through %q", row.Date)
		}
	}
	for i := 1; i < len(page.Rows); i++ {
		if page.Rows[i].Close < page.Rows[i-1].Close {
			t.Fatal("Explorer() price asc order not applied")
		}
	}

	// Pages past the data come back empty but keep the total.
	page, err = e.data.Explorer(ctx, models.ExplorerRequest{
		Sort: "date", Order: "asc", Page: 9, PageSize: 10,
	})
	if err != nil {
		t.Fatalf("Explorer() error = %v", err)
	}
	if page.Total != 40 || len(page.Rows) != 0 {
		t.Fatalf("Explorer() past-end page total=%d rows=%d, want 40/0", page.Total, len(page.Rows))
	}
}
