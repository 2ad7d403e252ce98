package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"StockPulse/internal/domain/models"
	"StockPulse/internal/domain/repository"
	"StockPulse/internal/service/modelmeta"
	"StockPulse/internal/service/seriescache"
	"StockPulse/internal/usecase"
	"StockPulse/pkg/cache"
	xhttp "StockPulse/pkg/http"
	"StockPulse/pkg/logger"
)

type stubSource struct {
	series []models.PricePoint
	err    error
}

func (s *stubSource) FetchDaily(context.Context, string, repository.OutputSize) ([]models.PricePoint, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.series, nil
}

func testSeries(n int) []models.PricePoint {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	series := make([]models.PricePoint, n)
	for i := range series {
		c := 100 + float64(i)
		series[i] = models.PricePoint{
			Date:   base.AddDate(0, 0, i).Format("2006-01-02"),
			Symbol: "RELIANCE.NS",
			Open:   c, High: c + 1, Low: c - 1, Close: c,
			Volume: 1_000_000,
		}
	}
	return series
}

func newTestHandler(src repository.SeriesSource) (*DashboardHandler, *echo.Echo) {
	data := usecase.NewMarketData("RELIANCE.NS", src, seriescache.New(cache.NewMemoryCache(), 0))
	registry := usecase.NewModelRegistry(modelmeta.NewRegistry())
	h := NewDashboardHandler(data, registry, logger.Nop())

	e := echo.New()
	h.RegisterRoutes(e)
	return h, e
}

func doRequest(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) xhttp.APIResponse {
	t.Helper()
	var env xhttp.APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response: %v (%s)", err, rec.Body.String())
	}
	return env
}

func TestSeriesEndpoint(t *testing.T) {
	_, e := newTestHandler(&stubSource{series: testSeries(30)})

	rec := doRequest(e, http.MethodGet, "/api/stocks/RELIANCE.NS/series?days=10", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("series status = %d, body %s", rec.Code, rec.Body.String())
	}

	env := decodeEnvelope(t, rec)
	if env.Status != http.StatusOK {
		t.Fatalf("envelope status = %d", env.Status)
	}
	rows, ok := env.Data.([]interface{})
	if !ok {
		t.Fatalf("series data is %T, want array", env.Data)
	}
	if len(rows) != 10 {
		t.Fatalf("series returned %d rows, want 10", len(rows))
	}
}

func TestSeriesEndpointRejectsBadDays(t *testing.T) {
	_, e := newTestHandler(&stubSource{series: testSeries(30)})

	rec := doRequest(e, http.MethodGet, "/api/stocks/RELIANCE.NS/series?days=-1", "")
	env := decodeEnvelope(t, rec)
	if env.Status != http.StatusBadRequest {
		t.Fatalf("envelope status = %d, want 400", env.Status)
	}
}

func TestSeriesEndpointUpstreamFailure(t *testing.T) {
	_, e := newTestHandler(&stubSource{err: &repository.StatusError{Status: 503}})

	rec := doRequest(e, http.MethodGet, "/api/stocks/RELIANCE.NS/series", "")
	env := decodeEnvelope(t, rec)
	if env.Status != http.StatusBadGateway {
		t.Fatalf("envelope status = %d, want 502", env.Status)
	}
}

func TestQueryEndpointSandbox(t *testing.T) {
	_, e := newTestHandler(&stubSource{series: testSeries(30)})

	rec := doRequest(e, http.MethodPost, "/api/database/query",
		`{"query":"SELECT * FROM stocks LIMIT 5"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("query status = %d", rec.Code)
	}
	var env struct {
		Data models.QueryResult `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode query result: %v", err)
	}
	if env.Data.Status != models.QuerySuccess || env.Data.RowCount != 5 {
		t.Fatalf("query result = %+v, want 5-row success", env.Data)
	}

	rec = doRequest(e, http.MethodPost, "/api/database/query",
		`{"query":"DROP TABLE stocks"}`)
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode query result: %v", err)
	}
	// Policy violations still travel as 200s with an error status inside.
	if rec.Code != http.StatusOK || env.Data.Status != models.QueryError {
		t.Fatalf("blocked query: code=%d result=%+v", rec.Code, env.Data)
	}
}

func TestConnectEndpointValidatesType(t *testing.T) {
	_, e := newTestHandler(&stubSource{series: testSeries(30)})

	rec := doRequest(e, http.MethodPost, "/api/database/connect", `{"type":"oracle"}`)
	env := decodeEnvelope(t, rec)
	if env.Status != http.StatusBadRequest {
		t.Fatalf("envelope status = %d, want 400", env.Status)
	}

	rec = doRequest(e, http.MethodPost, "/api/database/connect", `{"type":"supabase"}`)
	var ok struct {
		Data models.DatabaseConfig `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &ok); err != nil {
		t.Fatalf("decode connect result: %v", err)
	}
	if !ok.Data.Connected || ok.Data.Type != "supabase" {
		t.Fatalf("connect result = %+v", ok.Data)
	}
}

func TestExportEndpoint(t *testing.T) {
	_, e := newTestHandler(&stubSource{series: testSeries(10)})

	rec := doRequest(e, http.MethodGet, "/api/stocks/RELIANCE.NS/export?days=10", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("export status = %d", rec.Code)
	}
	if got := rec.Header().Get(echo.HeaderContentDisposition); !strings.Contains(got, "RELIANCE.NS_stock_data_") {
		t.Fatalf("content disposition = %q", got)
	}

	lines := strings.Split(strings.TrimRight(rec.Body.String(), "\n"), "\n")
	if lines[0] != "Date,Open,High,Low,Close,Volume,Predicted" {
		t.Fatalf("csv header = %q", lines[0])
	}
	if len(lines) != 11 {
		t.Fatalf("csv has %d lines, want 11", len(lines))
	}
	// The first data row has no prediction.
	if !strings.HasSuffix(lines[1], ",N/A") {
		t.Fatalf("first csv row = %q, want N/A prediction", lines[1])
	}
}

func TestModelEndpoints(t *testing.T) {
	_, e := newTestHandler(&stubSource{series: testSeries(10)})

	for _, target := range []string{"/api/model", "/api/model/metrics", "/api/model/logs"} {
		rec := doRequest(e, http.MethodGet, target, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("GET %s status = %d", target, rec.Code)
		}
	}
}

func TestDatabaseStatsEndpoint(t *testing.T) {
	_, e := newTestHandler(&stubSource{series: testSeries(20)})

	rec := doRequest(e, http.MethodGet, "/api/database/stats", "")
	var env struct {
		Data models.DatabaseStats `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if env.Data.StockDataCount != 20 || env.Data.LastUpdated == "" {
		t.Fatalf("stats = %+v", env.Data)
	}
}
