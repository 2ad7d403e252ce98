package forecast

import (
	"fmt"
	"math"
	"math/rand"
	"testing"

	"StockPulse/internal/domain/models"
)

func buildSeries(closes ...float64) []models.PricePoint {
	series := make([]models.PricePoint, len(closes))
	for i, c := range closes {
		series[i] = models.PricePoint{
			Date:   fmt.Sprintf("2024-01-%02d", i+1),
			Symbol: "RELIANCE.NS",
			Open:   c,
			High:   c,
			Low:    c,
			Close:  c,
			Volume: 1_000_000,
		}
	}
	return series
}

func TestAnnotateMovingAverageWindow(t *testing.T) {
	series := buildSeries(10, 12, 14, 16, 18, 20)
	out := Annotate(series)

	if len(out) != len(series) {
		t.Fatalf("Annotate() returned %d points, want %d", len(out), len(series))
	}
	if out[0].PredictedClose != nil {
		t.Fatalf("Annotate() index 0 predicted close = %v, want nil", *out[0].PredictedClose)
	}

	// Index 5 averages the five most recent closes, 12 through 20.
	if got := *out[5].PredictedClose; got != 16 {
		t.Fatalf("Annotate() index 5 predicted close = %v, want 16", got)
	}
	// Index 2 has only two closes in its window, 12 and 14.
	if got := *out[2].PredictedClose; got != 13 {
		t.Fatalf("Annotate() index 2 predicted close = %v, want 13", got)
	}
	if got := out[5].PredictedDate; got != "2024-01-07" {
		t.Fatalf("Annotate() index 5 predicted date = %q, want 2024-01-07", got)
	}
}

func TestAnnotateReturnsAndAccuracy(t *testing.T) {
	out := Annotate(buildSeries(100, 110, 121))

	p := out[2]
	if p.PredictedClose == nil {
		t.Fatal("Annotate() index 2 predicted close is nil")
	}
	// Window is [110, 121], so the forecast is 115.5.
	if got := *p.PredictedClose; got != 115.5 {
		t.Fatalf("Annotate() index 2 predicted close = %v, want 115.5", got)
	}
	if got := p.ActualReturn; got != 10 {
		t.Fatalf("Annotate() index 2 actual return = %v, want 10", got)
	}
	if got := p.PredictedReturn; got != 5 {
		t.Fatalf("Annotate() index 2 predicted return = %v, want 5", got)
	}
	if got := p.PredictionAccuracy; got != 95 {
		t.Fatalf("Annotate() index 2 accuracy = %v, want 95", got)
	}
}

func TestAnnotateZeroPriorClose(t *testing.T) {
	out := Annotate(buildSeries(0, 10))

	if !math.IsInf(out[1].ActualReturn, 1) {
		t.Fatalf("Annotate() actual return over zero close = %v, want +Inf", out[1].ActualReturn)
	}
}

func TestNextDayBounds(t *testing.T) {
	series := buildSeries(100, 100, 100, 100, 100, 100, 100, 100, 100, 100)
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 200; i++ {
		p, err := NextDay(series, 10, rng)
		if err != nil {
			t.Fatalf("NextDay() error = %v", err)
		}
		// The forecast perturbs the window mean by at most two percent.
		if p.PredictedPrice < 98 || p.PredictedPrice > 102 {
			t.Fatalf("NextDay() predicted price = %v, want within [98, 102]", p.PredictedPrice)
		}
		if p.CurrentPrice != 100 {
			t.Fatalf("NextDay() current price = %v, want 100", p.CurrentPrice)
		}
	}
}

func TestNextDayDateAndEmptySeries(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	if _, err := NextDay(nil, 10, rng); err == nil {
		t.Fatal("NextDay() with empty series expected error, got nil")
	}

	series := buildSeries(50, 60)
	p, err := NextDay(series, 10, rng)
	if err != nil {
		t.Fatalf("NextDay() error = %v", err)
	}
	if p.PredictedDate != "2024-01-03" {
		t.Fatalf("NextDay() predicted date = %q, want 2024-01-03", p.PredictedDate)
	}
}
