package synthetic

import (
	"context"
	"math/rand"
	"time"

	"StockPulse/internal/domain/models"
	drepo "StockPulse/internal/domain/repository"
	"StockPulse/pkg/util"
)

// Epoch is the first generated trading date.
var Epoch = time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

// Generate produces a random-walk daily series: each day opens at the prior
// close, moves by a bounded random amount, and wicks above/below the body.
// Deterministic given rng.
func Generate(days int, startClose float64, symbol string, rng *rand.Rand) []models.PricePoint {
	points := make([]models.PricePoint, 0, days)
	previousClose := startClose

	for i := 0; i < days; i++ {
		change := (rng.Float64() - 0.48) * 30
		open := previousClose
		closePx := open + change
		high := maxF(open, closePx) + rng.Float64()*15
		low := minF(open, closePx) - rng.Float64()*15
		volume := 1_000_000 + rng.Int63n(5_000_000)

		points = append(points, models.PricePoint{
			Date:   util.FormatDay(Epoch.AddDate(0, 0, i)),
			Symbol: symbol,
			Open:   util.Round2(open),
			High:   util.Round2(high),
			Low:    util.Round2(low),
			Close:  util.Round2(closePx),
			Volume: volume,
		})
		previousClose = closePx
	}
	return points
}

// Source serves a pre-generated synthetic series as a SeriesSource. The
// series is generated once at construction, so repeated fetches observe the
// same history, like a real provider would.
type Source struct {
	series []models.PricePoint
}

// NewSource generates a synthetic history for symbol.
func NewSource(symbol string, days int, startClose float64, seed int64) *Source {
	return &Source{
		series: Generate(days, startClose, symbol, rand.New(rand.NewSource(seed))),
	}
}

// FetchDaily returns the trailing window of the generated history. It never
// fails.
func (s *Source) FetchDaily(_ context.Context, _ string, size drepo.OutputSize) ([]models.PricePoint, error) {
	n := len(s.series)
	if size == drepo.OutputCompact && n > 100 {
		n = 100
	}
	out := make([]models.PricePoint, n)
	copy(out, s.series[len(s.series)-n:])
	return out, nil
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

var _ drepo.SeriesSource = (*Source)(nil)
