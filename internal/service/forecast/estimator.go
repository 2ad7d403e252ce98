package forecast

import (
	"fmt"
	"math"
	"math/rand"

	"StockPulse/internal/domain/models"
	"StockPulse/pkg/util"
)

// annotateWindow is the trailing-close count used for per-day forecasts.
const annotateWindow = 5

// Annotate derives per-day prediction fields for an ordered series. The
// output has the same length and order as the input. Index 0 has no prior
// day and is passed through bare.
//
// The per-day forecast is the simple moving average of the min(i, 5) most
// recent closes ending at index i; it stands for the following day, so
// PredictedDate is the point's date plus one.
//
// A zero prior close makes the return computations divide by zero; the
// resulting Inf/NaN propagates to the caller rather than being masked.
func Annotate(series []models.PricePoint) []models.AnnotatedPricePoint {
	out := make([]models.AnnotatedPricePoint, len(series))
	for i, p := range series {
		out[i] = models.AnnotatedPricePoint{PricePoint: p}
		if i == 0 {
			continue
		}

		w := i
		if w > annotateWindow {
			w = annotateWindow
		}
		var sum float64
		for _, q := range series[i-w+1 : i+1] {
			sum += q.Close
		}
		predicted := sum / float64(w)

		prior := series[i-1].Close
		actualReturn := (p.Close - prior) / prior * 100
		predictedReturn := (predicted - prior) / prior * 100

		out[i].PredictedClose = &predicted
		out[i].PredictedDate = util.NextDayString(p.Date)
		out[i].ActualReturn = actualReturn
		out[i].PredictedReturn = predictedReturn
		out[i].PredictionAccuracy = 100 - math.Abs(predictedReturn-actualReturn)
	}
	return out
}

// NextDay produces the one-step-ahead forecast for the day after the last
// point: the mean of the trailing window closes, perturbed by a bounded
// random factor of ±2%.
func NextDay(series []models.PricePoint, window int, rng *rand.Rand) (models.Prediction, error) {
	if len(series) == 0 {
		return models.Prediction{}, fmt.Errorf("empty series")
	}
	if window <= 0 {
		window = 10
	}

	start := len(series) - window
	if start < 0 {
		start = 0
	}
	var sum float64
	for _, p := range series[start:] {
		sum += p.Close
	}
	mean := sum / float64(len(series)-start)

	latest := series[len(series)-1]
	predicted := util.Round2(mean * (1 + (rng.Float64()*0.04 - 0.02)))
	change := (predicted - latest.Close) / latest.Close * 100

	return models.Prediction{
		CurrentPrice:    latest.Close,
		PredictedPrice:  predicted,
		PredictedChange: util.Round2(change),
		PredictedDate:   util.NextDayString(latest.Date),
	}, nil
}
