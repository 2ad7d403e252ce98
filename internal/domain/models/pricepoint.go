package models

// PricePoint is one trading day's observation for one symbol. Immutable once
// produced by a source.
type PricePoint struct {
	Date   string  `json:"date"` // YYYY-MM-DD, ascending order significant
	Symbol string  `json:"symbol"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// AnnotatedPricePoint extends PricePoint with per-day prediction fields.
// The first element of a series has no prior day and carries none of them.
type AnnotatedPricePoint struct {
	PricePoint
	PredictedClose     *float64 `json:"predictedClose,omitempty"`
	PredictedDate      string   `json:"predictedDate,omitempty"`
	ActualReturn       float64  `json:"actualReturn"`
	PredictedReturn    float64  `json:"predictedReturn"`
	PredictionAccuracy float64  `json:"predictionAccuracy"`
}

// Prediction is the one-step-ahead forecast for the next unseen trading day.
type Prediction struct {
	CurrentPrice    float64 `json:"currentPrice"`
	PredictedPrice  float64 `json:"predictedPrice"`
	PredictedChange float64 `json:"predictedChange"` // percent vs current
	PredictedDate   string  `json:"predictedDate"`
}

// HistoricalPredictions holds parallel arrays of past actual vs predicted
// closes, restricted to points that carry a prediction.
type HistoricalPredictions struct {
	Dates     []string  `json:"dates"`
	Actual    []float64 `json:"actual"`
	Predicted []float64 `json:"predicted"`
}
