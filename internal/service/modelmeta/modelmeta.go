// Package modelmeta holds versioned metadata about the predictive model.
// The registry is seeded in memory; a training run appends, never mutates.
package modelmeta

import (
	"StockPulse/internal/domain/models"
)

// Registry serves model descriptions, performance history and training
// logs. All slices are ordered by date ascending and treated as
// append-only.
type Registry struct {
	current models.ModelInfo
	metrics []models.PredictionMetrics
	logs    []models.TrainingLog
}

// NewRegistry builds a registry with the seeded model lineage.
func NewRegistry() *Registry {
	return &Registry{
		current: models.ModelInfo{
			ModelVersion:  "v2.1.0",
			TrainDate:     "2024-01-15",
			AlgorithmType: "LSTM Neural Network",
			Features: []string{
				"close_lag_1", "close_lag_5", "sma_5", "sma_20",
				"volume_change", "rsi_14",
			},
			Hyperparameters: map[string]any{
				"epochs":        100,
				"batch_size":    32,
				"learning_rate": 0.001,
				"lookback_days": 60,
				"hidden_units":  128,
			},
			Description: "Sequence model over trailing OHLCV windows with " +
				"moving-average and momentum features.",
			FeatureImportance: map[string]float64{
				"close_lag_1":   0.34,
				"sma_5":         0.22,
				"close_lag_5":   0.18,
				"sma_20":        0.12,
				"rsi_14":        0.08,
				"volume_change": 0.06,
			},
			DataStartDate: "2023-01-01",
			DataEndDate:   "2024-01-14",
		},
		metrics: []models.PredictionMetrics{
			{
				Date: "2023-10-01", ModelVersion: "v1.0.0",
				RMSE: 42.8, R2Score: 0.81, MAPE: 2.9,
				TrainingDataSize: 180, TestDataSize: 45,
				CrossValidationScore: 0.78,
			},
			{
				Date: "2023-12-01", ModelVersion: "v2.0.0",
				RMSE: 31.2, R2Score: 0.87, MAPE: 2.1,
				TrainingDataSize: 230, TestDataSize: 58,
				CrossValidationScore: 0.85,
			},
			{
				Date: "2024-01-15", ModelVersion: "v2.1.0",
				RMSE: 24.6, R2Score: 0.91, MAPE: 1.6,
				TrainingDataSize: 260, TestDataSize: 65,
				CrossValidationScore: 0.89,
			},
		},
		logs: []models.TrainingLog{
			{
				Date: "2023-10-01", ModelVersion: "v1.0.0",
				Duration: 312.4, Iterations: 100, Status: models.TrainingSuccess,
				Notes: "Initial baseline on close-price lags only.",
			},
			{
				Date: "2023-11-20", ModelVersion: "v2.0.0-rc1",
				Duration: 95.1, Iterations: 24, Status: models.TrainingFailed,
				ErrorMessage: "loss diverged after epoch 24, learning rate too high",
			},
			{
				Date: "2023-12-01", ModelVersion: "v2.0.0",
				Duration: 405.7, Iterations: 100, Status: models.TrainingSuccess,
				Notes: "Added SMA and volume features, lowered learning rate.",
			},
			{
				Date: "2024-01-15", ModelVersion: "v2.1.0",
				Duration: 451.9, Iterations: 100, Status: models.TrainingSuccess,
				Notes: "Extended lookback window to 60 days.",
			},
		},
	}
}

// Current returns the active model version's description.
func (r *Registry) Current() models.ModelInfo {
	return r.current
}

// MetricsHistory returns performance snapshots, oldest first.
func (r *Registry) MetricsHistory() []models.PredictionMetrics {
	out := make([]models.PredictionMetrics, len(r.metrics))
	copy(out, r.metrics)
	return out
}

// TrainingLogs returns training run records, oldest first.
func (r *Registry) TrainingLogs() []models.TrainingLog {
	out := make([]models.TrainingLog, len(r.logs))
	copy(out, r.logs)
	return out
}
