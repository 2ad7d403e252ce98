package models

// ModelInfo describes one version of the predictive model. A new training
// run produces a new version rather than mutating an old one.
type ModelInfo struct {
	ModelVersion      string             `json:"modelVersion"`
	TrainDate         string             `json:"trainDate"`
	AlgorithmType     string             `json:"algorithmType"`
	Features          []string           `json:"features"`
	Hyperparameters   map[string]any     `json:"hyperparameters"`
	Description       string             `json:"description"`
	FeatureImportance map[string]float64 `json:"featureImportance,omitempty"`
	DataStartDate     string             `json:"dataStartDate,omitempty"`
	DataEndDate       string             `json:"dataEndDate,omitempty"`
}

// PredictionMetrics is one performance snapshot for a model version.
// History is append-only, ordered by date ascending.
type PredictionMetrics struct {
	Date                 string  `json:"date"`
	ModelVersion         string  `json:"modelVersion"`
	RMSE                 float64 `json:"rmse"`
	R2Score              float64 `json:"r2Score"`
	MAPE                 float64 `json:"mape,omitempty"`
	TrainingDataSize     int     `json:"trainingDataSize,omitempty"`
	TestDataSize         int     `json:"testDataSize,omitempty"`
	CrossValidationScore float64 `json:"crossValidationScore,omitempty"`
}

// Training run status values. "failed" and "success" are terminal.
const (
	TrainingSuccess    = "success"
	TrainingFailed     = "failed"
	TrainingInProgress = "in_progress"
)

// TrainingLog is an append-only record of one training run.
type TrainingLog struct {
	Date         string  `json:"date"`
	ModelVersion string  `json:"modelVersion"`
	Duration     float64 `json:"duration"` // seconds
	Iterations   int     `json:"iterations"`
	Status       string  `json:"status"`
	Notes        string  `json:"notes,omitempty"`
	ErrorMessage string  `json:"errorMessage,omitempty"`
}
