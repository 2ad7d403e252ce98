package usecase

import (
	"StockPulse/internal/domain/models"
	"StockPulse/internal/service/modelmeta"
)

// ModelRegistry exposes model metadata to the API layer.
type ModelRegistry struct {
	registry *modelmeta.Registry
}

func NewModelRegistry(registry *modelmeta.Registry) *ModelRegistry {
	return &ModelRegistry{registry: registry}
}

func (u *ModelRegistry) Current() models.ModelInfo {
	return u.registry.Current()
}

func (u *ModelRegistry) MetricsHistory() []models.PredictionMetrics {
	return u.registry.MetricsHistory()
}

func (u *ModelRegistry) TrainingLogs() []models.TrainingLog {
	return u.registry.TrainingLogs()
}

// VersionCount reports how many distinct model versions appear in the
// metrics history. The stats snapshot uses it as the models row count.
func (u *ModelRegistry) VersionCount() int {
	seen := map[string]struct{}{}
	for _, m := range u.registry.MetricsHistory() {
		seen[m.ModelVersion] = struct{}{}
	}
	return len(seen)
}
