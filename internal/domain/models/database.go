package models

// DatabaseStats is a derived snapshot recomputed on demand from the current
// pipeline state. LastUpdated is the snapshot time, not a mutation time.
type DatabaseStats struct {
	TotalRows       int    `json:"totalRows"`
	StockDataCount  int    `json:"stockDataCount"`
	PredictionCount int    `json:"predictionCount"`
	ModelsCount     int    `json:"modelsCount"`
	LastUpdated     string `json:"lastUpdated"`
	DatabaseSize    string `json:"databaseSize"`
}

// DatabaseConfig reports the simulated connection state.
type DatabaseConfig struct {
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
	LastSynced string `json:"lastSynced"`
}

// Query sandbox result statuses.
const (
	QuerySuccess = "success"
	QueryError   = "error"
)

// QueryResult is the outcome of a sandboxed query. Policy violations are
// reported here, never as a Go error.
type QueryResult struct {
	Status   string                `json:"status"`
	Results  []AnnotatedPricePoint `json:"results,omitempty"`
	RowCount int                   `json:"rowCount"`
	Message  string                `json:"message,omitempty"`
}

// ExplorerPage is one page of filtered/sorted series rows.
type ExplorerPage struct {
	Rows  []AnnotatedPricePoint `json:"rows"`
	Total int                   `json:"total"`
	Page  int                   `json:"page"`
}
