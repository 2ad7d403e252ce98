package models

// SeriesRequest asks for the trailing N days of one symbol.
type SeriesRequest struct {
	Symbol string `param:"symbol" validate:"required"`
	Days   int    `query:"days" default:"30" validate:"gte=1,lte=1825"`
}

// ExportRequest asks for a CSV download of the trailing N days.
type ExportRequest struct {
	Symbol string `param:"symbol" validate:"required"`
	Days   int    `query:"days" default:"365" validate:"gte=1,lte=1825"`
}

// SymbolRequest identifies a symbol only.
type SymbolRequest struct {
	Symbol string `param:"symbol" validate:"required"`
}

// ExplorerRequest filters, sorts and paginates the current series.
type ExplorerRequest struct {
	Search   string `query:"search"`
	Sort     string `query:"sort" default:"date" validate:"oneof=date price volume"`
	Order    string `query:"order" default:"desc" validate:"oneof=asc desc"`
	Page     int    `query:"page" default:"1" validate:"gte=1"`
	PageSize int    `query:"page_size" default:"10" validate:"gte=1,lte=100"`
}

// QueryRequest carries one sandboxed query.
type QueryRequest struct {
	Query string `json:"query" validate:"required"`
}

// ConnectRequest selects the simulated database backend label.
type ConnectRequest struct {
	Type string `json:"type" default:"mock" validate:"oneof=mock supabase firebase"`
}
