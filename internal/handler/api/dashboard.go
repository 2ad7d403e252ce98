package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"StockPulse/internal/domain/models"
	"StockPulse/internal/domain/repository"
	"StockPulse/internal/service/export"
	"StockPulse/internal/usecase"
	xhttp "StockPulse/pkg/http"
	"StockPulse/pkg/logger"
)

// DashboardHandler exposes the dashboard data pipeline over JSON.
type DashboardHandler struct {
	data     *usecase.MarketData
	registry *usecase.ModelRegistry
	log      *logger.Logger
}

func NewDashboardHandler(data *usecase.MarketData, registry *usecase.ModelRegistry, log *logger.Logger) *DashboardHandler {
	return &DashboardHandler{data: data, registry: registry, log: log}
}

func (h *DashboardHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.Health)

	api := e.Group("/api")
	api.GET("/stocks/:symbol/series", h.Series)
	api.GET("/stocks/:symbol/latest", h.Latest)
	api.GET("/stocks/:symbol/prediction", h.Prediction)
	api.GET("/stocks/:symbol/predictions/history", h.PredictionHistory)
	api.GET("/stocks/:symbol/export", h.Export)
	api.GET("/explorer", h.Explorer)

	api.GET("/model", h.Model)
	api.GET("/model/metrics", h.ModelMetrics)
	api.GET("/model/logs", h.ModelLogs)

	api.GET("/database/stats", h.DatabaseStats)
	api.GET("/database/config", h.DatabaseConfig)
	api.POST("/database/connect", h.Connect)
	api.POST("/database/disconnect", h.Disconnect)
	api.POST("/database/sync", h.Sync)
	api.POST("/database/query", h.Query)
}

func (h *DashboardHandler) Health(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string]string{"status": "ok"})
}

func (h *DashboardHandler) Series(c echo.Context) error {
	var req models.SeriesRequest
	if errs := xhttp.ReadAndValidateRequest(c, &req); errs != nil {
		return xhttp.BadRequestResponse(c, errs)
	}

	series, err := h.data.FetchSeries(c.Request().Context(), req.Symbol, req.Days)
	if err != nil {
		return h.upstreamError(c, err)
	}
	return xhttp.SuccessResponse(c, series)
}

func (h *DashboardHandler) Latest(c echo.Context) error {
	var req models.SymbolRequest
	if errs := xhttp.ReadAndValidateRequest(c, &req); errs != nil {
		return xhttp.BadRequestResponse(c, errs)
	}

	latest, err := h.data.FetchLatest(c.Request().Context(), req.Symbol)
	if err != nil {
		return h.upstreamError(c, err)
	}
	return xhttp.SuccessResponse(c, latest)
}

func (h *DashboardHandler) Prediction(c echo.Context) error {
	var req models.SymbolRequest
	if errs := xhttp.ReadAndValidateRequest(c, &req); errs != nil {
		return xhttp.BadRequestResponse(c, errs)
	}

	prediction, err := h.data.FetchPrediction(c.Request().Context(), req.Symbol)
	if err != nil {
		return h.upstreamError(c, err)
	}
	return xhttp.SuccessResponse(c, prediction)
}

func (h *DashboardHandler) PredictionHistory(c echo.Context) error {
	var req models.SymbolRequest
	if errs := xhttp.ReadAndValidateRequest(c, &req); errs != nil {
		return xhttp.BadRequestResponse(c, errs)
	}

	history, err := h.data.FetchHistoricalPredictions(c.Request().Context(), req.Symbol)
	if err != nil {
		return h.upstreamError(c, err)
	}
	return xhttp.SuccessResponse(c, history)
}

func (h *DashboardHandler) Export(c echo.Context) error {
	var req models.ExportRequest
	if errs := xhttp.ReadAndValidateRequest(c, &req); errs != nil {
		return xhttp.BadRequestResponse(c, errs)
	}

	series, err := h.data.FetchSeries(c.Request().Context(), req.Symbol, req.Days)
	if err != nil {
		return h.upstreamError(c, err)
	}

	name := export.Filename(req.Symbol, time.Now())
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	c.Response().Header().Set(echo.HeaderContentType, "text/csv")
	c.Response().WriteHeader(http.StatusOK)
	return export.WriteCSV(c.Response(), series)
}

func (h *DashboardHandler) Explorer(c echo.Context) error {
	var req models.ExplorerRequest
	if errs := xhttp.ReadAndValidateRequest(c, &req); errs != nil {
		return xhttp.BadRequestResponse(c, errs)
	}

	page, err := h.data.Explorer(c.Request().Context(), req)
	if err != nil {
		return h.upstreamError(c, err)
	}
	return xhttp.ListResponse(c, page.Rows, int64(page.Total))
}

func (h *DashboardHandler) Model(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.registry.Current())
}

func (h *DashboardHandler) ModelMetrics(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.registry.MetricsHistory())
}

func (h *DashboardHandler) ModelLogs(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.registry.TrainingLogs())
}

func (h *DashboardHandler) DatabaseStats(c echo.Context) error {
	stats, err := h.data.DatabaseStats(c.Request().Context())
	if err != nil {
		return h.upstreamError(c, err)
	}
	return xhttp.SuccessResponse(c, stats)
}

func (h *DashboardHandler) DatabaseConfig(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.data.Config())
}

func (h *DashboardHandler) Connect(c echo.Context) error {
	var req models.ConnectRequest
	if errs := xhttp.ReadAndValidateRequest(c, &req); errs != nil {
		return xhttp.BadRequestResponse(c, errs)
	}
	return xhttp.SuccessResponse(c, h.data.Connect(req.Type))
}

func (h *DashboardHandler) Disconnect(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.data.Disconnect())
}

func (h *DashboardHandler) Sync(c echo.Context) error {
	cfg, err := h.data.SyncNow(c.Request().Context())
	if err != nil {
		return xhttp.AppErrorResponse(c, xhttp.InternalError("sync failed").WithError(err))
	}
	return xhttp.SuccessResponse(c, cfg)
}

func (h *DashboardHandler) Query(c echo.Context) error {
	var req models.QueryRequest
	if errs := xhttp.ReadAndValidateRequest(c, &req); errs != nil {
		return xhttp.BadRequestResponse(c, errs)
	}

	result, err := h.data.RunQuery(c.Request().Context(), req.Query)
	if err != nil {
		return h.upstreamError(c, err)
	}
	return xhttp.SuccessResponse(c, result)
}

// upstreamError maps the gateway failure taxonomy onto the response
// envelope. Everything the provider side caused is a 502; anything else is
// a 500.
func (h *DashboardHandler) upstreamError(c echo.Context, err error) error {
	h.log.Error("pipeline request failed", logger.Error(err))

	var (
		netErr    *repository.NetworkError
		statusErr *repository.StatusError
		apiErr    *repository.APIError
		malErr    *repository.MalformedError
	)
	switch {
	case errors.As(err, &netErr), errors.As(err, &statusErr),
		errors.As(err, &apiErr), errors.As(err, &malErr):
		return xhttp.AppErrorResponse(c, xhttp.BadGatewayError(err.Error()))
	default:
		return xhttp.AppErrorResponse(c, xhttp.InternalError("request failed").WithError(err))
	}
}

var _ xhttp.Handler = (*DashboardHandler)(nil)
