package router

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/DjordjeVuckovic/sortbench/internal/apperr"
	"github.com/DjordjeVuckovic/sortbench/internal/bench/history"
	"github.com/DjordjeVuckovic/sortbench/internal/bench/metrics"
	"github.com/DjordjeVuckovic/sortbench/internal/bench/report"
	"github.com/DjordjeVuckovic/sortbench/internal/bench/runner"
	"github.com/DjordjeVuckovic/sortbench/pkg/pagination"
)

// RunReader is the read side of the run history.
type RunReader interface {
	List(ctx context.Context, limit, offset int) ([]history.Summary, int64, error)
	Get(ctx context.Context, id uuid.UUID) (*runner.Run, error)
	Latest(ctx context.Context) (*runner.Run, error)
	Previous(ctx context.Context, id uuid.UUID) (*runner.Run, error)
}

type ErrorResponse struct {
	Error string `json:"error"`
	Title string `json:"title,omitempty"`
}

type RunPage = pagination.OffsetResult[history.Summary]

type CompareResponse struct {
	RunID         uuid.UUID       `json:"run_id"`
	PreviousRunID uuid.UUID       `json:"previous_run_id"`
	ThresholdPct  float64         `json:"threshold_pct"`
	Deltas        []history.Delta `json:"deltas"`
	Regressions   int             `json:"regressions"`
}

type RunsRouter struct {
	e         *echo.Echo
	runs      RunReader
	threshold float64
}

type RunsRouterOption func(*RunsRouter)

// WithRegressionThreshold sets the slowdown, in percent, that compare flags.
func WithRegressionThreshold(pct float64) RunsRouterOption {
	return func(r *RunsRouter) {
		r.threshold = pct
	}
}

func NewRunsRouter(e *echo.Echo, runs RunReader, opts ...RunsRouterOption) *RunsRouter {
	r := &RunsRouter{
		e:         e,
		runs:      runs,
		threshold: history.DefaultRegressionThreshold,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *RunsRouter) Bind() {
	g := r.e.Group("/runs")
	g.GET("", r.listHandler)
	g.GET("/latest", r.latestHandler)
	g.GET("/:id", r.getHandler)
	g.GET("/:id/results.csv", r.csvHandler)
	g.GET("/:id/report", r.reportHandler)
	g.GET("/:id/compare", r.compareHandler)

	r.e.GET("/metrics", r.metricsHandler)
}

// listHandler godoc
// @Summary List runs
// @Description Lists stored benchmark runs, newest first
// @Tags runs
// @Produce json
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size (max 100)"
// @Success 200 {object} RunPage
// @Router /runs [get]
func (r *RunsRouter) listHandler(c echo.Context) error {
	var req pagination.OffsetRequest
	if err := echo.QueryParamsBinder(c).
		Int("page", &req.Page).
		Int("size", &req.Size).
		BindError(); err != nil {
		return apperr.NewValidationWrap("invalid pagination parameters", err)
	}
	_ = req.Validate()

	items, total, err := r.runs.List(c.Request().Context(), req.Size, req.Offset())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, pagination.NewOffsetResult(items, total, req.Page, req.Size))
}

// latestHandler godoc
// @Summary Latest run
// @Description Returns the machine-readable report of the most recent run
// @Tags runs
// @Produce json
// @Success 200 {object} report.Report
// @Failure 404 {object} ErrorResponse
// @Router /runs/latest [get]
func (r *RunsRouter) latestHandler(c echo.Context) error {
	run, err := r.runs.Latest(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, report.Generate(run))
}

// getHandler godoc
// @Summary Get run
// @Description Returns the machine-readable report of one run
// @Tags runs
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} report.Report
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /runs/{id} [get]
func (r *RunsRouter) getHandler(c echo.Context) error {
	run, err := r.loadRun(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, report.Generate(run))
}

// csvHandler godoc
// @Summary Run results as CSV
// @Tags runs
// @Produce text/csv
// @Param id path string true "Run ID"
// @Success 200 {string} string
// @Failure 404 {object} ErrorResponse
// @Router /runs/{id}/results.csv [get]
func (r *RunsRouter) csvHandler(c echo.Context) error {
	run, err := r.loadRun(c)
	if err != nil {
		return err
	}

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
	res.Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", run.ID.String()+".csv"))
	res.WriteHeader(http.StatusOK)
	return report.WriteCSV(res, run.Rows)
}

// reportHandler godoc
// @Summary Run report
// @Tags runs
// @Produce text/markdown
// @Param id path string true "Run ID"
// @Success 200 {string} string
// @Failure 404 {object} ErrorResponse
// @Router /runs/{id}/report [get]
func (r *RunsRouter) reportHandler(c echo.Context) error {
	run, err := r.loadRun(c)
	if err != nil {
		return err
	}

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/markdown; charset=utf-8")
	res.WriteHeader(http.StatusOK)
	return report.WriteDocument(res, run)
}

// compareHandler godoc
// @Summary Compare with previous run
// @Tags runs
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} CompareResponse
// @Failure 404 {object} ErrorResponse
// @Router /runs/{id}/compare [get]
func (r *RunsRouter) compareHandler(c echo.Context) error {
	run, err := r.loadRun(c)
	if err != nil {
		return err
	}

	prev, err := r.runs.Previous(c.Request().Context(), run.ID)
	if err != nil {
		return fmt.Errorf("previous %w", err)
	}

	deltas := history.Compare(prev.Rows, run.Rows, r.threshold)
	if deltas == nil {
		deltas = []history.Delta{}
	}
	return c.JSON(http.StatusOK, CompareResponse{
		RunID:         run.ID,
		PreviousRunID: prev.ID,
		ThresholdPct:  r.threshold,
		Deltas:        deltas,
		Regressions:   len(history.Regressions(deltas)),
	})
}

// metricsHandler godoc
// @Summary Metrics
// @Description Prometheus exposition of the latest stored run
// @Tags metrics
// @Produce plain
// @Success 200 {string} string
// @Router /metrics [get]
func (r *RunsRouter) metricsHandler(c echo.Context) error {
	collector := metrics.NewCollector()

	run, err := r.runs.Latest(c.Request().Context())
	switch {
	case err == nil:
		collector.Replay(run)
	case !errors.Is(err, apperr.ErrNotFound):
		return err
	}

	collector.Handler().ServeHTTP(c.Response(), c.Request())
	return nil
}

func (r *RunsRouter) loadRun(c echo.Context) (*runner.Run, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return nil, apperr.NewFieldValidation("id", "must be a valid UUID")
	}
	return r.runs.Get(c.Request().Context(), id)
}
