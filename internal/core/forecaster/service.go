// Package forecaster runs the full forecast pipeline: ingest the upload,
// fit a smoothing model per series, and assemble the combined response.
package forecaster

import (
	"io"
	"math"
	"time"

	"forecast-service/internal/core/ingest"
	"forecast-service/internal/core/smoothing"
	"forecast-service/internal/domain"

	"go.uber.org/zap"
)

// Horizon is the number of months forecast beyond the historical series.
const Horizon = 12

// displayLayout renders months for the response, e.g. "Jan-2025".
const displayLayout = "Jan-2006"

// Service produces a cashflow forecast from an uploaded table.
type Service interface {
	Forecast(file io.Reader, filename string) (*domain.ForecastResult, error)
}

type service struct {
	ingest ingest.Service
	logger *zap.Logger
}

// NewService creates a forecaster backed by the given ingestion service.
func NewService(ingestService ingest.Service, logger *zap.Logger) Service {
	return &service{
		ingest: ingestService,
		logger: logger,
	}
}

// Forecast cleans the uploaded table, forecasts the inflow and outflow
// series independently, and returns the historical rows followed by
// twelve forecast rows. The net forecast is always the sum of the two
// independent forecasts; the series are never modeled jointly.
func (svc *service) Forecast(file io.Reader, filename string) (*domain.ForecastResult, error) {
	records, err := svc.ingest.ParseCashflowTable(file, filename)
	if err != nil {
		return nil, err
	}

	inflowSeries := make([]float64, len(records))
	outflowSeries := make([]float64, len(records))
	for i, r := range records {
		inflowSeries[i] = r.Inflow
		outflowSeries[i] = r.Outflow
	}

	inflowForecast, err := svc.forecastSeries(inflowSeries, "inflow")
	if err != nil {
		return nil, err
	}
	outflowForecast, err := svc.forecastSeries(outflowSeries, "outflow")
	if err != nil {
		return nil, err
	}

	months := forecastMonths(records[len(records)-1].Month, Horizon)
	rows := assemble(records, months, inflowForecast, outflowForecast)

	return &domain.ForecastResult{
		RowsReceived: len(records),
		Rows:         rows,
	}, nil
}

// forecastSeries tries the additive-trend model first and falls back to
// simple smoothing when the fit fails. A fallback failure surfaces as a
// ModelFitError instead of being swallowed.
func (svc *service) forecastSeries(series []float64, label string) ([]float64, error) {
	holt, err := smoothing.FitHolt(series)
	if err == nil {
		return holt.Forecast(Horizon), nil
	}
	svc.logger.Warn("falling back to simple exponential smoothing",
		zap.String("series", label), zap.Error(err))

	simple, err := smoothing.FitSimple(series)
	if err != nil {
		return nil, &domain.ModelFitError{Series: label, Err: err}
	}
	return simple.Forecast(Horizon), nil
}

// forecastMonths returns horizon consecutive months, the first being the
// first day of the month immediately after last.
func forecastMonths(last time.Time, horizon int) []time.Time {
	start := time.Date(last.Year(), last.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	months := make([]time.Time, horizon)
	for i := range months {
		months[i] = start.AddDate(0, i, 0)
	}
	return months
}

// assemble merges historical and forecast rows into the response order:
// historical ascending, then forecast ascending. Forecast values are
// rounded to two decimals here, at presentation time, and the net
// forecast is the sum of the rounded components. Non-finite values
// become null; rows null across every field are dropped.
func assemble(records []domain.CashflowRecord, months []time.Time, inflowForecast, outflowForecast []float64) []domain.CombinedRow {
	rows := make([]domain.CombinedRow, 0, len(records)+len(months))

	for _, r := range records {
		rows = appendRow(rows, domain.CombinedRow{
			Month:       r.Month.Format(displayLayout),
			Inflow:      sanitize(r.Inflow),
			Outflow:     sanitize(r.Outflow),
			NetCashflow: sanitize(r.NetCashflow),
		})
	}

	for i, month := range months {
		inflow := round2(inflowForecast[i])
		outflow := round2(outflowForecast[i])
		rows = appendRow(rows, domain.CombinedRow{
			Month:       month.Format(displayLayout),
			Inflow:      sanitize(inflow),
			Outflow:     sanitize(outflow),
			NetCashflow: sanitize(inflow + outflow),
		})
	}

	return rows
}

func appendRow(rows []domain.CombinedRow, row domain.CombinedRow) []domain.CombinedRow {
	if row.Month == "" && row.Inflow == nil && row.Outflow == nil && row.NetCashflow == nil {
		return rows
	}
	return append(rows, row)
}

// sanitize returns nil for NaN and infinities, which have no JSON
// representation, and a pointer to the value otherwise.
func sanitize(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
