// Package smoothing implements the exponential smoothing models used for
// cashflow forecasting: Holt's linear (additive-trend) method as the
// primary strategy and simple exponential smoothing as the fallback.
// Smoothing parameters are chosen by minimizing in-sample squared error
// with a derivative-free optimizer.
package smoothing

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/optimize"
)

// MinObservations is the smallest series length either model accepts.
const MinObservations = 3

var errTooShort = fmt.Errorf("series needs at least %d observations", MinObservations)

// Holt is a fitted additive-trend, non-seasonal exponential smoothing
// model. Forecasts extend the final level along the final trend.
type Holt struct {
	Alpha float64
	Beta  float64

	level float64
	trend float64
}

// Simple is a fitted no-trend exponential smoothing model. Forecasts are
// flat at the final level.
type Simple struct {
	Alpha float64

	level float64
}

// FitHolt fits Holt's linear method to series, optimizing alpha and beta.
// It returns an error when the series is too short, contains non-finite
// values, or the optimizer fails to produce a usable fit.
func FitHolt(series []float64) (*Holt, error) {
	if err := checkSeries(series); err != nil {
		return nil, err
	}

	objective := func(x []float64) float64 {
		_, _, sse := holtPass(series, logistic(x[0]), logistic(x[1]))
		return sse
	}
	x, err := minimize(objective, []float64{0, 0})
	if err != nil {
		return nil, fmt.Errorf("holt parameter search: %w", err)
	}

	alpha, beta := logistic(x[0]), logistic(x[1])
	level, trend, sse := holtPass(series, alpha, beta)
	if !isFinite(level) || !isFinite(trend) || !isFinite(sse) {
		return nil, errors.New("holt fit diverged")
	}

	return &Holt{Alpha: alpha, Beta: beta, level: level, trend: trend}, nil
}

// Forecast returns horizon point forecasts beyond the fitted series.
func (m *Holt) Forecast(horizon int) []float64 {
	out := make([]float64, horizon)
	for h := 1; h <= horizon; h++ {
		out[h-1] = m.level + float64(h)*m.trend
	}
	return out
}

// FitSimple fits simple exponential smoothing to series, optimizing alpha.
func FitSimple(series []float64) (*Simple, error) {
	if err := checkSeries(series); err != nil {
		return nil, err
	}

	objective := func(x []float64) float64 {
		_, sse := simplePass(series, logistic(x[0]))
		return sse
	}
	x, err := minimize(objective, []float64{0})
	if err != nil {
		return nil, fmt.Errorf("simple smoothing parameter search: %w", err)
	}

	alpha := logistic(x[0])
	level, sse := simplePass(series, alpha)
	if !isFinite(level) || !isFinite(sse) {
		return nil, errors.New("simple smoothing fit diverged")
	}

	return &Simple{Alpha: alpha, level: level}, nil
}

// Forecast returns horizon point forecasts, all equal to the final level.
func (m *Simple) Forecast(horizon int) []float64 {
	out := make([]float64, horizon)
	for h := range out {
		out[h] = m.level
	}
	return out
}

// holtPass runs the Holt recurrences over the series and returns the final
// level, final trend, and the one-step-ahead sum of squared errors.
// Initialization: level = y[0], trend = y[1] - y[0].
func holtPass(series []float64, alpha, beta float64) (level, trend, sse float64) {
	level = series[0]
	trend = series[1] - series[0]
	for t := 1; t < len(series); t++ {
		forecast := level + trend
		diff := series[t] - forecast
		sse += diff * diff

		prevLevel := level
		level = alpha*series[t] + (1-alpha)*(prevLevel+trend)
		trend = beta*(level-prevLevel) + (1-beta)*trend
	}
	return level, trend, sse
}

// simplePass runs the no-trend recurrence and returns the final level and
// the one-step-ahead sum of squared errors. Initialization: level = y[0].
func simplePass(series []float64, alpha float64) (level, sse float64) {
	level = series[0]
	for t := 1; t < len(series); t++ {
		diff := series[t] - level
		sse += diff * diff
		level = alpha*series[t] + (1-alpha)*level
	}
	return level, sse
}

// minimize runs a Nelder-Mead search from x0 and returns the best point.
func minimize(objective func([]float64) float64, x0 []float64) ([]float64, error) {
	problem := optimize.Problem{Func: objective}
	result, err := optimize.Minimize(problem, x0, nil, &optimize.NelderMead{})
	if err != nil {
		return nil, err
	}
	if err := result.Status.Err(); err != nil {
		return nil, err
	}
	for _, v := range result.X {
		if !isFinite(v) {
			return nil, errors.New("optimizer returned non-finite parameters")
		}
	}
	return result.X, nil
}

// logistic maps an unconstrained optimizer variable into (0, 1), keeping
// the smoothing parameters in their valid range without hard constraints.
func logistic(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

func checkSeries(series []float64) error {
	if len(series) < MinObservations {
		return errTooShort
	}
	for _, v := range series {
		if !isFinite(v) {
			return errors.New("series contains non-finite values")
		}
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
