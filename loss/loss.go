// Package loss provides the scalar error metrics consumed by the fitting
// loop when scoring predicted event days against observations.
package loss

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrUnknownMetric   = errors.New("unknown loss metric")
	ErrResLenMismatch  = errors.New("predicted and observed have different lengths")
	ErrNoObservations  = errors.New("no observations to score")
	ErrNegativeNParams = errors.New("negative estimated parameter count")
)

// Metric identifies a supported loss metric.
type Metric int

const (
	MetricRMSE Metric = iota
	MetricAIC
)

// ParseMetric maps a metric name to its Metric value.
func ParseMetric(name string) (Metric, error) {
	switch name {
	case "rmse":
		return MetricRMSE, nil
	case "aic":
		return MetricAIC, nil
	default:
		return 0, fmt.Errorf("%q, %w", name, ErrUnknownMetric)
	}
}

func (m Metric) String() string {
	switch m {
	case MetricRMSE:
		return "rmse"
	case MetricAIC:
		return "aic"
	default:
		return fmt.Sprintf("Metric(%d)", int(m))
	}
}

// Score evaluates the metric. nParams is the number of estimated (not fixed)
// model parameters and is only consulted by AIC.
func (m Metric) Score(observed, predicted []float64, nParams int) (float64, error) {
	switch m {
	case MetricRMSE:
		return RMSE(observed, predicted)
	case MetricAIC:
		return AIC(observed, predicted, nParams)
	default:
		return 0, fmt.Errorf("%v, %w", m, ErrUnknownMetric)
	}
}

// RMSE computes the root mean squared error between observed and predicted
// event days. A score of 0 means a perfect match.
func RMSE(observed, predicted []float64) (float64, error) {
	mse, err := meanSquaredError(observed, predicted)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// AIC computes the Akaike information criterion,
// N*log(mse) + 2*(nParams + 1), where nParams counts only the parameters
// that were estimated rather than fixed.
func AIC(observed, predicted []float64, nParams int) (float64, error) {
	if nParams < 0 {
		return 0, ErrNegativeNParams
	}
	mse, err := meanSquaredError(observed, predicted)
	if err != nil {
		return 0, err
	}
	n := float64(len(observed))
	return n*math.Log(mse) + 2.0*(float64(nParams)+1.0), nil
}

func meanSquaredError(observed, predicted []float64) (float64, error) {
	if len(observed) != len(predicted) {
		return 0, fmt.Errorf("expected %d, but got %d, %w", len(observed), len(predicted), ErrResLenMismatch)
	}
	if len(observed) == 0 {
		return 0, ErrNoObservations
	}

	mse := 0.0
	for i := 0; i < len(observed); i++ {
		mse += math.Pow(observed[i]-predicted[i], 2.0)
	}
	mse /= float64(len(observed))
	return mse, nil
}
