// Package forcing provides the vectorized temperature response and
// accumulation primitives shared by all phenology model variants. All
// matrices are oriented with time on axis 0 (rows) and replicates on
// axis 1 (columns), labeled by a parallel DOY axis.
package forcing

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// NonPrediction is the default DOY returned for a replicate whose
// accumulated forcing never reaches the required threshold. Large enough to
// produce a large error during fitting so unrealistic parameters are not
// chosen.
const NonPrediction = 999.0

var (
	ErrAxisLenMismatch = errors.New("doy axis length does not match time axis length")
	ErrInvertedBounds  = errors.New("window start is greater than window end")
	ErrEmptyWindow     = errors.New("no days fall within the requested window")
	ErrRaggedRows      = errors.New("rows have inconsistent lengths")
	ErrNoData          = errors.New("no data provided")
	ErrShapeMismatch   = errors.New("input slices have different lengths")
)

// NewArray builds a dense (time, replicate) matrix from a slice of rows
// where each row holds the values across all replicates for one time step.
func NewArray(rows [][]float64) (*mat.Dense, error) {
	if len(rows) == 0 {
		return nil, ErrNoData
	}
	cols := len(rows[0])
	if cols == 0 {
		return nil, ErrNoData
	}
	data := make([]float64, 0, len(rows)*cols)
	for i, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("at row %d, %w", i, ErrRaggedRows)
		}
		data = append(data, row...)
	}
	return mat.NewDense(len(rows), cols, data), nil
}

// Sigmoid2 applies the two parameter sigmoid function from Chuine 2000
// elementwise, returning a new matrix of daily forcing responses.
func Sigmoid2(temperature *mat.Dense, b, c float64) *mat.Dense {
	var out mat.Dense
	out.Apply(func(_, _ int, v float64) float64 {
		return 1.0 / (1.0 + math.Exp(b*(v-c)))
	}, temperature)
	return &out
}

// Sigmoid3 applies the three parameter sigmoid function from Chuine 2000
// elementwise. The quadratic term allows an optimum temperature.
func Sigmoid3(temperature *mat.Dense, a, b, c float64) *mat.Dense {
	var out mat.Dense
	out.Apply(func(_, _ int, v float64) float64 {
		return 1.0 / (1.0 + math.Exp(a*(v-c)*(v-c)+b*(v-c)))
	}, temperature)
	return &out
}

// TriangleResponse applies a piecewise linear response rising from 0 at tMin
// to 1 at tOpt and falling back to 0 at tMax, with 0 outside [tMin, tMax].
// The breakpoints must satisfy tMin < tOpt < tMax.
func TriangleResponse(temperature *mat.Dense, tMin, tOpt, tMax float64) (*mat.Dense, error) {
	if !(tMin < tOpt && tOpt < tMax) {
		return nil, fmt.Errorf("breakpoints %v < %v < %v, %w", tMin, tOpt, tMax, ErrInvertedBounds)
	}
	var out mat.Dense
	out.Apply(func(_, _ int, v float64) float64 {
		switch {
		case v <= tMin || v >= tMax:
			return 0
		case v <= tOpt:
			return (v - tMin) / (tOpt - tMin)
		default:
			return (v - tMax) / (tOpt - tMax)
		}
	}, temperature)
	return &out, nil
}

// Accumulate returns the running cumulative sum along the time axis,
// leaving the input untouched.
func Accumulate(values *mat.Dense) *mat.Dense {
	out := mat.DenseCopyOf(values)
	rows, _ := out.Dims()
	for i := 1; i < rows; i++ {
		floats.Add(out.RawRowView(i), out.RawRowView(i-1))
	}
	return out
}

// EstimateDOY finds, for every replicate column, the DOY at which the
// accumulated forcing first meets the threshold. Replicates that never cross
// the threshold return the sentinel value. This is the single
// threshold-crossing primitive used by every model variant and also works on
// signed difference series.
func EstimateDOY(forcing *mat.Dense, doyAxis []float64, threshold, sentinel float64) ([]float64, error) {
	rows, cols := forcing.Dims()
	if len(doyAxis) != rows {
		return nil, fmt.Errorf("doy axis has %d values for %d time steps, %w", len(doyAxis), rows, ErrAxisLenMismatch)
	}
	doy := make([]float64, cols)
	for j := 0; j < cols; j++ {
		doy[j] = sentinel
		for i := 0; i < rows; i++ {
			if forcing.At(i, j) >= threshold {
				doy[j] = doyAxis[i]
				break
			}
		}
	}
	return doy, nil
}

// Daylength computes hours of daylight from a solar geometry approximation.
// Negative DOY values, used to represent days before Jan 1, are normalized
// by adding 365 before the trigonometric computation.
func Daylength(doy, latitude []float64) ([]float64, error) {
	if len(doy) != len(latitude) {
		return nil, fmt.Errorf("doy has %d values and latitude has %d, %w", len(doy), len(latitude), ErrShapeMismatch)
	}
	if len(doy) == 0 {
		return nil, ErrNoData
	}

	const (
		j    = math.Pi / 182.625
		axis = math.Pi / 180.0 * 23.439
	)

	hours := make([]float64, len(doy))
	for i := range doy {
		d := doy[i]
		if d < 1 {
			d += 365
		}
		// shift so the minimum lands on the winter solstice
		d += 11

		lat := math.Pi / 180.0 * latitude[i]
		m := 1 - math.Tan(lat)*math.Tan(axis*math.Cos(j*d))

		// sun never appears or disappears
		m = math.Max(m, 0)
		m = math.Min(m, 2)

		// exposed fraction of the sun's circle
		hours[i] = math.Acos(1-m) / math.Pi * 24.0
	}
	return hours, nil
}

// MeanTemperature returns the per replicate mean over the time steps whose
// DOY falls within [startDOY, endDOY].
func MeanTemperature(temperature *mat.Dense, doyAxis []float64, startDOY, endDOY float64) ([]float64, error) {
	if startDOY > endDOY {
		return nil, fmt.Errorf("window [%v, %v], %w", startDOY, endDOY, ErrInvertedBounds)
	}
	rows, cols := temperature.Dims()
	if len(doyAxis) != rows {
		return nil, fmt.Errorf("doy axis has %d values for %d time steps, %w", len(doyAxis), rows, ErrAxisLenMismatch)
	}

	sum := make([]float64, cols)
	var n int
	for i := 0; i < rows; i++ {
		if doyAxis[i] < startDOY || doyAxis[i] > endDOY {
			continue
		}
		floats.Add(sum, temperature.RawRowView(i))
		n++
	}
	if n == 0 {
		return nil, fmt.Errorf("window [%v, %v], %w", startDOY, endDOY, ErrEmptyWindow)
	}
	floats.Scale(1.0/float64(n), sum)
	return sum, nil
}
