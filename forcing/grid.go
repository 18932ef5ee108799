package forcing

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

var (
	ErrPartialNaNSeries = errors.New("time series contains some but not all NaN values")
	ErrGridShape        = errors.New("grid slices have inconsistent spatial dimensions")
)

// Grid holds a (time, n1, n2) spatial temperature array. A spatial cell whose
// entire time series is NaN marks a masked location, typically water, and is
// excluded from prediction. A series that is only partially NaN is invalid.
type Grid struct {
	steps int
	n1    int
	n2    int
	cols  *mat.Dense // flattened to (time, n1*n2)
}

// NewGrid builds a Grid from values indexed as values[time][i1][i2].
func NewGrid(values [][][]float64) (*Grid, error) {
	if len(values) == 0 || len(values[0]) == 0 || len(values[0][0]) == 0 {
		return nil, ErrNoData
	}
	steps := len(values)
	n1 := len(values[0])
	n2 := len(values[0][0])

	cols := mat.NewDense(steps, n1*n2, nil)
	for t := 0; t < steps; t++ {
		if len(values[t]) != n1 {
			return nil, fmt.Errorf("at time step %d, %w", t, ErrGridShape)
		}
		for i := 0; i < n1; i++ {
			if len(values[t][i]) != n2 {
				return nil, fmt.Errorf("at time step %d row %d, %w", t, i, ErrGridShape)
			}
			for k := 0; k < n2; k++ {
				cols.Set(t, i*n2+k, values[t][i][k])
			}
		}
	}
	return &Grid{steps: steps, n1: n1, n2: n2, cols: cols}, nil
}

// Dims returns the (time, n1, n2) dimensions of the grid.
func (g *Grid) Dims() (steps, n1, n2 int) {
	return g.steps, g.n1, g.n2
}

// Validate checks that every spatial cell is either fully observed or fully
// NaN (masked). A partially NaN series is a data error.
func (g *Grid) Validate() error {
	_, cols := g.cols.Dims()
	for j := 0; j < cols; j++ {
		var nans int
		for i := 0; i < g.steps; i++ {
			if math.IsNaN(g.cols.At(i, j)) {
				nans++
			}
		}
		if nans != 0 && nans != g.steps {
			return fmt.Errorf("at cell (%d, %d), %w", j/g.n2, j%g.n2, ErrPartialNaNSeries)
		}
	}
	return nil
}

// Mask reports which spatial cells are masked (entirely NaN), indexed by
// flattened column.
func (g *Grid) Mask() []bool {
	_, cols := g.cols.Dims()
	mask := make([]bool, cols)
	for j := 0; j < cols; j++ {
		mask[j] = math.IsNaN(g.cols.At(0, j))
	}
	return mask
}

// Columns returns the grid flattened to a (time, n1*n2) matrix with the
// second spatial axis varying fastest.
func (g *Grid) Columns() *mat.Dense {
	return mat.DenseCopyOf(g.cols)
}

// Reshape maps a flattened per column slice back onto the (n1, n2) spatial
// layout of the grid.
func (g *Grid) Reshape(cols []float64) ([][]float64, error) {
	if len(cols) != g.n1*g.n2 {
		return nil, fmt.Errorf("got %d values for %d cells, %w", len(cols), g.n1*g.n2, ErrShapeMismatch)
	}
	out := make([][]float64, g.n1)
	for i := 0; i < g.n1; i++ {
		out[i] = make([]float64, g.n2)
		copy(out[i], cols[i*g.n2:(i+1)*g.n2])
	}
	return out, nil
}
