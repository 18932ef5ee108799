package estimate

import (
	"math"

	"gonum.org/v1/gonum/optimize"
)

// localSearch refines a candidate with a derivative free Nelder-Mead
// minimization, rejecting any proposal outside the bounds. Falls back to the
// starting point when the refinement does not improve on it.
func localSearch(objective Objective, bounds []Bound, x0 []float64, fx0 float64) ([]float64, float64) {
	bounded := func(x []float64) float64 {
		for i, b := range bounds {
			if x[i] < b.Low || x[i] > b.High {
				return math.Inf(1)
			}
		}
		return objective(x)
	}

	start := make([]float64, len(x0))
	copy(start, x0)

	problem := optimize.Problem{Func: bounded}
	res, err := optimize.Minimize(problem, start, nil, &optimize.NelderMead{})
	if err != nil || res == nil || len(res.X) != len(x0) || res.F >= fx0 {
		// return a freshly owned slice so callers can never end up
		// aliasing their own input through the fallback
		out := make([]float64, len(x0))
		copy(out, x0)
		return out, fx0
	}
	return res.X, res.F
}
