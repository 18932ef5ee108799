package models

import (
	"gonum.org/v1/gonum/mat"

	"github.com/phenolab/go-phenofit/forcing"
	"github.com/phenolab/go-phenofit/params"
)

// Unichill is the two phase Chuine model. Chilling units follow a three
// parameter sigmoid and accumulate from day t0. Once a replicate reaches
// the chilling requirement C, forcing units from a two parameter sigmoid
// start accumulating, and the event happens once they reach F. A replicate
// that never meets the chilling requirement yields no prediction.
type Unichill struct{}

func (Unichill) Name() string { return "Unichill" }

func (Unichill) Schema() params.Schema {
	return params.Schema{
		{Name: "t0", Low: -67, High: 298},
		{Name: "C", Low: 0, High: 300},
		{Name: "F", Low: 0, High: 200},
		{Name: "b_f", Low: -20, High: 0},
		{Name: "c_f", Low: -50, High: 50},
		{Name: "a_c", Low: 0, High: 20},
		{Name: "b_c", Low: -20, High: 20},
		{Name: "c_c", Low: -50, High: 50},
	}
}

func (Unichill) Apply(temp *mat.Dense, doyAxis []float64, p map[string]float64) ([]float64, error) {
	if err := checkAxis(temp, doyAxis); err != nil {
		return nil, err
	}
	v, err := paramValues(p, "t0", "C", "F", "b_f", "c_f", "a_c", "b_c", "c_c")
	if err != nil {
		return nil, err
	}
	t0, chillReq, total := v[0], v[1], v[2]
	bF, cF := v[3], v[4]
	aC, bC, cC := v[5], v[6], v[7]

	chill := forcing.Sigmoid3(temp, aC, bC, cC)
	zeroRowsBefore(chill, doyAxis, t0)

	// Each replicate opens its forcing window the day its accumulated
	// chilling reaches the requirement. The non prediction sentinel zeroes
	// the whole column, so unmet chilling propagates to no event.
	chillMet, err := forcing.EstimateDOY(forcing.Accumulate(chill), doyAxis, chillReq, forcing.NonPrediction)
	if err != nil {
		return nil, err
	}

	force := forcing.Sigmoid2(temp, bF, cF)
	for j, t1 := range chillMet {
		for i, doy := range doyAxis {
			if doy < t1 {
				force.Set(i, j, 0)
			}
		}
	}

	return forcing.EstimateDOY(forcing.Accumulate(force), doyAxis, total, forcing.NonPrediction)
}
