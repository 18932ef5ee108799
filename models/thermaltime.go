package models

import (
	"gonum.org/v1/gonum/mat"

	"github.com/phenolab/go-phenofit/forcing"
	"github.com/phenolab/go-phenofit/params"
)

// ThermalTime is the classic growing degree day model. Daily temperatures
// at or above the threshold T accumulate from day t1 and the event happens
// once the total reaches F.
type ThermalTime struct{}

func (ThermalTime) Name() string { return "ThermalTime" }

func (ThermalTime) Schema() params.Schema {
	return params.Schema{
		{Name: "t1", Low: -67, High: 298},
		{Name: "T", Low: -25, High: 25},
		{Name: "F", Low: 0, High: 1000},
	}
}

func (ThermalTime) Apply(temp *mat.Dense, doyAxis []float64, p map[string]float64) ([]float64, error) {
	if err := checkAxis(temp, doyAxis); err != nil {
		return nil, err
	}
	v, err := paramValues(p, "t1", "T", "F")
	if err != nil {
		return nil, err
	}
	t1, threshold, total := v[0], v[1], v[2]

	gdd := mat.DenseCopyOf(temp)
	gdd.Apply(func(_, _ int, t float64) float64 {
		if t < threshold {
			return 0
		}
		return t
	}, gdd)
	zeroRowsBefore(gdd, doyAxis, t1)

	return forcing.EstimateDOY(forcing.Accumulate(gdd), doyAxis, total, forcing.NonPrediction)
}
