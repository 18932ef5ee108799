package models

import (
	"gonum.org/v1/gonum/mat"

	"github.com/phenolab/go-phenofit/forcing"
	"github.com/phenolab/go-phenofit/params"
)

// Uniforc is the single phase Chuine model. Daily forcing follows a
// sigmoid response to temperature, accumulates from day t1, and the event
// happens once the total reaches F.
type Uniforc struct{}

func (Uniforc) Name() string { return "Uniforc" }

func (Uniforc) Schema() params.Schema {
	return params.Schema{
		{Name: "t1", Low: -67, High: 298},
		{Name: "F", Low: 0, High: 200},
		{Name: "b", Low: -20, High: 0},
		{Name: "c", Low: -50, High: 50},
	}
}

func (Uniforc) Apply(temp *mat.Dense, doyAxis []float64, p map[string]float64) ([]float64, error) {
	if err := checkAxis(temp, doyAxis); err != nil {
		return nil, err
	}
	v, err := paramValues(p, "t1", "F", "b", "c")
	if err != nil {
		return nil, err
	}
	t1, total, b, c := v[0], v[1], v[2], v[3]

	force := forcing.Sigmoid2(temp, b, c)
	zeroRowsBefore(force, doyAxis, t1)

	return forcing.EstimateDOY(forcing.Accumulate(force), doyAxis, total, forcing.NonPrediction)
}
