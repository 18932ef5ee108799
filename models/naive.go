package models

import (
	"gonum.org/v1/gonum/mat"

	"github.com/phenolab/go-phenofit/params"
)

// Naive predicts a constant event day for every replicate, a baseline for
// comparing the temperature driven variants against.
type Naive struct{}

func (Naive) Name() string { return "Naive" }

func (Naive) Schema() params.Schema {
	return params.Schema{
		{Name: "intercept", Low: -67, High: 298},
	}
}

func (Naive) Apply(temp *mat.Dense, doyAxis []float64, p map[string]float64) ([]float64, error) {
	if err := checkAxis(temp, doyAxis); err != nil {
		return nil, err
	}
	v, err := paramValues(p, "intercept")
	if err != nil {
		return nil, err
	}

	_, cols := temp.Dims()
	pred := make([]float64, cols)
	for i := range pred {
		pred[i] = v[0]
	}
	return pred, nil
}
