package models

import (
	"gonum.org/v1/gonum/mat"

	"github.com/phenolab/go-phenofit/forcing"
	"github.com/phenolab/go-phenofit/params"
)

// Linear predicts the event day as a linear function of the mean
// temperature over a window starting at time_start and running for
// time_length days.
type Linear struct{}

func (Linear) Name() string { return "Linear" }

func (Linear) Schema() params.Schema {
	return params.Schema{
		{Name: "time_start", Low: -67, High: 298},
		{Name: "time_length", Low: 0, High: 365},
		{Name: "intercept", Low: -1000, High: 1000},
		{Name: "slope", Low: -100, High: 100},
	}
}

func (Linear) Apply(temp *mat.Dense, doyAxis []float64, p map[string]float64) ([]float64, error) {
	if err := checkAxis(temp, doyAxis); err != nil {
		return nil, err
	}
	v, err := paramValues(p, "time_start", "time_length", "intercept", "slope")
	if err != nil {
		return nil, err
	}
	start, length, intercept, slope := v[0], v[1], v[2], v[3]

	means, err := forcing.MeanTemperature(temp, doyAxis, start, start+length)
	if err != nil {
		return nil, err
	}

	pred := make([]float64, len(means))
	for i, m := range means {
		pred[i] = intercept + slope*m
	}
	return pred, nil
}
