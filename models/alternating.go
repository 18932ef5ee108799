package models

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/phenolab/go-phenofit/forcing"
	"github.com/phenolab/go-phenofit/params"
)

// Alternating is the Cannell and Smith model. Days below the threshold
// count as chill days and days at or above it accumulate growing degree
// days, both from day t1. The event happens the first day the accumulated
// degree days exceed an exponential curve of the chill day count,
// a + b*exp(c*chillDays).
type Alternating struct{}

func (Alternating) Name() string { return "Alternating" }

func (Alternating) Schema() params.Schema {
	return params.Schema{
		{Name: "a", Low: -1000, High: 1000},
		{Name: "b", Low: 0, High: 5000},
		{Name: "c", Low: -5, High: 0},
		{Name: "threshold", Low: 5, High: 5},
		{Name: "t1", Low: 1, High: 1},
	}
}

func (Alternating) Apply(temp *mat.Dense, doyAxis []float64, p map[string]float64) ([]float64, error) {
	if err := checkAxis(temp, doyAxis); err != nil {
		return nil, err
	}
	v, err := paramValues(p, "a", "b", "c", "threshold", "t1")
	if err != nil {
		return nil, err
	}
	a, b, c, threshold, t1 := v[0], v[1], v[2], v[3], v[4]

	chillDays := mat.DenseCopyOf(temp)
	chillDays.Apply(func(_, _ int, t float64) float64 {
		if t < threshold {
			return 1
		}
		return 0
	}, chillDays)
	zeroRowsBefore(chillDays, doyAxis, t1)

	gdd := mat.DenseCopyOf(temp)
	gdd.Apply(func(_, _ int, t float64) float64 {
		if t < threshold {
			return 0
		}
		return t
	}, gdd)
	zeroRowsBefore(gdd, doyAxis, t1)

	accChill := forcing.Accumulate(chillDays)
	diff := forcing.Accumulate(gdd)
	diff.Apply(func(i, j int, g float64) float64 {
		return g - (a + b*math.Exp(c*accChill.At(i, j)))
	}, diff)

	return forcing.EstimateDOY(diff, doyAxis, 0, forcing.NonPrediction)
}
