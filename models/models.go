// Package models implements the phenology model variants. Each variant maps
// a daily temperature matrix and its day of year axis to one predicted event
// day per replicate, given a complete named parameter set.
package models

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/phenolab/go-phenofit/params"
)

var (
	ErrMissingParameter = errors.New("missing required parameter")
	ErrAxisLenMismatch  = errors.New("day of year axis length does not match temperature rows")
)

// Variant is one parametric phenology model. Apply never mutates the
// temperature matrix and expects one value per Schema entry.
type Variant interface {
	Name() string
	Schema() params.Schema
	Apply(temp *mat.Dense, doyAxis []float64, p map[string]float64) ([]float64, error)
}

// paramValues looks up the named parameters in order, failing on any gap so
// a malformed set surfaces before the math runs.
func paramValues(p map[string]float64, names ...string) ([]float64, error) {
	out := make([]float64, len(names))
	for i, name := range names {
		v, ok := p[name]
		if !ok {
			return nil, fmt.Errorf("%q, %w", name, ErrMissingParameter)
		}
		out[i] = v
	}
	return out, nil
}

func checkAxis(temp *mat.Dense, doyAxis []float64) error {
	rows, _ := temp.Dims()
	if rows != len(doyAxis) {
		return fmt.Errorf("%d rows with %d axis values, %w", rows, len(doyAxis), ErrAxisLenMismatch)
	}
	return nil
}

// zeroRowsBefore zeroes every row whose day of year precedes start, in
// place. Accumulation windows open this way for all variants.
func zeroRowsBefore(m *mat.Dense, doyAxis []float64, start float64) {
	_, cols := m.Dims()
	for i, doy := range doyAxis {
		if doy >= start {
			continue
		}
		for j := 0; j < cols; j++ {
			m.Set(i, j, 0)
		}
	}
}
