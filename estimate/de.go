package estimate

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"gonum.org/v1/gonum/stat"
)

const (
	DefaultDEMaxIter       = 1000
	DefaultDEPopSize       = 50
	DefaultDERecombination = 0.25
	DefaultDETolerance     = 0.01

	// minimum total population for the best/1/bin mutation scheme
	minPopulation = 5
)

var (
	ErrNonPositiveIterations = errors.New("iterations must be positive")
	ErrPopSizeTooSmall       = errors.New("population size too small")
	ErrInvalidMutation       = errors.New("mutation range must satisfy 0 <= low <= high < 2")
	ErrInvalidRecombination  = errors.New("recombination must be within [0, 1]")
	ErrNegativeTolerance     = errors.New("negative tolerance")
)

// DEConfig configures the differential evolution search.
type DEConfig struct {
	// MaxIter caps the number of generations.
	MaxIter int

	// PopSize is multiplied by the parameter count to size the population.
	PopSize int

	// Mutation is the dithering range for the differential weight, drawn
	// uniformly once per generation.
	Mutation [2]float64

	// Recombination is the crossover probability.
	Recombination float64

	// Tolerance stops the search early once the population energies have
	// converged relative to their mean.
	Tolerance float64

	// Seed fixes the random sequence for reproducible fits. 0 seeds from
	// the wall clock.
	Seed uint64

	// Parallelization sets how many objective evaluations may run
	// concurrently. The objective must be pure.
	Parallelization int

	// Disp emits per generation progress logs.
	Disp bool
}

// NewDefaultDEConfig returns the practical differential evolution
// configuration.
func NewDefaultDEConfig() *DEConfig {
	cfg, _ := NewDEConfig(PresetPractical)
	return cfg
}

// NewDEConfig returns the differential evolution configuration for a named
// preset.
func NewDEConfig(preset Preset) (*DEConfig, error) {
	switch preset {
	case PresetTesting:
		return &DEConfig{MaxIter: 5, PopSize: 10, Mutation: [2]float64{0.5, 1}, Recombination: 0.25, Tolerance: DefaultDETolerance}, nil
	case PresetPractical:
		return &DEConfig{MaxIter: 1000, PopSize: 50, Mutation: [2]float64{0.5, 1}, Recombination: 0.25, Tolerance: DefaultDETolerance}, nil
	case PresetIntensive:
		return &DEConfig{MaxIter: 10000, PopSize: 100, Mutation: [2]float64{0.1, 1}, Recombination: 0.25, Tolerance: DefaultDETolerance}, nil
	default:
		return nil, fmt.Errorf("%v, %w", preset, ErrUnknownPreset)
	}
}

// Validate runs basic validation on the differential evolution options.
func (c *DEConfig) Validate() (*DEConfig, error) {
	if c == nil {
		return NewDefaultDEConfig(), nil
	}
	if c.MaxIter < 1 {
		return nil, ErrNonPositiveIterations
	}
	if c.PopSize < 1 {
		return nil, ErrPopSizeTooSmall
	}
	if c.Mutation[0] < 0 || c.Mutation[1] >= 2 || c.Mutation[0] > c.Mutation[1] {
		return nil, ErrInvalidMutation
	}
	if c.Recombination < 0 || c.Recombination > 1 {
		return nil, ErrInvalidRecombination
	}
	if c.Tolerance < 0 {
		return nil, ErrNegativeTolerance
	}
	return c, nil
}

func newRNG(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// differentialEvolution runs a best/1/bin search over the bounds.
func differentialEvolution(objective Objective, bounds []Bound, cfg *DEConfig) ([]float64, error) {
	rng := newRNG(cfg.Seed)
	dims := len(bounds)

	np := cfg.PopSize * dims
	if np < minPopulation {
		np = minPopulation
	}

	pop := make([][]float64, np)
	for i := range pop {
		pop[i] = make([]float64, dims)
		for j, b := range bounds {
			pop[i][j] = b.Low + rng.Float64()*(b.High-b.Low)
		}
	}
	energies := make([]float64, np)
	evalAll(objective, pop, energies, cfg.Parallelization)

	best := bestIndex(energies)

	trials := make([][]float64, np)
	trialEnergies := make([]float64, np)
	for i := range trials {
		trials[i] = make([]float64, dims)
	}

	for gen := 1; gen <= cfg.MaxIter; gen++ {
		f := cfg.Mutation[0] + rng.Float64()*(cfg.Mutation[1]-cfg.Mutation[0])

		for i := 0; i < np; i++ {
			r1, r2 := pickTwo(rng, np, i, best)
			jrand := rng.IntN(dims)
			for j := 0; j < dims; j++ {
				if j == jrand || rng.Float64() < cfg.Recombination {
					trials[i][j] = clamp(pop[best][j]+f*(pop[r1][j]-pop[r2][j]), bounds[j])
					continue
				}
				trials[i][j] = pop[i][j]
			}
		}
		evalAll(objective, trials, trialEnergies, cfg.Parallelization)

		for i := 0; i < np; i++ {
			if trialEnergies[i] <= energies[i] {
				copy(pop[i], trials[i])
				energies[i] = trialEnergies[i]
				if energies[i] < energies[best] {
					best = i
				}
			}
		}

		if cfg.Disp {
			slog.Info("differential evolution", "generation", gen, "best_energy", energies[best])
		}

		mean, stddev := stat.MeanStdDev(energies, nil)
		if stddev <= cfg.Tolerance*math.Abs(mean) {
			break
		}
	}

	res := make([]float64, dims)
	copy(res, pop[best])
	return res, nil
}

// pickTwo draws two distinct population indices different from each other
// and from both excluded indices.
func pickTwo(rng *rand.Rand, np, i, best int) (int, int) {
	r1 := rng.IntN(np)
	for r1 == i || r1 == best {
		r1 = rng.IntN(np)
	}
	r2 := rng.IntN(np)
	for r2 == i || r2 == best || r2 == r1 {
		r2 = rng.IntN(np)
	}
	return r1, r2
}

func clamp(v float64, b Bound) float64 {
	if v < b.Low {
		return b.Low
	}
	if v > b.High {
		return b.High
	}
	return v
}

func bestIndex(energies []float64) int {
	best := 0
	for i, e := range energies {
		if e < energies[best] {
			best = i
		}
	}
	return best
}

// evalAll evaluates the objective for every vector, optionally bounding the
// number of concurrent evaluations.
func evalAll(objective Objective, xs [][]float64, out []float64, parallelization int) {
	if parallelization <= 1 {
		for i, x := range xs {
			out[i] = objective(x)
		}
		return
	}

	sem := make(chan struct{}, parallelization)
	var wg sync.WaitGroup
	for i := range xs {
		sem <- struct{}{}
		wg.Add(1)

		go func(i int) {
			defer func() {
				wg.Done()
				<-sem
			}()
			out[i] = objective(xs[i])
		}(i)
	}
	wg.Wait()
}
