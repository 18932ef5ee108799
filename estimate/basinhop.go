package estimate

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
)

const (
	DefaultBHTemperature = 0.5
	DefaultBHStepSize    = 0.5
)

var (
	ErrNonPositiveHops    = errors.New("hop count must be positive")
	ErrNegativeTemp       = errors.New("negative temperature")
	ErrNonPositiveStep    = errors.New("step size must be positive")
	ErrInitialGuessLength = errors.New("initial guess length does not match bounds count")
)

// BHConfig configures the basin hopping search.
type BHConfig struct {
	// Hops is the number of random perturbation plus local minimization
	// rounds.
	Hops int

	// Temperature scales the Metropolis acceptance of uphill hops.
	Temperature float64

	// StepSize is the maximum per coordinate perturbation of each hop.
	StepSize float64

	// X0 optionally sets the initial guess. When absent one integer is
	// drawn uniformly from each bound pair.
	X0 []float64

	// Seed fixes the random sequence for reproducible fits. 0 seeds from
	// the wall clock.
	Seed uint64

	// Disp emits per hop progress logs.
	Disp bool
}

// NewDefaultBHConfig returns the practical basin hopping configuration.
func NewDefaultBHConfig() *BHConfig {
	cfg, _ := NewBHConfig(PresetPractical)
	return cfg
}

// NewBHConfig returns the basin hopping configuration for a named preset.
func NewBHConfig(preset Preset) (*BHConfig, error) {
	switch preset {
	case PresetTesting:
		return &BHConfig{Hops: 100, Temperature: DefaultBHTemperature, StepSize: DefaultBHStepSize}, nil
	case PresetPractical:
		return &BHConfig{Hops: 50000, Temperature: DefaultBHTemperature, StepSize: DefaultBHStepSize}, nil
	case PresetIntensive:
		return &BHConfig{Hops: 500000, Temperature: DefaultBHTemperature, StepSize: DefaultBHStepSize}, nil
	default:
		return nil, fmt.Errorf("%v, %w", preset, ErrUnknownPreset)
	}
}

// Validate runs basic validation on the basin hopping options.
func (c *BHConfig) Validate() (*BHConfig, error) {
	if c == nil {
		return NewDefaultBHConfig(), nil
	}
	if c.Hops < 1 {
		return nil, ErrNonPositiveHops
	}
	if c.Temperature < 0 {
		return nil, ErrNegativeTemp
	}
	if c.StepSize <= 0 {
		return nil, ErrNonPositiveStep
	}
	return c, nil
}

// basinHopping perturbs the current point, locally minimizes, and accepts
// the hop per the Metropolis criterion.
func basinHopping(objective Objective, bounds []Bound, cfg *BHConfig) ([]float64, error) {
	rng := newRNG(cfg.Seed)
	dims := len(bounds)

	// the search owns its starting point so accepted hops never write back
	// into the caller's configuration
	x0 := make([]float64, dims)
	if cfg.X0 == nil {
		for j, b := range bounds {
			span := int(b.High - b.Low)
			if span < 1 {
				x0[j] = b.Low
				continue
			}
			x0[j] = b.Low + float64(rng.IntN(span))
		}
	} else {
		if len(cfg.X0) != dims {
			return nil, fmt.Errorf("got %d values for %d parameters, %w", len(cfg.X0), dims, ErrInitialGuessLength)
		}
		copy(x0, cfg.X0)
	}

	cur, curEnergy := localSearch(objective, bounds, x0, objective(x0))

	best := make([]float64, dims)
	copy(best, cur)
	bestEnergy := curEnergy

	cand := make([]float64, dims)
	for hop := 1; hop <= cfg.Hops; hop++ {
		for j, b := range bounds {
			cand[j] = clamp(cur[j]+(rng.Float64()*2-1)*cfg.StepSize, b)
		}
		hopX, hopEnergy := localSearch(objective, bounds, cand, objective(cand))

		if hopEnergy < bestEnergy {
			copy(best, hopX)
			bestEnergy = hopEnergy
		}
		if accept(rng.Float64(), hopEnergy, curEnergy, cfg.Temperature) {
			copy(cur, hopX)
			curEnergy = hopEnergy
		}

		if cfg.Disp {
			slog.Info("basin hopping", "hop", hop, "current_energy", curEnergy, "best_energy", bestEnergy)
		}
	}
	return best, nil
}

// accept implements the Metropolis criterion. A zero temperature only
// accepts downhill hops.
func accept(u, candidate, current, temperature float64) bool {
	if candidate <= current {
		return true
	}
	if temperature == 0 {
		return false
	}
	return u < math.Exp(-(candidate-current)/temperature)
}
