package estimate

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
)

const DefaultBFGridPoints = 20

var (
	ErrGridPointsTooSmall = errors.New("grid must have at least 2 points per parameter")
	ErrEmptyGridRange     = errors.New("grid range produces no points")
)

// BFConfig configures the brute force grid search.
type BFConfig struct {
	// GridPoints is the number of evenly spaced evaluations per parameter
	// when no explicit ranges are supplied.
	GridPoints int

	// Ranges optionally supplies an explicit discretized range per
	// parameter, in bounds order. Used for slice style parameter settings.
	Ranges []GridRange

	// Polish refines the best grid point with a local minimization.
	Polish bool

	// Disp logs the grid size and best energy found.
	Disp bool
}

// NewDefaultBFConfig returns the practical brute force configuration.
func NewDefaultBFConfig() *BFConfig {
	cfg, _ := NewBFConfig(PresetPractical)
	return cfg
}

// NewBFConfig returns the brute force configuration for a named preset.
func NewBFConfig(preset Preset) (*BFConfig, error) {
	switch preset {
	case PresetTesting:
		return &BFConfig{GridPoints: 2, Polish: true}, nil
	case PresetPractical:
		return &BFConfig{GridPoints: 20, Polish: true}, nil
	case PresetIntensive:
		return &BFConfig{GridPoints: 40, Polish: true}, nil
	default:
		return nil, fmt.Errorf("%v, %w", preset, ErrUnknownPreset)
	}
}

// Validate runs basic validation on the brute force options.
func (c *BFConfig) Validate() (*BFConfig, error) {
	if c == nil {
		return NewDefaultBFConfig(), nil
	}
	if len(c.Ranges) == 0 && c.GridPoints < 2 {
		return nil, ErrGridPointsTooSmall
	}
	for i, r := range c.Ranges {
		if r.Step <= 0 {
			return nil, fmt.Errorf("range %d step %v, %w", i, r.Step, ErrEmptyGridRange)
		}
		if r.Start >= r.Stop {
			return nil, fmt.Errorf("range %d [%v, %v), %w", i, r.Start, r.Stop, ErrEmptyGridRange)
		}
	}
	return c, nil
}

// bruteForce exhaustively evaluates a cartesian grid over the bounds. The
// walk order is deterministic so repeated runs on identical inputs yield
// identical parameters.
func bruteForce(objective Objective, bounds []Bound, cfg *BFConfig) ([]float64, error) {
	values, err := gridValues(bounds, cfg)
	if err != nil {
		return nil, err
	}

	dims := len(bounds)
	idx := make([]int, dims)
	point := make([]float64, dims)

	best := make([]float64, dims)
	bestEnergy := math.Inf(1)
	var evals int

	for {
		for j := 0; j < dims; j++ {
			point[j] = values[j][idx[j]]
		}
		if energy := objective(point); energy < bestEnergy {
			bestEnergy = energy
			copy(best, point)
		}
		evals++

		// odometer increment over the grid indices
		j := dims - 1
		for j >= 0 {
			idx[j]++
			if idx[j] < len(values[j]) {
				break
			}
			idx[j] = 0
			j--
		}
		if j < 0 {
			break
		}
	}

	if cfg.Polish {
		best, bestEnergy = localSearch(objective, bounds, best, bestEnergy)
	}

	if cfg.Disp {
		slog.Info("brute force", "evaluations", evals, "best_energy", bestEnergy, "polish", cfg.Polish)
	}

	return best, nil
}

// gridValues expands the candidate values per parameter, either from the
// explicit discretized ranges or evenly spaced across the bounds.
func gridValues(bounds []Bound, cfg *BFConfig) ([][]float64, error) {
	if len(cfg.Ranges) != 0 && len(cfg.Ranges) != len(bounds) {
		return nil, fmt.Errorf("got %d ranges for %d parameters, %w", len(cfg.Ranges), len(bounds), ErrRangeCountMismatch)
	}

	values := make([][]float64, len(bounds))
	if len(cfg.Ranges) != 0 {
		for j, r := range cfg.Ranges {
			for v := r.Start; v < r.Stop; v += r.Step {
				values[j] = append(values[j], v)
			}
			if len(values[j]) == 0 {
				return nil, fmt.Errorf("range %d, %w", j, ErrEmptyGridRange)
			}
		}
		return values, nil
	}

	for j, b := range bounds {
		values[j] = make([]float64, cfg.GridPoints)
		step := (b.High - b.Low) / float64(cfg.GridPoints-1)
		for i := 0; i < cfg.GridPoints; i++ {
			values[j][i] = b.Low + float64(i)*step
		}
	}
	return values, nil
}
