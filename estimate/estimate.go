// Package estimate searches for model parameters that minimize a scalar
// objective within per-parameter bounds. It exposes a narrow numeric
// contract: an objective over a positional vector, an ordered bounds list,
// and a search method, returning the best vector found. Mapping positions
// back to parameter names is the caller's concern.
package estimate

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownMethod        = errors.New("unknown optimizer method")
	ErrMethodNotImplemented = errors.New("optimizer method recognized but not implemented")
	ErrUnknownPreset        = errors.New("unknown optimizer preset")
	ErrNoObjective          = errors.New("no objective function")
	ErrNoBounds             = errors.New("no parameter bounds")
	ErrRangeCountMismatch   = errors.New("explicit grid range count does not match bounds count")
)

// Objective is a scalar error function over a positional parameter vector.
// It must be pure: implementations may be called concurrently.
type Objective func(x []float64) float64

// Bound is the closed search interval for one parameter. The slice order
// passed to FitParameters is the order of the returned vector.
type Bound struct {
	Low  float64
	High float64
}

// GridRange is an explicit discretized range [Start, Stop) stepped by Step,
// consumed only by the brute force search.
type GridRange struct {
	Start float64
	Stop  float64
	Step  float64
}

// Method enumerates the supported search strategies.
type Method int

const (
	// DifferentialEvolution converges a random population on a global
	// optimum within the bounds.
	DifferentialEvolution Method = iota
	// BruteForce exhaustively evaluates a grid spanning the bounds,
	// optionally polished by a local refinement step.
	BruteForce
	// BasinHopping hops randomly around the search space, locally
	// minimizing after each hop.
	BasinHopping
	// SimulatedAnnealing is recognized but not implemented.
	SimulatedAnnealing
)

// ParseMethod maps a method name to its Method value.
func ParseMethod(name string) (Method, error) {
	switch name {
	case "DE":
		return DifferentialEvolution, nil
	case "BF":
		return BruteForce, nil
	case "BH":
		return BasinHopping, nil
	case "SA":
		return SimulatedAnnealing, nil
	default:
		return 0, fmt.Errorf("%q, %w", name, ErrUnknownMethod)
	}
}

func (m Method) String() string {
	switch m {
	case DifferentialEvolution:
		return "DE"
	case BruteForce:
		return "BF"
	case BasinHopping:
		return "BH"
	case SimulatedAnnealing:
		return "SA"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// Preset names a bundled optimizer configuration trading search breadth for
// speed.
type Preset int

const (
	PresetTesting Preset = iota
	PresetPractical
	PresetIntensive
)

// ParsePreset maps a preset name to its Preset value.
func ParsePreset(name string) (Preset, error) {
	switch name {
	case "testing":
		return PresetTesting, nil
	case "practical":
		return PresetPractical, nil
	case "intensive":
		return PresetIntensive, nil
	default:
		return 0, fmt.Errorf("%q, %w", name, ErrUnknownPreset)
	}
}

func (p Preset) String() string {
	switch p {
	case PresetTesting:
		return "testing"
	case PresetPractical:
		return "practical"
	case PresetIntensive:
		return "intensive"
	default:
		return fmt.Sprintf("Preset(%d)", int(p))
	}
}

// Config bundles the per-strategy configurations. Only the entry for the
// chosen method is consulted; nil entries fall back to the practical preset.
type Config struct {
	DE *DEConfig
	BF *BFConfig
	BH *BHConfig
}

// NewConfig returns a Config with every strategy set to the given preset.
func NewConfig(preset Preset) (*Config, error) {
	de, err := NewDEConfig(preset)
	if err != nil {
		return nil, err
	}
	bf, err := NewBFConfig(preset)
	if err != nil {
		return nil, err
	}
	bh, err := NewBHConfig(preset)
	if err != nil {
		return nil, err
	}
	return &Config{DE: de, BF: bf, BH: bh}, nil
}

// FitParameters searches for the parameter vector minimizing the objective
// within bounds using the chosen method. The bounds slice is never mutated.
func FitParameters(objective Objective, bounds []Bound, method Method, cfg *Config) ([]float64, error) {
	if objective == nil {
		return nil, ErrNoObjective
	}
	if len(bounds) == 0 {
		return nil, ErrNoBounds
	}
	if cfg == nil {
		cfg = &Config{}
	}

	b := make([]Bound, len(bounds))
	copy(b, bounds)

	switch method {
	case DifferentialEvolution:
		deCfg, err := cfg.DE.Validate()
		if err != nil {
			return nil, err
		}
		return differentialEvolution(objective, b, deCfg)
	case BruteForce:
		bfCfg, err := cfg.BF.Validate()
		if err != nil {
			return nil, err
		}
		return bruteForce(objective, b, bfCfg)
	case BasinHopping:
		bhCfg, err := cfg.BH.Validate()
		if err != nil {
			return nil, err
		}
		return basinHopping(objective, b, bhCfg)
	case SimulatedAnnealing:
		return nil, fmt.Errorf("simulated annealing, %w", ErrMethodNotImplemented)
	default:
		return nil, fmt.Errorf("%v, %w", method, ErrUnknownMethod)
	}
}
