// Package params classifies model parameters as fixed values or free search
// ranges and maintains the fixed/free partition used throughout fitting and
// prediction. The free-parameter order is captured once when a Plan is built
// and never changes, since the optimizer communicates only a positional
// vector.
package params

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownParameter = errors.New("unknown parameter")
	ErrInvalidBounds    = errors.New("lower bound is greater than upper bound")
	ErrInvalidGridStep  = errors.New("grid step must be positive")
	ErrParamVectorLen   = errors.New("parameter vector length does not match free parameter count")
)

// Kind enumerates how a single parameter participates in fitting.
type Kind int

const (
	// KindFixed holds a concrete scalar excluded from optimization.
	KindFixed Kind = iota
	// KindBounded is estimated within a closed [low, high] interval.
	KindBounded
	// KindGrid is enumerated over a discretized range. Only valid under
	// brute force fitting.
	KindGrid
)

// Bounds is a closed search interval for one parameter.
type Bounds struct {
	Low  float64
	High float64
}

// GridRange is a discretized half-open range [Start, Stop) walked in Step
// increments by the brute force search.
type GridRange struct {
	Start float64
	Stop  float64
	Step  float64
}

// Setting is one parameter's requested treatment: a fixed scalar, a bounded
// estimate, or a discretized grid.
type Setting struct {
	kind   Kind
	value  float64
	bounds Bounds
	grid   GridRange
}

// Fixed returns a Setting holding a concrete scalar value.
func Fixed(v float64) Setting {
	return Setting{kind: KindFixed, value: v}
}

// Estimate returns a Setting to be searched within [low, high].
func Estimate(low, high float64) Setting {
	return Setting{kind: KindBounded, bounds: Bounds{Low: low, High: high}}
}

// EstimateGrid returns a Setting enumerated over [start, stop) in step
// increments by brute force search.
func EstimateGrid(start, stop, step float64) Setting {
	return Setting{kind: KindGrid, grid: GridRange{Start: start, Stop: stop, Step: step}}
}

// Kind reports how the parameter participates in fitting.
func (s Setting) Kind() Kind { return s.kind }

// Value returns the fixed scalar. Only meaningful for KindFixed.
func (s Setting) Value() float64 { return s.value }

// Bounds returns the search interval. For KindGrid the grid endpoints are
// reported so all free parameters present a bounds pair to the optimizer.
func (s Setting) Bounds() Bounds {
	if s.kind == KindGrid {
		return Bounds{Low: s.grid.Start, High: s.grid.Stop}
	}
	return s.bounds
}

// Grid returns the discretized range. Only meaningful for KindGrid.
func (s Setting) Grid() GridRange { return s.grid }

func (s Setting) validate(name string) error {
	switch s.kind {
	case KindFixed:
	case KindBounded:
		if s.bounds.Low > s.bounds.High {
			return fmt.Errorf("parameter %q bounds (%v, %v), %w", name, s.bounds.Low, s.bounds.High, ErrInvalidBounds)
		}
	case KindGrid:
		if s.grid.Step <= 0 {
			return fmt.Errorf("parameter %q step %v, %w", name, s.grid.Step, ErrInvalidGridStep)
		}
		if s.grid.Start > s.grid.Stop {
			return fmt.Errorf("parameter %q range (%v, %v), %w", name, s.grid.Start, s.grid.Stop, ErrInvalidBounds)
		}
	}
	return nil
}

// Def declares one required model parameter along with its default search
// bounds used when the caller does not request anything for it.
type Def struct {
	Name string
	Low  float64
	High float64
}

// Schema is a model's complete required-parameter list in declaration order.
type Schema []Def

// Contains reports whether name is a required parameter of the schema.
func (s Schema) Contains(name string) bool {
	for _, def := range s {
		if def.Name == name {
			return true
		}
	}
	return false
}

// Names returns all required parameter names in declaration order.
func (s Schema) Names() []string {
	names := make([]string, 0, len(s))
	for _, def := range s {
		names = append(names, def.Name)
	}
	return names
}

// FreeParam is one free parameter with its position in the optimizer vector
// given by its index in Plan.Free.
type FreeParam struct {
	Name    string
	Setting Setting
}

// Plan is the immutable fixed/free partition for one fit call. Free
// parameters keep the schema's declaration order.
type Plan struct {
	free  []FreeParam
	fixed map[string]float64
}

// Organize merges the schema defaults with the requested settings and splits
// the result into free and fixed parameters. Any requested name outside the
// schema is a configuration error.
func Organize(schema Schema, requested map[string]Setting) (*Plan, error) {
	for name := range requested {
		if !schema.Contains(name) {
			return nil, fmt.Errorf("%q, %w", name, ErrUnknownParameter)
		}
	}

	p := &Plan{
		fixed: make(map[string]float64),
	}
	for _, def := range schema {
		setting, ok := requested[def.Name]
		if !ok {
			setting = Estimate(def.Low, def.High)
		}
		if err := setting.validate(def.Name); err != nil {
			return nil, err
		}
		if setting.Kind() == KindFixed {
			p.fixed[def.Name] = setting.Value()
			continue
		}
		p.free = append(p.free, FreeParam{Name: def.Name, Setting: setting})
	}
	return p, nil
}

// FreeCount returns the number of parameters the optimizer will estimate.
func (p *Plan) FreeCount() int { return len(p.free) }

// Free returns the free parameters in optimizer order.
func (p *Plan) Free() []FreeParam {
	free := make([]FreeParam, len(p.free))
	copy(free, p.free)
	return free
}

// HasGrid reports whether any free parameter uses a discretized range,
// which is only valid under brute force fitting.
func (p *Plan) HasGrid() bool {
	for _, fp := range p.free {
		if fp.Setting.Kind() == KindGrid {
			return true
		}
	}
	return false
}

// Fixed returns a copy of the fixed parameter values.
func (p *Plan) Fixed() map[string]float64 {
	fixed := make(map[string]float64, len(p.fixed))
	for name, v := range p.fixed {
		fixed[name] = v
	}
	return fixed
}

// Bounds returns the search interval of every free parameter in optimizer
// order.
func (p *Plan) Bounds() []Bounds {
	bounds := make([]Bounds, 0, len(p.free))
	for _, fp := range p.free {
		bounds = append(bounds, fp.Setting.Bounds())
	}
	return bounds
}

// Translate maps a positional parameter vector back to named values and
// merges in the fixed parameters, yielding a complete parameter set. The
// vector length must exactly match the free parameter count.
func (p *Plan) Translate(vec []float64) (map[string]float64, error) {
	if len(vec) != len(p.free) {
		return nil, fmt.Errorf("got %d values for %d free parameters, %w", len(vec), len(p.free), ErrParamVectorLen)
	}
	out := p.Fixed()
	for i, fp := range p.free {
		out[fp.Name] = vec[i]
	}
	return out, nil
}

// Final returns the complete parameter set when nothing is free, in which
// case fitting is a no-op and prediction can proceed immediately.
func (p *Plan) Final() (map[string]float64, bool) {
	if len(p.free) != 0 {
		return nil, false
	}
	return p.Fixed(), true
}
