package phenofit

import (
	"fmt"

	"github.com/phenolab/go-phenofit/estimate"
	"github.com/phenolab/go-phenofit/loss"
)

// FitOptions controls how Fit searches for parameters. If no options are
// provided the practical differential evolution configuration is used.
type FitOptions struct {
	// Method selects the parameter search strategy.
	Method estimate.Method

	// Preset selects the bundled optimizer configuration used when Config
	// is nil.
	Preset estimate.Preset

	// Config overrides the preset with explicit per-strategy settings.
	Config *estimate.Config

	// Metric is the loss minimized during fitting.
	Metric loss.Metric

	// Debug emits optimizer progress logs.
	Debug bool
}

// NewDefaultFitOptions returns practical differential evolution minimizing
// RMSE.
func NewDefaultFitOptions() *FitOptions {
	return &FitOptions{
		Method: estimate.DifferentialEvolution,
		Preset: estimate.PresetPractical,
		Metric: loss.MetricRMSE,
	}
}

// Validate fills in a complete optimizer configuration from the preset when
// none was given.
func (o *FitOptions) Validate() (*FitOptions, error) {
	if o == nil {
		o = NewDefaultFitOptions()
	}
	if o.Config == nil {
		cfg, err := estimate.NewConfig(o.Preset)
		if err != nil {
			return nil, fmt.Errorf("invalid fit options, %w", err)
		}
		o.Config = cfg
	}
	if o.Debug {
		if o.Config.DE != nil {
			o.Config.DE.Disp = true
		}
		if o.Config.BF != nil {
			o.Config.BF.Disp = true
		}
		if o.Config.BH != nil {
			o.Config.BH.Disp = true
		}
	}
	return o, nil
}
