// Package phenofit fits parametric phenology models to observed event days
// and daily temperature series, and predicts event days for new series. A
// model pairs one variant, the biological formula, with a parameter plan
// splitting its parameters into fixed values and bounded search ranges.
package phenofit

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/phenolab/go-phenofit/dataset"
	"github.com/phenolab/go-phenofit/estimate"
	"github.com/phenolab/go-phenofit/forcing"
	"github.com/phenolab/go-phenofit/loss"
	"github.com/phenolab/go-phenofit/models"
	"github.com/phenolab/go-phenofit/params"
)

var (
	ErrNoVariant          = errors.New("no model variant")
	ErrParamsNotSet       = errors.New("parameters not fit or fixed, fit the model first")
	ErrNothingToPredict   = errors.New("no fitting data retained, pass temperature data to predict")
	ErrNothingToEstimate  = errors.New("all parameters fixed, nothing to estimate")
	ErrNaNInput           = errors.New("temperature array contains NaN")
	ErrGridOnlyBruteForce = errors.New("grid parameter ranges require the brute force method")
)

// Model binds a variant to a parameter plan and, once fit, to a complete
// parameter set. The zero value is unusable; construct with New, NewNamed,
// or LoadSaved.
type Model struct {
	variant models.Variant
	plan    *params.Plan

	// complete name to value set once fit or fully fixed
	fitted map[string]float64

	// free parameter count of the most recent fit, used by AIC scoring
	lastFreeCount int

	// fitting inputs retained for Predict() and Score()
	observed []float64
	temp     *mat.Dense
	doyAxis  []float64
}

// New builds a model from a variant and per-parameter settings. Parameters
// absent from settings default to the variant's search bounds. A model
// whose parameters are all fixed can predict immediately and rejects Fit.
func New(variant models.Variant, settings map[string]params.Setting) (*Model, error) {
	if variant == nil {
		return nil, ErrNoVariant
	}
	plan, err := params.Organize(variant.Schema(), settings)
	if err != nil {
		return nil, fmt.Errorf("organizing %s parameters, %w", variant.Name(), err)
	}

	m := &Model{
		variant: variant,
		plan:    plan,
	}
	if final, ok := plan.Final(); ok {
		m.fitted = final
	}
	return m, nil
}

// Fit estimates the free parameters against observed event days and their
// daily temperature records. On failure the model keeps its previous state.
func (m *Model) Fit(observations []dataset.Observation, temperatures []dataset.DailyTemperature, opt *FitOptions) error {
	opt, err := opt.Validate()
	if err != nil {
		return err
	}
	if m.plan.FreeCount() == 0 {
		return ErrNothingToEstimate
	}
	if m.plan.HasGrid() && opt.Method != estimate.BruteForce {
		return ErrGridOnlyBruteForce
	}

	data, err := dataset.Format(observations, temperatures, false)
	if err != nil {
		return fmt.Errorf("formatting fit data, %w", err)
	}

	cfg, err := m.fitConfig(opt)
	if err != nil {
		return err
	}

	freeCount := m.plan.FreeCount()
	objective := func(x []float64) float64 {
		p, err := m.plan.Translate(x)
		if err != nil {
			return math.Inf(1)
		}
		pred, err := m.variant.Apply(data.Temperature, data.DOYAxis, p)
		if err != nil {
			return math.Inf(1)
		}
		score, err := opt.Metric.Score(data.ObservedDOY, pred, freeCount)
		if err != nil {
			return math.Inf(1)
		}
		return score
	}

	bounds := make([]estimate.Bound, 0, freeCount)
	for _, b := range m.plan.Bounds() {
		bounds = append(bounds, estimate.Bound{Low: b.Low, High: b.High})
	}

	vec, err := estimate.FitParameters(objective, bounds, opt.Method, cfg)
	if err != nil {
		return fmt.Errorf("fitting %s, %w", m.variant.Name(), err)
	}
	fitted, err := m.plan.Translate(vec)
	if err != nil {
		return fmt.Errorf("translating fitted parameters, %w", err)
	}

	m.fitted = fitted
	m.lastFreeCount = freeCount
	m.observed = data.ObservedDOY
	m.temp = data.Temperature
	m.doyAxis = data.DOYAxis
	return nil
}

// fitConfig expands grid parameter settings into explicit brute force
// ranges. Free parameters without a grid setting are discretized evenly
// across their bounds using the configured grid point count.
func (m *Model) fitConfig(opt *FitOptions) (*estimate.Config, error) {
	if !m.plan.HasGrid() {
		return opt.Config, nil
	}

	bfCfg, err := opt.Config.BF.Validate()
	if err != nil {
		return nil, err
	}
	ranges := make([]estimate.GridRange, 0, m.plan.FreeCount())
	for _, fp := range m.plan.Free() {
		if fp.Setting.Kind() == params.KindGrid {
			g := fp.Setting.Grid()
			ranges = append(ranges, estimate.GridRange{Start: g.Start, Stop: g.Stop, Step: g.Step})
			continue
		}
		b := fp.Setting.Bounds()
		if b.High == b.Low {
			ranges = append(ranges, estimate.GridRange{Start: b.Low, Stop: b.Low + 1, Step: 1})
			continue
		}
		// spans both bounds like the default grid, with the stop nudged past
		// the upper bound since ranges are walked half-open
		step := (b.High - b.Low) / float64(bfCfg.GridPoints-1)
		ranges = append(ranges, estimate.GridRange{
			Start: b.Low,
			Stop:  b.High + step/2,
			Step:  step,
		})
	}

	cfg := *opt.Config
	bf := *bfCfg
	bf.Ranges = ranges
	cfg.BF = &bf
	return &cfg, nil
}

// Predict returns event day predictions for the temperature series retained
// from the most recent fit.
func (m *Model) Predict() ([]float64, error) {
	if m.fitted == nil {
		return nil, ErrParamsNotSet
	}
	if m.temp == nil {
		return nil, ErrNothingToPredict
	}
	return m.variant.Apply(m.temp, m.doyAxis, m.fitted)
}

// PredictArray returns event day predictions for an explicit temperature
// matrix with one column per replicate. The matrix must be NaN free.
func (m *Model) PredictArray(temp *mat.Dense, doyAxis []float64) ([]float64, error) {
	if m.fitted == nil {
		return nil, ErrParamsNotSet
	}
	if hasNaN(temp) {
		return nil, ErrNaNInput
	}
	return m.variant.Apply(temp, doyAxis, m.fitted)
}

// PredictData formats long-form records and returns one event day
// prediction per observation row.
func (m *Model) PredictData(observations []dataset.Observation, temperatures []dataset.DailyTemperature) ([]float64, error) {
	if m.fitted == nil {
		return nil, ErrParamsNotSet
	}
	data, err := dataset.Format(observations, temperatures, true)
	if err != nil {
		return nil, fmt.Errorf("formatting prediction data, %w", err)
	}
	return m.variant.Apply(data.Temperature, data.DOYAxis, m.fitted)
}

// PredictGrid predicts event days over a spatial temperature grid. Masked
// cells, series that are entirely NaN, come back as NaN in the (n1, n2)
// result.
func (m *Model) PredictGrid(grid *forcing.Grid, doyAxis []float64) ([][]float64, error) {
	if m.fitted == nil {
		return nil, ErrParamsNotSet
	}
	if err := grid.Validate(); err != nil {
		return nil, err
	}

	mask := grid.Mask()
	cols := grid.Columns()
	rows, n := cols.Dims()
	for j, masked := range mask {
		if !masked {
			continue
		}
		for i := 0; i < rows; i++ {
			cols.Set(i, j, 0)
		}
	}

	pred, err := m.variant.Apply(cols, doyAxis, m.fitted)
	if err != nil {
		return nil, err
	}
	if len(pred) != n {
		return nil, fmt.Errorf("got %d predictions for %d cells, %w", len(pred), n, forcing.ErrShapeMismatch)
	}
	for j, masked := range mask {
		if masked {
			pred[j] = math.NaN()
		}
	}
	return grid.Reshape(pred)
}

// Score evaluates the model against the observations retained from the most
// recent fit. AIC uses the free parameter count of that fit.
func (m *Model) Score(metric loss.Metric) (float64, error) {
	if m.observed == nil {
		return 0, ErrNothingToPredict
	}
	pred, err := m.Predict()
	if err != nil {
		return 0, err
	}
	return metric.Score(m.observed, pred, m.lastFreeCount)
}

// ScoreData evaluates the model against explicit observations and their
// temperature records.
func (m *Model) ScoreData(metric loss.Metric, observations []dataset.Observation, temperatures []dataset.DailyTemperature) (float64, error) {
	data, err := dataset.Format(observations, temperatures, false)
	if err != nil {
		return 0, fmt.Errorf("formatting score data, %w", err)
	}
	if m.fitted == nil {
		return 0, ErrParamsNotSet
	}
	pred, err := m.variant.Apply(data.Temperature, data.DOYAxis, m.fitted)
	if err != nil {
		return 0, err
	}
	return metric.Score(data.ObservedDOY, pred, m.lastFreeCount)
}

// Params returns a copy of the complete fitted parameter set.
func (m *Model) Params() (map[string]float64, error) {
	if m.fitted == nil {
		return nil, ErrParamsNotSet
	}
	out := make(map[string]float64, len(m.fitted))
	for name, v := range m.fitted {
		out[name] = v
	}
	return out, nil
}

// VariantName returns the name of the underlying model variant.
func (m *Model) VariantName() string {
	return m.variant.Name()
}

func hasNaN(m *mat.Dense) bool {
	rows, cols := m.Dims()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if math.IsNaN(m.At(i, j)) {
				return true
			}
		}
	}
	return false
}
