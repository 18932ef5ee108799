package estimate

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sphereObjective(x []float64) float64 {
	return (x[0]-1)*(x[0]-1) + (x[1]+2)*(x[1]+2)
}

func TestParseMethod(t *testing.T) {
	testData := map[string]struct {
		expected Method
		err      error
	}{
		"DE": {expected: DifferentialEvolution},
		"BF": {expected: BruteForce},
		"BH": {expected: BasinHopping},
		"SA": {expected: SimulatedAnnealing},
		"XX": {err: ErrUnknownMethod},
	}
	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			m, err := ParseMethod(name)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
			assert.Equal(t, td.expected, m)
			assert.Equal(t, name, m.String())
		})
	}
}

func TestParsePreset(t *testing.T) {
	p, err := ParsePreset("testing")
	require.Nil(t, err)
	assert.Equal(t, PresetTesting, p)

	_, err = ParsePreset("exhaustive")
	assert.ErrorIs(t, err, ErrUnknownPreset)
}

func TestFitParametersValidation(t *testing.T) {
	bounds := []Bound{{Low: 0, High: 1}}

	_, err := FitParameters(nil, bounds, DifferentialEvolution, nil)
	assert.ErrorIs(t, err, ErrNoObjective)

	_, err = FitParameters(sphereObjective, nil, DifferentialEvolution, nil)
	assert.ErrorIs(t, err, ErrNoBounds)

	_, err = FitParameters(sphereObjective, bounds, SimulatedAnnealing, nil)
	assert.ErrorIs(t, err, ErrMethodNotImplemented)

	_, err = FitParameters(sphereObjective, bounds, Method(42), nil)
	assert.ErrorIs(t, err, ErrUnknownMethod)
}

func TestDifferentialEvolution(t *testing.T) {
	bounds := []Bound{{Low: -5, High: 5}, {Low: -5, High: 5}}
	cfg := &Config{
		DE: &DEConfig{
			MaxIter:       200,
			PopSize:       20,
			Mutation:      [2]float64{0.5, 1},
			Recombination: 0.25,
			Tolerance:     DefaultDETolerance,
			Seed:          42,
		},
	}

	res, err := FitParameters(sphereObjective, bounds, DifferentialEvolution, cfg)
	require.Nil(t, err)
	require.Len(t, res, 2)
	assert.InDelta(t, 1.0, res[0], 0.2)
	assert.InDelta(t, -2.0, res[1], 0.2)
}

func TestDifferentialEvolutionDeterministicSeed(t *testing.T) {
	bounds := []Bound{{Low: -5, High: 5}, {Low: -5, High: 5}}
	cfg := &Config{
		DE: &DEConfig{
			MaxIter:       20,
			PopSize:       10,
			Mutation:      [2]float64{0.5, 1},
			Recombination: 0.25,
			Seed:          7,
		},
	}

	first, err := FitParameters(sphereObjective, bounds, DifferentialEvolution, cfg)
	require.Nil(t, err)
	second, err := FitParameters(sphereObjective, bounds, DifferentialEvolution, cfg)
	require.Nil(t, err)
	assert.Equal(t, first, second)
}

func TestDifferentialEvolutionParallel(t *testing.T) {
	bounds := []Bound{{Low: -5, High: 5}, {Low: -5, High: 5}}
	cfg := &Config{
		DE: &DEConfig{
			MaxIter:         50,
			PopSize:         10,
			Mutation:        [2]float64{0.5, 1},
			Recombination:   0.25,
			Seed:            3,
			Parallelization: 4,
		},
	}

	res, err := FitParameters(sphereObjective, bounds, DifferentialEvolution, cfg)
	require.Nil(t, err)
	assert.Less(t, sphereObjective(res), 1.0)
}

func TestBruteForceGrid(t *testing.T) {
	obj := func(x []float64) float64 { return math.Abs(x[0] - 3.3) }
	bounds := []Bound{{Low: 0, High: 10}}

	cfg := &Config{BF: &BFConfig{GridPoints: 21}}
	res, err := FitParameters(obj, bounds, BruteForce, cfg)
	require.Nil(t, err)
	// 21 points over [0, 10] steps by 0.5 so the best grid point is 3.5
	assert.InDelta(t, 3.5, res[0], 1e-12)

	cfg = &Config{BF: &BFConfig{GridPoints: 21, Polish: true}}
	res, err = FitParameters(obj, bounds, BruteForce, cfg)
	require.Nil(t, err)
	assert.InDelta(t, 3.3, res[0], 1e-3)
}

func TestBruteForceDeterminism(t *testing.T) {
	bounds := []Bound{{Low: -5, High: 5}, {Low: -5, High: 5}}
	cfg := &Config{BF: &BFConfig{GridPoints: 11, Polish: true}}

	first, err := FitParameters(sphereObjective, bounds, BruteForce, cfg)
	require.Nil(t, err)
	second, err := FitParameters(sphereObjective, bounds, BruteForce, cfg)
	require.Nil(t, err)
	assert.Equal(t, first, second)
}

func TestBruteForceExplicitRanges(t *testing.T) {
	obj := func(x []float64) float64 { return math.Abs(x[0]-4) + math.Abs(x[1]-0.5) }
	bounds := []Bound{{Low: 0, High: 10}, {Low: 0, High: 1}}
	cfg := &Config{
		BF: &BFConfig{
			Ranges: []GridRange{
				{Start: 0, Stop: 10, Step: 2},
				{Start: 0, Stop: 1, Step: 0.25},
			},
		},
	}

	res, err := FitParameters(obj, bounds, BruteForce, cfg)
	require.Nil(t, err)
	assert.Equal(t, []float64{4, 0.5}, res)

	cfg.BF.Ranges = cfg.BF.Ranges[:1]
	_, err = FitParameters(obj, bounds, BruteForce, cfg)
	assert.ErrorIs(t, err, ErrRangeCountMismatch)
}

func TestBasinHopping(t *testing.T) {
	bounds := []Bound{{Low: -5, High: 5}, {Low: -5, High: 5}}
	cfg := &Config{
		BH: &BHConfig{
			Hops:        20,
			Temperature: DefaultBHTemperature,
			StepSize:    DefaultBHStepSize,
			Seed:        11,
		},
	}

	res, err := FitParameters(sphereObjective, bounds, BasinHopping, cfg)
	require.Nil(t, err)
	assert.InDelta(t, 1.0, res[0], 0.1)
	assert.InDelta(t, -2.0, res[1], 0.1)
}

func TestBasinHoppingInitialGuess(t *testing.T) {
	bounds := []Bound{{Low: -5, High: 5}, {Low: -5, High: 5}}
	cfg := &Config{
		BH: &BHConfig{
			Hops:        5,
			Temperature: DefaultBHTemperature,
			StepSize:    DefaultBHStepSize,
			X0:          []float64{0, 0},
			Seed:        11,
		},
	}

	res, err := FitParameters(sphereObjective, bounds, BasinHopping, cfg)
	require.Nil(t, err)
	assert.Less(t, sphereObjective(res), 0.1)

	cfg.BH.X0 = []float64{0}
	_, err = FitParameters(sphereObjective, bounds, BasinHopping, cfg)
	assert.ErrorIs(t, err, ErrInitialGuessLength)
}

func TestBasinHoppingDoesNotMutateInitialGuess(t *testing.T) {
	// a flat objective keeps the local search on its starting point, the
	// case where accepted hops could write through to the caller's guess
	flat := func(x []float64) float64 { return 1 }
	bounds := []Bound{{Low: 0, High: 10}}
	cfg := &Config{
		BH: &BHConfig{
			Hops:        10,
			Temperature: DefaultBHTemperature,
			StepSize:    DefaultBHStepSize,
			X0:          []float64{5},
			Seed:        3,
		},
	}

	_, err := FitParameters(flat, bounds, BasinHopping, cfg)
	require.Nil(t, err)
	assert.Equal(t, []float64{5}, cfg.BH.X0)
}

func TestBasinHoppingReusedConfigIsReproducible(t *testing.T) {
	bounds := []Bound{{Low: -5, High: 5}, {Low: -5, High: 5}}
	cfg := &Config{
		BH: &BHConfig{
			Hops:        10,
			Temperature: DefaultBHTemperature,
			StepSize:    DefaultBHStepSize,
			X0:          []float64{0, 0},
			Seed:        17,
		},
	}

	first, err := FitParameters(sphereObjective, bounds, BasinHopping, cfg)
	require.Nil(t, err)
	second, err := FitParameters(sphereObjective, bounds, BasinHopping, cfg)
	require.Nil(t, err)
	assert.Equal(t, first, second)
}

func TestFitParametersDoesNotMutateBounds(t *testing.T) {
	bounds := []Bound{{Low: -5, High: 5}, {Low: -5, High: 5}}
	orig := make([]Bound, len(bounds))
	copy(orig, bounds)

	_, err := FitParameters(sphereObjective, bounds, BruteForce, &Config{BF: &BFConfig{GridPoints: 3}})
	require.Nil(t, err)
	assert.Equal(t, orig, bounds)
}

func TestConfigValidation(t *testing.T) {
	_, err := (&DEConfig{MaxIter: 0, PopSize: 10}).Validate()
	assert.ErrorIs(t, err, ErrNonPositiveIterations)

	_, err = (&DEConfig{MaxIter: 10, PopSize: 10, Mutation: [2]float64{1.5, 0.5}}).Validate()
	assert.ErrorIs(t, err, ErrInvalidMutation)

	_, err = (&DEConfig{MaxIter: 10, PopSize: 10, Mutation: [2]float64{0.5, 1}, Recombination: 1.5}).Validate()
	assert.ErrorIs(t, err, ErrInvalidRecombination)

	_, err = (&BFConfig{GridPoints: 1}).Validate()
	assert.ErrorIs(t, err, ErrGridPointsTooSmall)

	_, err = (&BHConfig{Hops: 0}).Validate()
	assert.ErrorIs(t, err, ErrNonPositiveHops)

	_, err = (&BHConfig{Hops: 1, StepSize: 0}).Validate()
	assert.ErrorIs(t, err, ErrNonPositiveStep)
}

func TestNewConfigPresets(t *testing.T) {
	cfg, err := NewConfig(PresetTesting)
	require.Nil(t, err)
	assert.Equal(t, 5, cfg.DE.MaxIter)
	assert.Equal(t, 2, cfg.BF.GridPoints)
	assert.Equal(t, 100, cfg.BH.Hops)

	_, err = NewConfig(Preset(9))
	assert.ErrorIs(t, err, ErrUnknownPreset)
}
