package loss

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMetric(t *testing.T) {
	m, err := ParseMetric("rmse")
	require.Nil(t, err)
	assert.Equal(t, MetricRMSE, m)

	m, err = ParseMetric("aic")
	require.Nil(t, err)
	assert.Equal(t, MetricAIC, m)

	_, err = ParseMetric("mae")
	assert.ErrorIs(t, err, ErrUnknownMetric)
}

func TestRMSE(t *testing.T) {
	testData := map[string]struct {
		observed  []float64
		predicted []float64
		expected  float64
		err       error
	}{
		"perfect": {
			observed:  []float64{100, 110, 120},
			predicted: []float64{100, 110, 120},
			expected:  0.0,
		},
		"constant offset": {
			observed:  []float64{100, 110, 120},
			predicted: []float64{103, 113, 123},
			expected:  3.0,
		},
		"mixed": {
			observed:  []float64{100, 104},
			predicted: []float64{103, 100},
			expected:  math.Sqrt(12.5),
		},
		"length mismatch": {
			observed:  []float64{100, 110},
			predicted: []float64{100},
			err:       ErrResLenMismatch,
		},
		"empty": {
			err: ErrNoObservations,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			res, err := RMSE(td.observed, td.predicted)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
			assert.InDelta(t, td.expected, res, 1e-12)
		})
	}
}

func TestAIC(t *testing.T) {
	observed := []float64{100, 110, 120, 130}
	predicted := []float64{102, 108, 123, 128}

	mse := (4.0 + 4.0 + 9.0 + 4.0) / 4.0
	expected := 4.0*math.Log(mse) + 2.0*(3.0+1.0)

	res, err := AIC(observed, predicted, 3)
	require.Nil(t, err)
	assert.InDelta(t, expected, res, 1e-12)

	// fewer estimated parameters means a lower score for the same fit
	res2, err := AIC(observed, predicted, 1)
	require.Nil(t, err)
	assert.Less(t, res2, res)

	_, err = AIC(observed, predicted, -1)
	assert.ErrorIs(t, err, ErrNegativeNParams)
}

func TestMetricScore(t *testing.T) {
	observed := []float64{100, 110}
	predicted := []float64{101, 111}

	rmse, err := MetricRMSE.Score(observed, predicted, 0)
	require.Nil(t, err)
	assert.InDelta(t, 1.0, rmse, 1e-12)

	aic, err := MetricAIC.Score(observed, predicted, 2)
	require.Nil(t, err)
	direct, err := AIC(observed, predicted, 2)
	require.Nil(t, err)
	assert.Equal(t, direct, aic)

	_, err = Metric(99).Score(observed, predicted, 0)
	assert.ErrorIs(t, err, ErrUnknownMetric)
}
