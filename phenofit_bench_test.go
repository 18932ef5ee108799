package phenofit

import (
	"testing"

	"github.com/pkg/profile"

	"github.com/phenolab/go-phenofit/dataset"
	"github.com/phenolab/go-phenofit/estimate"
	"github.com/phenolab/go-phenofit/loss"
	"github.com/phenolab/go-phenofit/models"
	"github.com/phenolab/go-phenofit/params"
)

var benchPredictRes []float64

func benchData() ([]dataset.Observation, []dataset.DailyTemperature) {
	opt := dataset.NewDefaultSimulateOptions()
	opt.Seed = 1234
	temps := dataset.SimulateDailyTemperatures(
		[]string{"s1", "s2", "s3", "s4"},
		[]int{2000, 2001, 2002, 2003, 2004},
		opt,
	)
	obs := dataset.SimulateObservations(temps, 0, 300)
	return obs, temps
}

func BenchmarkFitThermalTime(b *testing.B) {
	obs, temps := benchData()

	cfg, err := estimate.NewConfig(estimate.PresetTesting)
	if err != nil {
		panic(err)
	}
	cfg.DE.Seed = 1
	opt := &FitOptions{
		Method: estimate.DifferentialEvolution,
		Config: cfg,
		Metric: loss.MetricRMSE,
	}

	b.ResetTimer()
	for b.Loop() {
		m, err := New(models.ThermalTime{}, nil)
		if err != nil {
			panic(err)
		}
		if err := m.Fit(obs, temps, opt); err != nil {
			panic(err)
		}
	}
}

func BenchmarkPredictData(b *testing.B) {
	obs, temps := benchData()

	m, err := New(models.ThermalTime{}, map[string]params.Setting{
		"t1": params.Fixed(-67),
		"T":  params.Fixed(0),
		"F":  params.Fixed(300),
	})
	if err != nil {
		panic(err)
	}

	b.ResetTimer()
	defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	for b.Loop() {
		benchPredictRes, err = m.PredictData(obs, temps)
		if err != nil {
			panic(err)
		}
	}
}
