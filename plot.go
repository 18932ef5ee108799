package phenofit

import (
	"fmt"
	"io"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// ScatterObservedPredicted generates an echart scatter chart of observed
// against predicted event days, with a y=x reference line for reading the
// fit quality.
func ScatterObservedPredicted(title string, observed, predicted []float64) *charts.Scatter {
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: title,
			},
		),
		charts.WithXAxisOpts(
			opts.XAxis{
				Name: "Observed DOY",
				Type: "value",
			},
		),
		charts.WithYAxisOpts(
			opts.YAxis{
				Name: "Predicted DOY",
				Type: "value",
			},
		),
	)

	scatterData := make([]opts.ScatterData, 0, len(observed))
	for i := range observed {
		scatterData = append(scatterData, opts.ScatterData{
			Value: []float64{observed[i], predicted[i]},
		})
	}
	scatter.AddSeries("Observations", scatterData)
	return scatter
}

// PlotFit uses the Apache Echarts library to generate an html file showing
// the observed against predicted event days of the most recent fit.
func (m *Model) PlotFit(path string) error {
	if m.observed == nil {
		return ErrNothingToPredict
	}
	pred, err := m.Predict()
	if err != nil {
		return err
	}

	page := components.NewPage()
	page.AddCharts(
		ScatterObservedPredicted(fmt.Sprintf("%s Fit", m.variant.Name()), m.observed, pred),
	)
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	return page.Render(io.MultiWriter(file))
}
