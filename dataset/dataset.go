// Package dataset holds the long-form observation and daily temperature
// records consumed by model fitting, and pivots them into the dense
// per-observation temperature matrix.
package dataset

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"

	"gonum.org/v1/gonum/mat"
)

var (
	ErrNoObservations         = errors.New("no observations")
	ErrNoTemperatures         = errors.New("no temperature records")
	ErrMissingSiteID          = errors.New("record has an empty site id")
	ErrMissingDOY             = errors.New("record has a NaN day of year")
	ErrNoUsableObservations   = errors.New("no observations with complete temperature coverage")
	ErrObservationDOYRequired = errors.New("observation day of year required for fitting")
)

// Observation is one recorded phenological event. DOY counts days from
// Jan 1 of the observation year and may be negative for events tracked
// from the preceding fall.
type Observation struct {
	SiteID string
	Year   int
	DOY    float64
}

// DailyTemperature is one daily mean temperature reading for a site and
// year. Value may be NaN for a missing reading.
type DailyTemperature struct {
	SiteID string
	Year   int
	DOY    float64
	Value  float64
}

// Formatted is the dense fitting input produced by Format. Temperature has
// one row per day of year and one column per surviving observation, aligned
// so column j is the daily series for ObservedDOY[j].
type Formatted struct {
	// ObservedDOY is nil when formatted for prediction.
	ObservedDOY []float64

	Temperature *mat.Dense
	DOYAxis     []float64
}

// ValidateObservations checks the required fields of every observation.
// The day of year is only required when the observations will be fit
// against.
func ValidateObservations(observations []Observation, forPrediction bool) error {
	if len(observations) == 0 {
		return ErrNoObservations
	}
	for i, obs := range observations {
		if obs.SiteID == "" {
			return fmt.Errorf("observation %d, %w", i, ErrMissingSiteID)
		}
		if !forPrediction && math.IsNaN(obs.DOY) {
			return fmt.Errorf("observation %d site %s year %d, %w", i, obs.SiteID, obs.Year, ErrObservationDOYRequired)
		}
	}
	return nil
}

// ValidateTemperatures checks the required fields of every temperature
// record. A NaN Value is allowed and treated as a missing reading.
func ValidateTemperatures(temperatures []DailyTemperature) error {
	if len(temperatures) == 0 {
		return ErrNoTemperatures
	}
	for i, rec := range temperatures {
		if rec.SiteID == "" {
			return fmt.Errorf("temperature record %d, %w", i, ErrMissingSiteID)
		}
		if math.IsNaN(rec.DOY) {
			return fmt.Errorf("temperature record %d site %s year %d, %w", i, rec.SiteID, rec.Year, ErrMissingDOY)
		}
	}
	return nil
}

type siteYear struct {
	site string
	year int
}

// Format pivots the long-form records into a dense temperature matrix with
// one row per day of year and one column per observation. Observations
// whose site and year lack complete temperature coverage are dropped with a
// warning. A leading day of year missing from any site/year series, usually
// a leap year mismatch, is dropped from the axis with a warning.
func Format(observations []Observation, temperatures []DailyTemperature, forPrediction bool) (*Formatted, error) {
	if err := ValidateObservations(observations, forPrediction); err != nil {
		return nil, fmt.Errorf("invalid observations, %w", err)
	}
	if err := ValidateTemperatures(temperatures); err != nil {
		return nil, fmt.Errorf("invalid temperature records, %w", err)
	}

	doyAxis := uniqueDOYs(temperatures)
	series := pivot(temperatures, doyAxis)

	// A first day present for only some site/years breaks coverage for
	// every observation in the short years, so drop it from the axis.
	if firstDOYIncomplete(series) {
		slog.Warn("dropped leading day of year with incomplete coverage, likely a leap year mismatch", "doy", doyAxis[0])
		doyAxis = doyAxis[1:]
		for key := range series {
			series[key] = series[key][1:]
		}
	}

	var (
		kept     []int
		observed []float64
	)
	for i, obs := range observations {
		s, ok := series[siteYear{site: obs.SiteID, year: obs.Year}]
		if !ok || hasNaN(s) {
			continue
		}
		kept = append(kept, i)
		if !forPrediction {
			observed = append(observed, obs.DOY)
		}
	}
	if dropped := len(observations) - len(kept); dropped > 0 {
		slog.Warn("dropped observations because of missing temperature data", "dropped", dropped, "total", len(observations))
	}
	if len(kept) == 0 {
		return nil, ErrNoUsableObservations
	}

	temp := mat.NewDense(len(doyAxis), len(kept), nil)
	for j, i := range kept {
		obs := observations[i]
		temp.SetCol(j, series[siteYear{site: obs.SiteID, year: obs.Year}])
	}

	return &Formatted{
		ObservedDOY: observed,
		Temperature: temp,
		DOYAxis:     doyAxis,
	}, nil
}

// uniqueDOYs returns the sorted distinct days of year across all
// temperature records.
func uniqueDOYs(temperatures []DailyTemperature) []float64 {
	seen := make(map[float64]struct{})
	for _, rec := range temperatures {
		seen[rec.DOY] = struct{}{}
	}
	doys := make([]float64, 0, len(seen))
	for doy := range seen {
		doys = append(doys, doy)
	}
	slices.Sort(doys)
	return doys
}

// pivot expands each site/year into a daily series aligned to the axis.
// Missing days stay NaN and duplicate readings for a day are averaged.
func pivot(temperatures []DailyTemperature, doyAxis []float64) map[siteYear][]float64 {
	idx := make(map[float64]int, len(doyAxis))
	for i, doy := range doyAxis {
		idx[doy] = i
	}

	sums := make(map[siteYear][]float64)
	counts := make(map[siteYear][]int)
	for _, rec := range temperatures {
		if math.IsNaN(rec.Value) {
			continue
		}
		key := siteYear{site: rec.SiteID, year: rec.Year}
		if _, ok := sums[key]; !ok {
			sums[key] = make([]float64, len(doyAxis))
			counts[key] = make([]int, len(doyAxis))
		}
		i := idx[rec.DOY]
		sums[key][i] += rec.Value
		counts[key][i]++
	}

	series := make(map[siteYear][]float64, len(sums))
	for key, sum := range sums {
		s := make([]float64, len(doyAxis))
		for i := range s {
			if counts[key][i] == 0 {
				s[i] = math.NaN()
				continue
			}
			s[i] = sum[i] / float64(counts[key][i])
		}
		series[key] = s
	}
	return series
}

func firstDOYIncomplete(series map[siteYear][]float64) bool {
	for _, s := range series {
		if len(s) > 0 && math.IsNaN(s[0]) {
			return true
		}
	}
	return false
}

func hasNaN(s []float64) bool {
	for _, v := range s {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}
