package phenofit

import (
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-json"

	"github.com/phenolab/go-phenofit/params"
)

var ErrFileExists = errors.New("file exists and overwrite is false")

// savedModel is the flat on-disk record of a fitted model.
type savedModel struct {
	ModelName  string             `json:"model_name"`
	Parameters map[string]float64 `json:"parameters"`
}

// Save writes the fitted parameter set to path as JSON. An existing file is
// only replaced when overwrite is set.
func (m *Model) Save(path string, overwrite bool) error {
	if m.fitted == nil {
		return ErrParamsNotSet
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s, %w", path, ErrFileExists)
		}
	}

	out, err := json.Marshal(savedModel{
		ModelName:  m.variant.Name(),
		Parameters: m.fitted,
	})
	if err != nil {
		return fmt.Errorf("encoding saved model, %w", err)
	}
	return os.WriteFile(path, out, 0o644)
}

// LoadSaved reads a model file written by Save and returns a model with
// every parameter fixed to its saved value, ready to predict.
func LoadSaved(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading saved model, %w", err)
	}
	var saved savedModel
	if err := json.Unmarshal(data, &saved); err != nil {
		return nil, fmt.Errorf("decoding saved model, %w", err)
	}

	settings := make(map[string]params.Setting, len(saved.Parameters))
	for name, v := range saved.Parameters {
		settings[name] = params.Fixed(v)
	}
	return NewNamed(saved.ModelName, settings)
}
