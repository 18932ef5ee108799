package phenofit

import (
	"errors"
	"fmt"

	"github.com/phenolab/go-phenofit/models"
	"github.com/phenolab/go-phenofit/params"
)

var ErrUnknownModel = errors.New("unknown model name")

// NewNamed builds a model from a registered variant name. The set of names
// is closed; saved model files round-trip through it.
func NewNamed(name string, settings map[string]params.Setting) (*Model, error) {
	variant, err := newVariant(name)
	if err != nil {
		return nil, err
	}
	return New(variant, settings)
}

func newVariant(name string) (models.Variant, error) {
	switch name {
	case "ThermalTime":
		return models.ThermalTime{}, nil
	case "Uniforc":
		return models.Uniforc{}, nil
	case "Unichill":
		return models.Unichill{}, nil
	case "Alternating":
		return models.Alternating{}, nil
	case "Linear":
		return models.Linear{}, nil
	case "Naive":
		return models.Naive{}, nil
	default:
		return nil, fmt.Errorf("%q, %w", name, ErrUnknownModel)
	}
}
