package params

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSchema = Schema{
	{Name: "t1", Low: -67, High: 298},
	{Name: "T", Low: -25, High: 25},
	{Name: "F", Low: 0, High: 1000},
}

func TestOrganizeDefaults(t *testing.T) {
	p, err := Organize(testSchema, nil)
	require.Nil(t, err)

	assert.Equal(t, 3, p.FreeCount())
	assert.Empty(t, p.Fixed())
	assert.Equal(t, []Bounds{{-67, 298}, {-25, 25}, {0, 1000}}, p.Bounds())
}

func TestOrganizeMixed(t *testing.T) {
	p, err := Organize(testSchema, map[string]Setting{
		"T": Fixed(5),
		"F": Estimate(0, 200),
	})
	require.Nil(t, err)

	assert.Equal(t, 2, p.FreeCount())
	assert.Equal(t, map[string]float64{"T": 5}, p.Fixed())

	// free parameters keep schema declaration order
	free := p.Free()
	assert.Equal(t, "t1", free[0].Name)
	assert.Equal(t, "F", free[1].Name)
	assert.Equal(t, []Bounds{{-67, 298}, {0, 200}}, p.Bounds())
}

func TestOrganizeUnknownParameter(t *testing.T) {
	_, err := Organize(testSchema, map[string]Setting{
		"bogus": Fixed(1),
	})
	assert.ErrorIs(t, err, ErrUnknownParameter)
}

func TestOrganizeInvalidSettings(t *testing.T) {
	_, err := Organize(testSchema, map[string]Setting{
		"T": Estimate(10, -10),
	})
	assert.ErrorIs(t, err, ErrInvalidBounds)

	_, err = Organize(testSchema, map[string]Setting{
		"T": EstimateGrid(0, 10, 0),
	})
	assert.ErrorIs(t, err, ErrInvalidGridStep)
}

func TestOrganizeAllFixed(t *testing.T) {
	p, err := Organize(testSchema, map[string]Setting{
		"t1": Fixed(1),
		"T":  Fixed(5),
		"F":  Fixed(300),
	})
	require.Nil(t, err)

	final, done := p.Final()
	assert.True(t, done)
	assert.Equal(t, map[string]float64{"t1": 1, "T": 5, "F": 300}, final)
	assert.Equal(t, 0, p.FreeCount())
}

func TestTranslate(t *testing.T) {
	p, err := Organize(testSchema, map[string]Setting{
		"T": Fixed(5),
	})
	require.Nil(t, err)

	named, err := p.Translate([]float64{12, 345})
	require.Nil(t, err)
	assert.Equal(t, map[string]float64{"t1": 12, "T": 5, "F": 345}, named)

	_, err = p.Translate([]float64{12})
	assert.ErrorIs(t, err, ErrParamVectorLen)
}

func TestHasGrid(t *testing.T) {
	p, err := Organize(testSchema, map[string]Setting{
		"T": EstimateGrid(-5, 5, 1),
	})
	require.Nil(t, err)
	assert.True(t, p.HasGrid())

	// grid endpoints still present a bounds pair
	assert.Equal(t, Bounds{Low: -5, High: 5}, p.Bounds()[1])

	p, err = Organize(testSchema, nil)
	require.Nil(t, err)
	assert.False(t, p.HasGrid())
}
