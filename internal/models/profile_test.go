package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultProfile(t *testing.T) {
	p := DefaultProfile()
	require.NoError(t, p.Validate())
	assert.False(t, p.DiabetesMode)
	assert.Equal(t, float64(DefaultSugarThreshold), p.SugarThreshold)
	assert.NotNil(t, p.Allergens)
}

func TestApply_PartialUpdate(t *testing.T) {
	p := DefaultProfile()

	got, err := p.Apply(ProfilePatch{
		DiabetesMode:   Bool(true),
		SugarThreshold: Float(15),
		Allergens:      &[]string{"en:Peanuts", "milk", "milk"},
	})
	require.NoError(t, err)

	assert.True(t, got.DiabetesMode)
	assert.False(t, got.PregnancyMode)
	assert.Equal(t, 15.0, got.SugarThreshold)
	assert.Equal(t, []string{"milk", "peanuts"}, got.Allergens)

	// original is untouched
	assert.False(t, p.DiabetesMode)
	assert.Empty(t, p.Allergens)
}

func TestApply_RejectsOutOfRangeThreshold(t *testing.T) {
	p := DefaultProfile()

	for _, v := range []float64{0, 0.5, 51, 1000} {
		got, err := p.Apply(ProfilePatch{SugarThreshold: Float(v)})
		require.Error(t, err, "threshold %v", v)
		assert.Equal(t, p, got)
	}

	for _, v := range []float64{1, 50} {
		_, err := p.Apply(ProfilePatch{SugarThreshold: Float(v)})
		require.NoError(t, err, "threshold %v", v)
	}
}

func TestApply_ClearAllergens(t *testing.T) {
	p := DefaultProfile()
	p.Allergens = []string{"milk"}

	got, err := p.Apply(ProfilePatch{Allergens: &[]string{}})
	require.NoError(t, err)
	assert.Equal(t, []string{}, got.Allergens)
}
