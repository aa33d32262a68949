package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/nutrikeeper/internal/common"
	"github.com/dmitrijs2005/nutrikeeper/internal/models"
	"github.com/dmitrijs2005/nutrikeeper/internal/repositories/settings"
	"github.com/dmitrijs2005/nutrikeeper/internal/storage/storagetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProfileService(t *testing.T) (*ProfileService, *settings.SQLiteRepository) {
	t.Helper()
	repo := settings.NewSQLiteRepository(storagetest.OpenDB(t))
	return NewProfileService(repo, nil), repo
}

func TestProfileLoad_CreatesDefaults(t *testing.T) {
	s, repo := newProfileService(t)
	ctx := context.Background()

	p, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultProfile(), p)

	raw, err := repo.Get(ctx, ProfileKey)
	require.NoError(t, err)
	assert.NotNil(t, raw, "defaults are persisted on first load")
}

func TestProfileLoad_FillsMissingFieldsWithDefaults(t *testing.T) {
	s, repo := newProfileService(t)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, ProfileKey, []byte(`{"diabetes_mode":true,"allergens":["en:Peanuts"]}`)))

	p, err := s.Load(ctx)
	require.NoError(t, err)
	assert.True(t, p.DiabetesMode)
	assert.Equal(t, float64(models.DefaultSugarThreshold), p.SugarThreshold)
	assert.Equal(t, []string{"peanuts"}, p.Allergens)
}

func TestProfileLoad_OutOfRangeThresholdFallsBack(t *testing.T) {
	s, repo := newProfileService(t)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, ProfileKey, []byte(`{"sugar_threshold":500}`)))

	p, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, float64(models.DefaultSugarThreshold), p.SugarThreshold)
}

func TestProfileLoad_CorruptDocument(t *testing.T) {
	s, repo := newProfileService(t)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, ProfileKey, []byte(`{oops`)))

	_, err := s.Load(ctx)
	require.ErrorIs(t, err, common.ErrStorage)
}

func TestProfileUpdate(t *testing.T) {
	s, _ := newProfileService(t)
	ctx := context.Background()

	threshold := 15.0
	allergens := []string{"en:Milk", "gluten", "milk"}
	p, err := s.Update(ctx, models.ProfilePatch{
		DiabetesMode:   models.Bool(true),
		SugarThreshold: &threshold,
		Allergens:      &allergens,
	})
	require.NoError(t, err)
	assert.True(t, p.DiabetesMode)
	assert.False(t, p.PregnancyMode)
	assert.Equal(t, 15.0, p.SugarThreshold)
	assert.Equal(t, []string{"gluten", "milk"}, p.Allergens)

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, p, loaded)

	// a later patch leaves earlier fields alone
	p, err = s.Update(ctx, models.ProfilePatch{AllergyMode: models.Bool(true)})
	require.NoError(t, err)
	assert.True(t, p.DiabetesMode)
	assert.True(t, p.AllergyMode)
	assert.Equal(t, 15.0, p.SugarThreshold)
}

func TestProfileUpdate_RejectsThresholdOutOfRange(t *testing.T) {
	s, _ := newProfileService(t)
	ctx := context.Background()

	for _, v := range []float64{0, 0.5, 50.5, 100} {
		v := v
		_, err := s.Update(ctx, models.ProfilePatch{SugarThreshold: &v, DiabetesMode: models.Bool(true)})
		require.ErrorIs(t, err, common.ErrValidation, "threshold=%v", v)
	}

	p, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultProfile(), p, "nothing written on rejection")

	for _, v := range []float64{1, 50} {
		v := v
		_, err := s.Update(ctx, models.ProfilePatch{SugarThreshold: &v})
		require.NoError(t, err)
	}
}

func TestProfileReset(t *testing.T) {
	s, _ := newProfileService(t)
	ctx := context.Background()

	_, err := s.Update(ctx, models.ProfilePatch{PregnancyMode: models.Bool(true)})
	require.NoError(t, err)

	p, err := s.Reset(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultProfile(), p)

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultProfile(), loaded)
}

func TestProfileReset_ReplacesUnreadableDocument(t *testing.T) {
	s, repo := newProfileService(t)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, ProfileKey, []byte(`{not json`)))
	_, err := s.Load(ctx)
	require.ErrorIs(t, err, common.ErrStorage)

	p, err := s.Reset(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultProfile(), p)

	raw, err := repo.Get(ctx, ProfileKey)
	require.NoError(t, err)
	assert.JSONEq(t, `{"diabetes_mode":false,"pregnancy_mode":false,"allergy_mode":false,
		"show_traces":false,"sugar_threshold":10,"allergens":[]}`, string(raw))
}
