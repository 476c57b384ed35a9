package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platewise/backend/internal/model"
	"github.com/platewise/backend/internal/testhelpers"
)

func TestPreferencesGetCreatesDefaults(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	svc := NewPreferencesService(db)
	ctx := context.Background()

	prefs, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, prefs.Servings)
	assert.InDelta(t, 150.0, prefs.WeeklyBudget, 1e-9)
	assert.Equal(t, "USD", prefs.Currency)
	assert.Empty(t, prefs.Dietary)

	// a second read returns the same row, not another insert
	var count int64
	require.NoError(t, db.Model(&model.Preferences{}).Count(&count).Error)
	_, err = svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestPreferencesUpdate(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	svc := NewPreferencesService(db)
	ctx := context.Background()

	_, err := svc.Get(ctx)
	require.NoError(t, err)

	updated, err := svc.Update(ctx, &model.Preferences{
		Dietary:      model.JSONBStringArray{"vegetarian"},
		Allergies:    model.JSONBStringArray{},
		CuisineTypes: model.JSONBStringArray{"thai"},
		Servings:     2,
		WeeklyBudget: 90,
		Currency:     "EUR",
	})
	require.NoError(t, err)
	assert.Equal(t, uint(1), updated.ID)

	got, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Servings)
	assert.InDelta(t, 90.0, got.WeeklyBudget, 1e-9)
	assert.Equal(t, model.JSONBStringArray{"vegetarian"}, got.Dietary)
}

func TestPreferencesUpdateValidation(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	svc := NewPreferencesService(db)
	ctx := context.Background()

	_, err := svc.Update(ctx, &model.Preferences{Servings: 0, WeeklyBudget: 90})
	assert.Error(t, err)

	_, err = svc.Update(ctx, &model.Preferences{Servings: 4, WeeklyBudget: -1})
	assert.Error(t, err)
}
