package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platewise/backend/internal/testhelpers"
)

// Exercises the pgvector search path against a real Postgres. Skipped
// when docker is unavailable.
func TestSavedMealSearchPostgres(t *testing.T) {
	db := testhelpers.SetupPostgresDB(t)
	svc := NewSavedMealService(db)
	ctx := context.Background()

	for _, m := range []struct{ name, category string }{
		{"Lentil Soup", "dinner"},
		{"Berry Smoothie", "breakfast"},
		{"Miso Ramen", "dinner"},
	} {
		_, err := svc.Create(ctx, seedMeal(m.name, m.category))
		require.NoError(t, err)
	}

	// the query embedding matches this meal's stored embedding exactly,
	// so it must rank first
	meals, err := svc.List(ctx, "", "Berry Smoothie vegan")
	require.NoError(t, err)
	require.Len(t, meals, 3)
	assert.Equal(t, "Berry Smoothie", meals[0].Name)

	meals, err = svc.List(ctx, "dinner", "")
	require.NoError(t, err)
	assert.Len(t, meals, 2)
}
