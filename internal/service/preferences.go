package service

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/platewise/backend/internal/model"
)

// preferencesRowID pins the single settings row.
const preferencesRowID = 1

// PreferencesService manages the singleton preferences row.
type PreferencesService struct {
	db *gorm.DB
}

// NewPreferencesService creates a new PreferencesService instance
func NewPreferencesService(db *gorm.DB) *PreferencesService {
	return &PreferencesService{db: db}
}

// Get returns the current preferences, creating the row with defaults on
// first access.
func (s *PreferencesService) Get(ctx context.Context) (*model.Preferences, error) {
	var prefs model.Preferences
	err := s.db.WithContext(ctx).
		Where("id = ?", preferencesRowID).
		Attrs(model.Preferences{
			ID:           preferencesRowID,
			Dietary:      model.JSONBStringArray{},
			Allergies:    model.JSONBStringArray{},
			CuisineTypes: model.JSONBStringArray{},
			Servings:     4,
			WeeklyBudget: 150,
			Currency:     "USD",
		}).
		FirstOrCreate(&prefs).Error
	if err != nil {
		return nil, err
	}
	return &prefs, nil
}

// Update replaces the preferences row. Servings must stay positive and
// the budget non-negative; other fields are free-form.
func (s *PreferencesService) Update(ctx context.Context, prefs *model.Preferences) (*model.Preferences, error) {
	if prefs.Servings <= 0 {
		return nil, fmt.Errorf("servings must be at least 1")
	}
	if prefs.WeeklyBudget < 0 {
		return nil, fmt.Errorf("weekly budget cannot be negative")
	}
	if prefs.Currency == "" {
		prefs.Currency = "USD"
	}

	prefs.ID = preferencesRowID
	if err := s.db.WithContext(ctx).Save(prefs).Error; err != nil {
		return nil, err
	}
	return prefs, nil
}
