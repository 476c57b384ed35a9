package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/platewise/backend/internal/model"
)

// SavedMealService handles the user's persistent meal collection.
type SavedMealService struct {
	db *gorm.DB
}

// NewSavedMealService creates a new SavedMealService instance
func NewSavedMealService(db *gorm.DB) *SavedMealService {
	return &SavedMealService{db: db}
}

// Create stores a new saved meal, assigning an ID and search embedding.
func (s *SavedMealService) Create(ctx context.Context, meal *model.SavedMeal) (*model.SavedMeal, error) {
	if meal.ID == uuid.Nil {
		meal.ID = uuid.New()
	}
	meal.Embedding = Embed(meal.Name + " " + strings.Join(meal.Tags, " "))

	if err := s.db.WithContext(ctx).Create(meal).Error; err != nil {
		return nil, err
	}
	return meal, nil
}

// Get retrieves a saved meal by ID
func (s *SavedMealService) Get(ctx context.Context, id uuid.UUID) (*model.SavedMeal, error) {
	var meal model.SavedMeal
	if err := s.db.WithContext(ctx).First(&meal, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &meal, nil
}

// Update replaces a saved meal's fields and refreshes its embedding.
func (s *SavedMealService) Update(ctx context.Context, id uuid.UUID, meal *model.SavedMeal) (*model.SavedMeal, error) {
	meal.Embedding = Embed(meal.Name + " " + strings.Join(meal.Tags, " "))
	if err := s.db.WithContext(ctx).Model(&model.SavedMeal{}).Where("id = ?", id).Updates(meal).Error; err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete removes a saved meal
func (s *SavedMealService) Delete(ctx context.Context, id uuid.UUID) error {
	var meal model.SavedMeal
	if err := s.db.WithContext(ctx).First(&meal, "id = ?", id).Error; err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(&model.SavedMeal{}, "id = ?", id).Error
}

// List returns saved meals, optionally filtered by category and ranked
// by a search query. On postgres the query combines embedding
// similarity with keyword matching; elsewhere it falls back to LIKE.
func (s *SavedMealService) List(ctx context.Context, category, query string) ([]model.SavedMeal, error) {
	var meals []model.SavedMeal

	dbQuery := s.db.WithContext(ctx)

	if category != "" {
		dbQuery = dbQuery.Where("category = ?", category)
	}

	if query != "" {
		if s.db.Dialector.Name() == "postgres" {
			vec := Embed(query)
			dbQuery = dbQuery.Clauses(clause.OrderBy{
				Expression: clause.Expr{SQL: "embedding <-> ?", Vars: []interface{}{vec}},
			})
		} else {
			like := "%" + strings.ToLower(query) + "%"
			dbQuery = dbQuery.Where("LOWER(name) LIKE ? OR LOWER(recipe_text) LIKE ?", like, like)
		}
	}

	if err := dbQuery.Find(&meals).Error; err != nil {
		return nil, err
	}
	return meals, nil
}
