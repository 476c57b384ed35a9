package model

import "time"

// Preferences is the single row of user settings: dietary constraints
// read by the meal source, plus the budget and serving baseline read by
// the plan mutations. Currency is a display label only and never enters
// arithmetic.
type Preferences struct {
	ID           uint             `gorm:"primaryKey" json:"-"`
	Dietary      JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"dietary"`
	Allergies    JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"allergies"`
	CuisineTypes JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"cuisine_types"`
	Servings     int              `gorm:"not null;default:4" json:"servings"`
	WeeklyBudget float64          `gorm:"type:float;not null;default:150" json:"weekly_budget"`
	Currency     string           `gorm:"size:10;not null;default:'USD'" json:"currency"`
	DarkMode     bool             `gorm:"not null;default:false" json:"dark_mode"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

func (Preferences) TableName() string {
	return "preferences"
}
