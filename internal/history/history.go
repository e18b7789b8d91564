// Package history keeps an audit log of recipe generations.
package history

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// GenerationRecord is one call to the recipe service.
type GenerationRecord struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	CacheKey    string    `gorm:"size:64;index" json:"cache_key"`
	Source      string    `gorm:"size:16" json:"source"`
	Ingredients string    `json:"ingredients"`
	Cuisine     string    `gorm:"size:64" json:"cuisine"`
	Dietary     string    `gorm:"size:64" json:"dietary"`
	MealType    string    `gorm:"size:64" json:"meal_type"`
	Servings    int       `json:"servings"`
	RecipeName  string    `json:"recipe_name"`
	Cause       string    `json:"cause,omitempty"`
	LatencyMS   int64     `json:"latency_ms"`
}

// BeforeCreate assigns an ID when the caller did not.
func (r *GenerationRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// Repository reads and writes generation records.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Record stores rec.
func (r *Repository) Record(ctx context.Context, rec *GenerationRecord) error {
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("failed to record generation: %w", err)
	}
	return nil
}

// Recent returns up to limit records, newest first. Out-of-range limits
// fall back to DefaultLimit or are capped at MaxLimit.
func (r *Repository) Recent(ctx context.Context, limit int) ([]GenerationRecord, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	var records []GenerationRecord
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list generations: %w", err)
	}
	return records, nil
}

// Count returns the number of stored records.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&GenerationRecord{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count generations: %w", err)
	}
	return n, nil
}
