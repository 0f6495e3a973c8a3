package repository

import (
	"context"

	"portfolio/internal/models"

	"gorm.io/gorm"
)

// VisitorRepository records page-view events.
type VisitorRepository interface {
	Record(ctx context.Context, visitor *models.Visitor) error
	Count(ctx context.Context) (int64, error)
}

type visitorRepository struct {
	db *gorm.DB
}

// NewVisitorRepository creates a new visitor repository.
func NewVisitorRepository(db *gorm.DB) VisitorRepository {
	return &visitorRepository{db: db}
}

func (r *visitorRepository) Record(ctx context.Context, visitor *models.Visitor) error {
	return r.db.WithContext(ctx).Create(visitor).Error
}

func (r *visitorRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Visitor{}).Count(&n).Error
	return n, err
}
