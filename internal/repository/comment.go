package repository

import (
	"context"

	"portfolio/internal/cache"
	"portfolio/internal/models"

	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations.
type CommentRepository interface {
	Create(ctx context.Context, kind string, comment *models.Comment) error
}

type commentRepository struct {
	db    *gorm.DB
	cache *cache.Cache
}

// NewCommentRepository creates a new comment repository.
func NewCommentRepository(db *gorm.DB, c *cache.Cache) CommentRepository {
	return &commentRepository{db: db, cache: c}
}

func (r *commentRepository) Create(ctx context.Context, kind string, comment *models.Comment) error {
	err := r.db.WithContext(ctx).Create(comment).Error
	if err == nil {
		r.cache.InvalidateFeed(ctx, kind)
	}
	return err
}
