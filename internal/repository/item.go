// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"

	"portfolio/internal/cache"
	"portfolio/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ItemRepository defines the interface for content item data operations.
// All mutations are atomic per item so concurrent requests compose instead
// of overwriting each other.
type ItemRepository interface {
	Create(ctx context.Context, item *models.Item) error
	GetByID(ctx context.Context, kind, id string) (*models.Item, error)
	List(ctx context.Context, kind string) ([]*models.Item, error)
	Delete(ctx context.Context, kind, id string) error
	ToggleOwnerLike(ctx context.Context, kind, id string) error
	ToggleVisitorLike(ctx context.Context, kind, id, visitorName string) (liked bool, err error)
	InvalidateFeed(ctx context.Context, kind string)
}

// itemRepository implements ItemRepository
type itemRepository struct {
	db    *gorm.DB
	cache *cache.Cache
}

// NewItemRepository creates a new item repository.
func NewItemRepository(db *gorm.DB, c *cache.Cache) ItemRepository {
	return &itemRepository{db: db, cache: c}
}

func (r *itemRepository) Create(ctx context.Context, item *models.Item) error {
	err := r.db.WithContext(ctx).Create(item).Error
	if err == nil {
		r.cache.InvalidateFeed(ctx, item.Kind)
	}
	return err
}

func (r *itemRepository) GetByID(ctx context.Context, kind, id string) (*models.Item, error) {
	var item models.Item
	err := r.applyItemDetails(r.db.WithContext(ctx)).
		Preload("CommentsList", func(db *gorm.DB) *gorm.DB {
			return db.Order("comments.created_at ASC")
		}).
		Preload("LikeRecords", func(db *gorm.DB) *gorm.DB {
			return db.Order("likes.created_at ASC")
		}).
		Where("items.kind = ?", kind).
		First(&item, "items.id = ?", id).Error
	if err != nil {
		return nil, err
	}

	attachLikeNames(&item)
	return &item, nil
}

func (r *itemRepository) List(ctx context.Context, kind string) ([]*models.Item, error) {
	items := []*models.Item{}
	// attachLikeNames runs inside fetch so the cached JSON already carries
	// likes_by; like rows themselves are not serialized.
	fetch := func() error {
		err := r.applyItemDetails(r.db.WithContext(ctx)).
			Preload("CommentsList", func(db *gorm.DB) *gorm.DB {
				return db.Order("comments.created_at ASC")
			}).
			Preload("LikeRecords", func(db *gorm.DB) *gorm.DB {
				return db.Order("likes.created_at ASC")
			}).
			Where("items.kind = ?", kind).
			Order("items.created_at DESC").
			Find(&items).Error
		if err != nil {
			return err
		}
		for _, item := range items {
			attachLikeNames(item)
		}
		return nil
	}

	if err := r.cache.Aside(ctx, cache.FeedKey(kind), &items, cache.FeedTTL, fetch); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *itemRepository) Delete(ctx context.Context, kind, id string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("kind = ? AND id = ?", kind, id).Delete(&models.Item{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if err := tx.Where("item_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Where("item_id = ?", id).Delete(&models.Like{}).Error
	})
	if err == nil {
		r.cache.InvalidateFeed(ctx, kind)
	}
	return err
}

// ToggleOwnerLike flips the owner's like flag in a single UPDATE so
// interleaved toggles never lose a write.
func (r *itemRepository) ToggleOwnerLike(ctx context.Context, kind, id string) error {
	res := r.db.WithContext(ctx).
		Model(&models.Item{}).
		Where("kind = ? AND id = ?", kind, id).
		UpdateColumn("liked", gorm.Expr("NOT liked"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.cache.InvalidateFeed(ctx, kind)
	return nil
}

// ToggleVisitorLike removes the visitor's like row if present, otherwise
// inserts one. Delete-then-insert runs in one transaction and the insert uses
// ON CONFLICT DO NOTHING against the composite primary key, so the same name
// can never be counted twice however requests interleave.
func (r *itemRepository) ToggleVisitorLike(ctx context.Context, kind, id, visitorName string) (bool, error) {
	var liked bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var exists int64
		if err := tx.Model(&models.Item{}).
			Where("kind = ? AND id = ?", kind, id).
			Count(&exists).Error; err != nil {
			return err
		}
		if exists == 0 {
			return gorm.ErrRecordNotFound
		}

		res := tx.Where("item_id = ? AND visitor_name = ?", id, visitorName).
			Delete(&models.Like{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			liked = false
			return nil
		}

		liked = true
		return tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.Like{ItemID: id, VisitorName: visitorName}).Error
	})
	if err != nil {
		return false, err
	}

	r.cache.InvalidateFeed(ctx, kind)
	return liked, nil
}

func (r *itemRepository) InvalidateFeed(ctx context.Context, kind string) {
	r.cache.InvalidateFeed(ctx, kind)
}

// applyItemDetails adds subqueries to fetch counts in a single query. The
// likes counter is the number of visitor like rows plus the owner flag, so
// it always equals len(likes_by) (+1 when the owner liked) and can never go
// negative.
func (r *itemRepository) applyItemDetails(db *gorm.DB) *gorm.DB {
	return db.Select("items.*, " +
		"(SELECT COUNT(*) FROM comments WHERE comments.item_id = items.id) AS comments_count, " +
		"(SELECT COUNT(*) FROM likes WHERE likes.item_id = items.id) + (CASE WHEN items.liked THEN 1 ELSE 0 END) AS likes_count")
}

// attachLikeNames projects preloaded like rows into the likes_by name list.
func attachLikeNames(item *models.Item) {
	item.LikesBy = make([]string, 0, len(item.LikeRecords))
	for _, l := range item.LikeRecords {
		item.LikesBy = append(item.LikesBy, l.VisitorName)
	}
	if item.CommentsList == nil {
		item.CommentsList = []models.Comment{}
	}
	if item.Images == nil {
		item.Images = []string{}
	}
}

// IsNotFound reports whether err is the storage layer's missing-record error.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
