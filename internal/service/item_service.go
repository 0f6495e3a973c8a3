// Package service contains the business logic for content items and their
// visitor engagement.
package service

import (
	"context"
	"strings"
	"time"

	"portfolio/internal/middleware"
	"portfolio/internal/models"
	"portfolio/internal/repository"

	"github.com/google/uuid"
)

// previewLimit caps how much item content is embedded in notification emails.
const previewLimit = 100

// Fallback previews when an item has no text content.
const (
	previewImageOnly = "Shared an image"
	previewEmpty     = "Portfolio update"
)

// EngagementNotifier delivers best-effort notifications to the site owner.
// Implemented by the mailer; nil disables notifications.
type EngagementNotifier interface {
	NotifyLike(ctx context.Context, visitorName, contentPreview string) error
	NotifyComment(ctx context.Context, visitorName, commentText, contentPreview string) error
}

// ItemService enforces validation and engagement invariants for posts and
// poems. Both content kinds run through the same instance; the kind argument
// selects the collection and the creation rules.
type ItemService struct {
	itemRepo    repository.ItemRepository
	commentRepo repository.CommentRepository
	notifier    EngagementNotifier
}

// CreateItemInput carries the creation payload for either content kind.
type CreateItemInput struct {
	Kind     string
	Title    string
	Category string
	Content  string
	Images   []string
}

// NewItemService creates a new item service.
func NewItemService(
	itemRepo repository.ItemRepository,
	commentRepo repository.CommentRepository,
	notifier EngagementNotifier,
) *ItemService {
	return &ItemService{
		itemRepo:    itemRepo,
		commentRepo: commentRepo,
		notifier:    notifier,
	}
}

// CreateItem validates the payload and stores a new item. Posts require
// content or at least one image; poems require title, category and content.
func (s *ItemService) CreateItem(ctx context.Context, in CreateItemInput) (*models.Item, error) {
	item := &models.Item{
		ID:      uuid.NewString(),
		Kind:    in.Kind,
		Content: strings.TrimSpace(in.Content),
		Images:  []string{},
	}

	switch in.Kind {
	case models.KindPost:
		if in.Images != nil {
			item.Images = in.Images
		}
		if item.Content == "" && len(item.Images) == 0 {
			return nil, models.NewValidationError("Post must have content or images")
		}
	case models.KindPoem:
		item.Title = strings.TrimSpace(in.Title)
		item.Category = strings.TrimSpace(in.Category)
		if item.Title == "" || item.Category == "" || item.Content == "" {
			return nil, models.NewValidationError("Title, category and content are required")
		}
	default:
		return nil, models.NewValidationError("Unknown content kind")
	}

	if err := s.itemRepo.Create(ctx, item); err != nil {
		return nil, models.NewStorageError(err)
	}

	item.LikesBy = []string{}
	item.CommentsList = []models.Comment{}
	return item, nil
}

// ListItems returns the full collection of a kind, newest first.
func (s *ItemService) ListItems(ctx context.Context, kind string) ([]*models.Item, error) {
	items, err := s.itemRepo.List(ctx, kind)
	if err != nil {
		return nil, models.NewStorageError(err)
	}
	return items, nil
}

// ToggleOwnerLike flips the owner's like flag and returns the updated item.
func (s *ItemService) ToggleOwnerLike(ctx context.Context, kind, id string) (*models.Item, error) {
	if err := s.itemRepo.ToggleOwnerLike(ctx, kind, id); err != nil {
		return nil, storageOrNotFound(err, kind)
	}
	item, err := s.itemRepo.GetByID(ctx, kind, id)
	if err != nil {
		return nil, storageOrNotFound(err, kind)
	}
	return item, nil
}

// ToggleVisitorLike toggles the named visitor's like. It returns the new
// likes count and whether the visitor now likes the item. Adding a like
// notifies the owner as a detached side effect.
func (s *ItemService) ToggleVisitorLike(ctx context.Context, kind, id, visitorName string) (likes int, liked bool, err error) {
	visitorName = strings.TrimSpace(visitorName)
	if visitorName == "" {
		return 0, false, models.NewValidationError("Name required")
	}

	liked, err = s.itemRepo.ToggleVisitorLike(ctx, kind, id, visitorName)
	if err != nil {
		return 0, false, storageOrNotFound(err, kind)
	}

	item, err := s.itemRepo.GetByID(ctx, kind, id)
	if err != nil {
		return 0, false, storageOrNotFound(err, kind)
	}

	if liked {
		preview := Preview(item)
		s.dispatch("like", func(ctx context.Context) error {
			return s.notifier.NotifyLike(ctx, visitorName, preview)
		})
	}

	return item.LikesCount, liked, nil
}

// AddComment appends a visitor comment and notifies the owner as a detached
// side effect.
func (s *ItemService) AddComment(ctx context.Context, kind, id, visitorName, text string) (*models.Comment, error) {
	visitorName = strings.TrimSpace(visitorName)
	text = strings.TrimSpace(text)
	if visitorName == "" || text == "" {
		return nil, models.NewValidationError("Missing fields")
	}

	item, err := s.itemRepo.GetByID(ctx, kind, id)
	if err != nil {
		return nil, storageOrNotFound(err, kind)
	}

	comment := &models.Comment{
		ID:          uuid.NewString(),
		ItemID:      item.ID,
		VisitorName: visitorName,
		Text:        text,
	}
	if err := s.commentRepo.Create(ctx, kind, comment); err != nil {
		return nil, models.NewStorageError(err)
	}

	preview := Preview(item)
	s.dispatch("comment", func(ctx context.Context) error {
		return s.notifier.NotifyComment(ctx, visitorName, text, preview)
	})

	return comment, nil
}

// DeleteItem removes an item permanently.
func (s *ItemService) DeleteItem(ctx context.Context, kind, id string) error {
	if err := s.itemRepo.Delete(ctx, kind, id); err != nil {
		return storageOrNotFound(err, kind)
	}
	return nil
}

// Preview derives the short content summary used in notification emails.
func Preview(item *models.Item) string {
	content := strings.TrimSpace(item.Content)
	if content != "" {
		runes := []rune(content)
		if len(runes) > previewLimit {
			return string(runes[:previewLimit])
		}
		return content
	}
	if len(item.Images) > 0 {
		return previewImageOnly
	}
	return previewEmpty
}

// dispatch runs a notification on a detached goroutine. Delivery failures
// are counted and logged but never reach the triggering request.
func (s *ItemService) dispatch(kind string, fn func(context.Context) error) {
	if s.notifier == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := fn(ctx); err != nil {
			middleware.NotificationFailures.WithLabelValues(kind).Inc()
			middleware.Logger.Warn("notification delivery failed",
				"kind", kind, "error", err.Error())
		}
	}()
}

func storageOrNotFound(err error, kind string) error {
	if repository.IsNotFound(err) {
		if kind == models.KindPoem {
			return models.NewNotFoundError("Poem")
		}
		return models.NewNotFoundError("Post")
	}
	return models.NewStorageError(err)
}
