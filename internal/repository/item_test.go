package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"portfolio/internal/cache"
	"portfolio/internal/database"
	"portfolio/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// a single connection keeps the in-memory database alive and serializes writers
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

func newItemRepo(t *testing.T) ItemRepository {
	t.Helper()
	return NewItemRepository(newTestDB(t), &cache.Cache{})
}

func newPost(content string) *models.Item {
	return &models.Item{
		ID:      uuid.NewString(),
		Kind:    models.KindPost,
		Content: content,
		Images:  []string{},
	}
}

func TestCreateAndGetByID(t *testing.T) {
	repo := newItemRepo(t)
	ctx := context.Background()

	post := newPost("Hello world")
	require.NoError(t, repo.Create(ctx, post))

	got, err := repo.GetByID(ctx, models.KindPost, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hello world", got.Content)
	assert.Equal(t, 0, got.LikesCount)
	assert.Equal(t, 0, got.CommentsCount)
	assert.Empty(t, got.LikesBy)
	assert.Empty(t, got.CommentsList)
	assert.NotNil(t, got.Images)
}

func TestGetByIDWrongKind(t *testing.T) {
	repo := newItemRepo(t)
	ctx := context.Background()

	post := newPost("only a post")
	require.NoError(t, repo.Create(ctx, post))

	_, err := repo.GetByID(ctx, models.KindPoem, post.ID)
	assert.True(t, IsNotFound(err))
}

func TestListNewestFirst(t *testing.T) {
	db := newTestDB(t)
	repo := NewItemRepository(db, &cache.Cache{})
	ctx := context.Background()

	older := newPost("older")
	older.CreatedAt = time.Now().Add(-time.Hour)
	newer := newPost("newer")

	require.NoError(t, repo.Create(ctx, older))
	require.NoError(t, repo.Create(ctx, newer))

	items, err := repo.List(ctx, models.KindPost)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "newer", items[0].Content)
	assert.Equal(t, "older", items[1].Content)
}

func TestToggleVisitorLikeIsAStrictToggle(t *testing.T) {
	repo := newItemRepo(t)
	ctx := context.Background()

	post := newPost("toggle me")
	require.NoError(t, repo.Create(ctx, post))

	liked, err := repo.ToggleVisitorLike(ctx, models.KindPost, post.ID, "Ann")
	require.NoError(t, err)
	assert.True(t, liked)

	got, err := repo.GetByID(ctx, models.KindPost, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.LikesCount)
	assert.Equal(t, []string{"Ann"}, got.LikesBy)

	liked, err = repo.ToggleVisitorLike(ctx, models.KindPost, post.ID, "Ann")
	require.NoError(t, err)
	assert.False(t, liked)

	got, err = repo.GetByID(ctx, models.KindPost, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.LikesCount)
	assert.Empty(t, got.LikesBy)
}

func TestToggleVisitorLikeDistinctNamesAreIndependent(t *testing.T) {
	repo := newItemRepo(t)
	ctx := context.Background()

	post := newPost("popular")
	require.NoError(t, repo.Create(ctx, post))

	names := []string{"Ann", "Bob", "Cam"}
	var wg sync.WaitGroup
	for _, name := range names {
		wg.Add(1)
		go func(n string) {
			defer wg.Done()
			_, err := repo.ToggleVisitorLike(ctx, models.KindPost, post.ID, n)
			assert.NoError(t, err)
		}(name)
	}
	wg.Wait()

	got, err := repo.GetByID(ctx, models.KindPost, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.LikesCount)
	assert.ElementsMatch(t, names, got.LikesBy)

	// one visitor backing out leaves the others untouched
	_, err = repo.ToggleVisitorLike(ctx, models.KindPost, post.ID, "Bob")
	require.NoError(t, err)

	got, err = repo.GetByID(ctx, models.KindPost, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.LikesCount)
	assert.ElementsMatch(t, []string{"Ann", "Cam"}, got.LikesBy)
}

func TestToggleVisitorLikeUnknownItem(t *testing.T) {
	repo := newItemRepo(t)

	_, err := repo.ToggleVisitorLike(context.Background(), models.KindPost, uuid.NewString(), "Ann")
	assert.True(t, IsNotFound(err))
}

func TestToggleOwnerLike(t *testing.T) {
	repo := newItemRepo(t)
	ctx := context.Background()

	post := newPost("owner's favourite")
	require.NoError(t, repo.Create(ctx, post))

	require.NoError(t, repo.ToggleOwnerLike(ctx, models.KindPost, post.ID))
	got, err := repo.GetByID(ctx, models.KindPost, post.ID)
	require.NoError(t, err)
	assert.True(t, got.Liked)
	assert.Equal(t, 1, got.LikesCount)

	require.NoError(t, repo.ToggleOwnerLike(ctx, models.KindPost, post.ID))
	got, err = repo.GetByID(ctx, models.KindPost, post.ID)
	require.NoError(t, err)
	assert.False(t, got.Liked)
	assert.Equal(t, 0, got.LikesCount, "likes never go negative")

	assert.True(t, IsNotFound(repo.ToggleOwnerLike(ctx, models.KindPost, uuid.NewString())))
}

func TestOwnerAndVisitorLikesCompose(t *testing.T) {
	repo := newItemRepo(t)
	ctx := context.Background()

	post := newPost("both like mechanisms")
	require.NoError(t, repo.Create(ctx, post))

	require.NoError(t, repo.ToggleOwnerLike(ctx, models.KindPost, post.ID))
	_, err := repo.ToggleVisitorLike(ctx, models.KindPost, post.ID, "Ann")
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, models.KindPost, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.LikesCount)
	assert.Equal(t, []string{"Ann"}, got.LikesBy)

	// owner backing out never disturbs visitor entries
	require.NoError(t, repo.ToggleOwnerLike(ctx, models.KindPost, post.ID))
	got, err = repo.GetByID(ctx, models.KindPost, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.LikesCount)
	assert.Equal(t, []string{"Ann"}, got.LikesBy)
}

func TestDeleteRemovesItemAndEngagement(t *testing.T) {
	db := newTestDB(t)
	repo := NewItemRepository(db, &cache.Cache{})
	commentRepo := NewCommentRepository(db, &cache.Cache{})
	ctx := context.Background()

	post := newPost("to be removed")
	require.NoError(t, repo.Create(ctx, post))
	_, err := repo.ToggleVisitorLike(ctx, models.KindPost, post.ID, "Ann")
	require.NoError(t, err)
	require.NoError(t, commentRepo.Create(ctx, models.KindPost, &models.Comment{
		ID: uuid.NewString(), ItemID: post.ID, VisitorName: "Ann", Text: "bye",
	}))

	require.NoError(t, repo.Delete(ctx, models.KindPost, post.ID))

	_, err = repo.GetByID(ctx, models.KindPost, post.ID)
	assert.True(t, IsNotFound(err))

	var likeCount, commentCount int64
	require.NoError(t, db.Model(&models.Like{}).Count(&likeCount).Error)
	require.NoError(t, db.Model(&models.Comment{}).Count(&commentCount).Error)
	assert.Zero(t, likeCount)
	assert.Zero(t, commentCount)
}

func TestDeleteUnknownIDLeavesCollectionUnchanged(t *testing.T) {
	repo := newItemRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newPost("survivor")))

	err := repo.Delete(ctx, models.KindPost, uuid.NewString())
	assert.True(t, IsNotFound(err))

	items, err := repo.List(ctx, models.KindPost)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestCommentsKeepSubmissionOrder(t *testing.T) {
	db := newTestDB(t)
	repo := NewItemRepository(db, &cache.Cache{})
	commentRepo := NewCommentRepository(db, &cache.Cache{})
	ctx := context.Background()

	post := newPost("discuss")
	require.NoError(t, repo.Create(ctx, post))

	first := &models.Comment{
		ID: uuid.NewString(), ItemID: post.ID, VisitorName: "Ann", Text: "first",
		CreatedAt: time.Now().Add(-time.Minute),
	}
	second := &models.Comment{
		ID: uuid.NewString(), ItemID: post.ID, VisitorName: "Bob", Text: "second",
	}
	require.NoError(t, commentRepo.Create(ctx, models.KindPost, first))
	require.NoError(t, commentRepo.Create(ctx, models.KindPost, second))

	got, err := repo.GetByID(ctx, models.KindPost, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.CommentsCount)
	require.Len(t, got.CommentsList, 2)
	assert.Equal(t, "first", got.CommentsList[0].Text)
	assert.Equal(t, "second", got.CommentsList[1].Text)
}
