// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development only.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"portfolio/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var poemCategories = []string{"nature", "love", "loss", "city", "seasons"}

// Seeder populates the database with demo content and engagement.
type Seeder struct {
	db  *gorm.DB
	rng *rand.Rand
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{
		db:  db,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ClearAll wipes content, engagement and visitor data.
func (s *Seeder) ClearAll() error {
	for _, model := range []any{
		&models.Like{}, &models.Comment{}, &models.Item{}, &models.Visitor{},
	} {
		if err := s.db.Where("1 = 1").Delete(model).Error; err != nil {
			return fmt.Errorf("cleanup failed: %w", err)
		}
	}
	return nil
}

// SeedPosts creates n demo posts with a realistic created_at spread. Roughly
// a third of them are image-only.
func (s *Seeder) SeedPosts(n int) ([]*models.Item, error) {
	items := make([]*models.Item, 0, n)
	for i := 0; i < n; i++ {
		item := s.buildItem(models.KindPost)
		if s.rng.Intn(3) == 0 {
			item.Content = ""
			item.Images = []string{
				fmt.Sprintf("https://picsum.photos/seed/%s/800/600", gofakeit.UUID()),
			}
		} else {
			item.Content = gofakeit.Paragraph(1, 3, 8, "\n")
			if s.rng.Intn(2) == 0 {
				item.Images = []string{
					fmt.Sprintf("https://picsum.photos/seed/%s/800/600", gofakeit.UUID()),
				}
			}
		}
		items = append(items, item)
	}
	if err := s.db.Create(items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// SeedPoems creates n demo poems.
func (s *Seeder) SeedPoems(n int) ([]*models.Item, error) {
	items := make([]*models.Item, 0, n)
	for i := 0; i < n; i++ {
		item := s.buildItem(models.KindPoem)
		item.Title = gofakeit.Sentence(3)
		item.Category = poemCategories[s.rng.Intn(len(poemCategories))]
		item.Content = gofakeit.Paragraph(2, 4, 6, "\n")
		items = append(items, item)
	}
	if err := s.db.Create(items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// SeedEngagement adds visitor likes and comments to the given items. Each
// item gets up to maxLikes likes from distinct names and up to maxComments
// comments.
func (s *Seeder) SeedEngagement(items []*models.Item, maxLikes, maxComments int) error {
	for _, item := range items {
		names := visitorNames(s.rng.Intn(maxLikes + 1))
		for _, name := range names {
			like := &models.Like{ItemID: item.ID, VisitorName: name}
			if err := s.db.Create(like).Error; err != nil {
				return err
			}
		}

		for i := 0; i < s.rng.Intn(maxComments+1); i++ {
			comment := &models.Comment{
				ID:          uuid.NewString(),
				ItemID:      item.ID,
				VisitorName: gofakeit.FirstName(),
				Text:        gofakeit.Sentence(s.rng.Intn(12) + 3),
			}
			if err := s.db.Create(comment).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Seeder) buildItem(kind string) *models.Item {
	daysBack := s.rng.Intn(90)
	minsBack := s.rng.Intn(24 * 60)
	return &models.Item{
		ID:     uuid.NewString(),
		Kind:   kind,
		Images: []string{},
		Liked:  s.rng.Intn(5) == 0,
		CreatedAt: time.Now().
			Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(minsBack)*time.Minute),
	}
}

// visitorNames returns n distinct first names.
func visitorNames(n int) []string {
	seen := map[string]bool{}
	names := make([]string, 0, n)
	for len(names) < n {
		name := gofakeit.FirstName()
		if seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}
