// Package seed populates the database with realistic test data.
package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"ideabox/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPassword is the plaintext password every seeded user gets.
const DefaultPassword = "password123"

// Seeder creates fake users, ideas and likes.
type Seeder struct {
	db       *gorm.DB
	passHash string
}

func NewSeeder(db *gorm.DB) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())

	// One hash shared by all seeded users; hashing is the slow part.
	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.MinCost)
	if err != nil {
		panic(fmt.Sprintf("seed: bcrypt failed: %v", err))
	}
	return &Seeder{db: db, passHash: string(hash)}
}

// ClearAll wipes every seeded table. Hard deletes, including soft-deleted rows.
func (s *Seeder) ClearAll() error {
	for _, model := range []any{&models.IdeaLike{}, &models.Idea{}, &models.User{}} {
		if err := s.db.Unscoped().Where("1 = 1").Delete(model).Error; err != nil {
			return fmt.Errorf("seed cleanup: %w", err)
		}
	}
	return nil
}

// CreateUser inserts one fake user; overrides mutate it before the insert.
func (s *Seeder) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	alias := strings.ToLower(gofakeit.Username()) + fmt.Sprintf("%d", gofakeit.Number(100, 999))
	user := &models.User{
		Name:         gofakeit.Name(),
		Alias:        alias,
		Email:        strings.ToLower(gofakeit.Email()),
		DateOfBirth:  gofakeit.DateRange(time.Now().AddDate(-60, 0, 0), time.Now().AddDate(-18, 0, 0)),
		Address:      gofakeit.Street() + ", " + gofakeit.City(),
		Password:     s.passHash,
		ProfilePhoto: fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
		Role:         models.RoleUser,
		IsVerified:   gofakeit.Bool(),
	}
	if gofakeit.Number(0, 3) > 0 {
		last := gofakeit.DateRange(time.Now().AddDate(0, -2, 0), time.Now())
		user.LastLogin = &last
	}
	for _, o := range overrides {
		o(user)
	}
	if err := s.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// SeedUsers creates n regular users plus one admin account
// (admin@ideabox.dev) when none exists yet.
func (s *Seeder) SeedUsers(n int) ([]*models.User, error) {
	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		user, err := s.CreateUser()
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	var adminCount int64
	if err := s.db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).
		Count(&adminCount).Error; err != nil {
		return nil, err
	}
	if adminCount == 0 {
		admin, err := s.CreateUser(func(u *models.User) {
			u.Name = "Admin"
			u.Alias = "admin"
			u.Email = "admin@ideabox.dev"
			u.Role = models.RoleAdmin
			u.IsVerified = true
		})
		if err != nil {
			return nil, err
		}
		users = append(users, admin)
	}
	return users, nil
}

// CreateIdea inserts one fake idea for the author.
func (s *Seeder) CreateIdea(author *models.User, overrides ...func(*models.Idea)) (*models.Idea, error) {
	idea := &models.Idea{
		Text:     gofakeit.Paragraph(1, 2, 8, " "),
		AuthorID: author.ID,
	}
	if gofakeit.Number(0, 2) == 0 {
		idea.Image = fmt.Sprintf("https://picsum.photos/seed/%s/800/600", gofakeit.UUID())
	}
	for _, o := range overrides {
		o(idea)
	}
	if err := s.db.Create(idea).Error; err != nil {
		return nil, err
	}
	return idea, nil
}

// SeedIdeas spreads n ideas across the given users.
func (s *Seeder) SeedIdeas(users []*models.User, n int) ([]*models.Idea, error) {
	if len(users) == 0 {
		return nil, fmt.Errorf("seed: no users to author ideas")
	}
	ideas := make([]*models.Idea, 0, n)
	for i := 0; i < n; i++ {
		author := users[rand.Intn(len(users))]
		idea, err := s.CreateIdea(author)
		if err != nil {
			return nil, err
		}
		ideas = append(ideas, idea)
	}
	return ideas, nil
}

// SeedLikes makes each user like a random subset of ideas and fixes up
// every likes_count afterwards.
func (s *Seeder) SeedLikes(users []*models.User, ideas []*models.Idea) error {
	for _, user := range users {
		for _, idea := range ideas {
			if gofakeit.Number(0, 4) != 0 {
				continue
			}
			like := &models.IdeaLike{IdeaID: idea.ID, UserID: user.ID}
			if err := s.db.Create(like).Error; err != nil {
				return err
			}
		}
	}

	for _, idea := range ideas {
		var count int64
		if err := s.db.Model(&models.IdeaLike{}).
			Where("idea_id = ?", idea.ID).
			Count(&count).Error; err != nil {
			return err
		}
		if err := s.db.Model(&models.Idea{}).
			Where("id = ?", idea.ID).
			Update("likes_count", count).Error; err != nil {
			return err
		}
	}
	return nil
}
