package repository

import (
	"context"
	"errors"
	"time"

	"ideabox/internal/cache"
	"ideabox/internal/middleware"
	"ideabox/internal/models"

	"gorm.io/gorm"
)

// IdeaStats is the aggregate over ideas for the admin dashboard.
// Like totals come from the persisted likes_count column.
type IdeaStats struct {
	TotalIdeas     int64 `json:"totalIdeas"`
	IdeasThisMonth int64 `json:"ideasThisMonth"`
	TotalLikes     int64 `json:"totalLikes"`
	LikesThisMonth int64 `json:"likesThisMonth"`
}

// IdeaRepository defines persistence operations for ideas and likes.
type IdeaRepository interface {
	Create(ctx context.Context, idea *models.Idea) error
	GetByID(ctx context.Context, id uint) (*models.Idea, error)
	List(ctx context.Context) ([]models.Idea, error)
	ListWithLikers(ctx context.Context) ([]models.Idea, error)
	Update(ctx context.Context, idea *models.Idea) error
	Delete(ctx context.Context, id uint) error
	ToggleLike(ctx context.Context, ideaID, userID uint) (bool, *models.Idea, error)
	Stats(ctx context.Context, monthStart time.Time) (*IdeaStats, error)
}

type ideaRepository struct {
	db *gorm.DB
}

// NewIdeaRepository returns a new IdeaRepository implementation.
func NewIdeaRepository(db *gorm.DB) IdeaRepository {
	return &ideaRepository{db: db}
}

func (r *ideaRepository) Create(ctx context.Context, idea *models.Idea) error {
	if err := r.db.WithContext(ctx).Create(idea).Error; err != nil {
		return models.NewInternalError(err)
	}
	// Reload the author projection so the 201 body carries display fields.
	if err := r.db.WithContext(ctx).Preload("Author").First(idea, idea.ID).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateIdeaFeed(ctx)
	return nil
}

func (r *ideaRepository) GetByID(ctx context.Context, id uint) (*models.Idea, error) {
	var idea models.Idea
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("LikedBy").
		First(&idea, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Idée non trouvée")
		}
		return nil, models.NewInternalError(err)
	}
	return &idea, nil
}

// List returns the public feed, newest first, with the author projection.
// The first page never changes shape, so the whole feed is cached as one unit.
func (r *ideaRepository) List(ctx context.Context) ([]models.Idea, error) {
	var ideas []models.Idea

	err := cache.Aside(ctx, cache.IdeaFeedKey, &ideas, cache.IdeaFeedTTL, func() error {
		if err := r.db.WithContext(ctx).
			Preload("Author").
			Order("created_at DESC").
			Find(&ideas).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ideas, nil
}

// ListWithLikers is the moderation view: author plus every liking user's
// display fields. Not cached; it is admin-only traffic.
func (r *ideaRepository) ListWithLikers(ctx context.Context) ([]models.Idea, error) {
	var ideas []models.Idea
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("LikedBy").
		Order("created_at DESC").
		Find(&ideas).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return ideas, nil
}

func (r *ideaRepository) Update(ctx context.Context, idea *models.Idea) error {
	if err := r.db.WithContext(ctx).Save(idea).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateIdeaFeed(ctx)
	return nil
}

func (r *ideaRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Idea{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateIdeaFeed(ctx)
	return nil
}

// ToggleLike flips userID's membership in the idea's like set and keeps
// likes_count equal to the set's cardinality. Membership check, row
// insert/delete, recount and counter write all run in one transaction so a
// concurrent toggle cannot leave the counter stale.
func (r *ideaRepository) ToggleLike(ctx context.Context, ideaID, userID uint) (bool, *models.Idea, error) {
	var liked bool

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var idea models.Idea
		if err := tx.First(&idea, ideaID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Idée non trouvée")
			}
			return models.NewInternalError(err)
		}

		var existing int64
		if err := tx.Model(&models.IdeaLike{}).
			Where("idea_id = ? AND user_id = ?", ideaID, userID).
			Count(&existing).Error; err != nil {
			return models.NewInternalError(err)
		}

		if existing > 0 {
			if err := tx.Where("idea_id = ? AND user_id = ?", ideaID, userID).
				Delete(&models.IdeaLike{}).Error; err != nil {
				return models.NewInternalError(err)
			}
			liked = false
		} else {
			if err := tx.Create(&models.IdeaLike{IdeaID: ideaID, UserID: userID}).Error; err != nil {
				return models.NewInternalError(err)
			}
			liked = true
		}

		var count int64
		if err := tx.Model(&models.IdeaLike{}).
			Where("idea_id = ?", ideaID).
			Count(&count).Error; err != nil {
			return models.NewInternalError(err)
		}

		if err := tx.Model(&models.Idea{}).
			Where("id = ?", ideaID).
			Update("likes_count", count).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return false, nil, err
	}

	if liked {
		middleware.LikeToggles.WithLabelValues("liked").Inc()
	} else {
		middleware.LikeToggles.WithLabelValues("unliked").Inc()
	}
	cache.InvalidateIdeaFeed(ctx)

	idea, err := r.GetByID(ctx, ideaID)
	if err != nil {
		return false, nil, err
	}
	return liked, idea, nil
}

func (r *ideaRepository) Stats(ctx context.Context, monthStart time.Time) (*IdeaStats, error) {
	var stats IdeaStats

	model := func() *gorm.DB { return r.db.WithContext(ctx).Model(&models.Idea{}) }
	if err := model().Count(&stats.TotalIdeas).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := model().Where("created_at >= ?", monthStart).
		Count(&stats.IdeasThisMonth).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	type likeSum struct{ Total int64 }
	var sum likeSum
	if err := model().Select("COALESCE(SUM(likes_count), 0) AS total").
		Scan(&sum).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	stats.TotalLikes = sum.Total

	var monthSum likeSum
	if err := model().Select("COALESCE(SUM(likes_count), 0) AS total").
		Where("created_at >= ?", monthStart).
		Scan(&monthSum).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	stats.LikesThisMonth = monthSum.Total

	return &stats, nil
}
