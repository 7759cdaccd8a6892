// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"ideabox/internal/cache"
	"ideabox/internal/models"

	"gorm.io/gorm"
)

// UserFilter narrows and paginates user listings. Page is 1-based.
type UserFilter struct {
	Role          string
	IsVerified    *bool
	SearchTerm    string
	SortBy        string
	Page          int
	Limit         int
	ExcludeAdmins bool
}

// UserStats is the public aggregate over the users table.
type UserStats struct {
	TotalUsers      int64 `json:"totalUsers"`
	AdminCount      int64 `json:"adminCount"`
	VerifiedUsers   int64 `json:"verifiedUsers"`
	UnverifiedUsers int64 `json:"unverifiedUsers"`
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByAlias(ctx context.Context, alias string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
	ListNonAdmins(ctx context.Context) ([]models.User, error)
	Search(ctx context.Context, filter UserFilter) ([]models.User, int64, error)
	Stats(ctx context.Context) (*UserStats, error)
	CountActiveSince(ctx context.Context, since time.Time) (int64, error)
	ActivityLog(ctx context.Context, limit int) ([]models.User, error)
	BulkDelete(ctx context.Context, ids []uint) (int64, error)
	EmailTaken(ctx context.Context, email string, excludeID uint) (bool, error)
	AliasTaken(ctx context.Context, alias string, excludeID uint) (bool, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// cachedUser is the redis projection of a user row. models.User hides the
// password hash and reset-token fields behind json:"-", so caching the model
// directly would strip them on serialization and a cache hit would hand the
// callers a credential-less user; Save-ing that struct back would then wipe
// the hash in the database. This projection round-trips every persisted
// column.
type cachedUser struct {
	ID                     uint        `json:"id"`
	Name                   string      `json:"name"`
	Alias                  string      `json:"alias"`
	Email                  string      `json:"email"`
	DateOfBirth            time.Time   `json:"dateOfBirth"`
	Address                string      `json:"address"`
	Password               string      `json:"password"`
	ProfilePhoto           string      `json:"profilePhoto"`
	Role                   models.Role `json:"role"`
	LastLogin              *time.Time  `json:"lastLogin"`
	IsVerified             bool        `json:"isVerified"`
	ResetPasswordToken     string      `json:"resetPasswordToken"`
	ResetPasswordExpiresAt *time.Time  `json:"resetPasswordExpiresAt"`
	CreatedAt              time.Time   `json:"createdAt"`
	UpdatedAt              time.Time   `json:"updatedAt"`
}

func newCachedUser(u *models.User) cachedUser {
	return cachedUser{
		ID:                     u.ID,
		Name:                   u.Name,
		Alias:                  u.Alias,
		Email:                  u.Email,
		DateOfBirth:            u.DateOfBirth,
		Address:                u.Address,
		Password:               u.Password,
		ProfilePhoto:           u.ProfilePhoto,
		Role:                   u.Role,
		LastLogin:              u.LastLogin,
		IsVerified:             u.IsVerified,
		ResetPasswordToken:     u.ResetPasswordToken,
		ResetPasswordExpiresAt: u.ResetPasswordExpiresAt,
		CreatedAt:              u.CreatedAt,
		UpdatedAt:              u.UpdatedAt,
	}
}

func (c *cachedUser) user() *models.User {
	return &models.User{
		ID:                     c.ID,
		Name:                   c.Name,
		Alias:                  c.Alias,
		Email:                  c.Email,
		DateOfBirth:            c.DateOfBirth,
		Address:                c.Address,
		Password:               c.Password,
		ProfilePhoto:           c.ProfilePhoto,
		Role:                   c.Role,
		LastLogin:              c.LastLogin,
		IsVerified:             c.IsVerified,
		ResetPasswordToken:     c.ResetPasswordToken,
		ResetPasswordExpiresAt: c.ResetPasswordExpiresAt,
		CreatedAt:              c.CreatedAt,
		UpdatedAt:              c.UpdatedAt,
	}
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var cached cachedUser
	key := cache.UserKey(id)

	err := cache.Aside(ctx, key, &cached, cache.UserTTL, func() error {
		var user models.User
		if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Utilisateur non trouvé")
			}
			return models.NewInternalError(err)
		}
		cached = newCachedUser(&user)
		return nil
	})

	if err != nil {
		return nil, err
	}
	return cached.user(), nil
}

// GetByEmail matches case-insensitively; emails are stored lowercased but
// legacy rows may not be. Returns (nil, nil) when no row matches.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(email)).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) GetByAlias(ctx context.Context, alias string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("alias = ?", alias).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	user.Email = strings.ToLower(user.Email)
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewValidationError("Un compte existe déjà avec ces informations")
		}
		return models.NewInternalError(err)
	}
	cache.Invalidate(ctx, cache.UserStatsKey)
	return nil
}

// isUniqueConstraintError checks if a DB error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	// PostgreSQL unique violation SQLSTATE 23505; sqlite says "UNIQUE constraint failed"
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "23505")
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	user.Email = strings.ToLower(user.Email)
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewValidationError("Un compte existe déjà avec ces informations")
		}
		return models.NewInternalError(err)
	}
	cache.InvalidateUser(ctx, user.ID)
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.User{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateUser(ctx, id)
	return nil
}

func (r *userRepository) ListNonAdmins(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).
		Where("role <> ?", models.RoleAdmin).
		Order("created_at DESC").
		Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

// Search applies the filter and returns one page plus the total row count
// before pagination.
func (r *userRepository) Search(ctx context.Context, filter UserFilter) ([]models.User, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.User{})

	if filter.ExcludeAdmins {
		query = query.Where("role <> ?", models.RoleAdmin)
	}
	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}
	if filter.IsVerified != nil {
		query = query.Where("is_verified = ?", *filter.IsVerified)
	}
	if term := strings.TrimSpace(filter.SearchTerm); term != "" {
		// LOWER + LIKE rather than ILIKE so the same query runs on sqlite.
		pattern := "%" + strings.ToLower(term) + "%"
		query = query.Where(
			"LOWER(name) LIKE ? OR LOWER(alias) LIKE ? OR LOWER(email) LIKE ?",
			pattern, pattern, pattern,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	switch filter.SortBy {
	case "lastLogin":
		query = query.Order("last_login DESC")
	case "name":
		query = query.Order("name ASC")
	default:
		query = query.Order("created_at DESC")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	var users []models.User
	if err := query.Limit(limit).Offset((page - 1) * limit).Find(&users).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return users, total, nil
}

func (r *userRepository) Stats(ctx context.Context) (*UserStats, error) {
	var stats UserStats

	err := cache.Aside(ctx, cache.UserStatsKey, &stats, cache.UserStatsTTL, func() error {
		model := func() *gorm.DB { return r.db.WithContext(ctx).Model(&models.User{}) }
		if err := model().Count(&stats.TotalUsers).Error; err != nil {
			return models.NewInternalError(err)
		}
		if err := model().Where("role = ?", models.RoleAdmin).Count(&stats.AdminCount).Error; err != nil {
			return models.NewInternalError(err)
		}
		if err := model().Where("is_verified = ?", true).Count(&stats.VerifiedUsers).Error; err != nil {
			return models.NewInternalError(err)
		}
		stats.UnverifiedUsers = stats.TotalUsers - stats.VerifiedUsers
		return nil
	})

	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *userRepository) CountActiveSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("last_login IS NOT NULL AND last_login >= ?", since).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *userRepository) ActivityLog(ctx context.Context, limit int) ([]models.User, error) {
	if limit <= 0 {
		limit = 50
	}
	var users []models.User
	if err := r.db.WithContext(ctx).
		Where("last_login IS NOT NULL").
		Order("last_login DESC").
		Limit(limit).
		Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

func (r *userRepository) BulkDelete(ctx context.Context, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Delete(&models.User{}, ids)
	if result.Error != nil {
		return 0, models.NewInternalError(result.Error)
	}
	for _, id := range ids {
		cache.InvalidateUser(ctx, id)
	}
	return result.RowsAffected, nil
}

func (r *userRepository) EmailTaken(ctx context.Context, email string, excludeID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("LOWER(email) = ? AND id <> ?", strings.ToLower(email), excludeID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *userRepository) AliasTaken(ctx context.Context, alias string, excludeID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("alias = ? AND id <> ?", alias, excludeID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}
