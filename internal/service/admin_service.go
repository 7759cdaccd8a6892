package service

import (
	"context"
	"time"

	"ideabox/internal/models"
	"ideabox/internal/repository"
)

// AdminService implements the admin dashboard and moderation operations.
// Authorization (valid session + admin role) is enforced by middleware before
// any of these run.
type AdminService struct {
	userRepo repository.UserRepository
	ideaRepo repository.IdeaRepository
}

// DashboardStats aggregates both tables for the admin landing page.
type DashboardStats struct {
	TotalUsers      int64 `json:"totalUsers"`
	AdminCount      int64 `json:"adminCount"`
	VerifiedUsers   int64 `json:"verifiedUsers"`
	UnverifiedUsers int64 `json:"unverifiedUsers"`
	ActiveUsers     int64 `json:"activeUsers"`
	TotalIdeas      int64 `json:"totalIdeas"`
	IdeasThisMonth  int64 `json:"ideasThisMonth"`
	TotalLikes      int64 `json:"totalLikes"`
	LikesThisMonth  int64 `json:"likesThisMonth"`
}

type ListUsersInput struct {
	Role       string
	IsVerified *bool
	SearchTerm string
	SortBy     string
	Page       int
	Limit      int
}

// Pagination is the page envelope returned alongside admin user listings.
type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalUsers  int64 `json:"totalUsers"`
	Limit       int   `json:"limit"`
}

func NewAdminService(userRepo repository.UserRepository, ideaRepo repository.IdeaRepository) *AdminService {
	return &AdminService{userRepo: userRepo, ideaRepo: ideaRepo}
}

func (s *AdminService) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	userStats, err := s.userRepo.Stats(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	active, err := s.userRepo.CountActiveSince(ctx, now.AddDate(0, 0, -7))
	if err != nil {
		return nil, err
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	ideaStats, err := s.ideaRepo.Stats(ctx, monthStart)
	if err != nil {
		return nil, err
	}

	return &DashboardStats{
		TotalUsers:      userStats.TotalUsers,
		AdminCount:      userStats.AdminCount,
		VerifiedUsers:   userStats.VerifiedUsers,
		UnverifiedUsers: userStats.UnverifiedUsers,
		ActiveUsers:     active,
		TotalIdeas:      ideaStats.TotalIdeas,
		IdeasThisMonth:  ideaStats.IdeasThisMonth,
		TotalLikes:      ideaStats.TotalLikes,
		LikesThisMonth:  ideaStats.LikesThisMonth,
	}, nil
}

func (s *AdminService) GetActivityLog(ctx context.Context) ([]models.User, error) {
	return s.userRepo.ActivityLog(ctx, 50)
}

// ListUsers is the filtered admin listing; unlike the user-facing search it
// does not exclude admin accounts.
func (s *AdminService) ListUsers(ctx context.Context, in ListUsersInput) ([]models.User, *Pagination, error) {
	page := in.Page
	if page < 1 {
		page = 1
	}
	limit := in.Limit
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	users, total, err := s.userRepo.Search(ctx, repository.UserFilter{
		Role:       in.Role,
		IsVerified: in.IsVerified,
		SearchTerm: in.SearchTerm,
		SortBy:     in.SortBy,
		Page:       page,
		Limit:      limit,
	})
	if err != nil {
		return nil, nil, err
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return users, &Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalUsers:  total,
		Limit:       limit,
	}, nil
}

// VerifyUser marks the account verified and clears any pending reset token.
func (s *AdminService) VerifyUser(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.IsVerified = true
	user.ResetPasswordToken = ""
	user.ResetPasswordExpiresAt = nil
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ChangeRole sets the target's role. An admin cannot strip its own admin
// rights through this path.
func (s *AdminService) ChangeRole(ctx context.Context, callerID, targetID uint, role string) (*models.User, error) {
	if !models.Role(role).Valid() {
		return nil, models.NewValidationError("Rôle invalide. Les rôles autorisés sont: user, admin")
	}
	if callerID == targetID && models.Role(role) != models.RoleAdmin {
		return nil, models.NewForbiddenError("Vous ne pouvez pas retirer vos propres droits d'administrateur")
	}

	user, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	user.Role = models.Role(role)
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ExportUsers returns every account for the CSV export, admins included.
func (s *AdminService) ExportUsers(ctx context.Context) ([]models.User, error) {
	users, _, err := s.userRepo.Search(ctx, repository.UserFilter{Limit: 100})
	if err != nil {
		return nil, err
	}
	if len(users) < 100 {
		return users, nil
	}

	// Page through the rest; exports are unbounded.
	all := users
	for page := 2; ; page++ {
		batch, _, err := s.userRepo.Search(ctx, repository.UserFilter{Page: page, Limit: 100})
		if err != nil {
			return nil, err
		}
		all = append(all, batch...)
		if len(batch) < 100 {
			return all, nil
		}
	}
}

// BulkDelete removes the listed accounts. A list containing the caller is
// rejected wholesale before anything is deleted.
func (s *AdminService) BulkDelete(ctx context.Context, callerID uint, userIDs []uint) (int64, error) {
	for _, id := range userIDs {
		if id == callerID {
			return 0, models.NewForbiddenError("Vous ne pouvez pas supprimer votre propre compte")
		}
	}
	if len(userIDs) == 0 {
		return 0, models.NewValidationError("Fournissez au moins un ID utilisateur")
	}
	return s.userRepo.BulkDelete(ctx, userIDs)
}

func (s *AdminService) ListIdeas(ctx context.Context) ([]models.Idea, error) {
	return s.ideaRepo.ListWithLikers(ctx)
}

// DeleteIdea removes any idea regardless of authorship.
func (s *AdminService) DeleteIdea(ctx context.Context, id uint) error {
	if _, err := s.ideaRepo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.ideaRepo.Delete(ctx, id)
}
