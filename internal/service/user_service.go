package service

import (
	"context"
	"strings"
	"time"

	"ideabox/internal/models"
	"ideabox/internal/repository"
	"ideabox/internal/validation"
)

// UserService implements the authenticated user directory. Admin accounts are
// invisible and untouchable through every operation here; only the admin
// surface reaches them.
type UserService struct {
	userRepo repository.UserRepository
}

type SearchUsersInput struct {
	SearchTerm string
	Role       string
	IsVerified *bool
	Page       int
	Limit      int
}

type UpdateUserInput struct {
	TargetID    uint
	Name        string
	Alias       string
	Email       string
	DateOfBirth time.Time
	Address     string
	Role        string
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) Stats(ctx context.Context) (*repository.UserStats, error) {
	return s.userRepo.Stats(ctx)
}

func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.userRepo.ListNonAdmins(ctx)
}

func (s *UserService) GetProfile(ctx context.Context, userID uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

func (s *UserService) SearchUsers(ctx context.Context, in SearchUsersInput) ([]models.User, int64, error) {
	return s.userRepo.Search(ctx, repository.UserFilter{
		SearchTerm:    in.SearchTerm,
		Role:          in.Role,
		IsVerified:    in.IsVerified,
		Page:          in.Page,
		Limit:         in.Limit,
		ExcludeAdmins: true,
	})
}

func (s *UserService) ListVerified(ctx context.Context, verified bool) ([]models.User, error) {
	users, _, err := s.userRepo.Search(ctx, repository.UserFilter{
		IsVerified:    &verified,
		Limit:         100,
		ExcludeAdmins: true,
	})
	return users, err
}

func (s *UserService) ListByRole(ctx context.Context, role string) ([]models.User, error) {
	if !models.Role(role).Valid() {
		return nil, models.NewValidationError("Rôle invalide")
	}
	if role == string(models.RoleAdmin) {
		return nil, models.NewForbiddenError("Accès refusé")
	}
	users, _, err := s.userRepo.Search(ctx, repository.UserFilter{
		Role:  role,
		Limit: 100,
	})
	return users, err
}

func (s *UserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.IsAdmin() {
		return nil, models.NewForbiddenError("Accès refusé")
	}
	return user, nil
}

func (s *UserService) UpdateUser(ctx context.Context, in UpdateUserInput) (*models.User, error) {
	if in.Name == "" || in.Alias == "" || in.Email == "" || in.Address == "" || in.DateOfBirth.IsZero() {
		return nil, models.NewValidationError("Tous les champs sont obligatoires")
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	user, err := s.userRepo.GetByID(ctx, in.TargetID)
	if err != nil {
		return nil, err
	}
	if user.IsAdmin() {
		return nil, models.NewForbiddenError("Impossible de modifier un admin")
	}

	taken, err := s.userRepo.EmailTaken(ctx, in.Email, in.TargetID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, models.NewValidationError("Cet email est déjà utilisé")
	}
	taken, err = s.userRepo.AliasTaken(ctx, in.Alias, in.TargetID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, models.NewValidationError("Cet alias est déjà utilisé")
	}

	user.Name = in.Name
	user.Alias = in.Alias
	user.Email = strings.ToLower(in.Email)
	user.DateOfBirth = in.DateOfBirth
	user.Address = in.Address
	if in.Role != "" {
		if !models.Role(in.Role).Valid() {
			return nil, models.NewValidationError("Rôle invalide")
		}
		user.Role = models.Role(in.Role)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) DeleteUser(ctx context.Context, callerID, targetID uint) error {
	if callerID == targetID {
		return models.NewForbiddenError("Vous ne pouvez pas supprimer votre propre compte")
	}

	user, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return err
	}
	if user.IsAdmin() {
		return models.NewForbiddenError("Impossible de supprimer un admin")
	}
	return s.userRepo.Delete(ctx, targetID)
}
