// Package service contains the application's business logic.
package service

import (
	"context"
	"strings"
	"time"

	"ideabox/internal/models"
	"ideabox/internal/repository"
	"ideabox/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// AuthService implements signup, login and account self-service.
type AuthService struct {
	userRepo repository.UserRepository
}

type SignupInput struct {
	Name            string    `json:"name"`
	Alias           string    `json:"alias"`
	Email           string    `json:"email"`
	DateOfBirth     time.Time `json:"dateOfBirth"`
	Address         string    `json:"address"`
	Password        string    `json:"password"`
	ConfirmPassword string    `json:"confirmPassword"`
}

type UpdateProfileInput struct {
	UserID       uint
	Name         string
	Alias        string
	Email        string
	DateOfBirth  time.Time
	Address      string
	ProfilePhoto string
}

type ChangePasswordInput struct {
	UserID      uint
	OldPassword string
	NewPassword string
}

func NewAuthService(userRepo repository.UserRepository) *AuthService {
	return &AuthService{userRepo: userRepo}
}

// Signup validates the registration payload, hashes the password and creates
// the account. The returned user still carries the hash; callers serialize it
// through the model's JSON tags, which never expose credential fields.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	if in.Name == "" || in.Alias == "" || in.Email == "" || in.Address == "" ||
		in.Password == "" || in.ConfirmPassword == "" || in.DateOfBirth.IsZero() {
		return nil, models.NewValidationError("Tous les champs sont obligatoires")
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateAlias(in.Alias); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if in.Password != in.ConfirmPassword {
		return nil, models.NewValidationError("Les mots de passe ne correspondent pas")
	}

	existing, err := s.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewValidationError("Un utilisateur avec cet email existe déjà")
	}
	existing, err = s.userRepo.GetByAlias(ctx, in.Alias)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewValidationError("Cet alias est déjà utilisé")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Name:        in.Name,
		Alias:       in.Alias,
		Email:       strings.ToLower(in.Email),
		DateOfBirth: in.DateOfBirth,
		Address:     in.Address,
		Password:    string(hash),
		Role:        models.RoleUser,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login checks credentials and stamps LastLogin. An unknown email is a 404,
// a wrong password a 401; clients rely on the distinction.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, error) {
	if email == "" || password == "" {
		return nil, models.NewValidationError("Tous les champs sont obligatoires")
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundError("Utilisateur non trouvé")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, models.NewUnauthorizedError("Mot de passe incorrect")
	}

	now := time.Now()
	user.LastLogin = &now
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateProfile re-validates the core fields and applies them to the caller's
// own account. The profile photo changes only when the supplied value is an
// encoded blob (data: prefix); anything else preserves the stored photo.
func (s *AuthService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	if in.Name == "" || in.Alias == "" || in.Email == "" || in.Address == "" || in.DateOfBirth.IsZero() {
		return nil, models.NewValidationError("Tous les champs sont obligatoires")
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	taken, err := s.userRepo.EmailTaken(ctx, in.Email, in.UserID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, models.NewValidationError("Cet email est déjà utilisé")
	}
	taken, err = s.userRepo.AliasTaken(ctx, in.Alias, in.UserID)
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
	if strings.HasPrefix(in.ProfilePhoto, "data:") {
		user.ProfilePhoto = in.ProfilePhoto
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, in ChangePasswordInput) error {
	if in.OldPassword == "" || in.NewPassword == "" {
		return models.NewValidationError("L'ancien et le nouveau mot de passe sont obligatoires")
	}

	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.OldPassword)); err != nil {
		return models.NewUnauthorizedError("L'ancien mot de passe est incorrect")
	}
	if len(in.NewPassword) < validation.PasswordMinLen {
		return models.NewValidationError("Le nouveau mot de passe doit contenir au moins 8 caractères")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return models.NewInternalError(err)
	}
	user.Password = string(hash)
	return s.userRepo.Update(ctx, user)
}
