package server

import (
	"time"

	"ideabox/internal/cache"
	"ideabox/internal/middleware"
	"ideabox/internal/models"
	"ideabox/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// parseDate accepts both bare dates and full RFC3339 timestamps; browser
// clients send the former, API clients tend to send the latter.
func parseDate(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// Signup handles POST /api/auth/signup
func (s *Server) Signup(c *fiber.Ctx) error {
	var req struct {
		Name            string `json:"name"`
		Alias           string `json:"alias"`
		Email           string `json:"email"`
		DateOfBirth     string `json:"dateOfBirth"`
		Address         string `json:"address"`
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirmPassword"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Corps de requête invalide"))
	}

	dob, _ := parseDate(req.DateOfBirth)

	user, err := s.authService.Signup(c.Context(), service.SignupInput{
		Name:            req.Name,
		Alias:           req.Alias,
		Email:           req.Email,
		DateOfBirth:     dob,
		Address:         req.Address,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	if err := s.issueSession(c, user.ID); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	middleware.SessionsIssued.WithLabelValues("signup").Inc()

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Utilisateur créé avec succès",
		"user":    user,
	})
}

// Login handles POST /api/auth/login
func (s *Server) Login(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Corps de requête invalide"))
	}

	user, err := s.authService.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	if err := s.issueSession(c, user.ID); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	middleware.SessionsIssued.WithLabelValues("login").Inc()

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Connexion réussie",
		"user":    user,
	})
}

// Logout handles POST /api/auth/logout. The cookie is always cleared; when
// the token still parses and carries a jti, that session is also revoked
// server-side until its natural expiry.
func (s *Server) Logout(c *fiber.Ctx) error {
	tokenString := c.Cookies(sessionCookieName)
	if tokenString != "" && s.redis != nil {
		s.revokeToken(c, tokenString)
	}

	s.clearSession(c)
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Déconnexion réussie",
	})
}

func (s *Server) revokeToken(c *fiber.Ctx, tokenString string) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(s.config.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return
	}
	jti, _ := claims["jti"].(string)
	if jti == "" {
		return
	}

	ttl := sessionLifetime
	if exp, expOk := claims["exp"].(float64); expOk {
		if remaining := time.Until(time.Unix(int64(exp), 0)); remaining > 0 {
			ttl = remaining
		}
	}
	s.redis.Set(c.Context(), cache.BlacklistKey(jti), "1", ttl)
}

// UpdateProfile handles PUT /api/auth/update-profile
func (s *Server) UpdateProfile(c *fiber.Ctx) error {
	var req struct {
		Name         string `json:"name"`
		Alias        string `json:"alias"`
		Email        string `json:"email"`
		DateOfBirth  string `json:"dateOfBirth"`
		Address      string `json:"address"`
		ProfilePhoto string `json:"profilePhoto"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Corps de requête invalide"))
	}

	dob, _ := parseDate(req.DateOfBirth)

	user, err := s.authService.UpdateProfile(c.Context(), service.UpdateProfileInput{
		UserID:       currentUserID(c),
		Name:         req.Name,
		Alias:        req.Alias,
		Email:        req.Email,
		DateOfBirth:  dob,
		Address:      req.Address,
		ProfilePhoto: req.ProfilePhoto,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Profil mis à jour avec succès",
		"user":    user,
	})
}

// ChangePassword handles PUT /api/auth/change-password
func (s *Server) ChangePassword(c *fiber.Ctx) error {
	var req struct {
		OldPassword string `json:"oldPassword"`
		NewPassword string `json:"newPassword"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Corps de requête invalide"))
	}

	err := s.authService.ChangePassword(c.Context(), service.ChangePasswordInput{
		UserID:      currentUserID(c),
		OldPassword: req.OldPassword,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Mot de passe changé avec succès",
	})
}
