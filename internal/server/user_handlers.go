package server

import (
	"ideabox/internal/models"
	"ideabox/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetUserStats handles GET /api/users/stats. Public aggregate counts only;
// no user data leaves this endpoint.
func (s *Server) GetUserStats(c *fiber.Ctx) error {
	stats, err := s.userService.Stats(c.Context())
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"stats":   stats,
	})
}

// GetUsers handles GET /api/users. Admin accounts never appear here.
func (s *Server) GetUsers(c *fiber.Ctx) error {
	users, err := s.userService.ListUsers(c.Context())
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Utilisateurs récupérés avec succès",
		"users":   users,
	})
}

// GetProfile handles GET /api/users/profile
func (s *Server) GetProfile(c *fiber.Ctx) error {
	user, err := s.userService.GetProfile(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Profil récupéré",
		"user":    user,
	})
}

// SearchUsers handles GET /api/users/search
func (s *Server) SearchUsers(c *fiber.Ctx) error {
	params := parsePageParams(c, 10)

	var isVerified *bool
	if raw := c.Query("isVerified"); raw != "" {
		v := raw == "true"
		isVerified = &v
	}

	users, total, err := s.userService.SearchUsers(c.Context(), service.SearchUsersInput{
		SearchTerm: c.Query("searchTerm"),
		Role:       c.Query("role"),
		IsVerified: isVerified,
		Page:       params.Page,
		Limit:      params.Limit,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"message":    "Recherche effectuée",
		"users":      users,
		"totalUsers": total,
	})
}

// GetVerifiedUsers handles GET /api/users/verified
func (s *Server) GetVerifiedUsers(c *fiber.Ctx) error {
	users, err := s.userService.ListVerified(c.Context(), true)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Utilisateurs vérifiés récupérés",
		"users":   users,
	})
}

// GetUnverifiedUsers handles GET /api/users/unverified
func (s *Server) GetUnverifiedUsers(c *fiber.Ctx) error {
	users, err := s.userService.ListVerified(c.Context(), false)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Utilisateurs non vérifiés récupérés",
		"users":   users,
	})
}

// GetUsersByRole handles GET /api/users/role/:role. Asking for the admin
// list is refused.
func (s *Server) GetUsersByRole(c *fiber.Ctx) error {
	role := c.Params("role")

	users, err := s.userService.ListByRole(c.Context(), role)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Utilisateurs avec le rôle " + role + " récupérés",
		"users":   users,
	})
}

// GetUserByID handles GET /api/users/:id
func (s *Server) GetUserByID(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	user, err := s.userService.GetUser(c.Context(), id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Utilisateur récupéré",
		"user":    user,
	})
}

// UpdateUser handles PUT /api/users/:id
func (s *Server) UpdateUser(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Name        string `json:"name"`
		Alias       string `json:"alias"`
		Email       string `json:"email"`
		DateOfBirth string `json:"dateOfBirth"`
		Address     string `json:"address"`
		Role        string `json:"role"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Corps de requête invalide"))
	}

	dob, _ := parseDate(req.DateOfBirth)

	user, err := s.userService.UpdateUser(c.Context(), service.UpdateUserInput{
		TargetID:    id,
		Name:        req.Name,
		Alias:       req.Alias,
		Email:       req.Email,
		DateOfBirth: dob,
		Address:     req.Address,
		Role:        req.Role,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Utilisateur mis à jour avec succès",
		"user":    user,
	})
}

// DeleteUser handles DELETE /api/users/:id
func (s *Server) DeleteUser(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.userService.DeleteUser(c.Context(), currentUserID(c), id); err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Utilisateur supprimé avec succès",
	})
}
