package server

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"ideabox/internal/models"
	"ideabox/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetDashboardStats handles GET /api/admin/dashboard-stats
func (s *Server) GetDashboardStats(c *fiber.Ctx) error {
	stats, err := s.adminService.GetDashboardStats(c.Context())
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"stats":   stats,
	})
}

// GetActivityLog handles GET /api/admin/activity-log
func (s *Server) GetActivityLog(c *fiber.Ctx) error {
	users, err := s.adminService.GetActivityLog(c.Context())
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Logs d'activité récupérés",
		"users":   users,
	})
}

// AdminGetUsers handles GET /api/admin/users
func (s *Server) AdminGetUsers(c *fiber.Ctx) error {
	params := parsePageParams(c, 10)

	var isVerified *bool
	if raw := c.Query("isVerified"); raw != "" {
		v := raw == "true"
		isVerified = &v
	}

	users, pagination, err := s.adminService.ListUsers(c.Context(), service.ListUsersInput{
		Role:       c.Query("role"),
		IsVerified: isVerified,
		SearchTerm: c.Query("searchTerm"),
		SortBy:     c.Query("sortBy"),
		Page:       params.Page,
		Limit:      params.Limit,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"message":    "Utilisateurs récupérés",
		"users":      users,
		"pagination": pagination,
	})
}

// VerifyUser handles PUT /api/admin/verify-user/:id
func (s *Server) VerifyUser(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	user, err := s.adminService.VerifyUser(c.Context(), id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Utilisateur vérifié avec succès",
		"user":    user,
	})
}

// ChangeUserRole handles PUT /api/admin/change-role/:id
func (s *Server) ChangeUserRole(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Role string `json:"role"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Corps de requête invalide"))
	}

	user, err := s.adminService.ChangeRole(c.Context(), currentUserID(c), id, req.Role)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Rôle de l'utilisateur changé en " + req.Role,
		"user":    user,
	})
}

// exportDate renders a timestamp the way the dashboard displays it.
func exportDate(t time.Time) string {
	return t.Format("02/01/2006")
}

// ExportUsers handles GET /api/admin/export-users and streams every account
// as a CSV attachment.
func (s *Server) ExportUsers(c *fiber.Ctx) error {
	users, err := s.adminService.ExportUsers(c.Context())
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"Nom", "Alias", "Email", "Rôle", "Vérifié", "Date Inscription", "Dernière Connexion"})

	for _, u := range users {
		verified := "Non"
		if u.IsVerified {
			verified = "Oui"
		}
		lastLogin := "Jamais"
		if u.LastLogin != nil {
			lastLogin = exportDate(*u.LastLogin)
		}
		_ = w.Write([]string{
			u.Name,
			u.Alias,
			u.Email,
			string(u.Role),
			verified,
			exportDate(u.CreatedAt),
			lastLogin,
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename=users_export.csv`)
	return c.Send(buf.Bytes())
}

// BulkDeleteUsers handles DELETE /api/admin/bulk-delete
func (s *Server) BulkDeleteUsers(c *fiber.Ctx) error {
	var req struct {
		UserIDs []uint `json:"userIds"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Fournissez un tableau userIds non vide"))
	}

	deleted, err := s.adminService.BulkDelete(c.Context(), currentUserID(c), req.UserIDs)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":      true,
		"message":      fmt.Sprintf("%d utilisateur(s) supprimé(s)", deleted),
		"deletedCount": deleted,
	})
}

// AdminGetIdeas handles GET /api/admin/ideas. The moderation view includes
// each idea's full liker list.
func (s *Server) AdminGetIdeas(c *fiber.Ctx) error {
	ideas, err := s.adminService.ListIdeas(c.Context())
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"ideas":   ideas,
	})
}

// AdminDeleteIdea handles DELETE /api/admin/ideas/:id
func (s *Server) AdminDeleteIdea(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.adminService.DeleteIdea(c.Context(), id); err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Idée supprimée par l'administrateur",
	})
}

// GetFeatureFlags returns configured feature flags and their evaluated state
// for the current user.
func (s *Server) GetFeatureFlags(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(uint)

	if s.featureFlags == nil {
		return c.JSON(fiber.Map{
			"raw":       map[string]string{},
			"evaluated": map[string]bool{},
		})
	}

	return c.JSON(fiber.Map{
		"raw":       s.featureFlags.Raw(),
		"evaluated": s.featureFlags.Snapshot(userID),
	})
}
