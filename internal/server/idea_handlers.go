package server

import (
	"ideabox/internal/models"
	"ideabox/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetIdeas handles GET /api/ideas. Public; no session needed to browse.
func (s *Server) GetIdeas(c *fiber.Ctx) error {
	ideas, err := s.ideaService.ListIdeas(c.Context())
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"ideas":   ideas,
	})
}

// CreateIdea handles POST /api/ideas
func (s *Server) CreateIdea(c *fiber.Ctx) error {
	var req struct {
		Text  string `json:"text"`
		Image string `json:"image"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Corps de requête invalide"))
	}

	idea, err := s.ideaService.CreateIdea(c.Context(), service.CreateIdeaInput{
		AuthorID: currentUserID(c),
		Text:     req.Text,
		Image:    req.Image,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Idée publiée avec succès",
		"idea":    idea,
	})
}

// UpdateIdea handles PUT /api/ideas/:id. Text and image are independently
// optional; omitting a field leaves it untouched, while an explicit empty
// image clears it.
func (s *Server) UpdateIdea(c *fiber.Ctx) error {
	ideaID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Text  *string `json:"text"`
		Image *string `json:"image"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Corps de requête invalide"))
	}

	idea, err := s.ideaService.UpdateIdea(c.Context(), service.UpdateIdeaInput{
		UserID: currentUserID(c),
		IdeaID: ideaID,
		Text:   req.Text,
		Image:  req.Image,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Idée modifiée avec succès",
		"idea":    idea,
	})
}

// DeleteIdea handles DELETE /api/ideas/:id
func (s *Server) DeleteIdea(c *fiber.Ctx) error {
	ideaID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.ideaService.DeleteIdea(c.Context(), currentUserID(c), ideaID); err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Idée supprimée avec succès",
	})
}

// ToggleLike handles POST /api/ideas/:id/like
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	ideaID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	liked, idea, err := s.ideaService.ToggleLike(c.Context(), currentUserID(c), ideaID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"liked":      liked,
		"likesCount": idea.LikesCount,
		"idea":       idea,
	})
}
