package service

import (
	"context"
	"strings"

	"ideabox/internal/models"
	"ideabox/internal/repository"
	"ideabox/internal/validation"
)

// IdeaService implements the idea feed, authoring and like toggles.
type IdeaService struct {
	ideaRepo repository.IdeaRepository
}

type CreateIdeaInput struct {
	AuthorID uint
	Text     string
	Image    string
}

type UpdateIdeaInput struct {
	UserID uint
	IdeaID uint
	Text   *string
	Image  *string
}

func NewIdeaService(ideaRepo repository.IdeaRepository) *IdeaService {
	return &IdeaService{ideaRepo: ideaRepo}
}

func (s *IdeaService) ListIdeas(ctx context.Context) ([]models.Idea, error) {
	return s.ideaRepo.List(ctx)
}

func (s *IdeaService) CreateIdea(ctx context.Context, in CreateIdeaInput) (*models.Idea, error) {
	if err := validation.ValidateIdeaText(in.Text, models.IdeaTextMinLen, models.IdeaTextMaxLen); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	idea := &models.Idea{
		Text:     strings.TrimSpace(in.Text),
		Image:    in.Image,
		AuthorID: in.AuthorID,
	}
	if err := s.ideaRepo.Create(ctx, idea); err != nil {
		return nil, err
	}
	return idea, nil
}

// UpdateIdea applies the supplied fields to the caller's own idea. Text and
// image are independent: a nil pointer leaves the field alone, so the image
// can be cleared without touching the text.
func (s *IdeaService) UpdateIdea(ctx context.Context, in UpdateIdeaInput) (*models.Idea, error) {
	idea, err := s.ideaRepo.GetByID(ctx, in.IdeaID)
	if err != nil {
		return nil, err
	}
	if idea.AuthorID != in.UserID {
		return nil, models.NewForbiddenError("Vous ne pouvez pas modifier cette idée")
	}

	if in.Text != nil {
		if err := validation.ValidateIdeaText(*in.Text, models.IdeaTextMinLen, models.IdeaTextMaxLen); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		idea.Text = strings.TrimSpace(*in.Text)
	}
	if in.Image != nil {
		idea.Image = *in.Image
	}

	if err := s.ideaRepo.Update(ctx, idea); err != nil {
		return nil, err
	}
	return idea, nil
}

func (s *IdeaService) DeleteIdea(ctx context.Context, userID, ideaID uint) error {
	idea, err := s.ideaRepo.GetByID(ctx, ideaID)
	if err != nil {
		return err
	}
	if idea.AuthorID != userID {
		return models.NewForbiddenError("Vous ne pouvez pas supprimer cette idée")
	}
	return s.ideaRepo.Delete(ctx, ideaID)
}

// ToggleLike flips the caller's like on the idea and returns the new state
// together with the refreshed idea.
func (s *IdeaService) ToggleLike(ctx context.Context, userID, ideaID uint) (bool, *models.Idea, error) {
	return s.ideaRepo.ToggleLike(ctx, ideaID, userID)
}
