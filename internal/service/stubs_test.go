package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"ideabox/internal/models"
	"ideabox/internal/repository"

	"github.com/stretchr/testify/require"
)

// userRepoStub implements repository.UserRepository with overridable funcs.
type userRepoStub struct {
	getByIDFn          func(ctx context.Context, id uint) (*models.User, error)
	getByEmailFn       func(ctx context.Context, email string) (*models.User, error)
	getByAliasFn       func(ctx context.Context, alias string) (*models.User, error)
	createFn           func(ctx context.Context, user *models.User) error
	updateFn           func(ctx context.Context, user *models.User) error
	deleteFn           func(ctx context.Context, id uint) error
	listNonAdminsFn    func(ctx context.Context) ([]models.User, error)
	searchFn           func(ctx context.Context, filter repository.UserFilter) ([]models.User, int64, error)
	statsFn            func(ctx context.Context) (*repository.UserStats, error)
	countActiveSinceFn func(ctx context.Context, since time.Time) (int64, error)
	activityLogFn      func(ctx context.Context, limit int) ([]models.User, error)
	bulkDeleteFn       func(ctx context.Context, ids []uint) (int64, error)
	emailTakenFn       func(ctx context.Context, email string, excludeID uint) (bool, error)
	aliasTakenFn       func(ctx context.Context, alias string, excludeID uint) (bool, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByAlias(ctx context.Context, alias string) (*models.User, error) {
	return s.getByAliasFn(ctx, alias)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *userRepoStub) ListNonAdmins(ctx context.Context) ([]models.User, error) {
	return s.listNonAdminsFn(ctx)
}
func (s *userRepoStub) Search(ctx context.Context, filter repository.UserFilter) ([]models.User, int64, error) {
	return s.searchFn(ctx, filter)
}
func (s *userRepoStub) Stats(ctx context.Context) (*repository.UserStats, error) {
	return s.statsFn(ctx)
}
func (s *userRepoStub) CountActiveSince(ctx context.Context, since time.Time) (int64, error) {
	return s.countActiveSinceFn(ctx, since)
}
func (s *userRepoStub) ActivityLog(ctx context.Context, limit int) ([]models.User, error) {
	return s.activityLogFn(ctx, limit)
}
func (s *userRepoStub) BulkDelete(ctx context.Context, ids []uint) (int64, error) {
	return s.bulkDeleteFn(ctx, ids)
}
func (s *userRepoStub) EmailTaken(ctx context.Context, email string, excludeID uint) (bool, error) {
	return s.emailTakenFn(ctx, email, excludeID)
}
func (s *userRepoStub) AliasTaken(ctx context.Context, alias string, excludeID uint) (bool, error) {
	return s.aliasTakenFn(ctx, alias, excludeID)
}

// noopUserRepo returns a stub whose every method succeeds with zero values.
func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id}, nil
		},
		getByEmailFn: func(context.Context, string) (*models.User, error) { return nil, nil },
		getByAliasFn: func(context.Context, string) (*models.User, error) { return nil, nil },
		createFn:     func(context.Context, *models.User) error { return nil },
		updateFn:     func(context.Context, *models.User) error { return nil },
		deleteFn:     func(context.Context, uint) error { return nil },
		listNonAdminsFn: func(context.Context) ([]models.User, error) {
			return nil, nil
		},
		searchFn: func(context.Context, repository.UserFilter) ([]models.User, int64, error) {
			return nil, 0, nil
		},
		statsFn: func(context.Context) (*repository.UserStats, error) {
			return &repository.UserStats{}, nil
		},
		countActiveSinceFn: func(context.Context, time.Time) (int64, error) { return 0, nil },
		activityLogFn:      func(context.Context, int) ([]models.User, error) { return nil, nil },
		bulkDeleteFn:       func(_ context.Context, ids []uint) (int64, error) { return int64(len(ids)), nil },
		emailTakenFn:       func(context.Context, string, uint) (bool, error) { return false, nil },
		aliasTakenFn:       func(context.Context, string, uint) (bool, error) { return false, nil },
	}
}

// ideaRepoStub implements repository.IdeaRepository with overridable funcs.
type ideaRepoStub struct {
	createFn         func(ctx context.Context, idea *models.Idea) error
	getByIDFn        func(ctx context.Context, id uint) (*models.Idea, error)
	listFn           func(ctx context.Context) ([]models.Idea, error)
	listWithLikersFn func(ctx context.Context) ([]models.Idea, error)
	updateFn         func(ctx context.Context, idea *models.Idea) error
	deleteFn         func(ctx context.Context, id uint) error
	toggleLikeFn     func(ctx context.Context, ideaID, userID uint) (bool, *models.Idea, error)
	statsFn          func(ctx context.Context, monthStart time.Time) (*repository.IdeaStats, error)
}

func (s *ideaRepoStub) Create(ctx context.Context, idea *models.Idea) error {
	return s.createFn(ctx, idea)
}
func (s *ideaRepoStub) GetByID(ctx context.Context, id uint) (*models.Idea, error) {
	return s.getByIDFn(ctx, id)
}
func (s *ideaRepoStub) List(ctx context.Context) ([]models.Idea, error) {
	return s.listFn(ctx)
}
func (s *ideaRepoStub) ListWithLikers(ctx context.Context) ([]models.Idea, error) {
	return s.listWithLikersFn(ctx)
}
func (s *ideaRepoStub) Update(ctx context.Context, idea *models.Idea) error {
	return s.updateFn(ctx, idea)
}
func (s *ideaRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *ideaRepoStub) ToggleLike(ctx context.Context, ideaID, userID uint) (bool, *models.Idea, error) {
	return s.toggleLikeFn(ctx, ideaID, userID)
}
func (s *ideaRepoStub) Stats(ctx context.Context, monthStart time.Time) (*repository.IdeaStats, error) {
	return s.statsFn(ctx, monthStart)
}

func noopIdeaRepo() *ideaRepoStub {
	return &ideaRepoStub{
		createFn: func(context.Context, *models.Idea) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Idea, error) {
			return &models.Idea{ID: id}, nil
		},
		listFn:           func(context.Context) ([]models.Idea, error) { return nil, nil },
		listWithLikersFn: func(context.Context) ([]models.Idea, error) { return nil, nil },
		updateFn:         func(context.Context, *models.Idea) error { return nil },
		deleteFn:         func(context.Context, uint) error { return nil },
		toggleLikeFn: func(_ context.Context, ideaID, _ uint) (bool, *models.Idea, error) {
			return true, &models.Idea{ID: ideaID, LikesCount: 1}, nil
		},
		statsFn: func(context.Context, time.Time) (*repository.IdeaStats, error) {
			return &repository.IdeaStats{}, nil
		},
	}
}

func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %v", err)
	require.Equal(t, code, appErr.Code)
}
