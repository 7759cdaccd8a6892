package repository

import (
	"context"
	"testing"
	"time"

	"ideabox/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_Search_Filters(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	require.NoError(t, db.Model(alice).Update("is_verified", true).Error)
	createTestUser(t, db, "bob")
	admin := createTestUser(t, db, "root")
	require.NoError(t, db.Model(admin).Update("role", models.RoleAdmin).Error)

	t.Run("exclude admins", func(t *testing.T) {
		users, total, err := repo.Search(ctx, UserFilter{ExcludeAdmins: true})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		for _, u := range users {
			assert.NotEqual(t, models.RoleAdmin, u.Role)
		}
	})

	t.Run("verification filter", func(t *testing.T) {
		verified := true
		users, total, err := repo.Search(ctx, UserFilter{IsVerified: &verified})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, users, 1)
		assert.Equal(t, "alice", users[0].Alias)
	})

	t.Run("case-insensitive substring search", func(t *testing.T) {
		users, total, err := repo.Search(ctx, UserFilter{SearchTerm: "ALI"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, users, 1)
		assert.Equal(t, "alice", users[0].Alias)
	})

	t.Run("role filter", func(t *testing.T) {
		_, total, err := repo.Search(ctx, UserFilter{Role: string(models.RoleAdmin)})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
	})

	t.Run("pagination returns full total", func(t *testing.T) {
		users, total, err := repo.Search(ctx, UserFilter{Page: 2, Limit: 2})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, users, 1)
	})
}

func TestUserRepository_Search_SortByName(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	createTestUser(t, db, "zoe")
	createTestUser(t, db, "anna")

	users, _, err := repo.Search(context.Background(), UserFilter{SortBy: "name"})
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "anna", users[0].Alias)
}

func TestUserRepository_Stats(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	verifiedUser := createTestUser(t, db, "seen")
	require.NoError(t, db.Model(verifiedUser).Update("is_verified", true).Error)
	createTestUser(t, db, "unseen")
	admin := createTestUser(t, db, "root")
	require.NoError(t, db.Model(admin).Update("role", models.RoleAdmin).Error)

	stats, err := repo.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalUsers)
	assert.Equal(t, int64(1), stats.AdminCount)
	assert.Equal(t, int64(1), stats.VerifiedUsers)
	assert.Equal(t, int64(2), stats.UnverifiedUsers)
}

func TestUserRepository_BulkDelete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	a := createTestUser(t, db, "a1")
	b := createTestUser(t, db, "b2")
	keep := createTestUser(t, db, "keep")

	deleted, err := repo.BulkDelete(ctx, []uint{a.ID, b.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	var remaining int64
	require.NoError(t, db.Model(&models.User{}).Count(&remaining).Error)
	assert.Equal(t, int64(1), remaining)

	still, err := repo.GetByID(ctx, keep.ID)
	require.NoError(t, err)
	assert.Equal(t, "keep", still.Alias)

	// Empty input deletes nothing and does not error
	deleted, err = repo.BulkDelete(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, deleted)
}

func TestUserRepository_ActivityLog(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	never := createTestUser(t, db, "never")
	_ = never

	recent := createTestUser(t, db, "recent")
	now := time.Now()
	require.NoError(t, db.Model(recent).Update("last_login", now).Error)

	older := createTestUser(t, db, "older")
	require.NoError(t, db.Model(older).Update("last_login", now.Add(-time.Hour)).Error)

	users, err := repo.ActivityLog(context.Background(), 50)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "recent", users[0].Alias)
	assert.Equal(t, "older", users[1].Alias)
}

func TestUserRepository_EmailAndAliasTaken(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")

	taken, err := repo.EmailTaken(ctx, "ALICE@X.COM", 0)
	require.NoError(t, err)
	assert.True(t, taken)

	// The owner is excluded from the collision check
	taken, err = repo.EmailTaken(ctx, "alice@x.com", alice.ID)
	require.NoError(t, err)
	assert.False(t, taken)

	taken, err = repo.AliasTaken(ctx, "alice", 0)
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = repo.AliasTaken(ctx, "Alice", 0)
	require.NoError(t, err)
	assert.False(t, taken, "alias collisions are case-sensitive")
}
