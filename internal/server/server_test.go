package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ideabox/internal/config"
	"ideabox/internal/database"
	"ideabox/internal/featureflags"
	"ideabox/internal/models"
	"ideabox/internal/repository"
	"ideabox/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newTestServer wires a Server onto an in-memory SQLite database. The struct
// is assembled by hand so the Prometheus middleware (whose collectors can
// only be registered once per process) stays out of the test app.
func newTestServer(t *testing.T) (*Server, *fiber.App) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{
		Env:       "development",
		JWTSecret: "test-secret-at-least-32-characters!!",
	}
	userRepo := repository.NewUserRepository(db)
	ideaRepo := repository.NewIdeaRepository(db)

	s := &Server{
		config:       cfg,
		db:           db,
		userRepo:     userRepo,
		ideaRepo:     ideaRepo,
		featureFlags: featureflags.NewManager("new_feed=on,beta_search=50%"),
		authService:  service.NewAuthService(userRepo),
		ideaService:  service.NewIdeaService(ideaRepo),
		userService:  service.NewUserService(userRepo),
		adminService: service.NewAdminService(userRepo, ideaRepo),
	}

	app := fiber.New()
	s.SetupRoutes(app)
	return s, app
}

// seedUser inserts an account with a real bcrypt hash for "password123".
func seedUser(t *testing.T, s *Server, alias string, role models.Role) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{
		Name:        "Test " + alias,
		Alias:       alias,
		Email:       alias + "@x.com",
		DateOfBirth: time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
		Address:     "1 rue du Test",
		Password:    string(hash),
		Role:        role,
	}
	require.NoError(t, s.db.Create(user).Error)
	return user
}

// sessionCookie returns a valid session cookie header value for the user.
func sessionCookie(t *testing.T, s *Server, userID uint) string {
	t.Helper()
	token, err := s.generateToken(userID)
	require.NoError(t, err)
	return sessionCookieName + "=" + token
}

// forgeToken signs arbitrary claims with the given secret.
func forgeToken(t *testing.T, secret string, claims map[string]any) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims(claims))
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

type reqOpts struct {
	cookie string
	bearer string
}

func doJSON(t *testing.T, app *fiber.App, method, target string, body any, opts reqOpts) *http.Response {
	t.Helper()
	var buf io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if opts.cookie != "" {
		req.Header.Set("Cookie", opts.cookie)
	}
	if opts.bearer != "" {
		req.Header.Set("Authorization", "Bearer "+opts.bearer)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestAuthRequired(t *testing.T) {
	s, app := newTestServer(t)
	user := seedUser(t, s, "alice", models.RoleUser)

	t.Run("missing token", func(t *testing.T) {
		resp := doJSON(t, app, "GET", "/api/users/profile", nil, reqOpts{})
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		body := decodeBody(t, resp)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "Authentification requise", body["message"])
	})

	t.Run("session cookie accepted", func(t *testing.T) {
		resp := doJSON(t, app, "GET", "/api/users/profile", nil,
			reqOpts{cookie: sessionCookie(t, s, user.ID)})
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("bearer fallback accepted", func(t *testing.T) {
		token, err := s.generateToken(user.ID)
		require.NoError(t, err)
		resp := doJSON(t, app, "GET", "/api/users/profile", nil, reqOpts{bearer: token})
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		resp := doJSON(t, app, "GET", "/api/users/profile", nil,
			reqOpts{cookie: sessionCookieName + "=not-a-jwt"})
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		body := decodeBody(t, resp)
		assert.Equal(t, "Session invalide ou expirée", body["message"])
	})

	t.Run("foreign issuer rejected", func(t *testing.T) {
		// Same secret, wrong issuer claim.
		forged := forgeToken(t, s.config.JWTSecret, map[string]any{
			"sub": "1", "iss": "someone-else", "aud": tokenAudience,
			"exp": time.Now().Add(time.Hour).Unix(),
		})
		resp := doJSON(t, app, "GET", "/api/users/profile", nil, reqOpts{bearer: forged})
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("expired token rejected", func(t *testing.T) {
		forged := forgeToken(t, s.config.JWTSecret, map[string]any{
			"sub": "1", "iss": tokenIssuer, "aud": tokenAudience,
			"exp": time.Now().Add(-time.Hour).Unix(),
		})
		resp := doJSON(t, app, "GET", "/api/users/profile", nil, reqOpts{bearer: forged})
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})
}

func TestAdminRequired(t *testing.T) {
	s, app := newTestServer(t)
	admin := seedUser(t, s, "boss", models.RoleAdmin)
	regular := seedUser(t, s, "pleb", models.RoleUser)

	t.Run("admin passes", func(t *testing.T) {
		resp := doJSON(t, app, "GET", "/api/admin/dashboard-stats", nil,
			reqOpts{cookie: sessionCookie(t, s, admin.ID)})
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("non-admin gets 403", func(t *testing.T) {
		resp := doJSON(t, app, "GET", "/api/admin/dashboard-stats", nil,
			reqOpts{cookie: sessionCookie(t, s, regular.ID)})
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
		body := decodeBody(t, resp)
		assert.Equal(t, "Accès refusé. Seuls les administrateurs peuvent accéder à cette ressource.", body["message"])
	})

	t.Run("deleted account gets 404", func(t *testing.T) {
		ghost := seedUser(t, s, "ghost", models.RoleAdmin)
		cookie := sessionCookie(t, s, ghost.ID)
		require.NoError(t, s.db.Delete(&models.User{}, ghost.ID).Error)

		resp := doJSON(t, app, "GET", "/api/admin/dashboard-stats", nil, reqOpts{cookie: cookie})
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
		body := decodeBody(t, resp)
		assert.Equal(t, "Utilisateur non trouvé", body["message"])
	})
}

func TestHealthEndpoints(t *testing.T) {
	s, app := newTestServer(t)
	_ = s

	resp := doJSON(t, app, "GET", "/health/live", nil, reqOpts{})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Readiness with no redis reports degraded.
	resp = doJSON(t, app, "GET", "/health/ready", nil, reqOpts{})
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
	body := decodeBody(t, resp)
	checks := body["checks"].(map[string]any)
	assert.Equal(t, "healthy", checks["database"])
	assert.Equal(t, "unavailable", checks["redis"])
}
