package auth

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	authsvc "clientdir-backend/internal/application/auth"
	"clientdir-backend/internal/domain"
	"clientdir-backend/internal/middleware"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeUserFinder returns the configured user when the password matches.
type fakeUserFinder struct {
	user *domain.User
	err  error
}

func (f *fakeUserFinder) FindByEmailAndPassword(email, password string) (*domain.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.user != nil && f.user.Email == email && password == "password123" {
		return f.user, nil
	}
	if f.user != nil && f.user.Email == email {
		return nil, authsvc.ErrIncorrectPassword
	}
	return nil, authsvc.ErrInvalidEmail
}

func setupAuthHandlers(t *testing.T, finder authsvc.UserFinder) (*Handlers, *redis.Client) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		rdb.Close()
		mr.Close()
	})
	h := &Handlers{
		UserFinder: finder,
		Rdb:        rdb,
		Config: middleware.SessionConfig{
			AllowCrossSiteDev: false,
			IsProduction:      false,
		},
	}
	return h, rdb
}

func TestLogin_EmptyBody(t *testing.T) {
	h, _ := setupAuthHandlers(t, &fakeUserFinder{user: &domain.User{}})
	app := fiber.New()
	app.Post("/login", h.Login)

	req := httptest.NewRequest("POST", "/login", nil)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestLogin_MissingCredentials(t *testing.T) {
	h, _ := setupAuthHandlers(t, &fakeUserFinder{})
	app := fiber.New()
	app.Post("/login", h.Login)

	body, _ := json.Marshal(map[string]string{"email": "a@b.com"})
	req := httptest.NewRequest("POST", "/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestLogin_InvalidEmail(t *testing.T) {
	h, _ := setupAuthHandlers(t, &fakeUserFinder{})
	app := fiber.New()
	app.Post("/login", h.Login)

	body, _ := json.Marshal(map[string]string{"email": "nobody@example.com", "password": "password123"})
	req := httptest.NewRequest("POST", "/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestLogin_WrongPassword(t *testing.T) {
	user := &domain.User{UserID: uuid.New(), Email: "admin@example.com", FullName: "Admin", Role: "admin", IsActive: true}
	h, _ := setupAuthHandlers(t, &fakeUserFinder{user: user})
	app := fiber.New()
	app.Post("/login", h.Login)

	body, _ := json.Marshal(map[string]string{"email": "admin@example.com", "password": "wrong"})
	req := httptest.NewRequest("POST", "/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

// TestLogin_Success sets the session cookie and returns the user payload.
func TestLogin_Success(t *testing.T) {
	user := &domain.User{UserID: uuid.New(), Email: "admin@example.com", FullName: "Admin", Role: "admin", IsActive: true}
	h, _ := setupAuthHandlers(t, &fakeUserFinder{user: user})
	app := fiber.New()
	app.Post("/login", h.Login)

	body, _ := json.Marshal(map[string]string{"email": "admin@example.com", "password": "password123"})
	req := httptest.NewRequest("POST", "/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var sawCookie bool
	for _, c := range resp.Cookies() {
		if c.Name == middleware.SessionCookieName && c.Value != "" {
			sawCookie = true
		}
	}
	assert.True(t, sawCookie, "session cookie should be set")

	raw, _ := io.ReadAll(resp.Body)
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	data := decoded["data"].(map[string]interface{})
	got := data["user"].(map[string]interface{})
	assert.Equal(t, user.Email, got["email"])
	assert.Equal(t, user.UserID.String(), got["user_id"])
}

func TestMe_NotAuthenticated(t *testing.T) {
	h, _ := setupAuthHandlers(t, &fakeUserFinder{})
	app := fiber.New()
	app.Get("/me", h.Me)

	req := httptest.NewRequest("GET", "/me", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestMe_Authenticated(t *testing.T) {
	h, _ := setupAuthHandlers(t, &fakeUserFinder{})
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user", map[string]interface{}{
			"user_id":   uuid.New().String(),
			"full_name": "Admin",
			"email":     "admin@example.com",
			"role":      "admin",
		})
		return c.Next()
	})
	app.Get("/me", h.Me)

	req := httptest.NewRequest("GET", "/me", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

// TestLogout_ClearsCookie expires the session cookie even without a session.
func TestLogout_ClearsCookie(t *testing.T) {
	h, _ := setupAuthHandlers(t, &fakeUserFinder{})
	app := fiber.New()
	app.Delete("/logout", h.Logout)

	req := httptest.NewRequest("DELETE", "/logout", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var cleared bool
	for _, c := range resp.Cookies() {
		if c.Name == middleware.SessionCookieName && c.Value == "" {
			cleared = true
		}
	}
	assert.True(t, cleared, "session cookie should be cleared")
}
