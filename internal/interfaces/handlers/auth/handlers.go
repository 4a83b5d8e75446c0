package auth

import (
	"context"

	authsvc "clientdir-backend/internal/application/auth"
	"clientdir-backend/internal/middleware"
	"clientdir-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

const userSessionsPrefix = "user_sessions:"

// Handlers holds dependencies for auth endpoints.
type Handlers struct {
	UserFinder authsvc.UserFinder
	Rdb        *redis.Client
	Config     middleware.SessionConfig
}

// Login POST /api/v1/auth/login — authenticate, create session, set cookie.
func (h *Handlers) Login(c *fiber.Ctx) error {
	if h.UserFinder == nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	var req authsvc.LoginInput
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Email and password are required", fiber.StatusBadRequest, nil)
	}
	if req.Email == "" || req.Password == "" {
		return response.Error(c, "Email and password are required", fiber.StatusBadRequest, nil)
	}

	user, err := h.UserFinder.FindByEmailAndPassword(req.Email, req.Password)
	if err != nil {
		switch err {
		case authsvc.ErrEmailPasswordRequired:
			return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
		case authsvc.ErrInvalidEmail, authsvc.ErrIncorrectPassword, authsvc.ErrUserInactive:
			return response.Error(c, err.Error(), fiber.StatusUnauthorized, nil)
		default:
			return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
		}
	}

	sessionID := middleware.RegenerateSessionID(c)
	middleware.SetSessionUser(c, middleware.SessionUser{
		UserID:   user.UserID.String(),
		FullName: user.FullName,
		Email:    user.Email,
		Role:     user.Role,
	})

	if h.Rdb != nil {
		if err := h.Rdb.SAdd(context.Background(), userSessionsPrefix+user.UserID.String(), sessionID).Err(); err != nil {
			return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
		}
	}

	cookie := middleware.SessionCookieConfig(h.Config)
	cookie.Value = sessionID
	c.Cookie(&cookie)

	return response.Success(c, "Login successful", fiber.Map{
		"user": fiber.Map{
			"user_id":   user.UserID.String(),
			"full_name": user.FullName,
			"email":     user.Email,
			"role":      user.Role,
		},
	}, nil)
}

// Me GET /api/v1/auth/me — return the current session user.
func (h *Handlers) Me(c *fiber.Ctx) error {
	user, err := authsvc.VerifyUser(middleware.GetUser(c))
	if err != nil {
		return response.Error(c, "Not authenticated", fiber.StatusUnauthorized, nil)
	}
	return response.Success(c, "Authenticated", fiber.Map{"user": user}, nil)
}

// Logout DELETE /api/v1/auth/logout — drop the session and clear the cookie.
func (h *Handlers) Logout(c *fiber.Ctx) error {
	sessionID := middleware.GetSessionID(c)
	if sessionID != "" && h.Rdb != nil {
		ctx := context.Background()
		if m, ok := middleware.GetUser(c).(map[string]interface{}); ok {
			if userID, _ := m["user_id"].(string); userID != "" {
				_ = h.Rdb.SRem(ctx, userSessionsPrefix+userID, sessionID).Err()
			}
		}
		_ = h.Rdb.Del(ctx, middleware.SessionRedisPrefix+sessionID).Err()
	}
	middleware.DestroySession(c)
	c.Locals("session_id", "")

	cookie := middleware.SessionCookieConfig(h.Config)
	cookie.Value = ""
	cookie.MaxAge = -1
	c.Cookie(&cookie)

	return response.Success(c, "Logged out", nil, nil)
}
