package auth

import (
	"time"

	"jobmarket-backend/internal/config"
	"jobmarket-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

const (
	SessionCookie = "session"

	CtxUserIDKey   = "user_id"
	CtxUserRoleKey = "user_role"

	LoginPath = "/login"
)

// SessionMiddleware resolves the session cookie into c.Locals. Requests
// without a valid session continue anonymously; guards decide what to do.
func SessionMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Cookies(SessionCookie)
		if raw == "" {
			return c.Next()
		}

		claims, err := ParseToken(cfg.SessionSecret, raw)
		if err != nil {
			clearSessionCookie(c, cfg)
			return c.Next()
		}

		c.Locals(CtxUserIDKey, claims.UserID)
		c.Locals(CtxUserRoleKey, claims.Role)
		return c.Next()
	}
}

// CurrentUserID returns the authenticated user id.
func CurrentUserID(c *fiber.Ctx) (uint, bool) {
	id, ok := c.Locals(CtxUserIDKey).(uint)
	return id, ok && id != 0
}

func CurrentRole(c *fiber.Ctx) (models.UserRole, bool) {
	role, ok := c.Locals(CtxUserRoleKey).(models.UserRole)
	return role, ok && role.Valid()
}

func RequireLogin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := CurrentUserID(c); !ok {
			return denyToLogin(c, "Please log in first.")
		}
		return c.Next()
	}
}

func RequireBoss() fiber.Handler {
	return requireRole(models.RoleBoss, "Access denied. A Boss account is required.")
}

func RequireWorker() fiber.Handler {
	return requireRole(models.RoleWorker, "Access denied. A Worker account is required.")
}

func requireRole(want models.UserRole, notice string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		_, authed := CurrentUserID(c)
		role, ok := CurrentRole(c)
		if !authed || !ok || role != want {
			return denyToLogin(c, notice)
		}
		return c.Next()
	}
}

func denyToLogin(c *fiber.Ctx, notice string) error {
	SetFlash(c, "danger", notice)
	return c.Redirect(LoginPath, fiber.StatusSeeOther)
}

func setSessionCookie(c *fiber.Ctx, cfg *config.Config, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(cfg.SessionTTL),
		HTTPOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func clearSessionCookie(c *fiber.Ctx, cfg *config.Config) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
