package middleware

import (
	"strings"

	"github.com/Wiseramand/ce-angola-app-sub000/internal/model"
	"github.com/Wiseramand/ce-angola-app-sub000/internal/service"

	"github.com/gofiber/fiber/v2"
)

// RequireAdmin gates the mutation endpoints on a server-side role check.
// The bearer credential is either the operator token or a member session
// token whose account carries the admin role.
func RequireAdmin(authSvc *service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(401).JSON(fiber.Map{"error": "missing authorization header"})
		}

		credential := strings.TrimPrefix(authHeader, "Bearer ")
		if credential == authHeader {
			return c.Status(401).JSON(fiber.Map{"error": "invalid authorization format"})
		}

		principal, err := authSvc.ResolvePrincipal(c.Context(), credential)
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": "invalid or expired token"})
		}
		if principal.Role != model.RoleAdmin {
			return c.Status(403).JSON(fiber.Map{"error": "admin role required"})
		}

		c.Locals("account_id", principal.ID)
		c.Locals("username", principal.Username)
		return c.Next()
	}
}
