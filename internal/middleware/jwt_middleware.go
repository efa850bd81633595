package middleware

import (
	"log"
	"strings"

	"lapak/internal/models"
	"lapak/internal/services"

	"github.com/gofiber/fiber/v2"
)

// PrincipalKey is the Locals key under which the resolved principal is stored.
const PrincipalKey = "principal"

// Principal returns the authenticated user attached to the request, or nil.
func Principal(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(PrincipalKey).(*models.User)
	return user
}

// AuthRequired is a Fiber middleware that rejects requests without a valid
// bearer token and attaches the resolved principal to the context.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := resolvePrincipal(c, authService)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": err.Error(),
			})
		}
		c.Locals(PrincipalKey, user)
		return c.Next()
	}
}

// AuthOptional attaches the principal when a valid bearer token is present
// and continues regardless. The public list path (?username=) relies on it.
func AuthOptional(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if user, err := resolvePrincipal(c, authService); err == nil {
			c.Locals(PrincipalKey, user)
		}
		return c.Next()
	}
}

func resolvePrincipal(c *fiber.Ctx, authService *services.AuthService) (*models.User, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Authorization header is required")
	}

	// Expected format: "Bearer <token>"
	parts := strings.SplitN(authHeader, " ", 2)
	if !(len(parts) == 2 && parts[0] == "Bearer") {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Authorization header format must be 'Bearer <token>'")
	}

	claims, err := authService.ValidateToken(parts[1])
	if err != nil {
		log.Printf("JWT validation failed: %v", err)
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid or expired token")
	}

	user, err := authService.CurrentUser(claims)
	if err != nil {
		log.Printf("Failed to resolve principal from token: %v", err)
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid or expired token")
	}
	return user, nil
}
