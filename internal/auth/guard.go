package auth

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/FrigaaAbdou/show-backend/internal/apperror"
)

// RoleLookup resolves the current role of a subject. Implementations return
// an apperror NotFound when the subject no longer exists.
type RoleLookup interface {
	GetRole(ctx context.Context, id string) (Role, error)
}

// Guard authenticates requests and attaches a Principal.
type Guard struct {
	tokens *TokenService
	roles  RoleLookup
}

func NewGuard(tokens *TokenService, roles RoleLookup) *Guard {
	return &Guard{tokens: tokens, roles: roles}
}

// Handler is the fiber middleware form of the guard.
func (g *Guard) Handler(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return apperror.Message(c, fiber.StatusUnauthorized, "No token provided")
	}

	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperror.Message(c, fiber.StatusUnauthorized, "Invalid token format")
	}

	subject, err := g.tokens.Verify(parts[1])
	if err != nil {
		log.Debugf("auth: rejected token from %s: %v", c.IP(), err)
		return apperror.Message(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	role, err := g.roles.GetRole(c.UserContext(), subject)
	if err != nil {
		return apperror.Respond(c, err)
	}

	WithPrincipal(c, Principal{ID: subject, Role: role})
	return c.Next()
}
