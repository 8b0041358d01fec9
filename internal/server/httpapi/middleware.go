package httpapi

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/babalolajnr/todo-api/internal/common"
	"github.com/babalolajnr/todo-api/internal/server/auth"
)

const identityKey = "identity"

// requireIdentity resolves the caller from the Authorization header and
// stores the verified Identity in the request locals. The header may carry
// the raw token or use the "Bearer " scheme. Requests without a usable
// identity are rejected before the handler runs.
func (s *HTTPServer) requireIdentity(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return s.writeError(c, common.ErrUnauthorized)
	}

	tokenString := strings.TrimPrefix(header, "Bearer ")

	claims, err := auth.ParseToken(tokenString, s.jwtSecret)
	if err != nil {
		return s.writeError(c, err)
	}

	identity, err := claims.Identity()
	if err != nil {
		return s.writeError(c, err)
	}

	c.Locals(identityKey, identity)

	return c.Next()
}

// identityFromCtx returns the Identity stored by requireIdentity.
func identityFromCtx(c *fiber.Ctx) (*auth.Identity, error) {
	identity, ok := c.Locals(identityKey).(*auth.Identity)
	if !ok || identity == nil {
		return nil, common.ErrUnauthorized
	}
	return identity, nil
}
