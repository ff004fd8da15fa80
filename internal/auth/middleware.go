package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/shop-directory/internal/docstore"
	"github.com/spec-kit/shop-directory/internal/repository"
	apperrors "github.com/spec-kit/shop-directory/pkg/util/errorutil"
)

const principalKey = "auth_principal"

// Principal represents the authenticated shop owner.
type Principal struct {
	UserID string
	Email  string
}

// AuthMiddleware validates bearer tokens and loads principals.
// A disabled middleware lets every request through without a principal.
type AuthMiddleware struct {
	enabled bool
	tokens  *TokenManager
	users   repository.UserRepository
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(enabled bool, tokens *TokenManager, users repository.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{enabled: enabled, tokens: tokens, users: users}
}

// Enabled reports whether tokens are required.
func (m *AuthMiddleware) Enabled() bool {
	return m != nil && m.enabled
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	if !m.Enabled() {
		return c.Next()
	}

	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	user, err := m.users.GetByEmail(c.UserContext(), claims.Email)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return apperrors.NewUnauthorized("user not found")
		}
		return apperrors.MapError(err)
	}
	if user.ID != claims.Subject {
		return apperrors.NewUnauthorized("invalid token subject")
	}

	c.Locals(principalKey, &Principal{UserID: user.ID, Email: user.Email})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated owner, if any.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
