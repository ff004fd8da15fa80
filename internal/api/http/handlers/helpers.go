package handlers

import (
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/shop-directory/internal/auth"
	"github.com/spec-kit/shop-directory/internal/service"
	apperrors "github.com/spec-kit/shop-directory/pkg/util/errorutil"
)

// actorFrom returns the authenticated owner, or nil when auth is disabled.
func actorFrom(c *fiber.Ctx) *service.Actor {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal == nil {
		return nil
	}
	return &service.Actor{Email: principal.Email}
}

func pathParam(c *fiber.Ctx, name string) (string, error) {
	v := c.Params(name)
	if unescaped, err := url.PathUnescape(v); err == nil {
		v = unescaped
	}
	v = strings.TrimSpace(v)
	if v == "" {
		return "", apperrors.NewValidationError(name+" is required", nil)
	}
	return v, nil
}
