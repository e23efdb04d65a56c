package fiber

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"site-analytics-service/internal/auth/core/domain"
)

const principalLocal = "principal"

// RequirePrincipal resolves the session cookie to a live account and stores
// the principal in request locals. Requests without a valid session are
// rejected before any scoping logic runs.
func (h *AuthHandler) RequirePrincipal(c *fiber.Ctx) error {
	token := c.Cookies(SessionCookie)
	if token == "" {
		return unauthenticated(c)
	}

	id, err := h.tokens.Verify(token)
	if err != nil {
		return unauthenticated(c)
	}

	p, err := h.uc.PrincipalByID(c.UserContext(), id)
	if err != nil {
		return unauthenticated(c)
	}

	c.Locals(principalLocal, p)
	return c.Next()
}

// PrincipalFromCtx returns the principal stored by RequirePrincipal.
func PrincipalFromCtx(c *fiber.Ctx) (*domain.Principal, bool) {
	p, ok := c.Locals(principalLocal).(*domain.Principal)
	return p, ok
}

func unauthenticated(c *fiber.Ctx) error {
	return c.Status(http.StatusUnauthorized).JSON(ErrorResponse{
		Error: "unauthenticated",
	})
}
