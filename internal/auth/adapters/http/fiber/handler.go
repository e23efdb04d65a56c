package fiber

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"site-analytics-service/internal/auth/core/domain"
	"site-analytics-service/internal/auth/core/usecase"
	"site-analytics-service/internal/security"
)

// SessionCookie is the name of the httponly cookie carrying the session token.
const SessionCookie = "session_token"

type AuthUseCase interface {
	Register(ctx context.Context, username, password string) (*domain.Principal, error)
	Login(ctx context.Context, username, password string) (*domain.Principal, error)
	PrincipalByID(ctx context.Context, id int64) (*domain.Principal, error)
}

type AuthHandler struct {
	uc     AuthUseCase
	tokens *security.SessionTokens
}

func NewAuthHandler(uc AuthUseCase, tokens *security.SessionTokens) *AuthHandler {
	return &AuthHandler{uc: uc, tokens: tokens}
}

// Register godoc
// @Summary Register an account
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Credentials"
// @Success 201 {object} PrincipalResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid_json",
		})
	}

	p, err := h.uc.Register(c.UserContext(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidRegistration):
			return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
				Error:   "invalid_registration",
				Message: err.Error(),
			})
		case errors.Is(err, usecase.ErrUsernameTaken):
			return c.Status(http.StatusConflict).JSON(ErrorResponse{
				Error: "username_taken",
			})
		default:
			return c.Status(http.StatusServiceUnavailable).JSON(ErrorResponse{
				Error: "unavailable",
			})
		}
	}

	return c.Status(http.StatusCreated).JSON(PrincipalResponse{
		ID:       p.ID,
		Username: p.Username,
	})
}

// Login godoc
// @Summary Log in and receive a session cookie
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} PrincipalResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid_json",
		})
	}

	p, err := h.uc.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidCredentials):
			return c.Status(http.StatusUnauthorized).JSON(ErrorResponse{
				Error: "invalid_credentials",
			})
		default:
			return c.Status(http.StatusServiceUnavailable).JSON(ErrorResponse{
				Error: "unavailable",
			})
		}
	}

	token, expiresAt, err := h.tokens.Issue(p.ID, time.Now().UTC())
	if err != nil {
		return c.Status(http.StatusServiceUnavailable).JSON(ErrorResponse{
			Error: "unavailable",
		})
	}

	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Expires:  expiresAt,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return c.Status(http.StatusOK).JSON(PrincipalResponse{
		ID:       p.ID,
		Username: p.Username,
	})
}

// Logout godoc
// @Summary Clear the session cookie
// @Tags Auth
// @Produce json
// @Success 200 {object} MessageResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.Status(http.StatusOK).JSON(MessageResponse{Message: "logged out"})
}

// Me godoc
// @Summary Current principal
// @Tags Auth
// @Produce json
// @Success 200 {object} PrincipalResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	p, ok := PrincipalFromCtx(c)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(ErrorResponse{
			Error: "unauthenticated",
		})
	}
	return c.Status(http.StatusOK).JSON(PrincipalResponse{
		ID:       p.ID,
		Username: p.Username,
	})
}
