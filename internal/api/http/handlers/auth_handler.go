package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/davydocsurg/techinnover-ecommerce-api/internal/api/dto"
	"github.com/davydocsurg/techinnover-ecommerce-api/internal/auth"
	"github.com/davydocsurg/techinnover-ecommerce-api/internal/service"
)

// AuthHandler exposes registration and session endpoints.
type AuthHandler struct {
	auth    *service.AuthService
	cookies *auth.CookieWriter
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, cookies *auth.CookieWriter) *AuthHandler {
	return &AuthHandler{auth: authService, cookies: cookies}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	result, err := h.auth.Register(c.UserContext(), req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}
	h.cookies.Set(c, result.Tokens)
	return respond(c, http.StatusCreated, "User registered successfully", authResponse(result))
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	result, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	h.cookies.Set(c, result.Tokens)
	return respond(c, http.StatusOK, "Logged in successfully", authResponse(result))
}

// Refresh handles POST /auth/refresh.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	identity, _ := auth.IdentityFromContext(c)
	tokens, err := h.auth.Refresh(c.UserContext(), identity)
	if err != nil {
		return err
	}
	h.cookies.Set(c, tokens)
	return respond(c, http.StatusOK, "Tokens refreshed successfully", nil)
}

// Logout handles POST /auth/logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.auth.Logout(c.UserContext()); err != nil {
		return err
	}
	h.cookies.Clear(c)
	return respond(c, http.StatusOK, "Logged out successfully", nil)
}

func authResponse(result *service.AuthResult) dto.AuthResponse {
	return dto.AuthResponse{
		User:         dto.NewUserResponse(result.User),
		AccessToken:  result.Tokens.AccessToken,
		RefreshToken: result.Tokens.RefreshToken,
	}
}
