package handler

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"identity-hub/internal/domain"
	"identity-hub/internal/usecase"
	"identity-hub/middleware"

	"github.com/labstack/echo/v4"
)

// AuthHandler serves the token lifecycle endpoints: login, logout and
// refresh.
type AuthHandler struct {
	login   *usecase.Login
	logout  *usecase.Logout
	refresh *usecase.Refresh
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(login *usecase.Login, logout *usecase.Logout, refresh *usecase.Refresh) *AuthHandler {
	return &AuthHandler{login: login, logout: logout, refresh: refresh}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// tokenBody carries the refresh half of a pair; the access half travels in
// the Authorization and JWT-Expire response headers.
type tokenBody struct {
	RefreshToken  string    `json:"refreshToken"`
	RefreshExpire time.Time `json:"refreshExpire"`
}

// HandleLogin processes POST /members/login.
func (h *AuthHandler) HandleLogin(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	pair, err := h.login.Execute(ctx, req.Email, req.Password)
	if err != nil {
		slog.InfoContext(ctx, "login rejected", "remote_addr", c.RealIP())
		return mapDomainError(err)
	}

	applyTokenHeaders(c, pair)
	return c.JSON(http.StatusOK, tokenBody{
		RefreshToken:  pair.RefreshToken,
		RefreshExpire: pair.RefreshExpiry,
	})
}

// HandleLogout processes POST /auth/logout. The route is guarded, so a
// verified principal is always present.
func (h *AuthHandler) HandleLogout(c echo.Context) error {
	principal, ok := middleware.PrincipalFrom(c)
	if !ok {
		return mapDomainError(domain.ErrMissingCredential)
	}

	if err := h.logout.Execute(c.Request().Context(), principal); err != nil {
		return mapDomainError(err)
	}
	return c.NoContent(http.StatusOK)
}

// HandleRefresh processes POST /auth/refresh. The presented credential is
// the refresh token itself, not an access token, so the route is not behind
// the bearer interceptor.
func (h *AuthHandler) HandleRefresh(c echo.Context) error {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return mapDomainError(domain.ErrMissingCredential)
	}
	if !strings.HasPrefix(header, "Bearer ") {
		return mapDomainError(domain.ErrMalformedCredential)
	}

	pair, err := h.refresh.Execute(c.Request().Context(), strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		return mapDomainError(err)
	}

	applyTokenHeaders(c, pair)
	return c.JSON(http.StatusOK, tokenBody{
		RefreshToken:  pair.RefreshToken,
		RefreshExpire: pair.RefreshExpiry,
	})
}
