package handler

import (
	"log/slog"
	"net/http"

	"identity-hub/internal/domain"
	"identity-hub/internal/usecase"

	"github.com/labstack/echo/v4"
)

// FederationHandler serves POST /members/login/google.
type FederationHandler struct {
	federated *usecase.FederatedLogin
}

// NewFederationHandler creates a new federation handler.
func NewFederationHandler(federated *usecase.FederatedLogin) *FederationHandler {
	return &FederationHandler{federated: federated}
}

type federationRequest struct {
	Code string `json:"code" validate:"required"`
}

// federationResponse distinguishes the two valid terminals of a federated
// login: a matched account answers tokens, an unmatched one answers the
// provider profile so the client can drive registration.
type federationResponse struct {
	Matched bool                     `json:"matched"`
	Tokens  *tokenBody               `json:"tokens,omitempty"`
	Profile *domain.FederatedProfile `json:"profile,omitempty"`
}

// HandleGoogleLogin exchanges the authorization code and either issues a
// pair or hands the profile back.
func (h *FederationHandler) HandleGoogleLogin(c echo.Context) error {
	var req federationRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	result, err := h.federated.Execute(ctx, req.Code)
	if err != nil {
		slog.WarnContext(ctx, "federated login failed", "provider", "google", "error", err)
		return mapDomainError(err)
	}

	if !result.Matched {
		return c.JSON(http.StatusOK, federationResponse{
			Matched: false,
			Profile: result.Profile,
		})
	}

	applyTokenHeaders(c, result.Tokens)
	return c.JSON(http.StatusOK, federationResponse{
		Matched: true,
		Tokens: &tokenBody{
			RefreshToken:  result.Tokens.RefreshToken,
			RefreshExpire: result.Tokens.RefreshExpiry,
		},
	})
}
