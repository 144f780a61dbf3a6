package handler

import (
	"log/slog"
	"net/http"

	"identity-hub/internal/domain"
	"identity-hub/internal/usecase"
	"identity-hub/middleware"

	"github.com/labstack/echo/v4"
)

// AccountHandler serves registration and account maintenance endpoints.
type AccountHandler struct {
	signup     *usecase.Signup
	update     *usecase.UpdateAccount
	withdraw   *usecase.WithdrawAccount
	memberInfo *usecase.MemberInfo
}

// NewAccountHandler creates a new account handler.
func NewAccountHandler(signup *usecase.Signup, update *usecase.UpdateAccount, withdraw *usecase.WithdrawAccount, memberInfo *usecase.MemberInfo) *AccountHandler {
	return &AccountHandler{signup: signup, update: update, withdraw: withdraw, memberInfo: memberInfo}
}

type signupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required"`
	Phone    string `json:"phone"`
}

type signupResponse struct {
	UUID  string `json:"uuid"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// HandleSignup processes POST /members/signup.
func (h *AccountHandler) HandleSignup(c echo.Context) error {
	var req signupRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	result, err := h.signup.Execute(ctx, usecase.SignupInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Phone:    req.Phone,
	})
	if err != nil {
		return mapDomainError(err)
	}

	return c.JSON(http.StatusCreated, signupResponse{
		UUID:  result.UUID,
		Email: result.Email,
		Name:  result.Name,
	})
}

type checkEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// HandleCheckEmail processes POST /members/check/email. Availability is a
// plain answer, not an error: a taken email is 200 with available=false.
func (h *AccountHandler) HandleCheckEmail(c echo.Context) error {
	var req checkEmailRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	taken, err := h.signup.CheckEmail(c.Request().Context(), req.Email)
	if err != nil {
		return mapDomainError(err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"available": !taken})
}

type updateRequest struct {
	Name     *string `json:"name"`
	Phone    *string `json:"phone"`
	Password *string `json:"password" validate:"omitempty,min=8"`
}

// HandleUpdate processes PUT /auth/info. The prior session is invalidated
// and a fresh pair is returned in the response, so clients keep a single
// live session across the update.
func (h *AccountHandler) HandleUpdate(c echo.Context) error {
	principal, ok := middleware.PrincipalFrom(c)
	if !ok {
		return mapDomainError(domain.ErrMissingCredential)
	}

	var req updateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	pair, err := h.update.Execute(ctx, principal, domain.AccountUpdate{
		Name:     req.Name,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		return mapDomainError(err)
	}

	slog.InfoContext(ctx, "account updated", "uuid", principal.UUID)
	applyTokenHeaders(c, pair)
	return c.JSON(http.StatusOK, tokenBody{
		RefreshToken:  pair.RefreshToken,
		RefreshExpire: pair.RefreshExpiry,
	})
}

// HandleWithdraw processes DELETE /auth/info. The account is soft deleted
// and its session revoked.
func (h *AccountHandler) HandleWithdraw(c echo.Context) error {
	principal, ok := middleware.PrincipalFrom(c)
	if !ok {
		return mapDomainError(domain.ErrMissingCredential)
	}

	ctx := c.Request().Context()
	if err := h.withdraw.Execute(ctx, principal); err != nil {
		return mapDomainError(err)
	}

	slog.InfoContext(ctx, "account withdrawn", "uuid", principal.UUID)
	return c.NoContent(http.StatusOK)
}

type memberInfoResponse struct {
	UUID  string `json:"uuid"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// HandleMemberInfo answers GET /internal/members/:uuid for sibling
// services. The route sits behind the shared-secret middleware.
func (h *AccountHandler) HandleMemberInfo(c echo.Context) error {
	uuid := c.Param("uuid")
	if uuid == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "uuid required")
	}

	result, err := h.memberInfo.Execute(c.Request().Context(), uuid)
	if err != nil {
		return mapDomainError(err)
	}
	return c.JSON(http.StatusOK, memberInfoResponse{
		UUID:  result.UUID,
		Name:  result.Name,
		Email: result.Email,
	})
}
