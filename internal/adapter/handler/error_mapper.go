package handler

import (
	"errors"
	"net/http"

	"identity-hub/internal/domain"

	"github.com/labstack/echo/v4"
)

// mapDomainError converts a domain error into an appropriate echo.HTTPError.
// Authentication failures all collapse into the same generic 401 so the
// response does not reveal which check rejected the request.
func mapDomainError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, domain.ErrMissingCredential),
		errors.Is(err, domain.ErrMalformedCredential),
		errors.Is(err, domain.ErrTokenMalformed),
		errors.Is(err, domain.ErrTokenSignature),
		errors.Is(err, domain.ErrTokenExpired),
		errors.Is(err, domain.ErrLoginFailed),
		errors.Is(err, domain.ErrRefreshRejected):
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")

	case errors.Is(err, domain.ErrAccountWithdrawn):
		return echo.NewHTTPError(http.StatusForbidden, "account withdrawn")

	case errors.Is(err, domain.ErrAccountNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "account not found")

	case errors.Is(err, domain.ErrEmailOverlap):
		return echo.NewHTTPError(http.StatusConflict, "email already registered")

	case errors.Is(err, domain.ErrFederationFailed):
		return echo.NewHTTPError(http.StatusBadGateway, "federation provider unavailable")

	case errors.Is(err, domain.ErrSessionStoreUnavailable),
		errors.Is(err, domain.ErrAccountStoreUnavailable):
		return echo.NewHTTPError(http.StatusServiceUnavailable, "service temporarily unavailable")

	case errors.Is(err, domain.ErrRateLimited):
		return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")

	case errors.Is(err, domain.ErrRoleNotFound),
		errors.Is(err, domain.ErrTokenGeneration),
		errors.Is(err, domain.ErrSecretRetrieval):
		return echo.NewHTTPError(http.StatusInternalServerError, "internal configuration error")

	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}
