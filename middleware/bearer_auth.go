package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"identity-hub/internal/domain"

	"github.com/labstack/echo/v4"
)

// bearerPrefix is the expected credential scheme in the Authorization header.
const bearerPrefix = "Bearer "

// principalContextKey is where the validated principal is stored for the
// guarded handler.
const principalContextKey = "auth.principal"

// BearerAuth guards protected routes: it extracts the bearer token,
// validates it with the codec and substitutes the verified principal into
// the request context before the handler body runs. The handler is never
// invoked on a failed validation, and validation is not retried.
//
// The specific rejection kind (missing, malformed, bad signature, expired)
// is logged for diagnostics but never leaks to the client; every rejection
// is the same generic 401.
func BearerAuth(codec domain.TokenCodec) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()

			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				slog.InfoContext(ctx, "request rejected", "reason", domain.ErrMissingCredential)
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			if !strings.HasPrefix(header, bearerPrefix) {
				slog.InfoContext(ctx, "request rejected", "reason", domain.ErrMalformedCredential)
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}

			principal, err := codec.Verify(strings.TrimPrefix(header, bearerPrefix))
			if err != nil {
				switch {
				case errors.Is(err, domain.ErrTokenExpired):
					slog.InfoContext(ctx, "request rejected", "reason", "token expired")
				case errors.Is(err, domain.ErrTokenSignature):
					slog.WarnContext(ctx, "request rejected", "reason", "signature mismatch")
				default:
					slog.InfoContext(ctx, "request rejected", "reason", "malformed token")
				}
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}

			c.Set(principalContextKey, *principal)
			return next(c)
		}
	}
}

// PrincipalFrom returns the principal substituted by BearerAuth. The second
// return is false on routes that were not guarded.
func PrincipalFrom(c echo.Context) (domain.Principal, bool) {
	principal, ok := c.Get(principalContextKey).(domain.Principal)
	return principal, ok
}
