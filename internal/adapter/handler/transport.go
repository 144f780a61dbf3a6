package handler

import (
	"time"

	"identity-hub/internal/domain"

	"github.com/labstack/echo/v4"
)

// jwtExpireHeader carries the access token expiry alongside the bearer
// token so clients can schedule a refresh without decoding the JWT.
const jwtExpireHeader = "JWT-Expire"

// TransportHeaders renders a token pair as response headers. Pure; handlers
// apply the result to the response they are building.
func TransportHeaders(pair *domain.TokenPair) map[string]string {
	return map[string]string{
		echo.HeaderAuthorization: "Bearer " + pair.AccessToken,
		jwtExpireHeader:          pair.AccessExpiry.Format(time.RFC3339),
	}
}

func applyTokenHeaders(c echo.Context, pair *domain.TokenPair) {
	for name, value := range TransportHeaders(pair) {
		c.Response().Header().Set(name, value)
	}
}
