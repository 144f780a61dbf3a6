package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"identity-hub/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"missing credential", domain.ErrMissingCredential, http.StatusUnauthorized},
		{"malformed credential", domain.ErrMalformedCredential, http.StatusUnauthorized},
		{"token malformed", domain.ErrTokenMalformed, http.StatusUnauthorized},
		{"token signature", domain.ErrTokenSignature, http.StatusUnauthorized},
		{"token expired", domain.ErrTokenExpired, http.StatusUnauthorized},
		{"login failed", domain.ErrLoginFailed, http.StatusUnauthorized},
		{"refresh rejected", domain.ErrRefreshRejected, http.StatusUnauthorized},
		{"account withdrawn", domain.ErrAccountWithdrawn, http.StatusForbidden},
		{"account not found", domain.ErrAccountNotFound, http.StatusNotFound},
		{"email overlap", domain.ErrEmailOverlap, http.StatusConflict},
		{"federation failed", domain.ErrFederationFailed, http.StatusBadGateway},
		{"session store down", domain.ErrSessionStoreUnavailable, http.StatusServiceUnavailable},
		{"account store down", domain.ErrAccountStoreUnavailable, http.StatusServiceUnavailable},
		{"rate limited", domain.ErrRateLimited, http.StatusTooManyRequests},
		{"role not found", domain.ErrRoleNotFound, http.StatusInternalServerError},
		{"token generation", domain.ErrTokenGeneration, http.StatusInternalServerError},
		{"secret retrieval", domain.ErrSecretRetrieval, http.StatusInternalServerError},
		{"unknown error", errors.New("something unexpected"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := mapDomainError(tt.err)
			assert.Equal(t, tt.wantCode, httpErr.Code)
		})
	}
}

func TestMapDomainError_WrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("context: %w", domain.ErrLoginFailed)
	assert.Equal(t, http.StatusUnauthorized, mapDomainError(wrapped).Code)

	doubleWrapped := fmt.Errorf("outer: %w", wrapped)
	assert.Equal(t, http.StatusUnauthorized, mapDomainError(doubleWrapped).Code)
}

func TestMapDomainError_GenericAuthMessage(t *testing.T) {
	// Every authentication failure answers the same message so the reason
	// for rejection is not observable from the response.
	authErrs := []error{
		domain.ErrMissingCredential,
		domain.ErrTokenExpired,
		domain.ErrTokenSignature,
		domain.ErrLoginFailed,
		domain.ErrRefreshRejected,
	}
	for _, err := range authErrs {
		assert.Equal(t, "authentication required", mapDomainError(err).Message)
	}
}
