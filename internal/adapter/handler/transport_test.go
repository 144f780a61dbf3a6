package handler

import (
	"testing"
	"time"

	"identity-hub/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestTransportHeaders(t *testing.T) {
	expiry := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	pair := &domain.TokenPair{
		AccessToken:  "signed.access.jwt",
		AccessExpiry: expiry,
		RefreshToken: "signed.refresh.jwt",
	}

	headers := TransportHeaders(pair)

	assert.Equal(t, "Bearer signed.access.jwt", headers["Authorization"])
	assert.Equal(t, "2026-03-01T12:00:00Z", headers["JWT-Expire"])
	// The refresh token never travels in headers.
	assert.Len(t, headers, 2)
}
