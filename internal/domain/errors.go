package domain

import "errors"

// Credential extraction errors.
var (
	ErrMissingCredential   = errors.New("authorization header missing")
	ErrMalformedCredential = errors.New("authorization header malformed")
)

// Token verification errors. Exactly one of these is returned by the codec
// for an invalid token; all of them map to a generic 401 at the boundary.
var (
	ErrTokenMalformed = errors.New("token is not parseable")
	ErrTokenSignature = errors.New("token signature mismatch")
	ErrTokenExpired   = errors.New("token expired")
)

// Business errors.
var (
	ErrAccountNotFound  = errors.New("account not found")
	ErrAccountWithdrawn = errors.New("account is withdrawn")
	ErrEmailOverlap     = errors.New("email already in use")
	ErrRoleNotFound     = errors.New("role not found")
	ErrLoginFailed      = errors.New("invalid email or password")
	ErrRefreshRejected  = errors.New("refresh token does not match live session")
)

// Infrastructure errors. Never retried silently inside the core; surfaced
// as service-unavailable at the boundary and logged with full detail.
var (
	ErrSessionStoreUnavailable = errors.New("session store unavailable")
	ErrAccountStoreUnavailable = errors.New("account store unavailable")
	ErrFederationFailed        = errors.New("federation provider rejected the request")
	ErrSecretRetrieval         = errors.New("secret retrieval failed")
	ErrTokenGeneration         = errors.New("token generation failed")
)

// Rate limiting errors.
var (
	ErrRateLimited = errors.New("rate limit exceeded")
)
