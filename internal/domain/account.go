package domain

import "time"

// Role is an enumerated capability tag attached to an account.
type Role string

const (
	RoleUser  Role = "ROLE_USER"
	RoleAdmin Role = "ROLE_ADMIN"
)

// Account represents a registered member as stored in the account store.
// The auth core never creates or deletes accounts directly; it reads them
// to mint tokens and writes the withdrawn flag through the store.
type Account struct {
	ID        int64
	UUID      string
	Email     string
	Name      string
	Phone     string
	Password  string
	Withdrawn bool
	CreatedAt time.Time
}

// Principal is the validated identity extracted from a bearer token.
// It is a plain value: handlers receive it from the auth middleware and
// never parse headers themselves.
type Principal struct {
	UUID        string
	Authorities []string
	// Token is the raw JWT the principal was derived from.
	Token string
}

// HasAuthority reports whether the principal carries the given role claim.
func (p Principal) HasAuthority(role Role) bool {
	for _, a := range p.Authorities {
		if a == string(role) {
			return true
		}
	}
	return false
}

// TokenPair is the result of a successful issuance: a short-lived access
// token plus a server-tracked refresh token.
type TokenPair struct {
	AccessToken   string
	AccessExpiry  time.Time
	RefreshToken  string
	RefreshExpiry time.Time
}

// FederatedProfile is the transient record produced by exchanging an
// authorization code with an external provider. It lives for the duration
// of one login flow only.
type FederatedProfile struct {
	Provider  string `json:"provider"`
	SubjectID string `json:"subjectId"`
	Email     string `json:"email"`
	Name      string `json:"name"`
}

// AccountUpdate carries the mutable account attributes for the update flow.
// Nil fields are left untouched.
type AccountUpdate struct {
	Name     *string
	Phone    *string
	Password *string
}
