// Package credential provides the password verification adapter.
package credential

import "golang.org/x/crypto/bcrypt"

// BcryptVerifier implements domain.CredentialVerifier using bcrypt.
type BcryptVerifier struct {
	cost int
}

// NewBcryptVerifier creates a verifier with the given cost, falling back
// to the bcrypt default when cost is zero.
func NewBcryptVerifier(cost int) *BcryptVerifier {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptVerifier{cost: cost}
}

// Verify reports whether the presented password matches the stored hash.
func (v *BcryptVerifier) Verify(hashed, presented string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(presented)) == nil
}

// Hash generates a password hash for storage.
func (v *BcryptVerifier) Hash(plain string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plain), v.cost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}
