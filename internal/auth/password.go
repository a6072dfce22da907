// Package auth provides password hashing, session token handling, and the
// middleware gate for protected routes.
package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost is the work factor used when the config doesn't
// override it. Hashing at cost 12 takes a few hundred milliseconds on
// current server hardware: slow enough to make offline brute force
// expensive, fast enough for a login endpoint.
const DefaultBcryptCost = 12

// PasswordService provides bcrypt hashing and verification.
//
// The cost is injected so tests can run at bcrypt.MinCost instead of
// paying the production work factor on every hash.
type PasswordService struct {
	cost int
}

// NewPasswordService creates a PasswordService with the given bcrypt cost.
// A cost outside bcrypt's valid range falls back to DefaultBcryptCost.
func NewPasswordService(cost int) *PasswordService {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &PasswordService{cost: cost}
}

// Hash hashes the plaintext password with bcrypt. The returned string is
// self-contained: it embeds the cost and the randomly generated salt, so
// two users with the same password always get different hashes and no
// separate salt column is needed.
//
// Passwords longer than 72 bytes are rejected rather than silently
// truncated (a bcrypt limit).
func (p *PasswordService) Hash(plaintext string) (string, error) {
	if len(plaintext) > 72 {
		return "", fmt.Errorf("auth: password must be 72 bytes or fewer")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), p.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hashing password: %w", err)
	}

	return string(hashed), nil
}

// Verify checks a plaintext password against a stored bcrypt hash.
// Returns nil on a match. The comparison is constant-time.
func (p *PasswordService) Verify(hash, plaintext string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return fmt.Errorf("auth: invalid password")
		}
		return fmt.Errorf("auth: comparing password hash: %w", err)
	}
	return nil
}
