// Package auth checks the admin password of the configured store.
package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Verifier compares a submitted password with the stored one.
type Verifier interface {
	Verify(stored, submitted string) bool
}

// PasswordVerifier accepts bcrypt hashes and plain stored passwords. An
// empty stored password never matches.
type PasswordVerifier struct{}

func NewPasswordVerifier() PasswordVerifier {
	return PasswordVerifier{}
}

func (PasswordVerifier) Verify(stored, submitted string) bool {
	if stored == "" {
		return false
	}
	if isBcrypt(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(submitted)) == nil
	}
	a := sha256.Sum256([]byte(stored))
	b := sha256.Sum256([]byte(submitted))
	return subtle.ConstantTimeCompare(a[:], b[:]) == 1
}

func isBcrypt(s string) bool {
	return len(s) == 60 && (strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$"))
}
