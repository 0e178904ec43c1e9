// Package password performs one-way credential hashing and verification.
// It is the single comparison policy for every path that checks a password:
// the server-authoritative login, and the client-side change-password flow.
// Plaintext-equality checks must never be used anywhere else.
package password

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/shutterpro/internal/common"
	"golang.org/x/crypto/bcrypt"
)

// Hash returns a bcrypt hash of plain using the default cost.
func Hash(plain []byte) (string, error) {
	if len(plain) == 0 {
		return "", errors.New("empty password")
	}
	h, err := bcrypt.GenerateFromPassword(plain, bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash error: %w", err)
	}
	return string(h), nil
}

// Compare checks plain against a stored bcrypt hash. Any failure, including
// a stored value that is not valid bcrypt, is reported as
// common.ErrInvalidCredentials so callers cannot distinguish the cases.
func Compare(hash string, plain []byte) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), plain); err != nil {
		return common.ErrInvalidCredentials
	}
	return nil
}

// dummyHash is a valid bcrypt hash of a random string. CompareDummy burns
// the same work as a real comparison so that lookups for unknown accounts
// cost as much as a wrong password.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// CompareDummy performs a bcrypt comparison that always fails.
func CompareDummy(plain []byte) {
	_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), plain)
}
