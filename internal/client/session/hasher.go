package session

import "github.com/dmitrijs2005/shutterpro/internal/password"

// BcryptHasher adapts the password package to the PasswordHasher contract.
type BcryptHasher struct{}

// Hash hashes a plaintext password.
func (BcryptHasher) Hash(plain []byte) (string, error) {
	return password.Hash(plain)
}

// Compare checks a plaintext password against a stored hash.
func (BcryptHasher) Compare(hash string, plain []byte) error {
	return password.Compare(hash, plain)
}
