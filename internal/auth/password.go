// Package auth provides password hashing and the signed session / reset
// tokens used across the API.
package auth

import "golang.org/x/crypto/bcrypt"

// bcryptCost keeps hashing around tens of milliseconds per call.
const bcryptCost = 10

// HashPassword hashes a plaintext password with bcrypt. The digest embeds
// its own salt, so two calls with the same input produce different digests.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	return string(bytes), err
}

// CheckPassword verifies a plaintext password against a stored digest. A
// malformed digest is treated as a mismatch, never an error.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
