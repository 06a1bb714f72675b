package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword returns the lowercase hex SHA-256 digest of plaintext.
// The digest is unsalted.
func HashPassword(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}

// VerifyPassword checks plaintext against a stored hash. Stored values may be
// SHA-256 hex digests or bcrypt hashes carried over from older accounts.
func VerifyPassword(stored, plaintext string) bool {
	if stored == "" {
		return false
	}
	if strings.HasPrefix(stored, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(plaintext)) == nil
	}
	digest := HashPassword(plaintext)
	return subtle.ConstantTimeCompare([]byte(strings.ToLower(stored)), []byte(digest)) == 1
}
