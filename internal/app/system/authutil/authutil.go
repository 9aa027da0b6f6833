// internal/app/system/authutil/authutil.go
package authutil

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Password schemes accepted by the password_scheme config key.
const (
	// SchemeLegacy is an unsalted SHA-256 digest, base64 encoded. It is
	// deterministic, so a credential can be found by (username, digest).
	SchemeLegacy = "legacy"
	// SchemeBcrypt is a salted bcrypt hash verified after fetching by username.
	SchemeBcrypt = "bcrypt"
)

// BcryptCost is the work factor for new bcrypt hashes.
var BcryptCost = 12

// MaxBcryptPassword is the longest password, in bytes, bcrypt will hash.
const MaxBcryptPassword = 72

// ValidScheme reports whether s names a supported password scheme.
func ValidScheme(s string) bool {
	switch s {
	case SchemeLegacy, SchemeBcrypt:
		return true
	}
	return false
}

// LegacyDigest returns base64(SHA-256(utf8(password))). The result is
// always 44 characters.
func LegacyDigest(password string) string {
	sum := sha256.Sum256([]byte(password))
	return base64.StdEncoding.EncodeToString(sum[:])
}

// CheckLegacy compares password against a stored legacy digest in constant time.
func CheckLegacy(password, digest string) bool {
	return subtle.ConstantTimeCompare([]byte(LegacyDigest(password)), []byte(digest)) == 1
}

// HashPassword hashes a password using bcrypt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches a bcrypt hash.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// IsBcryptHash reports whether a stored hash was produced by bcrypt.
func IsBcryptHash(hash string) bool {
	return strings.HasPrefix(hash, "$2a$") || strings.HasPrefix(hash, "$2b$") || strings.HasPrefix(hash, "$2y$")
}
