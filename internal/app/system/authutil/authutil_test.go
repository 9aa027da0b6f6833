package authutil

import (
	"testing"
)

func init() {
	// Keep bcrypt fast under test.
	BcryptCost = 4
}

func TestLegacyDigest_KnownVector(t *testing.T) {
	// sha256("password") in base64.
	const want = "XohImNooBHFR0OVvjcYpJ3NgPQ1qq73WKhHvch0VQtg="
	if got := LegacyDigest("password"); got != want {
		t.Errorf("LegacyDigest(password) = %q, want %q", got, want)
	}
}

func TestLegacyDigest_Deterministic(t *testing.T) {
	a := LegacyDigest("Secret123!")
	b := LegacyDigest("Secret123!")
	if a != b {
		t.Errorf("expected identical digests, got %q and %q", a, b)
	}
	if len(a) != 44 {
		t.Errorf("expected 44-char digest, got %d", len(a))
	}
}

func TestLegacyDigest_DifferentPasswords(t *testing.T) {
	if LegacyDigest("Secret123!") == LegacyDigest("Other1!") {
		t.Error("expected different digests for different passwords")
	}
}

func TestLegacyDigest_UTF8(t *testing.T) {
	if LegacyDigest("pässwörd") == LegacyDigest("passwort") {
		t.Error("expected non-ASCII passwords to hash distinctly")
	}
}

func TestCheckLegacy(t *testing.T) {
	d := LegacyDigest("Secret123!")
	if !CheckLegacy("Secret123!", d) {
		t.Error("expected CheckLegacy to accept the right password")
	}
	if CheckLegacy("secret123!", d) {
		t.Error("expected CheckLegacy to reject a wrong password")
	}
	if CheckLegacy("", d) {
		t.Error("expected CheckLegacy to reject an empty password")
	}
}

func TestValidScheme(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"legacy", true},
		{"bcrypt", true},
		{"", false},
		{"argon2", false},
		{"BCRYPT", false},
	}
	for _, tt := range tests {
		if got := ValidScheme(tt.in); got != tt.want {
			t.Errorf("ValidScheme(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

// Test password hashing

func TestHashPassword_Valid(t *testing.T) {
	password := "SecurePassword123"

	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	if hash == "" {
		t.Error("expected hash to be non-empty")
	}
	if hash == password {
		t.Error("hash should not equal plain password")
	}
	if !IsBcryptHash(hash) {
		t.Errorf("expected bcrypt prefix, got %q", hash[:4])
	}
}

func TestHashPassword_DifferentHashesForSamePassword(t *testing.T) {
	password := "SecurePassword123"

	hash1, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	hash2, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	// bcrypt uses random salt, so hashes should be different
	if hash1 == hash2 {
		t.Error("expected different hashes for same password (random salt)")
	}
}

// Test password checking

func TestCheckPassword_Correct(t *testing.T) {
	password := "SecurePassword123"

	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	if !CheckPassword(password, hash) {
		t.Error("expected CheckPassword to return true for correct password")
	}
}

func TestCheckPassword_Incorrect(t *testing.T) {
	hash, err := HashPassword("SecurePassword123")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	if CheckPassword("WrongPassword456", hash) {
		t.Error("expected CheckPassword to return false for wrong password")
	}
}

func TestCheckPassword_InvalidHash(t *testing.T) {
	if CheckPassword("password", "not-a-valid-hash") {
		t.Error("expected CheckPassword to return false for invalid hash")
	}
}

func TestIsBcryptHash_Legacy(t *testing.T) {
	if IsBcryptHash(LegacyDigest("x")) {
		t.Error("legacy digest must not look like bcrypt")
	}
}
