package password

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const (
	// HashCost is the bcrypt cost factor for password digests.
	HashCost = 12

	// ResetTokenTTL is how long a password reset token stays valid.
	ResetTokenTTL = 10 * time.Minute

	// ChangedAtSkew is subtracted from the password-changed timestamp so that
	// a token issued just before the save is not treated as stale.
	ChangedAtSkew = time.Second
)

// Hash returns a bcrypt digest of the plaintext. Each call salts independently,
// so two hashes of the same plaintext differ.
func Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), HashCost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Compare reports whether plaintext matches the stored bcrypt digest.
func Compare(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}

// NewResetToken generates a high-entropy reset token. It returns the plaintext
// token to deliver out-of-band and the SHA-256 hex digest to persist. The
// plaintext is never stored.
func NewResetToken() (plaintext, digest string, err error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", "", err
	}
	plaintext = hex.EncodeToString(buf)
	return plaintext, HashResetToken(plaintext), nil
}

// HashResetToken returns the SHA-256 hex digest of a plaintext reset token.
// Lookups against stored reset tokens always go through this digest.
func HashResetToken(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}
