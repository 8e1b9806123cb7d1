package auth

import (
	"crypto/rand"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// PBKDF2Iterations is the fixed work factor for admin password hashes.
	// Changing it invalidates every stored credential.
	PBKDF2Iterations = 210000
	KeyLength        = 64 // bytes of derived key (hex-encoded to 128 chars)
	SaltLength       = 16
	SessionTokenLen  = 32 // 256 bits
	MaxPasswordLen   = 128
)

// dummySalt is used to keep the comparison cost constant when a username does not exist
const dummySalt = "00000000000000000000000000000000"

// HashPassword derives a new (hash, salt) pair for storage
func HashPassword(password string) (hash string, salt string, err error) {
	if password == "" {
		return "", "", fmt.Errorf("password cannot be empty")
	}

	saltBytes := make([]byte, SaltLength)
	if _, err := rand.Read(saltBytes); err != nil {
		return "", "", fmt.Errorf("failed to generate salt: %w", err)
	}
	salt = hex.EncodeToString(saltBytes)

	return derive(password, salt), salt, nil
}

// VerifyPassword recomputes the hash for password with salt and compares it to
// the stored hash in constant time.
func VerifyPassword(password, hash, salt string) bool {
	computed := derive(password, salt)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(hash)) == 1
}

// BurnVerification performs the same amount of work as VerifyPassword and
// always reports false. Used when the username is unknown.
func BurnVerification(password string) bool {
	_ = derive(password, dummySalt)
	return false
}

func derive(password, salt string) string {
	key := pbkdf2.Key([]byte(password), []byte(salt), PBKDF2Iterations, KeyLength, sha512.New)
	return hex.EncodeToString(key)
}

// GenerateSessionToken returns a hex-encoded random bearer token
func GenerateSessionToken() (string, error) {
	bytes := make([]byte, SessionTokenLen)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}
