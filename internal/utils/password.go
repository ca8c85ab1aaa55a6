package utils

import (
	"regexp"

	"golang.org/x/crypto/bcrypt"
)

var specialChar = regexp.MustCompile(`[!@#\$%\^&\*\(\)\-_=\+\[\]\{\}\\|;:'",<>\./\?]`)

// IsPasswordValid enforces password policy (>=8 chars, >=1 special char)
func IsPasswordValid(p string) bool {
	if len(p) < 8 {
		return false
	}
	return specialChar.MatchString(p)
}

var generateHash = bcrypt.GenerateFromPassword

// HashPassword returns the bcrypt hash of p.
func HashPassword(p string) (string, error) {
	hash, err := generateHash([]byte(p), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether p matches the stored bcrypt hash.
func CheckPassword(hash, p string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(p)) == nil
}
