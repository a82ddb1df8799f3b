// Package creds implements credential format rules and one-way hashing.
// Passwords and security-question answers share the same hash scheme.
package creds

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// hashCost is the bcrypt work factor applied to passwords and answers.
const hashCost = 12

const passwordSpecials = "!@#$"

var emailPattern = regexp.MustCompile(`^[a-z0-9!#$%&'*+/=?^_` + "`" + `{|}~-]+(\.[a-z0-9!#$%&'*+/=?^_` + "`" + `{|}~-]+)*@[a-z0-9-]+(\.[a-z0-9-]+)*\.[a-z]{2,}$`)

// ValidUsername reports whether s is an acceptable username.
func ValidUsername(s string) bool {
	return strings.TrimSpace(s) != ""
}

// ValidEmail reports whether s is a plausible local@domain address.
// Matching is case-insensitive.
func ValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	return emailPattern.MatchString(strings.ToLower(s))
}

// ValidPassword reports whether s is at least 8 characters and contains a
// digit, one of !@#$, and an uppercase letter.
func ValidPassword(s string) bool {
	if len(s) < 8 {
		return false
	}
	var hasDigit, hasSpecial, hasUpper bool
	for _, r := range s {
		switch {
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsUpper(r):
			hasUpper = true
		case strings.ContainsRune(passwordSpecials, r):
			hasSpecial = true
		}
	}
	return hasDigit && hasSpecial && hasUpper
}

// HashSecret produces a salted one-way digest of the secret.
func HashSecret(secret string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(secret), hashCost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// VerifySecret reports whether secret matches the stored digest.
func VerifySecret(secret, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(secret)) == nil
}
