package helper

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Hash8 is a short stable digest used to refer to emails in logs.
func Hash8(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:8])
}

func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func ValidEmail(s string) bool {
	return emailRe.MatchString(s)
}
