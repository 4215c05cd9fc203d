package security

import (
	"crypto/rand"
	"crypto/subtle"
	"math/big"
	"strconv"
)

const (
	otpMin = 100000
	otpMax = 999999
)

// NewOTP returns a uniformly random 6-digit code in [100000, 999999].
func NewOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(otpMax-otpMin+1))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+otpMin, 10), nil
}

// EqualOTP compares codes exactly, in constant time.
func EqualOTP(stored, given string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(given)) == 1
}
