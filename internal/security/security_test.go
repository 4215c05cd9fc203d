package security_test

import (
	"strconv"
	"testing"

	"github.com/tazhibayda/algojourney/internal/security"
)

func TestNewOTP_SixDigitsInRange(t *testing.T) {
	for i := 0; i < 500; i++ {
		code, err := security.NewOTP()
		if err != nil {
			t.Fatal(err)
		}
		if len(code) != 6 {
			t.Fatalf("code %q is not 6 digits", code)
		}
		n, err := strconv.Atoi(code)
		if err != nil || n < 100000 || n > 999999 {
			t.Fatalf("code %q out of range", code)
		}
	}
}

func TestEqualOTP(t *testing.T) {
	if !security.EqualOTP("123456", "123456") {
		t.Fatal("equal codes rejected")
	}
	for _, given := range []string{"123457", "12345", "123456 ", " 123456", ""} {
		if security.EqualOTP("123456", given) {
			t.Fatalf("EqualOTP accepted %q", given)
		}
	}
}

func TestPassword_RoundTrip(t *testing.T) {
	hash, err := security.HashPassword("pw123456")
	if err != nil {
		t.Fatal(err)
	}
	if hash == "pw123456" {
		t.Fatal("password stored in clear")
	}
	if !security.CheckPassword(hash, "pw123456") {
		t.Fatal("correct password rejected")
	}
	if security.CheckPassword(hash, "pw1234567") {
		t.Fatal("wrong password accepted")
	}
}
