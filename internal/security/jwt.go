package security

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid token")
)

// Claims is the session token payload. Field names follow what the web
// client reads from the decoded token.
type Claims struct {
	UID     string `json:"uid"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	CFAcc   string `json:"cfAcc"`
	Profile bool   `json:"profile"`
	jwt.RegisteredClaims
}

// Identity is what a session token is minted from.
type Identity struct {
	UID, Name, Email, CFAcc string
}

// Issuer signs and verifies HS256 session tokens with a shared secret.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// WithClock returns a copy of the issuer reading time from now.
func (i *Issuer) WithClock(now func() time.Time) *Issuer {
	cp := *i
	cp.now = now
	return &cp
}

// Issue returns a token valid for exactly the issuer TTL from now.
func (i *Issuer) Issue(id Identity) (string, error) {
	now := i.now()
	c := Claims{
		UID:     id.UID,
		Name:    id.Name,
		Email:   id.Email,
		CFAcc:   id.CFAcc,
		Profile: id.CFAcc != "",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(i.secret)
}

// Parse verifies signature and expiry. Every failure is ErrInvalidToken.
func (i *Issuer) Parse(token string) (*Claims, error) {
	c := &Claims{}
	t, err := jwt.ParseWithClaims(token, c, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !t.Valid || c.UID == "" {
		return nil, ErrInvalidToken
	}
	return c, nil
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, error) {
	const prefix = "bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", ErrMissingToken
	}
	tok := strings.TrimSpace(header[len(prefix):])
	if tok == "" {
		return "", ErrMissingToken
	}
	return tok, nil
}
