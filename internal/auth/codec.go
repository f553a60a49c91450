package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Codec signs and parses token payloads. Secret and algorithm are
// fixed at construction, loaded once at startup and shared by every
// request; they are never renegotiated.
type Codec struct {
	secret []byte
	method jwt.SigningMethod
	now    func() time.Time
}

// NewCodec builds a Codec for one of the HMAC signing algorithms.
// An unknown algorithm name is a configuration mistake and rejected
// here so the process fails at startup, not on the first login.
func NewCodec(secret, algorithm string) (*Codec, error) {
	if secret == "" {
		return nil, errors.New("auth: empty signing secret")
	}
	var method jwt.SigningMethod
	switch algorithm {
	case "HS256":
		method = jwt.SigningMethodHS256
	case "HS384":
		method = jwt.SigningMethodHS384
	case "HS512":
		method = jwt.SigningMethodHS512
	default:
		return nil, fmt.Errorf("auth: unsupported signing algorithm %q", algorithm)
	}
	return &Codec{secret: []byte(secret), method: method, now: time.Now}, nil
}

// Encode signs cl into a compact token string.
func (c *Codec) Encode(cl *Claims) (string, error) {
	return jwt.NewWithClaims(c.method, cl).SignedString(c.secret)
}

// Decode parses token and verifies its signature and expiry.
// Failures map onto ErrMalformed, ErrInvalidSignature and ErrExpired.
//
// Expiry is compared in UTC with zero leeway and checked manually
// rather than by the parser: a token expiring at T must still verify
// at exactly T and fail at any instant after it.
func (c *Codec) Decode(token string) (*Claims, error) {
	cl := &Claims{}
	_, err := jwt.ParseWithClaims(token, cl, c.keyFunc,
		jwt.WithValidMethods([]string{c.method.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenSignatureInvalid) || errors.Is(err, jwt.ErrTokenUnverifiable) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if cl.ExpiresAt != nil && c.now().UTC().After(cl.ExpiresAt.Time) {
		return nil, ErrExpired
	}
	return cl, nil
}

func (c *Codec) keyFunc(*jwt.Token) (interface{}, error) {
	return c.secret, nil
}
