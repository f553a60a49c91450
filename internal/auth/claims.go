package auth

import "github.com/golang-jwt/jwt/v5"

// Kind discriminates access tokens from refresh tokens. The value
// travels inside the signed payload under the `type` claim, so a
// token can never be replayed in a flow expecting the other kind.
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

// Claims is the signed token payload. RegisteredClaims contributes
// the subject (user id), expiry, issue time and the jti, which this
// package uses as the revocation id: a fresh unique value is minted
// per issuance and only that short id, never the whole token, is
// written to the revocation store.
type Claims struct {
	Kind Kind `json:"type"`
	jwt.RegisteredClaims
}

// UserID returns the subject the token was issued for.
func (c *Claims) UserID() string { return c.Subject }

// RevocationID returns the token's jti. Empty when the token was
// minted without one.
func (c *Claims) RevocationID() string { return c.ID }
