// Package auth implements the token lifecycle and identity resolution
// pipeline: signed access/refresh tokens with embedded revocation ids,
// a Redis-backed revocation list, and a resolver that rebuilds the
// caller's full identity (including hospital/doctor affiliation) from
// a bearer token on every request.
package auth

import "errors"

// Sentinel errors for the token and identity pipeline. Handlers and
// middleware match on these with errors.Is to choose a status code:
// ErrForbidden maps to 403, everything else here maps to 401 except
// ErrDirectoryUnavailable, which is an infrastructure failure (503).
var (
	// ErrMalformed marks a token whose structure cannot be parsed.
	ErrMalformed = errors.New("auth: malformed token")

	// ErrInvalidSignature marks a token whose signature does not
	// verify under the configured secret, including tokens signed
	// with an unexpected algorithm.
	ErrInvalidSignature = errors.New("auth: invalid token signature")

	// ErrExpired marks a token past its expiry instant.
	ErrExpired = errors.New("auth: token expired")

	// ErrWrongTokenType marks an access token presented where a
	// refresh token is expected, or vice versa.
	ErrWrongTokenType = errors.New("auth: wrong token type")

	// ErrMissingCredentials is returned when the Authorization
	// header is absent or not of the `Bearer <token>` shape.
	ErrMissingCredentials = errors.New("auth: missing credentials")

	// ErrUnauthenticated is the umbrella failure of identity
	// resolution: bad token, revoked token, empty subject, or a
	// subject with no live user record. Wrapped errors keep the
	// underlying cause reachable via errors.Is.
	ErrUnauthenticated = errors.New("auth: unauthenticated")

	// ErrForbidden is returned by authorization guards rejecting an
	// authenticated caller. Distinct from ErrUnauthenticated.
	ErrForbidden = errors.New("auth: forbidden")

	// ErrDirectoryUnavailable is returned when a user or affiliation
	// lookup fails for infrastructure reasons. Identity cannot be
	// established, so resolution fails closed.
	ErrDirectoryUnavailable = errors.New("auth: directory unavailable")
)
