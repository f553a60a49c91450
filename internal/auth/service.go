package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Service issues and verifies access/refresh token pairs and drives
// revocation. Collaborators arrive through the constructor; the clock
// is a field so tests can pin time.
type Service struct {
	codec       *Codec
	revocations RevocationStore
	accessTTL   time.Duration
	refreshTTL  time.Duration
	now         func() time.Time
}

// NewService wires a token service. Access and refresh TTLs are
// independent; callers are expected to configure refresh larger than
// access, but that is a convention checked at startup, not here.
func NewService(codec *Codec, revocations RevocationStore, accessTTL, refreshTTL time.Duration) *Service {
	return &Service{
		codec:       codec,
		revocations: revocations,
		accessTTL:   accessTTL,
		refreshTTL:  refreshTTL,
		now:         time.Now,
	}
}

// IssueAccessToken signs a fresh access token for userID. Every call
// mints a new jti, so two tokens for the same user are independently
// revocable.
func (s *Service) IssueAccessToken(userID string) (string, error) {
	return s.issue(userID, KindAccess, s.accessTTL)
}

// IssueRefreshToken signs a fresh refresh token for userID.
func (s *Service) IssueRefreshToken(userID string) (string, error) {
	return s.issue(userID, KindRefresh, s.refreshTTL)
}

func (s *Service) issue(userID string, kind Kind, ttl time.Duration) (string, error) {
	now := s.now().UTC()
	cl := &Claims{
		Kind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return s.codec.Encode(cl)
}

// Verify decodes token and enforces the expected kind. Codec failures
// pass through untouched; a kind mismatch is ErrWrongTokenType even
// when the signature is perfectly valid.
func (s *Service) Verify(token string, kind Kind) (*Claims, error) {
	cl, err := s.codec.Decode(token)
	if err != nil {
		return nil, err
	}
	if cl.Kind != kind {
		return nil, fmt.Errorf("%w: token is %q, expected %q", ErrWrongTokenType, cl.Kind, kind)
	}
	return cl, nil
}

// Revoke blocks the token behind cl for the rest of its lifetime. The
// entry TTL is the token's actual remaining lifetime (expiry minus
// now, floored at zero), so revoking an already expired token is a
// no-op and no entry ever outlives the token it blocks.
func (s *Service) Revoke(ctx context.Context, cl *Claims) error {
	if cl.ID == "" || cl.ExpiresAt == nil {
		return nil
	}
	remaining := cl.ExpiresAt.Time.Sub(s.now())
	if remaining <= 0 {
		return nil
	}
	return s.revocations.MarkRevoked(ctx, cl.ID, remaining)
}

// IsRevoked reports whether the given revocation id has been revoked.
func (s *Service) IsRevoked(ctx context.Context, id string) bool {
	return s.revocations.IsRevoked(ctx, id)
}

// AccessTTL returns the configured access token lifetime.
func (s *Service) AccessTTL() time.Duration { return s.accessTTL }

// RefreshTTL returns the configured refresh token lifetime.
func (s *Service) RefreshTTL() time.Duration { return s.refreshTTL }
