package auth

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RevocationStore records revoked token ids until the moment the
// tokens would have expired on their own. Absence of an id means
// "not revoked".
type RevocationStore interface {
	// MarkRevoked records id for ttl. Marking an already revoked id
	// again simply refreshes its TTL.
	MarkRevoked(ctx context.Context, id string, ttl time.Duration) error

	// IsRevoked reports whether id has been revoked. It must not
	// fail: implementations resolve store outages to false.
	IsRevoked(ctx context.Context, id string) bool
}

const revocationKeyPrefix = "revoked:"

// RedisRevocationList is the Redis-backed RevocationStore shared by
// all service instances. Every check is a live round trip; revocation
// state is never cached in process, so a revoke performed anywhere is
// visible everywhere on the next request.
//
// IsRevoked fails open: when Redis is unreachable the token counts as
// not revoked and a warning is logged. Availability of the auth path
// is prioritized over strict revocation enforcement during an outage;
// the exposure window is bounded by the token's own expiry.
type RedisRevocationList struct {
	client *redis.Client
	log    zerolog.Logger
}

// NewRedisRevocationList wraps client. A nil client yields a store
// that cannot revoke and reports nothing as revoked, mirroring the
// outage behaviour.
func NewRedisRevocationList(client *redis.Client, log zerolog.Logger) *RedisRevocationList {
	return &RedisRevocationList{client: client, log: log}
}

// MarkRevoked writes the id with a TTL equal to the token's remaining
// lifetime, so the entry never outlives the token it blocks.
func (l *RedisRevocationList) MarkRevoked(ctx context.Context, id string, ttl time.Duration) error {
	if l.client == nil {
		return errors.New("auth: revocation store not configured")
	}
	return l.client.Set(ctx, revocationKeyPrefix+id, "1", ttl).Err()
}

// IsRevoked reports whether id is present in the list.
func (l *RedisRevocationList) IsRevoked(ctx context.Context, id string) bool {
	if l.client == nil {
		l.log.Warn().Msg("revocation store not configured, treating token as not revoked")
		return false
	}
	n, err := l.client.Exists(ctx, revocationKeyPrefix+id).Result()
	if err != nil {
		l.log.Warn().Err(err).Str("jti", id).Msg("revocation check failed, defaulting to allow")
		return false
	}
	return n > 0
}
