package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/sudheer0071/auth-service-new/internal/model"
)

// Resolver rebuilds the caller's Identity from a bearer token on
// every request. The pipeline is strictly sequential and terminal on
// the first failure: extract the token, verify it, check revocation,
// check the subject, load the user, then enrich with role-dependent
// affiliation data. Later steps depend on earlier results, so there
// is nothing to parallelize.
type Resolver struct {
	tokens       *Service
	users        UserDirectory
	affiliations AffiliationDirectory
	log          zerolog.Logger
}

// NewResolver wires a resolver. All collaborators are required.
func NewResolver(tokens *Service, users UserDirectory, affiliations AffiliationDirectory, log zerolog.Logger) *Resolver {
	return &Resolver{tokens: tokens, users: users, affiliations: affiliations, log: log}
}

// ExtractBearerToken pulls the raw token out of an Authorization
// header value of the `Bearer <token>` shape.
func ExtractBearerToken(header string) (string, error) {
	if header == "" {
		return "", fmt.Errorf("%w: authorization header missing", ErrMissingCredentials)
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", fmt.Errorf("%w: authorization header is not a bearer token", ErrMissingCredentials)
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, prefix))
	if token == "" {
		return "", fmt.Errorf("%w: empty bearer token", ErrMissingCredentials)
	}
	return token, nil
}

// Resolve authenticates the Authorization header as an access token
// and returns the caller's full Identity.
func (r *Resolver) Resolve(ctx context.Context, authorization string) (*Identity, error) {
	user, err := r.resolveUser(ctx, authorization, KindAccess)
	if err != nil {
		return nil, err
	}

	id := &Identity{
		UserID:   user.ID,
		Email:    user.Email,
		Username: user.Username,
		Role:     user.UserType,
	}

	switch user.UserType {
	case model.RoleHospital:
		h, err := r.affiliations.HospitalByAdmin(ctx, user.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: hospital lookup: %v", ErrDirectoryUnavailable, err)
		}
		// h may be nil: a HOSPITAL account with no registered
		// hospital resolves, but guards will reject it as an admin.
		id.Hospital = h
	case model.RoleDoctor:
		d, err := r.affiliations.DoctorByUser(ctx, user.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: doctor lookup: %v", ErrDirectoryUnavailable, err)
		}
		id.Doctor = d
		if d != nil && d.HospitalID != "" {
			h, err := r.affiliations.HospitalByID(ctx, d.HospitalID)
			if err != nil {
				return nil, fmt.Errorf("%w: hospital lookup: %v", ErrDirectoryUnavailable, err)
			}
			id.Hospital = h
		} else {
			// Inconsistent directory state, not an auth failure. The
			// request proceeds without a hospital scope.
			r.log.Warn().Str("user_id", user.ID).Msg("doctor profile incomplete, no hospital attached")
		}
	}

	return id, nil
}

// ResolveRefresh authenticates the Authorization header as a refresh
// token. Affiliation enrichment is skipped: refresh flows only need
// the subject to mint a new access token.
func (r *Resolver) ResolveRefresh(ctx context.Context, authorization string) (*Identity, error) {
	user, err := r.resolveUser(ctx, authorization, KindRefresh)
	if err != nil {
		return nil, err
	}
	return &Identity{
		UserID:   user.ID,
		Email:    user.Email,
		Username: user.Username,
		Role:     user.UserType,
	}, nil
}

// resolveUser runs the shared head of the pipeline: extraction,
// verification, revocation check, subject check and user lookup.
func (r *Resolver) resolveUser(ctx context.Context, authorization string, kind Kind) (*model.User, error) {
	token, err := ExtractBearerToken(authorization)
	if err != nil {
		return nil, err
	}

	cl, err := r.tokens.Verify(token, kind)
	if err != nil {
		if errors.Is(err, ErrInvalidSignature) {
			// Possible tampering or a wrong-secret deployment.
			r.log.Warn().Msg("token with invalid signature presented")
		}
		return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}

	if jti := cl.RevocationID(); jti != "" && r.tokens.IsRevoked(ctx, jti) {
		return nil, fmt.Errorf("%w: token revoked", ErrUnauthenticated)
	}

	subject := cl.UserID()
	if subject == "" {
		return nil, fmt.Errorf("%w: invalid token payload", ErrUnauthenticated)
	}

	// Token validity is contingent on live user existence: a deleted
	// user's still-unexpired tokens stop working here without any
	// explicit revocation.
	user, err := r.users.UserByID(ctx, subject)
	if err != nil {
		return nil, fmt.Errorf("%w: user lookup: %v", ErrDirectoryUnavailable, err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user not found", ErrUnauthenticated)
	}
	return user, nil
}
