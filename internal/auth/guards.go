package auth

import (
	"fmt"

	"github.com/sudheer0071/auth-service-new/internal/model"
)

// Guards are stateless predicates over a resolved Identity. They run
// after authentication, so every rejection is ErrForbidden, never
// ErrUnauthenticated. Checks are ordered: role membership first,
// affiliation completeness second, so the role error wins when both
// would fail.

// RequireRole passes when the identity holds one of the allowed roles.
func RequireRole(id *Identity, allowed ...model.Role) error {
	for _, role := range allowed {
		if id.Role == role {
			return nil
		}
	}
	return fmt.Errorf("%w: role %s is not allowed here", ErrForbidden, id.Role)
}

// RequireHospitalAdmin passes only for a HOSPITAL account with a
// registered hospital. A hospital-admin whose reverse lookup found no
// hospital administers nothing and is rejected.
func RequireHospitalAdmin(id *Identity) error {
	if id.Role != model.RoleHospital || id.Hospital == nil {
		return fmt.Errorf("%w: only a registered hospital's admin is allowed", ErrForbidden)
	}
	return nil
}

// RequireRoleWithHospital is RequireRole plus, for HOSPITAL accounts,
// the hospital completeness check. ADMIN and DOCTOR callers in the
// allowed set pass without a hospital.
func RequireRoleWithHospital(id *Identity, allowed ...model.Role) error {
	if err := RequireRole(id, allowed...); err != nil {
		return err
	}
	if id.Role == model.RoleHospital && id.Hospital == nil {
		return fmt.Errorf("%w: hospital admin has no registered hospital", ErrForbidden)
	}
	return nil
}
