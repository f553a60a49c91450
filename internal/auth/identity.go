package auth

import (
	"context"

	"github.com/sudheer0071/auth-service-new/internal/model"
)

// UserDirectory is the read side of the user store the resolver
// consumes. A missing record is (nil, nil); a non-nil error means the
// directory itself failed and identity resolution must fail closed.
type UserDirectory interface {
	UserByID(ctx context.Context, id string) (*model.User, error)
	UserByEmail(ctx context.Context, email string) (*model.User, error)
}

// AffiliationDirectory resolves a user to the hospital and doctor
// records that scope their access. Absence follows the same
// (nil, nil) convention as UserDirectory.
type AffiliationDirectory interface {
	HospitalByAdmin(ctx context.Context, userID string) (*model.Hospital, error)
	DoctorByUser(ctx context.Context, userID string) (*model.Doctor, error)
	HospitalByID(ctx context.Context, id string) (*model.Hospital, error)
}

// Identity is the request-scoped description of the caller: the base
// user record plus, depending on role, the hospital and doctor
// records the account is affiliated with. It is rebuilt from the
// bearer token on every request, never cached and never persisted.
//
// Hospital is populated for HOSPITAL accounts by reverse lookup
// (hospital whose admin is this user) and for DOCTOR accounts
// transitively through the doctor record. It stays nil when the
// affiliation cannot be resolved; guards decide what that means.
type Identity struct {
	UserID   string
	Email    string
	Username string
	Role     model.Role
	Hospital *model.Hospital
	Doctor   *model.Doctor
}
