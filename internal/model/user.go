package model

import "time"

// Role is the account type stored in users.user_type. Authorization
// decisions compare against these values, so the set is closed: an
// unknown value coming out of the database is treated as invalid
// rather than silently mapped to a default.
type Role string

const (
	RoleAdmin    Role = "ADMIN"    // platform operator
	RoleHospital Role = "HOSPITAL" // hospital administrator account
	RoleDoctor   Role = "DOCTOR"   // practitioner account
)

// Valid reports whether r is one of the known account types.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleHospital, RoleDoctor:
		return true
	}
	return false
}

// ParseRole normalizes a raw string into a Role. The second return
// value is false when the input is not a known account type.
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	return r, r.Valid()
}

// Gender mirrors the users.gender enum column.
type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
	GenderOther  Gender = "OTHER"
)

// User represents a row of the `users` table. The json tags are
// omitted because these structs are used by the repository layer;
// handlers define their own response types.
//
// PasswordHash holds the bcrypt digest, never the plain password.
type User struct {
	ID           string     // users.id (uuid)
	Email        string     // users.email
	Username     string     // users.username
	PasswordHash string     // users.password
	Name         string     // users.name
	Gender       Gender     // users.gender
	DOB          *time.Time // users.dob (nullable)
	ProfilePic   *string    // users.profile_pic (nullable)
	UserType     Role       // users.user_type
	CreatedAt    time.Time  // users.created_at
	UpdatedAt    time.Time  // users.updated_at
}
