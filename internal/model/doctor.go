package model

// Doctor represents a row of the `doctor` table. The table is keyed
// by the user id rather than a surrogate id: a DOCTOR account has at
// most one profile. HospitalID is declared NOT NULL in the schema,
// but historic rows with an empty value exist, so readers must treat
// the field as possibly blank.
type Doctor struct {
	UserID     string  // doctor.user_id (uuid, primary key)
	Department string  // doctor.department
	YearsOfExp int     // doctor.years_of_exp
	HospitalID string  // doctor.hospital_id (uuid)
	Signature  *string // doctor.signature (nullable)
}
