package model

import "time"

// Hospital represents a row of the `hospital` table. AdminID is the
// owning HOSPITAL account; the column carries a UNIQUE constraint, so
// one account administers at most one hospital.
type Hospital struct {
	ID                 string    // hospital.id (uuid)
	Name               string    // hospital.hospital_name
	AdminID            string    // hospital.admin (uuid, unique)
	RegistrationNumber string    // hospital.registration_number
	Email              string    // hospital.email
	Phone              string    // hospital.phone
	Logo               *string   // hospital.logo (nullable)
	CreatedAt          time.Time // hospital.created_at
	UpdatedAt          time.Time // hospital.updated_at
}
