package model

import "time"

// Patient represents a row of the `patient` table. Patients always
// belong to a hospital; UHID is the hospital-issued health id.
type Patient struct {
	ID         string     // patient.id (uuid)
	FullName   string     // patient.fullname
	Gender     Gender     // patient.gender
	Department string     // patient.department
	UHID       string     // patient.uhid
	DOB        *time.Time // patient.dob (nullable)
	Weight     *int       // patient.weight (nullable)
	Height     *int       // patient.height (nullable)
	HospitalID string     // patient.hospital_id (uuid)
	LatestDate time.Time  // patient.latest_date
	CreatedAt  time.Time  // patient.created_at
	UpdatedAt  time.Time  // patient.updated_at
}
