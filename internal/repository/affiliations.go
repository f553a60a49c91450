package repository

import (
	"context"

	"github.com/sudheer0071/auth-service-new/internal/model"
)

// Affiliations bundles the hospital and doctor repositories into the
// single lookup surface the identity resolver consumes.
type Affiliations struct {
	Hospitals *HospitalRepo
	Doctors   *DoctorRepo
}

func NewAffiliations(hospitals *HospitalRepo, doctors *DoctorRepo) *Affiliations {
	return &Affiliations{Hospitals: hospitals, Doctors: doctors}
}

func (a *Affiliations) HospitalByAdmin(ctx context.Context, userID string) (*model.Hospital, error) {
	return a.Hospitals.HospitalByAdmin(ctx, userID)
}

func (a *Affiliations) DoctorByUser(ctx context.Context, userID string) (*model.Doctor, error) {
	return a.Doctors.DoctorByUser(ctx, userID)
}

func (a *Affiliations) HospitalByID(ctx context.Context, id string) (*model.Hospital, error) {
	return a.Hospitals.HospitalByID(ctx, id)
}
