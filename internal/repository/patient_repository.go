package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/sudheer0071/auth-service-new/internal/model"
)

// PatientRepo provides access to the `patient` table. Patients are
// always scoped to a hospital; role-based visibility is enforced by
// the handlers, not here.
type PatientRepo struct{ DB *sql.DB }

func NewPatientRepo(db *sql.DB) *PatientRepo { return &PatientRepo{DB: db} }

const patientColumns = "id, fullname, gender, department, uhid, dob, weight, height, hospital_id, latest_date, created_at, updated_at"

// Create inserts a patient record under its hospital. A duplicate
// uhid fails with ErrConflict.
func (r *PatientRepo) Create(ctx context.Context, p *model.Patient) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO patient (id, fullname, gender, department, uhid, dob, weight, height, hospital_id) VALUES (?,?,?,?,?,?,?,?,?)",
		p.ID, p.FullName, string(p.Gender), p.Department, p.UHID, p.DOB, p.Weight, p.Height, p.HospitalID)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrConflict
		}
		return err
	}
	return nil
}

// PatientByID fetches a patient by id. Returns (nil, nil) when no
// such patient exists.
func (r *PatientRepo) PatientByID(ctx context.Context, id string) (*model.Patient, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+patientColumns+" FROM patient WHERE id=? LIMIT 1", id)
	p, err := scanPatient(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return p, err
}

// ListByHospital returns a hospital's patients, most recent first.
func (r *PatientRepo) ListByHospital(ctx context.Context, hospitalID string) ([]model.Patient, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+patientColumns+" FROM patient WHERE hospital_id=? ORDER BY latest_date DESC", hospitalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPatients(rows)
}

// List returns all patients across hospitals, most recent first.
func (r *PatientRepo) List(ctx context.Context) ([]model.Patient, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+patientColumns+" FROM patient ORDER BY latest_date DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPatients(rows)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPatient(row rowScanner) (*model.Patient, error) {
	var (
		p          model.Patient
		department sql.NullString
		uhid       sql.NullString
		dob        sql.NullTime
		weight     sql.NullInt64
		height     sql.NullInt64
	)
	err := row.Scan(&p.ID, &p.FullName, &p.Gender, &department, &uhid, &dob,
		&weight, &height, &p.HospitalID, &p.LatestDate, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.Department = department.String
	p.UHID = uhid.String
	if dob.Valid {
		t := dob.Time
		p.DOB = &t
	}
	if weight.Valid {
		w := int(weight.Int64)
		p.Weight = &w
	}
	if height.Valid {
		h := int(height.Int64)
		p.Height = &h
	}
	return &p, nil
}

func collectPatients(rows *sql.Rows) ([]model.Patient, error) {
	var out []model.Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}
