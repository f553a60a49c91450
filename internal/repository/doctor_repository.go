package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/sudheer0071/auth-service-new/internal/model"
)

// DoctorRepo provides access to the `doctor` table, keyed by the
// owning user's id.
type DoctorRepo struct{ DB *sql.DB }

func NewDoctorRepo(db *sql.DB) *DoctorRepo { return &DoctorRepo{DB: db} }

const doctorColumns = "user_id, department, years_of_exp, hospital_id, signature"

// Create inserts a doctor profile. A second profile for the same
// user fails with ErrConflict.
func (r *DoctorRepo) Create(ctx context.Context, d *model.Doctor) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO doctor (user_id, department, years_of_exp, hospital_id, signature) VALUES (?,?,?,?,?)",
		d.UserID, d.Department, d.YearsOfExp, d.HospitalID, d.Signature)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrConflict
		}
		return err
	}
	return nil
}

// DoctorByUser fetches the doctor profile owned by the given user.
// Returns (nil, nil) when the user has no profile. Rows predating the
// hospital_id NOT NULL constraint may carry NULL, which is read back
// as an empty string.
func (r *DoctorRepo) DoctorByUser(ctx context.Context, userID string) (*model.Doctor, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+doctorColumns+" FROM doctor WHERE user_id=? LIMIT 1", userID)

	var (
		d          model.Doctor
		hospitalID sql.NullString
		signature  sql.NullString
	)
	err := row.Scan(&d.UserID, &d.Department, &d.YearsOfExp, &hospitalID, &signature)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	d.HospitalID = hospitalID.String
	if signature.Valid {
		s := signature.String
		d.Signature = &s
	}
	return &d, nil
}

// ListByHospital returns the doctors attached to a hospital.
func (r *DoctorRepo) ListByHospital(ctx context.Context, hospitalID string) ([]model.Doctor, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+doctorColumns+" FROM doctor WHERE hospital_id=? ORDER BY department", hospitalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Doctor
	for rows.Next() {
		var (
			d         model.Doctor
			hid       sql.NullString
			signature sql.NullString
		)
		if err := rows.Scan(&d.UserID, &d.Department, &d.YearsOfExp, &hid, &signature); err != nil {
			return nil, err
		}
		d.HospitalID = hid.String
		if signature.Valid {
			s := signature.String
			d.Signature = &s
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
