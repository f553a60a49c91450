package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/sudheer0071/auth-service-new/internal/model"
)

// HospitalRepo provides access to the `hospital` table.
type HospitalRepo struct{ DB *sql.DB }

func NewHospitalRepo(db *sql.DB) *HospitalRepo { return &HospitalRepo{DB: db} }

const hospitalColumns = "id, hospital_name, admin, registration_number, email, phone, logo, created_at, updated_at"

// Create inserts a hospital. The admin column carries a unique
// index, so a second hospital for the same admin account fails with
// ErrConflict.
func (r *HospitalRepo) Create(ctx context.Context, h *model.Hospital) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO hospital (id, hospital_name, admin, registration_number, email, phone, logo) VALUES (?,?,?,?,?,?,?)",
		h.ID, h.Name, h.AdminID, h.RegistrationNumber, h.Email, h.Phone, h.Logo)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrConflict
		}
		return err
	}
	return nil
}

// HospitalByAdmin fetches the hospital administered by the given
// user. Returns (nil, nil) when the account administers none.
func (r *HospitalRepo) HospitalByAdmin(ctx context.Context, userID string) (*model.Hospital, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+hospitalColumns+" FROM hospital WHERE admin=? LIMIT 1", userID)
	return scanHospital(row)
}

// HospitalByID fetches a hospital by id. Returns (nil, nil) when no
// such hospital exists.
func (r *HospitalRepo) HospitalByID(ctx context.Context, id string) (*model.Hospital, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+hospitalColumns+" FROM hospital WHERE id=? LIMIT 1", id)
	return scanHospital(row)
}

// List returns all hospitals ordered by name.
func (r *HospitalRepo) List(ctx context.Context) ([]model.Hospital, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+hospitalColumns+" FROM hospital ORDER BY hospital_name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Hospital
	for rows.Next() {
		var (
			h    model.Hospital
			logo sql.NullString
		)
		if err := rows.Scan(&h.ID, &h.Name, &h.AdminID, &h.RegistrationNumber,
			&h.Email, &h.Phone, &logo, &h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, err
		}
		if logo.Valid {
			s := logo.String
			h.Logo = &s
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func scanHospital(row *sql.Row) (*model.Hospital, error) {
	var (
		h    model.Hospital
		logo sql.NullString
	)
	err := row.Scan(&h.ID, &h.Name, &h.AdminID, &h.RegistrationNumber,
		&h.Email, &h.Phone, &logo, &h.CreatedAt, &h.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if logo.Valid {
		s := logo.String
		h.Logo = &s
	}
	return &h, nil
}
