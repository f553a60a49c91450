package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/sudheer0071/auth-service-new/internal/model"
)

// UserRepo provides access to the `users` table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// ErrEmailExists is returned when an insert hits the unique index on
// email or username.
var ErrEmailExists = errors.New("email already exists")

const userColumns = "id, email, username, password, name, gender, dob, profile_pic, user_type, created_at, updated_at"

// Create inserts a user. The caller supplies the id and an already
// hashed password.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (id, email, username, password, name, gender, user_type) VALUES (?,?,?,?,?,?,?)",
		u.ID, u.Email, u.Username, u.PasswordHash, u.Name, string(u.Gender), string(u.UserType))
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrEmailExists
		}
		return err
	}
	return nil
}

// UserByID fetches a user by id. Returns (nil, nil) when no such
// user exists.
func (r *UserRepo) UserByID(ctx context.Context, id string) (*model.User, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id)
	return scanUser(row)
}

// UserByEmail fetches a user by normalized email. Returns (nil, nil)
// when no such user exists.
func (r *UserRepo) UserByEmail(ctx context.Context, email string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email)
	return scanUser(row)
}

// UpdatePassword replaces the stored digest for the user.
func (r *UserRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET password=? WHERE id=?", passwordHash, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the user row. Affiliated hospital and doctor rows
// cascade at the schema level.
func (r *UserRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM users WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanUser(row *sql.Row) (*model.User, error) {
	var (
		u      model.User
		name   sql.NullString
		gender sql.NullString
		dob    sql.NullTime
		pic    sql.NullString
	)
	err := row.Scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash,
		&name, &gender, &dob, &pic, &u.UserType, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	u.Name = name.String
	u.Gender = model.Gender(gender.String)
	if dob.Valid {
		t := dob.Time
		u.DOB = &t
	}
	if pic.Valid {
		s := pic.String
		u.ProfilePic = &s
	}
	return &u, nil
}
