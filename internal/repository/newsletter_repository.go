package repository

import (
	"context"
	"database/sql"
	"strings"
)

// NewsletterRepo provides access to the `newsletter` table.
type NewsletterRepo struct{ DB *sql.DB }

func NewNewsletterRepo(db *sql.DB) *NewsletterRepo { return &NewsletterRepo{DB: db} }

// Subscribe records an email address. An address that is already
// subscribed fails with ErrConflict; callers usually treat that as
// success.
func (r *NewsletterRepo) Subscribe(ctx context.Context, id, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO newsletter (id, email) VALUES (?,?)", id, email)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrConflict
		}
		return err
	}
	return nil
}
