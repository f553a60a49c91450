package model

import "time"

// Subscriber represents a row of the `newsletter` table.
type Subscriber struct {
	ID        string    // newsletter.id (uuid)
	Email     string    // newsletter.email (unique)
	CreatedAt time.Time // newsletter.created_at
}
