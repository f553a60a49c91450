// Package queue defines the auth domain events published to the
// message broker and the publisher that emits them.
package queue

// Queue names double as routing keys on the default exchange.
const (
	QueueUserRegistered       = "user.registered"
	QueueUserLoggedIn         = "user.logged_in"
	QueueNewsletterSubscribed = "newsletter.subscribed"
)

// UserRegisteredEvent is published after a successful registration.
// It carries enough for downstream consumers (welcome mail, CRM sync)
// without querying the primary database.
type UserRegisteredEvent struct {
	UserID       string `json:"user_id"`
	Email        string `json:"email"`
	Username     string `json:"username"`
	UserType     string `json:"user_type"`
	RegisteredAt string `json:"registered_at"`
}

// UserLoggedInEvent is published after each successful login.
type UserLoggedInEvent struct {
	UserID     string `json:"user_id"`
	Email      string `json:"email"`
	UserType   string `json:"user_type"`
	LoggedInAt string `json:"logged_in_at"`
}

// NewsletterSubscribedEvent is published when a new address joins
// the newsletter.
type NewsletterSubscribedEvent struct {
	Email        string `json:"email"`
	SubscribedAt string `json:"subscribed_at"`
}
