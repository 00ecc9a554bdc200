// Package mailer delivers one-time codes to account holders. Delivery
// failure never blocks a flow: callers persist state first, attempt
// delivery second, and surface a warning when it fails.
package mailer

import "context"

// Message is a single outbound email.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Mailer sends a Message. Implementations must be safe for concurrent use.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}
