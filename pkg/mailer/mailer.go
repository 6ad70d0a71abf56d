package mailer

import "context"

// Message is a plain-text email to a single recipient.
type Message struct {
	ToName  string
	ToEmail string
	Subject string
	Body    string
}

// Mailer delivers messages through an outbound provider.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}
