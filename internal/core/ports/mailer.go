package ports

import "context"

// MailMessage is a single transactional e-mail.
type MailMessage struct {
	From    string
	To      []string
	Subject string
	Text    string
	HTML    string
}

// Mailer submits a message to the mail relay.
type Mailer interface {
	Send(ctx context.Context, msg MailMessage) error
}

type MailService interface {
	Send(ctx context.Context, msg MailMessage) error
}
