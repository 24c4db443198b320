package notify

import (
	"context"
	"fmt"

	gomail "github.com/wneessen/go-mail"
)

// Mailer delivers generation results to the requesting contact. Callers
// dispatch sends asynchronously and must never let a failure surface to the
// request that triggered it.
type Mailer interface {
	SendResult(ctx context.Context, to, imageURL, description string) error
}

// SMTPMailer sends result emails over SMTP.
type SMTPMailer struct {
	host string
	port int
	user string
	pass string
	from string
}

// NewSMTPMailer constructs an SMTPMailer.
func NewSMTPMailer(host string, port int, user, pass, from string) *SMTPMailer {
	return &SMTPMailer{host: host, port: port, user: user, pass: pass, from: from}
}

// SendResult emails the generated image link and description.
func (m *SMTPMailer) SendResult(ctx context.Context, to, imageURL, description string) error {
	msg := gomail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("mailer: from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("mailer: to address: %w", err)
	}
	msg.Subject("Your generated marketing image is ready")
	msg.SetBodyString(gomail.TypeTextPlain, fmt.Sprintf(
		"Thanks for trying our image generator!\n\nYour image: %s\n\nSuggested description:\n%s\n",
		imageURL, description,
	))

	client, err := gomail.NewClient(m.host,
		gomail.WithPort(m.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(m.user),
		gomail.WithPassword(m.pass),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	)
	if err != nil {
		return fmt.Errorf("mailer: client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("mailer: send: %w", err)
	}
	return nil
}

// NopMailer is used when SMTP is not configured.
type NopMailer struct{}

// SendResult does nothing.
func (NopMailer) SendResult(ctx context.Context, to, imageURL, description string) error {
	return nil
}

var (
	_ Mailer = (*SMTPMailer)(nil)
	_ Mailer = NopMailer{}
)
