package mail

import (
	"context"
	"errors"
	"strings"

	"github.com/vuongdotheanh/Website-EduManager7.github.io/config"
	gomail "github.com/wneessen/go-mail"
)

// SMTPSender delivers messages through an authenticated STARTTLS relay.
type SMTPSender struct {
	client *gomail.Client
	from   string
}

// NewSMTPSender constructs an SMTP sender from config.
func NewSMTPSender(cfg config.MailConfig) (*SMTPSender, error) {
	if strings.TrimSpace(cfg.Host) == "" {
		return nil, errors.New("smtp host is required")
	}
	if strings.TrimSpace(cfg.From) == "" {
		return nil, errors.New("mail from address is required")
	}

	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
		gomail.WithTLSPolicy(gomail.TLSMandatory),
	}
	if cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}

	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, err
	}

	return &SMTPSender{client: client, from: cfg.From}, nil
}

// Send blocks until the relay accepts or rejects the message.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	m := gomail.NewMsg()
	if err := m.From(s.from); err != nil {
		return err
	}
	if err := m.To(msg.To); err != nil {
		return err
	}
	m.Subject(msg.Subject)
	m.SetBodyString(gomail.TypeTextHTML, msg.HTML)

	return s.client.DialAndSendWithContext(ctx, m)
}
