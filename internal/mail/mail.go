package mail

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log"
	"strings"

	"github.com/vuongdotheanh/Website-EduManager7.github.io/config"
)

// Message is a single outbound HTML email.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Sender delivers a message to its recipient. A nil error means the relay
// accepted the message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

const verificationSubject = "Mã xác thực đăng ký EduManager"

var verificationTemplate = template.Must(template.New("verification").Parse(`<html>
    <body>
        <h2>Xin chào,</h2>
        <p>Mã xác thực của bạn là: <strong style="color: #4361ee; font-size: 20px;">{{.Code}}</strong></p>
        <p>Vui lòng không chia sẻ mã này cho ai.</p>
    </body>
</html>
`))

// VerificationMessage composes the email carrying a one-time code.
func VerificationMessage(to, code string) (Message, error) {
	var body bytes.Buffer
	if err := verificationTemplate.Execute(&body, struct{ Code string }{Code: code}); err != nil {
		return Message{}, err
	}
	return Message{
		To:      to,
		Subject: verificationSubject,
		HTML:    body.String(),
	}, nil
}

// NewSender builds the sender selected by cfg.Driver.
func NewSender(cfg config.MailConfig) (Sender, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", "smtp":
		return NewSMTPSender(cfg)
	case "log":
		return LogSender{}, nil
	default:
		return nil, fmt.Errorf("unknown mail driver %q", cfg.Driver)
	}
}

// LogSender prints messages instead of delivering them. Development only:
// verification codes end up in the process log.
type LogSender struct{}

func (LogSender) Send(ctx context.Context, msg Message) error {
	log.Printf("mail to=%s subject=%q\n%s", msg.To, msg.Subject, msg.HTML)
	return nil
}
