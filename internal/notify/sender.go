// Package notify sends transactional email without blocking request handlers.
package notify

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

type Message struct {
	To      []string
	Subject string
	HTML    string
}

type Sender interface {
	Send(ctx context.Context, m Message) error
}

type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPSender(host string, port int, username, password, from string) *SMTPSender {
	return &SMTPSender{dialer: gomail.NewDialer(host, port, username, password), from: from}
}

// Send gives up waiting when ctx ends; the SMTP exchange itself cannot be interrupted.
func (s *SMTPSender) Send(ctx context.Context, m Message) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", s.from)
	msg.SetHeader("To", m.To...)
	msg.SetHeader("Subject", m.Subject)
	msg.SetBody("text/html", m.HTML)

	done := make(chan error, 1)
	go func() { done <- s.dialer.DialAndSend(msg) }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// LogSender writes messages to the log. Used when no SMTP host is configured.
type LogSender struct{ L *zap.Logger }

func (s LogSender) Send(_ context.Context, m Message) error {
	s.L.Info("email",
		zap.String("to", strings.Join(m.To, ",")),
		zap.String("subject", m.Subject),
		zap.Int("bytes", len(m.HTML)),
	)
	return nil
}
