package mailer

import (
	"fmt"
	"time"

	"gopkg.in/mail.v2"
)

type SMTPMailer struct {
	fromEmail string
	send      func(...*mail.Message) error
	retryWait time.Duration
	sleep     func(time.Duration)
}

func NewSMTP(host string, port int, username, password, fromEmail string) *SMTPMailer {
	d := mail.NewDialer(host, port, username, password)
	d.Timeout = 10 * time.Second

	return &SMTPMailer{
		fromEmail: fromEmail,
		send:      d.DialAndSend,
		retryWait: time.Second,
		sleep:     time.Sleep,
	}
}

func (m *SMTPMailer) Send(templateFile, name, email string, data any) error {
	r, err := Render(templateFile, data)
	if err != nil {
		return fmt.Errorf("render %s: %w", templateFile, err)
	}

	msg := mail.NewMessage()
	msg.SetAddressHeader("From", m.fromEmail, FromName)
	msg.SetAddressHeader("To", email, name)
	msg.SetHeader("Subject", r.Subject)
	msg.SetBody("text/plain", r.PlainBody)
	msg.AddAlternative("text/html", r.HTMLBody)

	for i := 0; i < maxRetries; i++ {
		if err = m.send(msg); err == nil {
			return nil
		}
		if i == maxRetries-1 {
			break
		}
		// exponential backoff
		m.sleep(m.retryWait * time.Duration(1<<i))
	}
	return fmt.Errorf("failed to send email after %d attempts: %w", maxRetries, err)
}
