package utils

import (
	"fmt"

	"github.com/sirupsen/logrus" // Logging library
	"gopkg.in/gomail.v2"         // SMTP mail client
)

// Mailer sends transactional mail over SMTP. With no host configured it
// logs messages instead of sending them, so local setups work without SMTP.
type Mailer struct {
	host string // SMTP host
	port int    // SMTP port
	user string // SMTP username
	pass string // SMTP password
	from string // Sender address
}

// NewMailer builds a Mailer from SMTP settings
func NewMailer(host string, port int, user, pass, from string) *Mailer {
	return &Mailer{host: host, port: port, user: user, pass: pass, from: from}
}

// SendResetCode delivers a password-reset code to the given address
func (m *Mailer) SendResetCode(to, code string) error {
	body := fmt.Sprintf("Your password reset code is %s. It expires in 5 minutes.", code)
	if m == nil || m.host == "" {
		// No SMTP configured: log the code so development flows still work
		logrus.WithFields(logrus.Fields{"to": to, "code": code}).Warn("SMTP not configured, logging reset code")
		return nil
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Your password reset code")
	msg.SetBody("text/plain", body)
	dialer := gomail.NewDialer(m.host, m.port, m.user, m.pass)
	return dialer.DialAndSend(msg)
}
