package utils

import (
	"crypto/tls"
	"fmt"
	"net/smtp"
	"os"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
)

// ErrMailAuth marks a rejected SMTP login so callers can surface it as an
// authentication failure rather than a generic send error.
var ErrMailAuth = eris.New("smtp authentication failed")

// Mailer delivers contact-form submissions.
type Mailer interface {
	SendContactMessage(name, email, message string) error
}

type MailConfig struct {
	SMTPHost  string
	SMTPPort  string
	Username  string
	Password  string
	Sender    string
	Recipient string
}

func LoadMailConfig() MailConfig {
	return MailConfig{
		SMTPHost:  os.Getenv("SMTP_HOST"),
		SMTPPort:  os.Getenv("SMTP_PORT"),
		Username:  os.Getenv("SMTP_USERNAME"),
		Password:  os.Getenv("SMTP_PASSWORD"),
		Sender:    os.Getenv("SMTP_SENDER"),
		Recipient: os.Getenv("CONTACT_RECIPIENT"),
	}
}

// SMTPMailer sends mail over SMTP with STARTTLS.
type SMTPMailer struct {
	config MailConfig
	logger *logrus.Logger
}

func NewSMTPMailer(config MailConfig, logger *logrus.Logger) *SMTPMailer {
	return &SMTPMailer{config: config, logger: logger}
}

var _ Mailer = (*SMTPMailer)(nil)

// SendContactMessage formats a portfolio inquiry and delivers it to the
// configured recipient, with the visitor's address as Reply-To.
func (m *SMTPMailer) SendContactMessage(name, email, message string) error {
	subject := fmt.Sprintf("Portfolio Inquiry from %s", name)
	body := fmt.Sprintf("Name: %s\nEmail: %s\n\n%s", name, email, message)
	return m.send(m.config.Recipient, email, subject, body)
}

func (m *SMTPMailer) send(recipient, replyTo, subject, message string) error {
	smtpAddr := m.config.SMTPHost + ":" + m.config.SMTPPort

	client, err := smtp.Dial(smtpAddr)
	if err != nil {
		m.logger.WithField("addr", smtpAddr).WithError(err).Error("failed to connect to SMTP server")
		return eris.Wrap(err, "connecting to SMTP server")
	}
	defer client.Close()

	tlsConfig := &tls.Config{
		ServerName: m.config.SMTPHost,
		MinVersion: tls.VersionTLS12,
	}
	if err = client.StartTLS(tlsConfig); err != nil {
		return eris.Wrap(err, "starting TLS")
	}

	auth := smtp.PlainAuth("", m.config.Username, m.config.Password, m.config.SMTPHost)
	if err = client.Auth(auth); err != nil {
		m.logger.WithError(err).Error("SMTP authentication rejected")
		return eris.Wrap(ErrMailAuth, err.Error())
	}

	if err = client.Mail(m.config.Sender); err != nil {
		return eris.Wrap(err, "setting sender")
	}
	if err = client.Rcpt(recipient); err != nil {
		return eris.Wrap(err, "setting recipient")
	}

	writer, err := client.Data()
	if err != nil {
		return eris.Wrap(err, "opening mail writer")
	}

	emailBody := fmt.Sprintf("From: %s\r\nTo: %s\r\nReply-To: %s\r\nSubject: %s\r\n\r\n%s",
		m.config.Sender, recipient, replyTo, subject, message)

	if _, err = writer.Write([]byte(emailBody)); err != nil {
		return eris.Wrap(err, "writing email body")
	}
	if err = writer.Close(); err != nil {
		return eris.Wrap(err, "closing mail writer")
	}

	if err = client.Quit(); err != nil {
		m.logger.WithError(err).Warn("SMTP connection did not close cleanly")
	}

	return nil
}
