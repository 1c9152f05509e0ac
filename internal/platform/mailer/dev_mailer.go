package mailer

import (
	"github.com/kakunuriMahesh/doctor-appointments/pkg/logger"
)

// DevMailer writes emails to the log instead of sending them. Used in local
// development where no SMTP or MailerSend credentials exist.
type DevMailer struct{}

func NewDevMailer() *DevMailer { return &DevMailer{} }

func (d *DevMailer) Send(toEmail, toName, subject, text, html string) (string, error) {
	logger.Info("dev mailer: email not sent",
		"to", toEmail,
		"subject", subject,
		"text", text,
	)
	return "dev", nil
}

func (d *DevMailer) SendBookingConfirmation(email, name, date, timeLabel string, price float64, meetingLink, rebookingCode string) error {
	subject, text, _ := confirmationContent(name, date, timeLabel, price, meetingLink, rebookingCode)
	_, err := d.Send(email, name, subject, text, "")
	return err
}

func (d *DevMailer) SendPasswordReset(email, token string) error {
	subject, text, _ := resetContent(token)
	_, err := d.Send(email, "", subject, text, "")
	return err
}

var (
	_ Service = (*DevMailer)(nil)
	_ Service = (*SMTPMailer)(nil)
	_ Service = (*Mailer)(nil)
)
