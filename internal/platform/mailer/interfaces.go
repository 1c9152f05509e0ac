package mailer

import "fmt"

type Service interface {
	Send(toEmail, toName, subject, text, html string) (string, error)
	SendBookingConfirmation(email, name, date, timeLabel string, price float64, meetingLink, rebookingCode string) error
	SendPasswordReset(email, token string) error
}

func confirmationContent(name, date, timeLabel string, price float64, meetingLink, rebookingCode string) (subject, text, html string) {
	subject = "Your appointment is booked"
	text = fmt.Sprintf("Hi %s,\n\nYour appointment on %s at %s is confirmed.\nPrice: %.2f\nJoin here: %s\n", name, date, timeLabel, price, meetingLink)
	html = fmt.Sprintf(`<p>Hi %s,</p><p>Your appointment on <b>%s</b> at <b>%s</b> is confirmed.</p><p>Price: %.2f</p><p>Join here: <a href="%s">%s</a></p>`,
		name, date, timeLabel, price, meetingLink, meetingLink)
	if rebookingCode != "" {
		text += fmt.Sprintf("\nYour rebooking code: %s (valid 14 days from the appointment).\n", rebookingCode)
		html += fmt.Sprintf(`<p>Your rebooking code: <b>%s</b> (valid 14 days from the appointment).</p>`, rebookingCode)
	}
	return subject, text, html
}

func resetContent(token string) (subject, text, html string) {
	subject = "Password reset"
	text = fmt.Sprintf("Use this token to reset your password: %s\nIt expires in one hour.", token)
	html = fmt.Sprintf(`<p>Use this token to reset your password: <b>%s</b></p><p>It expires in one hour.</p>`, token)
	return subject, text, html
}
