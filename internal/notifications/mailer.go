package notifications

import (
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/Ardalan81/elyassi-exchange/internal/models"
)

// Notification outcomes. not_configured is a documented degraded mode, not
// an error: the booking that triggered the email stands regardless.
const (
	StatusSent          = "sent"
	StatusNotConfigured = "not_configured"
	StatusFailed        = "failed"
)

type Event string

const (
	EventCreated     Event = "created"
	EventRescheduled Event = "rescheduled"
	EventCanceled    Event = "canceled"
	EventUpdated     Event = "updated"
)

type Mailer struct {
	dialer  *gomail.Dialer
	from    string
	baseURL string
}

// NewMailer returns nil unless the SMTP transport is fully configured.
func NewMailer(host string, port int, user, pass, from, baseURL string) *Mailer {
	if strings.TrimSpace(host) == "" || port == 0 || strings.TrimSpace(user) == "" || strings.TrimSpace(pass) == "" {
		return nil
	}
	if strings.TrimSpace(from) == "" {
		from = user
	}
	dialer := gomail.NewDialer(host, port, user, pass)
	return &Mailer{
		dialer:  dialer,
		from:    from,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// SendAppointmentEmail delivers a lifecycle email and reports one of the
// three outcomes. It never blocks the appointment mutation that triggered
// it: failures degrade to a status string.
func (m *Mailer) SendAppointmentEmail(appointment models.Appointment, event Event) string {
	if m == nil {
		return StatusNotConfigured
	}

	message, err := buildAppointmentEmail(appointment, event, m.baseURL)
	if err != nil {
		return StatusFailed
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", appointment.Email)
	msg.SetHeader("Subject", message.Subject)
	msg.SetBody("text/plain", message.Text)
	msg.AddAlternative("text/html", message.HTML)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return StatusFailed
	}
	return StatusSent
}
