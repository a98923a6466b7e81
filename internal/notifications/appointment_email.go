package notifications

import (
	"bytes"
	"fmt"
	"html/template"
	"net/url"

	"github.com/Ardalan81/elyassi-exchange/internal/models"
)

const appointmentEmailTemplate = `<div style="font-family: Arial, sans-serif; line-height: 1.6;">
  <h2>{{.Subject}}</h2>
  <p>Hello {{.FirstName}},</p>
  <p>Your appointment at <strong>Elyassi Exchange</strong> <strong>{{.StatusText}}</strong>.</p>
  <p><strong>Date:</strong> {{.Date}}<br />
  <strong>Time:</strong> {{.TimeSlot}}</p>
  <p>
    <a href="{{.RescheduleLink}}" style="color:#0f766e;font-weight:600;">Reschedule</a>
    &middot;
    <a href="{{.CancelLink}}" style="color:#b91c1c;font-weight:600;">Cancel appointment</a>
  </p>
  <p>Thank you for choosing Elyassi Exchange.</p>
</div>`

var appointmentEmailTmpl = template.Must(template.New("appointment_email").Parse(appointmentEmailTemplate))

type appointmentEmailData struct {
	Subject        string
	FirstName      string
	StatusText     string
	Date           string
	TimeSlot       string
	RescheduleLink string
	CancelLink     string
}

type emailMessage struct {
	Subject string
	Text    string
	HTML    string
}

func eventSubject(event Event) string {
	switch event {
	case EventCreated:
		return "Your appointment is set - Elyassi Exchange"
	case EventRescheduled:
		return "Your Elyassi Exchange appointment was rescheduled"
	case EventCanceled:
		return "Your Elyassi Exchange appointment was canceled"
	default:
		return "Your Elyassi Exchange appointment update"
	}
}

func statusText(status string) string {
	switch status {
	case models.StatusConfirmed:
		return "is set"
	case models.StatusRescheduled:
		return "has been rescheduled"
	case models.StatusCanceled:
		return "has been canceled"
	default:
		return "is " + status
	}
}

func buildAppointmentEmail(appointment models.Appointment, event Event, baseURL string) (emailMessage, error) {
	token := url.QueryEscape(appointment.ManageToken)
	rescheduleLink := fmt.Sprintf("%s/?action=reschedule&id=%s&token=%s", baseURL, appointment.ID, token)
	cancelLink := fmt.Sprintf("%s/?action=cancel&id=%s&token=%s", baseURL, appointment.ID, token)

	data := appointmentEmailData{
		Subject:        eventSubject(event),
		FirstName:      appointment.FirstName,
		StatusText:     statusText(appointment.Status),
		Date:           appointment.Date,
		TimeSlot:       appointment.TimeSlot,
		RescheduleLink: rescheduleLink,
		CancelLink:     cancelLink,
	}

	var buf bytes.Buffer
	if err := appointmentEmailTmpl.Execute(&buf, data); err != nil {
		return emailMessage{}, err
	}

	text := fmt.Sprintf(
		"Hello %s,\n\nYour appointment at Elyassi Exchange %s.\nDate: %s\nTime: %s\n\nTo reschedule: %s\nTo cancel: %s\n\nThank you.",
		appointment.FirstName, data.StatusText, appointment.Date, appointment.TimeSlot, rescheduleLink, cancelLink,
	)

	return emailMessage{
		Subject: data.Subject,
		Text:    text,
		HTML:    buf.String(),
	}, nil
}
