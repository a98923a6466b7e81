package notifications

import (
	"strings"
	"testing"

	"github.com/Ardalan81/elyassi-exchange/internal/models"
)

func testAppointment() models.Appointment {
	return models.Appointment{
		ID:          "apt-1",
		FirstName:   "Sara",
		ManageToken: "tok en+1",
		Date:        "2026-03-02",
		TimeSlot:    "09:00",
		Status:      models.StatusConfirmed,
	}
}

func TestBuildAppointmentEmail(t *testing.T) {
	msg, err := buildAppointmentEmail(testAppointment(), EventCreated, "https://exchange.example")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if msg.Subject != "Your appointment is set - Elyassi Exchange" {
		t.Fatalf("unexpected subject: %q", msg.Subject)
	}
	if !strings.Contains(msg.Text, "is set") || !strings.Contains(msg.HTML, "is set") {
		t.Fatalf("expected confirmed wording in both bodies")
	}

	// Manage links carry the escaped token for both actions.
	want := "https://exchange.example/?action=reschedule&id=apt-1&token=tok+en%2B1"
	if !strings.Contains(msg.Text, want) {
		t.Fatalf("missing reschedule link, text: %q", msg.Text)
	}
	if !strings.Contains(msg.Text, "action=cancel&id=apt-1") {
		t.Fatalf("missing cancel link, text: %q", msg.Text)
	}
}

func TestBuildAppointmentEmailEventWording(t *testing.T) {
	appointment := testAppointment()
	appointment.Status = models.StatusCanceled

	msg, err := buildAppointmentEmail(appointment, EventCanceled, "https://exchange.example")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if msg.Subject != "Your Elyassi Exchange appointment was canceled" {
		t.Fatalf("unexpected subject: %q", msg.Subject)
	}
	if !strings.Contains(msg.Text, "has been canceled") {
		t.Fatalf("expected canceled wording, got %q", msg.Text)
	}
}

func TestMailerNilReceiver(t *testing.T) {
	var m *Mailer
	if status := m.SendAppointmentEmail(testAppointment(), EventCreated); status != StatusNotConfigured {
		t.Fatalf("expected %q from nil mailer, got %q", StatusNotConfigured, status)
	}
}

func TestNewMailerRequiresFullConfig(t *testing.T) {
	if m := NewMailer("", 587, "u", "p", "from@example.com", "http://localhost"); m != nil {
		t.Fatalf("expected nil mailer without a host")
	}
	if m := NewMailer("smtp.example.com", 587, "u", "p", "from@example.com", "http://localhost"); m == nil {
		t.Fatalf("expected a mailer with full config")
	}
}
