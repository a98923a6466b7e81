package schedule

import (
	"errors"
	"sort"
	"time"

	"github.com/Ardalan81/elyassi-exchange/internal/models"
)

var (
	ErrInvalidDate = errors.New("invalid date format")
	ErrInvalidSlot = errors.New("invalid time slot")
)

type TimeSlot struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// TimeSlots is the fixed set of bookable hourly slots.
var TimeSlots = []TimeSlot{
	{Value: "09:00", Label: "09:00 - 10:00"},
	{Value: "10:00", Label: "10:00 - 11:00"},
	{Value: "11:00", Label: "11:00 - 12:00"},
	{Value: "12:00", Label: "12:00 - 13:00"},
	{Value: "13:00", Label: "13:00 - 14:00"},
	{Value: "14:00", Label: "14:00 - 15:00"},
	{Value: "15:00", Label: "15:00 - 16:00"},
	{Value: "16:00", Label: "16:00 - 17:00"},
}

func IsValidSlot(value string) bool {
	for _, slot := range TimeSlots {
		if slot.Value == value {
			return true
		}
	}
	return false
}

func ParseDate(dateStr string) (time.Time, error) {
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return date, nil
}

// IsClosedDate reports whether a civil date accepts bookings: a date is
// closed when explicitly blocked or when its weekday is in closedWeekdays
// (0 = Sunday).
func IsClosedDate(dateStr string, blockedDates []string, closedWeekdays []int) bool {
	for _, blocked := range blockedDates {
		if blocked == dateStr {
			return true
		}
	}
	date, err := ParseDate(dateStr)
	if err != nil {
		return false
	}
	weekday := int(date.Weekday())
	for _, closed := range closedWeekdays {
		if closed == weekday {
			return true
		}
	}
	return false
}

type Availability struct {
	Closed         bool           `json:"closed"`
	SlotCapacity   int            `json:"slotCapacity"`
	ReservedCounts map[string]int `json:"reservedCounts"`
}

// ComputeAvailability derives the open/closed flag and per-slot reservation
// counts for one date from a store snapshot. Canceled appointments do not
// hold a reservation. Pure read: callers must recompute before every booking
// decision.
func ComputeAvailability(dateStr string, doc *models.Document, closedWeekdays []int) Availability {
	counts := make(map[string]int)
	for _, appt := range doc.Appointments {
		if appt.Date != dateStr || appt.Status == models.StatusCanceled {
			continue
		}
		counts[appt.TimeSlot]++
	}
	return Availability{
		Closed:         IsClosedDate(dateStr, doc.BlockedDates, closedWeekdays),
		SlotCapacity:   doc.Settings.SlotCapacity,
		ReservedCounts: counts,
	}
}

// ActiveQueue returns every non-canceled appointment ordered by date, then
// time slot, then creation time.
func ActiveQueue(appointments []models.Appointment) []models.Appointment {
	queue := make([]models.Appointment, 0, len(appointments))
	for _, appt := range appointments {
		if appt.Status != models.StatusCanceled {
			queue = append(queue, appt)
		}
	}
	sort.SliceStable(queue, func(i, j int) bool {
		if queue[i].Date != queue[j].Date {
			return queue[i].Date < queue[j].Date
		}
		if queue[i].TimeSlot != queue[j].TimeSlot {
			return queue[i].TimeSlot < queue[j].TimeSlot
		}
		return queue[i].CreatedAt < queue[j].CreatedAt
	})
	return queue
}

// QueuePosition returns the 1-based position of an appointment in the active
// queue, or 0 when it is not queued.
func QueuePosition(queue []models.Appointment, id string) int {
	for i, appt := range queue {
		if appt.ID == id {
			return i + 1
		}
	}
	return 0
}

// Stats counts appointments per status, canceled included.
func Stats(appointments []models.Appointment) map[string]int {
	stats := map[string]int{
		models.StatusConfirmed:   0,
		models.StatusRescheduled: 0,
		models.StatusCanceled:    0,
	}
	for _, appt := range appointments {
		stats[appt.Status]++
	}
	return stats
}
