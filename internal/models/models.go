package models

const (
	StatusConfirmed   = "confirmed"
	StatusRescheduled = "rescheduled"
	StatusCanceled    = "canceled"

	DocumentTypePassport   = "passport"
	DocumentTypeNationalID = "national_id"
)

// Document is the whole persisted state: one JSON file on disk.
type Document struct {
	Appointments []Appointment `json:"appointments"`
	BlockedDates []string      `json:"blockedDates"`
	Settings     Settings      `json:"settings"`
}

type Settings struct {
	SlotCapacity int     `json:"slotCapacity"`
	BuyMargin    float64 `json:"buyMargin"`
	SellMargin   float64 `json:"sellMargin"`
}

type DocumentFile struct {
	OriginalName string `json:"originalName"`
	FileName     string `json:"fileName"`
	MimeType     string `json:"mimeType"`
	Size         int64  `json:"size"`
}

type Appointment struct {
	ID             string       `json:"id"`
	FirstName      string       `json:"firstName"`
	LastName       string       `json:"lastName"`
	Email          string       `json:"email"`
	DocumentType   string       `json:"documentType"`
	DocumentNumber string       `json:"documentNumber"`
	DocumentFile   DocumentFile `json:"documentFile"`
	ManageToken    string       `json:"manageToken"`
	Date           string       `json:"date"`
	TimeSlot       string       `json:"timeSlot"`
	Status         string       `json:"status"`
	CreatedAt      int64        `json:"createdAt"`
	UpdatedAt      int64        `json:"updatedAt"`
}

func DefaultSettings() Settings {
	return Settings{
		SlotCapacity: 6,
		BuyMargin:    0.012,
		SellMargin:   0.018,
	}
}

func DefaultDocument() *Document {
	return &Document{
		Appointments: []Appointment{},
		BlockedDates: []string{},
		Settings:     DefaultSettings(),
	}
}
