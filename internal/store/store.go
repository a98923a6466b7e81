package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/Ardalan81/elyassi-exchange/internal/models"
)

// Store persists the whole document as one JSON file. Every mutation holds
// the mutex across the full read-modify-write cycle, so concurrent requests
// cannot lose updates.
type Store struct {
	path string
	mu   sync.Mutex
}

func New(path string) *Store {
	return &Store{path: path}
}

// Ensure creates the store file with default contents if it does not exist.
func (s *Store) Ensure() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(s.path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	return s.write(models.DefaultDocument())
}

// Snapshot returns the current document. The returned value is private to
// the caller and reflects the store at the moment of the call only.
func (s *Store) Snapshot() (*models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Mutate applies fn to the document under the store lock and persists the
// result. When fn returns an error nothing is written.
func (s *Store) Mutate(fn func(doc *models.Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}
	return s.write(doc)
}

func (s *Store) load() (*models.Document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return models.DefaultDocument(), nil
		}
		return nil, err
	}

	doc := models.DefaultDocument()
	if err := json.Unmarshal(data, doc); err != nil {
		// Unreadable document: start from defaults rather than refusing
		// every request.
		return models.DefaultDocument(), nil
	}

	changed := false
	for i := range doc.Appointments {
		switch doc.Appointments[i].Status {
		case models.StatusConfirmed, models.StatusRescheduled, models.StatusCanceled:
		default:
			doc.Appointments[i].Status = models.StatusConfirmed
			changed = true
		}
	}
	if doc.Appointments == nil {
		doc.Appointments = []models.Appointment{}
	}
	if doc.BlockedDates == nil {
		doc.BlockedDates = []string{}
	}
	if changed {
		if err := s.write(doc); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

func (s *Store) write(doc *models.Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	// Temp file + rename so a crash mid-write never leaves a torn document.
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".store-*.json")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}
