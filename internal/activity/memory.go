package activity

import (
	"context"
	"strings"
	"sync"
	"time"
)

// MemorySource is an append-only in-process record list.
type MemorySource struct {
	mu      sync.RWMutex
	records []Record
	nextID  int64
	now     func() time.Time
}

// NewMemorySource returns a source holding seed in the given order.
func NewMemorySource(seed []Record) *MemorySource {
	s := &MemorySource{now: time.Now}
	for _, r := range seed {
		s.records = append(s.records, r)
		if r.ID >= s.nextID {
			s.nextID = r.ID
		}
	}
	return s
}

// List returns a copy of the records.
func (s *MemorySource) List(ctx context.Context) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out, nil
}

// Append adds entry at the front so the newest record is listed first.
func (s *MemorySource) Append(ctx context.Context, entry Entry) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	rec := entry.toRecord(s.nextID, s.now)
	s.records = append([]Record{rec}, s.records...)
	return rec, nil
}

func (e Entry) toRecord(id int64, now func() time.Time) Record {
	at := e.At
	if at.IsZero() {
		at = now()
	}
	school := strings.TrimSpace(e.School)
	if school == "" {
		school = NoSchool
	}
	return Record{
		ID:          id,
		Admin:       e.Admin,
		Role:        e.Role,
		Action:      e.Action,
		School:      school,
		Description: e.Description,
		IP:          e.IP,
		Timestamp:   at,
	}
}

// MockRecords is the demo data shown by the log viewer.
func MockRecords() []Record {
	at := func(s string) time.Time {
		t, err := time.ParseInLocation(TimestampLayout, s, time.Local)
		if err != nil {
			panic(err)
		}
		return t
	}
	return []Record{
		{
			ID: 1, Admin: "John Doe", Role: "Super Admin", Action: "Login", School: NoSchool,
			Description: "Admin logged in", IP: "192.168.1.1", Timestamp: at("2024-02-16 08:30 AM"),
		},
		{
			ID: 2, Admin: "Jane Smith", Role: "Admin", Action: "Employee Transfer", School: "School A",
			Description: "Approved transfer request for Employee X", Timestamp: at("2024-02-15 03:45 PM"),
		},
		{
			ID: 3, Admin: "Alice Brown", Role: "Super Admin", Action: "Profile Update", School: "School C",
			Description: "Changed designation for Employee Y", Timestamp: at("2024-02-15 10:15 AM"),
		},
		{
			ID: 4, Admin: "Michael Johnson", Role: "Admin", Action: "Failed Login", School: NoSchool,
			Description: "Unsuccessful login attempt", IP: "203.0.113.5", Timestamp: at("2024-02-14 07:50 PM"),
		},
	}
}

var (
	_ Source   = (*MemorySource)(nil)
	_ Appender = (*MemorySource)(nil)
)
