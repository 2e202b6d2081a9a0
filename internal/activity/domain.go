// Package activity holds the admin activity log: its records, the sources
// they are read from, the search filter used by the log viewer and the
// recorder that appends new entries.
package activity

import (
	"context"
	"time"
)

// NoSchool marks a record that did not touch any school.
const NoSchool = "-"

// TimestampLayout is how timestamps are displayed.
const TimestampLayout = "2006-01-02 03:04 PM"

// Record is one activity log entry. Records are immutable once created.
type Record struct {
	ID          int64
	Admin       string
	Role        string
	Action      string
	School      string
	Description string
	IP          string
	Timestamp   time.Time
}

// HasIP reports whether the optional IP address is present.
func (r Record) HasIP() bool {
	return r.IP != ""
}

// FormattedTime renders Timestamp with TimestampLayout.
func (r Record) FormattedTime() string {
	if r.Timestamp.IsZero() {
		return ""
	}
	return r.Timestamp.Format(TimestampLayout)
}

// Entry is a new record before the store assigns its ID.
type Entry struct {
	Admin       string    `json:"admin"`
	Role        string    `json:"role"`
	Action      string    `json:"action"`
	School      string    `json:"school"`
	Description string    `json:"description"`
	IP          string    `json:"ip,omitempty"`
	At          time.Time `json:"at"`
}

// Source supplies records in display order.
type Source interface {
	List(ctx context.Context) ([]Record, error)
}

// Appender stores new entries.
type Appender interface {
	Append(ctx context.Context, entry Entry) (Record, error)
}

// Recorder accepts new entries from the rest of the application.
type Recorder interface {
	Record(ctx context.Context, entry Entry) error
}

// Stat is one summary card shown above the log table.
type Stat struct {
	Title string
	Value int
}
