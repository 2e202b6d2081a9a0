package activity

import (
	"context"
	"fmt"
	"strings"
)

// Page is what the log viewer renders.
type Page struct {
	Term     string
	Stats    []Stat
	Rows     []Record
	Selected *Record
}

// Service serves the log viewer.
type Service struct {
	source Source
}

// NewService constructs a Service over source.
func NewService(source Source) *Service {
	return &Service{source: source}
}

// View lists the records matching term. When selectedID is positive the
// record with that ID, if any, is returned for the detail modal.
func (s *Service) View(ctx context.Context, term string, selectedID int64) (Page, error) {
	if s.source == nil {
		return Page{}, fmt.Errorf("activity: source not configured")
	}
	records, err := s.source.List(ctx)
	if err != nil {
		return Page{}, fmt.Errorf("activity: list records: %w", err)
	}
	page := Page{
		Term:  term,
		Stats: Summarize(records),
		Rows:  Filter(records, term),
	}
	if selectedID > 0 {
		for i := range records {
			if records[i].ID == selectedID {
				rec := records[i]
				page.Selected = &rec
				break
			}
		}
	}
	return page, nil
}

// Summarize derives the summary cards from records.
func Summarize(records []Record) []Stat {
	var logins, transfers, modifications int
	for _, r := range records {
		action := strings.ToLower(r.Action)
		switch {
		case action == "login":
			logins++
		case strings.Contains(action, "transfer"):
			transfers++
		case strings.Contains(action, "update"):
			modifications++
		}
	}
	return []Stat{
		{Title: "Total Actions", Value: len(records)},
		{Title: "Admin Logins", Value: logins},
		{Title: "Transfers Processed", Value: transfers},
		{Title: "Modifications", Value: modifications},
	}
}
