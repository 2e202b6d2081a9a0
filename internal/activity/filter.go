package activity

import (
	"strings"

	"golang.org/x/text/cases"
)

// Filter keeps the records whose admin, action or school contains term,
// ignoring case. An empty term keeps everything. Order is preserved.
func Filter(records []Record, term string) []Record {
	if term == "" {
		out := make([]Record, len(records))
		copy(out, records)
		return out
	}
	fold := cases.Fold()
	needle := fold.String(term)
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if strings.Contains(fold.String(r.Admin), needle) ||
			strings.Contains(fold.String(r.Action), needle) ||
			strings.Contains(fold.String(r.School), needle) {
			out = append(out, r)
		}
	}
	return out
}
