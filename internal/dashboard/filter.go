package dashboard

import (
	"strings"

	"golang.org/x/text/cases"

	"trafficctl/internal/jobs"
)

var fold = cases.Fold()

// Filter returns the jobs whose job number or name contains the query,
// compared case-insensitively. An empty query returns the input unchanged.
func Filter(records []jobs.JobRecord, query string) []jobs.JobRecord {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return records
	}
	needle := fold.String(trimmed)
	out := make([]jobs.JobRecord, 0, len(records))
	for _, record := range records {
		if strings.Contains(fold.String(record.JobNumber), needle) ||
			strings.Contains(fold.String(record.Name), needle) {
			out = append(out, record)
		}
	}
	return out
}
