package jobs

import (
	"fmt"
	"strings"
	"time"
)

// Status represents the server-driven lifecycle of a survey job. Transitions
// happen on the backend; this client only observes them.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusAnalyzing Status = "ANALYZING"
	StatusComplete  Status = "COMPLETE"
)

var allStatuses = []Status{
	StatusPending,
	StatusAnalyzing,
	StatusComplete,
}

// Known reports whether the status is part of the closed enumeration.
func (s Status) Known() bool {
	for _, status := range allStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Badge describes how a status is presented. Every known status maps to a
// presentation; unknown server values fall back to their raw text so new
// backend states stay visible instead of rendering nothing.
type Badge struct {
	Label   string
	Spinner bool
}

// Badge returns the presentation for the status.
func (s Status) Badge() Badge {
	switch s {
	case StatusPending:
		return Badge{Label: "Pending"}
	case StatusAnalyzing:
		return Badge{Label: "Analyzing", Spinner: true}
	case StatusComplete:
		return Badge{Label: "Complete"}
	}
	return Badge{Label: string(s)}
}

// Timestamp wraps time.Time with decoding tolerant of the backend's
// zone-less ISO 8601 timestamps.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
}

// UnmarshalJSON decodes a JSON string or null into the timestamp.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	if raw == "" || raw == "null" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("parse timestamp %q", raw)
}

// MarshalJSON encodes the timestamp as RFC 3339, or null when zero.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + t.Format(time.RFC3339Nano) + `"`), nil
}

// VideoAsset is a video attached to a job. Immutable once attached.
type VideoAsset struct {
	ID       int64  `json:"id"`
	Filename string `json:"filename"`
}

// JobRecord is the server-owned representation of a survey job.
type JobRecord struct {
	ID              int64        `json:"id"`
	JobNumber       string       `json:"job_number"`
	Name            string       `json:"name"`
	Status          Status       `json:"status"`
	Latitude        string       `json:"latitude"`
	Longitude       string       `json:"longitude"`
	AdditionalNotes string       `json:"additional_notes"`
	SurveyHours     string       `json:"survey_hours"`
	SurveyTypes     string       `json:"survey_types"`
	Videos          []VideoAsset `json:"videos"`
	CreatedAt       Timestamp    `json:"created_at"`
	CompletedAt     *Timestamp   `json:"completed_at"`
}

// SurveyTypeList splits the server's comma-separated survey types field.
func (j JobRecord) SurveyTypeList() []string {
	if strings.TrimSpace(j.SurveyTypes) == "" {
		return nil
	}
	parts := strings.Split(j.SurveyTypes, ",")
	list := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			list = append(list, trimmed)
		}
	}
	return list
}

// ReportRecord is a generated report artifact belonging to a job.
// Append-only from the client's perspective.
type ReportRecord struct {
	ID          int64     `json:"id"`
	FilePath    string    `json:"file_path"`
	ReportType  string    `json:"report_type"`
	GeneratedAt Timestamp `json:"generated_at"`
}
