package jobs

import (
	"encoding/json"
	"testing"
	"time"
)

func TestBadgeCoversEveryStatus(t *testing.T) {
	for _, status := range allStatuses {
		badge := status.Badge()
		if badge.Label == "" {
			t.Fatalf("status %q has no badge label", status)
		}
	}
	if !StatusAnalyzing.Badge().Spinner {
		t.Fatal("analyzing badge should carry the spinner treatment")
	}
	if StatusPending.Badge().Spinner || StatusComplete.Badge().Spinner {
		t.Fatal("only analyzing should spin")
	}
}

func TestBadgeUnknownStatusFallsBackToRawText(t *testing.T) {
	badge := Status("QUEUED").Badge()
	if badge.Label != "QUEUED" {
		t.Fatalf("unexpected label for unknown status: %q", badge.Label)
	}
}

func TestKnownCoversTheClosedEnumeration(t *testing.T) {
	for _, status := range allStatuses {
		if !status.Known() {
			t.Fatalf("status %q should be known", status)
		}
	}
	if Status("QUEUED").Known() {
		t.Fatal("QUEUED is not part of the enumeration")
	}
}

func TestTimestampDecodesBackendFormats(t *testing.T) {
	cases := []struct {
		input string
		want  time.Time
	}{
		{`"2025-03-02T10:30:00Z"`, time.Date(2025, 3, 2, 10, 30, 0, 0, time.UTC)},
		{`"2025-03-02T10:30:00.123456"`, time.Date(2025, 3, 2, 10, 30, 0, 123456000, time.UTC)},
		{`"2025-03-02T10:30:00"`, time.Date(2025, 3, 2, 10, 30, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		var ts Timestamp
		if err := json.Unmarshal([]byte(tc.input), &ts); err != nil {
			t.Fatalf("unmarshal %s: %v", tc.input, err)
		}
		if !ts.Time.Equal(tc.want) {
			t.Fatalf("unmarshal %s = %v, want %v", tc.input, ts.Time, tc.want)
		}
	}

	var ts Timestamp
	if err := json.Unmarshal([]byte("null"), &ts); err != nil {
		t.Fatalf("unmarshal null: %v", err)
	}
	if !ts.IsZero() {
		t.Fatalf("expected zero time for null, got %v", ts.Time)
	}
}

func TestJobRecordDecode(t *testing.T) {
	payload := `{
		"id": 12,
		"job_number": "A1",
		"name": "Main St",
		"status": "ANALYZING",
		"latitude": "33.749",
		"longitude": "-84.388",
		"additional_notes": "peak hour",
		"survey_hours": "9:00 AM - 5:00 PM",
		"survey_types": "Turn Counts, Pedestrian Tracking",
		"videos": [{"id": 3, "filename": "cam1.mp4"}],
		"created_at": "2025-03-02T10:30:00",
		"completed_at": null
	}`
	var job JobRecord
	if err := json.Unmarshal([]byte(payload), &job); err != nil {
		t.Fatalf("unmarshal job: %v", err)
	}
	if job.Status != StatusAnalyzing {
		t.Fatalf("unexpected status: %q", job.Status)
	}
	if job.CompletedAt != nil {
		t.Fatalf("expected nil completed_at, got %v", job.CompletedAt)
	}
	if len(job.Videos) != 1 || job.Videos[0].Filename != "cam1.mp4" {
		t.Fatalf("unexpected videos: %#v", job.Videos)
	}
	types := job.SurveyTypeList()
	if len(types) != 2 || types[0] != "Turn Counts" || types[1] != "Pedestrian Tracking" {
		t.Fatalf("unexpected survey types: %#v", types)
	}
}
