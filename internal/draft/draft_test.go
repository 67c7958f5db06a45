package draft

import (
	"reflect"
	"testing"

	"trafficctl/internal/jobs"
)

var atlanta = Coordinate{Lat: 33.749, Lng: -84.388}

func TestToggleSurveyTypeTwiceRestoresSet(t *testing.T) {
	d := New(atlanta)
	d.ToggleSurveyType("TMC")
	d.ToggleSurveyType("ATR")
	before := d.SurveyTypes()

	d.ToggleSurveyType("Speed")
	d.ToggleSurveyType("Speed")

	if !reflect.DeepEqual(d.SurveyTypes(), before) {
		t.Fatalf("survey types = %v, want %v", d.SurveyTypes(), before)
	}
}

func TestToggleSurveyTypeReportsSelection(t *testing.T) {
	d := New(atlanta)
	if !d.ToggleSurveyType("TMC") {
		t.Fatal("first toggle did not select")
	}
	if d.ToggleSurveyType("TMC") {
		t.Fatal("second toggle did not deselect")
	}
	if d.HasSurveyType("TMC") {
		t.Fatal("tag still selected after deselect")
	}
}

func TestStagedFilesPreserveOrderAndDuplicates(t *testing.T) {
	d := New(atlanta)
	d.AddFiles("a.mp4", "b.mp4")
	d.AddFiles("a.mp4")

	want := []string{"a.mp4", "b.mp4", "a.mp4"}
	if !reflect.DeepEqual(d.StagedFiles(), want) {
		t.Fatalf("staged files = %v, want %v", d.StagedFiles(), want)
	}

	if !d.RemoveFile(1) {
		t.Fatal("RemoveFile(1) rejected")
	}
	want = []string{"a.mp4", "a.mp4"}
	if !reflect.DeepEqual(d.StagedFiles(), want) {
		t.Fatalf("staged files = %v after remove, want %v", d.StagedFiles(), want)
	}

	if d.RemoveFile(5) {
		t.Fatal("RemoveFile accepted out-of-range index")
	}
	if d.RemoveFile(-1) {
		t.Fatal("RemoveFile accepted negative index")
	}
}

func TestReadOnlyDraftIgnoresMutations(t *testing.T) {
	record := jobs.JobRecord{
		ID:          7,
		Name:        "Peachtree St",
		JobNumber:   "JOB-7",
		SurveyTypes: "TMC,ATR",
		Latitude:    "33.749",
		Longitude:   "-84.388",
	}
	d := FromRecord(record, true, atlanta)

	d.SetJobNumber("changed")
	d.SetNotes("changed")
	d.ToggleSurveyType("Speed")
	d.AddFiles("x.mp4")
	d.RequestLocationEdit()
	d.SelectPoint(1, 2)

	if d.JobNumber() != "JOB-7" {
		t.Fatalf("job number = %q", d.JobNumber())
	}
	if d.Notes() != "" {
		t.Fatalf("notes = %q", d.Notes())
	}
	if !reflect.DeepEqual(d.SurveyTypes(), []string{"TMC", "ATR"}) {
		t.Fatalf("survey types = %v", d.SurveyTypes())
	}
	if len(d.StagedFiles()) != 0 {
		t.Fatalf("staged files = %v", d.StagedFiles())
	}
	if d.Location().State() != LocationSaved {
		t.Fatalf("location state = %q", d.Location().State())
	}
}

func TestFromRecordFallsBackToName(t *testing.T) {
	record := jobs.JobRecord{ID: 3, Name: "Midtown Count"}
	d := FromRecord(record, false, atlanta)
	if d.JobNumber() != "Midtown Count" {
		t.Fatalf("job number = %q, want name fallback", d.JobNumber())
	}
	if d.Intent() != IntentUpdate {
		t.Fatalf("intent = %q", d.Intent())
	}
	if d.Location().State() != LocationUnset {
		t.Fatalf("location state = %q with unparseable coordinates", d.Location().State())
	}
	if got := d.Location().Candidate(); got != atlanta {
		t.Fatalf("candidate = %+v, want fallback", got)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	d := New(atlanta)
	d.SetJobNumber("JOB-42")
	d.SetNotes("overnight count")
	d.SetSurveyHours("24")
	d.ToggleSurveyType("TMC")
	d.AddFiles("cam1.mp4", "cam2.mp4")
	d.RequestLocationEdit()
	d.SelectPoint(34.0, -85.0)
	d.ConfirmLocation()

	restored := FromSnapshot(d.Snapshot())

	if restored.ID() != d.ID() {
		t.Fatalf("id = %q, want %q", restored.ID(), d.ID())
	}
	if restored.JobNumber() != "JOB-42" || restored.SurveyHours() != "24" {
		t.Fatalf("fields lost: %q %q", restored.JobNumber(), restored.SurveyHours())
	}
	if !reflect.DeepEqual(restored.StagedFiles(), d.StagedFiles()) {
		t.Fatalf("files = %v, want %v", restored.StagedFiles(), d.StagedFiles())
	}
	if restored.Location().State() != LocationSaved {
		t.Fatalf("location state = %q", restored.Location().State())
	}
	committed, ok := restored.Location().Committed()
	if !ok || committed != (Coordinate{Lat: 34.0, Lng: -85.0}) {
		t.Fatalf("committed = %+v ok=%v", committed, ok)
	}
}

func TestCoordinateStrings(t *testing.T) {
	d := New(atlanta)
	lat, lng := d.CoordinateStrings()
	if lat != "33.749" || lng != "-84.388" {
		t.Fatalf("coordinates = %q, %q", lat, lng)
	}
}
