package draft

import (
	"strconv"
	"strings"

	"github.com/google/uuid"

	"trafficctl/internal/jobs"
)

// Intent distinguishes a fresh draft from one hydrated out of an existing
// job. It is fixed when the draft is created and never changes afterwards.
type Intent string

const (
	IntentCreate Intent = "create"
	IntentUpdate Intent = "update"
)

// Draft holds the in-progress job fields before submission. A read-only
// draft is a viewer over an existing job; all mutators become no-ops.
type Draft struct {
	id          string
	intent      Intent
	sourceJobID int64
	readOnly    bool

	jobNumber   string
	notes       string
	surveyHours string
	surveyTypes []string
	files       []string
	location    Location
}

// New returns an empty create-intent draft whose map candidate starts at
// the fallback coordinate.
func New(fallback Coordinate) *Draft {
	return &Draft{
		id:       uuid.NewString(),
		intent:   IntentCreate,
		location: NewLocation(fallback),
	}
}

// FromRecord hydrates a draft from a fetched job. When readOnly is set the
// draft is a pure viewer; otherwise it carries update intent against the
// source job.
func FromRecord(record jobs.JobRecord, readOnly bool, fallback Coordinate) *Draft {
	d := &Draft{
		id:          uuid.NewString(),
		intent:      IntentUpdate,
		sourceJobID: record.ID,
		readOnly:    readOnly,
		notes:       record.AdditionalNotes,
		surveyHours: record.SurveyHours,
		surveyTypes: record.SurveyTypeList(),
		location:    NewLocation(fallback),
	}
	d.jobNumber = record.JobNumber
	if d.jobNumber == "" {
		d.jobNumber = record.Name
	}
	lat, latOK := parseFinite(record.Latitude)
	lng, lngOK := parseFinite(record.Longitude)
	if latOK && lngOK {
		point := Coordinate{Lat: lat, Lng: lng}
		d.location = restoreLocation(LocationSaved, point, &point)
	}
	return d
}

// ID returns the draft identifier.
func (d *Draft) ID() string { return d.id }

// Intent reports whether submission should create a new job or revise the
// source job.
func (d *Draft) Intent() Intent { return d.intent }

// SourceJobID returns the hydration source, zero for create drafts.
func (d *Draft) SourceJobID() int64 { return d.sourceJobID }

// ReadOnly reports whether the draft is a viewer over an existing job.
func (d *Draft) ReadOnly() bool { return d.readOnly }

func (d *Draft) JobNumber() string   { return d.jobNumber }
func (d *Draft) Notes() string       { return d.notes }
func (d *Draft) SurveyHours() string { return d.surveyHours }

// SetJobNumber updates the job number field.
func (d *Draft) SetJobNumber(value string) {
	if d.readOnly {
		return
	}
	d.jobNumber = value
}

// SetNotes updates the free-form notes field.
func (d *Draft) SetNotes(value string) {
	if d.readOnly {
		return
	}
	d.notes = value
}

// SetSurveyHours updates the survey hours field.
func (d *Draft) SetSurveyHours(value string) {
	if d.readOnly {
		return
	}
	d.surveyHours = value
}

// SurveyTypes returns the selected survey type tags in selection order.
func (d *Draft) SurveyTypes() []string {
	out := make([]string, len(d.surveyTypes))
	copy(out, d.surveyTypes)
	return out
}

// HasSurveyType reports whether the tag is currently selected.
func (d *Draft) HasSurveyType(tag string) bool {
	for _, existing := range d.surveyTypes {
		if existing == tag {
			return true
		}
	}
	return false
}

// ToggleSurveyType adds the tag when absent and removes it when present,
// returning true when the tag ends up selected.
func (d *Draft) ToggleSurveyType(tag string) bool {
	if d.readOnly {
		return d.HasSurveyType(tag)
	}
	for i, existing := range d.surveyTypes {
		if existing == tag {
			d.surveyTypes = append(d.surveyTypes[:i], d.surveyTypes[i+1:]...)
			return false
		}
	}
	d.surveyTypes = append(d.surveyTypes, tag)
	return true
}

// SurveyTypesJoined renders the selection as the comma-separated wire form.
func (d *Draft) SurveyTypesJoined() string {
	return strings.Join(d.surveyTypes, ",")
}

// StagedFiles returns the staged file paths in staging order.
func (d *Draft) StagedFiles() []string {
	out := make([]string, len(d.files))
	copy(out, d.files)
	return out
}

// AddFiles appends paths to the staged batch. Order is preserved and
// duplicates are allowed.
func (d *Draft) AddFiles(paths ...string) {
	if d.readOnly {
		return
	}
	d.files = append(d.files, paths...)
}

// RemoveFile drops the staged file at index, preserving the order of the
// rest. Out-of-range indexes are ignored.
func (d *Draft) RemoveFile(index int) bool {
	if d.readOnly || index < 0 || index >= len(d.files) {
		return false
	}
	d.files = append(d.files[:index], d.files[index+1:]...)
	return true
}

// Location exposes the coordinate selection machine for inspection.
func (d *Draft) Location() *Location {
	return &d.location
}

// RequestLocationEdit enters coordinate editing.
func (d *Draft) RequestLocationEdit() {
	if d.readOnly {
		return
	}
	d.location.RequestEdit()
}

// SelectPoint records a map click while editing.
func (d *Draft) SelectPoint(lat, lng float64) bool {
	if d.readOnly {
		return false
	}
	return d.location.SelectPoint(lat, lng)
}

// ConfirmLocation commits the candidate coordinate.
func (d *Draft) ConfirmLocation() bool {
	if d.readOnly {
		return false
	}
	return d.location.Confirm()
}

// SetCoordinates applies manually typed coordinate fields.
func (d *Draft) SetCoordinates(latText, lngText string) bool {
	if d.readOnly {
		return false
	}
	return d.location.SetManual(latText, lngText)
}

// CoordinateStrings renders the candidate coordinate the way the form
// fields would carry it.
func (d *Draft) CoordinateStrings() (lat, lng string) {
	point := d.location.Candidate()
	return formatCoordinate(point.Lat), formatCoordinate(point.Lng)
}

func formatCoordinate(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// Snapshot is the persistable form of a draft.
type Snapshot struct {
	ID            string
	Intent        Intent
	SourceJobID   int64
	ReadOnly      bool
	JobNumber     string
	Notes         string
	SurveyHours   string
	SurveyTypes   []string
	Files         []string
	LocationState LocationState
	Candidate     Coordinate
	Committed     *Coordinate
}

// Snapshot captures the draft for persistence.
func (d *Draft) Snapshot() Snapshot {
	snap := Snapshot{
		ID:            d.id,
		Intent:        d.intent,
		SourceJobID:   d.sourceJobID,
		ReadOnly:      d.readOnly,
		JobNumber:     d.jobNumber,
		Notes:         d.notes,
		SurveyHours:   d.surveyHours,
		SurveyTypes:   d.SurveyTypes(),
		Files:         d.StagedFiles(),
		LocationState: d.location.state,
		Candidate:     d.location.candidate,
	}
	if d.location.committed != nil {
		committed := *d.location.committed
		snap.Committed = &committed
	}
	return snap
}

// FromSnapshot rebuilds a draft from its persisted form.
func FromSnapshot(snap Snapshot) *Draft {
	d := &Draft{
		id:          snap.ID,
		intent:      snap.Intent,
		sourceJobID: snap.SourceJobID,
		readOnly:    snap.ReadOnly,
		jobNumber:   snap.JobNumber,
		notes:       snap.Notes,
		surveyHours: snap.SurveyHours,
		surveyTypes: append([]string(nil), snap.SurveyTypes...),
		files:       append([]string(nil), snap.Files...),
		location:    restoreLocation(snap.LocationState, snap.Candidate, snap.Committed),
	}
	if d.id == "" {
		d.id = uuid.NewString()
	}
	if d.intent == "" {
		d.intent = IntentCreate
	}
	return d
}
