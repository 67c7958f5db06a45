package draft

import (
	"math"
	"strconv"
)

// LocationState tracks the map-derived coordinate editing lifecycle.
type LocationState string

const (
	LocationUnset   LocationState = "unset"
	LocationEditing LocationState = "editing"
	LocationSaved   LocationState = "saved"
)

// Coordinate is a latitude/longitude pair.
type Coordinate struct {
	Lat float64
	Lng float64
}

// Location is the coordinate selection state machine. The candidate follows
// map clicks and manual field edits; committed is set only when the user
// confirms the candidate.
type Location struct {
	state     LocationState
	candidate Coordinate
	committed *Coordinate
}

// NewLocation starts the machine in Unset with the fallback candidate.
func NewLocation(fallback Coordinate) Location {
	return Location{state: LocationUnset, candidate: fallback}
}

// State returns the current selection state.
func (l *Location) State() LocationState {
	return l.state
}

// Candidate returns the coordinate currently under consideration.
func (l *Location) Candidate() Coordinate {
	return l.candidate
}

// Committed returns the confirmed coordinate when one exists.
func (l *Location) Committed() (Coordinate, bool) {
	if l.committed == nil {
		return Coordinate{}, false
	}
	return *l.committed, true
}

// RequestEdit enters Editing. Legal from Unset or Saved; already Editing is
// a no-op.
func (l *Location) RequestEdit() {
	l.state = LocationEditing
}

// SelectPoint records a map click. Effective only while Editing; the state
// does not change.
func (l *Location) SelectPoint(lat, lng float64) bool {
	if l.state != LocationEditing {
		return false
	}
	l.candidate = Coordinate{Lat: lat, Lng: lng}
	return true
}

// Confirm copies the candidate into the committed coordinate and enters
// Saved. Effective only while Editing.
func (l *Location) Confirm() bool {
	if l.state != LocationEditing {
		return false
	}
	committed := l.candidate
	l.committed = &committed
	l.state = LocationSaved
	return true
}

// SetManual applies manually typed coordinate fields, bypassing the state
// machine. The candidate updates only when both values parse as finite
// numbers; malformed input leaves the prior coordinate unchanged.
func (l *Location) SetManual(latText, lngText string) bool {
	lat, ok := parseFinite(latText)
	if !ok {
		return false
	}
	lng, ok := parseFinite(lngText)
	if !ok {
		return false
	}
	l.candidate = Coordinate{Lat: lat, Lng: lng}
	return true
}

func parseFinite(text string) (float64, bool) {
	value, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false
	}
	return value, true
}

// restoreLocation rebuilds a Location from persisted fields.
func restoreLocation(state LocationState, candidate Coordinate, committed *Coordinate) Location {
	loc := Location{state: state, candidate: candidate}
	if committed != nil {
		value := *committed
		loc.committed = &value
	}
	return loc
}
