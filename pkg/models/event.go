package models

import "fmt"

// EventType classifies a detection. The set is open: the backend may send
// types the console does not know about.
type EventType string

const (
	EventIntrusion EventType = "intrusion"
	EventLoitering EventType = "loitering"
	EventVandalism EventType = "vandalism"
)

// EventTypes lists the known detection types.
var EventTypes = []EventType{EventIntrusion, EventLoitering, EventVandalism}

// EventState is the lifecycle phase of a detection.
type EventState string

const (
	StateStart   EventState = "start"
	StateOngoing EventState = "ongoing"
	StatePeak    EventState = "peak"
	StateEnd     EventState = "end"
)

// EventStates lists every lifecycle phase in order.
var EventStates = []EventState{StateStart, StateOngoing, StatePeak, StateEnd}

// Valid reports whether s is one of the known lifecycle phases.
func (s EventState) Valid() bool {
	for _, known := range EventStates {
		if s == known {
			return true
		}
	}
	return false
}

// Detection labels carried in EventMeta.
const (
	LabelPerson  = "person"
	LabelVehicle = "vehicle"
)

// Labels lists the detector labels.
var Labels = []string{LabelPerson, LabelVehicle}

// Event is a detected incident as served by GET /events.
type Event struct {
	ID          string     `json:"id"`
	CameraID    string     `json:"camera_id"`
	EventType   EventType  `json:"event_type"`
	Severity    int        `json:"severity"`
	State       EventState `json:"state"`
	TsStart     Timestamp  `json:"ts_start"`
	TsPeak      Timestamp  `json:"ts_peak"`
	TsEnd       *Timestamp `json:"ts_end"`       // nil until the event ends
	SnapshotURL *string    `json:"snapshot_url"` // relative to the media base
	ClipURL     *string    `json:"clip_url,omitempty"`
	Meta        EventMeta  `json:"meta"`
}

// EventMeta carries detector output attached to an event.
type EventMeta struct {
	Label      string  `json:"label,omitempty"`
	Confidence float64 `json:"confidence"`
	BBox       [4]int  `json:"bbox"` // x1, y1, x2, y2 in source pixels
	Mode       string  `json:"mode,omitempty"`
}

// HasSnapshot reports whether a captured image is available.
func (e Event) HasSnapshot() bool {
	return e.SnapshotURL != nil && *e.SnapshotURL != ""
}

// Validate checks the fields the console relies on.
func (e Event) Validate() error {
	if e.ID == "" {
		return NewValidationError("event", "id", "must not be empty")
	}
	if e.CameraID == "" {
		return NewValidationError("event", "camera_id", fmt.Sprintf("must not be empty (event %s)", e.ID))
	}
	if e.Severity < 0 || e.Severity > 100 {
		return NewValidationError("event", "severity", fmt.Sprintf("%d out of range [0,100] (event %s)", e.Severity, e.ID))
	}
	if !e.State.Valid() {
		return NewValidationError("event", "state", fmt.Sprintf("unknown state %q (event %s)", e.State, e.ID))
	}
	return nil
}

// TimelineEntry is the reduced event row served by GET /timeline/{cameraId}.
type TimelineEntry struct {
	ID        string     `json:"id"`
	EventType EventType  `json:"event_type"`
	Severity  int        `json:"severity"`
	State     EventState `json:"state"`
	TsStart   Timestamp  `json:"ts_start"`
	TsEnd     *Timestamp `json:"ts_end"`
}

// Timeline projects an event onto the reduced timeline shape.
func (e Event) Timeline() TimelineEntry {
	return TimelineEntry{
		ID:        e.ID,
		EventType: e.EventType,
		Severity:  e.Severity,
		State:     e.State,
		TsStart:   e.TsStart,
		TsEnd:     e.TsEnd,
	}
}

// Validate checks the fields the console relies on.
func (t TimelineEntry) Validate() error {
	if t.ID == "" {
		return NewValidationError("timeline", "id", "must not be empty")
	}
	if !t.State.Valid() {
		return NewValidationError("timeline", "state", fmt.Sprintf("unknown state %q (event %s)", t.State, t.ID))
	}
	return nil
}

// LoginResponse is the body returned by POST /auth/login.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
}
