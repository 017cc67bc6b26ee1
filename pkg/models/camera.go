package models

import "encoding/json"

// Camera represents a single camera in the console roster.
type Camera struct {
	ID   string          `json:"id"`
	Name string          `json:"name"`
	Zone json.RawMessage `json:"zone,omitempty"` // detection zone, live backend only
}

// Validate checks the fields the console relies on.
func (c Camera) Validate() error {
	if c.ID == "" {
		return NewValidationError("camera", "id", "must not be empty")
	}
	return nil
}

// CameraLabel returns the display name for cameraID. Events can reference a
// camera that is missing from the roster, so the raw id is the fallback.
func CameraLabel(cameras []Camera, cameraID string) string {
	for _, cam := range cameras {
		if cam.ID == cameraID && cam.Name != "" {
			return cam.Name
		}
	}
	if cameraID == "" {
		return "unknown"
	}
	return cameraID
}
