package models

// AllCameras is the filter value that disables camera filtering.
const AllCameras = "all"

// FilterByCamera returns the events recorded by cameraID. For AllCameras (or
// an empty filter) the input slice itself is returned.
func FilterByCamera(events []Event, cameraID string) []Event {
	if cameraID == AllCameras || cameraID == "" {
		return events
	}
	filtered := make([]Event, 0, len(events))
	for _, e := range events {
		if e.CameraID == cameraID {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

// ResolveByID returns the first event with the given id.
func ResolveByID(events []Event, id string) (Event, bool) {
	for _, e := range events {
		if e.ID == id {
			return e, true
		}
	}
	return Event{}, false
}
