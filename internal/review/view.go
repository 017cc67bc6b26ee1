// Package review is the event review screen's data layer: a polled snapshot,
// the operator's camera filter, and event detail resolution.
package review

import (
	"context"
	"sync"

	"rada-console/internal/poller"
	"rada-console/pkg/models"
)

// DetailState tells a detail view what to render.
type DetailState int

const (
	// DetailLoading means the first load has not finished yet.
	DetailLoading DetailState = iota
	// DetailNotFound means loading finished and no event matched.
	DetailNotFound
	// DetailFound means Detail.Event is set.
	DetailFound
)

func (s DetailState) String() string {
	switch s {
	case DetailLoading:
		return "loading"
	case DetailNotFound:
		return "not found"
	case DetailFound:
		return "found"
	}
	return "unknown"
}

// Detail is the resolution of one event id.
type Detail struct {
	State  DetailState
	Event  models.Event
	Camera string // display label, falls back to the camera id
}

// View owns the synchronizer behind the review screen.
type View struct {
	poll *poller.Synchronizer

	mu     sync.Mutex
	camera string

	// memoized FilterByCamera result for (cacheSeq, cacheCamera)
	cacheOK     bool
	cacheSeq    uint64
	cacheCamera string
	cached      []models.Event
}

func New(source poller.Source, opts ...poller.Option) *View {
	return &View{
		poll:   poller.New(source, opts...),
		camera: models.AllCameras,
	}
}

// Open activates polling.
func (v *View) Open(ctx context.Context) error {
	return v.poll.Start(ctx)
}

// Close deactivates polling; late responses are dropped.
func (v *View) Close() {
	v.poll.Stop()
}

// Synchronizer exposes the underlying synchronizer.
func (v *View) Synchronizer() *poller.Synchronizer {
	return v.poll
}

// SetCamera selects the camera filter; models.AllCameras shows everything.
func (v *View) SetCamera(cameraID string) {
	if cameraID == "" {
		cameraID = models.AllCameras
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.camera = cameraID
}

// Camera returns the selected camera filter.
func (v *View) Camera() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.camera
}

// Loading reports whether the first cycle is still pending.
func (v *View) Loading() bool {
	return v.poll.Loading()
}

// Cameras returns the roster of the current snapshot.
func (v *View) Cameras() []models.Camera {
	return v.poll.Snapshot().Cameras
}

// Filtered returns the snapshot's events for the selected camera. The slice
// is recomputed only when the snapshot or the filter changes.
func (v *View) Filtered() []models.Event {
	snap := v.poll.Snapshot()

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.cacheOK && v.cacheSeq == snap.Seq && v.cacheCamera == v.camera {
		return v.cached
	}
	v.cached = models.FilterByCamera(snap.Events, v.camera)
	v.cacheSeq = snap.Seq
	v.cacheCamera = v.camera
	v.cacheOK = true
	return v.cached
}

// Detail resolves id against the current snapshot.
func (v *View) Detail(id string) Detail {
	if v.poll.Loading() {
		return Detail{State: DetailLoading}
	}
	snap := v.poll.Snapshot()
	return resolve(snap.Cameras, snap.Events, id)
}

// EventSource loads recent events.
type EventSource interface {
	Events(ctx context.Context, limit int) ([]models.Event, error)
}

// FetchDetail does the detail page's one-shot load and resolves id. A
// failed load resolves to DetailNotFound and also returns the error.
func FetchDetail(ctx context.Context, src EventSource, limit int, id string) (Detail, error) {
	events, err := src.Events(ctx, limit)
	if err != nil {
		return Detail{State: DetailNotFound}, err
	}
	return resolve(nil, events, id), nil
}

func resolve(cameras []models.Camera, events []models.Event, id string) Detail {
	evt, ok := models.ResolveByID(events, id)
	if !ok {
		return Detail{State: DetailNotFound}
	}
	return Detail{
		State:  DetailFound,
		Event:  evt,
		Camera: models.CameraLabel(cameras, evt.CameraID),
	}
}
