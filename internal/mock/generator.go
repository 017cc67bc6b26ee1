// Package mock produces synthetic camera rosters and detection events so the
// console can run without a backend.
package mock

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"rada-console/pkg/models"
)

const (
	// Token is the access token handed out by Login.
	Token = "mock-token"

	// TimelineBatch is how many events Timeline samples before filtering.
	TimelineBatch = 30

	severityMin  = 20
	severitySpan = 70
	confidence   = 0.7
	provenance   = "mock"
)

var roster = []models.Camera{
	{ID: "cam_1", Name: "Gate"},
	{ID: "cam_2", Name: "Yard"},
	{ID: "cam_3", Name: "Hallway"},
	{ID: "cam_4", Name: "Parking"},
}

var bbox = [4]int{220, 160, 520, 520}

// Generator builds mock payloads. Timestamps are anchored to the epoch fixed
// at construction, so evt_mock_<i> keeps the same ts_start across calls.
type Generator struct {
	epoch time.Time

	mu  sync.Mutex // guards rng
	rng *rand.Rand
}

// New returns a Generator anchored at the current time with a random seed.
func New() *Generator {
	return NewWithSource(time.Now(), rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())))
}

// NewWithSource returns a Generator with a fixed epoch and random source.
func NewWithSource(epoch time.Time, rng *rand.Rand) *Generator {
	return &Generator{epoch: epoch.UTC(), rng: rng}
}

// Epoch returns the time item 0 of every batch is stamped with.
func (g *Generator) Epoch() time.Time {
	return g.epoch
}

// Login returns the constant mock token payload.
func (g *Generator) Login() models.LoginResponse {
	return models.LoginResponse{AccessToken: Token, TokenType: "bearer"}
}

// Cameras returns the fixed four-camera roster.
func (g *Generator) Cameras() []models.Camera {
	out := make([]models.Camera, len(roster))
	copy(out, roster)
	return out
}

// Events generates limit independent events. Item i is stamped i minutes
// before the epoch. Each item samples its own state, so a batch is not a
// lifecycle progression.
func (g *Generator) Events(limit int) []models.Event {
	if limit < 0 {
		limit = 0
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	events := make([]models.Event, 0, limit)
	for i := 0; i < limit; i++ {
		cam := roster[g.rng.IntN(len(roster))]
		state := models.EventStates[g.rng.IntN(len(models.EventStates))]
		t0 := models.NewTimestamp(g.epoch.Add(-time.Duration(i) * time.Minute))

		evt := models.Event{
			ID:        fmt.Sprintf("evt_mock_%d", i),
			CameraID:  cam.ID,
			EventType: models.EventTypes[g.rng.IntN(len(models.EventTypes))],
			Severity:  severityMin + g.rng.IntN(severitySpan),
			State:     state,
			TsStart:   t0,
			TsPeak:    t0,
			Meta: models.EventMeta{
				Label:      models.Labels[g.rng.IntN(len(models.Labels))],
				Confidence: confidence,
				BBox:       bbox,
				Mode:       provenance,
			},
		}
		if state == models.StateEnd {
			evt.TsEnd = t0.Ptr()
		}
		events = append(events, evt)
	}
	return events
}

// Timeline samples TimelineBatch events and keeps the reduced rows for cameraID.
func (g *Generator) Timeline(cameraID string) []models.TimelineEntry {
	entries := []models.TimelineEntry{}
	for _, evt := range models.FilterByCamera(g.Events(TimelineBatch), cameraID) {
		entries = append(entries, evt.Timeline())
	}
	return entries
}
