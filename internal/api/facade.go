// Package api routes console reads to the live backend or the mock generator.
// Callers never branch on the mode: both paths return the same validated
// models.
package api

import (
	"context"
	"fmt"

	"rada-console/internal/client"
	"rada-console/internal/config"
	"rada-console/internal/mock"
	"rada-console/pkg/models"
)

const (
	// DefaultEventLimit is used when Events is called with a non-positive limit.
	DefaultEventLimit = 200

	// DefaultMockBatch caps mock event batches.
	DefaultMockBatch = 60
)

// Facade serves logins, cameras, events and timelines in either mode.
type Facade struct {
	mode         config.Mode
	live         *client.ConsoleClient
	mock         *mock.Generator
	mockBatch    int
	defaultLimit int
}

// New builds a Facade for cfg.Mode. live may be nil in mock mode and gen may
// be nil in live mode.
func New(cfg *config.Config, live *client.ConsoleClient, gen *mock.Generator) (*Facade, error) {
	switch cfg.Mode {
	case config.ModeLive:
		if live == nil {
			return nil, fmt.Errorf("live mode needs a transport client")
		}
	case config.ModeMock:
		if gen == nil {
			gen = mock.New()
		}
	default:
		return nil, fmt.Errorf("%w %q", config.ErrInvalidMode, cfg.Mode)
	}

	f := &Facade{
		mode:         cfg.Mode,
		live:         live,
		mock:         gen,
		mockBatch:    cfg.MockBatch,
		defaultLimit: cfg.EventLimit,
	}
	if f.defaultLimit <= 0 {
		f.defaultLimit = DefaultEventLimit
	}
	if f.mockBatch <= 0 {
		f.mockBatch = DefaultMockBatch
	}
	return f, nil
}

// Mode reports which backend the facade routes to.
func (f *Facade) Mode() config.Mode {
	return f.mode
}

// Login exchanges credentials for an access token.
func (f *Facade) Login(ctx context.Context, username, password string) (*models.LoginResponse, error) {
	if f.mode == config.ModeMock {
		resp := f.mock.Login()
		return &resp, nil
	}
	resp, err := f.live.Login(ctx, username, password)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return resp, nil
}

// Cameras returns the camera roster.
func (f *Facade) Cameras(ctx context.Context) ([]models.Camera, error) {
	if f.mode == config.ModeMock {
		return f.mock.Cameras(), nil
	}
	cameras, err := f.live.GetCameras(ctx)
	if err != nil {
		return nil, fmt.Errorf("cameras: %w", err)
	}
	return normalize(cameras)
}

// Events returns up to limit recent events, newest first.
func (f *Facade) Events(ctx context.Context, limit int) ([]models.Event, error) {
	if limit <= 0 {
		limit = f.defaultLimit
	}
	if f.mode == config.ModeMock {
		return f.mock.Events(min(limit, f.mockBatch)), nil
	}
	events, err := f.live.GetEvents(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("events: %w", err)
	}
	return normalize(events)
}

// Timeline returns the reduced event rows for one camera.
func (f *Facade) Timeline(ctx context.Context, cameraID string) ([]models.TimelineEntry, error) {
	if f.mode == config.ModeMock {
		return f.mock.Timeline(cameraID), nil
	}
	entries, err := f.live.GetTimeline(ctx, cameraID)
	if err != nil {
		return nil, fmt.Errorf("timeline: %w", err)
	}
	return normalize(entries)
}

type validator interface {
	Validate() error
}

// normalize rejects payloads outside the console schema and turns a JSON
// null into an empty list.
func normalize[T validator](items []T) ([]T, error) {
	if items == nil {
		return []T{}, nil
	}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return nil, err
		}
	}
	return items, nil
}
