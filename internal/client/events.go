package client

import (
	"context"
	"strconv"

	"rada-console/pkg/models"
)

// GetEvents lists the most recent events, newest first.
func (c *ConsoleClient) GetEvents(ctx context.Context, limit int) ([]models.Event, error) {
	var events []models.Event

	resp, err := c.HTTP.R().
		SetContext(ctx).
		SetQueryParam("limit", strconv.Itoa(limit)).
		SetResult(&events).
		Get("/events")

	if err != nil {
		return nil, err
	}

	if err := checkResponse("get events", resp); err != nil {
		return nil, err
	}

	return events, nil
}

// GetTimeline fetches the reduced event rows recorded by one camera.
func (c *ConsoleClient) GetTimeline(ctx context.Context, cameraID string) ([]models.TimelineEntry, error) {
	var entries []models.TimelineEntry

	resp, err := c.HTTP.R().
		SetContext(ctx).
		SetPathParam("cameraId", cameraID).
		SetResult(&entries).
		Get("/timeline/{cameraId}")

	if err != nil {
		return nil, err
	}

	if err := checkResponse("get timeline for camera "+cameraID, resp); err != nil {
		return nil, err
	}

	return entries, nil
}
