package client

import (
	"context"
	"fmt"
)

// Health is the backend's liveness payload.
type Health struct {
	OK bool `json:"ok"`
}

// GetHealth checks the backend status
func (c *ConsoleClient) GetHealth(ctx context.Context) (*Health, error) {
	var health Health

	resp, err := c.HTTP.R().
		SetContext(ctx).
		SetResult(&health).
		Get("/health")

	if err != nil {
		return nil, err
	}

	if err := checkResponse("get health", resp); err != nil {
		return nil, err
	}

	if !health.OK {
		return &health, fmt.Errorf("backend at %s reports not ok", c.Config.BaseURL)
	}

	return &health, nil
}
