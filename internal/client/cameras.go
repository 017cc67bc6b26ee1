package client

import (
	"context"

	"rada-console/pkg/models"
)

func (c *ConsoleClient) GetCameras(ctx context.Context) ([]models.Camera, error) {
	var cameras []models.Camera

	resp, err := c.HTTP.R().
		SetContext(ctx).
		SetResult(&cameras).
		Get("/cameras")

	if err != nil {
		return nil, err
	}

	if err := checkResponse("get cameras", resp); err != nil {
		return nil, err
	}

	return cameras, nil
}
