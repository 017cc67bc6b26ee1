package client

import (
	"context"
	"errors"
	"strings"
)

// SnapshotURL resolves an event's relative snapshot path against the media
// base. An empty path resolves to "".
func (c *ConsoleClient) SnapshotURL(path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return strings.TrimRight(c.Config.MediaURL, "/") + path
}

// GetSnapshot downloads the image behind an event's snapshot path.
func (c *ConsoleClient) GetSnapshot(ctx context.Context, path string) ([]byte, error) {
	url := c.SnapshotURL(path)
	if url == "" {
		return nil, errors.New("event has no snapshot")
	}

	resp, err := c.HTTP.R().
		SetContext(ctx).
		SetHeader("Accept", "image/*").
		Get(url)

	if err != nil {
		return nil, err
	}

	if err := checkResponse("get snapshot", resp); err != nil {
		return nil, err
	}

	if len(resp.Body()) == 0 {
		return nil, errors.New("response body is empty")
	}

	return resp.Body(), nil
}
