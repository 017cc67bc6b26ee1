package client

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
)

// ErrUnauthorized matches an APIError caused by a rejected or missing token.
var ErrUnauthorized = errors.New("unauthorized")

// APIError is a non-2xx answer from the backend.
type APIError struct {
	Operation  string
	Endpoint   string
	StatusCode int
	Body       string
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("failed to %s: %s returned status %d: %s", e.Operation, e.Endpoint, e.StatusCode, e.Body)
}

// Is implements errors.Is support
func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized &&
		(e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden)
}

func checkResponse(operation string, resp *resty.Response) error {
	if !resp.IsError() {
		return nil
	}
	endpoint := ""
	if resp.Request != nil {
		endpoint = resp.Request.Method + " " + resp.Request.URL
	}
	return &APIError{
		Operation:  operation,
		Endpoint:   endpoint,
		StatusCode: resp.StatusCode(),
		Body:       resp.String(),
	}
}
