package client

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"rada-console/pkg/models"
)

// DefaultTimeout bounds every request made by the client.
const DefaultTimeout = 15 * time.Second

// ConsoleClient talks to the rada backend REST API.
type ConsoleClient struct {
	HTTP   *resty.Client
	Config ClientConfig

	mu    sync.RWMutex
	token string
}

type ClientConfig struct {
	BaseURL  string        // REST API root, e.g. http://127.0.0.1:8000
	MediaURL string        // root that snapshot_url paths are resolved against
	Timeout  time.Duration // zero means DefaultTimeout
}

func New(cfg ClientConfig) *ConsoleClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MediaURL == "" {
		cfg.MediaURL = cfg.BaseURL
	}

	r := resty.New()
	r.SetBaseURL(cfg.BaseURL)
	r.SetTimeout(cfg.Timeout)
	r.SetHeader("Accept", "application/json")

	c := &ConsoleClient{
		HTTP:   r,
		Config: cfg,
	}

	// The bearer token is read per request so SetToken never races with
	// requests already being built on other goroutines.
	r.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		if token := c.Token(); token != "" {
			req.SetHeader("Authorization", "Bearer "+token)
		}
		return nil
	})

	return c
}

// SetToken installs the bearer token sent with every subsequent request.
// An empty token removes the Authorization header again.
func (c *ConsoleClient) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// Token returns the installed bearer token, or "" when none is set.
func (c *ConsoleClient) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Login submits form-encoded credentials to POST /auth/login. It does not
// install the returned token; that is the session's job.
func (c *ConsoleClient) Login(ctx context.Context, username, password string) (*models.LoginResponse, error) {
	resp, err := c.HTTP.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"username": username,
			"password": password,
		}).
		SetResult(&models.LoginResponse{}).
		Post("/auth/login")

	if err != nil {
		return nil, err
	}

	if err := checkResponse("login", resp); err != nil {
		return nil, err
	}

	loginResult, ok := resp.Result().(*models.LoginResponse)
	if !ok {
		return nil, errors.New("failed to parse login response")
	}

	return loginResult, nil
}
