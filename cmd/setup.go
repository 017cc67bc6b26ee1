package cmd

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
	"rada-console/internal/api"
	"rada-console/internal/auth"
	"rada-console/internal/client"
	"rada-console/internal/config"
	"rada-console/internal/logging"
	"rada-console/internal/mock"
)

// console bundles everything a command needs to talk to the data layer.
type console struct {
	cfg     *config.Config
	logger  *zap.Logger
	api     *client.ConsoleClient
	facade  *api.Facade
	session *auth.Session
	status  auth.Status
}

// newConsole builds the data layer from configuration without touching the
// network.
func newConsole() (*console, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	httpClient := client.New(client.ClientConfig{
		BaseURL:  cfg.APIBase,
		MediaURL: cfg.MediaBase,
		Timeout:  cfg.Timeout,
	})

	var gen *mock.Generator
	if cfg.Mode == config.ModeMock {
		gen = mock.New()
	}

	facade, err := api.New(cfg, httpClient, gen)
	if err != nil {
		return nil, err
	}

	return &console{
		cfg:     cfg,
		logger:  logger.With(zap.String("mode", string(cfg.Mode))),
		api:     httpClient,
		facade:  facade,
		session: auth.NewSession(facade, httpClient, logger),
		status:  auth.StatusNotConnected,
	}, nil
}

// setupConsole builds the data layer and establishes a session: a persisted
// token is reused, otherwise the configured credentials are tried. A failed
// login is not fatal.
func setupConsole(ctx context.Context) *console {
	c, err := newConsole()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	if c.cfg.Token != "" && c.cfg.Mode == config.ModeLive {
		c.status = c.session.Restore(c.cfg.Token)
	} else {
		c.status = c.session.Connect(ctx, c.cfg.Username, c.cfg.Password)
	}

	c.logger.Debug("session ready", zap.String("status", string(c.status)))
	return c
}
