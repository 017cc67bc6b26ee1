package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/kardianos/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"rada-console/internal/metrics"
	"rada-console/internal/poller"
	"rada-console/internal/review"
)

// Variables to hold flag values
var (
	expPort       string
	serviceAction string // "install", "uninstall", "start", "stop"
)

// --- SERVICE WRAPPER ---

// program implements the kardianos/service interface
type program struct {
	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	server *http.Server
	view   *review.View
}

func (p *program) Start(s service.Service) error {
	// Start should not block. Do the actual work async.
	p.ctx, p.cancel = context.WithCancel(context.Background())
	go p.run()
	return nil
}

func (p *program) run() {
	ctx := p.ctx
	c := setupConsole(ctx)
	c.logger.Info("session established", zap.String("status", string(c.status)))

	view := review.New(c.facade,
		poller.WithInterval(c.cfg.PollInterval),
		poller.WithEventLimit(c.cfg.EventLimit),
		poller.WithLogger(c.logger),
	)
	if err := view.Open(ctx); err != nil {
		c.logger.Fatal("failed to start synchronization", zap.Error(err))
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(metrics.NewCollector(view.Synchronizer()))
	registry.MustRegister(collectors.NewGoCollector())

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{
		ErrorLog: zap.NewStdLog(c.logger),
	})

	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)

	addr := fmt.Sprintf(":%s", expPort)
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	p.mu.Lock()
	p.server = server
	p.view = view
	p.mu.Unlock()

	c.logger.Info("rada exporter listening", zap.String("addr", addr))

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		c.logger.Error("HTTP server error", zap.Error(err))
	}
}

func (p *program) Stop(s service.Service) error {
	// Stop should not block. Signal the app to stop.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	p.mu.Lock()
	server, view := p.server, p.view
	p.mu.Unlock()

	if server != nil {
		if err := server.Shutdown(ctx); err != nil {
			log.Printf("Server forced to shutdown: %v", err)
		}
	}
	if view != nil {
		view.Close()
	}
	if p.cancel != nil {
		p.cancel()
	}
	return nil
}

// --- COMMAND ---

var exporterCmd = &cobra.Command{
	Use:   "exporter",
	Short: "Start Prometheus Exporter service",
	Long: `Starts a long-running HTTP server that keeps cameras and events synchronized
and exposes them as Prometheus metrics. Can be installed as a system service.`,
	Run: func(cmd *cobra.Command, args []string) {
		// Arguments passed to the binary when run as a service
		arguments := []string{"exporter", "--port", expPort}
		for _, name := range []string{"config", "mode", "api-base", "log-level"} {
			if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
				arguments = append(arguments, "--"+name, f.Value.String())
			}
		}

		svcConfig := &service.Config{
			Name:        "rada-exporter",
			DisplayName: "rada Prometheus Exporter",
			Description: "Exposes rada camera and event metrics to Prometheus",
			Arguments:   arguments,
		}

		prg := &program{}

		s, err := service.New(prg, svcConfig)
		if err != nil {
			log.Fatal(err)
		}

		// Handle Service Control Actions (Install, Start, Stop, Uninstall)
		if serviceAction != "" {
			if err := service.Control(s, serviceAction); err != nil {
				log.Fatalf("Failed to %s service: %v", serviceAction, err)
			}
			fmt.Printf("Service action '%s' completed successfully.\n", serviceAction)
			return
		}

		// This happens when the Service Manager starts the binary, OR when run interactively without flags
		logger, err := s.Logger(nil)
		if err != nil {
			log.Fatal(err)
		}
		if err = s.Run(); err != nil {
			_ = logger.Error(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(exporterCmd)
	exporterCmd.Flags().StringVar(&expPort, "port", "9100", "Port to listen on")
	exporterCmd.Flags().StringVar(&serviceAction, "service", "", "Service action: install, uninstall, start, stop")
}
