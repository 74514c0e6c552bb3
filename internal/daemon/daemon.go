// Package daemon keeps the README continuously refreshed: a periodic
// scheduler, a watcher that re-renders after external edits, and a small
// status HTTP server.
package daemon

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/nicojahn/readme-refresh/internal/config"
)

// Logger interface for logging operations.
type Logger interface {
	Printf(format string, v ...interface{})
}

// Refresher is the slice of the service the daemon consumes
// (Dependency Inversion Principle).
type Refresher interface {
	Refresh(ctx context.Context) (bool, error)
}

// refreshTimeout bounds a single scheduled update pass.
const refreshTimeout = 30 * time.Second

// Daemon owns the long-running refresh machinery.
type Daemon struct {
	cfg     *config.Config
	service Refresher
	logger  Logger

	scheduler *Scheduler
	watcher   *TemplateWatcher
	handler   *StatusHandler
	server    *http.Server
}

// New wires the daemon's components together.
// Follows Dependency Injection - accepts dependencies via constructor.
func New(cfg *config.Config, service Refresher, logger Logger) (*Daemon, error) {
	scheduler, err := NewScheduler()
	if err != nil {
		return nil, err
	}

	d := &Daemon{
		cfg:       cfg,
		service:   service,
		logger:    logger,
		scheduler: scheduler,
	}
	d.handler = NewStatusHandler(cfg.ReadmePath, service, logger)

	watcher, err := NewTemplateWatcher(cfg.ReadmePath, d.refresh, logger)
	if err != nil {
		return nil, err
	}
	d.watcher = watcher

	return d, nil
}

// Start performs an initial refresh, then begins the scheduler, the
// template watcher and the status server. Non-blocking; ctx bounds the
// initial refresh and becomes the base context of served requests.
func (d *Daemon) Start(ctx context.Context) error {
	d.refreshFrom(ctx)

	interval := d.cfg.RefreshInterval()
	if err := d.scheduler.ScheduleRefresh(interval, d.refresh); err != nil {
		return err
	}
	d.scheduler.Start()

	if err := d.watcher.Start(); err != nil {
		return err
	}

	mux := http.NewServeMux()
	d.handler.RegisterRoutes(mux)
	d.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", d.cfg.Port),
		Handler: mux,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		d.logger.Printf("Status server listening on http://localhost%s", d.server.Addr)
		if err := d.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			d.logger.Printf("Status server failed: %v", err)
		}
	}()

	d.logger.Printf("Daemon started (refresh interval: %v)", interval)
	return nil
}

// Stop shuts the daemon down gracefully.
func (d *Daemon) Stop() {
	d.watcher.Stop()

	if err := d.scheduler.Stop(); err != nil {
		d.logger.Printf("Scheduler shutdown: %v", err)
	}

	if d.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := d.server.Shutdown(ctx); err != nil {
			d.logger.Printf("Status server shutdown: %v", err)
		}
	}

	d.logger.Printf("Daemon stopped")
}

// refresh runs one update pass and records the outcome for the status
// endpoint. Used as the scheduler and watcher callback.
func (d *Daemon) refresh() {
	d.refreshFrom(context.Background())
}

// refreshFrom runs one update pass bounded by refreshTimeout under the
// given parent context.
func (d *Daemon) refreshFrom(parent context.Context) {
	ctx, cancel := context.WithTimeout(parent, refreshTimeout)
	defer cancel()

	changed, err := d.service.Refresh(ctx)
	if err != nil {
		d.logger.Printf("Refresh failed: %v", err)
	}
	d.handler.RecordRun(changed, err)
}
