package daemon

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"sync"
	"time"
)

// StatusHandler serves the daemon's HTTP surface: a health check, the
// current rendered README and a manual refresh trigger.
// Each handler method has a Single Responsibility (SRP).
type StatusHandler struct {
	readmePath string
	refresher  Refresher
	logger     Logger

	mu          sync.RWMutex
	lastRun     time.Time
	lastChanged bool
	lastError   string
}

// NewStatusHandler creates a new status handler with injected dependencies.
func NewStatusHandler(readmePath string, refresher Refresher, logger Logger) *StatusHandler {
	return &StatusHandler{
		readmePath: readmePath,
		refresher:  refresher,
		logger:     logger,
	}
}

// RegisterRoutes registers all HTTP routes.
func (h *StatusHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/", h.handleReadme)
	mux.HandleFunc("/api/health", h.handleHealth)
	mux.HandleFunc("/api/refresh", h.handleRefresh)
}

// RecordRun stores the outcome of a refresh pass for the health endpoint.
func (h *StatusHandler) RecordRun(changed bool, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.lastRun = time.Now()
	h.lastChanged = changed
	h.lastError = ""
	if err != nil {
		h.lastError = err.Error()
	}
}

// healthResponse is the JSON body of the health endpoint.
type healthResponse struct {
	Status      string    `json:"status"`
	LastRun     time.Time `json:"last_run"`
	LastChanged bool      `json:"last_changed"`
	LastError   string    `json:"last_error,omitempty"`
}

// handleHealth serves the health check endpoint.
func (h *StatusHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	response := healthResponse{
		Status:      "ok",
		LastRun:     h.lastRun,
		LastChanged: h.lastChanged,
		LastError:   h.lastError,
	}
	h.mu.RUnlock()

	if response.LastError != "" {
		response.Status = "degraded"
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Printf("failed to render health: %v", err)
	}
}

// handleReadme serves the current rendered README text.
func (h *StatusHandler) handleReadme(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	content, err := os.ReadFile(h.readmePath)
	if err != nil {
		h.logger.Printf("failed to read %s: %v", h.readmePath, err)
		http.Error(w, "readme not available", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	if _, err := w.Write(content); err != nil {
		h.logger.Printf("failed to write readme response: %v", err)
	}
}

// handleRefresh triggers an immediate refresh pass.
func (h *StatusHandler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), refreshTimeout)
	defer cancel()

	changed, err := h.refresher.Refresh(ctx)
	h.RecordRun(changed, err)
	if err != nil {
		h.logger.Printf("manual refresh failed: %v", err)
		http.Error(w, "refresh failed", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]bool{"changed": changed}); err != nil {
		h.logger.Printf("failed to render refresh response: %v", err)
	}
}
