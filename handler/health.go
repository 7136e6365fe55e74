package handler

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/workhub/paysnap/infra/opensearch"
	"github.com/workhub/paysnap/infra/response"
	"github.com/workhub/paysnap/provider"
)

// HealthStatus is the health endpoint payload
type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Uptime    string            `json:"uptime"`
	Database  string            `json:"database"`
	Events    string            `json:"events"`
	Providers []string          `json:"providers"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// HealthHandler answers readiness probes
type HealthHandler struct {
	db        *sql.DB
	events    *opensearch.Client
	startedAt time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db *sql.DB, events *opensearch.Client) *HealthHandler {
	return &HealthHandler{
		db:        db,
		events:    events,
		startedAt: time.Now(),
	}
}

// CheckHealth reports whether the service can take traffic. The event sink is
// informational only; a down OpenSearch never fails the probe.
func (h *HealthHandler) CheckHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	health := HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(h.startedAt).Round(time.Second).String(),
		Database:  "up",
		Events:    "disabled",
		Providers: provider.RegisteredProviders(),
	}

	statusCode := http.StatusOK
	if err := h.db.PingContext(ctx); err != nil {
		health.Status = "unhealthy"
		health.Database = "down"
		health.Checks = map[string]string{"database": err.Error()}
		statusCode = http.StatusServiceUnavailable
	}

	if h.events.IsEnabled() {
		health.Events = "up"
		if err := h.events.Ping(ctx); err != nil {
			health.Events = "down"
		}
	}

	_ = response.WriteJSON(w, statusCode, health)
}
