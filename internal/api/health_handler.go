package api

import (
	"context"
	"net/http"
	"time"

	"github.com/revittco/storefront/internal/store"
)

var startTime = time.Now()

type healthResponse struct {
	Status        string `json:"status"`
	Version       string `json:"version"`
	Schema        int    `json:"schema,omitempty"`
	UptimeSeconds int    `json:"uptime_seconds"`
}

// schemaVersioner is implemented by stores that track migrations.
type schemaVersioner interface {
	SchemaVersion(ctx context.Context) (int, error)
}

type healthHandler struct {
	store   store.Store
	version string
}

func (h *healthHandler) check(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	resp := healthResponse{
		Status:        "ok",
		Version:       h.version,
		UptimeSeconds: int(time.Since(startTime).Seconds()),
	}
	if sv, ok := h.store.(schemaVersioner); ok {
		if v, err := sv.SchemaVersion(r.Context()); err == nil {
			resp.Schema = v
		}
	}
	writeJSON(w, http.StatusOK, "", resp)
}
