// Package health provides the API server's health check endpoint.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/driftworks/slipway/internal/store"
)

// Status is the health check response body.
type Status struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Database string `json:"database"`
}

// Checker reports process and database health.
type Checker struct {
	store   store.Store
	version string
}

// NewChecker creates a health Checker.
func NewChecker(st store.Store, version string) *Checker {
	return &Checker{
		store:   st,
		version: version,
	}
}

// Handler returns the health check HTTP handler.
func (c *Checker) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := Status{
			Status:   "ok",
			Version:  c.version,
			Database: "ok",
		}
		code := http.StatusOK

		if err := c.store.Ping(ctx); err != nil {
			status.Status = "degraded"
			status.Database = err.Error()
			code = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		json.NewEncoder(w).Encode(status)
	}
}
