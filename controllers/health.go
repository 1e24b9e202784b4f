// controllers/health.go
package controllers

import (
	"net/http"
	"time"

	"tastepos/store"

	"go.mongodb.org/mongo-driver/mongo"
)

// App identity reported by the health endpoints.
const (
	AppName    = "Taste Paradise API"
	AppVersion = "1.0.0"
)

// HealthController serves liveness endpoints for deployment monitoring
type HealthController struct {
	Client *mongo.Client
}

// NewHealthController creates a new HealthController
func NewHealthController(client *mongo.Client) *HealthController {
	return &HealthController{Client: client}
}

// Root returns basic app info
func (hc *HealthController) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"app":     AppName,
		"version": AppVersion,
		"status":  "healthy",
		"message": "API is running",
	})
}

// Health reports app health including database connectivity
func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	health := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"app":       AppName,
		"version":   AppVersion,
	}

	if err := store.Ping(r.Context(), hc.Client); err != nil {
		health["database"] = "error: " + err.Error()
		health["status"] = "degraded"
	} else {
		health["database"] = "connected"
	}

	writeJSON(w, http.StatusOK, health)
}

// Ping is a bare liveness probe
func (hc *HealthController) Ping(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
