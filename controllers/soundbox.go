// controllers/soundbox.go
package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"tastepos/models"
	"tastepos/store"
)

// SoundboxController manages the device configuration and the matching
// settings, both singleton documents.
type SoundboxController struct {
	Configs  *store.ConfigStore
	Settings *store.SettingsStore
}

// NewSoundboxController creates a new SoundboxController
func NewSoundboxController(configs *store.ConfigStore, settings *store.SettingsStore) *SoundboxController {
	return &SoundboxController{Configs: configs, Settings: settings}
}

// CreateConfig creates or replaces the soundbox configuration
func (sc *SoundboxController) CreateConfig(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Provider      string `json:"provider"`
		MerchantUPIID string `json:"merchant_upi_id"`
		MerchantName  string `json:"merchant_name"`
		APIKey        string `json:"api_key"`
		APISecret     string `json:"api_secret"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"status": "error", "message": "Invalid request body",
		})
		return
	}
	if body.MerchantUPIID == "" || body.MerchantName == "" {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"status": "error", "message": "merchant_upi_id and merchant_name are required",
		})
		return
	}
	if body.Provider == "" {
		body.Provider = models.ProviderPaytm
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	config, err := sc.Configs.Upsert(ctx, &models.SoundboxConfig{
		Provider:      body.Provider,
		MerchantUPIID: body.MerchantUPIID,
		MerchantName:  body.MerchantName,
		APIKey:        body.APIKey,
		APISecret:     body.APISecret,
	})
	if err != nil {
		log.Printf("Failed to save soundbox config: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"status": "error", "message": "Failed to save soundbox config",
		})
		return
	}

	log.Printf("Soundbox config saved: %s", config.Provider)
	writeJSON(w, http.StatusOK, config)
}

// GetConfig returns the current soundbox configuration
func (sc *SoundboxController) GetConfig(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	config, err := sc.Configs.Get(ctx)
	if errors.Is(err, store.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]interface{}{
			"status": "error", "message": "Soundbox config not found",
		})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"status": "error", "message": "Failed to fetch soundbox config",
		})
		return
	}

	writeJSON(w, http.StatusOK, config)
}

// UpdateConfig updates only the provided fields of the configuration
func (sc *SoundboxController) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Provider      *string `json:"provider"`
		MerchantUPIID *string `json:"merchant_upi_id"`
		MerchantName  *string `json:"merchant_name"`
		APIKey        *string `json:"api_key"`
		APISecret     *string `json:"api_secret"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"status": "error", "message": "Invalid request body",
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	config, err := sc.Configs.Get(ctx)
	if errors.Is(err, store.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]interface{}{
			"status": "error", "message": "Soundbox config not found",
		})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"status": "error", "message": "Failed to fetch soundbox config",
		})
		return
	}

	if body.Provider != nil {
		config.Provider = *body.Provider
	}
	if body.MerchantUPIID != nil {
		config.MerchantUPIID = *body.MerchantUPIID
	}
	if body.MerchantName != nil {
		config.MerchantName = *body.MerchantName
	}
	if body.APIKey != nil {
		config.APIKey = *body.APIKey
	}
	if body.APISecret != nil {
		config.APISecret = *body.APISecret
	}

	updated, err := sc.Configs.Upsert(ctx, config)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"status": "error", "message": "Failed to update soundbox config",
		})
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// Disconnect deactivates the soundbox without deleting its configuration
func (sc *SoundboxController) Disconnect(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	config, err := sc.Configs.Deactivate(ctx)
	if errors.Is(err, store.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]interface{}{
			"status": "error", "message": "Soundbox config not found",
		})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"status": "error", "message": "Failed to disconnect soundbox",
		})
		return
	}

	log.Println("Soundbox disconnected")
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "success",
		"message":   "Soundbox disconnected successfully",
		"connected": false,
		"is_active": false,
		"config":    config,
	})
}

// TestConnection verifies the device configuration and stamps last_ping
func (sc *SoundboxController) TestConnection(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	config, err := sc.Configs.RecordPing(ctx)
	if errors.Is(err, store.ErrNotFound) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status":    "error",
			"message":   "Soundbox not configured",
			"connected": false,
		})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"status": "error", "message": "Failed to test soundbox connection",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":          "success",
		"message":         "Soundbox connection test successful",
		"connected":       true,
		"provider":        config.Provider,
		"merchant_upi_id": config.MerchantUPIID,
	})
}

// GetSettings returns the matching settings, defaults when never saved
func (sc *SoundboxController) GetSettings(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	settings, err := sc.Settings.Get(ctx)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"status": "error", "message": "Failed to fetch matching settings",
		})
		return
	}

	writeJSON(w, http.StatusOK, settings)
}

// UpdateSettings replaces the matching settings
func (sc *SoundboxController) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var settings models.MatchingSettings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"status": "error", "message": "Invalid request body",
		})
		return
	}

	switch settings.MatchingAlgorithm {
	case models.AlgorithmFIFO, models.AlgorithmAmountTime, models.AlgorithmManual:
	default:
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"status": "error", "message": "Invalid matching algorithm",
		})
		return
	}
	if settings.PaymentTimeoutMinutes <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"status": "error", "message": "payment_timeout_minutes must be positive",
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	updated, err := sc.Settings.Update(ctx, &settings)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"status": "error", "message": "Failed to update matching settings",
		})
		return
	}

	writeJSON(w, http.StatusOK, updated)
}
