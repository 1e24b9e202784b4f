// controllers/auth.go
package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"tastepos/models"
	"tastepos/store"
	"tastepos/utils"

	"golang.org/x/crypto/bcrypt"
)

// AuthController handles the operator account
type AuthController struct {
	Admins *store.AdminStore
}

// NewAuthController creates a new AuthController
func NewAuthController(admins *store.AdminStore) *AuthController {
	return &AuthController{Admins: admins}
}

// CheckAdmin reports whether an admin account exists, used by the UI to
// decide between the signup and login screens
func (ac *AuthController) CheckAdmin(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	exists, err := ac.Admins.Exists(ctx)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"status": "error", "message": "Database error",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"exists": exists})
}

// Signup creates the admin account, first time only
func (ac *AuthController) Signup(w http.ResponseWriter, r *http.Request) {
	var body struct {
		AdminID  string `json:"admin_id"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"status": "error", "message": "Invalid request body",
		})
		return
	}
	if len(body.AdminID) < 3 || len(body.AdminID) > 50 {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"status": "error", "message": "admin_id must be 3-50 characters",
		})
		return
	}
	if len(body.Password) < 6 {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"status": "error", "message": "password must be at least 6 characters",
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	exists, err := ac.Admins.Exists(ctx)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"status": "error", "message": "Database error",
		})
		return
	}
	if exists {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"status": "error", "message": "Admin already exists. Signup is disabled.",
		})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"status": "error", "message": "Error hashing password",
		})
		return
	}

	admin := &models.Admin{AdminID: body.AdminID, Password: string(hashedPassword)}
	if err := ac.Admins.Create(ctx, admin); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"status": "error", "message": "Error creating admin",
		})
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message":  "Admin created successfully",
		"admin_id": body.AdminID,
	})
}

// Login authenticates the operator and issues a JWT
func (ac *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		AdminID  string `json:"admin_id"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"status": "error", "message": "Invalid request body",
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	admin, err := ac.Admins.FindByAdminID(ctx, creds.AdminID)
	if errors.Is(err, store.ErrNotFound) {
		writeJSON(w, http.StatusUnauthorized, map[string]interface{}{
			"status": "error", "message": "Invalid credentials",
		})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"status": "error", "message": "Database error",
		})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(creds.Password)); err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]interface{}{
			"status": "error", "message": "Invalid credentials",
		})
		return
	}

	token, err := utils.GenerateJWT(admin.AdminID, "admin")
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"status": "error", "message": "Error generating token",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":  "Login successful",
		"admin_id": admin.AdminID,
		"token":    token,
	})
}

// Logout acknowledges a logout; tokens are stateless so there is nothing to
// invalidate server side
func (ac *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Logged out successfully",
	})
}
