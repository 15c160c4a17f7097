package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"matchup_server/models"
	"matchup_server/services"

	"github.com/gorilla/mux"
)

// UserController handles login and user directory requests
type UserController struct {
	UserService *services.UserService
}

// NewUserController creates a new instance of UserController
func NewUserController(userService *services.UserService) *UserController {
	return &UserController{UserService: userService}
}

// Login handles POST /api/login. The identity provider's token is accepted
// verbatim; the record is upserted keyed by user_id.
func (c *UserController) Login(w http.ResponseWriter, r *http.Request) {
	var in services.LoginInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if in.UserID == "" {
		http.Error(w, "Missing required fields", http.StatusBadRequest)
		return
	}

	isFirstLogin, err := c.UserService.Login(context.TODO(), in)
	if err != nil {
		log.Printf("Failed to save user info on login: %v", err)
		http.Error(w, "Failed to save user info", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"isFirstLogin": isFirstLogin})
}

// IsFirstLogin handles GET /api/is-first-login/{userId}
func (c *UserController) IsFirstLogin(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	isFirstLogin, err := c.UserService.IsFirstLogin(context.TODO(), userID)
	if err != nil {
		log.Printf("Failed to check first login for %s: %v", userID, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"isFirstLogin": isFirstLogin})
}

// SaveUserInfo handles POST /api/user-info, the profile details submitted
// after a first login.
func (c *UserController) SaveUserInfo(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		UserID string `json:"user_id"`
		Level  int    `json:"level"`
		Team   string `json:"team"`
		Memo   string `json:"memo"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.UserID == "" {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	if _, err := c.UserService.SaveUserInfo(context.TODO(), payload.UserID, payload.Level, payload.Team, payload.Memo); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			http.Error(w, "User not found", http.StatusNotFound)
			return
		}
		log.Printf("Failed to save user info for %s: %v", payload.UserID, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "User info saved successfully"})
}

// GetUser handles GET /api/users/{userId}
func (c *UserController) GetUser(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	user, err := c.UserService.GetUser(context.TODO(), userID)
	if err != nil {
		log.Printf("Failed to fetch user %s: %v", userID, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if user == nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}

// ListUsers handles GET /api/users
func (c *UserController) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := c.UserService.ListUsers(context.TODO())
	if err != nil {
		log.Printf("Failed to fetch users: %v", err)
		http.Error(w, "Failed to fetch users", http.StatusInternalServerError)
		return
	}
	if users == nil {
		users = []models.User{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(users)
}

// UpdateUser handles PUT /api/users/{userId}
func (c *UserController) UpdateUser(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	var user models.User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	updated, err := c.UserService.UpdateUser(context.TODO(), userID, user)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			http.Error(w, "User not found", http.StatusNotFound)
			return
		}
		log.Printf("Failed to update user %s: %v", userID, err)
		http.Error(w, "Failed to update user", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(updated)
}

// DeleteUser handles DELETE /api/users/{userId}
func (c *UserController) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	if err := c.UserService.DeleteUser(context.TODO(), userID); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			http.Error(w, "User not found", http.StatusNotFound)
			return
		}
		log.Printf("Failed to delete user %s: %v", userID, err)
		http.Error(w, "Failed to delete user", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "User deleted successfully"})
}
