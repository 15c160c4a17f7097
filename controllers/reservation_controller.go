package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"matchup_server/models"
	"matchup_server/services"

	"github.com/gorilla/mux"
)

// ReservationController handles reservation join, cancel and lookup requests
type ReservationController struct {
	ReservationService *services.ReservationService
}

// NewReservationController creates a new instance of ReservationController
func NewReservationController(reservationService *services.ReservationService) *ReservationController {
	return &ReservationController{ReservationService: reservationService}
}

type reservationPayload struct {
	UserID string `json:"userId"`
}

// Reserve handles POST /api/matches/{matchId}/reserve
func (c *ReservationController) Reserve(w http.ResponseWriter, r *http.Request) {
	matchID, err := strconv.ParseInt(mux.Vars(r)["matchId"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid match id", http.StatusBadRequest)
		return
	}

	var payload reservationPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.UserID == "" {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	match, err := c.ReservationService.Join(context.TODO(), matchID, payload.UserID)
	if err != nil {
		writeReservationError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Reservation added successfully",
		"match":   match,
	})
}

// CancelReservation handles POST /api/matches/{matchId}/cancel
func (c *ReservationController) CancelReservation(w http.ResponseWriter, r *http.Request) {
	matchID, err := strconv.ParseInt(mux.Vars(r)["matchId"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid match id", http.StatusBadRequest)
		return
	}

	var payload reservationPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.UserID == "" {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	match, err := c.ReservationService.Cancel(context.TODO(), matchID, payload.UserID)
	if err != nil {
		writeReservationError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Reservation cancelled successfully",
		"match":   match,
	})
}

// ListUserReservations handles GET /api/users/{userId}/reservations
func (c *ReservationController) ListUserReservations(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	matches, err := c.ReservationService.ListReservationsForUser(context.TODO(), userID)
	if err != nil {
		log.Printf("Failed to fetch reservations for user %s: %v", userID, err)
		http.Error(w, "Failed to fetch reservations", http.StatusInternalServerError)
		return
	}

	if matches == nil {
		matches = []models.Match{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(matches)
}

// writeReservationError maps the reservation error taxonomy to HTTP statuses.
// Unknown errors become a generic 500; store error text is never sent to the
// client.
func writeReservationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrMatchNotFound):
		http.Error(w, "Match not found", http.StatusNotFound)
	case errors.Is(err, services.ErrUserNotFound):
		http.Error(w, "User not found", http.StatusNotFound)
	case errors.Is(err, services.ErrAlreadyReserved):
		http.Error(w, "User already reserved this match", http.StatusConflict)
	case errors.Is(err, services.ErrMatchFull):
		http.Error(w, "Match is full", http.StatusConflict)
	default:
		log.Printf("Reservation request failed: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
