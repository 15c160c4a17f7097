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

// MatchController handles match catalog CRUD requests
type MatchController struct {
	MatchService *services.MatchService
}

// NewMatchController creates a new instance of MatchController
func NewMatchController(matchService *services.MatchService) *MatchController {
	return &MatchController{MatchService: matchService}
}

// CreateMatch handles POST /api/matches
func (c *MatchController) CreateMatch(w http.ResponseWriter, r *http.Request) {
	var match models.Match
	if err := json.NewDecoder(r.Body).Decode(&match); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if match.MatchID == 0 || match.MatchTitle == "" {
		http.Error(w, "Missing required fields", http.StatusBadRequest)
		return
	}

	created, err := c.MatchService.CreateMatch(context.TODO(), match)
	if err != nil {
		log.Printf("Failed to create match: %v", err)
		http.Error(w, "Failed to save match", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(created)
}

// GetMatch handles GET /api/matches/{matchId}
func (c *MatchController) GetMatch(w http.ResponseWriter, r *http.Request) {
	matchID, err := strconv.ParseInt(mux.Vars(r)["matchId"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid match id", http.StatusBadRequest)
		return
	}

	match, err := c.MatchService.GetMatch(context.TODO(), matchID)
	if err != nil {
		log.Printf("Failed to fetch match %d: %v", matchID, err)
		http.Error(w, "Failed to fetch match", http.StatusInternalServerError)
		return
	}
	if match == nil {
		http.Error(w, "Match not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(match)
}

// ListMatches handles GET /api/matches
func (c *MatchController) ListMatches(w http.ResponseWriter, r *http.Request) {
	matches, err := c.MatchService.ListMatches(context.TODO())
	if err != nil {
		log.Printf("Failed to fetch matches: %v", err)
		http.Error(w, "Failed to fetch matches", http.StatusInternalServerError)
		return
	}
	if matches == nil {
		matches = []models.Match{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(matches)
}

// UpdateMatch handles PUT /api/matches/{matchId}. The member list and the
// member count are owned by the reservation service and are left untouched.
func (c *MatchController) UpdateMatch(w http.ResponseWriter, r *http.Request) {
	matchID, err := strconv.ParseInt(mux.Vars(r)["matchId"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid match id", http.StatusBadRequest)
		return
	}

	var match models.Match
	if err := json.NewDecoder(r.Body).Decode(&match); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	updated, err := c.MatchService.UpdateMatch(context.TODO(), matchID, match)
	if err != nil {
		if errors.Is(err, services.ErrMatchNotFound) {
			http.Error(w, "Match not found", http.StatusNotFound)
			return
		}
		log.Printf("Failed to update match %d: %v", matchID, err)
		http.Error(w, "Failed to update match", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(updated)
}

// DeleteMatch handles DELETE /api/matches/{matchId}
func (c *MatchController) DeleteMatch(w http.ResponseWriter, r *http.Request) {
	matchID, err := strconv.ParseInt(mux.Vars(r)["matchId"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid match id", http.StatusBadRequest)
		return
	}

	if err := c.MatchService.DeleteMatch(context.TODO(), matchID); err != nil {
		if errors.Is(err, services.ErrMatchNotFound) {
			http.Error(w, "Match not found", http.StatusNotFound)
			return
		}
		log.Printf("Failed to delete match %d: %v", matchID, err)
		http.Error(w, "Failed to delete match", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Match deleted successfully"})
}
