package routes

import (
	"matchup_server/controllers"
	"matchup_server/services"

	"github.com/gorilla/mux"
)

// RegisterMatchRoutes sets up routes for match catalog operations under
// /api/matches
func RegisterMatchRoutes(r *mux.Router, matchService *services.MatchService) {
	controller := controllers.NewMatchController(matchService)

	matchRouter := r.PathPrefix("/api/matches").Subrouter()
	matchRouter.HandleFunc("", controller.CreateMatch).Methods("POST")
	matchRouter.HandleFunc("", controller.ListMatches).Methods("GET")
	matchRouter.HandleFunc("/{matchId}", controller.GetMatch).Methods("GET")
	matchRouter.HandleFunc("/{matchId}", controller.UpdateMatch).Methods("PUT")
	matchRouter.HandleFunc("/{matchId}", controller.DeleteMatch).Methods("DELETE")
}
