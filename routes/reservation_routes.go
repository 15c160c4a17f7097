package routes

import (
	"matchup_server/controllers"
	"matchup_server/services"

	"github.com/gorilla/mux"
)

// RegisterReservationRoutes sets up the reservation endpoints
func RegisterReservationRoutes(r *mux.Router, reservationService *services.ReservationService) {
	controller := controllers.NewReservationController(reservationService)

	r.HandleFunc("/api/matches/{matchId}/reserve", controller.Reserve).Methods("POST")
	r.HandleFunc("/api/matches/{matchId}/cancel", controller.CancelReservation).Methods("POST")
	r.HandleFunc("/api/users/{userId}/reservations", controller.ListUserReservations).Methods("GET")
}
