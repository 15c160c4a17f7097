package routes

import (
	"matchup_server/controllers"
	"matchup_server/services"

	"github.com/gorilla/mux"
)

// RegisterS3Routes sets up routes for image upload operations under
// /api/uploads
func RegisterS3Routes(r *mux.Router, s3Service *services.S3Service) {
	controller := controllers.NewS3Controller(s3Service)

	uploadRouter := r.PathPrefix("/api/uploads").Subrouter()
	uploadRouter.HandleFunc("", controller.GeneratePresignedURL).Methods("POST")
	uploadRouter.HandleFunc("/read-url", controller.GetPresignedReadURL).Methods("POST")
}
