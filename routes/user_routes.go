package routes

import (
	"matchup_server/controllers"
	"matchup_server/services"

	"github.com/gorilla/mux"
)

// RegisterUserRoutes sets up the login endpoints and the user directory
// routes under /api/users
func RegisterUserRoutes(r *mux.Router, userService *services.UserService) {
	controller := controllers.NewUserController(userService)

	r.HandleFunc("/api/login", controller.Login).Methods("POST")
	r.HandleFunc("/api/is-first-login/{userId}", controller.IsFirstLogin).Methods("GET")
	r.HandleFunc("/api/user-info", controller.SaveUserInfo).Methods("POST")

	userRouter := r.PathPrefix("/api/users").Subrouter()
	userRouter.HandleFunc("", controller.ListUsers).Methods("GET")
	userRouter.HandleFunc("/{userId}", controller.GetUser).Methods("GET")
	userRouter.HandleFunc("/{userId}", controller.UpdateUser).Methods("PUT")
	userRouter.HandleFunc("/{userId}", controller.DeleteUser).Methods("DELETE")
}
