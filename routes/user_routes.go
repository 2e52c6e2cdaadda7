package routes

import (
	"petpal_server/controllers"
	"petpal_server/services"

	"github.com/gorilla/mux"
)

// RegisterUserRoutes registers user and identity-sync routes under `/api/users`
func RegisterUserRoutes(router *mux.Router, userService *services.UserService) {
	controller := controllers.NewUserController(userService)

	userRouter := router.PathPrefix("/api/users").Subrouter()
	userRouter.HandleFunc("/sync", controller.SyncHandler).Methods("POST")             // Sync identity on sign-in/foreground
	userRouter.HandleFunc("/{userId}", controller.GetUserHandler).Methods("GET")       // Fetch a user document
	userRouter.HandleFunc("/{userId}/pet", controller.UpdatePetHandler).Methods("PUT") // Update pet selection/name
}
