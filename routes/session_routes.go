package routes

import (
	"petpal_server/controllers"
	"petpal_server/services"

	"github.com/gorilla/mux"
)

// RegisterSessionRoutes registers session routes under `/api/sessions`
func RegisterSessionRoutes(router *mux.Router, sessionService *services.SessionService) {
	controller := &controllers.SessionController{SessionService: sessionService}

	sessionRouter := router.PathPrefix("/api/sessions").Subrouter()
	sessionRouter.HandleFunc("/{sessionId}", controller.GetHandler).Methods("GET")      // Fetch a session
	sessionRouter.HandleFunc("/{sessionId}/end", controller.EndHandler).Methods("POST") // End a session
}
