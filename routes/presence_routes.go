package routes

import (
	"petpal_server/controllers"
	"petpal_server/services"

	"github.com/gorilla/mux"
)

// RegisterPresenceRoutes registers presence routes under `/api/presence`
func RegisterPresenceRoutes(router *mux.Router, presenceService *services.PresenceService) {
	controller := controllers.NewPresenceController(presenceService)

	presenceRouter := router.PathPrefix("/api/presence").Subrouter()
	presenceRouter.HandleFunc("/online", controller.GetOnlineUsersHandler).Methods("GET")           // List online users
	presenceRouter.HandleFunc("/{userId}", controller.UpdateStatusHandler).Methods("PUT")           // Set online/offline
	presenceRouter.HandleFunc("/{userId}/heartbeat", controller.HeartbeatHandler).Methods("POST")   // Refresh lastActive
}
