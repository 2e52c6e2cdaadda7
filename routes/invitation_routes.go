package routes

import (
	"petpal_server/controllers"
	"petpal_server/services"

	"github.com/gorilla/mux"
)

// RegisterInvitationRoutes registers invitation routes under `/api/invitations`
func RegisterInvitationRoutes(router *mux.Router, invitationService *services.InvitationService, sessionService *services.SessionService) {
	controller := &controllers.InvitationController{
		InvitationService: invitationService,
		SessionService:    sessionService,
	}

	invitationRouter := router.PathPrefix("/api/invitations").Subrouter()
	invitationRouter.HandleFunc("", controller.SendHandler).Methods("POST")                              // Send an invitation
	invitationRouter.HandleFunc("/pending/{userId}", controller.GetPendingHandler).Methods("GET")        // Pending invitations for recipient
	invitationRouter.HandleFunc("/sent/{userId}", controller.GetSentHandler).Methods("GET")              // Invitations a user has sent
	invitationRouter.HandleFunc("/{invitationId}/respond", controller.RespondHandler).Methods("PUT")     // Accept/decline
}
