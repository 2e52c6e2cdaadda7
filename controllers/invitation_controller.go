package controllers

import (
	"context"
	"encoding/json"
	"net/http"

	"petpal_server/models"
	"petpal_server/services"

	"github.com/gorilla/mux"
)

// InvitationController handles HTTP requests for invitation-related actions
type InvitationController struct {
	InvitationService *services.InvitationService
	SessionService    *services.SessionService
}

// SendHandler creates a new pending invitation
func (c *InvitationController) SendHandler(w http.ResponseWriter, r *http.Request) {
	var request struct {
		FromUserID string `json:"fromUserId"`
		ToUserID   string `json:"toUserId"`
		Message    string `json:"message"`
		Type       string `json:"type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if request.FromUserID == "" || request.ToUserID == "" {
		http.Error(w, "fromUserId and toUserId are required", http.StatusBadRequest)
		return
	}

	invitation, err := c.InvitationService.Send(context.Background(), request.FromUserID, request.ToUserID, request.Message, request.Type)
	if err != nil {
		writeServiceError(w, err, "Failed to create invitation")
		return
	}

	writeJSON(w, map[string]interface{}{
		"message":    "Invitation sent successfully",
		"invitation": invitation,
	})
}

// GetPendingHandler lists pending invitations for a recipient
func (c *InvitationController) GetPendingHandler(w http.ResponseWriter, r *http.Request) {
	toUserID := mux.Vars(r)["userId"]

	invitations, err := c.InvitationService.GetPending(context.Background(), toUserID)
	if err != nil {
		writeServiceError(w, err, "Failed to fetch pending invitations")
		return
	}

	writeJSON(w, invitations)
}

// GetSentHandler lists invitations a user has sent
func (c *InvitationController) GetSentHandler(w http.ResponseWriter, r *http.Request) {
	fromUserID := mux.Vars(r)["userId"]

	invitations, err := c.InvitationService.GetSent(context.Background(), fromUserID)
	if err != nil {
		writeServiceError(w, err, "Failed to fetch sent invitations")
		return
	}

	writeJSON(w, invitations)
}

// RespondHandler accepts or declines an invitation. Accepting additionally
// creates the session as a second, separate write; a crash in between
// leaves an accepted invitation with no session, which clients tolerate.
func (c *InvitationController) RespondHandler(w http.ResponseWriter, r *http.Request) {
	invitationID := mux.Vars(r)["invitationId"]

	var request struct {
		Decision string `json:"decision"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if request.Decision != models.InvitationStatusAccepted && request.Decision != models.InvitationStatusDeclined {
		http.Error(w, "decision must be 'accepted' or 'declined'", http.StatusBadRequest)
		return
	}

	invitation, err := c.InvitationService.Respond(context.Background(), invitationID, request.Decision)
	if err != nil {
		writeServiceError(w, err, "Failed to update invitation")
		return
	}

	response := map[string]interface{}{
		"message":    "Invitation status updated successfully",
		"invitation": invitation,
	}

	if request.Decision == models.InvitationStatusAccepted {
		session, err := c.SessionService.CreateFromInvitation(context.Background(), invitation)
		if err != nil {
			writeServiceError(w, err, "Failed to create session")
			return
		}
		response["session"] = session
	}

	writeJSON(w, response)
}
