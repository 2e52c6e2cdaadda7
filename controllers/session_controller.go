package controllers

import (
	"context"
	"encoding/json"
	"net/http"

	"petpal_server/services"

	"github.com/gorilla/mux"
)

// SessionController handles HTTP requests for session lifecycle actions
type SessionController struct {
	SessionService *services.SessionService
}

// GetHandler fetches a session by ID
func (c *SessionController) GetHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	session, err := c.SessionService.Get(context.Background(), sessionID)
	if err != nil {
		writeServiceError(w, err, "Failed to fetch session")
		return
	}

	writeJSON(w, session)
}

// EndHandler ends a session on behalf of a participant
func (c *SessionController) EndHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	var request struct {
		EndedBy string `json:"endedBy"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if request.EndedBy == "" {
		http.Error(w, "endedBy is required", http.StatusBadRequest)
		return
	}

	session, err := c.SessionService.End(context.Background(), sessionID, request.EndedBy)
	if err != nil {
		writeServiceError(w, err, "Failed to end session")
		return
	}

	writeJSON(w, map[string]interface{}{
		"message": "Session ended successfully",
		"session": session,
	})
}
