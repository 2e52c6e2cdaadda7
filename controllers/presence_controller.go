package controllers

import (
	"context"
	"encoding/json"
	"net/http"

	"petpal_server/models"
	"petpal_server/services"

	"github.com/gorilla/mux"
)

// PresenceController handles requests for user presence
type PresenceController struct {
	PresenceService *services.PresenceService
}

// NewPresenceController creates a new instance of PresenceController
func NewPresenceController(presenceService *services.PresenceService) *PresenceController {
	return &PresenceController{PresenceService: presenceService}
}

// UpdateStatusHandler sets a user's online/offline flag
func (c *PresenceController) UpdateStatusHandler(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	var request struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if request.Status != models.UserStatusOnline && request.Status != models.UserStatusOffline {
		http.Error(w, "status must be 'online' or 'offline'", http.StatusBadRequest)
		return
	}

	if err := c.PresenceService.SetStatus(context.Background(), userID, request.Status); err != nil {
		writeServiceError(w, err, "Failed to update status")
		return
	}

	writeJSON(w, map[string]string{"message": "Status updated successfully"})
}

// HeartbeatHandler refreshes a user's lastActive timestamp
func (c *PresenceController) HeartbeatHandler(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	if err := c.PresenceService.Heartbeat(context.Background(), userID); err != nil {
		writeServiceError(w, err, "Failed to record heartbeat")
		return
	}

	writeJSON(w, map[string]string{"message": "Heartbeat recorded"})
}

// GetOnlineUsersHandler lists users currently online, optionally excluding
// the caller via the "exclude" query parameter
func (c *PresenceController) GetOnlineUsersHandler(w http.ResponseWriter, r *http.Request) {
	excludeUserID := r.URL.Query().Get("exclude")

	users, err := c.PresenceService.GetOnlineUsers(context.Background(), excludeUserID)
	if err != nil {
		writeServiceError(w, err, "Failed to fetch online users")
		return
	}

	writeJSON(w, users)
}
