package controllers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"petpal_server/models"
	"petpal_server/services"

	"github.com/gorilla/mux"
)

// UserController handles requests related to user documents and identity sync
type UserController struct {
	UserService *services.UserService
}

// NewUserController creates a new instance of UserController
func NewUserController(userService *services.UserService) *UserController {
	return &UserController{UserService: userService}
}

// SyncHandler upserts the caller's user document from identity-provider
// fields. The client posts it on sign-in and on every app foreground.
func (c *UserController) SyncHandler(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Identity models.Identity `json:"identity"`
		PetData  *models.PetData `json:"petData,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if request.Identity.ID == "" {
		http.Error(w, "identity.id is required", http.StatusBadRequest)
		return
	}

	user, err := c.UserService.SyncOnSignIn(context.Background(), request.Identity, request.PetData)
	if err != nil {
		writeServiceError(w, err, "Failed to sync user")
		return
	}

	log.Printf("Sync completed for user %s", user.UserID)
	writeJSON(w, map[string]interface{}{
		"message": "User synced successfully",
		"user":    user,
	})
}

// GetUserHandler fetches a user document by ID
func (c *UserController) GetUserHandler(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	user, err := c.UserService.GetUser(context.Background(), userID)
	if err != nil {
		writeServiceError(w, err, "Failed to fetch user")
		return
	}

	writeJSON(w, user)
}

// UpdatePetHandler updates the pet fields on a user document
func (c *UserController) UpdatePetHandler(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	var pet models.PetData
	if err := json.NewDecoder(r.Body).Decode(&pet); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if pet.PetName == "" || len(pet.PetName) > models.MaxPetNameLength || pet.SelectedPet < 0 {
		http.Error(w, "Invalid pet data", http.StatusBadRequest)
		return
	}

	user, err := c.UserService.UpdatePetData(context.Background(), userID, pet)
	if err != nil {
		writeServiceError(w, err, "Failed to update pet data")
		return
	}

	writeJSON(w, map[string]interface{}{
		"message": "Pet data updated successfully",
		"user":    user,
	})
}
