package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"petpal_server/models"
	"petpal_server/realtime"
	"petpal_server/utils"
)

// UserService is the identity sync bridge: the single place where
// identity-provider data and the user document schema are reconciled.
type UserService struct {
	Store DocumentStore
	Hub   *realtime.Hub
}

// SyncOnSignIn upserts the user document from identity-provider fields and
// the supplied pet snapshot, and marks the user online. Safe to call on
// every app foreground: createdAt and tokens are written with the store's
// upsert-if-absent primitive, so repeated syncs never re-initialize them.
func (s *UserService) SyncOnSignIn(ctx context.Context, identity models.Identity, pet *models.PetData) (*models.User, error) {
	if identity.ID == "" {
		return nil, errors.New("identity id is required")
	}

	petName, petSelection := s.resolvePetData(ctx, identity.ID, pet)
	now := utils.Now()

	// The partition key rides in the update's Key, never in the SET clause
	fields := map[string]interface{}{
		"displayName":  displayNameFromIdentity(identity),
		"email":        identity.PrimaryEmail,
		"photoUrl":     identity.ImageURL,
		"status":       models.UserStatusOnline,
		"lastActive":   now,
		"updatedAt":    now,
		"petName":      petName,
		"petSelection": petSelection,
	}
	initOnly := map[string]interface{}{
		"createdAt": now,
		"tokens":    0,
	}

	if err := s.Store.MergeDocument(ctx, models.UsersTable, models.UserKeyField, identity.ID, fields, initOnly); err != nil {
		return nil, fmt.Errorf("failed to sync user %s: %w", identity.ID, err)
	}

	var user models.User
	if err := s.Store.GetDocument(ctx, models.UsersTable, models.UserKeyField, identity.ID, &user); err != nil {
		return nil, fmt.Errorf("failed to read back synced user %s: %w", identity.ID, err)
	}

	s.Hub.Publish(realtime.TopicPresence)
	log.Printf("User %s synced and marked online", identity.ID)
	return &user, nil
}

// GetUser retrieves a user document by ID
func (s *UserService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	if err := s.Store.GetDocument(ctx, models.UsersTable, models.UserKeyField, userID, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdatePetData updates the pet fields on an existing user document
func (s *UserService) UpdatePetData(ctx context.Context, userID string, pet models.PetData) (*models.User, error) {
	if len(pet.PetName) == 0 || len(pet.PetName) > models.MaxPetNameLength {
		return nil, fmt.Errorf("petName must be 1-%d characters", models.MaxPetNameLength)
	}
	if pet.SelectedPet < 0 {
		return nil, errors.New("selectedPet must be a non-negative index")
	}

	fields := map[string]interface{}{
		"petName":      pet.PetName,
		"petSelection": pet.SelectedPet,
		"updatedAt":    utils.Now(),
	}

	var user models.User
	if err := s.Store.UpdateDocument(ctx, models.UsersTable, models.UserKeyField, userID, fields, &user); err != nil {
		return nil, err
	}

	// Pet fields are part of the online-users snapshot
	s.Hub.Publish(realtime.TopicPresence)
	return &user, nil
}

// resolvePetData picks the pet snapshot to write: the one supplied by the
// client, else whatever the user document already carries, else defaults.
func (s *UserService) resolvePetData(ctx context.Context, userID string, pet *models.PetData) (string, int) {
	petName := models.DefaultPetName
	petSelection := models.DefaultPetSelection

	if pet == nil {
		var existing models.User
		if err := s.Store.GetDocument(ctx, models.UsersTable, models.UserKeyField, userID, &existing); err == nil {
			if existing.PetName != "" {
				petName = existing.PetName
			}
			petSelection = existing.PetSelection
		}
		return petName, petSelection
	}

	if pet.PetName != "" && len(pet.PetName) <= models.MaxPetNameLength {
		petName = pet.PetName
	}
	if pet.SelectedPet > 0 {
		petSelection = pet.SelectedPet
	}
	return petName, petSelection
}

func displayNameFromIdentity(identity models.Identity) string {
	name := strings.TrimSpace(strings.TrimSpace(identity.FirstName) + " " + strings.TrimSpace(identity.LastName))
	if name != "" {
		return name
	}
	if identity.Username != "" {
		return identity.Username
	}
	return "Anonymous"
}
