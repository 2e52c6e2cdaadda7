package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"petpal_server/models"
	"petpal_server/realtime"
	"petpal_server/utils"

	"github.com/google/uuid"
)

// InvitationService creates, lists and transitions invitations between a
// sending and a receiving user.
type InvitationService struct {
	Store DocumentStore
	Hub   *realtime.Hub
}

// Send creates a new pending invitation and returns the created record
// including its generated ID. Whether the recipient is online or distinct
// from the sender is the caller's concern.
func (s *InvitationService) Send(ctx context.Context, fromUserID, toUserID, message, invitationType string) (*models.Invitation, error) {
	if fromUserID == "" || toUserID == "" {
		return nil, errors.New("fromUserId and toUserId are required")
	}
	if invitationType == "" {
		invitationType = models.InvitationTypeChat
	}

	now := utils.Now()
	invitation := models.Invitation{
		InvitationID: uuid.NewString(),
		FromUserID:   fromUserID,
		ToUserID:     toUserID,
		Message:      message,
		Type:         invitationType,
		Status:       models.InvitationStatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.Store.CreateDocument(ctx, models.InvitationsTable, models.InvitationKeyField, invitation); err != nil {
		return nil, fmt.Errorf("failed to create invitation: %w", err)
	}

	s.Hub.Publish(realtime.TopicInvitations(toUserID))
	log.Printf("Invitation %s sent from %s to %s", invitation.InvitationID, fromUserID, toUserID)
	return &invitation, nil
}

// GetPending fetches the recipient's pending invitations, newest first
func (s *InvitationService) GetPending(ctx context.Context, toUserID string) ([]models.Invitation, error) {
	var invitations []models.Invitation
	query := DocumentQuery{
		Table:      models.InvitationsTable,
		Index:      models.InvitationReceiverIndex,
		HashField:  "toUserId",
		HashValue:  toUserID,
		Filters:    []Filter{{Field: "status", Value: models.InvitationStatusPending}},
		Descending: true,
	}
	if err := s.Store.QueryDocuments(ctx, query, &invitations); err != nil {
		return nil, err
	}
	if invitations == nil {
		invitations = []models.Invitation{}
	}
	return invitations, nil
}

// GetSent fetches the invitations a user has sent, newest first
func (s *InvitationService) GetSent(ctx context.Context, fromUserID string) ([]models.Invitation, error) {
	var invitations []models.Invitation
	query := DocumentQuery{
		Table:      models.InvitationsTable,
		Index:      models.InvitationSenderIndex,
		HashField:  "fromUserId",
		HashValue:  fromUserID,
		Descending: true,
	}
	if err := s.Store.QueryDocuments(ctx, query, &invitations); err != nil {
		return nil, err
	}
	if invitations == nil {
		invitations = []models.Invitation{}
	}
	return invitations, nil
}

// Respond transitions a pending invitation to accepted or declined.
// The write is guarded on the pending state: responding twice fails with
// ErrConflict instead of rewriting the terminal status, and responding to
// an unknown ID fails with ErrNotFound.
func (s *InvitationService) Respond(ctx context.Context, invitationID, decision string) (*models.Invitation, error) {
	if decision != models.InvitationStatusAccepted && decision != models.InvitationStatusDeclined {
		return nil, fmt.Errorf("invalid decision %q", decision)
	}

	fields := map[string]interface{}{
		"status":    decision,
		"updatedAt": utils.Now(),
	}

	var invitation models.Invitation
	err := s.Store.UpdateDocumentIf(ctx, models.InvitationsTable, models.InvitationKeyField, invitationID,
		fields, "status", models.InvitationStatusPending, &invitation)
	if errors.Is(err, ErrConflict) {
		// The guard cannot tell a missing document from one already
		// responded to; a follow-up read disambiguates.
		var existing models.Invitation
		if getErr := s.Store.GetDocument(ctx, models.InvitationsTable, models.InvitationKeyField, invitationID, &existing); errors.Is(getErr, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, ErrConflict
	}
	if err != nil {
		return nil, err
	}

	s.Hub.Publish(realtime.TopicInvitations(invitation.ToUserID))
	log.Printf("Invitation %s marked %s", invitationID, decision)
	return &invitation, nil
}

// SubscribePending delivers the recipient's current pending invitations,
// then a fresh list on every change to the matching set. The returned
// function unsubscribes.
func (s *InvitationService) SubscribePending(toUserID string, onChange func([]models.Invitation)) (func(), error) {
	invitations, err := s.GetPending(context.Background(), toUserID)
	if err != nil {
		return nil, err
	}
	onChange(invitations)

	unsubscribe := s.Hub.Subscribe(realtime.TopicInvitations(toUserID), func() {
		invitations, err := s.GetPending(context.Background(), toUserID)
		if err != nil {
			log.Printf("Pending-invitations subscription read failed for %s: %v", toUserID, err)
			return
		}
		onChange(invitations)
	})
	return unsubscribe, nil
}
