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

// SessionService creates, ends and watches paired sessions.
type SessionService struct {
	Store DocumentStore
	Hub   *realtime.Hub
}

// Create starts an active session between exactly two participants. If the
// pair already has an active session, that session is returned instead of
// creating a duplicate. The pre-check and the create are two separate store
// calls, so a near-simultaneous accept from both sides can still slip
// through; the last-write-wins data model tolerates the extra session.
func (s *SessionService) Create(ctx context.Context, invitationID string, participants []string, sessionType string) (*models.Session, error) {
	if len(participants) != 2 {
		return nil, errors.New("a session requires exactly 2 participants")
	}
	if participants[0] == participants[1] {
		return nil, errors.New("participants must be distinct")
	}

	pairKey := models.PairKey(participants[0], participants[1])
	if existing, err := s.findActiveByPair(ctx, pairKey); err != nil {
		return nil, err
	} else if existing != nil {
		log.Printf("Active session %s already exists for pair %s", existing.SessionID, pairKey)
		return existing, nil
	}

	session := models.Session{
		SessionID:    uuid.NewString(),
		InvitationID: invitationID,
		Participants: participants,
		PairKey:      pairKey,
		Type:         sessionType,
		Status:       models.SessionStatusActive,
		StartedAt:    utils.Now(),
	}

	if err := s.Store.CreateDocument(ctx, models.SessionsTable, models.SessionKeyField, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.Hub.Publish(realtime.TopicSession(session.SessionID))
	log.Printf("Session %s created for pair %s", session.SessionID, pairKey)
	return &session, nil
}

// CreateFromInvitation starts the session an accepted invitation implies:
// sender and recipient become the participants and the session carries the
// invitation's type and ID. Retrying after a partial accept returns the
// session the first attempt created.
func (s *SessionService) CreateFromInvitation(ctx context.Context, invitation *models.Invitation) (*models.Session, error) {
	participants := []string{invitation.FromUserID, invitation.ToUserID}
	return s.Create(ctx, invitation.InvitationID, participants, invitation.Type)
}

// Get retrieves a session by ID
func (s *SessionService) Get(ctx context.Context, sessionID string) (*models.Session, error) {
	var session models.Session
	if err := s.Store.GetDocument(ctx, models.SessionsTable, models.SessionKeyField, sessionID, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// End marks a session ended, stamping endedAt and endedBy together.
// Re-ending an already-ended session rewrites the same terminal fields.
// Ending a session deleted out-of-band fails with ErrNotFound; callers
// treat that the same as a clean ended signal.
func (s *SessionService) End(ctx context.Context, sessionID, endedByUserID string) (*models.Session, error) {
	fields := map[string]interface{}{
		"status":  models.SessionStatusEnded,
		"endedAt": utils.Now(),
		"endedBy": endedByUserID,
	}

	var session models.Session
	if err := s.Store.UpdateDocument(ctx, models.SessionsTable, models.SessionKeyField, sessionID, fields, &session); err != nil {
		return nil, err
	}

	s.Hub.Publish(realtime.TopicSession(sessionID))
	log.Printf("Session %s ended by %s", sessionID, endedByUserID)
	return &session, nil
}

// Subscribe delivers the current session state, then every subsequent
// change. A nil session signals the document no longer exists; subscribers
// must treat that identically to status "ended". The returned function
// unsubscribes.
func (s *SessionService) Subscribe(sessionID string, onChange func(*models.Session)) (func(), error) {
	session, err := s.Get(context.Background(), sessionID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	onChange(session)

	unsubscribe := s.Hub.Subscribe(realtime.TopicSession(sessionID), func() {
		session, err := s.Get(context.Background(), sessionID)
		if errors.Is(err, ErrNotFound) {
			onChange(nil)
			return
		}
		if err != nil {
			log.Printf("Session subscription read failed for %s: %v", sessionID, err)
			return
		}
		onChange(session)
	})
	return unsubscribe, nil
}

// Delete removes a session document outright. Watchers observe it as nil on
// their next notification.
func (s *SessionService) Delete(ctx context.Context, sessionID string) error {
	if err := s.Store.DeleteDocument(ctx, models.SessionsTable, models.SessionKeyField, sessionID); err != nil {
		return err
	}
	s.Hub.Publish(realtime.TopicSession(sessionID))
	return nil
}

func (s *SessionService) findActiveByPair(ctx context.Context, pairKey string) (*models.Session, error) {
	var sessions []models.Session
	query := DocumentQuery{
		Table:     models.SessionsTable,
		Index:     models.SessionPairIndex,
		HashField: "pairKey",
		HashValue: pairKey,
		Filters:   []Filter{{Field: "status", Value: models.SessionStatusActive}},
		Limit:     1,
	}
	if err := s.Store.QueryDocuments(ctx, query, &sessions); err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, nil
	}
	return &sessions[0], nil
}
