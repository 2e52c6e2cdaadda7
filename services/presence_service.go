package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"petpal_server/models"
	"petpal_server/realtime"
	"petpal_server/utils"
)

// DefaultOnlineTTL bounds how long an unrefreshed "online" flag is
// believed. Presence is a soft signal: a client that crashes without its
// offline write self-heals once lastActive ages past the TTL.
const DefaultOnlineTTL = 2 * time.Minute

// PresenceService tracks each user's online/offline flag and last-active
// timestamp and fans out changes to subscribers.
type PresenceService struct {
	Store     DocumentStore
	Hub       *realtime.Hub
	OnlineTTL time.Duration
}

func (s *PresenceService) onlineTTL() time.Duration {
	if s.OnlineTTL > 0 {
		return s.OnlineTTL
	}
	return DefaultOnlineTTL
}

// SetStatus writes the status flag and refreshes lastActive on the user
// document. Fails with ErrNotFound if the profile has not been created yet.
func (s *PresenceService) SetStatus(ctx context.Context, userID, status string) error {
	if status != models.UserStatusOnline && status != models.UserStatusOffline {
		return fmt.Errorf("invalid status %q", status)
	}

	fields := map[string]interface{}{
		"status":     status,
		"lastActive": utils.Now(),
	}
	if err := s.Store.UpdateDocument(ctx, models.UsersTable, models.UserKeyField, userID, fields, nil); err != nil {
		return err
	}

	s.Hub.Publish(realtime.TopicPresence)
	return nil
}

// Heartbeat refreshes lastActive without changing the status flag, keeping
// an online user from aging past the TTL.
func (s *PresenceService) Heartbeat(ctx context.Context, userID string) error {
	fields := map[string]interface{}{
		"lastActive": utils.Now(),
	}
	if err := s.Store.UpdateDocument(ctx, models.UsersTable, models.UserKeyField, userID, fields, nil); err != nil {
		return err
	}
	s.Hub.Publish(realtime.TopicPresence)
	return nil
}

// GetOnlineUsers returns users whose status is online and whose lastActive
// is within the TTL, excluding excludeUserID when non-empty.
func (s *PresenceService) GetOnlineUsers(ctx context.Context, excludeUserID string) ([]models.User, error) {
	var users []models.User
	query := DocumentQuery{
		Table:   models.UsersTable,
		Filters: []Filter{{Field: "status", Value: models.UserStatusOnline}},
	}
	if err := s.Store.QueryDocuments(ctx, query, &users); err != nil {
		return nil, err
	}

	online := make([]models.User, 0, len(users))
	for _, user := range users {
		if user.UserID == excludeUserID {
			continue
		}
		if s.isStale(user.LastActive) {
			continue
		}
		online = append(online, user)
	}
	return online, nil
}

// SubscribeOnlineUsers delivers the current online-users snapshot, then a
// fresh snapshot every time presence membership or a profile field of an
// online user changes. The returned function unsubscribes; after it
// returns no further invocations happen.
func (s *PresenceService) SubscribeOnlineUsers(excludeUserID string, onChange func([]models.User)) (func(), error) {
	users, err := s.GetOnlineUsers(context.Background(), excludeUserID)
	if err != nil {
		return nil, err
	}
	onChange(users)

	unsubscribe := s.Hub.Subscribe(realtime.TopicPresence, func() {
		users, err := s.GetOnlineUsers(context.Background(), excludeUserID)
		if err != nil {
			// Keep the subscription; the next change retries the read
			log.Printf("Presence subscription read failed: %v", err)
			return
		}
		onChange(users)
	})
	return unsubscribe, nil
}

// StartJanitor periodically flips users whose online flag has gone stale to
// offline, so subscribers converge even when a client never ran its
// cleanup path. Stops when ctx is done.
func (s *PresenceService) StartJanitor(ctx context.Context) {
	interval := s.onlineTTL() / 2
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := s.SweepStale(ctx); err != nil {
					log.Printf("Presence janitor sweep failed: %v", err)
				}
			}
		}
	}()
}

// SweepStale marks every online user whose lastActive aged past the TTL as
// offline.
func (s *PresenceService) SweepStale(ctx context.Context) error {
	var users []models.User
	query := DocumentQuery{
		Table:   models.UsersTable,
		Filters: []Filter{{Field: "status", Value: models.UserStatusOnline}},
	}
	if err := s.Store.QueryDocuments(ctx, query, &users); err != nil {
		return err
	}

	swept := false
	for _, user := range users {
		if !s.isStale(user.LastActive) {
			continue
		}
		fields := map[string]interface{}{
			"status": models.UserStatusOffline,
		}
		// Guarded on the lastActive the query saw: a heartbeat that lands
		// between the snapshot and this write keeps the user online
		err := s.Store.UpdateDocumentIf(ctx, models.UsersTable, models.UserKeyField, user.UserID,
			fields, "lastActive", user.LastActive, nil)
		if errors.Is(err, ErrConflict) {
			continue
		}
		if err != nil {
			log.Printf("Failed to sweep stale user %s: %v", user.UserID, err)
			continue
		}
		log.Printf("Presence janitor marked stale user %s offline", user.UserID)
		swept = true
	}
	if swept {
		s.Hub.Publish(realtime.TopicPresence)
	}
	return nil
}

func (s *PresenceService) isStale(lastActive string) bool {
	if lastActive == "" {
		return true
	}
	age, err := utils.Since(lastActive)
	if err != nil {
		return true
	}
	return age > s.onlineTTL()
}
