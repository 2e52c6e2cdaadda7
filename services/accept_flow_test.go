package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"petpal_server/models"
	"petpal_server/realtime"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The accept flow end to end: u1 invites u2, u2 accepts, the session is
// derived from the accepted invitation, and a live watcher observes the end.
func TestAcceptedInvitationStartsAndEndsSession(t *testing.T) {
	store := newFakeStore()
	hub := realtime.NewHub()
	invitations := &InvitationService{Store: store, Hub: hub}
	sessions := &SessionService{Store: store, Hub: hub}
	ctx := context.Background()

	sent, err := invitations.Send(ctx, "u1", "u2", "Let's focus together", models.InvitationTypeChat)
	require.NoError(t, err)

	accepted, err := invitations.Respond(ctx, sent.InvitationID, models.InvitationStatusAccepted)
	require.NoError(t, err)

	session, err := sessions.CreateFromInvitation(ctx, accepted)
	require.NoError(t, err)
	assert.Equal(t, []string{"u1", "u2"}, session.Participants)
	assert.Equal(t, models.InvitationTypeChat, session.Type)
	assert.Equal(t, sent.InvitationID, session.InvitationID)
	assert.Equal(t, models.SessionStatusActive, session.Status)
	assert.NotEmpty(t, session.StartedAt)

	// A retried accept must land on the same session, not a duplicate
	again, err := sessions.CreateFromInvitation(ctx, accepted)
	require.NoError(t, err)
	assert.Equal(t, session.SessionID, again.SessionID)

	// u1 watches the session live while u2 ends it
	var mu sync.Mutex
	var latest *models.Session
	unsubscribe, err := sessions.Subscribe(session.SessionID, func(s *models.Session) {
		mu.Lock()
		latest = s
		mu.Unlock()
	})
	require.NoError(t, err)
	defer unsubscribe()

	_, err = sessions.End(ctx, session.SessionID, "u2")
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return latest != nil && latest.Status == models.SessionStatusEnded
	}, time.Second, 5*time.Millisecond, "watcher should observe the ended session")

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "u2", latest.EndedBy)
	assert.NotEmpty(t, latest.EndedAt)
}
