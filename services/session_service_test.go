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

func newSessionService() (*SessionService, *fakeStore) {
	store := newFakeStore()
	return &SessionService{Store: store, Hub: realtime.NewHub()}, store
}

func TestSessionLifecycle(t *testing.T) {
	svc, _ := newSessionService()
	ctx := context.Background()

	session, err := svc.Create(ctx, "inv1", []string{"u1", "u2"}, models.InvitationTypeChat)
	require.NoError(t, err)
	assert.NotEmpty(t, session.SessionID)
	assert.Equal(t, models.SessionStatusActive, session.Status)
	assert.ElementsMatch(t, []string{"u1", "u2"}, session.Participants)
	assert.Equal(t, "inv1", session.InvitationID)
	assert.NotEmpty(t, session.StartedAt)
	assert.Empty(t, session.EndedBy)

	ended, err := svc.End(ctx, session.SessionID, "u2")
	require.NoError(t, err)
	assert.Equal(t, models.SessionStatusEnded, ended.Status)
	assert.Equal(t, "u2", ended.EndedBy)
	assert.NotEmpty(t, ended.EndedAt)
}

func TestCreateValidatesParticipants(t *testing.T) {
	svc, _ := newSessionService()
	ctx := context.Background()

	_, err := svc.Create(ctx, "inv1", []string{"u1"}, "chat")
	assert.Error(t, err)

	_, err = svc.Create(ctx, "inv1", []string{"u1", "u1"}, "chat")
	assert.Error(t, err)
}

func TestCreateReturnsExistingActiveSessionForPair(t *testing.T) {
	svc, _ := newSessionService()
	ctx := context.Background()

	first, err := svc.Create(ctx, "inv1", []string{"u1", "u2"}, "chat")
	require.NoError(t, err)

	// A racing accept from the other side uses the reversed participant
	// order but still lands on the same pair
	second, err := svc.Create(ctx, "inv2", []string{"u2", "u1"}, "chat")
	require.NoError(t, err)
	assert.Equal(t, first.SessionID, second.SessionID)

	// Once ended, the pair may start a fresh session
	_, err = svc.End(ctx, first.SessionID, "u1")
	require.NoError(t, err)

	third, err := svc.Create(ctx, "inv3", []string{"u1", "u2"}, "chat")
	require.NoError(t, err)
	assert.NotEqual(t, first.SessionID, third.SessionID)
}

func TestEndMissingSessionFailsNotFound(t *testing.T) {
	svc, _ := newSessionService()
	_, err := svc.End(context.Background(), "gone", "u1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEndIsIdempotentInEffect(t *testing.T) {
	svc, _ := newSessionService()
	ctx := context.Background()

	session, err := svc.Create(ctx, "inv1", []string{"u1", "u2"}, "chat")
	require.NoError(t, err)

	_, err = svc.End(ctx, session.SessionID, "u1")
	require.NoError(t, err)

	again, err := svc.End(ctx, session.SessionID, "u1")
	require.NoError(t, err)
	assert.Equal(t, models.SessionStatusEnded, again.Status)
}

func TestSubscribeObservesEndWithoutResubscribing(t *testing.T) {
	svc, _ := newSessionService()
	ctx := context.Background()

	session, err := svc.Create(ctx, "inv1", []string{"u1", "u2"}, "chat")
	require.NoError(t, err)

	var mu sync.Mutex
	var latest *models.Session
	gotNil := false
	unsubscribe, err := svc.Subscribe(session.SessionID, func(s *models.Session) {
		mu.Lock()
		latest = s
		if s == nil {
			gotNil = true
		}
		mu.Unlock()
	})
	require.NoError(t, err)
	defer unsubscribe()

	mu.Lock()
	require.NotNil(t, latest)
	assert.Equal(t, models.SessionStatusActive, latest.Status)
	mu.Unlock()

	_, err = svc.End(ctx, session.SessionID, "u2")
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return latest != nil && latest.Status == models.SessionStatusEnded && latest.EndedBy == "u2"
	}, time.Second, 5*time.Millisecond, "watcher should observe the ended transition")

	// Out-of-band deletion reads as nil, which callers treat as ended
	require.NoError(t, svc.Delete(ctx, session.SessionID))
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return gotNil
	}, time.Second, 5*time.Millisecond, "watcher should observe deletion as nil")
}

func TestSubscribeMissingSessionDeliversNil(t *testing.T) {
	svc, _ := newSessionService()

	var mu sync.Mutex
	var calls []*models.Session
	unsubscribe, err := svc.Subscribe("never-existed", func(s *models.Session) {
		mu.Lock()
		calls = append(calls, s)
		mu.Unlock()
	})
	require.NoError(t, err)
	defer unsubscribe()

	mu.Lock()
	require.Len(t, calls, 1)
	assert.Nil(t, calls[0])
	mu.Unlock()
}
