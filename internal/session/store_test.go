package session

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattaxpro/client-go/internal/events"
)

type recordingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recordingDispatcher) Publish(_ context.Context, event events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (r *recordingDispatcher) recorded() []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]events.Event{}, r.events...)
}

func TestFileStoreRoundTrip(t *testing.T) {
	dispatcher := &recordingDispatcher{}
	store := NewFileStore(filepath.Join(t.TempDir(), "nested", "token"), dispatcher)
	ctx := context.Background()

	token, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, token, "fresh store should have no token")

	raw := signedToken(t, "secret", Claims{
		SubjectID:     "u-1",
		Role:          "user",
		AllowedRoutes: []string{"transactions"},
	})
	require.NoError(t, store.Save(ctx, raw))

	token, err = store.Load()
	require.NoError(t, err)
	assert.Equal(t, raw, token)

	sess, err := CurrentSession(store)
	require.NoError(t, err)
	assert.Equal(t, "u-1", sess.SubjectID)

	require.NoError(t, store.Clear(ctx, ClearReasonLogout))
	token, err = store.Load()
	require.NoError(t, err)
	assert.Empty(t, token)

	_, err = CurrentSession(store)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestFileStorePublishesChanges(t *testing.T) {
	dispatcher := &recordingDispatcher{}
	store := NewFileStore(filepath.Join(t.TempDir(), "token"), dispatcher)
	ctx := context.Background()

	raw := signedToken(t, "secret", Claims{
		SubjectID:     "u-9",
		Role:          "accountant",
		AllowedRoutes: []string{"accountants"},
	})
	require.NoError(t, store.Save(ctx, raw))
	require.NoError(t, store.Clear(ctx, ClearReasonUnauthorized))

	recorded := dispatcher.recorded()
	require.Len(t, recorded, 2)

	assert.Equal(t, events.EventSessionSaved, recorded[0].Type)
	saved, ok := recorded[0].Payload.(events.SessionSavedPayload)
	require.True(t, ok)
	assert.Equal(t, "u-9", saved.SubjectID)

	assert.Equal(t, events.EventSessionCleared, recorded[1].Type)
	cleared, ok := recorded[1].Payload.(events.SessionClearedPayload)
	require.True(t, ok)
	assert.Equal(t, ClearReasonUnauthorized, cleared.Reason)
}

func TestClearingAnEmptyStoreIsFine(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "token"), nil)
	assert.NoError(t, store.Clear(context.Background(), ClearReasonLogout))
}

func TestMemoryStore(t *testing.T) {
	dispatcher := &recordingDispatcher{}
	store := NewMemoryStore(dispatcher)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "tok"))
	token, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "tok", token)

	require.NoError(t, store.Clear(ctx, ClearReasonLogout))
	token, err = store.Load()
	require.NoError(t, err)
	assert.Empty(t, token)

	assert.Len(t, dispatcher.recorded(), 2)
}
