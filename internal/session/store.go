package session

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/mattaxpro/client-go/internal/domain"
	"github.com/mattaxpro/client-go/internal/events"
)

// ClearReason values carried on session-cleared events.
const (
	ClearReasonLogout       = "logout"
	ClearReasonUnauthorized = "unauthorized"
)

// Store is the single read/write surface for the persisted access token.
// Only the login/social-callback flows save and only logout or the shared
// 401 handler clear; everything else reads. Changes are published on the
// dispatcher so route guards can recompute instead of caching a decision.
type Store interface {
	// Load returns the stored token, or "" when none is stored.
	Load() (string, error)
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context, reason string) error
}

// CurrentSession loads and decodes the stored token. The session is
// recomputed on every call; nothing is cached across token changes.
func CurrentSession(st Store) (*domain.Session, error) {
	token, err := st.Load()
	if err != nil {
		return nil, err
	}
	return Decode(token)
}

// fileStore persists the token at a fixed path, mirroring the browser
// client's persistent storage.
type fileStore struct {
	mu         sync.Mutex
	path       string
	dispatcher events.Dispatcher
}

// NewFileStore builds a file-backed store publishing change events on
// the given dispatcher.
func NewFileStore(path string, dispatcher events.Dispatcher) Store {
	return &fileStore{path: path, dispatcher: dispatcher}
}

func (s *fileStore) Load() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}
	return string(data), nil
}

func (s *fileStore) Save(ctx context.Context, token string) error {
	s.mu.Lock()
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("create token dir: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(token), 0o600); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("write token: %w", err)
	}
	s.mu.Unlock()

	s.publishSaved(ctx, token)
	return nil
}

func (s *fileStore) Clear(ctx context.Context, reason string) error {
	s.mu.Lock()
	err := os.Remove(s.path)
	s.mu.Unlock()
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove token: %w", err)
	}

	s.publishCleared(ctx, reason)
	return nil
}

func (s *fileStore) publishSaved(ctx context.Context, token string) {
	if s.dispatcher == nil {
		return
	}
	payload := events.SessionSavedPayload{}
	if sess, err := Decode(token); err == nil {
		payload.SubjectID = sess.SubjectID
		payload.Role = sess.Role
	}
	s.dispatcher.Publish(ctx, events.Event{Type: events.EventSessionSaved, Payload: payload})
}

func (s *fileStore) publishCleared(ctx context.Context, reason string) {
	if s.dispatcher == nil {
		return
	}
	s.dispatcher.Publish(ctx, events.Event{
		Type:    events.EventSessionCleared,
		Payload: events.SessionClearedPayload{Reason: reason},
	})
}

// memoryStore keeps the token in memory. Used by tests and embedders
// that manage persistence themselves.
type memoryStore struct {
	mu         sync.Mutex
	token      string
	dispatcher events.Dispatcher
}

// NewMemoryStore builds an in-memory store.
func NewMemoryStore(dispatcher events.Dispatcher) Store {
	return &memoryStore{dispatcher: dispatcher}
}

func (s *memoryStore) Load() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

func (s *memoryStore) Save(ctx context.Context, token string) error {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	if s.dispatcher != nil {
		payload := events.SessionSavedPayload{}
		if sess, err := Decode(token); err == nil {
			payload.SubjectID = sess.SubjectID
			payload.Role = sess.Role
		}
		s.dispatcher.Publish(ctx, events.Event{Type: events.EventSessionSaved, Payload: payload})
	}
	return nil
}

func (s *memoryStore) Clear(ctx context.Context, reason string) error {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()

	if s.dispatcher != nil {
		s.dispatcher.Publish(ctx, events.Event{
			Type:    events.EventSessionCleared,
			Payload: events.SessionClearedPayload{Reason: reason},
		})
	}
	return nil
}
