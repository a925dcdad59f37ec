// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"context"
	"log/slog"
	"maps"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/go-a2a/agentbridge/pkg/logging"
	"github.com/go-a2a/agentbridge/types"
)

// InMemoryService is an in-memory implementation of [types.SessionService]
// for tests and local runs.
type InMemoryService struct {
	// sessions maps app name -> user ID -> session ID -> session.
	sessions map[string]map[string]map[string]types.Session

	mu sync.RWMutex
}

var _ types.SessionService = (*InMemoryService)(nil)

// NewInMemoryService creates a new [InMemoryService].
func NewInMemoryService() *InMemoryService {
	return &InMemoryService{
		sessions: make(map[string]map[string]map[string]types.Session),
	}
}

// CreateSession implements [types.SessionService].
func (s *InMemoryService) CreateSession(ctx context.Context, appName, userID, sessionID string, state map[string]any) (types.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	logging.FromContext(ctx).InfoContext(ctx, "creating session",
		slog.String("app_name", appName),
		slog.String("user_id", userID),
		slog.String("session_id", sessionID),
	)

	ses := NewSession(appName, userID, sessionID, state, time.Now())

	if _, ok := s.sessions[appName]; !ok {
		s.sessions[appName] = make(map[string]map[string]types.Session)
	}
	if _, ok := s.sessions[appName][userID]; !ok {
		s.sessions[appName][userID] = make(map[string]types.Session)
	}
	s.sessions[appName][userID][sessionID] = ses

	return s.copySession(ses), nil
}

// GetSession implements [types.SessionService]. A session that does not
// exist is (nil, nil), not an error.
func (s *InMemoryService) GetSession(ctx context.Context, appName, userID, sessionID string) (types.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ses, ok := s.sessions[appName][userID][sessionID]
	if !ok {
		return nil, nil
	}
	return s.copySession(ses), nil
}

// ListSessions implements [types.SessionService].
func (s *InMemoryService) ListSessions(ctx context.Context, appName, userID string) ([]types.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := make([]types.Session, 0, len(s.sessions[appName][userID]))
	for _, ses := range s.sessions[appName][userID] {
		// Listings carry identity only, no events or state.
		sessions = append(sessions, NewSession(ses.AppName(), ses.UserID(), ses.ID(), nil, ses.LastUpdateTime()))
	}
	return sessions, nil
}

// DeleteSession implements [types.SessionService].
func (s *InMemoryService) DeleteSession(ctx context.Context, appName, userID, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if byUser, ok := s.sessions[appName]; ok {
		if bySession, ok := byUser[userID]; ok {
			delete(bySession, sessionID)
		}
	}
	return nil
}

// AppendEvent implements [types.SessionService].
func (s *InMemoryService) AppendEvent(ctx context.Context, ses types.Session, event *types.Event) (*types.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ses.AddEvent(event)
	ses.SetLastUpdateTime(event.Timestamp)

	if stored, ok := s.sessions[ses.AppName()][ses.UserID()][ses.ID()]; ok {
		stored.AddEvent(event)
		stored.SetLastUpdateTime(event.Timestamp)
	}

	return event, nil
}

// copySession detaches a stored session so callers cannot mutate the stored
// events or state in place.
func (s *InMemoryService) copySession(ses types.Session) types.Session {
	copied := NewSession(ses.AppName(), ses.UserID(), ses.ID(), nil, ses.LastUpdateTime())
	copied.AddEvent(ses.Events()...)
	maps.Copy(copied.State(), ses.State())
	return copied
}
