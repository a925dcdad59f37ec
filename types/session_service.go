// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package types

import (
	"context"
)

// SessionService is the contract of the external session store.
//
// All mutation happens through the store's own API, which is assumed to
// serialize per-session writes; callers follow a fetch-mutate-discard
// discipline and never cache sessions across requests.
type SessionService interface {
	// CreateSession creates a new session. An empty sessionID asks the store
	// to assign one.
	CreateSession(ctx context.Context, appName, userID, sessionID string, state map[string]any) (Session, error)

	// GetSession retrieves a session, or (nil, nil) if it does not exist.
	GetSession(ctx context.Context, appName, userID, sessionID string) (Session, error)

	// ListSessions lists all sessions for a user, without events or state.
	ListSessions(ctx context.Context, appName, userID string) ([]Session, error)

	// DeleteSession removes a session.
	DeleteSession(ctx context.Context, appName, userID, sessionID string) error

	// AppendEvent adds an event to a session and returns the stored event.
	AppendEvent(ctx context.Context, ses Session, event *Event) (*Event, error)
}
