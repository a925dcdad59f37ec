// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package types

import (
	"github.com/google/uuid"
)

// RunContext carries the request-scoped identity and session handle of one
// task execution. It is threaded explicitly as an argument through every
// call that needs identity, so downstream HTTP calls never depend on
// ambient state being set first.
type RunContext struct {
	// AppName, UserID and SessionID identify the session being driven.
	AppName   string
	UserID    string
	SessionID string

	// TaskID and ContextID identify the protocol task. Immutable once set.
	TaskID    string
	ContextID string

	// InvocationID is the id of this invocation.
	InvocationID string

	// Branch identifies the sub-agent lineage, formatted agent_1.agent_2.
	// Sub-agents on different branches must not see their peers' history.
	Branch string

	// Session is the fetched session for this execution. Readonly.
	Session Session

	// SessionService is the store the session came from.
	SessionService SessionService
}

// NewRunContext creates a run context for the given session.
func NewRunContext(session Session, service SessionService) *RunContext {
	rc := &RunContext{
		InvocationID:   NewInvocationID(),
		Session:        session,
		SessionService: service,
	}
	if session != nil {
		rc.AppName = session.AppName()
		rc.UserID = session.UserID()
		rc.SessionID = session.ID()
	}
	return rc
}

// Copy returns a shallow copy of the run context. The copy is an independent
// branch-local handle that still shares the underlying session object.
func (rc *RunContext) Copy() *RunContext {
	cp := *rc
	return &cp
}

// WithBranch returns a shallow copy whose branch is extended with name.
func (rc *RunContext) WithBranch(name string) *RunContext {
	cp := rc.Copy()
	if cp.Branch != "" {
		cp.Branch = cp.Branch + "." + name
		return cp
	}
	cp.Branch = name
	return cp
}

// NewInvocationID generates a new invocation ID.
func NewInvocationID() string {
	return "e-" + uuid.NewString()
}
