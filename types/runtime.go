// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package types

import (
	"context"
	"iter"

	"google.golang.org/genai"
)

// RunConfig carries per-run settings handed to the runtime.
type RunConfig struct {
	// Streaming asks the runtime to yield partial content snapshots.
	Streaming bool

	// MaxEvents caps how many native events one run may produce. Zero means
	// no cap.
	MaxEvents int
}

// AgentRuntime is the external computation this system drives. It is opaque
// beyond this interface: given input and a session handle it produces a
// lazy, finite sequence of native execution events.
type AgentRuntime interface {
	// Name returns the runtime's agent name.
	Name() string

	// Run starts a run for the given input against the session carried by rc.
	Run(ctx context.Context, rc *RunContext, message *genai.Content, config *RunConfig) iter.Seq2[*Event, error]
}

// RuntimeFactory produces a runtime instance on demand.
type RuntimeFactory func(ctx context.Context) (AgentRuntime, error)

// ResolveRuntime resolves v into an [AgentRuntime]. v may be a runtime
// instance, a [RuntimeFactory], or a plain factory func; anything else fails
// with [RuntimeResolutionError]. A factory returning a value that is not an
// [AgentRuntime] is also a resolution failure, not a panic.
func ResolveRuntime(ctx context.Context, v any) (AgentRuntime, error) {
	switch rt := v.(type) {
	case nil:
		return nil, NewRuntimeResolutionError("no runtime configured")

	case AgentRuntime:
		return rt, nil

	case RuntimeFactory:
		return resolveFromFactory(rt(ctx))

	case func(ctx context.Context) (AgentRuntime, error):
		return resolveFromFactory(rt(ctx))

	case func() (AgentRuntime, error):
		return resolveFromFactory(rt())

	case func(ctx context.Context) (any, error):
		got, err := rt(ctx)
		if err != nil {
			return nil, NewRuntimeResolutionError("runtime factory: %v", err)
		}
		resolved, ok := got.(AgentRuntime)
		if !ok {
			return nil, NewRuntimeResolutionError("runtime factory returned %T, want AgentRuntime", got)
		}
		return resolved, nil

	default:
		return nil, NewRuntimeResolutionError("cannot resolve %T into an AgentRuntime", v)
	}
}

func resolveFromFactory(rt AgentRuntime, err error) (AgentRuntime, error) {
	if err != nil {
		return nil, NewRuntimeResolutionError("runtime factory: %v", err)
	}
	if rt == nil {
		return nil, NewRuntimeResolutionError("runtime factory returned nil")
	}
	return rt, nil
}

// EventConverter converts one runtime-native event into zero or more
// protocol events. Implementations are framework specific but share this
// contract.
type EventConverter interface {
	Convert(event *Event, rc *RunContext) ([]TaskEvent, error)
}

// TokenExchanger is the contract of the external STS collaborator. A nil
// exchanger on the executor means the auth side-channel step is skipped.
type TokenExchanger interface {
	// Exchange trades the caller's subject token for a delegated access
	// token.
	Exchange(ctx context.Context, subjectToken string) (string, error)
}
