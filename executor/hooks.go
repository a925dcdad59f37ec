// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package executor

import (
	"context"

	"github.com/go-a2a/agentbridge/types"
)

// HookPoint names a defined point in the executor state machine where
// registered hooks run.
type HookPoint string

const (
	// HookBeforeExecute runs before any event is emitted.
	HookBeforeExecute HookPoint = "before_execute"

	// HookAfterResolve runs after the runtime handle resolved.
	HookAfterResolve HookPoint = "after_resolve"

	// HookBeforeRuntime runs after session preparation, before the runtime
	// is driven.
	HookBeforeRuntime HookPoint = "before_runtime"

	// HookOnEvent runs for every converted protocol event before it is
	// aggregated and enqueued.
	HookOnEvent HookPoint = "on_event"

	// HookAfterExecute runs after the final event was enqueued.
	HookAfterExecute HookPoint = "after_execute"
)

// HookInfo is the data handed to a hook at its point.
type HookInfo struct {
	Point   HookPoint
	Request *Request
	Context *types.RunContext
	Event   types.TaskEvent
}

// Hook observes or augments one point of the executor state machine. An
// error from a hook fails the task like any setup error.
type Hook func(ctx context.Context, info *HookInfo) error

// HookRegistry holds ordered hooks per point. Registration order is
// invocation order.
type HookRegistry struct {
	hooks map[HookPoint][]Hook
}

// NewHookRegistry creates an empty registry.
func NewHookRegistry() *HookRegistry {
	return &HookRegistry{
		hooks: make(map[HookPoint][]Hook),
	}
}

// Register appends a hook at the given point.
func (r *HookRegistry) Register(point HookPoint, hook Hook) {
	r.hooks[point] = append(r.hooks[point], hook)
}

// fire invokes the hooks registered at info.Point in order, stopping at the
// first error.
func (r *HookRegistry) fire(ctx context.Context, info *HookInfo) error {
	if r == nil {
		return nil
	}
	for _, hook := range r.hooks[info.Point] {
		if err := hook(ctx, info); err != nil {
			return err
		}
	}
	return nil
}
