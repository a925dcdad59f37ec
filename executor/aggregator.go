// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package executor

import (
	"github.com/tiendc/go-deepcopy"

	"github.com/go-a2a/agentbridge/types"
)

// EventAggregator accumulates protocol events for one task execution,
// tracking the current task state and the most recent artifact content.
//
// One aggregator instance is used sequentially within a single execution and
// never shared across concurrent tasks, so it needs no locking.
type EventAggregator struct {
	state         types.TaskState
	statusMessage *types.Message
	finalParts    []types.Part
}

// NewEventAggregator creates an aggregator with state initialized to working.
func NewEventAggregator() *EventAggregator {
	return &EventAggregator{
		state: types.TaskStateWorking,
	}
}

// Process folds one protocol event into the aggregate.
//
// A status update overwrites the task state and, when it carries a message,
// the current status message. An artifact update overwrites the accumulated
// final content with the artifact's parts: replace semantics, never append.
func (a *EventAggregator) Process(event types.TaskEvent) {
	switch ev := event.(type) {
	case *types.TaskStatusUpdateEvent:
		a.state = ev.Status.State
		if ev.Status.Message != nil {
			a.statusMessage = ev.Status.Message
		}

	case *types.TaskArtifactUpdateEvent:
		// Snapshot the parts so later mutation by the producer cannot alias
		// into the aggregate.
		var parts []types.Part
		if err := deepcopy.Copy(&parts, ev.Artifact.Parts); err != nil {
			parts = ev.Artifact.Parts
		}
		a.finalParts = parts
	}
}

// State returns the last known task state.
func (a *EventAggregator) State() types.TaskState {
	return a.state
}

// StatusMessage returns the most recent status message, or nil.
func (a *EventAggregator) StatusMessage() *types.Message {
	return a.statusMessage
}

// FinalParts returns the latest artifact content, or nil when no artifact
// update was processed.
func (a *EventAggregator) FinalParts() []types.Part {
	return a.finalParts
}

// FinalMessage returns the latest artifact content as an agent message, or
// nil when no artifact update was processed.
func (a *EventAggregator) FinalMessage() *types.Message {
	if len(a.finalParts) == 0 {
		return nil
	}
	return types.NewAgentMessage(a.finalParts...)
}
