// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package types

import "fmt"

// TaskEvent is the unified interface over the protocol events delivered to
// the caller as a push stream.
type TaskEvent interface {
	// EventKind returns the wire discriminator of the event.
	EventKind() string

	// Final reports whether this event terminates the task turn.
	Final() bool

	// String returns a short human-readable summary of the event.
	String() string
}

// TaskStatusUpdateEvent reports a task state transition.
type TaskStatusUpdateEvent struct {
	TaskID    string         `json:"taskId"`
	ContextID string         `json:"contextId"`
	Status    TaskStatus     `json:"status"`
	IsFinal   bool           `json:"final"`
	Metadata  map[string]any `json:"metadata,omitzero"`
}

var _ TaskEvent = (*TaskStatusUpdateEvent)(nil)

// EventKind implements [TaskEvent].
func (e *TaskStatusUpdateEvent) EventKind() string {
	return "status-update"
}

// Final implements [TaskEvent].
func (e *TaskStatusUpdateEvent) Final() bool {
	return e.IsFinal
}

// String implements [TaskEvent].
func (e *TaskStatusUpdateEvent) String() string {
	return fmt.Sprintf("TaskStatusUpdateEvent{TaskID: %s, State: %s, Final: %t}", e.TaskID, e.Status.State, e.IsFinal)
}

// NewStatusUpdateEvent creates a status update event for the given task.
func NewStatusUpdateEvent(taskID, contextID string, status TaskStatus, final bool) *TaskStatusUpdateEvent {
	return &TaskStatusUpdateEvent{
		TaskID:    taskID,
		ContextID: contextID,
		Status:    status,
		IsFinal:   final,
	}
}

// TaskArtifactUpdateEvent carries the complete current content of one task
// output. LastChunk marks the final snapshot of that output.
type TaskArtifactUpdateEvent struct {
	TaskID    string         `json:"taskId"`
	ContextID string         `json:"contextId"`
	Artifact  Artifact       `json:"artifact"`
	LastChunk bool           `json:"lastChunk"`
	Metadata  map[string]any `json:"metadata,omitzero"`
}

var _ TaskEvent = (*TaskArtifactUpdateEvent)(nil)

// EventKind implements [TaskEvent].
func (e *TaskArtifactUpdateEvent) EventKind() string {
	return "artifact-update"
}

// Final implements [TaskEvent].
//
// Artifact updates never terminate a turn; the terminal status event does.
func (e *TaskArtifactUpdateEvent) Final() bool {
	return false
}

// String implements [TaskEvent].
func (e *TaskArtifactUpdateEvent) String() string {
	return fmt.Sprintf("TaskArtifactUpdateEvent{TaskID: %s, ArtifactID: %s, LastChunk: %t}", e.TaskID, e.Artifact.ArtifactID, e.LastChunk)
}

// NewArtifactUpdateEvent creates an artifact update event for the given task.
func NewArtifactUpdateEvent(taskID, contextID string, artifact Artifact, lastChunk bool) *TaskArtifactUpdateEvent {
	return &TaskArtifactUpdateEvent{
		TaskID:    taskID,
		ContextID: contextID,
		Artifact:  artifact,
		LastChunk: lastChunk,
	}
}
