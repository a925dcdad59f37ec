// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package types

import (
	"time"

	"github.com/google/uuid"
)

// TaskState represents the lifecycle state of a task.
type TaskState string

const (
	// TaskStateSubmitted indicates the task has been received but not started.
	TaskStateSubmitted TaskState = "submitted"

	// TaskStateWorking indicates the task is being worked on.
	TaskStateWorking TaskState = "working"

	// TaskStateInputRequired indicates the task is paused waiting for caller input.
	TaskStateInputRequired TaskState = "input_required"

	// TaskStateCompleted indicates the task finished successfully.
	TaskStateCompleted TaskState = "completed"

	// TaskStateFailed indicates the task finished with an error.
	TaskStateFailed TaskState = "failed"

	// TaskStateCanceled indicates the task was canceled by the caller.
	TaskStateCanceled TaskState = "canceled"

	// TaskStateRejected indicates the task was rejected before execution.
	TaskStateRejected TaskState = "rejected"

	// TaskStateAuthRequired indicates the task is paused waiting for authentication.
	TaskStateAuthRequired TaskState = "auth_required"
)

// Terminal reports whether a task in this state can never transition again.
func (s TaskState) Terminal() bool {
	switch s {
	case TaskStateCompleted, TaskStateFailed, TaskStateCanceled, TaskStateRejected:
		return true
	}
	return false
}

// Part kinds for the tagged union carried by messages and artifacts.
const (
	PartKindText = "text"
	PartKindFile = "file"
	PartKindData = "data"
)

// Metadata keys attached to structured parts by the event converter.
const (
	// MetadataTypeKey tags a data part with the structured payload it carries.
	MetadataTypeKey = "type"

	// MetadataIsLongRunningKey flags a function call part whose tool id appears
	// in the native event's long running tool ids.
	MetadataIsLongRunningKey = "is_long_running"

	// MetadataThoughtKey flags a text part that carries model reasoning.
	MetadataThoughtKey = "thought"

	// MetadataContextIDKey and MetadataTaskIDKey are reserved payload keys a
	// nested sub-agent call attaches to a function response. The converter
	// promotes them out of the payload body into part metadata.
	MetadataContextIDKey = "a2a_context_id"
	MetadataTaskIDKey    = "a2a_task_id"
)

// Values for [MetadataTypeKey].
const (
	TypeFunctionCall        = "function_call"
	TypeFunctionResponse    = "function_response"
	TypeCodeExecutionResult = "code_execution_result"
	TypeExecutableCode      = "executable_code"
)

// FileContent is the payload of a file part: either a URI reference or
// base64-encoded inline bytes, with the MIME type preserved exactly.
type FileContent struct {
	URI      string `json:"uri,omitzero"`
	Bytes    string `json:"bytes,omitzero"`
	MIMEType string `json:"mimeType,omitzero"`
}

// Part is one segment of a message or artifact. Exactly one of Text, File or
// Data is set, discriminated by Kind.
type Part struct {
	Kind     string         `json:"kind"`
	Text     string         `json:"text,omitzero"`
	File     *FileContent   `json:"file,omitzero"`
	Data     map[string]any `json:"data,omitzero"`
	Metadata map[string]any `json:"metadata,omitzero"`
}

// NewTextPart creates a text part.
func NewTextPart(text string) Part {
	return Part{Kind: PartKindText, Text: text}
}

// NewDataPart creates a structured data part.
func NewDataPart(data map[string]any) Part {
	return Part{Kind: PartKindData, Data: data}
}

// NewFilePart creates a file part.
func NewFilePart(file *FileContent) Part {
	return Part{Kind: PartKindFile, File: file}
}

// WithMetadata sets a metadata key on the part and returns it.
func (p Part) WithMetadata(key string, value any) Part {
	if p.Metadata == nil {
		p.Metadata = make(map[string]any)
	}
	p.Metadata[key] = value
	return p
}

// MessageRole identifies the author side of a message.
type MessageRole string

const (
	RoleUser  MessageRole = "user"
	RoleAgent MessageRole = "agent"
)

// Message is a single conversational turn on the task protocol.
type Message struct {
	MessageID string         `json:"messageId"`
	Role      MessageRole    `json:"role"`
	Parts     []Part         `json:"parts"`
	Metadata  map[string]any `json:"metadata,omitzero"`
}

// NewAgentMessage creates an agent-authored message from the given parts.
func NewAgentMessage(parts ...Part) *Message {
	return &Message{
		MessageID: uuid.NewString(),
		Role:      RoleAgent,
		Parts:     parts,
	}
}

// NewUserMessage creates a user-authored message from the given parts.
func NewUserMessage(parts ...Part) *Message {
	return &Message{
		MessageID: uuid.NewString(),
		Role:      RoleUser,
		Parts:     parts,
	}
}

// Artifact is a named unit of task output. Its content uses replace
// semantics: every artifact update carries the complete current content.
type Artifact struct {
	ArtifactID string         `json:"artifactId"`
	Name       string         `json:"name,omitzero"`
	Parts      []Part         `json:"parts"`
	Metadata   map[string]any `json:"metadata,omitzero"`
}

// TaskStatus is the state component of a status update.
type TaskStatus struct {
	State     TaskState `json:"state"`
	Message   *Message  `json:"message,omitzero"`
	Timestamp string    `json:"timestamp,omitzero"`
}

// NewTaskStatus creates a status stamped with the current time.
func NewTaskStatus(state TaskState, message *Message) TaskStatus {
	return TaskStatus{
		State:     state,
		Message:   message,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
	}
}

// Task is the protocol-side view of one unit of work. The executor mutates a
// task only by emitting events, never by direct field writes.
type Task struct {
	ID        string         `json:"id"`
	ContextID string         `json:"contextId"`
	Status    TaskStatus     `json:"status"`
	History   []Message      `json:"history,omitzero"`
	Artifacts []Artifact     `json:"artifacts,omitzero"`
	Metadata  map[string]any `json:"metadata,omitzero"`
}
