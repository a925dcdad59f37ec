// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package types

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"google.golang.org/genai"
)

// ErrorCodeSubAgent marks a synthetic event produced for an isolated branch
// failure inside a parallel workflow.
const ErrorCodeSubAgent = "SUB_AGENT_ERROR"

// Event is a runtime-native execution event, produced by an [AgentRuntime]
// and consumed by an [EventConverter].
type Event struct {
	// ID is the unique identifier of the event. Assigned on construction.
	ID string

	// InvocationID is the invocation this event belongs to.
	InvocationID string

	// Author is "user" or the name of the agent that produced the event.
	Author string

	// Branch identifies the sub-agent lineage, formatted agent_1.agent_2,
	// where agent_1 is the parent of agent_2.
	Branch string

	// Content is the native content of the event.
	Content *genai.Content

	// Partial reports whether the content is an incomplete snapshot that a
	// later event of the same invocation replaces.
	Partial bool

	// CustomMetadata carries runtime-specific annotations, including the
	// error marker for isolated branch failures.
	CustomMetadata map[string]any

	// LongRunningToolIDs holds ids of function calls the runtime marked as
	// long running.
	LongRunningToolIDs []string

	// ErrorCode and ErrorMessage are set when the event reports a failure
	// instead of content.
	ErrorCode    string
	ErrorMessage string

	// Timestamp is when the event was produced.
	Timestamp time.Time
}

// NewEvent creates a new event with a unique ID and timestamp.
func NewEvent() *Event {
	return &Event{
		ID:        uuid.NewString(),
		Timestamp: time.Now(),
	}
}

// WithAuthor sets the author of the event.
func (e *Event) WithAuthor(author string) *Event {
	e.Author = author
	return e
}

// WithInvocationID sets the invocation ID of the event.
func (e *Event) WithInvocationID(id string) *Event {
	e.InvocationID = id
	return e
}

// WithBranch sets the branch of the event.
func (e *Event) WithBranch(branch string) *Event {
	e.Branch = branch
	return e
}

// WithContent sets the content of the event.
func (e *Event) WithContent(content *genai.Content) *Event {
	e.Content = content
	return e
}

// WithPartial marks the event content as a partial snapshot.
func (e *Event) WithPartial(partial bool) *Event {
	e.Partial = partial
	return e
}

// WithCustomMetadata sets a custom metadata key on the event.
func (e *Event) WithCustomMetadata(key string, value any) *Event {
	if e.CustomMetadata == nil {
		e.CustomMetadata = make(map[string]any)
	}
	e.CustomMetadata[key] = value
	return e
}

// WithLongRunningToolIDs appends ids of long running function calls.
func (e *Event) WithLongRunningToolIDs(ids ...string) *Event {
	e.LongRunningToolIDs = append(e.LongRunningToolIDs, ids...)
	return e
}

// WithError marks the event as a failure report.
func (e *Event) WithError(code, message string) *Event {
	e.ErrorCode = code
	e.ErrorMessage = message
	return e
}

// IsLongRunning reports whether the given function call id was marked long
// running by the runtime.
func (e *Event) IsLongRunning(id string) bool {
	return slices.Contains(e.LongRunningToolIDs, id)
}

// GetFunctionCalls returns the function calls in the event.
func (e *Event) GetFunctionCalls() []*genai.FunctionCall {
	var funcCalls []*genai.FunctionCall
	if e.Content != nil {
		for _, part := range e.Content.Parts {
			if part.FunctionCall != nil {
				funcCalls = append(funcCalls, part.FunctionCall)
			}
		}
	}
	return funcCalls
}

// GetFunctionResponses returns the function responses in the event.
func (e *Event) GetFunctionResponses() []*genai.FunctionResponse {
	var funcResponses []*genai.FunctionResponse
	if e.Content != nil {
		for _, part := range e.Content.Parts {
			if part.FunctionResponse != nil {
				funcResponses = append(funcResponses, part.FunctionResponse)
			}
		}
	}
	return funcResponses
}

// IsFinalResponse reports whether the event is the final response of the
// agent for this invocation.
func (e *Event) IsFinalResponse() bool {
	if len(e.LongRunningToolIDs) > 0 {
		return true
	}
	return len(e.GetFunctionCalls()) == 0 && len(e.GetFunctionResponses()) == 0 && !e.Partial
}
