// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package hitl implements the human-in-the-loop approval sub-protocol: it
// finds tool calls still waiting on confirmation in session history and
// turns a resume decision into the function responses the runtime needs to
// continue.
package hitl

import (
	"slices"

	"google.golang.org/genai"

	"github.com/go-a2a/agentbridge/types"
)

// ConfirmationFunctionName is the designated function an agent calls to ask
// for a human decision.
const ConfirmationFunctionName = "request_confirmation"

// OriginalCallIDArg is the confirmation request argument naming the tool
// call being confirmed.
const OriginalCallIDArg = "original_function_call_id"

// Reserved keys of the resume message's decision payload.
const (
	DecisionTypeKey = "decision_type"
	DecisionsKey    = "decisions"
)

// DecisionType classifies a resume decision.
type DecisionType string

const (
	// DecisionApprove confirms every pending call.
	DecisionApprove DecisionType = "approve"

	// DecisionDeny and DecisionReject refuse every pending call.
	DecisionDeny   DecisionType = "deny"
	DecisionReject DecisionType = "reject"

	// DecisionBatch carries one decision per original call id.
	DecisionBatch DecisionType = "batch"
)

// FindPending scans session history for confirmation requests whose
// response has not yet appeared later in history.
//
// The result maps each unanswered confirmation call id to the original
// function call id from its arguments. A malformed request without the
// original id contributes an empty value, passed through verbatim rather
// than rejected. The map is recomputed from the event log on every call,
// never persisted.
func FindPending(session types.Session) map[string]string {
	pending := make(map[string]string)

	for _, event := range session.Events() {
		for _, call := range event.GetFunctionCalls() {
			if call.Name != ConfirmationFunctionName {
				continue
			}
			originalID, _ := call.Args[OriginalCallIDArg].(string)
			pending[call.ID] = originalID
		}
		for _, response := range event.GetFunctionResponses() {
			if response.Name == ConfirmationFunctionName {
				delete(pending, response.ID)
			}
		}
	}

	return pending
}

// Resolve maps a resume decision onto the pending confirmations in session
// history and produces the function responses needed to resume the runtime.
//
// With no pending confirmations it returns nil regardless of decision type.
// approve/deny/reject resolve every pending confirmation uniformly; batch
// looks the per-item decision up in the resume message's decisions map,
// keyed by original call id. The responses are ordered by confirmation call
// id so output is deterministic.
func Resolve(session types.Session, decision DecisionType, message *types.Message) ([]*genai.Part, error) {
	pending := FindPending(session)
	if len(pending) == 0 {
		return nil, nil
	}

	var confirmedFor func(originalID string) bool
	switch decision {
	case DecisionApprove:
		confirmedFor = func(string) bool { return true }

	case DecisionDeny, DecisionReject:
		confirmedFor = func(string) bool { return false }

	case DecisionBatch:
		decisions, err := batchDecisions(message)
		if err != nil {
			return nil, err
		}
		confirmedFor = func(originalID string) bool {
			return approves(decisions[originalID])
		}

	default:
		return nil, types.NewInvalidConfigurationError("unknown decision type %q", decision)
	}

	callIDs := make([]string, 0, len(pending))
	for callID := range pending {
		callIDs = append(callIDs, callID)
	}
	slices.Sort(callIDs)

	responses := make([]*genai.Part, 0, len(callIDs))
	for _, callID := range callIDs {
		responses = append(responses, &genai.Part{
			FunctionResponse: &genai.FunctionResponse{
				ID:   callID,
				Name: ConfirmationFunctionName,
				Response: map[string]any{
					"confirmed": confirmedFor(pending[callID]),
				},
			},
		})
	}

	return responses, nil
}

// batchDecisions extracts the decisions map from the resume message.
func batchDecisions(message *types.Message) (map[string]any, error) {
	if message != nil {
		for _, part := range message.Parts {
			if part.Kind != types.PartKindData {
				continue
			}
			if decisions, ok := part.Data[DecisionsKey].(map[string]any); ok {
				return decisions, nil
			}
		}
	}
	return nil, types.NewInvalidConfigurationError("batch decision without a %s map", DecisionsKey)
}

// approves interprets one per-item decision value. A decision may be a bare
// string or a nested object tagged with the decision type key; anything
// missing or unrecognized refuses the call.
func approves(decision any) bool {
	switch d := decision.(type) {
	case string:
		return DecisionType(d) == DecisionApprove
	case map[string]any:
		if dt, ok := d[DecisionTypeKey].(string); ok {
			return DecisionType(dt) == DecisionApprove
		}
	}
	return false
}
