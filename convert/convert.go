// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package convert translates runtime-native events, expressed as genai
// content, into task protocol events and back.
package convert

import (
	"encoding/base64"
	"fmt"
	"maps"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"google.golang.org/genai"

	"github.com/go-a2a/agentbridge/types"
)

// Converter converts genai-native events into protocol events.
//
// It is pure: all per-task accumulation happens in the executor's
// aggregator, never here.
type Converter struct{}

var _ types.EventConverter = (*Converter)(nil)

// NewConverter creates a new [Converter].
func NewConverter() *Converter {
	return &Converter{}
}

// Convert implements [types.EventConverter].
//
// Text and file content becomes an artifact update (replace semantics, the
// event carries the complete current content). Tool traffic becomes a
// working status update carrying the structured parts. A long-running
// function call pauses the task with an input_required status. A failure
// report becomes a non-final failed status.
func (c *Converter) Convert(event *types.Event, rc *types.RunContext) ([]types.TaskEvent, error) {
	if event == nil {
		return nil, nil
	}

	if event.ErrorCode != "" {
		msg := types.NewAgentMessage(types.NewTextPart(event.ErrorMessage))
		status := types.NewTaskStatus(types.TaskStateFailed, msg)
		ev := types.NewStatusUpdateEvent(rc.TaskID, rc.ContextID, status, false)
		ev.Metadata = map[string]any{"error_code": event.ErrorCode}
		return []types.TaskEvent{ev}, nil
	}

	if event.Content == nil || len(event.Content.Parts) == 0 {
		return nil, nil
	}

	var parts []types.Part
	longRunning := false
	structuredOnly := true
	for _, p := range event.Content.Parts {
		part, err := FromGenAIPart(p, event)
		if err != nil {
			return nil, err
		}
		if part == nil {
			continue
		}
		if isLongRunning, ok := part.Metadata[types.MetadataIsLongRunningKey].(bool); ok && isLongRunning {
			longRunning = true
		}
		if part.Kind != types.PartKindData {
			structuredOnly = false
		}
		parts = append(parts, *part)
	}
	if len(parts) == 0 {
		return nil, nil
	}

	msg := types.NewAgentMessage(parts...)

	switch {
	case longRunning:
		status := types.NewTaskStatus(types.TaskStateInputRequired, msg)
		return []types.TaskEvent{types.NewStatusUpdateEvent(rc.TaskID, rc.ContextID, status, false)}, nil

	case structuredOnly:
		status := types.NewTaskStatus(types.TaskStateWorking, msg)
		return []types.TaskEvent{types.NewStatusUpdateEvent(rc.TaskID, rc.ContextID, status, false)}, nil

	default:
		artifact := types.Artifact{
			ArtifactID: ArtifactID(rc.TaskID),
			Parts:      parts,
		}
		return []types.TaskEvent{types.NewArtifactUpdateEvent(rc.TaskID, rc.ContextID, artifact, false)}, nil
	}
}

// ArtifactID returns the stable artifact id used for the output of the given
// task. Non-final chunks of the same output repeat this id; each one carries
// the fully replaced content.
func ArtifactID(taskID string) string {
	return "artifact-" + taskID
}

// FromGenAIPart converts one native part into a protocol part. Unrecognized
// native part kinds convert to nil and are dropped, not errored.
func FromGenAIPart(part *genai.Part, event *types.Event) (*types.Part, error) {
	if part == nil {
		return nil, nil
	}

	switch {
	case part.Text != "":
		p := types.NewTextPart(part.Text)
		if part.Thought {
			p = p.WithMetadata(types.MetadataThoughtKey, true)
		}
		return &p, nil

	case part.InlineData != nil:
		p := types.NewFilePart(&types.FileContent{
			Bytes:    base64.StdEncoding.EncodeToString(part.InlineData.Data),
			MIMEType: part.InlineData.MIMEType,
		})
		return &p, nil

	case part.FileData != nil:
		p := types.NewFilePart(&types.FileContent{
			URI:      part.FileData.FileURI,
			MIMEType: part.FileData.MIMEType,
		})
		return &p, nil

	case part.FunctionCall != nil:
		p := types.NewDataPart(map[string]any{
			"id":   part.FunctionCall.ID,
			"name": part.FunctionCall.Name,
			"args": part.FunctionCall.Args,
		}).WithMetadata(types.MetadataTypeKey, types.TypeFunctionCall)
		if event != nil && event.IsLongRunning(part.FunctionCall.ID) {
			p = p.WithMetadata(types.MetadataIsLongRunningKey, true)
		}
		return &p, nil

	case part.FunctionResponse != nil:
		response, promoted := promoteReservedKeys(part.FunctionResponse.Response)
		p := types.NewDataPart(map[string]any{
			"id":       part.FunctionResponse.ID,
			"name":     part.FunctionResponse.Name,
			"response": response,
		}).WithMetadata(types.MetadataTypeKey, types.TypeFunctionResponse)
		for key, value := range promoted {
			p = p.WithMetadata(key, value)
		}
		if event != nil && event.IsLongRunning(part.FunctionResponse.ID) {
			p = p.WithMetadata(types.MetadataIsLongRunningKey, true)
		}
		return &p, nil

	case part.ExecutableCode != nil:
		p := types.NewDataPart(map[string]any{
			"code":     part.ExecutableCode.Code,
			"language": string(part.ExecutableCode.Language),
		}).WithMetadata(types.MetadataTypeKey, types.TypeExecutableCode)
		return &p, nil

	case part.CodeExecutionResult != nil:
		p := types.NewDataPart(map[string]any{
			"outcome": string(part.CodeExecutionResult.Outcome),
			"output":  part.CodeExecutionResult.Output,
		}).WithMetadata(types.MetadataTypeKey, types.TypeCodeExecutionResult)
		return &p, nil

	default:
		return nil, nil
	}
}

// promoteReservedKeys extracts the reserved context-id/task-id keys a nested
// sub-agent call embeds in a function response payload. The returned payload
// no longer contains them.
func promoteReservedKeys(response map[string]any) (map[string]any, map[string]any) {
	if response == nil {
		return nil, nil
	}

	var promoted map[string]any
	for _, key := range []string{types.MetadataContextIDKey, types.MetadataTaskIDKey} {
		if _, ok := response[key]; !ok {
			continue
		}
		if promoted == nil {
			promoted = make(map[string]any)
			response = maps.Clone(response)
		}
		promoted[key] = response[key]
		delete(response, key)
	}

	return response, promoted
}

// ToGenAIPart converts one protocol part back into its native form.
func ToGenAIPart(part types.Part) (*genai.Part, error) {
	switch part.Kind {
	case types.PartKindText:
		p := &genai.Part{Text: part.Text}
		if thought, ok := part.Metadata[types.MetadataThoughtKey].(bool); ok {
			p.Thought = thought
		}
		return p, nil

	case types.PartKindFile:
		if part.File == nil {
			return nil, fmt.Errorf("file part without file content")
		}
		if part.File.URI != "" {
			return &genai.Part{FileData: &genai.FileData{
				FileURI:  part.File.URI,
				MIMEType: part.File.MIMEType,
			}}, nil
		}
		data, err := base64.StdEncoding.DecodeString(part.File.Bytes)
		if err != nil {
			return nil, fmt.Errorf("decode file part bytes: %w", err)
		}
		return &genai.Part{InlineData: &genai.Blob{
			Data:     data,
			MIMEType: part.File.MIMEType,
		}}, nil

	case types.PartKindData:
		return dataPartToGenAI(part)

	default:
		return nil, fmt.Errorf("unknown part kind: %s", part.Kind)
	}
}

func dataPartToGenAI(part types.Part) (*genai.Part, error) {
	switch part.Metadata[types.MetadataTypeKey] {
	case types.TypeFunctionCall:
		id, _ := part.Data["id"].(string)
		name, _ := part.Data["name"].(string)
		args, _ := part.Data["args"].(map[string]any)
		return &genai.Part{FunctionCall: &genai.FunctionCall{ID: id, Name: name, Args: args}}, nil

	case types.TypeFunctionResponse:
		id, _ := part.Data["id"].(string)
		name, _ := part.Data["name"].(string)
		response, _ := part.Data["response"].(map[string]any)
		return &genai.Part{FunctionResponse: &genai.FunctionResponse{ID: id, Name: name, Response: response}}, nil

	case types.TypeExecutableCode:
		code, _ := part.Data["code"].(string)
		language, _ := part.Data["language"].(string)
		return &genai.Part{ExecutableCode: &genai.ExecutableCode{Code: code, Language: genai.Language(language)}}, nil

	case types.TypeCodeExecutionResult:
		outcome, _ := part.Data["outcome"].(string)
		output, _ := part.Data["output"].(string)
		return &genai.Part{CodeExecutionResult: &genai.CodeExecutionResult{Outcome: genai.Outcome(outcome), Output: output}}, nil

	default:
		// An untagged data part, such as a HITL decision payload, rides along
		// as serialized text.
		encoded, err := sonic.ConfigFastest.Marshal(part.Data)
		if err != nil {
			return nil, fmt.Errorf("encode data part: %w", err)
		}
		return &genai.Part{Text: string(encoded)}, nil
	}
}

// ToContent converts a protocol message into native content for the runtime.
func ToContent(msg *types.Message) (*genai.Content, error) {
	if msg == nil {
		return nil, nil
	}

	role := "user"
	if msg.Role == types.RoleAgent {
		role = "model"
	}

	content := &genai.Content{Role: role}
	for _, part := range msg.Parts {
		p, err := ToGenAIPart(part)
		if err != nil {
			return nil, err
		}
		content.Parts = append(content.Parts, p)
	}
	return content, nil
}

// FromContent converts native content into a protocol message.
func FromContent(content *genai.Content, role types.MessageRole) (*types.Message, error) {
	if content == nil {
		return nil, nil
	}

	msg := &types.Message{
		MessageID: uuid.NewString(),
		Role:      role,
	}
	for _, p := range content.Parts {
		part, err := FromGenAIPart(p, nil)
		if err != nil {
			return nil, err
		}
		if part == nil {
			continue
		}
		msg.Parts = append(msg.Parts, *part)
	}
	return msg, nil
}
