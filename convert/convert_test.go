// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package convert_test

import (
	"encoding/base64"
	"testing"

	"github.com/google/go-cmp/cmp"
	"google.golang.org/genai"

	"github.com/go-a2a/agentbridge/convert"
	"github.com/go-a2a/agentbridge/types"
)

func runContext() *types.RunContext {
	return &types.RunContext{TaskID: "task_1", ContextID: "ctx_1"}
}

func TestConvert_textBecomesArtifactUpdate(t *testing.T) {
	c := convert.NewConverter()

	event := types.NewEvent().
		WithAuthor("agent").
		WithContent(&genai.Content{Role: "model", Parts: []*genai.Part{
			{Text: "Grüße, 世界 👋"},
		}})

	got, err := c.Convert(event, runContext())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 task event, got %d", len(got))
	}

	artifact, ok := got[0].(*types.TaskArtifactUpdateEvent)
	if !ok {
		t.Fatalf("expected artifact update, got %T", got[0])
	}
	if artifact.TaskID != "task_1" || artifact.ContextID != "ctx_1" {
		t.Errorf("ids = (%q, %q), want (task_1, ctx_1)", artifact.TaskID, artifact.ContextID)
	}
	if want := convert.ArtifactID("task_1"); artifact.Artifact.ArtifactID != want {
		t.Errorf("artifact id = %q, want %q", artifact.Artifact.ArtifactID, want)
	}
	if artifact.LastChunk {
		t.Error("converter output must never be the last chunk")
	}
	if artifact.Final() {
		t.Error("artifact updates are never final")
	}
	if len(artifact.Artifact.Parts) != 1 || artifact.Artifact.Parts[0].Text != "Grüße, 世界 👋" {
		t.Errorf("unexpected parts: %+v", artifact.Artifact.Parts)
	}
}

func TestConvert_replaceSemanticsRepeatArtifactID(t *testing.T) {
	c := convert.NewConverter()
	rc := runContext()

	first := types.NewEvent().WithContent(&genai.Content{Parts: []*genai.Part{{Text: "partial"}}})
	second := types.NewEvent().WithContent(&genai.Content{Parts: []*genai.Part{{Text: "partial final answer"}}})

	firstOut, err := c.Convert(first, rc)
	if err != nil {
		t.Fatal(err)
	}
	secondOut, err := c.Convert(second, rc)
	if err != nil {
		t.Fatal(err)
	}

	a1 := firstOut[0].(*types.TaskArtifactUpdateEvent)
	a2 := secondOut[0].(*types.TaskArtifactUpdateEvent)
	if a1.Artifact.ArtifactID != a2.Artifact.ArtifactID {
		t.Errorf("chunks of one output must share the artifact id: %q vs %q", a1.Artifact.ArtifactID, a2.Artifact.ArtifactID)
	}
	if a2.Artifact.Parts[0].Text != "partial final answer" {
		t.Errorf("second chunk must carry the complete replaced content, got %q", a2.Artifact.Parts[0].Text)
	}
}

func TestConvert_functionCallBecomesWorkingStatus(t *testing.T) {
	c := convert.NewConverter()

	event := types.NewEvent().WithContent(&genai.Content{Parts: []*genai.Part{
		{FunctionCall: &genai.FunctionCall{ID: "call_1", Name: "lookup", Args: map[string]any{"q": "go"}}},
	}})

	got, err := c.Convert(event, runContext())
	if err != nil {
		t.Fatal(err)
	}
	status, ok := got[0].(*types.TaskStatusUpdateEvent)
	if !ok {
		t.Fatalf("expected status update, got %T", got[0])
	}
	if status.Status.State != types.TaskStateWorking {
		t.Errorf("state = %q, want %q", status.Status.State, types.TaskStateWorking)
	}
	if status.IsFinal {
		t.Error("tool traffic must not finalize the task")
	}

	part := status.Status.Message.Parts[0]
	if part.Kind != types.PartKindData {
		t.Fatalf("kind = %q, want data", part.Kind)
	}
	if part.Metadata[types.MetadataTypeKey] != types.TypeFunctionCall {
		t.Errorf("type tag = %v, want %q", part.Metadata[types.MetadataTypeKey], types.TypeFunctionCall)
	}
	if part.Data["name"] != "lookup" {
		t.Errorf("name = %v, want lookup", part.Data["name"])
	}
}

func TestConvert_longRunningCallPausesTask(t *testing.T) {
	c := convert.NewConverter()

	event := types.NewEvent().
		WithLongRunningToolIDs("call_hitl").
		WithContent(&genai.Content{Parts: []*genai.Part{
			{FunctionCall: &genai.FunctionCall{ID: "call_hitl", Name: "request_confirmation"}},
		}})

	got, err := c.Convert(event, runContext())
	if err != nil {
		t.Fatal(err)
	}
	status, ok := got[0].(*types.TaskStatusUpdateEvent)
	if !ok {
		t.Fatalf("expected status update, got %T", got[0])
	}
	if status.Status.State != types.TaskStateInputRequired {
		t.Errorf("state = %q, want %q", status.Status.State, types.TaskStateInputRequired)
	}
	part := status.Status.Message.Parts[0]
	if lr, _ := part.Metadata[types.MetadataIsLongRunningKey].(bool); !lr {
		t.Error("long-running flag missing from the converted part")
	}
}

func TestConvert_errorEventBecomesFailedStatus(t *testing.T) {
	c := convert.NewConverter()

	event := types.NewEvent().WithError("TOOL_TIMEOUT", "lookup timed out")

	got, err := c.Convert(event, runContext())
	if err != nil {
		t.Fatal(err)
	}
	status, ok := got[0].(*types.TaskStatusUpdateEvent)
	if !ok {
		t.Fatalf("expected status update, got %T", got[0])
	}
	if status.Status.State != types.TaskStateFailed {
		t.Errorf("state = %q, want failed", status.Status.State)
	}
	if status.IsFinal {
		t.Error("converter failure reports are non-final, finalization is the executor's job")
	}
	if status.Metadata["error_code"] != "TOOL_TIMEOUT" {
		t.Errorf("error_code = %v, want TOOL_TIMEOUT", status.Metadata["error_code"])
	}
}

func TestConvert_emptyEvents(t *testing.T) {
	c := convert.NewConverter()
	rc := runContext()

	for name, event := range map[string]*types.Event{
		"nil event":     nil,
		"nil content":   types.NewEvent(),
		"empty content": types.NewEvent().WithContent(&genai.Content{}),
	} {
		got, err := c.Convert(event, rc)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", name, err)
		}
		if len(got) != 0 {
			t.Errorf("%s: expected no task events, got %d", name, len(got))
		}
	}
}

func TestFromGenAIPart_thought(t *testing.T) {
	part, err := convert.FromGenAIPart(&genai.Part{Text: "let me think", Thought: true}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if thought, _ := part.Metadata[types.MetadataThoughtKey].(bool); !thought {
		t.Error("thought flag lost in conversion")
	}
}

func TestFromGenAIPart_functionResponsePromotesReservedKeys(t *testing.T) {
	original := map[string]any{
		"result":                     "ok",
		types.MetadataContextIDKey:   "ctx_nested",
		types.MetadataTaskIDKey:      "task_nested",
	}

	part, err := convert.FromGenAIPart(&genai.Part{
		FunctionResponse: &genai.FunctionResponse{ID: "call_1", Name: "delegate", Response: original},
	}, nil)
	if err != nil {
		t.Fatal(err)
	}

	if part.Metadata[types.MetadataContextIDKey] != "ctx_nested" {
		t.Errorf("context id not promoted: %v", part.Metadata)
	}
	if part.Metadata[types.MetadataTaskIDKey] != "task_nested" {
		t.Errorf("task id not promoted: %v", part.Metadata)
	}

	response := part.Data["response"].(map[string]any)
	if _, ok := response[types.MetadataContextIDKey]; ok {
		t.Error("promoted key still present in the response payload")
	}
	if response["result"] != "ok" {
		t.Errorf("payload lost non-reserved keys: %v", response)
	}
	if _, ok := original[types.MetadataContextIDKey]; !ok {
		t.Error("the caller's response map was mutated")
	}
}

func TestPartRoundTrip(t *testing.T) {
	data := []byte{0x1f, 0x8b, 0x08, 0x00}

	for name, part := range map[string]*genai.Part{
		"text": {Text: "plain text"},
		"inline data": {InlineData: &genai.Blob{
			Data:     data,
			MIMEType: "application/gzip",
		}},
		"file reference": {FileData: &genai.FileData{
			FileURI:  "gs://bucket/report.pdf",
			MIMEType: "application/pdf",
		}},
		"function call": {FunctionCall: &genai.FunctionCall{
			ID:   "call_1",
			Name: "lookup",
			Args: map[string]any{"q": "go"},
		}},
		"executable code": {ExecutableCode: &genai.ExecutableCode{
			Code:     `print("hi")`,
			Language: genai.LanguagePython,
		}},
		"code result": {CodeExecutionResult: &genai.CodeExecutionResult{
			Outcome: genai.OutcomeOK,
			Output:  "hi\n",
		}},
	} {
		t.Run(name, func(t *testing.T) {
			converted, err := convert.FromGenAIPart(part, nil)
			if err != nil {
				t.Fatal(err)
			}
			back, err := convert.ToGenAIPart(*converted)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(part, back); diff != "" {
				t.Errorf("round trip mismatch (-orig +back):\n%s", diff)
			}
		})
	}
}

func TestFromGenAIPart_inlineDataIsBase64(t *testing.T) {
	raw := []byte("binary\x00payload")

	part, err := convert.FromGenAIPart(&genai.Part{InlineData: &genai.Blob{
		Data:     raw,
		MIMEType: "application/octet-stream",
	}}, nil)
	if err != nil {
		t.Fatal(err)
	}

	decoded, err := base64.StdEncoding.DecodeString(part.File.Bytes)
	if err != nil {
		t.Fatalf("file bytes are not valid base64: %v", err)
	}
	if string(decoded) != string(raw) {
		t.Errorf("decoded = %q, want %q", decoded, raw)
	}
}

func TestToContent_roles(t *testing.T) {
	for _, tt := range []struct {
		role types.MessageRole
		want string
	}{
		{role: types.RoleUser, want: "user"},
		{role: types.RoleAgent, want: "model"},
	} {
		msg := &types.Message{Role: tt.role, Parts: []types.Part{types.NewTextPart("hi")}}
		content, err := convert.ToContent(msg)
		if err != nil {
			t.Fatal(err)
		}
		if content.Role != tt.want {
			t.Errorf("role %q mapped to %q, want %q", tt.role, content.Role, tt.want)
		}
	}
}
