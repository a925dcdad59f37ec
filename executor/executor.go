// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package executor drives one task end to end: it resolves the runtime
// handle, prepares the session, emits lifecycle events, converts the
// runtime's native events into protocol events, and publishes the terminal
// result.
package executor

import (
	"context"
	"log/slog"

	"github.com/go-a2a/agentbridge/auth"
	"github.com/go-a2a/agentbridge/convert"
	"github.com/go-a2a/agentbridge/pkg/logging"
	"github.com/go-a2a/agentbridge/types"
)

// Request describes one task turn to execute.
type Request struct {
	// AppName, UserID and SessionID identify the session to drive.
	AppName   string
	UserID    string
	SessionID string

	// TaskID and ContextID identify the protocol task.
	TaskID    string
	ContextID string

	// Task is the existing task, or nil when this request creates one.
	Task *types.Task

	// Message is the caller's input message.
	Message *types.Message

	// Headers are the transport request headers, used for credential
	// extraction.
	Headers map[string][]string

	// RunConfig is handed through to the runtime.
	RunConfig *types.RunConfig
}

// TaskExecutor orchestrates task turns over one agent runtime.
type TaskExecutor struct {
	runtime   any
	sessions  types.SessionService
	converter types.EventConverter
	exchanger types.TokenExchanger
	hooks     *HookRegistry
}

// Option configures a [TaskExecutor].
type Option func(*TaskExecutor)

// WithConverter replaces the default genai event converter.
func WithConverter(c types.EventConverter) Option {
	return func(e *TaskExecutor) {
		e.converter = c
	}
}

// WithTokenExchanger configures the STS side-channel. Without it the auth
// step is a no-op.
func WithTokenExchanger(x types.TokenExchanger) Option {
	return func(e *TaskExecutor) {
		e.exchanger = x
	}
}

// WithHooks installs a hook registry.
func WithHooks(h *HookRegistry) Option {
	return func(e *TaskExecutor) {
		e.hooks = h
	}
}

// NewTaskExecutor creates an executor over the given runtime handle. runtime
// may be a [types.AgentRuntime] or a factory for one; it is resolved per
// execution.
func NewTaskExecutor(runtime any, sessions types.SessionService, opts ...Option) *TaskExecutor {
	e := &TaskExecutor{
		runtime:   runtime,
		sessions:  sessions,
		converter: convert.NewConverter(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs one task turn, publishing protocol events to queue.
//
// Failures never surface as a return value: any error while setting up or
// driving the run is converted into a terminal failed status event. Only a
// failure to enqueue that terminal event is logged and dropped.
func (e *TaskExecutor) Execute(ctx context.Context, req *Request, queue *EventQueue) {
	if err := e.run(ctx, req, queue); err != nil {
		e.fail(ctx, req, queue, err)
	}
}

// Cancel is defined on the contract but intentionally unimplemented.
func (e *TaskExecutor) Cancel(ctx context.Context, taskID string) error {
	return types.NotSupportedError("task cancellation is not supported")
}

func (e *TaskExecutor) run(ctx context.Context, req *Request, queue *EventQueue) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = types.NewExecutionError("task execution panic: %v", r)
		}
	}()

	logger := logging.FromContext(ctx)

	if err := e.hooks.fire(ctx, &HookInfo{Point: HookBeforeExecute, Request: req}); err != nil {
		return err
	}

	// A brand new task announces itself before anything can fail.
	if req.Task == nil {
		submitted := types.NewStatusUpdateEvent(req.TaskID, req.ContextID, types.NewTaskStatus(types.TaskStateSubmitted, nil), false)
		if err := queue.Enqueue(ctx, submitted); err != nil {
			return err
		}
	}

	runtime, err := types.ResolveRuntime(ctx, e.runtime)
	if err != nil {
		return err
	}
	if err := e.hooks.fire(ctx, &HookInfo{Point: HookAfterResolve, Request: req}); err != nil {
		return err
	}

	var accessToken string
	if e.exchanger != nil {
		subjectToken, err := auth.ExtractBearer(req.Headers)
		if err != nil {
			return err
		}
		accessToken, err = e.exchanger.Exchange(ctx, subjectToken)
		if err != nil {
			return err
		}
	}

	// The caller identity travels as explicit arguments from here on; the
	// session service needs it on this very fetch.
	ses, err := e.sessions.GetSession(ctx, req.AppName, req.UserID, req.SessionID)
	if err != nil {
		return err
	}
	if ses == nil {
		ses, err = e.sessions.CreateSession(ctx, req.AppName, req.UserID, req.SessionID, map[string]any{})
		if err != nil {
			return err
		}
	}

	rc := types.NewRunContext(ses, e.sessions)
	rc.TaskID = req.TaskID
	rc.ContextID = req.ContextID

	if accessToken != "" {
		ses.State()[auth.TokenStateKey(ses.ID())] = accessToken
	}

	working := types.NewStatusUpdateEvent(req.TaskID, req.ContextID, types.NewTaskStatus(types.TaskStateWorking, nil), false)
	working.Metadata = map[string]any{
		"app_name":   req.AppName,
		"user_id":    req.UserID,
		"session_id": ses.ID(),
	}
	if err := queue.Enqueue(ctx, working); err != nil {
		return err
	}

	if err := e.hooks.fire(ctx, &HookInfo{Point: HookBeforeRuntime, Request: req, Context: rc}); err != nil {
		return err
	}

	message, err := convert.ToContent(req.Message)
	if err != nil {
		return err
	}

	logger.InfoContext(ctx, "driving runtime",
		slog.String("task_id", req.TaskID),
		slog.String("agent", runtime.Name()),
	)

	agg := NewEventAggregator()
	for nativeEvent, rerr := range runtime.Run(ctx, rc, message, req.RunConfig) {
		if rerr != nil {
			return rerr
		}
		events, cerr := e.converter.Convert(nativeEvent, rc)
		if cerr != nil {
			return cerr
		}
		for _, event := range events {
			if err := e.hooks.fire(ctx, &HookInfo{Point: HookOnEvent, Request: req, Context: rc, Event: event}); err != nil {
				return err
			}
			agg.Process(event)
			if err := queue.Enqueue(ctx, event); err != nil {
				return err
			}
		}
	}

	if err := e.finish(ctx, req, rc, agg, queue); err != nil {
		return err
	}

	return e.hooks.fire(ctx, &HookInfo{Point: HookAfterExecute, Request: req, Context: rc})
}

// finish emits the terminal event for the turn once the runtime's stream is
// exhausted.
func (e *TaskExecutor) finish(ctx context.Context, req *Request, rc *types.RunContext, agg *EventAggregator, queue *EventQueue) error {
	if agg.State() == types.TaskStateWorking && len(agg.FinalParts()) > 0 {
		artifact := types.Artifact{
			ArtifactID: convert.ArtifactID(req.TaskID),
			Parts:      agg.FinalParts(),
		}
		if err := queue.Enqueue(ctx, types.NewArtifactUpdateEvent(req.TaskID, req.ContextID, artifact, true)); err != nil {
			return err
		}
		completed := types.NewStatusUpdateEvent(req.TaskID, req.ContextID, types.NewTaskStatus(types.TaskStateCompleted, nil), true)
		return queue.Enqueue(ctx, completed)
	}

	// Covers input_required and failed passed through from the runtime.
	final := types.NewStatusUpdateEvent(req.TaskID, req.ContextID, types.NewTaskStatus(agg.State(), agg.StatusMessage()), true)
	return queue.Enqueue(ctx, final)
}

// fail converts err into the turn's terminal failed event. Best effort: a
// failure to enqueue is logged, never re-raised.
func (e *TaskExecutor) fail(ctx context.Context, req *Request, queue *EventQueue, err error) {
	message := types.NewAgentMessage(types.NewTextPart(err.Error()))
	failed := types.NewStatusUpdateEvent(req.TaskID, req.ContextID, types.NewTaskStatus(types.TaskStateFailed, message), true)

	if qerr := queue.Enqueue(ctx, failed); qerr != nil {
		logging.FromContext(ctx).ErrorContext(ctx, "dropping terminal failure event",
			slog.String("task_id", req.TaskID),
			slog.Any("cause", err),
			slog.Any("error", qerr),
		)
	}
}
