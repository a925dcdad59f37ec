// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package agent

import (
	"context"
	"fmt"
	"iter"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/go-a2a/agentbridge/internal/xiter"
	"github.com/go-a2a/agentbridge/types"
)

// MaxWorkersLimit is the upper bound on concurrent branches a
// [ParallelWorkflowAgent] may be configured with.
const MaxWorkersLimit = 50

// ParallelWorkflowAgent runs its sub-agents concurrently in an isolated
// manner, bounded by a worker limit.
//
// This approach is beneficial for scenarios requiring multiple perspectives
// or attempts on a single task, such as:
//
//   - Running different algorithms simultaneously.
//   - Generating multiple responses for review by a subsequent evaluation agent.
type ParallelWorkflowAgent struct {
	name       string
	maxWorkers int64
	subAgents  []SubAgent
}

// NewParallelWorkflowAgent creates a parallel workflow over the given
// sub-agents. maxWorkers must be in [1, MaxWorkersLimit]; the bound is
// checked here, before any run occurs.
func NewParallelWorkflowAgent(name string, maxWorkers int64, subAgents ...SubAgent) (*ParallelWorkflowAgent, error) {
	if maxWorkers < 1 || maxWorkers > MaxWorkersLimit {
		return nil, types.NewInvalidConfigurationError("maxWorkers must be in [1, %d], got %d", MaxWorkersLimit, maxWorkers)
	}

	return &ParallelWorkflowAgent{
		name:       name,
		maxWorkers: maxWorkers,
		subAgents:  subAgents,
	}, nil
}

// Name returns the workflow agent's name.
func (a *ParallelWorkflowAgent) Name() string {
	return a.name
}

// SubAgents returns the configured sub-agents.
func (a *ParallelWorkflowAgent) SubAgents() []SubAgent {
	return a.subAgents
}

// branchResult holds one event from a branch with its origin.
type branchResult struct {
	event *types.Event
	err   error
	agent string
}

// Run executes every sub-agent against a shallow copy of rc, at most
// maxWorkers at a time. A branch failure is converted into a single
// synthetic event carrying [types.ErrorCodeSubAgent] and does not cancel
// sibling branches. Output interleaves by completion order only; every
// event, success and error, is yielded exactly once.
func (a *ParallelWorkflowAgent) Run(ctx context.Context, rc *types.RunContext) iter.Seq2[*types.Event, error] {
	if len(a.subAgents) == 0 {
		return xiter.Empty[types.Event]()
	}

	return func(yield func(*types.Event, error) bool) {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		sem := semaphore.NewWeighted(a.maxWorkers)
		resultCh := make(chan branchResult)
		wg := new(sync.WaitGroup)

		for _, subAgent := range a.subAgents {
			branchCtx := rc.WithBranch(a.name).WithBranch(subAgent.Name())

			wg.Add(1)
			go func(sub SubAgent, brc *types.RunContext) {
				defer wg.Done()

				if err := sem.Acquire(ctx, 1); err != nil {
					return
				}
				defer sem.Release(1)

				if err := a.runBranch(ctx, sub, brc, resultCh); err != nil {
					ev := types.NewEvent().
						WithAuthor(sub.Name()).
						WithBranch(brc.Branch).
						WithInvocationID(brc.InvocationID).
						WithError(types.ErrorCodeSubAgent, err.Error()).
						WithCustomMetadata("error_code", types.ErrorCodeSubAgent).
						WithCustomMetadata("agent", sub.Name())
					select {
					case resultCh <- branchResult{event: ev, agent: sub.Name()}:
					case <-ctx.Done():
					}
				}
			}(subAgent, branchCtx)
		}

		go func() {
			wg.Wait()
			close(resultCh)
		}()

		for result := range resultCh {
			if !yield(result.event, result.err) {
				return // consumer stopped; context cancellation stops branches
			}
		}
	}
}

// runBranch drains one sub-agent, forwarding its events. The first error,
// from the event stream or a panic, stops the branch and is returned for
// conversion into a synthetic error event.
func (a *ParallelWorkflowAgent) runBranch(ctx context.Context, sub SubAgent, brc *types.RunContext, resultCh chan<- branchResult) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &types.SubAgentError{AgentName: sub.Name(), Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	for event, rerr := range sub.Run(ctx, brc) {
		if rerr != nil {
			return &types.SubAgentError{AgentName: sub.Name(), Err: rerr}
		}
		select {
		case resultCh <- branchResult{event: event, agent: sub.Name()}:
		case <-ctx.Done():
			return nil
		}
	}
	return nil
}
