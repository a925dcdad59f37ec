// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package agent

import (
	"context"
	"iter"

	"github.com/go-a2a/agentbridge/internal/xiter"
	"github.com/go-a2a/agentbridge/types"
)

// SequentialWorkflowAgent runs its sub-agents strictly one at a time, in
// list order.
//
// Every sub-agent receives the same [types.RunContext] object as the parent,
// not a copy. That shared identity is what gives later sub-agents visibility
// into the session and events produced by earlier ones.
type SequentialWorkflowAgent struct {
	name      string
	subAgents []SubAgent
}

// NewSequentialWorkflowAgent creates a sequential workflow over the given
// sub-agents.
func NewSequentialWorkflowAgent(name string, subAgents ...SubAgent) *SequentialWorkflowAgent {
	return &SequentialWorkflowAgent{
		name:      name,
		subAgents: subAgents,
	}
}

// Name returns the workflow agent's name.
func (a *SequentialWorkflowAgent) Name() string {
	return a.name
}

// SubAgents returns the configured sub-agents.
func (a *SequentialWorkflowAgent) SubAgents() []SubAgent {
	return a.subAgents
}

// Run executes the sub-agents in order against rc itself, forwarding every
// event. A sub-agent error propagates immediately; later sub-agents do not
// run. With zero sub-agents the sequence is empty.
//
// The agent holds no reference to rc or its session after Run's sequence is
// drained.
func (a *SequentialWorkflowAgent) Run(ctx context.Context, rc *types.RunContext) iter.Seq2[*types.Event, error] {
	if len(a.subAgents) == 0 {
		return xiter.Empty[types.Event]()
	}

	return func(yield func(*types.Event, error) bool) {
		for _, subAgent := range a.subAgents {
			for event, err := range subAgent.Run(ctx, rc) {
				if err != nil {
					yield(nil, err)
					return
				}
				if !yield(event, nil) {
					return
				}
			}
		}
	}
}
