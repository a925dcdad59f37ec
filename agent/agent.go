// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package agent

import (
	"context"
	"iter"

	"github.com/go-a2a/agentbridge/types"
)

// SubAgent is one branch of a workflow composition. Implementations run
// against the run context they are handed and yield native events.
type SubAgent interface {
	// Name returns the sub-agent's name.
	Name() string

	// Run executes the sub-agent against rc.
	Run(ctx context.Context, rc *types.RunContext) iter.Seq2[*types.Event, error]
}
