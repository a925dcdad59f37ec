// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package agent provides the workflow composition primitives: bounded
// parallel and strictly sequential execution of sub-agents with correct
// session and branch propagation.
package agent
