// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package types defines the task protocol wire model, the runtime-native
// event model, and the collaborator contracts (agent runtime, session store,
// token exchanger) shared by every package in the module.
package types
