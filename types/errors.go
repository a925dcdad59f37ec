// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package types

import "fmt"

// RuntimeResolutionError is the error type for a runtime handle or factory
// that cannot be resolved into an [AgentRuntime].
type RuntimeResolutionError string

// NewRuntimeResolutionError returns a new [RuntimeResolutionError].
func NewRuntimeResolutionError(format string, a ...any) error {
	return RuntimeResolutionError(fmt.Sprintf(format, a...))
}

// Error returns a string representation of the [RuntimeResolutionError].
func (e RuntimeResolutionError) Error() string {
	return string(e)
}

// MissingCredentialError is the error type for an absent caller credential.
type MissingCredentialError string

// Error returns a string representation of the [MissingCredentialError].
func (e MissingCredentialError) Error() string {
	return string(e)
}

// MalformedCredentialError is the error type for a credential that is present
// but not a well-formed bearer token.
type MalformedCredentialError string

// Error returns a string representation of the [MalformedCredentialError].
func (e MalformedCredentialError) Error() string {
	return string(e)
}

// NotSupportedError is the error type for contract operations that are
// intentionally unimplemented.
type NotSupportedError string

// Error returns a string representation of the [NotSupportedError].
func (e NotSupportedError) Error() string {
	return string(e)
}

// InvalidConfigurationError is the error type for out-of-range construction
// parameters.
type InvalidConfigurationError string

// NewInvalidConfigurationError returns a new [InvalidConfigurationError].
func NewInvalidConfigurationError(format string, a ...any) error {
	return InvalidConfigurationError(fmt.Sprintf(format, a...))
}

// Error returns a string representation of the [InvalidConfigurationError].
func (e InvalidConfigurationError) Error() string {
	return string(e)
}

// SubAgentError is the error type for an isolated branch failure inside a
// parallel workflow. It is surfaced to the caller as data, not raised.
type SubAgentError struct {
	// AgentName is the name of the failed sub-agent.
	AgentName string

	// Err is the underlying failure.
	Err error
}

// Error returns a string representation of the [SubAgentError].
func (e *SubAgentError) Error() string {
	return fmt.Sprintf("sub-agent %s: %v", e.AgentName, e.Err)
}

// Unwrap returns the underlying failure.
func (e *SubAgentError) Unwrap() error {
	return e.Err
}

// ExecutionError is the error type for an uncaught failure while driving a
// task. The executor converts it into a terminal failed status event.
type ExecutionError string

// NewExecutionError returns a new [ExecutionError].
func NewExecutionError(format string, a ...any) error {
	return ExecutionError(fmt.Sprintf(format, a...))
}

// Error returns a string representation of the [ExecutionError].
func (e ExecutionError) Error() string {
	return string(e)
}
