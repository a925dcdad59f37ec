// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package xiter contains additional stdlib [iter] types and functionality.
package xiter

import (
	"iter"
)

// Error returns an iterator that yields only the given error.
func Error[T any](err error) iter.Seq2[*T, error] {
	return func(yield func(*T, error) bool) {
		yield(nil, err)
	}
}

// Empty returns an iterator that yields nothing.
func Empty[T any]() iter.Seq2[*T, error] {
	return func(yield func(*T, error) bool) {}
}

// Of returns an iterator over the given values, with no error.
func Of[T any](values ...*T) iter.Seq2[*T, error] {
	return func(yield func(*T, error) bool) {
		for _, v := range values {
			if !yield(v, nil) {
				return
			}
		}
	}
}
