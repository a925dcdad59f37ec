// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package auth extracts caller credentials from transport headers and names
// the session state slot where exchanged tokens are stashed for the
// runtime's tool layer.
package auth

import (
	"strings"

	"github.com/go-a2a/agentbridge/types"
)

const bearerPrefix = "Bearer "

// ExtractBearer pulls the caller's bearer token out of transport headers.
//
// A missing Authorization header fails with [types.MissingCredentialError];
// a present header that is not `Bearer <token>` with a non-empty token fails
// with [types.MalformedCredentialError].
func ExtractBearer(headers map[string][]string) (string, error) {
	var value string
	for name, values := range headers {
		if strings.EqualFold(name, "Authorization") && len(values) > 0 {
			value = values[0]
			break
		}
	}
	if value == "" {
		return "", types.MissingCredentialError("no Authorization header in request")
	}

	if !strings.HasPrefix(value, bearerPrefix) {
		return "", types.MalformedCredentialError("Authorization header is not a bearer credential")
	}

	token := strings.TrimSpace(strings.TrimPrefix(value, bearerPrefix))
	if token == "" {
		return "", types.MalformedCredentialError("bearer credential is empty")
	}

	return token, nil
}

// TokenStateKey returns the session state key under which the exchanged
// access token for the given session is stashed. The temp prefix keeps the
// token out of the persisted session state.
func TokenStateKey(sessionID string) string {
	return types.TempPrefix + "a2a_access_token:" + sessionID
}
