// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package types

import (
	"encoding/base64"
	"time"

	"github.com/bytedance/sonic"
	"google.golang.org/genai"
)

// Prefixes scoping session state keys.
const (
	// AppPrefix is the prefix for application state keys.
	AppPrefix = "app:"

	// UserPrefix is the prefix for user state keys.
	UserPrefix = "user:"

	// TempPrefix is the prefix for state keys that are not persisted.
	TempPrefix = "temp:"
)

// Session represents one conversation owned by the external session store.
//
// The executor holds at most one reference per task execution and must not
// retain it beyond the call.
type Session interface {
	// ID returns the session ID.
	ID() string

	// AppName returns the application name.
	AppName() string

	// UserID returns the user ID.
	UserID() string

	// State is the state of the session.
	State() map[string]any

	// Events returns the ordered events in the session.
	Events() []*Event

	// LastUpdateTime is the last update time of the session.
	LastUpdateTime() time.Time

	// AddEvent appends events to this session.
	AddEvent(events ...*Event)

	// SetLastUpdateTime records the last update time of the session.
	SetLastUpdateTime(time.Time)
}

// EncodeContent encodes native content to a JSON dictionary, base64-encoding
// inline data so the result survives the session store's JSON transport.
func EncodeContent(content *genai.Content) (map[string]any, error) {
	if content == nil {
		return nil, nil
	}

	bytes, err := sonic.ConfigFastest.Marshal(content)
	if err != nil {
		return nil, err
	}

	var result map[string]any
	if err := sonic.ConfigFastest.Unmarshal(bytes, &result); err != nil {
		return nil, err
	}

	if parts, ok := result["parts"].([]any); ok {
		for _, part := range parts {
			if p, ok := part.(map[string]any); ok {
				if inlineData, ok := p["inlineData"].(map[string]any); ok {
					if data, ok := inlineData["data"].([]byte); ok {
						inlineData["data"] = base64.StdEncoding.EncodeToString(data)
					}
				}
			}
		}
	}

	return result, nil
}

// DecodeContent decodes native content from a JSON dictionary produced by
// [EncodeContent].
func DecodeContent(content map[string]any) (*genai.Content, error) {
	if content == nil {
		return nil, nil
	}

	if parts, ok := content["parts"].([]any); ok {
		for _, part := range parts {
			if p, ok := part.(map[string]any); ok {
				if inlineData, ok := p["inlineData"].(map[string]any); ok {
					if data, ok := inlineData["data"].(string); ok {
						decoded, err := base64.StdEncoding.DecodeString(data)
						if err != nil {
							return nil, err
						}
						inlineData["data"] = decoded
					}
				}
			}
		}
	}

	bytes, err := sonic.ConfigFastest.Marshal(content)
	if err != nil {
		return nil, err
	}

	var result genai.Content
	if err := sonic.ConfigFastest.Unmarshal(bytes, &result); err != nil {
		return nil, err
	}

	return &result, nil
}
