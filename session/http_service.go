// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-json-experiment/json"

	"github.com/go-a2a/agentbridge/pkg/logging"
	"github.com/go-a2a/agentbridge/types"
)

// identityHeader carries the resolved caller identity on every call to the
// session store.
const identityHeader = "X-A2A-User"

// HTTPService is a [types.SessionService] backed by the external session
// store's HTTP API.
//
// Sessions are fetch-mutate-discard: the service never caches them, and the
// store serializes per-session writes.
type HTTPService struct {
	baseURL string
	client  *http.Client
}

var _ types.SessionService = (*HTTPService)(nil)

// HTTPServiceOption configures an [HTTPService].
type HTTPServiceOption func(*HTTPService)

// WithHTTPClient sets the HTTP client used for store calls.
func WithHTTPClient(client *http.Client) HTTPServiceOption {
	return func(s *HTTPService) {
		s.client = client
	}
}

// NewHTTPService creates a session service client against baseURL.
func NewHTTPService(baseURL string, opts ...HTTPServiceOption) *HTTPService {
	s := &HTTPService{
		baseURL: baseURL,
		client:  http.DefaultClient,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// sessionPayload is the store's wire form of a session.
type sessionPayload struct {
	ID             string         `json:"id"`
	AppName        string         `json:"appName"`
	UserID         string         `json:"userId"`
	State          map[string]any `json:"state,omitzero"`
	Events         []eventPayload `json:"events,omitzero"`
	LastUpdateTime time.Time      `json:"lastUpdateTime,omitzero"`
}

// eventPayload is the store's wire form of an event.
type eventPayload struct {
	ID                 string         `json:"id"`
	InvocationID       string         `json:"invocationId,omitzero"`
	Author             string         `json:"author,omitzero"`
	Branch             string         `json:"branch,omitzero"`
	Content            map[string]any `json:"content,omitzero"`
	Partial            bool           `json:"partial,omitzero"`
	CustomMetadata     map[string]any `json:"customMetadata,omitzero"`
	LongRunningToolIDs []string       `json:"longRunningToolIds,omitzero"`
	ErrorCode          string         `json:"errorCode,omitzero"`
	ErrorMessage       string         `json:"errorMessage,omitzero"`
	Timestamp          time.Time      `json:"timestamp,omitzero"`
}

func encodeEvent(event *types.Event) (*eventPayload, error) {
	content, err := types.EncodeContent(event.Content)
	if err != nil {
		return nil, fmt.Errorf("encode event content: %w", err)
	}
	return &eventPayload{
		ID:                 event.ID,
		InvocationID:       event.InvocationID,
		Author:             event.Author,
		Branch:             event.Branch,
		Content:            content,
		Partial:            event.Partial,
		CustomMetadata:     event.CustomMetadata,
		LongRunningToolIDs: event.LongRunningToolIDs,
		ErrorCode:          event.ErrorCode,
		ErrorMessage:       event.ErrorMessage,
		Timestamp:          event.Timestamp,
	}, nil
}

func decodeEvent(payload eventPayload) (*types.Event, error) {
	content, err := types.DecodeContent(payload.Content)
	if err != nil {
		return nil, fmt.Errorf("decode event content: %w", err)
	}
	return &types.Event{
		ID:                 payload.ID,
		InvocationID:       payload.InvocationID,
		Author:             payload.Author,
		Branch:             payload.Branch,
		Content:            content,
		Partial:            payload.Partial,
		CustomMetadata:     payload.CustomMetadata,
		LongRunningToolIDs: payload.LongRunningToolIDs,
		ErrorCode:          payload.ErrorCode,
		ErrorMessage:       payload.ErrorMessage,
		Timestamp:          payload.Timestamp,
	}, nil
}

func decodeSession(payload *sessionPayload) (types.Session, error) {
	ses := NewSession(payload.AppName, payload.UserID, payload.ID, payload.State, payload.LastUpdateTime)
	for _, ep := range payload.Events {
		event, err := decodeEvent(ep)
		if err != nil {
			return nil, err
		}
		ses.AddEvent(event)
	}
	return ses, nil
}

func (s *HTTPService) sessionsURL(appName, userID string) string {
	return fmt.Sprintf("%s/apps/%s/users/%s/sessions", s.baseURL, url.PathEscape(appName), url.PathEscape(userID))
}

// do issues one store call with the caller identity attached and decodes the
// response into out when it is non-nil.
func (s *HTTPService) do(ctx context.Context, method, endpoint, userID string, body, out any) (int, error) {
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return 0, fmt.Errorf("build session store request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(identityHeader, userID)

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("call session store: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return resp.StatusCode, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, fmt.Errorf("session store returned %s", resp.Status)
	}

	if out != nil {
		if err := json.UnmarshalRead(resp.Body, out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode session store response: %w", err)
		}
	}
	return resp.StatusCode, nil
}

// CreateSession implements [types.SessionService].
func (s *HTTPService) CreateSession(ctx context.Context, appName, userID, sessionID string, state map[string]any) (types.Session, error) {
	logging.FromContext(ctx).InfoContext(ctx, "creating session",
		slog.String("app_name", appName),
		slog.String("user_id", userID),
		slog.String("session_id", sessionID),
	)

	body := &sessionPayload{
		ID:      sessionID,
		AppName: appName,
		UserID:  userID,
		State:   state,
	}
	var payload sessionPayload
	if _, err := s.do(ctx, http.MethodPost, s.sessionsURL(appName, userID), userID, body, &payload); err != nil {
		return nil, err
	}
	return decodeSession(&payload)
}

// GetSession implements [types.SessionService]. A session that does not
// exist is (nil, nil), not an error.
func (s *HTTPService) GetSession(ctx context.Context, appName, userID, sessionID string) (types.Session, error) {
	endpoint := s.sessionsURL(appName, userID) + "/" + url.PathEscape(sessionID)

	var payload sessionPayload
	status, err := s.do(ctx, http.MethodGet, endpoint, userID, nil, &payload)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, nil
	}
	return decodeSession(&payload)
}

// ListSessions implements [types.SessionService].
func (s *HTTPService) ListSessions(ctx context.Context, appName, userID string) ([]types.Session, error) {
	var payloads []sessionPayload
	if _, err := s.do(ctx, http.MethodGet, s.sessionsURL(appName, userID), userID, nil, &payloads); err != nil {
		return nil, err
	}

	sessions := make([]types.Session, 0, len(payloads))
	for i := range payloads {
		// Listings carry identity only, no events or state.
		sessions = append(sessions, NewSession(payloads[i].AppName, payloads[i].UserID, payloads[i].ID, nil, payloads[i].LastUpdateTime))
	}
	return sessions, nil
}

// DeleteSession implements [types.SessionService].
func (s *HTTPService) DeleteSession(ctx context.Context, appName, userID, sessionID string) error {
	endpoint := s.sessionsURL(appName, userID) + "/" + url.PathEscape(sessionID)
	_, err := s.do(ctx, http.MethodDelete, endpoint, userID, nil, nil)
	return err
}

// AppendEvent implements [types.SessionService].
func (s *HTTPService) AppendEvent(ctx context.Context, ses types.Session, event *types.Event) (*types.Event, error) {
	body, err := encodeEvent(event)
	if err != nil {
		return nil, err
	}

	endpoint := s.sessionsURL(ses.AppName(), ses.UserID()) + "/" + url.PathEscape(ses.ID()) + "/events"
	var payload eventPayload
	if _, err := s.do(ctx, http.MethodPost, endpoint, ses.UserID(), body, &payload); err != nil {
		return nil, err
	}

	stored, err := decodeEvent(payload)
	if err != nil {
		return nil, err
	}

	ses.AddEvent(stored)
	ses.SetLastUpdateTime(stored.Timestamp)
	return stored, nil
}
