// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package exchanger implements the RFC 8693 token-exchange client used as
// the executor's STS collaborator.
package exchanger

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-json-experiment/json"
	"golang.org/x/oauth2"

	"github.com/go-a2a/agentbridge/types"
)

// Grant and token type identifiers from RFC 8693.
const (
	GrantTypeTokenExchange = "urn:ietf:params:oauth:grant-type:token-exchange"
	TokenTypeAccessToken   = "urn:ietf:params:oauth:token-type:access_token"
)

// STS exchanges a caller's subject token for a delegated access token at an
// OAuth2 token-exchange endpoint.
type STS struct {
	endpoint           string
	actorToken         string
	requestedTokenType string
	client             *http.Client
}

var _ types.TokenExchanger = (*STS)(nil)

// STSOption configures an [STS].
type STSOption func(*STS)

// WithActorToken sets the actor token sent alongside the subject token.
func WithActorToken(token string) STSOption {
	return func(s *STS) {
		s.actorToken = token
	}
}

// WithRequestedTokenType overrides the requested token type.
func WithRequestedTokenType(tokenType string) STSOption {
	return func(s *STS) {
		s.requestedTokenType = tokenType
	}
}

// WithHTTPClient sets the HTTP client used for exchange calls.
func WithHTTPClient(client *http.Client) STSOption {
	return func(s *STS) {
		s.client = client
	}
}

// NewSTS creates a token exchanger against the given endpoint.
func NewSTS(endpoint string, opts ...STSOption) *STS {
	s := &STS{
		endpoint:           endpoint,
		requestedTokenType: TokenTypeAccessToken,
		client:             http.DefaultClient,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// stsResponse is the token endpoint's success payload.
type stsResponse struct {
	AccessToken     string `json:"access_token"`
	IssuedTokenType string `json:"issued_token_type"`
	TokenType       string `json:"token_type"`
	ExpiresIn       int64  `json:"expires_in"`
}

// Exchange implements [types.TokenExchanger].
func (s *STS) Exchange(ctx context.Context, subjectToken string) (string, error) {
	token, err := s.ExchangeToken(ctx, subjectToken)
	if err != nil {
		return "", err
	}
	return token.AccessToken, nil
}

// ExchangeToken performs the exchange and returns the full token, including
// its expiry.
func (s *STS) ExchangeToken(ctx context.Context, subjectToken string) (*oauth2.Token, error) {
	form := url.Values{
		"grant_type":           {GrantTypeTokenExchange},
		"subject_token":        {subjectToken},
		"subject_token_type":   {TokenTypeAccessToken},
		"requested_token_type": {s.requestedTokenType},
	}
	if s.actorToken != "" {
		form.Set("actor_token", s.actorToken)
		form.Set("actor_token_type", TokenTypeAccessToken)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build token exchange request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call token exchange endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("token exchange endpoint returned %s", resp.Status)
	}

	var body stsResponse
	if err := json.UnmarshalRead(resp.Body, &body); err != nil {
		return nil, fmt.Errorf("decode token exchange response: %w", err)
	}
	if body.AccessToken == "" {
		return nil, fmt.Errorf("token exchange response has no access token")
	}

	token := &oauth2.Token{
		AccessToken: body.AccessToken,
		TokenType:   body.TokenType,
	}
	if body.ExpiresIn > 0 {
		token.Expiry = time.Now().Add(time.Duration(body.ExpiresIn) * time.Second)
	}

	return token, nil
}
