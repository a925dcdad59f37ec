// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package exchanger_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-a2a/agentbridge/auth/exchanger"
)

func tokenEndpoint(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestSTS_Exchange(t *testing.T) {
	var gotForm map[string]string

	srv := tokenEndpoint(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		gotForm = map[string]string{
			"grant_type":           r.PostFormValue("grant_type"),
			"subject_token":        r.PostFormValue("subject_token"),
			"subject_token_type":   r.PostFormValue("subject_token_type"),
			"requested_token_type": r.PostFormValue("requested_token_type"),
		}

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"delegated_token","issued_token_type":"urn:ietf:params:oauth:token-type:access_token","token_type":"Bearer","expires_in":3600}`)
	})

	sts := exchanger.NewSTS(srv.URL)

	token, err := sts.Exchange(t.Context(), "caller_token")
	if err != nil {
		t.Fatal(err)
	}
	if token != "delegated_token" {
		t.Errorf("token = %q, want delegated_token", token)
	}

	want := map[string]string{
		"grant_type":           exchanger.GrantTypeTokenExchange,
		"subject_token":        "caller_token",
		"subject_token_type":   exchanger.TokenTypeAccessToken,
		"requested_token_type": exchanger.TokenTypeAccessToken,
	}
	for key, wantValue := range want {
		if gotForm[key] != wantValue {
			t.Errorf("form[%s] = %q, want %q", key, gotForm[key], wantValue)
		}
	}
}

func TestSTS_ExchangeToken_expiry(t *testing.T) {
	srv := tokenEndpoint(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"delegated_token","token_type":"Bearer","expires_in":60}`)
	})

	sts := exchanger.NewSTS(srv.URL)

	before := time.Now()
	token, err := sts.ExchangeToken(t.Context(), "caller_token")
	if err != nil {
		t.Fatal(err)
	}

	if token.TokenType != "Bearer" {
		t.Errorf("token type = %q, want Bearer", token.TokenType)
	}
	if token.Expiry.Before(before.Add(59 * time.Second)) {
		t.Errorf("expiry = %v, want about 60s out", token.Expiry)
	}
}

func TestSTS_actorToken(t *testing.T) {
	var gotActor, gotActorType string

	srv := tokenEndpoint(t, func(w http.ResponseWriter, r *http.Request) {
		gotActor = r.PostFormValue("actor_token")
		gotActorType = r.PostFormValue("actor_token_type")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"delegated_token","token_type":"Bearer"}`)
	})

	sts := exchanger.NewSTS(srv.URL, exchanger.WithActorToken("service_token"))

	if _, err := sts.Exchange(t.Context(), "caller_token"); err != nil {
		t.Fatal(err)
	}
	if gotActor != "service_token" {
		t.Errorf("actor_token = %q, want service_token", gotActor)
	}
	if gotActorType != exchanger.TokenTypeAccessToken {
		t.Errorf("actor_token_type = %q, want %q", gotActorType, exchanger.TokenTypeAccessToken)
	}
}

func TestSTS_endpointFailure(t *testing.T) {
	srv := tokenEndpoint(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
	})

	sts := exchanger.NewSTS(srv.URL)

	if _, err := sts.Exchange(t.Context(), "caller_token"); err == nil {
		t.Error("expected an error for a failing endpoint")
	}
}

func TestSTS_emptyAccessToken(t *testing.T) {
	srv := tokenEndpoint(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"token_type":"Bearer"}`)
	})

	sts := exchanger.NewSTS(srv.URL)

	if _, err := sts.Exchange(t.Context(), "caller_token"); err == nil {
		t.Error("expected an error for a response without an access token")
	}
}
