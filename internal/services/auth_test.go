package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/desertthunder/spx/internal/models"
	"github.com/desertthunder/spx/internal/shared"
)

func TestAuthenticate(t *testing.T) {
	creds := models.Credentials{ClientID: "client", ClientSecret: "secret"}

	t.Run("exchanges client credentials for a token", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				t.Errorf("expected POST, got %s", r.Method)
			}
			id, secret, ok := r.BasicAuth()
			if !ok || id != "client" || secret != "secret" {
				t.Errorf("expected basic auth client:secret, got %s:%s", id, secret)
			}
			if err := r.ParseForm(); err != nil {
				t.Fatalf("failed to parse form: %v", err)
			}
			if got := r.PostForm.Get("grant_type"); got != "client_credentials" {
				t.Errorf("expected client_credentials grant, got %s", got)
			}

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"access_token":"token-123","token_type":"bearer","expires_in":3600}`))
		}))
		defer server.Close()

		token, err := Authenticate(context.Background(), creds, AuthOpts{TokenURL: server.URL, HTTPClient: server.Client()})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if token.Token != "token-123" {
			t.Errorf("expected token-123, got %s", token.Token)
		}
		if time.Until(token.Expiry) < 50*time.Minute {
			t.Errorf("expected expiry about an hour out, got %v", token.Expiry)
		}
	})

	t.Run("rejected credentials", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":"invalid_client","error_description":"Invalid client"}`))
		}))
		defer server.Close()

		_, err := Authenticate(context.Background(), creds, AuthOpts{TokenURL: server.URL, HTTPClient: server.Client()})
		if !errors.Is(err, shared.ErrAuthFailed) {
			t.Errorf("expected ErrAuthFailed, got %v", err)
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"access_token":`))
		}))
		defer server.Close()

		_, err := Authenticate(context.Background(), creds, AuthOpts{TokenURL: server.URL, HTTPClient: server.Client()})
		if !errors.Is(err, shared.ErrAuthFailed) {
			t.Errorf("expected ErrAuthFailed, got %v", err)
		}
	})

	t.Run("missing access token", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"token_type":"bearer","expires_in":3600}`))
		}))
		defer server.Close()

		_, err := Authenticate(context.Background(), creds, AuthOpts{TokenURL: server.URL, HTTPClient: server.Client()})
		if !errors.Is(err, shared.ErrAuthFailed) {
			t.Errorf("expected ErrAuthFailed, got %v", err)
		}
	})
}
