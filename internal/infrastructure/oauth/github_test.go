package oauth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"golang.org/x/oauth2"

	"github.com/ms19/journal-system/internal/core/domain"
)

func TestGitHub_AuthCodeURLCarriesState(t *testing.T) {
	g := NewGitHub(GitHubConfig{ClientID: "cid", RedirectURL: "http://localhost/oauth2/callback"})

	u, err := url.Parse(g.AuthCodeURL("state-123"))
	if err != nil {
		t.Fatalf("parse url: %v", err)
	}
	q := u.Query()
	if q.Get("state") != "state-123" || q.Get("client_id") != "cid" {
		t.Fatalf("unexpected query: %s", u.RawQuery)
	}
}

func TestPrimaryEmail(t *testing.T) {
	body := []byte(`[
		{"email":"old@example.com","primary":false,"verified":true},
		{"email":"main@example.com","primary":true,"verified":true}
	]`)
	if got := primaryEmail(body); got != "main@example.com" {
		t.Fatalf("got %q", got)
	}
	if got := primaryEmail([]byte(`[{"email":"x@example.com","primary":true,"verified":false}]`)); got != "" {
		t.Fatalf("unverified address returned: %q", got)
	}
}

func TestGitHub_Exchange(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/login/oauth/access_token", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok","token_type":"bearer"}`))
	})
	mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"login":"octocat","name":"Mona","email":null}`))
	})
	mux.HandleFunc("/user/emails", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"email":"mona@example.com","primary":true,"verified":true}]`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	g := NewGitHub(GitHubConfig{
		ClientID:     "cid",
		ClientSecret: "secret",
		Endpoint: &oauth2.Endpoint{
			AuthURL:  srv.URL + "/login/oauth/authorize",
			TokenURL: srv.URL + "/login/oauth/access_token",
		},
		APIBaseURL: srv.URL,
	})

	identity, err := g.Exchange(context.Background(), "code")
	if err != nil {
		t.Fatalf("exchange: %v", err)
	}
	if identity.Login != "octocat" || identity.Email != "mona@example.com" || identity.Provider != "github" {
		t.Fatalf("unexpected identity: %+v", identity)
	}
	if identity.LocalUsername() != "github:octocat" {
		t.Fatalf("local username: %q", identity.LocalUsername())
	}
}

func TestGitHub_ExchangeFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	g := NewGitHub(GitHubConfig{
		Endpoint:   &oauth2.Endpoint{TokenURL: srv.URL + "/token"},
		APIBaseURL: srv.URL,
	})
	if _, err := g.Exchange(context.Background(), "bad"); !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
	if _, err := g.Exchange(context.Background(), ""); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}
