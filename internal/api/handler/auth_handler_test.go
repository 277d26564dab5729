package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/ms19/journal-system/internal/core/domain"
)

func TestAuthHandler_Login_Success(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(_ context.Context, username, password string) (string, *domain.User, error) {
			if username != "alice" || password != "secret" {
				t.Fatalf("unexpected args: %s %s", username, password)
			}
			return "token123", &domain.User{Username: "alice", Roles: domain.DefaultRoles()}, nil
		},
	}
	c, rec := newContext(http.MethodPost, "/auth/login", `{"username":"alice","password":"secret"}`)

	if err := NewAuthHandler(stub).Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	_, data := decodeEnvelope(t, rec)
	if data["token"] != "token123" {
		t.Fatalf("unexpected token: %v", data["token"])
	}
	user, ok := data["user"].(map[string]any)
	if !ok || user["username"] != "alice" {
		t.Fatalf("unexpected user payload: %+v", data["user"])
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(context.Context, string, string) (string, *domain.User, error) {
			return "", nil, domain.ErrInvalidCredentials
		},
	}
	c, _ := newContext(http.MethodPost, "/auth/login", `{"username":"alice","password":"wrong"}`)

	if err := NewAuthHandler(stub).Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Login_MissingPassword(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(context.Context, string, string) (string, *domain.User, error) {
			t.Fatalf("should not be called")
			return "", nil, nil
		},
	}
	c, _ := newContext(http.MethodPost, "/auth/login", `{"username":"alice"}`)

	if err := NewAuthHandler(stub).Login(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestAuthHandler_Logout_RequiresBearer(t *testing.T) {
	stub := &stubAuthService{
		logoutFn: func(context.Context, string) error {
			t.Fatalf("should not be called")
			return nil
		},
	}
	c, _ := newContext(http.MethodPost, "/auth/logout", "")
	withPrincipal(c, "alice")

	if err := NewAuthHandler(stub).Logout(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestAuthHandler_OAuthLogin_Redirects(t *testing.T) {
	stub := &stubAuthService{
		oauthURLFn: func(context.Context) (string, error) {
			return "https://github.com/login/oauth/authorize?state=abc", nil
		},
	}
	c, rec := newContext(http.MethodGet, "/oauth2/login", "")

	if err := NewAuthHandler(stub).OAuthLogin(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "https://github.com/login/oauth/authorize?state=abc" {
		t.Fatalf("unexpected location %q", loc)
	}
}

func TestAuthHandler_OAuthCallback(t *testing.T) {
	stub := &stubAuthService{
		oauthCallbackFn: func(_ context.Context, state, code string) (string, *domain.User, error) {
			if state != "s1" || code != "c1" {
				t.Fatalf("unexpected args %q %q", state, code)
			}
			return "tok", &domain.User{Username: "github:octocat"}, nil
		},
	}
	c, rec := newContext(http.MethodGet, "/oauth2/callback?state=s1&code=c1", "")

	if err := NewAuthHandler(stub).OAuthCallback(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	_, data := decodeEnvelope(t, rec)
	if data["token"] != "tok" {
		t.Fatalf("unexpected data: %v", data)
	}
}

func TestAuthHandler_OAuthCallback_ProviderError(t *testing.T) {
	stub := &stubAuthService{
		oauthCallbackFn: func(context.Context, string, string) (string, *domain.User, error) {
			t.Fatalf("should not be called")
			return "", nil, nil
		},
	}
	c, _ := newContext(http.MethodGet, "/oauth2/callback?error=access_denied", "")

	if err := NewAuthHandler(stub).OAuthCallback(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}
