package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/ms19/journal-system/internal/api/middleware"
	"github.com/ms19/journal-system/internal/core/domain"
	"github.com/ms19/journal-system/internal/core/ports"
)

// newContext builds an echo context with the validator wired the way the router does.
func newContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func withPrincipal(c echo.Context, username string, roles ...domain.Role) echo.Context {
	rs := domain.RoleSet(roles)
	if len(rs) == 0 {
		rs = domain.DefaultRoles()
	}
	middleware.SetPrincipal(c, domain.Principal{Username: username, Roles: rs})
	return c
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) (Response, map[string]any) {
	t.Helper()
	var env Response
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("invalid json %q: %v", rec.Body.String(), err)
	}
	data, _ := env.Data.(map[string]any)
	return env, data
}

// --- service stubs ---

type stubEntryService struct {
	createFn   func(ctx context.Context, in ports.CreateEntryInput, p domain.Principal) (*domain.JournalEntry, error)
	listFn     func(ctx context.Context, p domain.Principal) ([]*domain.JournalEntry, error)
	getFn      func(ctx context.Context, id string, p domain.Principal) (*domain.JournalEntry, error)
	updateFn   func(ctx context.Context, id string, patch domain.EntryPatch, p domain.Principal) (*domain.JournalEntry, error)
	deleteFn   func(ctx context.Context, id string, p domain.Principal) (*domain.JournalEntry, error)
	findByIDFn func(ctx context.Context, id string) (*domain.JournalEntry, error)
}

func (s *stubEntryService) CreateEntry(ctx context.Context, in ports.CreateEntryInput, p domain.Principal) (*domain.JournalEntry, error) {
	return s.createFn(ctx, in, p)
}

func (s *stubEntryService) ListEntries(ctx context.Context, p domain.Principal) ([]*domain.JournalEntry, error) {
	return s.listFn(ctx, p)
}

func (s *stubEntryService) GetEntry(ctx context.Context, id string, p domain.Principal) (*domain.JournalEntry, error) {
	return s.getFn(ctx, id, p)
}

func (s *stubEntryService) UpdateEntry(ctx context.Context, id string, patch domain.EntryPatch, p domain.Principal) (*domain.JournalEntry, error) {
	return s.updateFn(ctx, id, patch, p)
}

func (s *stubEntryService) DeleteEntry(ctx context.Context, id string, p domain.Principal) (*domain.JournalEntry, error) {
	return s.deleteFn(ctx, id, p)
}

func (s *stubEntryService) FindEntryByID(ctx context.Context, id string) (*domain.JournalEntry, error) {
	return s.findByIDFn(ctx, id)
}

type stubUserService struct {
	registerUserFn  func(ctx context.Context, in ports.RegisterInput) (*domain.User, error)
	registerAdminFn func(ctx context.Context, in ports.RegisterInput) (*domain.User, error)
	updateFn        func(ctx context.Context, username string, patch domain.ProfilePatch) (*domain.User, error)
	deleteFn        func(ctx context.Context, username string) (*domain.User, error)
	findFn          func(ctx context.Context, username string) (*domain.User, error)
	listFn          func(ctx context.Context, f ports.UserFilter) ([]*domain.User, error)
}

func (s *stubUserService) RegisterUser(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	return s.registerUserFn(ctx, in)
}

func (s *stubUserService) RegisterAdmin(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	return s.registerAdminFn(ctx, in)
}

func (s *stubUserService) UpdateProfile(ctx context.Context, username string, patch domain.ProfilePatch) (*domain.User, error) {
	return s.updateFn(ctx, username, patch)
}

func (s *stubUserService) DeleteByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.deleteFn(ctx, username)
}

func (s *stubUserService) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.findFn(ctx, username)
}

func (s *stubUserService) ListUsers(ctx context.Context, f ports.UserFilter) ([]*domain.User, error) {
	return s.listFn(ctx, f)
}

type stubAuthService struct {
	loginFn         func(ctx context.Context, username, password string) (string, *domain.User, error)
	logoutFn        func(ctx context.Context, token string) error
	oauthURLFn      func(ctx context.Context) (string, error)
	oauthCallbackFn func(ctx context.Context, state, code string) (string, *domain.User, error)
}

func (s *stubAuthService) VerifyToken(context.Context, string) (*domain.Principal, error) {
	return nil, domain.ErrInvalidToken
}

func (s *stubAuthService) VerifyBasic(context.Context, string, string) (*domain.Principal, error) {
	return nil, domain.ErrInvalidCredentials
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, username, password)
}

func (s *stubAuthService) Logout(ctx context.Context, token string) error {
	return s.logoutFn(ctx, token)
}

func (s *stubAuthService) OAuthLoginURL(ctx context.Context) (string, error) {
	return s.oauthURLFn(ctx)
}

func (s *stubAuthService) OAuthCallback(ctx context.Context, state, code string) (string, *domain.User, error) {
	return s.oauthCallbackFn(ctx, state, code)
}

type recordingNotifier struct {
	sent []domain.Mail
}

func (n *recordingNotifier) Send(_ context.Context, m domain.Mail) {
	n.sent = append(n.sent, m)
}

type stubWeather struct {
	snap *domain.WeatherSnapshot
	err  error
}

func (s *stubWeather) Current(context.Context, string) (*domain.WeatherSnapshot, error) {
	return s.snap, s.err
}

type stubChat struct {
	reply string
	err   error
}

func (s *stubChat) Complete(context.Context, string) (string, error) {
	return s.reply, s.err
}

type stubChecker struct {
	name string
	err  error
}

func (s stubChecker) Name() string               { return s.name }
func (s stubChecker) Ping(context.Context) error { return s.err }
