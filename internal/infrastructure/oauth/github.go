// Package oauth implements OAuth2 identity providers.
package oauth

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"

	"github.com/ms19/journal-system/internal/core/domain"
	"github.com/ms19/journal-system/internal/core/ports"
	"github.com/ms19/journal-system/internal/pkg/metrics"
)

const (
	providerGitHub    = "github"
	defaultGitHubAPI  = "https://api.github.com"
	maxBodyBytes      = 1 << 20
	apiRequestTimeout = 10 * time.Second
)

type GitHubConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	// Endpoint and APIBaseURL override the public GitHub hosts, e.g. for GitHub Enterprise.
	Endpoint   *oauth2.Endpoint
	APIBaseURL string
}

// GitHub is the authorization-code identity provider for github.com.
type GitHub struct {
	oauth   *oauth2.Config
	apiBase string
}

var _ ports.IdentityProvider = (*GitHub)(nil)

func NewGitHub(cfg GitHubConfig) *GitHub {
	endpoint := github.Endpoint
	if cfg.Endpoint != nil {
		endpoint = *cfg.Endpoint
	}
	apiBase := cfg.APIBaseURL
	if apiBase == "" {
		apiBase = defaultGitHubAPI
	}
	return &GitHub{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"read:user", "user:email"},
			Endpoint:     endpoint,
		},
		apiBase: strings.TrimRight(apiBase, "/"),
	}
}

func (g *GitHub) Name() string { return providerGitHub }

func (g *GitHub) AuthCodeURL(state string) string {
	return g.oauth.AuthCodeURL(state)
}

// Exchange trades the code for a token and reads the GitHub profile.
func (g *GitHub) Exchange(ctx context.Context, code string) (*domain.Identity, error) {
	if code == "" {
		return nil, domain.ErrInvalidCredentials
	}

	start := time.Now()
	identity, err := g.exchange(ctx, code)
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.UpstreamRequestDuration.WithLabelValues(providerGitHub, outcome).Observe(time.Since(start).Seconds())
	return identity, err
}

func (g *GitHub) exchange(ctx context.Context, code string) (*domain.Identity, error) {
	tok, err := g.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: github code exchange: %v", domain.ErrUpstream, err)
	}

	client := g.oauth.Client(ctx, tok)
	client.Timeout = apiRequestTimeout

	profile, err := g.get(ctx, client, "/user")
	if err != nil {
		return nil, err
	}

	login := gjson.GetBytes(profile, "login").String()
	if login == "" {
		return nil, fmt.Errorf("%w: github profile has no login", domain.ErrUpstream)
	}
	identity := &domain.Identity{
		Provider: providerGitHub,
		Login:    login,
		Email:    gjson.GetBytes(profile, "email").String(),
		Name:     gjson.GetBytes(profile, "name").String(),
	}

	// The public profile omits private addresses; fall back to the primary verified one.
	if identity.Email == "" {
		if emails, err := g.get(ctx, client, "/user/emails"); err == nil {
			identity.Email = primaryEmail(emails)
		}
	}
	return identity, nil
}

func (g *GitHub) get(ctx context.Context, client *http.Client, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.apiBase+path, nil)
	if err != nil {
		return nil, fmt.Errorf("build github request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: github %s: %v", domain.ErrUpstream, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read github %s: %v", domain.ErrUpstream, path, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: github %s status %d", domain.ErrUpstream, path, resp.StatusCode)
	}
	return body, nil
}

func primaryEmail(body []byte) string {
	for _, e := range gjson.ParseBytes(body).Array() {
		if e.Get("primary").Bool() && e.Get("verified").Bool() {
			return e.Get("email").String()
		}
	}
	return ""
}
