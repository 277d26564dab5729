package handler

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ms19/journal-system/internal/core/domain"
)

func TestWeatherHandler_Greet_WithWeather(t *testing.T) {
	provider := &stubWeather{snap: &domain.WeatherSnapshot{City: "Oslo", FeelsLikeC: 3}}
	c, rec := newContext(http.MethodGet, "/greet?city=Oslo", "")
	withPrincipal(c, "alice")

	if err := NewWeatherHandler(provider, zerolog.Nop()).Greet(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	_, data := decodeEnvelope(t, rec)
	greeting, _ := data["greeting"].(string)
	if !strings.HasPrefix(greeting, "Hi alice") || !strings.Contains(greeting, "Oslo") {
		t.Fatalf("unexpected greeting %q", greeting)
	}
	if data["weather"] == nil {
		t.Fatalf("expected weather in payload")
	}
}

func TestWeatherHandler_Greet_WeatherIsBestEffort(t *testing.T) {
	provider := &stubWeather{err: domain.ErrUpstream}
	c, rec := newContext(http.MethodGet, "/greet?city=Oslo", "")
	withPrincipal(c, "alice")

	if err := NewWeatherHandler(provider, zerolog.Nop()).Greet(c); err != nil {
		t.Fatalf("weather failure must not fail the greeting: %v", err)
	}
	_, data := decodeEnvelope(t, rec)
	if data["greeting"] != "Hi alice" {
		t.Fatalf("unexpected greeting %v", data["greeting"])
	}
	if _, ok := data["weather"]; ok {
		t.Fatalf("weather must be omitted on failure")
	}
}

func TestWeatherHandler_Current_Upstream(t *testing.T) {
	provider := &stubWeather{err: domain.ErrUpstream}
	c, _ := newContext(http.MethodGet, "/weather/Oslo", "")
	c.SetParamNames("city")
	c.SetParamValues("Oslo")

	if err := NewWeatherHandler(provider, zerolog.Nop()).Current(c); !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}

func TestChatHandler_Chat(t *testing.T) {
	c, rec := newContext(http.MethodPost, "/ai/chat", `{"prompt":"hello"}`)

	if err := NewChatHandler(&stubChat{reply: "hi there"}).Chat(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	_, data := decodeEnvelope(t, rec)
	if data["reply"] != "hi there" {
		t.Fatalf("unexpected data: %v", data)
	}
}

func TestChatHandler_EmptyPrompt(t *testing.T) {
	c, _ := newContext(http.MethodPost, "/ai/chat", `{"prompt":""}`)

	if err := NewChatHandler(&stubChat{}).Chat(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
