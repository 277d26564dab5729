package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ms19/journal-system/internal/core/domain"
	"github.com/ms19/journal-system/internal/core/ports"
)

type WeatherHandler struct {
	provider ports.WeatherProvider
	log      zerolog.Logger
}

func NewWeatherHandler(provider ports.WeatherProvider, log zerolog.Logger) *WeatherHandler {
	return &WeatherHandler{provider: provider, log: log}
}

// Greet handles GET /greet. Weather is best effort: a provider failure only
// drops it from the response.
//
// @Summary      Greet the caller
// @Tags         collaborators
// @Produce      json
// @Security     BearerAuth
// @Param        city  query     string  false  "City for the weather line"
// @Success      200   {object}  Response{data=greetingResponse}
// @Failure      401   {object}  Response
// @Router       /greet [get]
func (h *WeatherHandler) Greet(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	resp := greetingResponse{Greeting: "Hi " + principal.Username}

	if city := strings.TrimSpace(c.QueryParam("city")); city != "" {
		snap, err := h.provider.Current(c.Request().Context(), city)
		if err != nil {
			h.log.Warn().Err(err).Str("city", city).Msg("weather lookup failed, greeting without it")
		} else {
			resp.Weather = snap
			resp.Greeting = fmt.Sprintf("Hi %s, weather in %s feels like %.0f°C", principal.Username, snap.City, snap.FeelsLikeC)
		}
	}
	return respond(c, http.StatusOK, "greeting", resp)
}

// Current handles GET /weather/:city.
//
// @Summary      Current weather for a city
// @Tags         collaborators
// @Produce      json
// @Security     BearerAuth
// @Param        city  path      string  true  "City"
// @Success      200   {object}  Response{data=domain.WeatherSnapshot}
// @Failure      401   {object}  Response
// @Failure      502   {object}  Response
// @Failure      503   {object}  Response
// @Router       /weather/{city} [get]
func (h *WeatherHandler) Current(c echo.Context) error {
	city := strings.TrimSpace(c.Param("city"))
	if city == "" {
		return fmt.Errorf("%w: city is required", domain.ErrValidation)
	}

	snap, err := h.provider.Current(c.Request().Context(), city)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "weather fetched", snap)
}
