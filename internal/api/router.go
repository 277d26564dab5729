package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	_ "github.com/ms19/journal-system/docs"
	"github.com/ms19/journal-system/internal/api/handler"
	"github.com/ms19/journal-system/internal/api/middleware"
	"github.com/ms19/journal-system/internal/core/domain"
	"github.com/ms19/journal-system/internal/core/ports"
)

// Handlers groups the HTTP handlers the router mounts.
type Handlers struct {
	Entries *handler.EntryHandler
	Users   *handler.UserHandler
	Auth    *handler.AuthHandler
	Admin   *handler.AdminHandler
	Weather *handler.WeatherHandler
	Chat    *handler.ChatHandler
	Health  *handler.HealthHandler
}

type RouterConfig struct {
	Verifier        ports.CredentialVerifier
	LoginRatePerSec float64
	Logger          zerolog.Logger
	// MetricsRegisterer defaults to prometheus.DefaultRegisterer.
	MetricsRegisterer prometheus.Registerer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg RouterConfig, h Handlers) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(cfg.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(cfg.Logger))
	e.Use(echomiddleware.BodyLimit("1M"))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "journal",
		Registerer: cfg.MetricsRegisterer,
	}))

	auth := middleware.Auth(cfg.Verifier)
	adminOnly := middleware.RequireRole(domain.RoleAdmin)

	// --- Public ---
	e.POST("/users", h.Users.Register)
	e.POST("/auth/login", h.Auth.Login, loginRateLimiter(cfg.LoginRatePerSec))
	e.GET("/oauth2/login", h.Auth.OAuthLogin)
	e.GET("/oauth2/callback", h.Auth.OAuthCallback)

	// --- Principal-scoped ---
	entries := e.Group("/entries", auth)
	entries.POST("", h.Entries.Create)
	entries.GET("", h.Entries.List)
	entries.GET("/:id", h.Entries.Get)
	entries.PUT("/:id", h.Entries.Update)
	entries.DELETE("/:id", h.Entries.Delete)

	me := e.Group("/users/me", auth)
	me.GET("", h.Users.Me)
	me.PUT("", h.Users.UpdateMe)
	me.DELETE("", h.Users.DeleteMe)

	e.POST("/auth/logout", h.Auth.Logout, auth)
	e.GET("/greet", h.Weather.Greet, auth)
	e.GET("/weather/:city", h.Weather.Current, auth)
	e.POST("/ai/chat", h.Chat.Chat, auth)

	// --- Admin ---
	admin := e.Group("/admin", auth, adminOnly)
	admin.GET("/users", h.Admin.ListUsers)
	admin.POST("/users", h.Admin.CreateAdmin)
	admin.GET("/entries/:id", h.Admin.GetEntry)
	admin.POST("/mail", h.Admin.SendMail)

	// --- Ops (no auth required) ---
	e.GET("/health", h.Health.Liveness)
	e.GET("/health/ready", h.Health.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			var ev *zerolog.Event
			switch {
			case v.Status >= 500:
				ev = log.Error().Err(v.Error)
			case v.Status >= 400:
				ev = log.Warn()
			default:
				ev = log.Info()
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}

// loginRateLimiter throttles login attempts per client IP.
func loginRateLimiter(perSec float64) echo.MiddlewareFunc {
	burst := int(perSec)
	if burst < 1 {
		burst = 1
	}
	return echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
		Store: echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(perSec),
			Burst:     burst,
			ExpiresIn: 3 * time.Minute,
		}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
	})
}
