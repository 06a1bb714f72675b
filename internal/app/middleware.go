package app

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/unrolled/secure"

	"github.com/imobix/imobix/internal/auth"
	"github.com/imobix/imobix/internal/observability"
	"github.com/imobix/imobix/internal/platform/httpx"
	"github.com/imobix/imobix/internal/shared"
)

// MsgCSRF is returned when a cookie-authenticated write lacks a valid token.
const MsgCSRF = "Token CSRF inválido"

// MsgRateLimited is returned once a client exceeds the per-IP limit.
const MsgRateLimited = "Muitas requisições, tente novamente em instantes"

// MiddlewareConfig aggregates dependencies shared by the middleware stack.
type MiddlewareConfig struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *shared.SessionManager
	CSRFManager    *shared.CSRFManager
	Metrics        *observability.Metrics
}

// MiddlewareStack installs the middleware chain.
func MiddlewareStack(cfg MiddlewareConfig) []func(http.Handler) http.Handler {
	secureMiddleware := secure.New(secure.Options{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: "default-src 'none'; img-src 'self'; frame-ancestors 'none'",
		SSLRedirect:           cfg.Config.IsProduction(),
		SSLProxyHeaders:       map[string]string{"X-Forwarded-Proto": "https"},
		IsDevelopment:         !cfg.Config.IsProduction(),
	})

	timeout := 30 * time.Second
	if cfg.Config != nil && cfg.Config.AppRequestTimeout > 0 {
		timeout = cfg.Config.AppRequestTimeout
	}
	limit := 120
	if cfg.Config != nil && cfg.Config.RateLimitPerMin > 0 {
		limit = cfg.Config.RateLimitPerMin
	}

	middlewares := []func(http.Handler) http.Handler{
		middleware.RealIP,
		middleware.RequestID,
		AccessLog(cfg.Logger),
		cfg.SessionManager.Middleware(cfg.Logger),
		middleware.Recoverer,
		middleware.Timeout(timeout),
		func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if err := secureMiddleware.Process(w, r); err != nil {
					cfg.Logger.Warn("secure headers blocked request", slog.Any("error", err))
					httpx.Error(w, http.StatusInternalServerError, httpx.MsgInternal)
					return
				}
				next.ServeHTTP(w, r)
			})
		},
		middleware.Compress(5),
		httprate.Limit(limit, time.Minute,
			httprate.WithKeyFuncs(httprate.KeyByIP),
			httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
				httpx.Error(w, http.StatusTooManyRequests, MsgRateLimited)
			})),
		CSRF(cfg.SessionManager, cfg.CSRFManager, cfg.Logger),
	}
	if cfg.Metrics != nil {
		middlewares = append(middlewares, cfg.Metrics.Middleware)
	}
	return middlewares
}

// CSRF verifies the X-CSRF-Token header on unsafe requests that ride on the
// session cookie. Bearer-token requests and requests without the cookie carry
// no ambient credential and pass through.
func CSRF(sessions *shared.SessionManager, csrf *shared.CSRFManager, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
				return
			}
			if _, ok := auth.BearerToken(r); ok {
				next.ServeHTTP(w, r)
				return
			}
			if _, err := r.Cookie(sessions.CookieName()); err != nil {
				next.ServeHTTP(w, r)
				return
			}
			if err := csrf.VerifyToken(shared.SessionFromContext(r.Context()), r.Header.Get(shared.CSRFHeader)); err != nil {
				logger.Warn("csrf validation failed", slog.String("path", r.URL.Path), slog.Any("error", err))
				httpx.Error(w, http.StatusForbidden, MsgCSRF)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// AccessLog writes one line per request once the response is done.
func AccessLog(logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			level := slog.LevelInfo
			if status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			logger.LogAttrs(r.Context(), level, "request",
				slog.String("request_id", middleware.GetReqID(r.Context())),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", status),
				slog.Int("bytes", ww.BytesWritten()),
				slog.Duration("duration", time.Since(start)))
		})
	}
}
