package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/imobix/imobix/internal/platform/httpx"
)

// Guard turns a request into a Principal or rejects it.
type Guard struct {
	providers []Provider
	logger    *slog.Logger
}

// NewGuard consults providers in order. The first provider that finds
// credential material decides the outcome.
func NewGuard(logger *slog.Logger, providers ...Provider) *Guard {
	return &Guard{providers: providers, logger: logger}
}

// Authorize resolves the caller. Missing or invalid sessions yield an error
// wrapping httpx.ErrUnauthorized; other errors come from the user store.
func (g *Guard) Authorize(r *http.Request) (Principal, error) {
	for _, p := range g.providers {
		principal, err := p.Resolve(r.Context(), r)
		if errors.Is(err, ErrNoSession) {
			continue
		}
		return principal, err
	}
	return Principal{}, fmt.Errorf("auth: %w", httpx.ErrUnauthorized)
}

// Require rejects unauthenticated requests before next runs and threads the
// principal through the request context.
func (g *Guard) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, err := g.Authorize(r)
		if err != nil {
			if errors.Is(err, httpx.ErrUnauthorized) {
				if g.logger != nil {
					g.logger.Debug("unauthorized request", slog.String("path", r.URL.Path), slog.Any("error", err))
				}
				httpx.Error(w, http.StatusUnauthorized, httpx.MsgUnauthorized)
				return
			}
			httpx.RespondError(w, g.logger, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithPrincipal(r.Context(), principal)))
	})
}
