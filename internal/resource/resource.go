// Package resource adapts single-purpose resource operations to HTTP.
package resource

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/imobix/imobix/internal/auth"
	"github.com/imobix/imobix/internal/platform/httpx"
)

// Handler performs one read or write on behalf of an already authorized principal.
type Handler[In, Out any] interface {
	Handle(ctx context.Context, principal auth.Principal, in In) (Out, error)
}

// Func adapts a function to Handler.
type Func[In, Out any] func(ctx context.Context, principal auth.Principal, in In) (Out, error)

// Handle calls f.
func (f Func[In, Out]) Handle(ctx context.Context, principal auth.Principal, in In) (Out, error) {
	return f(ctx, principal, in)
}

// Decoder builds the handler input from the request. Returned errors should
// wrap httpx.ErrValidation.
type Decoder[In any] func(r *http.Request) (In, error)

// NoInput is the input of operations that take no parameters.
type NoInput struct{}

// DecodeNone is the Decoder for NoInput.
func DecodeNone(*http.Request) (NoInput, error) { return NoInput{}, nil }

// Endpoint serves h: principal check, decode, handle, respond with status.
func Endpoint[In, Out any](logger *slog.Logger, decode Decoder[In], h Handler[In, Out], status int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := auth.PrincipalFromContext(r.Context())
		if !ok {
			httpx.Error(w, http.StatusUnauthorized, httpx.MsgUnauthorized)
			return
		}
		in, err := decode(r)
		if err != nil {
			httpx.RespondError(w, logger, err)
			return
		}
		out, err := h.Handle(r.Context(), principal, in)
		if err != nil {
			httpx.RespondError(w, logger, err)
			return
		}
		httpx.JSON(w, status, out)
	}
}
