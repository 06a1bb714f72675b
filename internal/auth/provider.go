package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/imobix/imobix/internal/platform/httpx"
	"github.com/imobix/imobix/internal/shared"
)

// ErrNoSession means the request carries no credential material for a provider.
var ErrNoSession = errors.New("auth: no session")

// Provider resolves the caller of a request.
// It returns ErrNoSession when the request has nothing for it to inspect and an
// error wrapping httpx.ErrUnauthorized when the material is present but invalid.
type Provider interface {
	Resolve(ctx context.Context, r *http.Request) (Principal, error)
}

// UserLookup loads accounts by ID.
type UserLookup interface {
	FindByID(ctx context.Context, id int64) (User, error)
}

// CookieProvider resolves principals from Redis-backed cookie sessions.
type CookieProvider struct {
	Users UserLookup
}

// Resolve reads the session placed in context by the session middleware.
func (p CookieProvider) Resolve(ctx context.Context, r *http.Request) (Principal, error) {
	sess := shared.SessionFromContext(ctx)
	if sess == nil || strings.TrimSpace(sess.User()) == "" {
		return Principal{}, ErrNoSession
	}
	id, err := strconv.ParseInt(sess.User(), 10, 64)
	if err != nil || id <= 0 {
		return Principal{}, fmt.Errorf("auth: session user %q: %w", sess.User(), httpx.ErrUnauthorized)
	}
	return lookupPrincipal(ctx, p.Users, id)
}

// BearerProvider resolves principals from signed bearer tokens.
type BearerProvider struct {
	Tokens      *TokenIssuer
	Revocations Revocations
	Users       UserLookup
}

// Resolve validates the Authorization header.
func (p BearerProvider) Resolve(ctx context.Context, r *http.Request) (Principal, error) {
	raw, ok := BearerToken(r)
	if !ok {
		return Principal{}, ErrNoSession
	}
	claims, err := p.Tokens.Parse(raw)
	if err != nil {
		return Principal{}, fmt.Errorf("%w: %w", httpx.ErrUnauthorized, err)
	}
	if p.Revocations != nil {
		revoked, err := p.Revocations.IsRevoked(ctx, claims.ID)
		if err != nil {
			return Principal{}, fmt.Errorf("auth: revocation lookup: %w", err)
		}
		if revoked {
			return Principal{}, fmt.Errorf("auth: token revoked: %w", httpx.ErrUnauthorized)
		}
	}
	return lookupPrincipal(ctx, p.Users, claims.UserID)
}

// BearerToken extracts the token from an Authorization header. A header
// present with any other scheme still counts as credential material.
func BearerToken(r *http.Request) (string, bool) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return "", false
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", true
	}
	return strings.TrimSpace(token), true
}

func lookupPrincipal(ctx context.Context, users UserLookup, id int64) (Principal, error) {
	user, err := users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			return Principal{}, fmt.Errorf("auth: user %d gone: %w", id, httpx.ErrUnauthorized)
		}
		return Principal{}, fmt.Errorf("auth: load user %d: %w", id, err)
	}
	return user.Principal(), nil
}
