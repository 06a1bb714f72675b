// Package rbac authorizes principals by role and account status.
package rbac

import (
	"log/slog"
	"net/http"

	"github.com/imobix/imobix/internal/auth"
	"github.com/imobix/imobix/internal/platform/httpx"
)

// MsgSuspended is returned to principals whose account is not active.
const MsgSuspended = "Conta suspensa"

// Middleware wires role checks for HTTP handlers. It must run after auth.Guard.Require.
type Middleware struct {
	Logger *slog.Logger
}

// RequireRole admits active principals holding one of roles.
func (m Middleware) RequireRole(roles ...auth.Role) func(http.Handler) http.Handler {
	allowed := make(map[auth.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := auth.PrincipalFromContext(r.Context())
			if !ok {
				httpx.Error(w, http.StatusUnauthorized, httpx.MsgUnauthorized)
				return
			}
			if !principal.Active() {
				httpx.Error(w, http.StatusForbidden, MsgSuspended)
				return
			}
			if _, ok := allowed[principal.Role]; !ok {
				if m.Logger != nil {
					m.Logger.Warn("role denied",
						slog.Int64("user_id", principal.ID),
						slog.String("role", string(principal.Role)),
						slog.String("path", r.URL.Path))
				}
				httpx.Error(w, http.StatusForbidden, httpx.MsgForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// SameAgency reports whether the principal may act on records of agencyID.
// Admins act across agencies.
func SameAgency(p auth.Principal, agencyID *int64) bool {
	if p.Role == auth.RoleAdmin {
		return true
	}
	if p.AgencyID == nil || agencyID == nil {
		return false
	}
	return *p.AgencyID == *agencyID
}
