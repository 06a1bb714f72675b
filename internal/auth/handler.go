package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/imobix/imobix/internal/platform/httpx"
	"github.com/imobix/imobix/internal/shared"
)

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger      *slog.Logger
	service     *Service
	sessions    *shared.SessionManager
	csrf        *shared.CSRFManager
	tokens      *TokenIssuer
	revocations Revocations
	guard       *Guard
	validator   *validator.Validate
}

// HandlerDeps groups Handler collaborators.
type HandlerDeps struct {
	Logger      *slog.Logger
	Service     *Service
	Sessions    *shared.SessionManager
	CSRF        *shared.CSRFManager
	Tokens      *TokenIssuer
	Revocations Revocations
	Guard       *Guard
}

// NewHandler constructs a Handler instance.
func NewHandler(deps HandlerDeps) *Handler {
	return &Handler{
		logger:      deps.Logger,
		service:     deps.Service,
		sessions:    deps.Sessions,
		csrf:        deps.CSRF,
		tokens:      deps.Tokens,
		revocations: deps.Revocations,
		guard:       deps.Guard,
		validator:   validator.New(),
	}
}

// MountRoutes registers auth routes on provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/csrf", h.csrfToken)
	r.Post("/login", h.login)
	r.Post("/logout", h.logout)
	r.With(h.guard.Require).Get("/me", h.me)
}

type loginForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      Principal `json:"user"`
	Dashboard string    `json:"dashboard"`
}

type meResponse struct {
	User      Principal `json:"user"`
	Dashboard string    `json:"dashboard"`
}

func (h *Handler) csrfToken(w http.ResponseWriter, r *http.Request) {
	token, err := h.csrf.EnsureToken(shared.SessionFromContext(r.Context()))
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"csrfToken": token})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var form loginForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	if err := h.validator.Struct(form); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			fields := make(map[string]string, len(fieldErrs))
			for _, fe := range fieldErrs {
				fields[fe.Field()] = fe.Tag()
			}
			httpx.FieldErrors(w, "Dados de acesso inválidos", fields)
			return
		}
		httpx.RespondError(w, h.logger, err)
		return
	}

	user, err := h.service.Authenticate(r.Context(), form.Email, form.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			httpx.Error(w, http.StatusUnauthorized, "Email ou senha inválidos")
			return
		}
		httpx.RespondError(w, h.logger, err)
		return
	}

	principal := user.Principal()
	token, claims, err := h.tokens.Issue(principal)
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		h.sessions.Renew(sess)
		sess.SetUser(strconv.FormatInt(user.ID, 10))
		sess.Delete(shared.CSRFSessionKey)
	} else {
		h.logger.Warn("session missing during login")
	}

	h.logger.Info("login", slog.Int64("user_id", user.ID), slog.String("role", string(user.Role)))
	httpx.JSON(w, http.StatusOK, loginResponse{
		Token:     token,
		ExpiresAt: claims.ExpiresAt,
		User:      principal,
		Dashboard: DashboardFor(principal.Role),
	})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if raw, ok := BearerToken(r); ok && raw != "" {
		if claims, err := h.tokens.Parse(raw); err == nil && h.revocations != nil {
			if err := h.revocations.Revoke(r.Context(), claims.ID, claims.ExpiresAt); err != nil {
				h.logger.Warn("revoke token", slog.Any("error", err))
			}
		}
	}
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		h.sessions.Destroy(sess)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, httpx.MsgUnauthorized)
		return
	}
	httpx.JSON(w, http.StatusOK, meResponse{User: principal, Dashboard: DashboardFor(principal.Role)})
}
