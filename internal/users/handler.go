package users

import (
	"errors"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/imobix/imobix/internal/auth"
	"github.com/imobix/imobix/internal/platform/httpx"
	"github.com/imobix/imobix/internal/resource"
)

// Handler exposes account administration. The same routes serve the admin
// dashboard and the agency client list; the service scopes by principal.
type Handler struct {
	list      http.HandlerFunc
	create    http.HandlerFunc
	setStatus http.HandlerFunc
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	v := validator.New()
	return &Handler{
		list: resource.Endpoint[ListFilter, ListResponse](logger, decodeFilter,
			resource.Func[ListFilter, ListResponse](service.List), http.StatusOK),
		create: resource.Endpoint[CreateInput, Account](logger, decodeCreate(v),
			resource.Func[CreateInput, Account](service.Create), http.StatusCreated),
		setStatus: resource.Endpoint[StatusInput, Account](logger, decodeStatus(v),
			resource.Func[StatusInput, Account](service.SetStatus), http.StatusOK),
	}
}

// MountRoutes registers account routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Patch("/{id}/status", h.setStatus)
}

func decodeFilter(r *http.Request) (ListFilter, error) {
	var f ListFilter
	if raw := strings.TrimSpace(r.URL.Query().Get("role")); raw != "" {
		role := auth.Role(strings.ToLower(raw))
		if !role.Valid() {
			return f, httpx.Validation("Perfil inválido")
		}
		f.Role = role
	}
	if raw := r.URL.Query().Get("agencyId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return f, httpx.Validation("Agência inválida")
		}
		f.AgencyID = &id
	}
	return f, nil
}

func decodeCreate(v *validator.Validate) resource.Decoder[CreateInput] {
	return func(r *http.Request) (CreateInput, error) {
		var in CreateInput
		if err := httpx.DecodeJSON(r, &in); err != nil {
			return in, err
		}
		in.Name = strings.TrimSpace(in.Name)
		in.Email = strings.TrimSpace(in.Email)
		return in, validate(v, in)
	}
}

func decodeStatus(v *validator.Validate) resource.Decoder[StatusInput] {
	return func(r *http.Request) (StatusInput, error) {
		var in StatusInput
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id <= 0 {
			return in, httpx.Validation("Identificador inválido")
		}
		if err := httpx.DecodeJSON(r, &in); err != nil {
			return in, err
		}
		in.ID = id
		return in, validate(v, in)
	}
}

func validate(v *validator.Validate, in any) error {
	err := v.Struct(in)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	names := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		names = append(names, strings.ToLower(fe.Field()))
	}
	sort.Strings(names)
	return httpx.Validation("Campos inválidos: " + strings.Join(names, ", "))
}
