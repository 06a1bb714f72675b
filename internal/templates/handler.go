package templates

import (
	"errors"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/imobix/imobix/internal/platform/httpx"
	"github.com/imobix/imobix/internal/resource"
)

// Handler exposes the templates resource over HTTP. Routes expect an
// authenticated principal in context.
type Handler struct {
	list      http.HandlerFunc
	create    http.HandlerFunc
	setActive http.HandlerFunc
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	v := validator.New()
	return &Handler{
		list: resource.Endpoint[resource.NoInput, ListResponse](logger, resource.DecodeNone,
			resource.Func[resource.NoInput, ListResponse](service.ListActive), http.StatusOK),
		create: resource.Endpoint[CreateInput, Template](logger, decodeCreate(v),
			resource.Func[CreateInput, Template](service.Create), http.StatusCreated),
		setActive: resource.Endpoint[SetActiveInput, Template](logger, decodeSetActive(v),
			resource.Func[SetActiveInput, Template](service.SetActive), http.StatusOK),
	}
}

// MountAdminRoutes registers the admin routes.
func (h *Handler) MountAdminRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Patch("/{id}/active", h.setActive)
}

// MountReadRoutes registers the listing only.
func (h *Handler) MountReadRoutes(r chi.Router) {
	r.Get("/", h.list)
}

func decodeCreate(v *validator.Validate) resource.Decoder[CreateInput] {
	return func(r *http.Request) (CreateInput, error) {
		var in CreateInput
		if err := httpx.DecodeJSON(r, &in); err != nil {
			return in, err
		}
		in.Name = strings.TrimSpace(in.Name)
		if err := validate(v, in); err != nil {
			return in, err
		}
		return in, nil
	}
}

func decodeSetActive(v *validator.Validate) resource.Decoder[SetActiveInput] {
	return func(r *http.Request) (SetActiveInput, error) {
		var in SetActiveInput
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id <= 0 {
			return in, httpx.Validation("Identificador inválido")
		}
		if err := httpx.DecodeJSON(r, &in); err != nil {
			return in, err
		}
		in.ID = id
		if err := validate(v, in); err != nil {
			return in, err
		}
		return in, nil
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
