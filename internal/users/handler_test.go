package users

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imobix/imobix/internal/auth"
)

func newRouter(repo Repository, principal auth.Principal) http.Handler {
	h := NewHandler(discardLogger(), NewService(repo, discardLogger()))
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(auth.ContextWithPrincipal(req.Context(), principal)))
		})
	})
	r.Route("/api/admin/users", h.MountRoutes)
	return r
}

func serve(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHandlerListByRole(t *testing.T) {
	rr := serve(newRouter(seeded(), admin), http.MethodGet, "/api/admin/users?role=client", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"Cliente A"`)
	assert.NotContains(t, rr.Body.String(), "password")

	rr = serve(newRouter(seeded(), admin), http.MethodGet, "/api/admin/users?role=root", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"error":"Perfil inválido"}`, rr.Body.String())
}

func TestHandlerCreate(t *testing.T) {
	router := newRouter(seeded(), admin)

	rr := serve(router, http.MethodPost, "/api/admin/users", `{"name":"Maria","email":"maria@imobix.test","password":"segredo123","role":"client","agencyId":10}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.Contains(t, rr.Body.String(), `"email":"maria@imobix.test"`)

	rr = serve(router, http.MethodPost, "/api/admin/users", `{"name":"Maria","email":"maria@imobix.test","password":"segredo123","role":"client","agencyId":10}`)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.JSONEq(t, `{"error":"Email já cadastrado"}`, rr.Body.String())

	rr = serve(router, http.MethodPost, "/api/admin/users", `{"name":"","email":"nope","password":"123"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"error":"Campos inválidos: email, name, password"}`, rr.Body.String())
}

func TestHandlerSetStatus(t *testing.T) {
	router := newRouter(seeded(), admin)

	rr := serve(router, http.MethodPatch, "/api/admin/users/3/status", `{"status":"suspended"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"status":"suspended"`)

	rr = serve(router, http.MethodPatch, "/api/admin/users/3/status", `{"status":"pending"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = serve(router, http.MethodPatch, "/api/admin/users/abc/status", `{"status":"active"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"error":"Identificador inválido"}`, rr.Body.String())
}
