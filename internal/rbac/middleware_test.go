package rbac

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/imobix/imobix/internal/auth"
)

func serve(mw func(http.Handler) http.Handler, p *auth.Principal) (*httptest.ResponseRecorder, bool) {
	called := false
	h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))
	req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
	if p != nil {
		req = req.WithContext(auth.ContextWithPrincipal(req.Context(), *p))
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr, called
}

func TestRequireRole(t *testing.T) {
	mw := Middleware{}.RequireRole(auth.RoleAdmin)

	rr, called := serve(mw, nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.False(t, called)

	rr, called = serve(mw, &auth.Principal{ID: 1, Role: auth.RoleAdmin, Status: auth.StatusActive})
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, called)

	rr, called = serve(mw, &auth.Principal{ID: 2, Role: auth.RoleClient, Status: auth.StatusActive})
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.False(t, called)

	rr, called = serve(mw, &auth.Principal{ID: 3, Role: auth.RoleAdmin, Status: auth.StatusSuspended})
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.JSONEq(t, `{"error":"Conta suspensa"}`, rr.Body.String())
	assert.False(t, called)
}

func TestSameAgency(t *testing.T) {
	one, two := int64(1), int64(2)
	assert.True(t, SameAgency(auth.Principal{Role: auth.RoleAdmin}, &two))
	assert.True(t, SameAgency(auth.Principal{Role: auth.RoleAgency, AgencyID: &one}, &one))
	assert.False(t, SameAgency(auth.Principal{Role: auth.RoleAgency, AgencyID: &one}, &two))
	assert.False(t, SameAgency(auth.Principal{Role: auth.RoleClient}, &one))
}
