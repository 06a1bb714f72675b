package resource

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/imobix/imobix/internal/auth"
	"github.com/imobix/imobix/internal/platform/httpx"
)

type echo struct {
	calls int
	err   error
}

func (e *echo) Handle(ctx context.Context, p auth.Principal, in string) (map[string]string, error) {
	e.calls++
	if e.err != nil {
		return nil, e.err
	}
	return map[string]string{"in": in, "role": string(p.Role)}, nil
}

func decodeQuery(r *http.Request) (string, error) {
	v := r.URL.Query().Get("q")
	if v == "" {
		return "", httpx.Validation("q obrigatório")
	}
	return v, nil
}

func withPrincipal(r *http.Request) *http.Request {
	return r.WithContext(auth.ContextWithPrincipal(r.Context(), auth.Principal{ID: 1, Role: auth.RoleAdmin, Status: auth.StatusActive}))
}

func TestEndpointWithoutPrincipal(t *testing.T) {
	h := &echo{}
	rr := httptest.NewRecorder()
	Endpoint[string, map[string]string](nil, decodeQuery, h, http.StatusOK).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/?q=x", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Zero(t, h.calls)
}

func TestEndpointDecodeFailure(t *testing.T) {
	h := &echo{}
	rr := httptest.NewRecorder()
	Endpoint[string, map[string]string](nil, decodeQuery, h, http.StatusOK).ServeHTTP(rr, withPrincipal(httptest.NewRequest(http.MethodGet, "/", nil)))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"error":"q obrigatório"}`, rr.Body.String())
	assert.Zero(t, h.calls)
}

func TestEndpointSuccess(t *testing.T) {
	h := &echo{}
	rr := httptest.NewRecorder()
	Endpoint[string, map[string]string](nil, decodeQuery, h, http.StatusCreated).ServeHTTP(rr, withPrincipal(httptest.NewRequest(http.MethodGet, "/?q=x", nil)))
	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.JSONEq(t, `{"in":"x","role":"admin"}`, rr.Body.String())
}

func TestEndpointStoreFailure(t *testing.T) {
	h := &echo{err: errors.New("connection reset by peer")}
	rr := httptest.NewRecorder()
	Endpoint[string, map[string]string](nil, decodeQuery, h, http.StatusOK).ServeHTTP(rr, withPrincipal(httptest.NewRequest(http.MethodGet, "/?q=x", nil)))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"error":"Erro interno do servidor"}`, rr.Body.String())
}

func TestFuncAdapter(t *testing.T) {
	f := Func[NoInput, int](func(ctx context.Context, p auth.Principal, _ NoInput) (int, error) {
		return int(p.ID), nil
	})
	rr := httptest.NewRecorder()
	Endpoint[NoInput, int](nil, DecodeNone, f, http.StatusOK).ServeHTTP(rr, withPrincipal(httptest.NewRequest(http.MethodGet, "/", nil)))
	assert.Equal(t, "1\n", rr.Body.String())
}
