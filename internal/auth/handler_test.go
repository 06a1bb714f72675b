package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imobix/imobix/internal/shared"
)

type handlerFixture struct {
	router   http.Handler
	sessions *shared.SessionManager
	users    *stubUsers
	revs     *RedisRevocations
	redis    *miniredis.Miniredis
}

func newHandlerFixture(t *testing.T, users ...User) *handlerFixture {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	sessions := shared.NewSessionManager(client, "test_session", time.Hour, false)
	store := newStubUsers(users...)
	issuer := newTestIssuer(t, time.Now)
	revs := NewRedisRevocations(client)
	guard := NewGuard(discardLogger(),
		BearerProvider{Tokens: issuer, Users: store, Revocations: revs},
		CookieProvider{Users: store},
	)
	h := NewHandler(HandlerDeps{
		Logger:      discardLogger(),
		Service:     NewService(store),
		Sessions:    sessions,
		CSRF:        shared.NewCSRFManager("csrfsecret"),
		Tokens:      issuer,
		Revocations: revs,
		Guard:       guard,
	})

	r := chi.NewRouter()
	r.Use(sessions.Middleware(discardLogger()))
	r.Route("/api/auth", h.MountRoutes)
	return &handlerFixture{router: r, sessions: sessions, users: store, revs: revs, redis: mr}
}

func (f *handlerFixture) do(req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)
	return rr
}

func loginRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func activeAdmin() User {
	return User{ID: 1, Name: "Admin", Email: "admin@imobix.test", PasswordHash: HashPassword("supersecret"), Role: RoleAdmin, Status: StatusActive}
}

func TestLoginSuccessIssuesTokenAndSession(t *testing.T) {
	f := newHandlerFixture(t, activeAdmin())

	rr := f.do(loginRequest(`{"email":"ADMIN@imobix.test","password":"supersecret"}`))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var body loginResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	assert.NotEmpty(t, body.Token)
	assert.Equal(t, "/admin", body.Dashboard)
	assert.Equal(t, RoleAdmin, body.User.Role)

	cookies := rr.Result().Cookies()
	require.NotEmpty(t, cookies)

	me := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	me.AddCookie(cookies[0])
	meRes := f.do(me)
	assert.Equal(t, http.StatusOK, meRes.Code)
	assert.Contains(t, meRes.Body.String(), `"dashboard":"/admin"`)

	bearer := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	bearer.Header.Set("Authorization", "Bearer "+body.Token)
	assert.Equal(t, http.StatusOK, f.do(bearer).Code)
}

func TestLoginInvalidCredentials(t *testing.T) {
	f := newHandlerFixture(t, activeAdmin())

	rr := f.do(loginRequest(`{"email":"admin@imobix.test","password":"wrongpass"}`))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.JSONEq(t, `{"error":"Email ou senha inválidos"}`, rr.Body.String())
}

func TestLoginSuspendedAccount(t *testing.T) {
	user := activeAdmin()
	user.Status = StatusSuspended
	f := newHandlerFixture(t, user)

	rr := f.do(loginRequest(`{"email":"admin@imobix.test","password":"supersecret"}`))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestLoginValidation(t *testing.T) {
	f := newHandlerFixture(t, activeAdmin())

	rr := f.do(loginRequest(`{"email":"not-an-email","password":"x"}`))
	require.Equal(t, http.StatusBadRequest, rr.Code)
	var body struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	assert.Equal(t, "email", body.Fields["Email"])
	assert.Equal(t, "min", body.Fields["Password"])
	assert.Zero(t, f.users.byEmail)
}

func TestMeRequiresSession(t *testing.T) {
	f := newHandlerFixture(t, activeAdmin())
	rr := f.do(httptest.NewRequest(http.MethodGet, "/api/auth/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Zero(t, f.users.byID)
}

func TestLogoutRevokesTokenAndSession(t *testing.T) {
	f := newHandlerFixture(t, activeAdmin())
	login := f.do(loginRequest(`{"email":"admin@imobix.test","password":"supersecret"}`))
	require.Equal(t, http.StatusOK, login.Code)
	var body loginResponse
	require.NoError(t, json.NewDecoder(login.Body).Decode(&body))
	cookie := login.Result().Cookies()[0]

	logout := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	logout.Header.Set("Authorization", "Bearer "+body.Token)
	logout.AddCookie(cookie)
	assert.Equal(t, http.StatusNoContent, f.do(logout).Code)

	me := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	me.Header.Set("Authorization", "Bearer "+body.Token)
	assert.Equal(t, http.StatusUnauthorized, f.do(me).Code)

	meCookie := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	meCookie.AddCookie(cookie)
	assert.Equal(t, http.StatusUnauthorized, f.do(meCookie).Code)
}

func TestCSRFEndpointReturnsToken(t *testing.T) {
	f := newHandlerFixture(t)
	rr := f.do(httptest.NewRequest(http.MethodGet, "/api/auth/csrf", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "csrfToken")
	assert.NotEmpty(t, rr.Result().Cookies())
}
