package shared

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) (*SessionManager, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewSessionManager(client, "test_session", time.Hour, false), mr
}

func TestSessionRoundTrip(t *testing.T) {
	sm, mr := newTestManager(t)
	ctx := context.Background()

	sess, err := sm.Load(ctx, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.True(t, sess.IsNew())
	sess.SetUser("42")

	rr := httptest.NewRecorder()
	require.NoError(t, sm.Commit(ctx, rr, sess))
	assert.True(t, mr.Exists("session:"+sess.ID))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rr.Result().Cookies() {
		req.AddCookie(c)
	}
	loaded, err := sm.Load(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, loaded.ID)
	assert.Equal(t, "42", loaded.User())
	assert.False(t, loaded.IsNew())
}

func TestUntouchedAnonymousSessionIsNotPersisted(t *testing.T) {
	sm, mr := newTestManager(t)
	ctx := context.Background()

	sess, err := sm.Load(ctx, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	require.NoError(t, sm.Commit(ctx, rr, sess))
	assert.Empty(t, mr.Keys())
	assert.Empty(t, rr.Result().Cookies())
}

func TestUnknownCookieStartsFreshSession(t *testing.T) {
	sm, _ := newTestManager(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: sm.CookieName(), Value: "not-a-uuid"})

	sess, err := sm.Load(context.Background(), req)
	require.NoError(t, err)
	assert.NotEqual(t, "not-a-uuid", sess.ID)
	assert.Empty(t, sess.User())
}

func TestRenewDropsPreviousSession(t *testing.T) {
	sm, mr := newTestManager(t)
	ctx := context.Background()

	sess, err := sm.Load(ctx, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	sess.Set("k", "v")
	require.NoError(t, sm.Commit(ctx, httptest.NewRecorder(), sess))
	oldID := sess.ID

	sm.Renew(sess)
	sess.SetUser("7")
	require.NoError(t, sm.Commit(ctx, httptest.NewRecorder(), sess))

	assert.NotEqual(t, oldID, sess.ID)
	assert.False(t, mr.Exists("session:"+oldID))
	assert.True(t, mr.Exists("session:"+sess.ID))
}

func TestDestroyClearsCookieAndStore(t *testing.T) {
	sm, mr := newTestManager(t)
	ctx := context.Background()

	sess, err := sm.Load(ctx, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	sess.SetUser("1")
	require.NoError(t, sm.Commit(ctx, httptest.NewRecorder(), sess))

	sm.Destroy(sess)
	rr := httptest.NewRecorder()
	require.NoError(t, sm.Commit(ctx, rr, sess))
	assert.False(t, mr.Exists("session:"+sess.ID))
	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)
}

func TestCSRFTokenLifecycle(t *testing.T) {
	sm, _ := newTestManager(t)
	csrf := NewCSRFManager("csrfsecret")
	sess, err := sm.Load(context.Background(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	token, err := csrf.EnsureToken(sess)
	require.NoError(t, err)
	again, err := csrf.EnsureToken(sess)
	require.NoError(t, err)
	assert.Equal(t, token, again)

	assert.NoError(t, csrf.VerifyToken(sess, token))
	assert.ErrorIs(t, csrf.VerifyToken(sess, ""), ErrCSRFTokenMissing)
	assert.ErrorIs(t, csrf.VerifyToken(sess, "forged"), ErrCSRFTokenMismatch)
	assert.ErrorIs(t, csrf.VerifyToken(nil, token), ErrCSRFTokenMissing)
}
