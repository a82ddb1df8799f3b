package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fluffle/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUser() types.PublicUser {
	return types.PublicUser{ID: 5, Username: "alice", Email: "alice@example.com"}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "sid", testUser(), time.Minute))

	user, err := store.Load(ctx, "sid")
	require.NoError(t, err)
	assert.Equal(t, testUser(), user)

	require.NoError(t, store.Delete(ctx, "sid"))
	_, err = store.Load(ctx, "sid")
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	current := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return current }

	require.NoError(t, store.Save(ctx, "sid", testUser(), 10*time.Minute))

	current = current.Add(11 * time.Minute)
	_, err := store.Load(ctx, "sid")
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestManagerIssueAndResolve(t *testing.T) {
	manager := NewManager(NewMemoryStore(), "", 0)

	rec := httptest.NewRecorder()
	require.NoError(t, manager.Issue(context.Background(), rec, testUser()))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	cookie := cookies[0]
	assert.Equal(t, DefaultCookieName, cookie.Name)
	assert.NotEmpty(t, cookie.Value)
	assert.True(t, cookie.HttpOnly)

	var got types.PublicUser
	var ok bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = UserFrom(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/whoIsLoggedIn", nil)
	req.AddCookie(cookie)
	manager.Middleware(next).ServeHTTP(httptest.NewRecorder(), req)

	require.True(t, ok)
	assert.Equal(t, testUser(), got)
}

func TestManagerAnonymousWithoutCookie(t *testing.T) {
	manager := NewManager(NewMemoryStore(), "", 0)

	var ok bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok = UserFrom(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/whoIsLoggedIn", nil)
	manager.Middleware(next).ServeHTTP(httptest.NewRecorder(), req)
	assert.False(t, ok)
}

func TestManagerClearIsIdempotent(t *testing.T) {
	manager := NewManager(NewMemoryStore(), "", 0)

	rec := httptest.NewRecorder()
	require.NoError(t, manager.Issue(context.Background(), rec, testUser()))
	cookie := rec.Result().Cookies()[0]

	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	req.AddCookie(cookie)
	clearRec := httptest.NewRecorder()
	manager.Clear(req.Context(), clearRec, req)

	expired := clearRec.Result().Cookies()
	require.Len(t, expired, 1)
	assert.Equal(t, -1, expired[0].MaxAge)

	// clearing again, now without a live session, still succeeds
	manager.Clear(req.Context(), httptest.NewRecorder(), req)

	resolved := httptest.NewRecorder()
	var ok bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok = UserFrom(r.Context())
	})
	manager.Middleware(next).ServeHTTP(resolved, req)
	assert.False(t, ok)
}
