package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sistema-laudos/laudos-go/internal/models"
	"github.com/sistema-laudos/laudos-go/internal/storage"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u1",
		"exp": exp.Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func TestSetUserAuthenticates(t *testing.T) {
	store := storage.NewMemoryStore()
	s := NewSession(store)

	assert.False(t, s.State().IsAuthenticated)

	user := models.UserProfile{ID: "u1", Name: "Ana", Email: "ana@example.com"}
	require.NoError(t, s.SetUser(user, signedToken(t, time.Now().Add(time.Hour)), "refresh-1"))

	state := s.State()
	assert.True(t, state.IsAuthenticated)
	require.NotNil(t, state.User)
	assert.Equal(t, "Ana", state.User.Name)

	access, _ := store.Get(storage.KeyAccessToken)
	refresh, _ := store.Get(storage.KeyRefreshToken)
	assert.NotEmpty(t, access)
	assert.Equal(t, "refresh-1", refresh)
}

func TestLogoutClearsEverything(t *testing.T) {
	store := storage.NewMemoryStore()
	s := NewSession(store)
	require.NoError(t, s.SetUser(models.UserProfile{ID: "u1"}, signedToken(t, time.Now().Add(time.Hour)), "r"))

	s.Logout()

	state := s.State()
	assert.False(t, state.IsAuthenticated)
	assert.Nil(t, state.User)

	_, hasAccess := store.Get(storage.KeyAccessToken)
	_, hasRefresh := store.Get(storage.KeyRefreshToken)
	_, hasUser := store.Get(storage.KeyUser)
	assert.False(t, hasAccess)
	assert.False(t, hasRefresh)
	assert.False(t, hasUser)
}

func TestRestoreDerivesAuthenticationFromToken(t *testing.T) {
	store := storage.NewMemoryStore()
	s := NewSession(store)
	require.NoError(t, s.SetUser(models.UserProfile{ID: "u1"}, signedToken(t, time.Now().Add(time.Hour)), "r"))

	restored := NewSession(store)
	state := restored.State()
	require.NotNil(t, state.User)
	assert.True(t, state.IsAuthenticated)
}

func TestExpiredTokenIsNotAuthenticated(t *testing.T) {
	store := storage.NewMemoryStore()
	s := NewSession(store)
	require.NoError(t, s.SetUser(models.UserProfile{ID: "u1"}, signedToken(t, time.Now().Add(-time.Minute)), "r"))

	// The persisted blob claimed authenticated at write time, but the flag
	// is derived, so the expired token wins.
	assert.False(t, s.State().IsAuthenticated)

	restored := NewSession(store)
	assert.False(t, restored.State().IsAuthenticated)
}

func TestOpaqueTokenStaysLive(t *testing.T) {
	store := storage.NewMemoryStore()
	s := NewSession(store)
	require.NoError(t, s.SetUser(models.UserProfile{ID: "u1"}, "opaque-token-value", ""))
	assert.True(t, s.State().IsAuthenticated)
}

func TestTransientFieldsAreNotPersisted(t *testing.T) {
	store := storage.NewMemoryStore()
	s := NewSession(store)
	require.NoError(t, s.SetUser(models.UserProfile{ID: "u1"}, signedToken(t, time.Now().Add(time.Hour)), "r"))
	s.SetLoading(true)
	s.SetError("boom")

	restored := NewSession(store)
	state := restored.State()
	assert.False(t, state.IsLoading)
	assert.Empty(t, state.Error)
}

func TestCheckAuthAfterExternalTokenWipe(t *testing.T) {
	store := storage.NewMemoryStore()
	s := NewSession(store)
	require.NoError(t, s.SetUser(models.UserProfile{ID: "u1"}, signedToken(t, time.Now().Add(time.Hour)), "r"))

	// The API client wipes tokens on an unrecoverable 401.
	require.NoError(t, store.Delete(storage.KeyAccessToken))

	assert.False(t, s.CheckAuth())
	assert.Nil(t, s.State().User)
}

func TestSubscribeReceivesTransitions(t *testing.T) {
	store := storage.NewMemoryStore()
	s := NewSession(store)

	var states []State
	unsubscribe := s.Subscribe(func(st State) { states = append(states, st) })

	require.NoError(t, s.SetUser(models.UserProfile{ID: "u1"}, signedToken(t, time.Now().Add(time.Hour)), "r"))
	s.Logout()
	unsubscribe()
	s.SetLoading(true)

	require.Len(t, states, 2)
	assert.True(t, states[0].IsAuthenticated)
	assert.False(t, states[1].IsAuthenticated)
}
