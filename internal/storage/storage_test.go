package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()

	_, ok := s.Get(KeyAccessToken)
	assert.False(t, ok)

	require.NoError(t, s.Set(KeyAccessToken, "tok-123"))
	v, ok := s.Get(KeyAccessToken)
	require.True(t, ok)
	assert.Equal(t, "tok-123", v)

	require.NoError(t, s.Delete(KeyAccessToken))
	_, ok = s.Get(KeyAccessToken)
	assert.False(t, ok)

	// Deleting again is a no-op.
	require.NoError(t, s.Delete(KeyAccessToken))
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	s, err := OpenFileStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(KeyRefreshToken, "refresh-abc"))
	require.NoError(t, s.Set(KeyTheme, "dark"))

	// Re-open and verify persistence.
	s2, err := OpenFileStore(path)
	require.NoError(t, err)
	v, ok := s2.Get(KeyRefreshToken)
	require.True(t, ok)
	assert.Equal(t, "refresh-abc", v)
	v, ok = s2.Get(KeyTheme)
	require.True(t, ok)
	assert.Equal(t, "dark", v)
}

func TestFileStoreDeletePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	s, err := OpenFileStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(KeyUser, `{"id":"u1"}`))
	require.NoError(t, s.Delete(KeyUser))

	s2, err := OpenFileStore(path)
	require.NoError(t, err)
	_, ok := s2.Get(KeyUser)
	assert.False(t, ok)
}

func TestJSONHelpers(t *testing.T) {
	type profile struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}

	s := NewMemoryStore()
	require.NoError(t, SetJSON(s, KeyUser, profile{ID: "u1", Name: "Ana"}))

	var got profile
	ok, err := GetJSON(s, KeyUser, &got)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Ana", got.Name)

	var missing profile
	ok, err = GetJSON(s, "nope", &missing)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(KeyUser, "{not json"))
	_, err = GetJSON(s, KeyUser, &got)
	assert.Error(t, err)
}
