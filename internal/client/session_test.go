package client

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_RegisterThenLogin(t *testing.T) {
	_, srv := newFakeAPI(t)
	store := &MemoryStore{}
	s, err := NewSession(New(srv.URL, store, 5*time.Second, nil), store)
	require.NoError(t, err)
	assert.False(t, s.IsAuthenticated())

	require.NoError(t, s.Register(context.Background(), "alice", "pw1"))
	assert.True(t, s.IsAuthenticated())
	assert.Equal(t, "alice", s.Username())

	token, _ := store.Load()
	assert.NotEmpty(t, token)
}

func TestSession_FailedLoginKeepsState(t *testing.T) {
	_, srv := newFakeAPI(t)
	store := &MemoryStore{}
	s, err := NewSession(New(srv.URL, store, 5*time.Second, nil), store)
	require.NoError(t, err)

	err = s.Login(context.Background(), "ghost", "pw")
	require.Error(t, err)
	assert.False(t, s.IsAuthenticated())

	token, _ := store.Load()
	assert.Empty(t, token)
}

func TestSession_RestoredFromStore(t *testing.T) {
	store := &MemoryStore{}
	require.NoError(t, store.Save("persisted"))

	s, err := NewSession(New("http://unused", store, time.Second, nil), store)
	require.NoError(t, err)
	assert.True(t, s.IsAuthenticated())
}

func TestSession_LogoutRevokesAndClears(t *testing.T) {
	api, srv := newFakeAPI(t)
	store := &MemoryStore{}
	s, err := NewSession(New(srv.URL, store, 5*time.Second, nil), store)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.Register(ctx, "alice", "pw1"))
	token, _ := store.Load()

	require.NoError(t, s.Logout(ctx))
	assert.False(t, s.IsAuthenticated())
	assert.Equal(t, []string{token}, api.loggedOut)

	left, _ := store.Load()
	assert.Empty(t, left)
}

func TestSession_LogoutWhenServerUnreachable(t *testing.T) {
	store := &MemoryStore{}
	require.NoError(t, store.Save("stale"))
	s, err := NewSession(New("http://127.0.0.1:1", store, 200*time.Millisecond, nil), store)
	require.NoError(t, err)

	require.NoError(t, s.Logout(context.Background()))
	assert.False(t, s.IsAuthenticated())
}
