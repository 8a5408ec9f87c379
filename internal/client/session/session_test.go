package session

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNilSessionIsSignedOut(t *testing.T) {
	var s *Session
	require.False(t, s.Authenticated())
	require.Empty(t, s.Handle())
	require.Empty(t, s.Token())
}

func TestSessionValues(t *testing.T) {
	s := New("w3gef-principal", "tok-123")
	require.True(t, s.Authenticated())
	require.Equal(t, "w3gef-principal", s.Handle())
	require.Equal(t, "tok-123", s.Token())
}

func TestSignOutIsReplacementNotMutation(t *testing.T) {
	active := New("alice", "t1")
	held := active

	// sign-out replaces the pointer; holders of the old session still see it
	var current *Session
	require.False(t, current.Authenticated())
	require.True(t, held.Authenticated())
}
