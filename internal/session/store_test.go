package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStore_TouchExtendsSession(t *testing.T) {
	now := time.Now()
	s := NewStore(30 * time.Minute)
	s.now = func() time.Time { return now }

	sess := s.Create(1, "alice", "user")

	now = now.Add(20 * time.Minute)
	got, ok := s.Touch(sess.ID)
	require.True(t, ok)
	require.Equal(t, "alice", got.Username)

	// 20 more minutes would have exceeded the original deadline, but the
	// touch above reset it
	now = now.Add(20 * time.Minute)
	_, ok = s.Touch(sess.ID)
	require.True(t, ok)
}

func TestStore_IdleTimeout(t *testing.T) {
	now := time.Now()
	s := NewStore(30 * time.Minute)
	s.now = func() time.Time { return now }

	sess := s.Create(1, "alice", "user")

	now = now.Add(31 * time.Minute)
	_, ok := s.Touch(sess.ID)
	require.False(t, ok)

	// the expired session is gone even if time rolls back
	now = now.Add(-31 * time.Minute)
	_, ok = s.Touch(sess.ID)
	require.False(t, ok)
}

func TestStore_DeleteRevokes(t *testing.T) {
	s := NewStore(30 * time.Minute)
	sess := s.Create(2, "bob", "admin")

	s.Delete(sess.ID)
	_, ok := s.Touch(sess.ID)
	require.False(t, ok)
}

func TestStore_Sweep(t *testing.T) {
	now := time.Now()
	s := NewStore(time.Minute)
	s.now = func() time.Time { return now }

	stale := s.Create(1, "alice", "user")
	now = now.Add(2 * time.Minute)
	fresh := s.Create(2, "bob", "user")

	s.Sweep()

	_, ok := s.Touch(stale.ID)
	require.False(t, ok)
	_, ok = s.Touch(fresh.ID)
	require.True(t, ok)
}
