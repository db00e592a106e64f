// Package storetest is a conformance suite for [userstore.Store]
// implementations.  Backend packages call [Run] from their own tests.
package storetest

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hasbyte1/go-saltedhash/userstore"
)

const (
	hashA = "[SHA256]c2FsdHNhbHQ=$3taJYlejaUXdLGWL5oWg/kuFMk0abs81sV3xRBOKEds="
	hashB = "$5$c2FsdHNhbHQ=$3taJYlejaUXdLGWL5oWg/kuFMk0abs81sV3xRBOKEds="
)

// Run exercises every Store operation against stores built by newStore.
// Each subtest gets a fresh, initialised store.
func Run(t *testing.T, newStore func(t *testing.T) userstore.Store) {
	t.Helper()

	fresh := func(t *testing.T) userstore.Store {
		t.Helper()
		s := newStore(t)
		require.NoError(t, s.Init(context.Background()))
		return s
	}

	t.Run("InitIsIdempotent", func(t *testing.T) {
		s := fresh(t)
		require.NoError(t, s.Init(context.Background()))
	})

	t.Run("CreateAndGet", func(t *testing.T) {
		ctx := context.Background()
		s := fresh(t)

		ok, err := s.Create(ctx, "alice", hashA)
		require.NoError(t, err)
		assert.True(t, ok)

		got, found, err := s.GetHash(ctx, "alice")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, hashA, got)
	})

	t.Run("CreateNeverOverwrites", func(t *testing.T) {
		ctx := context.Background()
		s := fresh(t)

		_, err := s.Create(ctx, "alice", hashA)
		require.NoError(t, err)
		ok, err := s.Create(ctx, "alice", hashB)
		require.NoError(t, err)
		assert.False(t, ok)

		got, _, err := s.GetHash(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, hashA, got)
	})

	t.Run("GetMissing", func(t *testing.T) {
		s := fresh(t)
		got, found, err := s.GetHash(context.Background(), "nobody")
		require.NoError(t, err)
		assert.False(t, found)
		assert.Empty(t, got)
	})

	t.Run("Modify", func(t *testing.T) {
		ctx := context.Background()
		s := fresh(t)

		ok, err := s.Modify(ctx, "alice", hashB)
		require.NoError(t, err)
		assert.False(t, ok, "modifying a missing user must not create it")
		_, found, _ := s.GetHash(ctx, "alice")
		assert.False(t, found)

		_, err = s.Create(ctx, "alice", hashA)
		require.NoError(t, err)
		ok, err = s.Modify(ctx, "alice", hashB)
		require.NoError(t, err)
		assert.True(t, ok)

		got, _, err := s.GetHash(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, hashB, got)
	})

	t.Run("Remove", func(t *testing.T) {
		ctx := context.Background()
		s := fresh(t)

		ok, err := s.Remove(ctx, "alice")
		require.NoError(t, err)
		assert.False(t, ok)

		_, err = s.Create(ctx, "alice", hashA)
		require.NoError(t, err)
		ok, err = s.Remove(ctx, "alice")
		require.NoError(t, err)
		assert.True(t, ok)

		_, found, err := s.GetHash(ctx, "alice")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("WipeEverything", func(t *testing.T) {
		ctx := context.Background()
		s := fresh(t)

		for i := 0; i < 5; i++ {
			_, err := s.Create(ctx, fmt.Sprintf("user-%d", i), hashA)
			require.NoError(t, err)
		}
		require.NoError(t, s.WipeEverything(ctx))
		for i := 0; i < 5; i++ {
			_, found, err := s.GetHash(ctx, fmt.Sprintf("user-%d", i))
			require.NoError(t, err)
			assert.False(t, found)
		}
		if c, ok := s.(userstore.Counter); ok {
			n, err := c.UserCount(ctx)
			require.NoError(t, err)
			assert.Zero(t, n)
		}
	})

	t.Run("UserCount", func(t *testing.T) {
		ctx := context.Background()
		s := fresh(t)
		c, ok := s.(userstore.Counter)
		if !ok {
			t.Skip("store does not implement userstore.Counter")
		}
		for _, name := range []string{"a", "b", "c"} {
			_, err := s.Create(ctx, name, hashA)
			require.NoError(t, err)
		}
		_, _ = s.Remove(ctx, "b")
		n, err := c.UserCount(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
	})

	t.Run("InvalidArguments", func(t *testing.T) {
		ctx := context.Background()
		s := fresh(t)

		_, err := s.Create(ctx, "", hashA)
		assert.ErrorIs(t, err, userstore.ErrEmptyName)
		_, err = s.Create(ctx, "alice", "")
		assert.ErrorIs(t, err, userstore.ErrEmptyHash)
		_, err = s.Modify(ctx, "", hashA)
		assert.ErrorIs(t, err, userstore.ErrEmptyName)
		_, _, err = s.GetHash(ctx, "")
		assert.ErrorIs(t, err, userstore.ErrEmptyName)
		_, err = s.Remove(ctx, "")
		assert.ErrorIs(t, err, userstore.ErrEmptyName)
	})

	t.Run("ConcurrentCreate", func(t *testing.T) {
		ctx := context.Background()
		s := fresh(t)

		const goroutines = 16
		var (
			wg   sync.WaitGroup
			mu   sync.Mutex
			wins int
		)
		wg.Add(goroutines)
		for i := 0; i < goroutines; i++ {
			go func() {
				defer wg.Done()
				ok, err := s.Create(ctx, "contended", hashA)
				if err != nil {
					t.Error(err)
					return
				}
				if ok {
					mu.Lock()
					wins++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, 1, wins, "exactly one concurrent Create must win")
	})
}
