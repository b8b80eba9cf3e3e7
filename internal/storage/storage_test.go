// Copyright (c) 2026, Concrete-Go Authors
// SPDX-License-Identifier: BSD-3-Clause

package storage

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func testBackends(t *testing.T) map[string]Storage {
	t.Helper()
	fs, err := NewFileStorage(t.TempDir())
	require.NoError(t, err)
	backends := map[string]Storage{
		"memory": NewMemoryStorage(16),
		"file":   fs,
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		rs, err := NewRedisStorage(RedisConfig{Addr: addr}, "test")
		require.NoError(t, err)
		backends["redis"] = rs
	}
	return backends
}

func TestStorageRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, s := range testBackends(t) {
		t.Run(name, func(t *testing.T) {
			defer s.Close()

			blob := []byte("serialized ciphertext payload")
			handle, err := s.Store(ctx, blob)
			require.NoError(t, err)
			require.Equal(t, ComputeHandle(blob), handle)

			ok, err := s.Exists(ctx, handle)
			require.NoError(t, err)
			require.True(t, ok)

			got, err := s.Load(ctx, handle)
			require.NoError(t, err)
			require.Equal(t, blob, got)

			// Storing the same content again is a dedup no-op.
			again, err := s.Store(ctx, blob)
			require.NoError(t, err)
			require.Equal(t, handle, again)

			require.NoError(t, s.Delete(ctx, handle))
			ok, err = s.Exists(ctx, handle)
			require.NoError(t, err)
			require.False(t, ok)

			_, err = s.Load(ctx, handle)
			require.ErrorIs(t, err, ErrNotFound)
			require.ErrorIs(t, s.Delete(ctx, handle), ErrNotFound)
		})
	}
}

func TestMemoryStorageCapacity(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage(0)
	_, err := s.Store(ctx, []byte("too big for an empty store"))
	require.ErrorIs(t, err, ErrStorageFull)
}

func TestFileStorageInvalidHandle(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStorage(t.TempDir())
	require.NoError(t, err)

	_, err = s.Load(ctx, Handle("short"))
	require.ErrorIs(t, err, ErrInvalidHandle)
	require.ErrorIs(t, s.Delete(ctx, Handle("short")), ErrInvalidHandle)
}

func TestComputeHandleDeterministic(t *testing.T) {
	a := ComputeHandle([]byte("payload"))
	b := ComputeHandle([]byte("payload"))
	c := ComputeHandle([]byte("other"))
	require.Equal(t, a, b)
	require.NotEqual(t, a, c)
	require.Len(t, string(a), 64)
}
