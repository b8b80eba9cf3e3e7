// Copyright (c) 2026, Concrete-Go Authors
// SPDX-License-Identifier: BSD-3-Clause

package queue

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRedisQueueRoundTrip(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	q, err := NewRedisQueue(RedisConfig{Addr: addr}, "queue-test")
	require.NoError(t, err)
	defer q.Close()

	ctx := context.Background()
	job := &Job{
		ID:        "job-1",
		Op:        OpAddPadding,
		LHSHandle: "aaaa",
		RHSHandle: "bbbb",
	}
	require.NoError(t, q.Push(ctx, job))
	require.Equal(t, StatusPending, job.Status)

	popped, err := q.Pop(ctx)
	require.NoError(t, err)
	require.Equal(t, job.ID, popped.ID)
	require.Equal(t, OpAddPadding, popped.Op)

	popped.Status = StatusCompleted
	popped.ResultHandle = "cccc"
	require.NoError(t, q.Update(ctx, popped))

	got, err := q.Get(ctx, job.ID)
	require.NoError(t, err)
	require.Equal(t, StatusCompleted, got.Status)
	require.Equal(t, "cccc", got.ResultHandle)

	_, err = q.Get(ctx, "missing")
	require.ErrorIs(t, err, ErrJobNotFound)
}
