package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolRunsJobs(t *testing.T) {
	p := NewPool("test", 4, nil)
	var ran atomic.Int32
	done := make(chan struct{}, 3)
	for i := 0; i < 3; i++ {
		require.NoError(t, p.Submit(context.Background(), func(context.Context) {
			ran.Add(1)
			done <- struct{}{}
		}))
	}
	for i := 0; i < 3; i++ {
		<-done
	}
	assert.Equal(t, int32(3), ran.Load())
	require.NoError(t, p.Stop(context.Background()))
}

func TestPoolCapacity(t *testing.T) {
	p := NewPool("test", 1, nil)
	release := make(chan struct{})
	require.NoError(t, p.Submit(context.Background(), func(context.Context) { <-release }))

	assert.ErrorIs(t, p.Submit(context.Background(), func(context.Context) {}), ErrPoolFull)
	close(release)
	require.NoError(t, p.Stop(context.Background()))
}

func TestPoolStopCancelsJobs(t *testing.T) {
	p := NewPool("test", 2, nil)
	cancelled := make(chan struct{})
	require.NoError(t, p.Submit(context.Background(), func(ctx context.Context) {
		<-ctx.Done()
		close(cancelled)
	}))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, p.Stop(ctx))

	select {
	case <-cancelled:
	default:
		t.Fatal("job was not cancelled")
	}
	assert.ErrorIs(t, p.Submit(context.Background(), func(context.Context) {}), ErrPoolClosed)
}

func TestPoolParentCancel(t *testing.T) {
	p := NewPool("test", 2, nil)
	parent, cancel := context.WithCancel(context.Background())
	finished := make(chan error, 1)
	require.NoError(t, p.Submit(parent, func(ctx context.Context) {
		<-ctx.Done()
		finished <- ctx.Err()
	}))
	cancel()
	assert.ErrorIs(t, <-finished, context.Canceled)
	require.NoError(t, p.Stop(context.Background()))
}

func TestPoolRecoversPanics(t *testing.T) {
	p := NewPool("test", 1, nil)
	require.NoError(t, p.Submit(context.Background(), func(context.Context) { panic("boom") }))
	require.NoError(t, p.Stop(context.Background()))
}
