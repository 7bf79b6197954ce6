package async_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ethbeacon/attpool/async"
	"github.com/stretchr/testify/require"
)

func TestRunEvery_RunsUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var calls int32
	async.RunEvery(ctx, 20*time.Millisecond, func() {
		atomic.AddInt32(&calls, 1)
	})

	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&calls) >= 2
	}, time.Second, 5*time.Millisecond)

	cancel()
	// Let the goroutine observe the cancellation.
	time.Sleep(50 * time.Millisecond)
	last := atomic.LoadInt32(&calls)
	time.Sleep(100 * time.Millisecond)
	require.Equal(t, last, atomic.LoadInt32(&calls), "function ran after cancellation")
}
