package slots

import (
	"testing"
	"time"

	"github.com/ethbeacon/attpool/consensus-types/primitives"
	"github.com/stretchr/testify/require"
)

var _ Ticker = (*SlotTicker)(nil)

func newTestTicker() *SlotTicker {
	return &SlotTicker{
		c:    make(chan primitives.Slot),
		done: make(chan struct{}),
	}
}

func TestSlotTicker(t *testing.T) {
	ticker := newTestTicker()
	defer ticker.Done()

	since := func(time.Time) time.Duration { return 1 * time.Second }
	until := func(time.Time) time.Duration { return 7 * time.Second }
	// Buffered to prevent a deadlock since the ticker goroutine reads from it.
	tick := make(chan time.Time, 2)
	after := func(time.Duration) <-chan time.Time { return tick }

	genesisTime := time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC)
	ticker.start(genesisTime, 8, since, until, after)

	for want := primitives.Slot(0); want < 3; want++ {
		tick <- time.Now()
		require.Equal(t, want, <-ticker.C())
	}
}

func TestSlotTicker_StartsMidChain(t *testing.T) {
	ticker := newTestTicker()
	defer ticker.Done()

	since := func(time.Time) time.Duration { return 20 * time.Second }
	until := func(time.Time) time.Duration { return 4 * time.Second }
	tick := make(chan time.Time, 1)
	after := func(time.Duration) <-chan time.Time { return tick }

	ticker.start(time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC), 8, since, until, after)

	tick <- time.Now()
	require.Equal(t, primitives.Slot(3), <-ticker.C())
}

func TestSlotTicker_BeforeGenesis(t *testing.T) {
	ticker := newTestTicker()
	defer ticker.Done()

	since := func(time.Time) time.Duration { return -1 * time.Second }
	until := func(time.Time) time.Duration { return 1 * time.Second }
	tick := make(chan time.Time, 2)
	after := func(time.Duration) <-chan time.Time { return tick }

	ticker.start(time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC), 8, since, until, after)

	tick <- time.Now()
	require.Equal(t, primitives.Slot(0), <-ticker.C())
	tick <- time.Now()
	require.Equal(t, primitives.Slot(1), <-ticker.C())
}

func TestNewSlotTicker_ZeroGenesisPanics(t *testing.T) {
	require.Panics(t, func() {
		NewSlotTicker(time.Time{}, 12)
	})
}
