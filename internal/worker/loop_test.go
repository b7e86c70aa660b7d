package worker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vytor/pixelplay/internal/clock"
	"github.com/vytor/pixelplay/internal/logger"
)

func newTestLoop(t *testing.T) (*Loop, *clock.Fake) {
	t.Helper()
	fake := clock.NewFake(time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC))
	l := NewLoop(fake, logger.Discard())
	t.Cleanup(l.Close)
	return l, fake
}

func TestLoopDoRunsSerially(t *testing.T) {
	l, _ := newTestLoop(t)

	counter := 0
	for i := 0; i < 10; i++ {
		require.True(t, l.Do(func() { counter++ }))
	}
	assert.Equal(t, 10, counter)
}

func TestLoopTicksUntilStopped(t *testing.T) {
	l, fake := newTestLoop(t)

	ticks := 0
	l.Do(func() {
		l.StartTicker(time.Second, func(time.Time) { ticks++ })
	})

	fake.Advance(3 * time.Second)
	l.Do(func() {
		assert.Equal(t, 3, ticks)
		l.StopTicker()
	})

	fake.Advance(5 * time.Second)
	l.Do(func() {
		assert.Equal(t, 3, ticks)
		assert.False(t, l.Ticking())
	})
	assert.Equal(t, 0, fake.Tickers())
}

func TestLoopTickHandlerCanStopTicker(t *testing.T) {
	l, fake := newTestLoop(t)

	ticks := 0
	l.Do(func() {
		l.StartTicker(time.Second, func(time.Time) {
			ticks++
			if ticks == 2 {
				l.StopTicker()
			}
		})
	})

	fake.Advance(10 * time.Second)
	l.Do(func() { assert.Equal(t, 2, ticks) })
}

func TestLoopDoAfterCloseReportsFalse(t *testing.T) {
	l, fake := newTestLoop(t)
	l.Do(func() { l.StartTicker(time.Second, func(time.Time) {}) })

	l.Close()
	l.Close()

	ran := false
	assert.False(t, l.Do(func() { ran = true }))
	assert.False(t, ran)
	assert.Equal(t, 0, fake.Tickers())
}
