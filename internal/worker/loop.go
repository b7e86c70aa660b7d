package worker

import (
	"sync"
	"time"

	"github.com/vytor/pixelplay/internal/clock"
	"github.com/vytor/pixelplay/internal/logger"
)

// Loop runs commands and ticker callbacks on a single goroutine. State that is
// only touched from inside Do callbacks and the tick handler needs no locking.
//
// Callbacks must not call Do on the same Loop; they already run on it.
type Loop struct {
	clock clock.Clock
	log   *logger.Logger

	cmds chan func()
	quit chan struct{}
	done chan struct{}
	once sync.Once

	// owned by the loop goroutine
	ticker clock.Ticker
	onTick func(time.Time)
}

func NewLoop(c clock.Clock, log *logger.Logger) *Loop {
	if c == nil {
		c = clock.Real()
	}
	if log == nil {
		log = logger.Default()
	}
	l := &Loop{
		clock: c,
		log:   log,
		cmds:  make(chan func()),
		quit:  make(chan struct{}),
		done:  make(chan struct{}),
	}
	go l.run()
	return l
}

func (l *Loop) run() {
	defer close(l.done)
	defer l.StopTicker()

	for {
		var ticks <-chan time.Time
		if l.ticker != nil {
			ticks = l.ticker.C()
		}
		select {
		case <-l.quit:
			l.log.Debug("loop shutting down")
			return
		case fn := <-l.cmds:
			fn()
		case now := <-ticks:
			if l.onTick != nil {
				l.onTick(now)
			}
		}
	}
}

// Do runs fn on the loop goroutine and waits for it to return. It reports
// false without running fn once the loop is closed.
func (l *Loop) Do(fn func()) bool {
	finished := make(chan struct{})
	cmd := func() {
		defer close(finished)
		fn()
	}
	select {
	case l.cmds <- cmd:
	case <-l.quit:
		return false
	}
	<-finished
	return true
}

// StartTicker replaces any running ticker with a fresh one. Must be called
// from the loop goroutine.
func (l *Loop) StartTicker(every time.Duration, fn func(time.Time)) {
	l.StopTicker()
	l.ticker = l.clock.NewTicker(every)
	l.onTick = fn
}

// StopTicker stops the ticker; ticks already buffered in its channel are
// never delivered. Must be called from the loop goroutine.
func (l *Loop) StopTicker() {
	if l.ticker == nil {
		return
	}
	l.ticker.Stop()
	l.ticker = nil
	l.onTick = nil
}

// Ticking reports whether a ticker is running. Must be called from the loop
// goroutine.
func (l *Loop) Ticking() bool { return l.ticker != nil }

// Now reads the loop's clock.
func (l *Loop) Now() time.Time { return l.clock.Now() }

// Close stops the loop and waits for its goroutine to exit. It is safe to call
// more than once.
func (l *Loop) Close() {
	l.once.Do(func() { close(l.quit) })
	<-l.done
}
