package clock

import (
	"sync"
	"time"
)

// Fake is a manually advanced Clock. Ticks are delivered synchronously from
// Advance: each send blocks until the receiver takes it or the ticker is
// stopped, so once Advance returns every due tick has been handled.
type Fake struct {
	mu      sync.Mutex
	now     time.Time
	tickers []*fakeTicker
}

func NewFake(start time.Time) *Fake {
	return &Fake{now: start}
}

func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *Fake) NewTicker(d time.Duration) Ticker {
	if d <= 0 {
		panic("clock: non-positive ticker interval")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	t := &fakeTicker{
		fake:   f,
		period: d,
		next:   f.now.Add(d),
		c:      make(chan time.Time),
		stop:   make(chan struct{}),
	}
	f.tickers = append(f.tickers, t)
	return t
}

// Tickers reports how many tickers are currently running.
func (f *Fake) Tickers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tickers)
}

// Advance moves the clock forward by d, firing due ticks in time order.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	target := f.now.Add(d)
	f.mu.Unlock()

	for {
		f.mu.Lock()
		var due *fakeTicker
		for _, t := range f.tickers {
			if t.next.After(target) {
				continue
			}
			if due == nil || t.next.Before(due.next) {
				due = t
			}
		}
		if due == nil {
			f.now = target
			f.mu.Unlock()
			return
		}
		f.now = due.next
		due.next = due.next.Add(due.period)
		now := f.now
		f.mu.Unlock()

		select {
		case due.c <- now:
		case <-due.stop:
		}
	}
}

func (f *Fake) remove(t *fakeTicker) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, other := range f.tickers {
		if other == t {
			f.tickers = append(f.tickers[:i], f.tickers[i+1:]...)
			return
		}
	}
}

type fakeTicker struct {
	fake   *Fake
	period time.Duration
	next   time.Time
	c      chan time.Time
	stop   chan struct{}
	once   sync.Once
}

func (t *fakeTicker) C() <-chan time.Time { return t.c }

func (t *fakeTicker) Stop() {
	t.once.Do(func() {
		close(t.stop)
		t.fake.remove(t)
	})
}
