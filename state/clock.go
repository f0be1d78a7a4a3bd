package state

import (
	"slices"
	"sync"
	"time"
)

// Clock abstracts the time source so simulations can run on virtual time.
// All agent time comparisons and timers go through the clock.
type Clock interface {
	Now() time.Time
	Since(t time.Time) time.Duration
	NewTimer(d time.Duration) Timer
}

type Timer interface {
	C() <-chan time.Time
	Reset(d time.Duration)
	Stop()
}

// SystemClock is the wall-clock time source.
type SystemClock struct{}

func (SystemClock) Now() time.Time                  { return time.Now() }
func (SystemClock) Since(t time.Time) time.Duration { return time.Since(t) }

func (SystemClock) NewTimer(d time.Duration) Timer {
	return &systemTimer{t: time.NewTimer(d)}
}

type systemTimer struct {
	t *time.Timer
}

func (s *systemTimer) C() <-chan time.Time { return s.t.C }
func (s *systemTimer) Stop()               { s.t.Stop() }

func (s *systemTimer) Reset(d time.Duration) {
	if !s.t.Stop() {
		select {
		case <-s.t.C:
		default:
		}
	}
	s.t.Reset(d)
}

// SimClock is a manually advanced time source. Advance moves the current
// time forward and fires every timer whose deadline has passed.
type SimClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*simTimer
}

func NewSimClock(start time.Time) *SimClock {
	return &SimClock{now: start}
}

func (c *SimClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *SimClock) Since(t time.Time) time.Duration {
	return c.Now().Sub(t)
}

func (c *SimClock) NewTimer(d time.Duration) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &simTimer{
		clock: c,
		ch:    make(chan time.Time, 1),
		at:    c.now.Add(d),
		armed: true,
	}
	c.timers = append(c.timers, t)
	return t
}

func (c *SimClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	now := c.now
	var due []*simTimer
	for _, t := range c.timers {
		if t.armed && !t.at.After(now) {
			t.armed = false
			due = append(due, t)
		}
	}
	c.mu.Unlock()
	for _, t := range due {
		select {
		case t.ch <- now:
		default:
		}
	}
}

type simTimer struct {
	clock *SimClock
	ch    chan time.Time
	at    time.Time
	armed bool
}

func (t *simTimer) C() <-chan time.Time { return t.ch }

func (t *simTimer) Reset(d time.Duration) {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	t.at = t.clock.now.Add(d)
	t.armed = true
}

func (t *simTimer) Stop() {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	t.armed = false
	idx := slices.Index(t.clock.timers, t)
	if idx != -1 {
		t.clock.timers = slices.Delete(t.clock.timers, idx, idx+1)
	}
}
