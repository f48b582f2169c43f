// Package lockout persists the timed ban handed out for breaking immersion,
// and counts how many times it has happened across sessions.
package lockout

import (
	"math"
	"strconv"
	"sync"
	"time"

	"io73k/storage"

	"go.uber.org/zap"
)

const (
	Key        = "lockout"
	CounterKey = "meta_lockout_count"
)

// Keeper is the lockout record repository the game depends on.
type Keeper interface {
	Check() Status
	Set() time.Time
	Clear()
	Duration() time.Duration
}

// Tally is the cross-session lockout count.
type Tally interface {
	Count() int
	Increment() int
	Reset()
}

var (
	_ Keeper = (*Store)(nil)
	_ Tally  = (*Counter)(nil)
)

// Status is the result of a lockout check.
type Status struct {
	Locked    bool
	Remaining time.Duration
}

// RemainingSeconds rounds the remaining time up to whole seconds.
func (s Status) RemainingSeconds() int {
	return int(math.Ceil(s.Remaining.Seconds()))
}

// Store holds the single active lockout record. Storage errors are logged
// and read as "not locked".
type Store struct {
	kv       storage.KV
	log      *zap.Logger
	duration time.Duration
	now      func() time.Time
}

func NewStore(kv storage.KV, duration time.Duration, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{kv: kv, duration: duration, log: log.Named("lockout"), now: time.Now}
}

// Duration is the length of a new lockout.
func (s *Store) Duration() time.Duration { return s.duration }

// Set starts a lockout now, replacing any earlier one.
func (s *Store) Set() time.Time {
	expires := s.now().Add(s.duration)
	if err := s.kv.Set(Key, strconv.FormatInt(expires.UnixMilli(), 10)); err != nil {
		s.log.Warn("failed to persist lockout", zap.Error(err))
	}
	return expires
}

// Check reports whether a lockout is active. An expired record is cleared.
func (s *Store) Check() Status {
	raw, ok, err := s.kv.Get(Key)
	if err != nil {
		s.log.Warn("failed to read lockout", zap.Error(err))
		return Status{}
	}
	if !ok {
		return Status{}
	}

	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		s.log.Warn("discarding malformed lockout", zap.String("value", raw))
		s.Clear()
		return Status{}
	}

	remaining := time.UnixMilli(ms).Sub(s.now())
	if remaining <= 0 {
		s.Clear()
		return Status{}
	}
	return Status{Locked: true, Remaining: remaining}
}

func (s *Store) Clear() {
	if err := s.kv.Remove(Key); err != nil {
		s.log.Warn("failed to clear lockout", zap.Error(err))
	}
}

// Counter is the persisted number of meta-breaking lockouts ever served.
type Counter struct {
	mu  sync.Mutex
	kv  storage.KV
	log *zap.Logger
}

func NewCounter(kv storage.KV, log *zap.Logger) *Counter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Counter{kv: kv, log: log.Named("lockout_counter")}
}

func (c *Counter) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.read()
}

// Increment adds one lockout and returns the new total.
func (c *Counter) Increment() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := c.read() + 1
	if err := c.kv.Set(CounterKey, strconv.Itoa(n)); err != nil {
		c.log.Warn("failed to persist lockout count", zap.Error(err))
	}
	return n
}

func (c *Counter) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.kv.Remove(CounterKey); err != nil {
		c.log.Warn("failed to reset lockout count", zap.Error(err))
	}
}

func (c *Counter) read() int {
	raw, ok, err := c.kv.Get(CounterKey)
	if err != nil {
		c.log.Warn("failed to read lockout count", zap.Error(err))
		return 0
	}
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
