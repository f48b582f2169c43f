// Package unlock records which achievements and codex entries the player
// has earned.
package unlock

import (
	"math"
	"sync"
	"time"

	"io73k/storage"

	"go.uber.org/zap"
)

// Storage keys of the two registries.
const (
	AchievementsKey = "achievements"
	CodexKey        = "codex"
)

// Unlocker is the side effect trials use to grant something. Unlock is
// idempotent and reports whether id was newly unlocked.
type Unlocker interface {
	Unlock(id string) bool
}

// Record is one unlocked id.
type Record struct {
	ID         string `json:"id"`
	UnlockedAt int64  `json:"unlockedAt"`
}

// Stats summarizes progress through a catalog.
type Stats struct {
	Unlocked   int `json:"unlocked"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

// Registry is a KV-backed set of unlocked ids. An optional notify hook is
// called once per new unlock.
type Registry struct {
	mu     sync.Mutex
	kv     storage.KV
	key    string
	log    *zap.Logger
	now    func() time.Time
	known  func(id string) bool
	notify func(id string)
}

func newRegistry(kv storage.KV, key string, known func(string) bool, log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{kv: kv, key: key, known: known, log: log.Named(key), now: time.Now}
}

// NewAchievements returns the achievement registry.
func NewAchievements(kv storage.KV, log *zap.Logger) *Registry {
	return newRegistry(kv, AchievementsKey, func(id string) bool {
		_, ok := AchievementByID(id)
		return ok
	}, log)
}

// NewCodex returns the codex registry.
func NewCodex(kv storage.KV, log *zap.Logger) *Registry {
	return newRegistry(kv, CodexKey, func(id string) bool {
		_, ok := EntryByID(id)
		return ok
	}, log)
}

// OnUnlock registers fn to be called after each new unlock.
func (r *Registry) OnUnlock(fn func(id string)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notify = fn
}

func (r *Registry) Unlock(id string) bool {
	r.mu.Lock()
	if !r.known(id) {
		r.mu.Unlock()
		r.log.Warn("unknown unlock id", zap.String("id", id))
		return false
	}

	records := r.load()
	for _, rec := range records {
		if rec.ID == id {
			r.mu.Unlock()
			return false
		}
	}

	records = append(records, Record{ID: id, UnlockedAt: r.now().UnixMilli()})
	if err := storage.SetJSON(r.kv, r.key, records); err != nil {
		r.log.Warn("failed to persist unlock", zap.String("id", id), zap.Error(err))
	}
	notify := r.notify
	r.mu.Unlock()

	r.log.Info("unlocked", zap.String("id", id))
	if notify != nil {
		notify(id)
	}
	return true
}

func (r *Registry) IsUnlocked(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.load() {
		if rec.ID == id {
			return true
		}
	}
	return false
}

// Unlocked returns the records in unlock order.
func (r *Registry) Unlocked() []Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load()
}

// Stats computes progress against a catalog of total entries.
func (r *Registry) Stats(total int) Stats {
	n := len(r.Unlocked())
	pct := 0
	if total > 0 {
		pct = int(math.Round(float64(n) / float64(total) * 100))
	}
	return Stats{Unlocked: n, Total: total, Percentage: pct}
}

func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.kv.Remove(r.key); err != nil {
		r.log.Warn("failed to reset", zap.Error(err))
	}
}

func (r *Registry) load() []Record {
	var records []Record
	if _, err := storage.GetJSON(r.kv, r.key, &records); err != nil {
		r.log.Warn("failed to read unlocks", zap.Error(err))
		return nil
	}
	return records
}
