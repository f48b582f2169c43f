package profile

import (
	"sync"
	"time"
)

// Tracker applies behavior events to a profile and saves after each one.
// The mutex covers the profile as well, since several sessions can share
// one player's profile.
type Tracker struct {
	mu    sync.Mutex
	store Store
	now   func() time.Time
}

// NewTracker stamps events with now, or time.Now when now is nil.
func NewTracker(store Store, now func() time.Time) *Tracker {
	if now == nil {
		now = time.Now
	}
	return &Tracker{store: store, now: now}
}

// IncreaseCorruption records a violent action worth amount corruption.
// context names where it happened, and the first one is kept.
func (t *Tracker) IncreaseCorruption(p *Profile, amount int, context string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	p.CorruptionScore += amount
	p.TotalViolentActions++
	if p.FirstViolentAction == "" {
		if context == "" {
			context = t.now().UTC().Format(time.RFC3339)
		}
		p.FirstViolentAction = context
	}
	t.store.Save(p)
}

func (t *Tracker) TrackNonViolent(p *Profile) {
	t.mu.Lock()
	defer t.mu.Unlock()

	p.TotalNonViolentAttempts++
	t.store.Save(p)
}

func (t *Tracker) TrackHesitation(p *Profile, trial string, d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	p.Hesitations = append(p.Hesitations, Hesitation{
		Trial:      trial,
		DurationMs: d.Milliseconds(),
		Timestamp:  t.now().UnixMilli(),
	})
	t.store.Save(p)
}

func (t *Tracker) TrackContradiction(p *Profile, claimed, actual, trial string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	p.Contradictions = append(p.Contradictions, Contradiction{
		Claimed:   claimed,
		Actual:    actual,
		Trial:     trial,
		Timestamp: t.now().UnixMilli(),
	})
	t.store.Save(p)
}

// UpdateAverageResponseTime folds d into the running average, weighted by
// the number of recorded actions.
func (t *Tracker) UpdateAverageResponseTime(p *Profile, d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	count := p.TotalViolentActions + p.TotalNonViolentAttempts
	if count < 1 {
		count = 1
	}
	ms := float64(d.Milliseconds())
	p.AverageResponseTime = (p.AverageResponseTime*float64(count-1) + ms) / float64(count)
	t.store.Save(p)
}

func (t *Tracker) CompleteTrial(p *Profile, trial string, d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if p.TrialCompletionTimes == nil {
		p.TrialCompletionTimes = map[string]Completion{}
	}
	p.TrialCompletionTimes[trial] = Completion{
		CompletedAt: t.now().UnixMilli(),
		DurationMs:  d.Milliseconds(),
	}
	t.store.Save(p)
}

// Snapshot returns a copy of p taken under the tracker's lock.
func (t *Tracker) Snapshot(p *Profile) *Profile {
	t.mu.Lock()
	defer t.mu.Unlock()
	return p.Clone()
}
