package profile

import (
	"errors"
	"testing"
	"time"

	"io73k/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brokenKV struct{}

var errDiskFull = errors.New("quota exceeded")

func (brokenKV) Get(string) (string, bool, error) { return "", false, errDiskFull }
func (brokenKV) Set(string, string) error         { return errDiskFull }
func (brokenKV) Remove(string) error              { return errDiskFull }

func fixedClock(ms int64) func() time.Time {
	return func() time.Time { return time.UnixMilli(ms) }
}

func TestLoadCreatesFreshProfile(t *testing.T) {
	kv := storage.NewMemory()
	s := NewKVStore(kv, nil)
	s.now = fixedClock(1000)

	p := s.Load()
	assert.Equal(t, 1, p.PlayCount)
	assert.Equal(t, 0, p.CorruptionScore)
	assert.Equal(t, int64(1000), p.LastUpdated)

	_, ok, _ := kv.Get(Key)
	assert.True(t, ok, "load persists immediately")
}

func TestLoadIncrementsPlayCount(t *testing.T) {
	kv := storage.NewMemory()
	s := NewKVStore(kv, nil)

	first := s.Load()
	first.CorruptionScore = 3
	s.Save(first)

	second := s.Load()
	assert.Equal(t, 2, second.PlayCount)
	assert.Equal(t, 3, second.CorruptionScore)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	kv := storage.NewMemory()
	s := NewKVStore(kv, nil)
	tr := NewTracker(s, nil)

	p := s.Load()
	tr.IncreaseCorruption(p, 2, "convent_encounter_1_combat")
	tr.TrackHesitation(p, "convent", 20*time.Second)
	tr.TrackContradiction(p, "spare her", "struck her down", "convent")
	tr.CompleteTrial(p, "convent", 3*time.Minute)

	s.Save(p)
	loaded := s.Load()

	loaded.PlayCount--
	loaded.LastUpdated = p.LastUpdated
	assert.Equal(t, p, loaded)
}

func TestStoreSurvivesBrokenBackend(t *testing.T) {
	s := NewKVStore(brokenKV{}, nil)

	var p *Profile
	require.NotPanics(t, func() { p = s.Load() })
	assert.Equal(t, 1, p.PlayCount)

	assert.NotPanics(t, func() { s.Save(p) })
	assert.NotPanics(t, s.Reset)
}

func TestLoadRepairsCorruptRecord(t *testing.T) {
	kv := storage.NewMemory()
	require.NoError(t, kv.Set(Key, "{garbage"))

	p := NewKVStore(kv, nil).Load()
	assert.Equal(t, 1, p.PlayCount)
	assert.NotNil(t, p.TrialCompletionTimes)
}

func TestReset(t *testing.T) {
	kv := storage.NewMemory()
	s := NewKVStore(kv, nil)
	p := s.Load()
	p.CorruptionScore = 9
	s.Save(p)

	s.Reset()
	assert.Equal(t, 0, s.Load().CorruptionScore)
}

func TestTrackerUsesInjectedClock(t *testing.T) {
	at := time.Date(2026, 10, 15, 21, 0, 0, 0, time.UTC)
	s := NewKVStore(storage.NewMemory(), nil)
	tr := NewTracker(s, func() time.Time { return at })
	p := s.Load()

	tr.TrackHesitation(p, "convent", 12*time.Second)
	tr.CompleteTrial(p, "convent", time.Minute)
	tr.IncreaseCorruption(p, 1, "")

	assert.Equal(t, at.UnixMilli(), p.Hesitations[0].Timestamp)
	assert.Equal(t, at.UnixMilli(), p.TrialCompletionTimes["convent"].CompletedAt)
	assert.Equal(t, "2026-10-15T21:00:00Z", p.FirstViolentAction)
}

func TestIncreaseCorruption(t *testing.T) {
	s := NewKVStore(storage.NewMemory(), nil)
	tr := NewTracker(s, nil)
	p := s.Load()

	tr.IncreaseCorruption(p, 1, "convent_encounter_1_combat")
	tr.IncreaseCorruption(p, 1, "convent_encounter_2_combat")

	assert.Equal(t, 2, p.CorruptionScore)
	assert.Equal(t, 2, p.TotalViolentActions)
	assert.Equal(t, "convent_encounter_1_combat", p.FirstViolentAction)
}

func TestUpdateAverageResponseTime(t *testing.T) {
	s := NewKVStore(storage.NewMemory(), nil)
	tr := NewTracker(s, nil)
	p := s.Load()

	tr.UpdateAverageResponseTime(p, 4*time.Second)
	assert.InDelta(t, 4000, p.AverageResponseTime, 0.001)

	tr.TrackNonViolent(p)
	tr.TrackNonViolent(p)
	tr.UpdateAverageResponseTime(p, 1*time.Second)
	assert.InDelta(t, 2500, p.AverageResponseTime, 0.001)
}

func TestTierOf(t *testing.T) {
	tests := []struct {
		score int
		want  Tier
	}{
		{0, TierPure},
		{1, TierTainted},
		{2, TierTainted},
		{3, TierCorrupted},
		{4, TierCorrupted},
		{5, TierDamned},
		{12, TierDamned},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TierOf(&Profile{CorruptionScore: tt.score}), "score %d", tt.score)
	}
}

func TestCommentary(t *testing.T) {
	t.Run("damned", func(t *testing.T) {
		assert.Contains(t, Commentary(&Profile{CorruptionScore: 5}), "efficient")
	})
	t.Run("corrupted and violent", func(t *testing.T) {
		assert.Contains(t, Commentary(&Profile{CorruptionScore: 3, TotalViolentActions: 4}), "barely have to guide")
	})
	t.Run("tainted contradiction", func(t *testing.T) {
		p := &Profile{CorruptionScore: 1, Contradictions: []Contradiction{{Claimed: "talk", Actual: "attacked"}}}
		assert.Equal(t, "You said you'd talk. But you attacked instead.", Commentary(p))
	})
	t.Run("hesitant", func(t *testing.T) {
		p := &Profile{Hesitations: make([]Hesitation, 3)}
		assert.Contains(t, Commentary(p), "hesitate")
	})
	t.Run("nothing to say", func(t *testing.T) {
		assert.Empty(t, Commentary(&Profile{CorruptionScore: 1}))
	})
}

func TestLanguageCorrupted(t *testing.T) {
	assert.False(t, LanguageCorrupted(&Profile{}))
	assert.True(t, LanguageCorrupted(&Profile{CorruptionScore: 1}))
}
