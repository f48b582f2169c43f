// Package profile tracks the player's behavior across playthroughs: how
// violent they are, how long they take to answer, and how often they come
// back.
package profile

// Tier is a coarse band of the corruption score.
type Tier string

const (
	TierPure      Tier = "pure"
	TierTainted   Tier = "tainted"
	TierCorrupted Tier = "corrupted"
	TierDamned    Tier = "damned"
)

// Hesitation is a reply that took longer than the hesitation threshold.
type Hesitation struct {
	Trial      string `json:"trial"`
	DurationMs int64  `json:"duration"`
	Timestamp  int64  `json:"timestamp"`
}

// Contradiction records a player who said one thing and did another.
type Contradiction struct {
	Claimed   string `json:"claimed"`
	Actual    string `json:"actual"`
	Trial     string `json:"trial"`
	Timestamp int64  `json:"timestamp"`
}

// Completion is how long a trial took the last time it was finished.
type Completion struct {
	CompletedAt int64 `json:"completedAt"`
	DurationMs  int64 `json:"duration"`
}

// Profile is the persisted player profile. Timestamps are epoch milliseconds.
type Profile struct {
	CorruptionScore         int                   `json:"corruptionScore"`
	FirstViolentAction      string                `json:"firstViolentAction,omitempty"`
	TotalViolentActions     int                   `json:"totalViolentActions"`
	TotalNonViolentAttempts int                   `json:"totalNonViolentAttempts"`
	Hesitations             []Hesitation          `json:"hesitations"`
	Contradictions          []Contradiction       `json:"contradictions"`
	AverageResponseTime     float64               `json:"averageResponseTime"`
	TrialCompletionTimes    map[string]Completion `json:"trialCompletionTimes"`
	LastUpdated             int64                 `json:"lastUpdated"`
	PlayCount               int                   `json:"playCount"`
}

// New returns the profile of a first-time player.
func New(now int64) *Profile {
	return &Profile{
		Hesitations:          []Hesitation{},
		Contradictions:       []Contradiction{},
		TrialCompletionTimes: map[string]Completion{},
		LastUpdated:          now,
		PlayCount:            1,
	}
}

// Clone returns a deep copy of p.
func (p *Profile) Clone() *Profile {
	c := *p
	c.Hesitations = append([]Hesitation(nil), p.Hesitations...)
	c.Contradictions = append([]Contradiction(nil), p.Contradictions...)
	c.TrialCompletionTimes = make(map[string]Completion, len(p.TrialCompletionTimes))
	for k, v := range p.TrialCompletionTimes {
		c.TrialCompletionTimes[k] = v
	}
	return &c
}

// normalize repairs fields a hand-edited or older record may lack.
func (p *Profile) normalize() {
	if p.Hesitations == nil {
		p.Hesitations = []Hesitation{}
	}
	if p.Contradictions == nil {
		p.Contradictions = []Contradiction{}
	}
	if p.TrialCompletionTimes == nil {
		p.TrialCompletionTimes = map[string]Completion{}
	}
	if p.CorruptionScore < 0 {
		p.CorruptionScore = 0
	}
}

// TierOf bands the corruption score.
func TierOf(p *Profile) Tier {
	switch {
	case p.CorruptionScore <= 0:
		return TierPure
	case p.CorruptionScore <= 2:
		return TierTainted
	case p.CorruptionScore <= 4:
		return TierCorrupted
	default:
		return TierDamned
	}
}

// LanguageCorrupted reports whether narration should start commenting on
// the player's choices.
func LanguageCorrupted(p *Profile) bool {
	return p.CorruptionScore >= 1
}

// Commentary returns Paimon's aside about the player's record, or "".
func Commentary(p *Profile) string {
	tier := TierOf(p)

	switch {
	case tier == TierDamned:
		return "You've become quite... efficient at this, haven't you?"
	case tier == TierCorrupted && p.TotalViolentActions > 3:
		return "I barely have to guide you anymore. You know what to do."
	case tier == TierTainted && len(p.Contradictions) > 0:
		last := p.Contradictions[len(p.Contradictions)-1]
		return "You said you'd " + last.Claimed + ". But you " + last.Actual + " instead."
	case len(p.Hesitations) > 2:
		return "Why do you hesitate? You know what you want to do."
	}
	return ""
}
