// Package offense screens player input for immersion breaks before a trial
// sees it. Anachronisms are redirected for free; meta-breaking escalates to
// a persisted lockout.
package offense

import (
	"context"

	"io73k/combat"
	"io73k/config"
	"io73k/lockout"
	"io73k/story"
	"io73k/unlock"

	"go.uber.org/zap"
)

type Kind string

const (
	None        Kind = ""
	Anachronism Kind = "anachronism"
	MetaBreak   Kind = "meta_break"
)

// Verdict is the outcome of screening one input. When Handled is false the
// input goes on to the trial and nothing else here applies.
type Verdict struct {
	Handled       bool
	Kind          Kind
	Messages      story.Sequence
	OffenseCount  int
	Lockout       bool
	TotalLockouts int
}

// Tracker is the screening layer in front of every trial.
type Tracker struct {
	detector     Detector
	lockouts     lockout.Keeper
	tally        lockout.Tally
	achievements unlock.Unlocker
	src          combat.Source
	cfg          config.OffenseConfig
	timing       config.TimingConfig
	log          *zap.Logger
}

// Params groups the Tracker's collaborators.
type Params struct {
	Detector     Detector
	Lockouts     lockout.Keeper
	Tally        lockout.Tally
	Achievements unlock.Unlocker
	Source       combat.Source
	Config       *config.Config
	Logger       *zap.Logger
}

func NewTracker(p Params) *Tracker {
	log := p.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Tracker{
		detector:     p.Detector,
		lockouts:     p.Lockouts,
		tally:        p.Tally,
		achievements: p.Achievements,
		src:          p.Source,
		cfg:          p.Config.Offense,
		timing:       p.Config.Timing,
		log:          log.Named("offense"),
	}
}

// Screen checks input for an anachronism, then for meta-breaking.
// offenseCount is the number of meta-breaks already committed this run.
func (t *Tracker) Screen(ctx context.Context, input string, scene story.Scene, offenseCount int) Verdict {
	if t == nil || !t.cfg.Enabled || t.detector == nil {
		return Verdict{OffenseCount: offenseCount}
	}

	if hit, item := t.detector.Anachronism(ctx, input, scene); hit {
		t.log.Info("anachronism redirected", zap.String("scene", string(scene)), zap.String("item", item))
		return Verdict{
			Handled:      true,
			Kind:         Anachronism,
			OffenseCount: offenseCount,
			Messages:     story.Cumulative(story.Text(t.timing.First, AnachronismResponse(item, scene, t.src))),
		}
	}

	if !t.detector.MetaBreak(ctx, input, scene) {
		return Verdict{OffenseCount: offenseCount}
	}

	count := offenseCount + 1
	content, lock := Response(count, t.cfg.LockoutOffense, t.src)
	v := Verdict{
		Handled:      true,
		Kind:         MetaBreak,
		OffenseCount: count,
		Lockout:      lock,
	}
	t.log.Info("meta-breaking input", zap.String("scene", string(scene)), zap.Int("offense", count), zap.Bool("lockout", lock))

	if !lock {
		v.Messages = story.Cumulative(story.Text(t.timing.First, content))
		return v
	}

	t.lockouts.Set()
	v.TotalLockouts = t.tally.Increment()
	if v.TotalLockouts == t.cfg.KilljoyLockouts && t.achievements != nil {
		t.achievements.Unlock(unlock.Killjoy)
	}
	v.Messages = story.Cumulative(
		story.Text(t.timing.First, content),
		story.Text(t.timing.Dramatic, LockoutMessage(scene, t.lockouts.Duration(), v.TotalLockouts, t.cfg.KilljoyLockouts)),
	)
	return v
}
