// Package prelude is the parlor trick played before the trials: Paimon,
// calling himself Raphael, reads the player's number and then drops the
// disguise.
package prelude

import (
	"context"

	"io73k/intent"
	"io73k/story"
	"io73k/trials"
	"io73k/unlock"

	"go.uber.org/zap"
)

// Trial counts the guesses made so far.
type Trial struct {
	Guesses int  `json:"guesses"`
	Guessed bool `json:"guessed"`
}

func (t Trial) Clone() Trial { return t }

type input = trials.Input[Trial]
type result = trials.Result[Trial]

type Machine struct {
	d       trials.Deps
	s       script
	intents intent.Classifier
	loop    trials.ExplorationLoop[Trial]
	log     *zap.Logger
}

func New(d trials.Deps) *Machine {
	d = d.WithDefaults()
	m := &Machine{
		d:       d,
		s:       script{t: d.Config.Timing},
		intents: d.Intent,
		log:     d.Logger.Named("prelude"),
	}
	if m.intents == nil {
		m.intents = intent.Prelude()
	}
	m.loop = trials.ExplorationLoop[Trial]{
		Governor: trials.Governor{Max: len(guesses)},
		Turns:    func(t Trial) int { return t.Guesses },
		Step:     m.guess,
		Terminal: m.giveUp,
	}
	return m
}

func (m *Machine) Scene() story.Scene               { return story.Prelude }
func (m *Machine) Intro(name string) story.Sequence { return m.s.intro(name) }
func (m *Machine) Initial() Trial                   { return Trial{} }
func (m *Machine) Turns(t Trial) int                { return t.Guesses }
func (m *Machine) Terminal(state trials.State) bool { return state == trials.Complete || state == trials.Lockout }

func (m *Machine) Exhausted(state trials.State, t Trial) bool {
	return state == trials.Exploration && m.loop.Exhausted(t)
}

func (m *Machine) Handle(ctx context.Context, in input) result {
	switch in.State {
	case trials.Complete, trials.Lockout:
		return trials.Stay(in, story.Filler(m.s.t.First))
	case trials.Intro:
		return m.guess(ctx, in)
	case trials.Exploration:
		if m.intents.Classify(ctx, in.Text) == intent.Confirm {
			t := in.Trial.Clone()
			t.Guessed = true
			m.revealName()
			return result{Messages: m.s.gotIt(in.PlayerName), Next: trials.Complete, Trial: t, Profile: in.Profile}
		}
		return m.loop.Handle(ctx, in)
	}

	m.log.Warn("input in unknown state", zap.String("state", string(in.State)))
	return trials.Stay(in, story.Filler(m.s.t.First))
}

func (m *Machine) guess(_ context.Context, in input) result {
	t := in.Trial.Clone()
	msgs := m.s.guess(t.Guesses)
	t.Guesses++
	return result{Messages: msgs, Next: trials.Exploration, Trial: t, Profile: in.Profile}
}

// giveUp runs out of numbers and reads the clock instead.
func (m *Machine) giveUp(_ context.Context, in input) result {
	m.revealName()
	msgs := m.s.giveUp(in.PlayerName, TimeOfDay(m.d.Now().Hour()))
	return result{Messages: msgs, Next: trials.Complete, Trial: in.Trial.Clone(), Profile: in.Profile}
}

func (m *Machine) revealName() {
	if m.d.Achievements.Unlock(unlock.TrueName) {
		m.log.Info("true name revealed")
	}
	m.d.Codex.Unlock(unlock.CodexRaphael)
}
