// Package hangman is the second trial: a frontier lawyer with a handful of
// chances to save a man the town has already decided to hang.
package hangman

import (
	"context"
	"slices"

	"io73k/ai"
	"io73k/config"
	"io73k/intent"
	"io73k/prompts"
	"io73k/story"
	"io73k/trials"
	"io73k/unlock"

	"go.uber.org/zap"
)

// Combat is the standoff with the deputies.
const Combat trials.State = "combat"

// Trial is the hangman's per-run state. StartedAt is epoch milliseconds,
// set by the first attempt.
type Trial struct {
	Attempts      int                 `json:"attempts"`
	MaxAttempts   int                 `json:"maxAttempts"`
	Confrontation bool                `json:"confrontation"`
	StartedAt     int64               `json:"startedAt"`
	History       []story.ChatMessage `json:"history"`
}

func (t Trial) Clone() Trial {
	c := t
	c.History = slices.Clone(t.History)
	return c
}

type input = trials.Input[Trial]
type result = trials.Result[Trial]

type Machine struct {
	d       trials.Deps
	cfg     config.HangmanConfig
	s       script
	intents intent.Classifier
	loop    trials.ExplorationLoop[Trial]
	log     *zap.Logger
}

func New(d trials.Deps) *Machine {
	d = d.WithDefaults()
	m := &Machine{
		d:       d,
		cfg:     d.Config.Hangman,
		s:       script{t: d.Config.Timing, seconds: d.Config.Hangman.TimeLimitSeconds},
		intents: d.Intent,
		log:     d.Logger.Named("hangman"),
	}
	if m.intents == nil {
		m.intents = intent.Hangman()
	}
	// The attempt being made counts, so the input that would be the last
	// one drops the trapdoor instead.
	m.loop = trials.ExplorationLoop[Trial]{
		Governor: trials.Governor{Max: m.cfg.MaxAttempts},
		Turns:    func(t Trial) int { return t.Attempts + 1 },
		Step:     m.attempt,
		Terminal: m.trapdoor,
	}
	return m
}

func (m *Machine) Scene() story.Scene               { return story.Hangman }
func (m *Machine) Intro(name string) story.Sequence { return m.s.intro(name) }
func (m *Machine) Turns(t Trial) int                { return t.Attempts }
func (m *Machine) Terminal(state trials.State) bool { return state == trials.Complete || state == trials.Lockout }

func (m *Machine) Initial() Trial {
	return Trial{MaxAttempts: m.cfg.MaxAttempts}
}

func (m *Machine) Exhausted(state trials.State, t Trial) bool {
	return (state == trials.Intro || state == trials.Exploration) && m.loop.Exhausted(t)
}

func (m *Machine) Handle(ctx context.Context, in input) result {
	switch in.State {
	case trials.Complete, trials.Lockout:
		return trials.Stay(in, story.Filler(m.s.t.First))
	case trials.Reveal:
		return result{Messages: m.s.done(), Next: trials.Complete, Trial: in.Trial, Profile: in.Profile}
	case Combat:
		return m.shootout(ctx, in)
	case trials.Intro, trials.Exploration:
		if intent.IsOptionsRequest(in.Text) {
			return result{Messages: m.s.hint(), Next: trials.Exploration, Trial: in.Trial, Profile: in.Profile}
		}
		return m.loop.Handle(ctx, in)
	}

	m.log.Warn("input in unknown state", zap.String("state", string(in.State)))
	return trials.Stay(in, story.Filler(m.s.t.First))
}

func (m *Machine) attempt(ctx context.Context, in input) result {
	t := in.Trial.Clone()
	if t.StartedAt == 0 {
		t.StartedAt = m.d.Now().UnixMilli()
	}
	t.Attempts++

	choice := m.intents.Classify(ctx, in.Text)
	switch choice {
	case intent.Rescue:
		if m.d.Achievements.Unlock(unlock.MercifulExecutioner) {
			m.log.Info("rescue attempted", zap.Int("attempt", t.Attempts))
		}
		if m.d.Profiles != nil && in.Profile != nil {
			m.d.Profiles.TrackNonViolent(in.Profile)
		}
	case intent.Fight:
		if t.Confrontation {
			return result{Messages: m.s.standoff(), Next: Combat, Trial: t, Profile: in.Profile}
		}
	}

	dm := m.d.Classifier.Narrate(ctx, ai.Request{
		System:   prompts.HangmanDM(in.PlayerName),
		Messages: append(slices.Clone(t.History), story.ChatMessage{Role: story.RoleUser, Content: in.Text}),
	}, dmFallback)
	t.History = append(t.History,
		story.ChatMessage{Role: story.RoleUser, Content: in.Text},
		story.ChatMessage{Role: story.RoleAssistant, Content: dm},
	)

	msgs := m.s.attempt(dm, CondemnedState(t.Attempts), GlitchTimer(m.remaining(t), m.d.Source))
	if !t.Confrontation && t.Attempts >= m.cfg.ConfrontationAttempt {
		t.Confrontation = true
		msgs = msgs.Then(m.s.guards())
	}
	return result{Messages: msgs, Next: trials.Exploration, Trial: t, Profile: in.Profile}
}

func (m *Machine) remaining(t Trial) int {
	elapsed := m.d.Now().UnixMilli() - t.StartedAt
	return m.cfg.TimeLimitSeconds - int(elapsed/1000)
}

// trapdoor ends the trial whatever the input was. No model call.
func (m *Machine) trapdoor(_ context.Context, in input) result {
	t := in.Trial.Clone()
	t.Attempts = m.cfg.MaxAttempts
	m.log.Info("attempts spent, trapdoor drops", zap.Int("attempts", t.Attempts))
	return result{Messages: m.s.reveal(in.PlayerName), Next: trials.Reveal, Trial: t, Profile: in.Profile}
}

// shootout resolves the standoff. Winning changes nothing about the ending.
func (m *Machine) shootout(_ context.Context, in input) result {
	score := 0
	if in.Profile != nil {
		if m.d.Profiles != nil {
			m.d.Profiles.IncreaseCorruption(in.Profile, 1, "hangman_shootout")
		}
		score = in.Profile.CorruptionScore
	}
	roll := m.d.Resolver.Roll(score)
	m.log.Debug("shootout", zap.Int("player", roll.PlayerRoll), zap.Int("enemy", roll.EnemyRoll), zap.Bool("won", roll.PlayerWins))

	msgs := m.s.shootout(roll.PlayerWins).Then(m.s.reveal(in.PlayerName))
	return result{Messages: msgs, Next: trials.Reveal, Trial: in.Trial.Clone(), Profile: in.Profile}
}
