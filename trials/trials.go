// Package trials holds what the three trials share: the state vocabulary,
// the turn governor, the bounded exploration loop and Run, which puts the
// offense screen in front of a trial's state machine.
package trials

import (
	"context"
	"time"

	"io73k/classify"
	"io73k/combat"
	"io73k/config"
	"io73k/intent"
	"io73k/profile"
	"io73k/story"
	"io73k/unlock"

	"go.uber.org/zap"
)

// State is a trial's state tag. Each trial adds its own.
type State string

const (
	Intro       State = "intro"
	Exploration State = "exploration"
	Reveal      State = "reveal"
	Complete    State = "complete"
	Lockout     State = "lockout"
)

// Input is everything a transition may look at.
type Input[T any] struct {
	Text       string
	State      State
	Trial      T
	Profile    *profile.Profile
	PlayerName string
}

// Result is a transition's output. Profile is the same profile the input
// carried, after any tracked mutations.
type Result[T any] struct {
	Messages story.Sequence
	Next     State
	Trial    T
	Profile  *profile.Profile
}

// Stay answers with msgs and leaves everything else as it was.
func Stay[T any](in Input[T], msgs story.Sequence) Result[T] {
	return Result[T]{Messages: msgs, Next: in.State, Trial: in.Trial, Profile: in.Profile}
}

// Governor caps turns.
type Governor struct {
	Max int
}

// Reached reports whether turns has hit the cap.
func (g Governor) Reached(turns int) bool {
	return turns >= g.Max
}

// ExplorationLoop is the cap-then-force pattern every trial explores with.
// Terminal runs instead of Step once the governor is reached, and never
// consults the model.
type ExplorationLoop[T any] struct {
	Governor Governor
	Turns    func(T) int
	Step     func(context.Context, Input[T]) Result[T]
	Terminal func(context.Context, Input[T]) Result[T]
}

func (l ExplorationLoop[T]) Exhausted(trial T) bool {
	return l.Governor.Reached(l.Turns(trial))
}

func (l ExplorationLoop[T]) Handle(ctx context.Context, in Input[T]) Result[T] {
	if l.Exhausted(in.Trial) {
		return l.Terminal(ctx, in)
	}
	return l.Step(ctx, in)
}

// Cloner is implemented by trial states so a step can run on a copy.
type Cloner[T any] interface {
	Clone() T
}

// Machine is one trial's state machine.
type Machine[T any] interface {
	Scene() story.Scene
	Intro(playerName string) story.Sequence
	Initial() T
	Turns(trial T) int
	// Exhausted reports that the next input in state hits the turn cap.
	// Run checks it before anything that could reach the model.
	Exhausted(state State, trial T) bool
	Handle(ctx context.Context, in Input[T]) Result[T]
	Terminal(state State) bool
}

// Deps are the collaborators trials are built from.
type Deps struct {
	Config       *config.Config
	Logger       *zap.Logger
	Classifier   *classify.Classifier
	Intent       intent.Classifier
	Resolver     combat.Resolver
	Source       combat.Source
	Profiles     *profile.Tracker
	Achievements unlock.Unlocker
	Codex        unlock.Unlocker
	Now          func() time.Time
}

// WithDefaults fills the optional fields.
func (d Deps) WithDefaults() Deps {
	if d.Config == nil {
		d.Config = config.DefaultConfig()
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Classifier == nil {
		d.Classifier = classify.New(nil, d.Config.LLM, d.Logger)
	}
	if d.Source == nil {
		d.Source = combat.NewSource(combat.NewSeed())
	}
	if d.Resolver == nil {
		d.Resolver = combat.NewDice(d.Config.Combat, d.Source)
	}
	if d.Achievements == nil {
		d.Achievements = nopUnlocker{}
	}
	if d.Codex == nil {
		d.Codex = nopUnlocker{}
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return d
}

type nopUnlocker struct{}

func (nopUnlocker) Unlock(string) bool { return false }
