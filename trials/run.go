package trials

import (
	"context"
	"encoding/json"

	"io73k/offense"
	"io73k/profile"
	"io73k/story"

	"go.uber.org/zap"
)

// Screener is the offense layer as Run sees it.
type Screener interface {
	Screen(ctx context.Context, input string, scene story.Scene, offenseCount int) offense.Verdict
}

// Outcome is what one input produced.
type Outcome struct {
	Messages     story.Sequence
	State        State
	Offense      offense.Kind
	OffenseCount int
}

// Snapshot is a read-only view of a run.
type Snapshot struct {
	Scene        story.Scene     `json:"scene"`
	State        State           `json:"state"`
	Turns        int             `json:"turns"`
	OffenseCount int             `json:"offenseCount"`
	Trial        json.RawMessage `json:"trial"`
}

// Play is a running trial with its type parameter erased.
type Play interface {
	Scene() story.Scene
	State() State
	Intro() story.Sequence
	Step(ctx context.Context, input string, p *profile.Profile) Outcome
	Snapshot() Snapshot
	Clone() Play
}

// Run drives one Machine through one playthrough.
type Run[T Cloner[T]] struct {
	machine    Machine[T]
	screen     Screener
	log        *zap.Logger
	playerName string

	state        State
	trial        T
	offenseCount int
	// final is replayed for any input after a meta-breaking lockout.
	final story.Sequence
}

func NewRun[T Cloner[T]](m Machine[T], screen Screener, playerName string, log *zap.Logger) *Run[T] {
	if log == nil {
		log = zap.NewNop()
	}
	return &Run[T]{
		machine:    m,
		screen:     screen,
		log:        log.Named(string(m.Scene())),
		playerName: playerName,
		state:      Intro,
		trial:      m.Initial(),
	}
}

func (r *Run[T]) Scene() story.Scene { return r.machine.Scene() }
func (r *Run[T]) State() State       { return r.state }
func (r *Run[T]) Trial() T           { return r.trial }

func (r *Run[T]) Intro() story.Sequence {
	return r.machine.Intro(r.playerName)
}

// Step processes one input: terminal states only re-render, the turn cap
// bypasses screening, then the offense screen, then the machine.
func (r *Run[T]) Step(ctx context.Context, input string, p *profile.Profile) Outcome {
	in := Input[T]{Text: input, State: r.state, Trial: r.trial, Profile: p, PlayerName: r.playerName}

	if r.state == Lockout && len(r.final) > 0 {
		return r.outcome(r.final, offense.None)
	}
	if r.machine.Terminal(r.state) {
		res := r.machine.Handle(ctx, in)
		return r.outcome(res.Messages, offense.None)
	}

	if !r.machine.Exhausted(r.state, r.trial) && r.screen != nil {
		v := r.screen.Screen(ctx, input, r.Scene(), r.offenseCount)
		r.offenseCount = v.OffenseCount
		if v.Handled {
			if v.Lockout {
				r.state = Lockout
				r.final = v.Messages
				r.log.Info("run locked out for meta-breaking", zap.Int("offenses", v.OffenseCount))
			}
			return r.outcome(v.Messages, v.Kind)
		}
	}

	res := r.machine.Handle(ctx, in)
	if res.Next == "" {
		res.Next = r.state
	}
	if res.Next != r.state {
		r.log.Debug("transition", zap.String("from", string(r.state)), zap.String("to", string(res.Next)))
	}
	r.state = res.Next
	r.trial = res.Trial
	return r.outcome(res.Messages, offense.None)
}

func (r *Run[T]) outcome(msgs story.Sequence, kind offense.Kind) Outcome {
	if len(msgs) == 0 {
		msgs = story.Filler(1000)
	}
	return Outcome{Messages: msgs, State: r.state, Offense: kind, OffenseCount: r.offenseCount}
}

func (r *Run[T]) Snapshot() Snapshot {
	raw, err := json.Marshal(r.trial)
	if err != nil {
		r.log.Warn("failed to encode trial state", zap.Error(err))
		raw = json.RawMessage("null")
	}
	return Snapshot{
		Scene:        r.Scene(),
		State:        r.state,
		Turns:        r.machine.Turns(r.trial),
		OffenseCount: r.offenseCount,
		Trial:        raw,
	}
}

// Clone copies the run so a step can be computed and thrown away.
func (r *Run[T]) Clone() Play {
	c := *r
	c.trial = r.trial.Clone()
	c.final = append(story.Sequence(nil), r.final...)
	return &c
}
