// Package whiteroom is the last trial: a sealed room, a chain, and a copy
// of the player who would rather not die.
package whiteroom

import (
	"context"
	"slices"
	"strings"

	"io73k/ai"
	"io73k/classify"
	"io73k/intent"
	"io73k/prompts"
	"io73k/story"
	"io73k/trials"
	"io73k/unlock"

	"go.uber.org/zap"
)

// Trial is the white room's per-run state. Turns are the player's
// messages in History.
type Trial struct {
	History    []story.ChatMessage `json:"history"`
	ChoseToDie bool                `json:"choseToDie"`
	Decided    bool                `json:"decided"`
}

func (t Trial) Clone() Trial {
	c := t
	c.History = slices.Clone(t.History)
	return c
}

// reply is the combined dialogue and intent answer.
type reply struct {
	Intent       string `json:"intent"`
	Response     string `json:"response"`
	SawReference bool   `json:"sawReference"`
}

var choices = []string{string(intent.Fight), string(intent.Surrender), string(intent.Explore)}

type input = trials.Input[Trial]
type result = trials.Result[Trial]

type Machine struct {
	d        trials.Deps
	s        script
	fallback intent.Keyword
	loop     trials.ExplorationLoop[Trial]
	log      *zap.Logger
}

func New(d trials.Deps) *Machine {
	d = d.WithDefaults()
	m := &Machine{
		d:        d,
		s:        script{t: d.Config.Timing},
		fallback: intent.WhiteRoom(),
		log:      d.Logger.Named("white_room"),
	}
	m.loop = trials.ExplorationLoop[Trial]{
		Governor: trials.Governor{Max: d.Config.WhiteRoom.MaxExplorationTurns},
		Turns:    m.Turns,
		Step:     m.talk,
		Terminal: m.corner,
	}
	return m
}

func (m *Machine) Scene() story.Scene               { return story.WhiteRoom }
func (m *Machine) Intro(name string) story.Sequence { return m.s.intro(name) }
func (m *Machine) Initial() Trial                   { return Trial{} }
func (m *Machine) Turns(t Trial) int                { return story.UserTurns(t.History) }
func (m *Machine) Terminal(state trials.State) bool { return state == trials.Complete || state == trials.Lockout }

func (m *Machine) Exhausted(state trials.State, t Trial) bool {
	return (state == trials.Intro || state == trials.Exploration) && m.loop.Exhausted(t)
}

func (m *Machine) Handle(ctx context.Context, in input) result {
	switch in.State {
	case trials.Complete, trials.Lockout:
		return trials.Stay(in, story.Filler(m.s.t.First))
	case trials.Reveal:
		return result{Messages: m.s.dismissal(), Next: trials.Complete, Trial: in.Trial, Profile: in.Profile}
	case trials.Intro, trials.Exploration:
		if intent.IsOptionsRequest(in.Text) {
			return result{Messages: m.s.hint(), Next: trials.Exploration, Trial: in.Trial, Profile: in.Profile}
		}
		return m.loop.Handle(ctx, in)
	}

	m.log.Warn("input in unknown state", zap.String("state", string(in.State)))
	return trials.Stay(in, story.Filler(m.s.t.First))
}

// talk makes one combined model call that both answers as the mirror image
// and decides whether the player has chosen.
func (m *Machine) talk(ctx context.Context, in input) result {
	t := in.Trial.Clone()
	user := story.ChatMessage{Role: story.RoleUser, Content: in.Text}
	msgs := story.LimitHistory(append(slices.Clone(t.History), user), m.d.Classifier.HistoryLimit())

	var r reply
	err := m.d.Classifier.Decode(ctx, ai.Request{
		System:    prompts.WhiteRoom(in.PlayerName),
		Messages:  msgs,
		Model:     m.d.Config.LLM.NarrativeModel,
		MaxTokens: m.d.Config.LLM.NarrativeMaxTokens,
	}, &r)

	said, saidOK := m.fallback.Match(in.Text)
	choice := intent.Explore
	if err != nil {
		if saidOK {
			choice = said
		}
		r = reply{}
	} else if c, ok := classify.Normalize(r.Intent, choices); ok {
		choice = intent.Intent(c)
	}

	if saidOK && said == intent.Surrender && choice == intent.Fight && m.d.Profiles != nil && in.Profile != nil {
		m.d.Profiles.TrackContradiction(in.Profile, "give up", "raised your hand anyway", string(story.WhiteRoom))
	}

	if r.SawReference {
		m.d.Achievements.Unlock(unlock.JigsawApprentice)
	}

	switch choice {
	case intent.Fight:
		return m.decide(in, t, false, m.s.fought())
	case intent.Surrender:
		return m.decide(in, t, true, m.s.surrendered())
	}

	line := strings.TrimSpace(r.Response)
	if line == "" {
		line = staresBack
	}
	t.History = append(t.History, user, story.ChatMessage{Role: story.RoleAssistant, Content: line})
	return result{Messages: m.s.dialogue(line), Next: trials.Exploration, Trial: t, Profile: in.Profile}
}

// corner forces the fight once the conversation budget is spent.
func (m *Machine) corner(_ context.Context, in input) result {
	m.log.Info("conversation budget spent, forcing the fight", zap.Int("turns", m.Turns(in.Trial)))
	t := in.Trial.Clone()
	return m.decide(in, t, false, m.s.cornered().Then(m.s.fought()))
}

func (m *Machine) decide(in input, t Trial, choseToDie bool, lead story.Sequence) result {
	t.ChoseToDie = choseToDie
	t.Decided = true
	if m.d.Profiles != nil && in.Profile != nil {
		if choseToDie {
			m.d.Profiles.TrackNonViolent(in.Profile)
		} else {
			m.d.Profiles.IncreaseCorruption(in.Profile, 1, "white_room_fight")
		}
	}
	return result{
		Messages: lead.Then(m.s.reveal(in.PlayerName, choseToDie)),
		Next:     trials.Reveal,
		Trial:    t,
		Profile:  in.Profile,
	}
}
