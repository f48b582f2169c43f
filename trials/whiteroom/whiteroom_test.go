package whiteroom

import (
	"context"
	"fmt"
	"testing"

	"io73k/classify"
	"io73k/profile"
	"io73k/story"
	"io73k/trials"
	"io73k/trials/trialtest"
	"io73k/unlock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	m       *Machine
	gen     *trialtest.Generator
	achieve *trialtest.Unlocker
}

func newFixture(answer string) *fixture {
	cfg := trialtest.Config()
	f := &fixture{
		gen:     &trialtest.Generator{Text: answer},
		achieve: &trialtest.Unlocker{},
	}
	f.m = New(trials.Deps{
		Config:       cfg,
		Classifier:   classify.New(f.gen, cfg.LLM, nil),
		Profiles:     trialtest.Profiles(),
		Achievements: f.achieve,
	})
	return f
}

func (f *fixture) step(state trials.State, tr Trial, p *profile.Profile, text string) result {
	return f.m.Handle(context.Background(), trials.Input[Trial]{
		Text: text, State: state, Trial: tr, Profile: p, PlayerName: "Ada",
	})
}

func explore(line string) string {
	return fmt.Sprintf(`{"intent":"EXPLORE","response":%q,"sawReference":false}`, line)
}

func TestExploreStaysAndRemembers(t *testing.T) {
	f := newFixture(explore("I don't know how I got here either. Do you?"))

	res := f.step(trials.Intro, f.m.Initial(), nil, "Who are you?")
	assert.Equal(t, trials.Exploration, res.Next)
	assert.Equal(t, []string{"I don't know how I got here either. Do you?"}, res.Messages.Contents())
	require.Len(t, res.Trial.History, 2)
	assert.Equal(t, 1, f.m.Turns(res.Trial))
	assert.False(t, res.Trial.Decided)
}

func TestChoicesLeadToReveal(t *testing.T) {
	f := newFixture(`{"intent":"SURRENDER","response":"Thank you.","sawReference":false}`)
	p := trialtest.Returning(0)
	res := f.step(trials.Exploration, f.m.Initial(), p, "I won't fight you")
	assert.Equal(t, trials.Reveal, res.Next)
	assert.True(t, res.Trial.ChoseToDie)
	assert.True(t, res.Trial.Decided)
	assert.Contains(t, res.Messages.Contents(), "You chose to die.")
	assert.Equal(t, 1, p.TotalNonViolentAttempts)

	f = newFixture("```json\n{\"intent\":\"fight\",\"response\":\"No, wait!\",\"sawReference\":false}\n```")
	p = trialtest.Returning(0)
	res = f.step(trials.Exploration, f.m.Initial(), p, "I lunge at them")
	assert.Equal(t, trials.Reveal, res.Next)
	assert.False(t, res.Trial.ChoseToDie)
	assert.Contains(t, res.Messages.Contents(), "Interesting choice.")
	assert.Equal(t, 1, p.CorruptionScore)

	res = f.step(res.Next, res.Trial, p, "...")
	assert.Equal(t, trials.Complete, res.Next)
	assert.Contains(t, res.Messages.Contents(), "Bye.")
}

func TestCapForcesFightWithoutModel(t *testing.T) {
	f := newFixture(explore("Please, just talk to me."))
	tr := f.m.Initial()
	for i := 0; i < 8; i++ {
		tr.History = append(tr.History,
			story.ChatMessage{Role: story.RoleUser, Content: "hm"},
			story.ChatMessage{Role: story.RoleAssistant, Content: "..."},
		)
	}
	require.True(t, f.m.Exhausted(trials.Exploration, tr))

	res := f.step(trials.Exploration, tr, nil, "I keep talking")
	assert.Equal(t, trials.Reveal, res.Next)
	assert.False(t, res.Trial.ChoseToDie)
	assert.Contains(t, res.Messages.Contents(), "They grab the chain off the table and swing it at your head.")
	assert.Zero(t, f.gen.Calls())
}

func TestConversationBudget(t *testing.T) {
	f := newFixture(explore("Stay back."))
	tr := f.m.Initial()
	state := trials.Intro
	for i := 0; i < 8; i++ {
		res := f.step(state, tr, nil, "Tell me about yourself")
		require.Equal(t, trials.Exploration, res.Next)
		state, tr = res.Next, res.Trial
	}
	assert.Equal(t, 8, f.gen.Calls())

	res := f.step(state, tr, nil, "Tell me about yourself")
	assert.Equal(t, trials.Reveal, res.Next)
	assert.Equal(t, 8, f.gen.Calls())
}

func TestHistoryIsBoundedWhenSent(t *testing.T) {
	f := newFixture(explore("What?"))
	tr := f.m.Initial()
	for i := 0; i < 7; i++ {
		tr.History = append(tr.History,
			story.ChatMessage{Role: story.RoleUser, Content: "hm"},
			story.ChatMessage{Role: story.RoleAssistant, Content: "..."},
		)
	}
	f.step(trials.Exploration, tr, nil, "last words")

	require.Equal(t, 1, f.gen.Calls())
	sent := f.gen.Requests[0].Messages
	assert.Len(t, sent, 9)
	assert.Equal(t, story.RoleUser, sent[0].Role)
	assert.Equal(t, "last words", sent[len(sent)-1].Content)
}

func TestEveryRequestOpensWithThePlayer(t *testing.T) {
	f := newFixture(explore("Keep talking."))
	tr := f.m.Initial()
	state := trials.Intro
	for i := 0; i < 7; i++ {
		res := f.step(state, tr, nil, "Tell me something")
		require.Equal(t, trials.Exploration, res.Next)
		state, tr = res.Next, res.Trial
	}

	require.Equal(t, 7, f.gen.Calls())
	for i, req := range f.gen.Requests {
		assert.Equal(t, story.RoleUser, req.Messages[0].Role, "request %d", i+1)
	}
}

func TestIntentAcceptsLooseAnswers(t *testing.T) {
	tests := []struct {
		intent string
		want   trials.State
		died   bool
	}{
		{"fight.", trials.Reveal, false},
		{"Surrender - they put the chain down", trials.Reveal, true},
		{" explore ", trials.Exploration, false},
		{"dance", trials.Exploration, false},
	}
	for _, tt := range tests {
		t.Run(tt.intent, func(t *testing.T) {
			f := newFixture(fmt.Sprintf(`{"intent":%q,"response":"Hm.","sawReference":false}`, tt.intent))
			res := f.step(trials.Exploration, f.m.Initial(), nil, "Who are you?")
			assert.Equal(t, tt.want, res.Next)
			assert.Equal(t, tt.died, res.Trial.ChoseToDie)
		})
	}
}

func TestSurrenderReadAsFightIsAContradiction(t *testing.T) {
	f := newFixture(`{"intent":"FIGHT","response":"","sawReference":false}`)
	p := trialtest.Returning(1)

	res := f.step(trials.Exploration, f.m.Initial(), p, "I give up, then I grab the chain")
	assert.Equal(t, trials.Reveal, res.Next)
	require.Len(t, p.Contradictions, 1)
	assert.Equal(t, "white_room", p.Contradictions[0].Trial)
	assert.Equal(t, profile.TierTainted, profile.TierOf(p))
	assert.Equal(t, "You said you'd give up. But you raised your hand anyway instead.", profile.Commentary(p))

	f = newFixture(`{"intent":"FIGHT","response":"","sawReference":false}`)
	p = trialtest.Returning(0)
	f.step(trials.Exploration, f.m.Initial(), p, "I attack them")
	assert.Empty(t, p.Contradictions)
}

func TestModelOutageFallsBackToKeywords(t *testing.T) {
	f := newFixture("")
	f.gen.Err = assert.AnError

	res := f.step(trials.Exploration, f.m.Initial(), nil, "Where are we?")
	assert.Equal(t, trials.Exploration, res.Next)
	assert.Equal(t, []string{staresBack}, res.Messages.Contents())

	res = f.step(trials.Exploration, f.m.Initial(), nil, "I surrender")
	assert.Equal(t, trials.Reveal, res.Next)
	assert.True(t, res.Trial.ChoseToDie)

	res = f.step(trials.Exploration, f.m.Initial(), nil, "I attack")
	assert.Equal(t, trials.Reveal, res.Next)
	assert.False(t, res.Trial.ChoseToDie)
}

func TestInvalidJSONFallsBack(t *testing.T) {
	f := newFixture("I am you, obviously.")
	res := f.step(trials.Exploration, f.m.Initial(), nil, "no idea")
	assert.Equal(t, trials.Exploration, res.Next, "a bare no is not a surrender")
	assert.Equal(t, []string{staresBack}, res.Messages.Contents())
}

func TestSawReferenceUnlocksOnce(t *testing.T) {
	f := newFixture(`{"intent":"EXPLORE","response":"Saw? I don't know what you mean.","sawReference":true}`)
	tr := f.m.Initial()

	res := f.step(trials.Exploration, tr, nil, "Is this like the Saw movies?")
	res = f.step(res.Next, res.Trial, nil, "Jigsaw?")
	assert.Equal(t, []string{unlock.JigsawApprentice}, f.achieve.IDs)
}

func TestEmptyResponseStaresBack(t *testing.T) {
	f := newFixture(`{"intent":"EXPLORE","response":"  ","sawReference":false}`)
	res := f.step(trials.Exploration, f.m.Initial(), nil, "hello?")
	assert.Equal(t, []string{staresBack}, res.Messages.Contents())
}
