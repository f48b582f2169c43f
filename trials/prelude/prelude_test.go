package prelude

import (
	"context"
	"testing"
	"time"

	"io73k/trials"
	"io73k/trials/trialtest"
	"io73k/unlock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	m       *Machine
	achieve *trialtest.Unlocker
	codex   *trialtest.Unlocker
}

func newFixture() *fixture {
	f := &fixture{achieve: &trialtest.Unlocker{}, codex: &trialtest.Unlocker{}}
	f.m = New(trials.Deps{
		Config:       trialtest.Config(),
		Achievements: f.achieve,
		Codex:        f.codex,
		Now:          func() time.Time { return time.Date(2026, 10, 15, 23, 30, 0, 0, time.UTC) },
	})
	return f
}

func (f *fixture) step(state trials.State, tr Trial, text string) result {
	return f.m.Handle(context.Background(), trials.Input[Trial]{
		Text: text, State: state, Trial: tr, PlayerName: "Ada",
	})
}

func TestIntroNamesRaphael(t *testing.T) {
	intro := newFixture().m.Intro("Ada")
	assert.Contains(t, intro.Contents()[0], "I'm Raphael")
	assert.True(t, intro[len(intro)-1].ShowButton)
}

func TestFirstGuessIs37(t *testing.T) {
	f := newFixture()
	res := f.step(trials.Intro, f.m.Initial(), "continue")

	assert.Equal(t, trials.Exploration, res.Next)
	assert.Equal(t, 1, res.Trial.Guesses)
	assert.Contains(t, res.Messages.Contents()[0], "Your number is 37.")
}

func TestConfirmRevealsTrueName(t *testing.T) {
	f := newFixture()
	res := f.step(trials.Exploration, Trial{Guesses: 2}, "Yes! How did you know?")

	assert.Equal(t, trials.Complete, res.Next)
	assert.True(t, res.Trial.Guessed)
	assert.Contains(t, res.Messages.Contents(), "Ha! Of course.")
	assert.Contains(t, res.Messages.Contents(), "<strong>I'm Paimon</strong> 🙂")
	assert.True(t, f.achieve.Has(unlock.TrueName))
	assert.True(t, f.codex.Has(unlock.CodexRaphael))
}

func TestDenialGuessesAgain(t *testing.T) {
	f := newFixture()
	tr := Trial{Guesses: 1}

	res := f.step(trials.Exploration, tr, "nope")
	assert.Equal(t, trials.Exploration, res.Next)
	assert.Equal(t, "Wait... <strong>13?</strong>", res.Messages.Contents()[0])

	res = f.step(trials.Exploration, res.Trial, "no, not even close")
	assert.Equal(t, "Wait... <strong>17?</strong>", res.Messages.Contents()[0])
	assert.Equal(t, 3, res.Trial.Guesses)
	assert.False(t, f.achieve.Has(unlock.TrueName))
}

func TestOutOfGuessesReadsTheClock(t *testing.T) {
	f := newFixture()
	tr := Trial{Guesses: len(guesses)}
	require.True(t, f.m.Exhausted(trials.Exploration, tr))

	res := f.step(trials.Exploration, tr, "wrong again")
	assert.Equal(t, trials.Complete, res.Next)
	assert.Contains(t, res.Messages.Contents()[1], "the middle of the night")
	assert.True(t, f.achieve.Has(unlock.TrueName))
}

func TestAmbiguousAnswerCountsAsNo(t *testing.T) {
	f := newFixture()
	res := f.step(trials.Exploration, Trial{Guesses: 1}, "yes and no")
	assert.Equal(t, 2, res.Trial.Guesses)
}

func TestCompleteIsInert(t *testing.T) {
	f := newFixture()
	res := f.step(trials.Complete, Trial{Guesses: 1, Guessed: true}, "hello?")
	assert.Equal(t, trials.Complete, res.Next)
	assert.Equal(t, []string{"..."}, res.Messages.Contents())
	assert.True(t, f.m.Terminal(trials.Complete))
}

func TestTimeOfDay(t *testing.T) {
	assert.Equal(t, "morning", TimeOfDay(5))
	assert.Equal(t, "afternoon", TimeOfDay(12))
	assert.Equal(t, "evening", TimeOfDay(20))
	assert.Equal(t, "the middle of the night", TimeOfDay(21))
	assert.Equal(t, "the middle of the night", TimeOfDay(0))
}
