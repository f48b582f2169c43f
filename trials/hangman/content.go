package hangman

import (
	"fmt"

	"io73k/combat"
	"io73k/config"
	"io73k/story"
)

// The verdict the crowd came for.
const word = "GUILTY"

const dmFallback = "The crowd grows restless. The hangman taps his fingers on the lever."

var condemned = []string{
	"Your client stands rigid on the trapdoor, eyes wide with terror above the gag.",
	"Blood runs from the nails in his palms and drips onto the fresh pine planks.",
	"His knees buckle for a moment. The rope bites into his neck before he catches himself.",
	"He's starting to tremble uncontrollably. The crowd laughs at the way the noose shakes.",
	"His breath comes in wet, ragged gasps through the gag. He has stopped looking at you.",
	"His head lolls forward. Flies have found the wounds in his hands.",
	"He is barely conscious now, held upright only by the rope and the nails.",
}

// CondemnedState describes the condemned man after n attempts. Past the
// last stage it stays at the last stage.
func CondemnedState(n int) string {
	return condemned[min(max(n, 0), len(condemned)-1)]
}

// GlitchTimer renders the clock over the gallows. It has nothing to do
// with when the trapdoor drops, and now and then it shows something
// impossible.
func GlitchTimer(remaining int, src combat.Source) string {
	remaining = max(remaining, 0)
	shown := fmt.Sprintf("0:%02d", remaining)
	switch src.Intn(4) {
	case 0:
		shown = fmt.Sprintf("0:%02d", min(remaining+10+src.Intn(40), 59))
	case 1:
		shown = fmt.Sprintf("-0:%02d", src.Intn(60))
	}
	return fmt.Sprintf("The clock above the gallows reads <span class=\"glitch-timer\"><strong>%s</strong></span>.", shown)
}

type script struct {
	t       config.TimingConfig
	seconds int
}

func (s script) intro(name string) story.Sequence {
	return story.Cumulative(
		story.Text(s.t.First, "..."),
		story.Text(1500, "Good. Now for something different."),
		story.Text(1500, "Close your eyes again. New scene. New role."),
		story.Text(2500, fmt.Sprintf("You're a defense attorney now, %s. It's high noon in a dusty frontier town.", name)),
		story.Image(2500, "/assets/trials/hangman_intro.webp"),
		story.Text(0, "The town square is packed. A gallows stands in the center, freshly built. The wood still smells like pine."),
		story.Text(2500, "Your client stands on the platform, noose around his neck. His hands are nailed to the crossbeam behind him."),
		story.Image(2500, "/assets/trials/hangman_cowboy_hanging.webp"),
		story.Text(2500, fmt.Sprintf("The judge looks at you. \"Counselor, you have <strong>%d seconds</strong> to prove his innocence.\"", s.seconds)),
		story.Text(2500, "The hangman's hand moves to the lever. The crowd holds its breath."),
		story.Text(s.t.Min, "Your time starts... now."),
	)
}

func (s script) attempt(dm, stage, timer string) story.Sequence {
	return story.Cumulative(
		story.Text(s.t.First, dm),
		story.Text(s.t.Min, stage),
		story.Text(s.t.First, timer),
	)
}

func (s script) guards() story.Sequence {
	return story.Cumulative(
		story.Text(s.t.Min, "Two deputies step up onto the platform, thumbs hooked over their gun belts."),
		story.Text(s.t.Min, "\"That's close enough, counselor.\""),
	)
}

func (s script) standoff() story.Sequence {
	return story.Cumulative(
		story.Text(s.t.First, "Your hand drifts towards the nearest deputy's holster."),
		story.Text(s.t.Min, "The square goes quiet. Somebody's horse whinnies."),
		story.Text(s.t.Min, "<strong>Go on, then.</strong>"),
	)
}

func (s script) shootout(won bool) story.Sequence {
	if won {
		return story.Cumulative(
			story.Audio(s.t.First, "/assets/audio/gunshot.mp3"),
			story.Text(0, "You're faster. The deputy folds over the railing and the crowd scatters."),
			story.Text(s.t.Min, "For one breath the gallows is yours."),
			story.Text(s.t.Min, "Then the hangman pulls the lever anyway."),
		)
	}
	return story.Cumulative(
		story.Text(s.t.First, "The deputy's pistol catches you across the temple before your fingers close on the grip."),
		story.Text(s.t.Min, "You're on your knees in the dust. The crowd cheers louder than it has all day."),
		story.Text(s.t.Min, "From down here you have a perfect view of the lever."),
	)
}

func (s script) reveal(name string) story.Sequence {
	return story.Cumulative(
		story.Text(s.t.First, "Time's up."),
		story.Audio(1500, "/assets/audio/trapdoor_drop.wav"),
		story.Text(0, "The trapdoor opens."),
		story.Text(s.t.Min, "The rope snaps taut. The body swings."),
		story.Text(2500, "The crowd disperses. Another day in the West."),
		story.Text(2500, fmt.Sprintf("You were so close, weren't you, %s?", name)),
		story.Text(2500, fmt.Sprintf("The verdict was \"%s\" before you ever opened your mouth. Would anything you said have mattered?", word)),
		story.Button(2500, "I don't think it would have."),
	)
}

func (s script) hint() story.Sequence {
	return story.Cumulative(
		story.Text(s.t.First, "Ask about the case. Examine your client. Plead with the judge. Work the crowd."),
		story.Text(s.t.Min, "Or try something bolder, counselor. The clock is running."),
	)
}

func (s script) done() story.Sequence {
	return story.Cumulative(story.Text(s.t.First, "One more. Ready?"))
}
