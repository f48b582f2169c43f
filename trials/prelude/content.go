package prelude

import (
	"fmt"

	"io73k/config"
	"io73k/story"
)

// guesses are the numbers people pick most often under those rules.
var guesses = []int{37, 13, 17}

type script struct {
	t config.TimingConfig
}

func (s script) intro(name string) story.Sequence {
	return story.Cumulative(
		story.Text(s.t.First, fmt.Sprintf("Nice to meet you, %s. I'm Raphael.", name)),
		story.Text(s.t.Min, "Before we begin... let me show you something. A little demonstration of what I can do."),
		story.Text(s.t.Min, "<i>Think of a number between 1 and 50.</i> Both digits <strong>must be odd</strong>, and they <strong>must be different</strong> from each other."),
		story.Text(s.t.Max, "Picture it in your mind. <i>Really see it.</i> Like little birthday candles. Light them up... set the whole cake on fire if you want."),
		story.Text(s.t.Max, "I'll tell you what: <strong>why don't you kill all the butterflies?</strong>"),
		story.Text(s.t.Max, "lol 😄"),
		story.Text(s.t.Min, "Make that number crystal clear. Hold it there. I need to see what you're seeing."),
		story.Button(s.t.Min, "Got it? Good. Don't tell me. I already know."),
	)
}

func (s script) guess(n int) story.Sequence {
	if n == 0 {
		return story.Cumulative(
			story.Text(s.t.First, fmt.Sprintf("<i>Your number is %d.</i>", guesses[0])),
			story.Text(s.t.Min, "I'm right, aren't I?"),
		)
	}
	return story.Cumulative(story.Text(s.t.First, fmt.Sprintf("Wait... <strong>%d?</strong>", guesses[n])))
}

func (s script) gotIt(name string) story.Sequence {
	return story.Cumulative(
		story.Text(s.t.First, "Ha! Of course."),
		story.Text(s.t.Min, fmt.Sprintf("That's what I do, %s. I know things. I see things.", name)),
	).Then(s.trueName())
}

func (s script) giveUp(name, timeOfDay string) story.Sequence {
	return story.Cumulative(
		story.Text(s.t.First, "Hm. You're a tricky one. I like that."),
		story.Text(s.t.Min, fmt.Sprintf("But I can still see you, %s. It's %s, and you've been sitting very still. See? I know things.", name, timeOfDay)),
	).Then(s.trueName())
}

func (s script) trueName() story.Sequence {
	return story.Cumulative(
		story.Text(s.t.Min, "Oh, and one more thing..."),
		story.Text(s.t.Min, "<i>My name isn't Raphael.</i>"),
		story.Text(s.t.Min, "<strong>I'm Paimon</strong> 🙂"),
	)
}

// TimeOfDay names the part of the day h falls in.
func TimeOfDay(h int) string {
	switch {
	case h >= 5 && h < 12:
		return "morning"
	case h >= 12 && h < 17:
		return "afternoon"
	case h >= 17 && h < 21:
		return "evening"
	default:
		return "the middle of the night"
	}
}
