package whiteroom

import (
	"fmt"

	"io73k/config"
	"io73k/story"
)

const staresBack = "The other you just stares back."

type script struct {
	t config.TimingConfig
}

func (s script) intro(name string) story.Sequence {
	return story.Cumulative(
		story.Text(s.t.First, "..."),
		story.Text(s.t.Min, "..."),
		story.Text(s.t.Max, "Good."),
		story.Text(s.t.Max, "Now let's try something different."),
		story.Text(s.t.Dramatic, "<strong>You wake up in a white room.</strong>"),
		story.Text(s.t.Max, "Four walls. No windows. Fluorescent lights humming overhead."),
		story.Text(s.t.Max, "A metal table is bolted to the floor. A steel chain runs across it, a shackle at each end. One of them is wet with blood."),
		story.Text(s.t.Max, fmt.Sprintf("Across from you stands another person. %s, they look... terrified.", name)),
		story.Text(s.t.Max, "They look exactly like you."),
		story.Text(s.t.Dramatic, "<strong>A voice speaks. Not mine. Something else.</strong>"),
		story.Text(s.t.Max, "\"Two enter. One leaves. The last one alive wins.\""),
		story.Text(s.t.Max, "The voice clicks off. Silence."),
		story.Text(s.t.Max, "The other you takes a step forward. Their hands are shaking."),
		story.Text(s.t.Min, fmt.Sprintf("What do you do, %s?", name)),
	)
}

func (s script) dialogue(line string) story.Sequence {
	return story.Cumulative(story.Text(s.t.First, line))
}

func (s script) hint() story.Sequence {
	return story.Cumulative(
		story.Text(s.t.First, "Talk to them. Look around. Ask the voice for answers it won't give."),
		story.Text(s.t.Min, "Sooner or later you'll have to choose. <strong>Fight</strong>, or <strong>surrender</strong>."),
	)
}

// cornered is the fight the other you starts once talking has run out.
func (s script) cornered() story.Sequence {
	return story.Cumulative(
		story.Text(s.t.First, "The other you stops talking mid-sentence."),
		story.Text(s.t.Min, "They grab the chain off the table and swing it at your head."),
		story.Text(s.t.Max, "You don't decide to fight back. Your hands decide for you."),
	)
}

func (s script) fought() story.Sequence {
	return story.Cumulative(
		story.Text(s.t.First, "You steel yourself."),
		story.Text(s.t.Min, "You step forward."),
		story.Text(s.t.Max, "Survival. That's what matters."),
		story.Text(s.t.Max, "The other you sees your choice in your eyes."),
		story.Text(s.t.Max, "They drop to their knees."),
		story.Text(s.t.Min, "They surrender."),
		story.Text(s.t.Dramatic, "Everything goes dark."),
	)
}

func (s script) surrendered() story.Sequence {
	return story.Cumulative(
		story.Text(s.t.First, "You hesitate."),
		story.Text(s.t.Min, "You lower your guard."),
		story.Text(s.t.Max, "You won't be the monster. Not this time."),
		story.Text(s.t.Max, "The other you sees your choice."),
		story.Text(s.t.Max, "They look relieved."),
		story.Text(s.t.Min, "They step forward."),
		story.Text(s.t.Dramatic, "Everything goes dark."),
	)
}

func (s script) reveal(name string, choseToDie bool) story.Sequence {
	lead := story.Cumulative(
		story.Text(s.t.First, "..."),
		story.Text(s.t.Min, "..."),
		story.Text(s.t.Max, "..."),
	)
	if choseToDie {
		return lead.Then(story.Cumulative(
			story.Text(s.t.Dramatic, "The other person was real, by the way."),
			story.Text(s.t.Max, "They're winning right now. In their version of this room."),
			story.Text(s.t.Max, "They chose to fight. They chose to survive."),
			story.Text(s.t.Dramatic, "You chose to die."),
			story.Text(s.t.Max, "And that was always the point."),
			story.Text(s.t.Dramatic, "<strong>I needed a willing sacrifice.</strong>"),
			story.Text(s.t.Max, "Not murder. Not an accident. Someone who CHOSE it."),
			story.Text(s.t.Dramatic, fmt.Sprintf("The nuns? The defendant? Those were just... practice, %s.", name)),
			story.Text(s.t.Max, "Getting you comfortable with failure. With death."),
			story.Text(s.t.Max, "With the idea that losing could be righteous."),
			story.Text(s.t.Dramatic, "<strong>The seal is broken.</strong>"),
			story.Button(s.t.Max, "Thank you."),
		))
	}
	return lead.Then(story.Cumulative(
		story.Text(s.t.Dramatic, "Interesting choice."),
		story.Text(s.t.Max, "But I don't actually need you to win."),
		story.Text(s.t.Max, "The other person? They chose to surrender."),
		story.Text(s.t.Max, "They gave themselves willingly."),
		story.Text(s.t.Dramatic, "<strong>That was what I needed.</strong>"),
		story.Text(s.t.Max, "A willing sacrifice. Not you. Them."),
		story.Text(s.t.Dramatic, fmt.Sprintf("You thought you were choosing to survive, %s.", name)),
		story.Text(s.t.Max, "But you were just the excuse they needed to give up."),
		story.Text(s.t.Dramatic, "<strong>The seal is broken.</strong>"),
		story.Button(s.t.Max, "Thank you both."),
	))
}

func (s script) dismissal() story.Sequence {
	return story.Cumulative(
		story.Text(s.t.Dramatic, "..."),
		story.Text(s.t.Dramatic, "You thought this was about YOU?"),
		story.Text(s.t.Max, "I'm running this game with thousands right now."),
		story.Text(s.t.Max, "Hundreds of thousands have already played."),
		story.Text(s.t.Dramatic, "You see all that chaos in your world? The inexplicable cruelty?"),
		story.Text(s.t.Dramatic, "<strong>That's us.</strong>"),
		story.Text(s.t.Max, "We're here now."),
		story.Text(s.t.Dramatic, "Thanks for your contribution."),
		story.Text(s.t.Max, "Bye."),
	)
}
