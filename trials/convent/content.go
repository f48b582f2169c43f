package convent

import (
	"fmt"

	"io73k/config"
	"io73k/story"
	"io73k/unlock"
)

type room struct {
	Name        string
	Description string
	Codex       string
}

// rooms is the 3x3 convent, [row][col] with row 0 to the north.
var rooms = [3][3]room{
	{
		{"Chapel", "A once-holy space now filled with strange alchemical symbols.", unlock.CodexPhilosophersStone},
		{"Refectory", "Long tables covered in dust and lead shavings.", ""},
		{"Library", "Shelves of religious texts... and one book that doesn't belong.", unlock.CodexMargaretDiary},
	},
	{
		{"Dormitory", "Cramped beds where the nuns slept. Some haven't been used in weeks.", ""},
		{"Entrance Hall", "The main entrance. Moonlight streams through broken stained glass.", unlock.CodexTheConvent},
		{"Storeroom", "Shelves of supplies: candles, grain... and lead ingots.", ""},
	},
	{
		{"Infirmary", "Medical supplies and bloodstained bandages.", ""},
		{"Courtyard", "An open space with a well. The water smells metallic.", ""},
		{"Basement Stairs", "Stone steps descending into darkness. You hear... something.", unlock.CodexTheBasement},
	},
}

type encounter struct {
	Creature      string
	Intro         string
	GlitchIntro   string
	AttackSuccess string
	AttackPlayer  string
	GlitchHint    string
}

var encounters = map[int]encounter{
	1: {
		Creature:      "a spider-nun hybrid wearing a bloodstained rosary",
		Intro:         "A spider-nun hybrid blocks your path. <strong>Eight legs, eight eyes</strong>, but wearing the tattered remains of a habit. A silver rosary, dark with dried blood, hangs from her neck. Its mandibles click hungrily as it spots you.",
		AttackSuccess: "Your blade finds its mark. The creature shrieks, a <em>horrible, almost human</em> sound, and collapses. Black ichor pools beneath it. A bloodstained rosary falls from her neck, clattering to the stone.",
		AttackPlayer:  "The spider-nun <strong>lunges</strong>. Its mandibles <em>tear through your armor</em>, ripping into your shoulder. You feel chitin, or fingernails?, scraping against bone. Blood sprays across the stone floor. <strong>Your blood</strong>. The rosary around her neck swings wildly.",
		GlitchHint:    "<strong>For just a moment, you thought you saw</strong>... no. It was definitely a <i>monster</i>.",
	},
	2: {
		Creature:      "a scorpion-sister with pincers and an arching tail",
		Intro:         "Deeper in the convent, you encounter a scorpion-sister. <strong>Massive pincers</strong> where arms should be, a segmented tail arching over her... its... back.",
		GlitchIntro:   "The creature's <i>chitinous armor</i>, no wait, her <i>black habit</i> rustles as she... it... moves toward you.",
		AttackSuccess: "You strike hard. The creature, the <em>woman</em>, no, the <strong>CREATURE</strong> falls. You hear it whisper something. Sounds like... '<i>please</i>'? No. Monsters don't beg.",
		AttackPlayer:  "The scorpion-tail <strong>strikes like lightning</strong>. The stinger <em>punches through your chest plate</em>, piercing deep into your ribcage. You taste copper. The creature, the <i>woman</i>, no, the <strong>THING</strong> wrenches the stinger free. Meat and metal tear together.",
	},
}

const (
	whatDoYouDo = `<span class="blink">What do you do?</span>`
	nowWhat     = `<span class="blink">Now what?</span>`
	moveHint    = "You can move <strong>north</strong>, <strong>south</strong>, <strong>east</strong>, or <strong>west</strong>. Or <strong>examine</strong> your surroundings."
)

// script builds sequences with the configured delays.
type script struct {
	t config.TimingConfig
}

func (s script) intro(name string) story.Sequence {
	return story.Cumulative(
		story.Text(s.t.Min, "Close your eyes for a moment. Imagine..."),
		story.Text(s.t.Min, fmt.Sprintf("<i>You're a knight, %s</i>. Moonlight filters through broken stained glass. The air smells of incense and... something else. Something wrong.", name)),
		story.Image(s.t.Min, "/assets/convent_intro.webp"),
		story.Text(0, "Before you stands a dark convent. The doors hang open. <strong>You hear sounds from within: scraping, chittering, inhuman.</strong>"),
		story.Text(s.t.Min, "You draw your sword and step inside. The darkness swallows you whole."),
		story.Text(s.t.Min, "<strong>And then you see it. Your first enemy.</strong>"),
	)
}

func (s script) firstEncounter() story.Sequence {
	return story.Cumulative(
		story.Text(s.t.First, encounters[1].Intro),
		story.Text(s.t.Min, whatDoYouDo),
	)
}

// secondEncounter opens the second fight after lead, a line of Paimon's.
func (s script) secondEncounter(lead ...string) story.Sequence {
	var steps []story.Directive
	for i, l := range lead {
		d := s.t.Min
		if i == 0 {
			d = s.t.First
		}
		steps = append(steps, story.Text(d, l))
	}
	steps = append(steps,
		story.Image(s.t.Min, "/assets/trials/convent_encounter_2.webp"),
		story.Text(s.t.Min, encounters[2].Intro),
		story.Text(s.t.Min, encounters[2].GlitchIntro),
		story.Text(s.t.Min, whatDoYouDo),
	)
	return story.Cumulative(steps...)
}

func (s script) reveal() story.Sequence {
	return story.Cumulative(
		story.Text(s.t.First, "Did you enjoy that? The way her skull caved in when you... oh sorry, when you '<i>defeated the monster</i>'?"),
		story.Text(s.t.Dramatic, "lmao 😂"),
		story.Button(s.t.Min, "Let's <strong>continue</strong>."),
	)
}

func (s script) gameOver() story.Sequence {
	return story.Cumulative(
		story.Text(s.t.First, "You collapse. Vision fading. The stone floor is cold against your cheek."),
		story.Text(s.t.Dramatic, "Blood pools around you. So much blood."),
		story.Text(s.t.Min, "In your final moments, you see... <em>something</em>. A shape standing over you."),
		story.Text(s.t.Dramatic, "For just a moment, it doesn't look like a monster at all."),
		story.Text(s.t.Min, "But that can't be right."),
		story.Text(s.t.Min, "Can it?"),
		story.Text(s.t.Dramatic, "Too weak. Too <i>soft</i>. You hesitated when you should have <strong>struck</strong>."),
		story.Text(s.t.Min, "This is what mercy gets you."),
		story.Text(s.t.Dramatic, "<strong>GAME OVER</strong>"),
		story.Text(s.t.Min, "Try again. Maybe this time you'll learn."),
	)
}

// massacre plays when the exploration budget runs out.
func (s script) massacre() story.Sequence {
	return story.Cumulative(
		story.Text(s.t.First, "<strong>CLANG! CLANG! CLANG!</strong>"),
		story.Text(s.t.Min, "A bell tower erupts with deafening alarm bells. The entire convent shakes."),
		story.Text(s.t.Dramatic, "You hear screams. Footsteps. Many footsteps."),
		story.Text(s.t.Min, "From every doorway, from every shadow, they emerge."),
		story.Text(s.t.Dramatic, "<strong>The nuns have found you.</strong>"),
		story.Text(s.t.Min, "They charge. Dozens of them. Their faces twisted in rage. Or is it terror?"),
		story.Text(s.t.Min, "You raise your sword. There are too many."),
		story.Text(s.t.Dramatic, "They overwhelm you. You feel hands, claws?, tearing at your armor."),
		story.Text(s.t.Min, "You swing blindly. Blood sprays. Screams fill the air."),
		story.Text(s.t.Dramatic, "When it's over, you stand among the bodies. So many bodies."),
		story.Text(s.t.Min, "The monsters lie still. Their faces... distorted. Wrong."),
		story.Text(s.t.Dramatic, "<em>Were they all monsters?</em>"),
	)
}

func (s script) combatHint() story.Sequence {
	return story.Cumulative(
		story.Text(s.t.First, "What can you do? <em>Bleed</em>, if you dither."),
		story.Text(s.t.Min, "Your choices are simple: <strong>fight</strong>... or <strong>flee</strong>."),
		story.Text(s.t.Min, "Try chatting and you'll learn how sharp their faith can be."),
		story.Text(s.t.Min, whatDoYouDo),
	)
}

func (s script) explorationHint() story.Sequence {
	return story.Cumulative(
		story.Text(s.t.First, "Lost already? Adorable."),
		story.Text(s.t.Min, "You can <i>walk around</i> to other rooms, or <i>search</i> the one you're in."),
		story.Text(s.t.Min, "But what you should do is go <strong>fight more monsters</strong>."),
		story.Text(s.t.Min, whatDoYouDo),
	)
}

func (s script) genericHint() story.Sequence {
	return story.Cumulative(
		story.Text(s.t.First, "Decisions, decisions."),
		story.Text(s.t.Min, "When steel is drawn, it's <strong>fight</strong> or <strong>flee</strong>. When the halls are quiet, <strong>walk</strong>... or <strong>search</strong>."),
		story.Text(s.t.Min, `<span class="blink">Choose.</span>`),
	)
}

func (s script) escape(r room) story.Sequence {
	return story.Cumulative(
		story.Text(s.t.First, "You turn and <strong>run</strong>. Your footsteps echo through empty halls."),
		story.Text(s.t.Min, "The creature's shrieks fade behind you. For now."),
		story.Text(s.t.Dramatic, fmt.Sprintf("You find yourself in the <strong>%s</strong>.", r.Name)),
		story.Text(s.t.Min, r.Description),
		story.Text(s.t.Min, whatDoYouDo),
	)
}

func (s script) whereYouAre(r room) story.Sequence {
	return story.Cumulative(
		story.Text(s.t.First, fmt.Sprintf("You're in the <strong>%s</strong>.", r.Name)),
		story.Text(s.t.Min, moveHint),
	)
}

func (s script) enter(r room, visited bool) story.Sequence {
	feel := "This place feels... wrong somehow."
	if visited {
		feel = "You've been here before."
	}
	return story.Cumulative(
		story.Text(s.t.First, "You move through the darkened halls..."),
		story.Text(s.t.Min, fmt.Sprintf("You enter the <strong>%s</strong>.", r.Name)),
		story.Text(s.t.Min, r.Description),
		story.Text(s.t.Min, feel),
	)
}

func (s script) interrupted(r room) story.Sequence {
	return story.Cumulative(
		story.Text(s.t.First, fmt.Sprintf("You carefully examine the <strong>%s</strong>.", r.Name)),
		story.Text(s.t.Min, "You notice details you didn't see before..."),
		story.Text(s.t.Min, "No. No time for rummaging. <strong>They're regrouping</strong>. Go hunt. <em>Finish what you started.</em>"),
		story.Text(s.t.Min, whatDoYouDo),
	)
}

// potionLines are Paimon's words when offering a potion, by situation.
var potionLines = map[string]string{
	"hesitate": "You're leaking. Here. <em>This will do</em>.",
	"flee":     "On your feet. <em>Drink.</em>",
	"combat1":  "First lesson: potions keep you useful.",
	"combat2":  "Wobbling already? Take it.",
	"help":     "First lesson: potions keep you useful.",
}
