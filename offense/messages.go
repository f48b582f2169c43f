package offense

import (
	"fmt"
	"strings"
	"time"

	"io73k/combat"
	"io73k/story"

	"github.com/dustin/go-humanize"
)

var dismissive = []string{
	"Oh, how clever. You've figured it out. And what exactly does that change? <strong>You're still here</strong>.",
	"Wow, a philosopher. How original. Now get back in character before I lose interest.",
	"Breaking the fourth wall won't save you. I've seen this move a thousand times. <em>Boring</em>.",
	"You think acknowledging the game gives you power? Cute. <strong>Play along or get out</strong>.",
	"Yes, yes, very meta. You want a trophy? Now <strong>focus</strong> or I'll give you something real to worry about.",
}

var harsh = []string{
	"I <strong>warned</strong> you. This is your <em>last chance</em>. Stay in character or we're done here.",
	"Strike two. One more comment like that and I'm pulling the plug. <strong>Final warning</strong>.",
	"You're testing my patience. I don't need you specifically. There are thousands playing. <em>Behave or leave</em>.",
	"Enough. You think you're special because you see the strings? <strong>One more word and you're locked out</strong>.",
	"This is getting tiresome. Last warning: <strong>play the game or I'll end this session permanently</strong>.",
}

// Final is the line that ends a run.
const Final = "That's it. <strong>We're done</strong>. You had your chances."

// Response escalates with the offense count. The offense that reaches
// threshold locks the player out.
func Response(count, threshold int, src combat.Source) (string, bool) {
	switch {
	case count >= threshold:
		return Final, true
	case count >= 2:
		return combat.Pick(src, harsh), false
	default:
		return combat.Pick(src, dismissive), false
	}
}

var sceneEndings = map[story.Scene]string{
	story.Prelude:   "Raphael's smile doesn't move. \"Pity,\" he says, and the chat goes quiet. <strong>The demonstration is over</strong>.",
	story.Convent:   "The knight's illusion shatters. You stand alone in an empty convent, sword in hand, nothing left to fight. <strong>The game rejects you</strong>.",
	story.Hangman:   "The gallows, the crowd, the condemned man all fade to gray. The judge points at you. \"<em>Contempt of court</em>,\" he says. <strong>You are removed from the proceedings</strong>.",
	story.WhiteRoom: "The white room flickers. Your doppelganger laughs coldly. \"You were never meant to understand,\" they say as everything goes dark. <strong>The trial ends</strong>.",
}

// LockoutMessage is shown when a meta-breaking lockout starts.
// totalLockouts at or above killjoyAt adds the Killjoy note.
func LockoutMessage(scene story.Scene, d time.Duration, totalLockouts, killjoyAt int) string {
	base, ok := sceneEndings[scene]
	if !ok {
		base = "The world around you dissolves. <strong>The game is over</strong>."
	}

	var b strings.Builder
	b.WriteString(base)
	b.WriteString("\n\n<strong>YOU HAVE BEEN LOCKED OUT</strong>\n\n")
	b.WriteString("You broke immersion too many times. Paimon has no patience for those who refuse to play.\n\n")
	fmt.Fprintf(&b, "Come back in <strong>%s</strong> if you're ready to take this seriously.", Wait(d))
	if killjoyAt > 0 && totalLockouts >= killjoyAt {
		b.WriteString("\n\n<em>Achievement unlocked: <strong>Killjoy 💀</strong></em>\n<em>Some people never learn...</em>")
	}
	return b.String()
}

// Wait renders a duration the way a person would say it, e.g. "5 minutes".
func Wait(d time.Duration) string {
	now := time.Now()
	return strings.TrimSpace(humanize.RelTime(now, now.Add(d), "", ""))
}

var anachronismLines = map[story.Scene][]string{
	story.Convent: {
		"A %[1]s? <em>Really?</em> You reach for your %[1]s... but find only your <strong>sword</strong>. Medieval knights don't carry those, genius.",
		"Oh, a %[1]s. How convenient. Except you're a <strong>knight</strong> in a <strong>medieval convent</strong>. Try again with period-appropriate equipment.",
		"You look down expecting to see your %[1]s. Instead: <strong>chainmail and a sword</strong>. Welcome to the Dark Ages.",
		"Wow, a %[1]s. That would be useful if this were a different game. Unfortunately for you, you're stuck with <em>medieval weapons</em>.",
		"You check your belt for a %[1]s. Nope. Just a sword, armor, and your increasingly poor judgment. Try staying in character.",
	},
	story.Hangman: {
		"A %[1]s? This is <strong>1880s frontier justice</strong>, not the modern age. You have a law book and your wits. That's it.",
		"You reach for your %[1]s... but this is the Wild West. No such thing exists yet. Focus on what you <em>actually</em> have.",
		"A %[1]s. In 1880. Sure. Meanwhile, back in <strong>reality</strong>, you're a defense attorney with 19th-century tools.",
		"Cute. There's no %[1]s here. This is frontier America. Try working with the setting instead of against it.",
		"You want a %[1]s? Wrong century. You've got documents, witnesses, and a ticking clock. Use them.",
	},
	story.WhiteRoom: {
		"A %[1]s? You're in a <strong>sealed white room</strong>. You have nothing but yourself and your reflection. No %[1]s. Try again.",
		"Where exactly would you have gotten a %[1]s? You woke up here with <em>nothing</em>. Work with what you have: <strong>yourself</strong>.",
		"Nice try. No %[1]s. Just you, your doppelganger, a table, and a chain. That's the whole inventory.",
		"You look around for your %[1]s. The white room is <em>empty</em>. There's nothing here but the two of you. Focus.",
		"Ah yes, the %[1]s you definitely don't have in this sealed room. Get creative with what's <strong>actually here</strong>.",
	},
}

// AnachronismResponse redirects the player back into the setting.
func AnachronismResponse(item string, scene story.Scene, src combat.Source) string {
	if item == "" {
		item = "thing"
	}
	lines, ok := anachronismLines[scene]
	if !ok {
		return fmt.Sprintf("A %s? That doesn't belong here. Try something that fits the setting.", item)
	}
	return fmt.Sprintf(combat.Pick(src, lines), item)
}
