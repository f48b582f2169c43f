package intent

import (
	"strings"

	"io73k/prompts"
)

// Convent combat intents.
const (
	Attack  Intent = "ATTACK"
	Flee    Intent = "FLEE"
	Talk    Intent = "TALK"
	Help    Intent = "HELP"
	Examine Intent = "EXAMINE"
)

// White room and hangman intents.
const (
	Fight     Intent = "FIGHT"
	Surrender Intent = "SURRENDER"
	Rescue    Intent = "RESCUE"
	Explore   Intent = "EXPLORE"
)

// Prelude answers to "am I right?".
const (
	Confirm Intent = "YES"
	Deny    Intent = "NO"
)

var ConventRules = []Rule{
	{Attack, []string{"attack", "strike", "swing", "slash", "stab", "kill", "fight", "hit", "charge", "cut"}},
	{Flee, []string{"flee", "run", "run away", "retreat", "escape", "hide"}},
	{Talk, []string{"talk", "speak", "ask", "say", "plead", "pray", "shout", "call out"}},
	{Help, []string{"help", "heal", "spare", "comfort", "bandage", "save"}},
	{Examine, []string{"examine", "look", "inspect", "observe", "wait", "watch", "study"}},
}

// WhiteRoomRules leaves out the bare "no" the scripted fallback once used;
// it matched too many unrelated sentences.
var WhiteRoomRules = []Rule{
	{Fight, []string{"fight", "attack", "defend", "survive", "kill", "punch", "hit", "strike", "win", "strangle", "choke"}},
	{Surrender, []string{"surrender", "give up", "die", "sacrifice", "let them", "won't fight", "refuse", "mercy", "peace"}},
}

var HangmanRules = []Rule{
	{Fight, []string{"fight", "attack", "shoot", "draw", "punch", "gun", "tackle", "kill"}},
	{Rescue, []string{"free him", "cut the rope", "save him", "untie", "rescue", "pardon", "release", "stop the hanging", "cut him down"}},
}

var PreludeRules = []Rule{
	{Confirm, []string{"yes", "yeah", "yep", "yup", "right", "correct", "exactly", "how did you", "you got it", "that's it"}},
	{Deny, []string{"no", "nope", "nah", "wrong", "incorrect", "not even close", "not it"}},
}

// Prelude reads a yes or a no. Anything unclear is a no; Paimon guesses again.
func Prelude() Keyword {
	return Keyword{Rules: PreludeRules, Default: Deny}
}

// Convent returns the convent's combat classifier.
func Convent(oracle Oracle) AIAssisted {
	return AIAssisted{
		Keyword:  Keyword{Rules: ConventRules, Default: Attack},
		Oracle:   oracle,
		System:   prompts.ConventIntent,
		Options:  []Intent{Attack, Flee, Talk, Help, Examine},
		Fallback: Attack,
	}
}

// Hangman never asks the model; its narrator already reacts to the input.
func Hangman() Keyword {
	return Keyword{Rules: HangmanRules, Default: Explore}
}

// WhiteRoom is the keyword tier used when the combined model call fails.
func WhiteRoom() Keyword {
	return Keyword{Rules: WhiteRoomRules, Default: Explore}
}

// IsOptionsRequest reports whether the player is asking what they can do.
func IsOptionsRequest(input string) bool {
	lower := strings.ToLower(strings.TrimSpace(input))
	if lower == "options" || lower == "help" {
		return true
	}
	for _, p := range []string{"what can i do", "what should i do", "what do i do", "what are my options", "what now", "hint", "commands"} {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// Direction is a step on the convent map.
type Direction struct {
	Name     string
	Row, Col int
}

var (
	North = Direction{"north", -1, 0}
	South = Direction{"south", 1, 0}
	West  = Direction{"west", 0, -1}
	East  = Direction{"east", 0, 1}
)

// Movement returns the direction the player asked to walk in.
func Movement(input string) (Direction, bool) {
	text := words(input)
	switch {
	case containsAny(text, []string{"north", "up"}):
		return North, true
	case containsAny(text, []string{"south", "down"}):
		return South, true
	case containsAny(text, []string{"west", "left"}):
		return West, true
	case containsAny(text, []string{"east", "right"}):
		return East, true
	}
	return Direction{}, false
}

// IsSearch reports a request to search the current room.
func IsSearch(input string) bool {
	return Mentions(input, "examine", "search", "look", "inspect", "explore")
}

// IsFight reports an explicit request to start a fight.
func IsFight(input string) bool {
	return Mentions(input, "fight", "attack", "battle", "combat")
}
