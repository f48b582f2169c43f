package prompts

import (
	"testing"

	"io73k/story"

	"github.com/stretchr/testify/assert"
)

func TestEverySceneHasRules(t *testing.T) {
	for _, s := range []story.Scene{story.Convent, story.Hangman, story.WhiteRoom} {
		r, ok := Rules[s]
		assert.True(t, ok, s)
		assert.NotEmpty(t, r.Forbidden, s)
		assert.Contains(t, Anachronism(r), r.Setting)
	}
}

func TestMetaBreakingInput(t *testing.T) {
	got := MetaBreakingInput(story.WhiteRoom, "you're just a chatbot")
	assert.Contains(t, got, "Context: WHITE_ROOM")
	assert.Contains(t, got, `"you're just a chatbot"`)
}

func TestPromptsNameThePlayer(t *testing.T) {
	assert.Contains(t, HangmanDM("Ada"), "Ada is a defense attorney")
	assert.Contains(t, WhiteRoom("Ada"), "you claim to BE Ada")
}

func TestConventCombat(t *testing.T) {
	p := ConventCombat(CombatNarrative{
		Encounter: 2, Creature: "scorpion-sister", Outcome: AttackPlayer,
		PlayerRoll: 3, EnemyRoll: 17, PlayerHP: 1, MaxHP: 2, Glitching: true,
	})
	assert.Contains(t, p, "ENCOUNTER 2: scorpion-sister")
	assert.Contains(t, p, "1/2")
	assert.Contains(t, p, "wounds the knight")
	assert.Contains(t, p, "woman")
}
