package story

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCumulative(t *testing.T) {
	seq := Cumulative(
		Text(1000, "Close your eyes for a moment. Imagine..."),
		Text(2000, "You're a knight."),
		Image(2000, "/assets/convent_intro.webp"),
		Text(0, "Before you stands a dark convent."),
	)

	delays := []int{}
	for _, d := range seq {
		delays = append(delays, d.DelayMs)
	}
	assert.Equal(t, []int{1000, 3000, 5000, 5000}, delays)
	assert.Equal(t, 5000, seq.End())
	assert.Equal(t, "/assets/convent_intro.webp", seq[2].Image)
}

func TestThenOffsetsSecondSequence(t *testing.T) {
	first := Cumulative(Text(1000, "..."), Text(2000, "..."))
	second := Cumulative(Text(4000, "The other person was real, by the way."))

	joined := first.Then(second)
	assert.Len(t, joined, 3)
	assert.Equal(t, 7000, joined[2].DelayMs)
	assert.Equal(t, 4000, second[0].DelayMs, "input sequences are not modified")
}

func TestEmptySequence(t *testing.T) {
	var s Sequence
	assert.Equal(t, 0, s.End())
	assert.Equal(t, Filler(1000), s.Then(Filler(1000)))
}

func TestContents(t *testing.T) {
	seq := Cumulative(Audio(1000, "/scream.mp3"), Text(0, "a"), Button(100, "b"))
	assert.Equal(t, []string{"a", "b"}, seq.Contents())
	assert.True(t, seq[2].ShowButton)
}

func TestLimitHistory(t *testing.T) {
	var h []ChatMessage
	for i := 0; i < 15; i++ {
		h = append(h, ChatMessage{Role: RoleUser, Content: string(rune('a' + i))})
	}

	limited := LimitHistory(h, 0)
	assert.Len(t, limited, DefaultHistoryLimit)
	assert.Equal(t, "f", limited[0].Content)

	assert.Len(t, LimitHistory(h, 3), 3)
	assert.Len(t, LimitHistory(h[:2], 5), 2)
}

func TestLimitHistoryOpensWithUser(t *testing.T) {
	var h []ChatMessage
	for i := 0; i < 5; i++ {
		h = append(h,
			ChatMessage{Role: RoleUser, Content: "q"},
			ChatMessage{Role: RoleAssistant, Content: "a"},
		)
	}
	h = append(h, ChatMessage{Role: RoleUser, Content: "last"})

	limited := LimitHistory(h, 10)
	assert.Len(t, limited, 9)
	assert.Equal(t, RoleUser, limited[0].Role)
	assert.Equal(t, "last", limited[len(limited)-1].Content)
}

func TestUserTurns(t *testing.T) {
	h := []ChatMessage{
		{Role: RoleUser, Content: "who are you?"},
		{Role: RoleAssistant, Content: "I should be asking you that."},
		{Role: RoleUser, Content: "I look around"},
	}
	assert.Equal(t, 2, UserTurns(h))
	assert.Equal(t, 0, UserTurns(nil))
}
