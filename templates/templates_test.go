package templates

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"io73k/profile"
	"io73k/session"
	"io73k/story"
	"io73k/trials"
	"io73k/unlock"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var b strings.Builder
	require.NoError(t, c.Render(context.Background(), &b))
	return b.String()
}

func TestHealthOf(t *testing.T) {
	assert.Equal(t, "Unhurt", HealthOf(2, 2).Description)
	assert.Equal(t, "Wounded", HealthOf(1, 2).Description)
	assert.Equal(t, "Bleeding out", HealthOf(1, 3).Description)
	assert.Equal(t, "Dead", HealthOf(0, 2).Description)
	assert.Equal(t, "Dead", HealthOf(1, 0).Description)
}

func TestHearts(t *testing.T) {
	assert.Equal(t, "♥♡", Hearts(1, 2))
	assert.Equal(t, "♡♡", Hearts(-1, 2))
	assert.Equal(t, "♥♥", Hearts(5, 2))
}

func TestTension(t *testing.T) {
	assert.Equal(t, 0, Tension(nil))
	assert.Equal(t, 40, Tension(&profile.Profile{CorruptionScore: 2}))
	assert.Equal(t, 100, Tension(&profile.Profile{CorruptionScore: 9}))
	assert.Contains(t, VignetteStyle(100), "rgba(0,0,0,0.50)")
}

func TestDirectivesRenderMarkupAsIs(t *testing.T) {
	seq := story.Cumulative(
		story.Text(1000, "<strong>CLANG!</strong>"),
		story.Image(2000, "/assets/convent_intro.webp"),
		story.Button(2000, "Let's <strong>continue</strong>."),
	)
	out := render(t, Directives(seq))

	assert.Contains(t, out, `data-delay="1000"><p><strong>CLANG!</strong></p>`)
	assert.Contains(t, out, `data-delay="3000"><img src="/assets/convent_intro.webp"`)
	assert.Contains(t, out, `data-delay="5000"`)
	assert.Contains(t, out, `class="continue"`)
}

func TestTurnEscapesPlayerInput(t *testing.T) {
	out := render(t, Turn("abc", "<script>alert(1)</script>", session.Reply{
		Messages: story.Cumulative(story.Text(0, "Paimon watches.")),
	}))

	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "&lt;script&gt;")
	assert.Contains(t, out, "Paimon watches.")
	assert.Contains(t, out, `value="abc"`)
}

func TestTurnHidesFormWhenFinished(t *testing.T) {
	out := render(t, Turn("abc", "hi", session.Reply{Finished: true}))
	assert.NotContains(t, out, "<form")

	out = render(t, Turn("abc", "hi", session.Reply{Superseded: true, Messages: story.Cumulative(story.Text(0, "late"))}))
	assert.NotContains(t, out, "late")
}

func TestGame(t *testing.T) {
	out := render(t, Game("abc", story.Cumulative(story.Text(0, "Imagine..."))))
	assert.True(t, strings.HasPrefix(out, `<div id="log">`))
	assert.Contains(t, out, "Imagine...")
	assert.Contains(t, out, `name="session" value="abc"`)
}

func TestIndexEscapesTitle(t *testing.T) {
	out := render(t, Index("Paimon & co"))
	assert.Contains(t, out, "<title>Paimon &amp; co</title>")
	assert.Contains(t, out, `hx-post="/start"`)
}

func TestStatusShowsKnightHealth(t *testing.T) {
	raw, err := json.Marshal(map[string]int{"hp": 1})
	require.NoError(t, err)

	out := render(t, Status(session.Status{
		PlayerName: "Ada",
		Trial:      trials.Snapshot{Scene: story.Convent, State: trials.Intro, Trial: raw},
		Profile:    &profile.Profile{CorruptionScore: 1, PlayCount: 2},
		Tier:       profile.TierPure,
	}, 2))

	assert.Contains(t, out, "♥♡ Wounded")
	assert.Contains(t, out, "playthrough 2")
	assert.Contains(t, out, "<style>")
}

func TestStatusWithoutHealthOutsideConvent(t *testing.T) {
	out := render(t, Status(session.Status{
		PlayerName: "Ada",
		Trial:      trials.Snapshot{Scene: story.Hangman, Trial: json.RawMessage(`{"attempts":2}`)},
	}, 2))
	assert.NotContains(t, out, `class="hp"`)
}

func TestAchievementsHideLocked(t *testing.T) {
	all := []unlock.Achievement{
		{ID: "a", Title: "Seen", Description: "got it", Icon: "👁️"},
		{ID: "b", Title: "Secret", Description: "shh", Hidden: true},
		{ID: "c", Title: "Open", Description: "not yet"},
	}
	out := render(t, Achievements(all, func(id string) bool { return id == "a" }))

	assert.Contains(t, out, `class="unlocked">👁️ <strong>Seen</strong>`)
	assert.NotContains(t, out, "Secret")
	assert.Contains(t, out, "🔒 <strong>Open</strong>")
}

func TestCodexMasksLockedEntries(t *testing.T) {
	out := render(t, Codex(func(id string) bool { return id == unlock.CodexTheConvent }))

	assert.Contains(t, out, "The Convent of Saint Agnes")
	assert.NotContains(t, out, "Sister Margaret&#39;s Diary")
	assert.Contains(t, out, "<h3>Locations</h3>")
}
