package main

import (
	"context"
	"strings"
	"testing"
	"time"

	"io73k/story"
	"io73k/trials/trialtest"
	"io73k/unlock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testApp(t *testing.T) *app {
	t.Helper()
	cfg = trialtest.Config()
	cfg.Storage.Driver = "memory"
	logger = zap.NewNop()

	a, err := openApp(context.Background())
	require.NoError(t, err)
	t.Cleanup(a.Close)
	return a
}

func TestTerminalPlay(t *testing.T) {
	a := testApp(t)
	var out strings.Builder
	term := &terminal{out: &out}

	err := term.play(context.Background(), a.manager, strings.NewReader("Ada\nI step inside\n"), "", story.Convent)
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "What is your name?")
	assert.Contains(t, text, "You're a knight, Ada.")
	assert.Contains(t, text, "A spider-nun hybrid blocks your path.")
	assert.NotContains(t, text, "<strong>")
}

func TestTerminalRejectsFakeNames(t *testing.T) {
	a := testApp(t)
	var out strings.Builder
	term := &terminal{out: &out}

	require.NoError(t, term.play(context.Background(), a.manager, strings.NewReader(""), "asdf", story.Convent))
	assert.Contains(t, out.String(), "You'll be Player.")
}

func TestTerminalRealtimeSleepsBetweenDirectives(t *testing.T) {
	var slept []time.Duration
	var out strings.Builder
	term := &terminal{out: &out, realtime: true, sleep: func(d time.Duration) { slept = append(slept, d) }}

	term.show(story.Cumulative(story.Text(1000, "one"), story.Text(0, "two"), story.Button(2000, "three")))

	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, slept)
	assert.Equal(t, "one\ntwo\nthree\n(type continue)\n", out.String())
}

func TestPrintStatus(t *testing.T) {
	a := testApp(t)

	var out strings.Builder
	printStatus(&out, a, time.Now())
	assert.Contains(t, out.String(), "Profile: none yet")
	assert.Contains(t, out.String(), "Lockout: none")

	a.profiles.Load()
	a.codex.Unlock(unlock.CodexRaphael)
	a.lockouts.Set()

	out.Reset()
	printStatus(&out, a, time.Now())
	assert.Contains(t, out.String(), "playthrough 1")
	assert.Contains(t, out.String(), "(pure)")
	assert.Contains(t, out.String(), "Codex: 1/6 (17%)")
	assert.NotContains(t, out.String(), "Lockout: none")
}
