// Package templates renders the HTTP surface. Directive content is the
// game's own markup and is written as is; anything the player typed is
// escaped.
package templates

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"strings"

	"io73k/session"
	"io73k/story"
	"io73k/unlock"

	"github.com/a-h/templ"
)

type writer struct {
	w   io.Writer
	err error
}

func (w *writer) printf(format string, args ...any) {
	if w.err == nil {
		_, w.err = fmt.Fprintf(w.w, format, args...)
	}
}

func component(fn func(w *writer)) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, out io.Writer) error {
		w := &writer{w: out}
		fn(w)
		return w.err
	})
}

var esc = html.EscapeString

// Index is the landing page.
func Index(title string) templ.Component {
	return component(func(w *writer) {
		w.printf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>%s</title>
<script src="https://unpkg.com/htmx.org@2.0.4"></script>
<link rel="stylesheet" href="/static/style.css">
</head>
<body>
<main id="chat">
<form hx-post="/start" hx-target="#chat" hx-swap="innerHTML">
<label for="name">What is your name?</label>
<input id="name" name="name" maxlength="50" autocomplete="off" required>
<button type="submit">Begin</button>
</form>
</main>
</body>
</html>`, esc(title))
	})
}

// Directives renders a reply. The client plays each directive after its
// data-delay.
func Directives(seq story.Sequence) templ.Component {
	return component(func(w *writer) {
		for _, d := range seq {
			w.printf(`<div class="directive" data-delay="%d">`, d.DelayMs)
			if d.Content != "" {
				w.printf(`<p>%s</p>`, d.Content)
			}
			if d.Image != "" {
				w.printf(`<img src="%s" alt="">`, esc(d.Image))
			}
			if d.Audio != "" {
				w.printf(`<audio src="%s" preload="auto"></audio>`, esc(d.Audio))
			}
			if d.ShowButton {
				w.printf(`<button class="continue" hx-post="/input" hx-vals='{"input":"continue"}' hx-include="#session">Continue</button>`)
			}
			w.printf(`</div>`)
		}
	})
}

// Turn is one exchange: what the player said, then the reply.
func Turn(sessionID, input string, r session.Reply) templ.Component {
	return component(func(w *writer) {
		if input != "" {
			w.printf(`<div class="player"><p>%s</p></div>`, esc(input))
		}
		if r.Superseded {
			return
		}
		if err := Directives(r.Messages).Render(context.Background(), w.w); err != nil && w.err == nil {
			w.err = err
		}
		if r.Finished || r.Locked {
			return
		}
		w.printf(`<form id="input-form" hx-post="/input" hx-target="#log" hx-swap="beforeend" hx-on::after-request="this.reset()">
<input type="hidden" id="session" name="session" value="%s">
<input name="input" autocomplete="off" autofocus>
</form>`, esc(sessionID))
	})
}

// Game is the chat window a session starts with.
func Game(sessionID string, intro story.Sequence) templ.Component {
	return component(func(w *writer) {
		w.printf(`<div id="log">`)
		if err := Directives(intro).Render(context.Background(), w.w); err != nil && w.err == nil {
			w.err = err
		}
		w.printf(`</div>`)
		if err := Turn(sessionID, "", session.Reply{}).Render(context.Background(), w.w); err != nil && w.err == nil {
			w.err = err
		}
	})
}

// Status shows the trial and the profile. In the convent the knight's
// health is drawn out of maxHP.
func Status(st session.Status, maxHP int) templ.Component {
	return component(func(w *writer) {
		w.printf(`<section class="status">`)
		w.printf(`<h2>%s</h2>`, esc(st.PlayerName))
		w.printf(`<p>Trial: %s (%s)</p>`, esc(string(st.Trial.Scene)), esc(string(st.Trial.State)))
		var knight struct {
			HP *int `json:"hp"`
		}
		if st.Trial.Scene == story.Convent && json.Unmarshal(st.Trial.Trial, &knight) == nil && knight.HP != nil {
			h := HealthOf(*knight.HP, maxHP)
			w.printf(`<p class="hp" style="color:%s">%s %s</p>`, h.Color, Hearts(*knight.HP, maxHP), h.Description)
		}
		if st.Profile != nil {
			w.printf(`<p>Tier: %s, corruption %d, playthrough %d</p>`, esc(string(st.Tier)), st.Profile.CorruptionScore, st.Profile.PlayCount)
			w.printf("%s", VignetteStyle(Tension(st.Profile)))
		}
		w.printf(`</section>`)
	})
}

// Achievements lists the catalog, hiding what is still locked and hidden.
func Achievements(all []unlock.Achievement, unlocked func(id string) bool) templ.Component {
	return component(func(w *writer) {
		w.printf(`<ul class="achievements">`)
		for _, a := range all {
			have := unlocked(a.ID)
			switch {
			case have:
				w.printf(`<li class="unlocked">%s <strong>%s</strong> %s</li>`, a.Icon, esc(a.Title), esc(a.Description))
			case a.Hidden:
				w.printf(`<li class="locked">??? <strong>Hidden</strong></li>`)
			default:
				w.printf(`<li class="locked">🔒 <strong>%s</strong> %s</li>`, esc(a.Title), esc(a.Description))
			}
		}
		w.printf(`</ul>`)
	})
}

// Codex lists unlocked entries by category.
func Codex(unlocked func(id string) bool) templ.Component {
	return component(func(w *writer) {
		for _, cat := range unlock.Categories() {
			w.printf(`<section class="codex"><h3>%s</h3><ul>`, esc(cat))
			for _, e := range unlock.EntriesByCategory(cat) {
				if unlocked(e.ID) {
					w.printf(`<li>%s <strong>%s</strong><p>%s</p></li>`, e.Icon, esc(e.Title), esc(e.Description))
				} else {
					w.printf(`<li class="locked">%s</li>`, strings.Repeat("▒", len([]rune(e.Title))))
				}
			}
			w.printf(`</ul></section>`)
		}
	})
}
