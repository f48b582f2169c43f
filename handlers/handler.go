package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"io73k/session"
	"io73k/story"
	"io73k/templates"
	"io73k/transcript"
	"io73k/unlock"

	"github.com/a-h/templ"
	"go.uber.org/zap"
)

const (
	cookieName    = "io73k_session"
	maxInputRunes = 500
)

// Handler serves the game over HTTP. Every route answers with JSON when the
// client asks for it and with an HTML fragment otherwise.
type Handler struct {
	Manager      *session.Manager
	Achievements *unlock.Registry
	Codex        *unlock.Registry
	MaxHP        int
	Title        string
	Logger       *zap.Logger
}

// Register mounts every route on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.Index)
	mux.HandleFunc("POST /start", h.Start)
	mux.HandleFunc("POST /input", h.Input)
	mux.HandleFunc("GET /status", h.Status)
	mux.HandleFunc("GET /achievements", h.ListAchievements)
	mux.HandleFunc("GET /codex", h.ListCodex)
	mux.HandleFunc("POST /reset", h.Reset)
	mux.HandleFunc("GET /transcript", h.DownloadTranscript)
}

func (h *Handler) log() *zap.Logger {
	if h.Logger == nil {
		return zap.NewNop()
	}
	return h.Logger
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log().Warn("failed to write response", zap.Error(err))
	}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, status int, msg string) {
	if wantsJSON(r) {
		h.writeJSON(w, status, map[string]string{"error": msg})
		return
	}
	http.Error(w, msg, status)
}

// session finds the caller's session from the form or the cookie.
func (h *Handler) session(r *http.Request) (*session.Session, error) {
	id := r.FormValue("session")
	if id == "" {
		if c, err := r.Cookie(cookieName); err == nil {
			id = c.Value
		}
	}
	if id == "" {
		return nil, session.ErrNotFound
	}
	return h.Manager.Get(id)
}

func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	title := h.Title
	if title == "" {
		title = "Paimon"
	}
	templ.Handler(templates.Index(title)).ServeHTTP(w, r)
}

type startResponse struct {
	SessionID string         `json:"sessionId"`
	Scene     story.Scene    `json:"scene"`
	Messages  story.Sequence `json:"messages"`
}

// Start opens a session. The optional trial field skips ahead.
func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	scene := story.Scene(r.FormValue("trial"))
	if scene != "" && !session.Known(scene) {
		h.fail(w, r, http.StatusBadRequest, fmt.Sprintf("Unknown trial %q.", scene))
		return
	}
	if scene == "" {
		scene = session.Order[0]
	}

	s, intro := h.Manager.Start(r.FormValue("name"), scene)
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    s.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	if wantsJSON(r) {
		h.writeJSON(w, http.StatusOK, startResponse{SessionID: s.ID, Scene: scene, Messages: intro})
		return
	}
	templ.Handler(templates.Game(s.ID, intro)).ServeHTTP(w, r)
}

// Input hands one player message to the session.
func (h *Handler) Input(w http.ResponseWriter, r *http.Request) {
	s, err := h.session(r)
	if err != nil {
		h.fail(w, r, http.StatusNotFound, "No such session. Start again.")
		return
	}

	input := strings.TrimSpace(r.FormValue("input"))
	if input == "" {
		h.fail(w, r, http.StatusBadRequest, "Say something.")
		return
	}
	if utf8.RuneCountInString(input) > maxInputRunes {
		h.fail(w, r, http.StatusBadRequest, fmt.Sprintf("Input must be %d characters or less.", maxInputRunes))
		return
	}

	reply, err := s.Submit(r.Context(), input)
	if err != nil {
		// The client went away; nobody is left to answer.
		h.log().Debug("input abandoned", zap.String("session", s.ID), zap.Error(err))
		return
	}

	if wantsJSON(r) {
		h.writeJSON(w, http.StatusOK, reply)
		return
	}
	templ.Handler(templates.Turn(s.ID, input, reply)).ServeHTTP(w, r)
}

type lockoutView struct {
	Locked           bool `json:"locked"`
	RemainingSeconds int  `json:"remainingSeconds,omitempty"`
}

type statusResponse struct {
	session.Status
	Lockout lockoutView `json:"lockout"`
}

func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	s, err := h.session(r)
	if err != nil {
		h.fail(w, r, http.StatusNotFound, "No such session.")
		return
	}
	st := s.Status()

	if wantsJSON(r) {
		lo := h.Manager.Lockout()
		h.writeJSON(w, http.StatusOK, statusResponse{
			Status:  st,
			Lockout: lockoutView{Locked: lo.Locked, RemainingSeconds: lo.RemainingSeconds()},
		})
		return
	}
	templ.Handler(templates.Status(st, h.MaxHP)).ServeHTTP(w, r)
}

type achievementView struct {
	unlock.Achievement
	Unlocked bool `json:"unlocked"`
}

func (h *Handler) ListAchievements(w http.ResponseWriter, r *http.Request) {
	all := unlock.Achievements()
	if wantsJSON(r) {
		views := make([]achievementView, 0, len(all))
		for _, a := range all {
			views = append(views, achievementView{Achievement: a, Unlocked: h.Achievements.IsUnlocked(a.ID)})
		}
		h.writeJSON(w, http.StatusOK, map[string]any{
			"achievements": views,
			"stats":        h.Achievements.Stats(len(all)),
		})
		return
	}
	templ.Handler(templates.Achievements(all, h.Achievements.IsUnlocked)).ServeHTTP(w, r)
}

func (h *Handler) ListCodex(w http.ResponseWriter, r *http.Request) {
	if wantsJSON(r) {
		var entries []unlock.CodexEntry
		for _, e := range unlock.CodexEntries() {
			if h.Codex.IsUnlocked(e.ID) {
				entries = append(entries, e)
			}
		}
		h.writeJSON(w, http.StatusOK, map[string]any{
			"entries": entries,
			"stats":   h.Codex.Stats(len(unlock.CodexEntries())),
		})
		return
	}
	templ.Handler(templates.Codex(h.Codex.IsUnlocked)).ServeHTTP(w, r)
}

// Reset clears the profile; all=true clears every unlock and the lockout too.
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	all := r.FormValue("all") == "true"
	h.Manager.Reset(all)
	h.log().Info("reset requested", zap.Bool("all", all))

	if wantsJSON(r) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// DownloadTranscript exports the session as a PDF.
func (h *Handler) DownloadTranscript(w http.ResponseWriter, r *http.Request) {
	s, err := h.session(r)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			h.fail(w, r, http.StatusNotFound, "No such session.")
			return
		}
		h.fail(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	var buf bytes.Buffer
	title := fmt.Sprintf("The trials of %s", s.PlayerName)
	if err := transcript.WritePDF(&buf, title, s.Transcript()); err != nil {
		h.log().Error("failed to render transcript", zap.String("session", s.ID), zap.Error(err))
		h.fail(w, r, http.StatusInternalServerError, "Failed to render the transcript.")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="transcript.pdf"`)
	if _, err := buf.WriteTo(w); err != nil {
		h.log().Warn("failed to send transcript", zap.Error(err))
	}
}
