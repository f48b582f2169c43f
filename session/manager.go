// Package session runs a player's playthrough: which trial they are in,
// how long they take to answer, and what happens to an answer that arrives
// after the player has already moved on.
package session

import (
	"errors"
	"slices"
	"sync"
	"time"

	"io73k/classify"
	"io73k/combat"
	"io73k/config"
	"io73k/lockout"
	"io73k/names"
	"io73k/offense"
	"io73k/profile"
	"io73k/storage"
	"io73k/story"
	"io73k/trials"
	"io73k/trials/convent"
	"io73k/trials/hangman"
	"io73k/trials/prelude"
	"io73k/trials/whiteroom"
	"io73k/unlock"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrNotFound = errors.New("session not found")

// Order is the sequence the trials are played in.
var Order = []story.Scene{story.Prelude, story.Convent, story.Hangman, story.WhiteRoom}

// Known reports whether scene is one of the trials.
func Known(scene story.Scene) bool {
	return slices.Contains(Order, scene)
}

// Next returns the trial after scene.
func Next(scene story.Scene) (story.Scene, bool) {
	for i, s := range Order {
		if s == scene && i+1 < len(Order) {
			return Order[i+1], true
		}
	}
	return "", false
}

// Deps are the Manager's collaborators. Anything left nil gets an
// in-memory or offline default.
type Deps struct {
	Config       *config.Config
	Logger       *zap.Logger
	Classifier   *classify.Classifier
	Profiles     profile.Store
	Lockouts     lockout.Keeper
	Tally        lockout.Tally
	Achievements unlock.Unlocker
	Codex        unlock.Unlocker
	Resolver     combat.Resolver
	Source       combat.Source
	Now          func() time.Time
}

// Manager owns every live session.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session

	d       Deps
	tracker *profile.Tracker
	screen  *offense.Tracker
	trials  trials.Deps
	log     *zap.Logger
}

func NewManager(d Deps) *Manager {
	td := trials.Deps{
		Config:       d.Config,
		Logger:       d.Logger,
		Classifier:   d.Classifier,
		Resolver:     d.Resolver,
		Source:       d.Source,
		Achievements: d.Achievements,
		Codex:        d.Codex,
		Now:          d.Now,
	}.WithDefaults()

	if d.Profiles == nil {
		d.Profiles = profile.NewKVStore(storage.NewMemory(), td.Logger)
	}
	if d.Lockouts == nil {
		d.Lockouts = lockout.NewStore(storage.NewMemory(), td.Config.LockoutDuration(), td.Logger)
	}
	if d.Tally == nil {
		d.Tally = lockout.NewCounter(storage.NewMemory(), td.Logger)
	}
	td.Profiles = profile.NewTracker(d.Profiles, td.Now)

	d.Config, d.Logger, d.Classifier = td.Config, td.Logger, td.Classifier
	d.Source, d.Resolver, d.Now = td.Source, td.Resolver, td.Now
	d.Achievements, d.Codex = td.Achievements, td.Codex

	return &Manager{
		sessions: map[string]*Session{},
		d:        d,
		tracker:  td.Profiles,
		trials:   td,
		screen: offense.NewTracker(offense.Params{
			Detector:     offense.NewAIDetector(td.Classifier),
			Lockouts:     d.Lockouts,
			Tally:        d.Tally,
			Achievements: d.Achievements,
			Source:       td.Source,
			Config:       td.Config,
			Logger:       td.Logger,
		}),
		log: td.Logger.Named("session"),
	}
}

// play builds a fresh run of scene for name.
func (m *Manager) play(scene story.Scene, name string) trials.Play {
	switch scene {
	case story.Hangman:
		return trials.NewRun[hangman.Trial](hangman.New(m.trials), m.screen, name, m.log)
	case story.WhiteRoom:
		return trials.NewRun[whiteroom.Trial](whiteroom.New(m.trials), m.screen, name, m.log)
	case story.Prelude:
		return trials.NewRun[prelude.Trial](prelude.New(m.trials), m.screen, name, m.log)
	default:
		return trials.NewRun[convent.Trial](convent.New(m.trials), m.screen, name, m.log)
	}
}

// Start opens a session at first (the prelude when empty) and returns it
// with the trial's intro. The player's profile is loaded, which counts as
// a new playthrough.
func (m *Manager) Start(name string, first story.Scene) (*Session, story.Sequence) {
	if first == "" {
		first = Order[0]
	}
	name = names.Sanitize(name, 0)
	now := m.d.Now()

	s := &Session{
		ID:         uuid.NewString(),
		PlayerName: name,
		mgr:        m,
		play:       m.play(first, name),
		profile:    m.d.Profiles.Load(),
		started:    now,
	}
	intro := s.play.Intro()
	s.lastReply = now.Add(time.Duration(intro.End()) * time.Millisecond)
	s.record(now, "", intro)

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	m.log.Info("session started",
		zap.String("session", s.ID),
		zap.String("scene", string(first)),
		zap.Int("play_count", s.profile.PlayCount))
	return s, intro
}

func (m *Manager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

// End cancels any input still in flight and forgets the session.
func (m *Manager) End(id string) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if ok {
		s.cancelInFlight()
	}
}

// Lockout reports the persisted lockout.
func (m *Manager) Lockout() lockout.Status {
	return m.d.Lockouts.Check()
}

type resetter interface{ Reset() }

// Reset clears the profile. all also clears unlocks, the lockout and the
// lockout count.
func (m *Manager) Reset(all bool) {
	m.d.Profiles.Reset()
	if !all {
		return
	}
	for _, u := range []unlock.Unlocker{m.d.Achievements, m.d.Codex} {
		if r, ok := u.(resetter); ok {
			r.Reset()
		}
	}
	m.d.Lockouts.Clear()
	m.d.Tally.Reset()
	m.log.Info("all progress reset")
}
