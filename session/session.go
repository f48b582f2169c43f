package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"io73k/lockout"
	"io73k/offense"
	"io73k/profile"
	"io73k/story"
	"io73k/transcript"
	"io73k/trials"

	"go.uber.org/zap"
)

// Reply is what one input produced.
type Reply struct {
	SessionID        string         `json:"sessionId"`
	Messages         story.Sequence `json:"messages"`
	Scene            story.Scene    `json:"scene"`
	State            trials.State   `json:"state"`
	Offense          offense.Kind   `json:"offense,omitempty"`
	OffenseCount     int            `json:"offenseCount"`
	Locked           bool           `json:"locked,omitempty"`
	RemainingSeconds int            `json:"remainingSeconds,omitempty"`
	// Superseded is set when a newer input arrived before this one was
	// answered. Nothing from it was kept.
	Superseded bool `json:"superseded,omitempty"`
	Finished   bool `json:"finished,omitempty"`
}

// Status is a read-only view of a session.
type Status struct {
	ID         string           `json:"id"`
	PlayerName string           `json:"playerName"`
	Finished   bool             `json:"finished"`
	Trial      trials.Snapshot  `json:"trial"`
	Profile    *profile.Profile `json:"profile"`
	Tier       profile.Tier     `json:"tier"`
}

// Session is one player's run through the trials. Inputs are computed one
// at a time; a newer input cancels the one in flight and only the latest
// is ever committed.
type Session struct {
	ID         string
	PlayerName string
	mgr        *Manager

	// work serializes computation, mu guards the fields below.
	work sync.Mutex
	mu   sync.Mutex

	seq        uint64
	cancel     context.CancelFunc
	play       trials.Play
	profile    *profile.Profile
	started    time.Time
	lastReply  time.Time
	finished   bool
	transcript []transcript.Entry
}

// Submit processes one player input.
func (s *Session) Submit(ctx context.Context, input string) (Reply, error) {
	if err := ctx.Err(); err != nil {
		return Reply{}, err
	}
	m := s.mgr
	if st := m.d.Lockouts.Check(); st.Locked {
		return s.locked(st), nil
	}
	input = strings.TrimSpace(input)
	now := m.d.Now()

	s.mu.Lock()
	s.seq++
	seq := s.seq
	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mu.Unlock()
	defer cancel()

	s.work.Lock()
	defer s.work.Unlock()

	s.mu.Lock()
	if seq != s.seq {
		defer s.mu.Unlock()
		return s.superseded(), nil
	}
	s.trackResponse(now)
	play := s.play.Clone()
	p := s.profile.Clone()
	started := s.started
	s.mu.Unlock()

	scene, before := play.Scene(), play.State()
	out := play.Step(ctx, input, p)
	msgs := out.Messages
	finished := false

	if out.State == trials.Complete && before != trials.Complete {
		m.tracker.CompleteTrial(p, string(scene), now.Sub(started))
		if next, ok := Next(scene); ok {
			play = m.play(next, s.PlayerName)
			msgs = msgs.Then(play.Intro())
			started = m.d.Now()
			m.log.Info("trial complete", zap.String("session", s.ID), zap.String("scene", string(scene)), zap.String("next", string(next)))
		} else {
			finished = true
			m.log.Info("all trials complete", zap.String("session", s.ID))
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		// Put back the profile the discarded step may have saved.
		m.d.Profiles.Save(s.profile)
		m.log.Debug("discarding superseded input", zap.String("session", s.ID))
		return s.superseded(), nil
	}

	s.play, s.profile, s.started = play, p, started
	s.finished = s.finished || finished
	s.lastReply = m.d.Now().Add(time.Duration(msgs.End()) * time.Millisecond)
	s.record(now, input, msgs)

	return Reply{
		SessionID:    s.ID,
		Messages:     msgs,
		Scene:        play.Scene(),
		State:        play.State(),
		Offense:      out.Offense,
		OffenseCount: out.OffenseCount,
		Finished:     s.finished,
	}, nil
}

// trackResponse times the reply from when the last directive finished
// playing. Callers hold mu.
func (s *Session) trackResponse(now time.Time) {
	m := s.mgr
	d := max(now.Sub(s.lastReply), 0)
	m.tracker.UpdateAverageResponseTime(s.profile, d)
	if d > m.d.Config.HesitationThreshold() {
		m.tracker.TrackHesitation(s.profile, string(s.play.Scene()), d)
	}
}

func (s *Session) locked(st lockout.Status) Reply {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.mgr.d.Config.Timing
	return Reply{
		SessionID: s.ID,
		Messages: story.Cumulative(story.Text(t.First,
			fmt.Sprintf("Paimon is not speaking to you. Come back in <strong>%s</strong>.", offense.Wait(st.Remaining)))),
		Scene:            s.play.Scene(),
		State:            s.play.State(),
		Locked:           true,
		RemainingSeconds: st.RemainingSeconds(),
	}
}

// superseded is the reply to an input nobody is waiting for. Callers hold mu.
func (s *Session) superseded() Reply {
	return Reply{SessionID: s.ID, Scene: s.play.Scene(), State: s.play.State(), Superseded: true}
}

// record appends to the transcript. Callers hold mu, or own s exclusively.
func (s *Session) record(at time.Time, input string, msgs story.Sequence) {
	if input != "" {
		s.transcript = append(s.transcript, transcript.Entry{At: at, Speaker: transcript.Player, Text: input})
	}
	for _, c := range msgs.Contents() {
		s.transcript = append(s.transcript, transcript.Entry{At: at, Speaker: transcript.Narrator, Text: c})
	}
}

func (s *Session) cancelInFlight() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
}

func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.mgr.tracker.Snapshot(s.profile)
	return Status{
		ID:         s.ID,
		PlayerName: s.PlayerName,
		Finished:   s.finished,
		Trial:      s.play.Snapshot(),
		Profile:    p,
		Tier:       profile.TierOf(p),
	}
}

// Transcript returns a copy of everything said so far.
func (s *Session) Transcript() []transcript.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]transcript.Entry(nil), s.transcript...)
}
