// Package trialtest provides fakes for testing trial state machines.
package trialtest

import (
	"context"
	"sync"

	"io73k/ai"
	"io73k/combat"
	"io73k/config"
	"io73k/intent"
	"io73k/profile"
	"io73k/storage"
)

// Resolver replays scripted combat outcomes. The last entry repeats.
type Resolver struct {
	Wins    []bool
	Escapes []bool
	Rolls   int
	Flees   int
}

func (r *Resolver) Roll(score int) combat.Result {
	win := pick(r.Wins, r.Rolls)
	r.Rolls++
	res := combat.Result{PlayerRoll: 4, EnemyRoll: 12, CorruptionScore: score, PlayerWins: win}
	if win {
		res.PlayerRoll, res.EnemyRoll = 15, 9
	}
	return res
}

func (r *Resolver) Flee() combat.Contest {
	esc := pick(r.Escapes, r.Flees)
	r.Flees++
	if esc {
		return combat.Contest{PlayerRoll: 14, EnemyRoll: 3, Escaped: true}
	}
	return combat.Contest{PlayerRoll: 3, EnemyRoll: 14}
}

func pick(v []bool, i int) bool {
	if len(v) == 0 {
		return false
	}
	return v[min(i, len(v)-1)]
}

// Source returns fixed values.
type Source struct {
	N int
	F float64
}

func (s Source) Intn(n int) int {
	if s.N >= n {
		return n - 1
	}
	return s.N
}

func (s Source) Float64() float64 { return s.F }

// Intent always answers the same and counts calls.
type Intent struct {
	mu     sync.Mutex
	Answer intent.Intent
	Calls  int
}

func (i *Intent) Classify(context.Context, string) intent.Intent {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.Calls++
	return i.Answer
}

// Unlocker records unlocks and reports each id as new once.
type Unlocker struct {
	mu  sync.Mutex
	IDs []string
}

func (u *Unlocker) Unlock(id string) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, have := range u.IDs {
		if have == id {
			return false
		}
	}
	u.IDs = append(u.IDs, id)
	return true
}

func (u *Unlocker) Has(id string) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, have := range u.IDs {
		if have == id {
			return true
		}
	}
	return false
}

// Generator answers with Text (or Err) and counts calls.
type Generator struct {
	mu       sync.Mutex
	Text     string
	Err      error
	Requests []ai.Request
}

func (g *Generator) Generate(_ context.Context, req ai.Request) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Requests = append(g.Requests, req)
	return g.Text, g.Err
}

func (g *Generator) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.Requests)
}

// Profiles returns a tracker over an in-memory store.
func Profiles() *profile.Tracker {
	return profile.NewTracker(profile.NewKVStore(storage.NewMemory(), nil), nil)
}

// Returning is a returning player with the given corruption.
func Returning(corruption int) *profile.Profile {
	p := profile.New(0)
	p.PlayCount = 2
	p.CorruptionScore = corruption
	return p
}

// Config is the default configuration with the model disabled.
func Config() *config.Config {
	cfg := config.DefaultConfig()
	cfg.LLM.Provider = "offline"
	return cfg
}
