// Package combat implements the corruption-weighted dice model.
package combat

import (
	"crypto/rand"
	"encoding/binary"
	"math"
	mrand "math/rand"
	"sync"

	"io73k/config"
)

// Result is the outcome of one attack exchange. PlayerRoll includes Bonus.
type Result struct {
	PlayerRoll      int     `json:"playerRoll"`
	EnemyRoll       int     `json:"enemyRoll"`
	PlayerWins      bool    `json:"playerWins"`
	WinRate         float64 `json:"winRate"`
	Bonus           int     `json:"bonus"`
	CorruptionScore int     `json:"corruptionScore"`
}

// Contest is an unmodified roll-off, used for escapes.
type Contest struct {
	PlayerRoll int  `json:"playerRoll"`
	EnemyRoll  int  `json:"enemyRoll"`
	Escaped    bool `json:"escaped"`
}

// Resolver settles fights.
type Resolver interface {
	Roll(corruptionScore int) Result
	Flee() Contest
}

// Source is the randomness the game draws on.
type Source interface {
	Intn(n int) int
	Float64() float64
}

// WinRate is the target chance of winning at a corruption score:
// base - penalty*score, floored at the minimum.
func WinRate(score int, cfg config.CombatConfig) float64 {
	if score < 0 {
		score = 0
	}
	return math.Max(cfg.MinWinRate, cfg.BaseWinRate-cfg.CorruptionPenalty*float64(score))
}

// Bonus converts a win rate into the modifier added to the player's roll.
// For two d20s, P(d20+b >= d20) is about (20+b)/40.
func Bonus(rate float64, cfg config.CombatConfig) int {
	sides := float64(cfg.DieSides)
	b := int(math.Round(rate*2*sides - sides))
	if b < cfg.MinBonus {
		return cfg.MinBonus
	}
	return b
}

// Dice is the production Resolver.
type Dice struct {
	cfg config.CombatConfig
	src Source
}

func NewDice(cfg config.CombatConfig, src Source) *Dice {
	if cfg.DieSides < 2 {
		cfg.DieSides = 20
	}
	return &Dice{cfg: cfg, src: src}
}

func (d *Dice) die() int {
	return d.src.Intn(d.cfg.DieSides) + 1
}

// Roll resolves an attack. Ties go to the player.
func (d *Dice) Roll(score int) Result {
	rate := WinRate(score, d.cfg)
	bonus := Bonus(rate, d.cfg)
	player := d.die() + bonus
	enemy := d.die()
	return Result{
		PlayerRoll:      player,
		EnemyRoll:       enemy,
		PlayerWins:      player >= enemy,
		WinRate:         rate,
		Bonus:           bonus,
		CorruptionScore: score,
	}
}

// Flee is a straight roll-off that the player must win outright.
func (d *Dice) Flee() Contest {
	player, enemy := d.die(), d.die()
	return Contest{PlayerRoll: player, EnemyRoll: enemy, Escaped: player > enemy}
}

type lockedSource struct {
	mu  sync.Mutex
	rnd *mrand.Rand
}

// NewSource returns a Source safe for concurrent use.
func NewSource(seed int64) Source {
	return &lockedSource{rnd: mrand.New(mrand.NewSource(seed))}
}

func (s *lockedSource) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rnd.Intn(n)
}

func (s *lockedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rnd.Float64()
}

// NewSeed draws a seed from the operating system.
func NewSeed() int64 {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return 1
	}
	return int64(binary.LittleEndian.Uint64(b[:]))
}

// Pick returns a random element of options.
func Pick[T any](src Source, options []T) T {
	var zero T
	if len(options) == 0 {
		return zero
	}
	return options[src.Intn(len(options))]
}
