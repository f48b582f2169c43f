package combat

import (
	"testing"

	"io73k/config"

	"github.com/stretchr/testify/assert"
)

// fixedSource replays rolls in order; Intn returns roll-1 so a die shows roll.
type fixedSource struct {
	rolls []int
	i     int
}

func (f *fixedSource) Intn(int) int {
	r := f.rolls[f.i%len(f.rolls)]
	f.i++
	return r - 1
}

func (f *fixedSource) Float64() float64 { return 0.5 }

func cfg() config.CombatConfig { return config.DefaultConfig().Combat }

func TestWinRate(t *testing.T) {
	tests := []struct {
		score int
		want  float64
	}{
		{0, 0.75},
		{1, 0.65},
		{3, 0.45},
		{6, 0.15},
		{10, 0.15},
		{-2, 0.75},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.want, WinRate(tt.score, cfg()), 1e-9, "score %d", tt.score)
	}
}

func TestWinRateFormula(t *testing.T) {
	for c := 0; c <= 20; c++ {
		want := 0.75 - 0.1*float64(c)
		if want < 0.15 {
			want = 0.15
		}
		assert.InDelta(t, want, WinRate(c, cfg()), 1e-9)
	}
}

func TestBonus(t *testing.T) {
	assert.Equal(t, 10, Bonus(0.75, cfg()))
	assert.Equal(t, 6, Bonus(0.65, cfg()))
	assert.Equal(t, -5, Bonus(0.15, cfg()), "clamped at the minimum")
}

func TestRollTiesGoToThePlayer(t *testing.T) {
	// score 6 gives bonus -5: player 15-5 = 10 vs enemy 10.
	d := NewDice(cfg(), &fixedSource{rolls: []int{15, 10}})
	res := d.Roll(6)

	assert.Equal(t, 10, res.PlayerRoll)
	assert.Equal(t, 10, res.EnemyRoll)
	assert.True(t, res.PlayerWins)
	assert.Equal(t, -5, res.Bonus)
	assert.Equal(t, 6, res.CorruptionScore)
}

func TestRollLoss(t *testing.T) {
	d := NewDice(cfg(), &fixedSource{rolls: []int{1, 20}})
	res := d.Roll(0)

	assert.Equal(t, 11, res.PlayerRoll)
	assert.False(t, res.PlayerWins)
	assert.InDelta(t, 0.75, res.WinRate, 1e-9)
}

func TestFleeNeedsAStrictWin(t *testing.T) {
	d := NewDice(cfg(), &fixedSource{rolls: []int{12, 12, 13, 12}})
	assert.False(t, d.Flee().Escaped)
	assert.True(t, d.Flee().Escaped)
}

// exactWinChance enumerates every pair of d20 faces.
func exactWinChance(bonus int) float64 {
	wins := 0
	for p := 1; p <= 20; p++ {
		for e := 1; e <= 20; e++ {
			if p+bonus >= e {
				wins++
			}
		}
	}
	return float64(wins) / 400
}

func TestEmpiricalWinRateTracksCorruption(t *testing.T) {
	d := NewDice(cfg(), NewSource(42))
	const n = 20000

	for _, score := range []int{0, 3, 6} {
		wins := 0
		for i := 0; i < n; i++ {
			if d.Roll(score).PlayerWins {
				wins++
			}
		}
		want := exactWinChance(Bonus(WinRate(score, cfg()), cfg()))
		assert.InDelta(t, want, float64(wins)/n, 0.02, "score %d", score)
	}

	assert.Greater(t, exactWinChance(Bonus(WinRate(0, cfg()), cfg())), exactWinChance(Bonus(WinRate(6, cfg()), cfg())))
}

func TestSourceRange(t *testing.T) {
	src := NewSource(NewSeed())
	for i := 0; i < 1000; i++ {
		v := src.Intn(20)
		assert.True(t, v >= 0 && v < 20)
		f := src.Float64()
		assert.True(t, f >= 0 && f < 1)
	}
}

func TestPick(t *testing.T) {
	assert.Equal(t, "b", Pick(&fixedSource{rolls: []int{2}}, []string{"a", "b", "c"}))
	assert.Equal(t, "", Pick(&fixedSource{rolls: []int{1}}, []string(nil)))
}
