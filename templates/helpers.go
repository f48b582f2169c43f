package templates

import (
	"fmt"
	"strings"

	"io73k/profile"
)

// HealthStatus is the knight's condition and the color it is shown in.
type HealthStatus struct {
	Description string
	Color       string
}

// HealthOf bands hp out of maxHP.
func HealthOf(hp, maxHP int) HealthStatus {
	health := 0
	if maxHP > 0 {
		health = hp * 100 / maxHP
	}
	switch {
	case health >= 80:
		return HealthStatus{"Unhurt", "#a6e22e"}
	case health >= 50:
		return HealthStatus{"Wounded", "#fd971f"}
	case health > 0:
		return HealthStatus{"Bleeding out", "#f92672"}
	default:
		return HealthStatus{"Dead", "#75715e"}
	}
}

// Hearts draws hp full hearts out of maxHP.
func Hearts(hp, maxHP int) string {
	maxHP = max(maxHP, 0)
	hp = min(max(hp, 0), maxHP)
	return strings.Repeat("♥", hp) + strings.Repeat("♡", maxHP-hp)
}

// Tension maps corruption onto 0..100 for the vignette.
func Tension(p *profile.Profile) int {
	if p == nil {
		return 0
	}
	return min(max(p.CorruptionScore*20, 0), 100)
}

// VignetteStyle darkens the chat window's edges as tension rises.
func VignetteStyle(tension int) string {
	opacity := float64(tension) / 200.0
	spread := tension / 2
	blur := tension / 4

	return fmt.Sprintf(`<style>
	#chat::before {
		content: '';
		position: absolute;
		inset: 0;
		box-shadow: inset 0 0 %dpx %dpx rgba(0,0,0,%.2f);
		transition: box-shadow 0.5s ease-in-out;
		pointer-events: none;
	}
</style>`, blur, spread, opacity)
}
