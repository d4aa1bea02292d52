package main

import (
	"github.com/charmbracelet/harmonica"

	"github.com/taigrr/softengine/pkg/models"
)

// Spinner turns meshes a little every frame. The spin rate eases towards
// its target with a spring rather than jumping there, so the scene winds
// up from rest.
type Spinner struct {
	Rate   float64 // Current radians per frame
	Target float64 // Radians per frame to settle at

	accel  float64 // Spring velocity of Rate
	spring harmonica.Spring
}

// NewSpinner creates a spinner at rest, easing towards target. Rates below
// 1 fps are treated as 1.
func NewSpinner(fps int, target float64) *Spinner {
	fps = max(fps, 1)
	return &Spinner{
		Target: target,
		// Frequency 4.0 = moderate speed, damping 1.0 = critically damped (no overshoot)
		spring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0),
	}
}

// Step advances the spring one frame and rotates every mesh around X and
// Y by the current rate. It must not run while the meshes are rendering.
func (s *Spinner) Step(meshes []*models.Mesh) {
	s.Rate, s.accel = s.spring.Update(s.Rate, s.accel, s.Target)
	for _, m := range meshes {
		m.Rotation.X += s.Rate
		m.Rotation.Y += s.Rate
	}
}
