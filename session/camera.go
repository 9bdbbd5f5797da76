package session

import (
	"github.com/lukasgartmair/3Depict-Isosurfaces-sub000/point"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Camera is one named 3D viewpoint in a session's camera list (spec §4.C8:
// "an ordered camera list with an active index"). Grounded on the teacher's
// Camera (camera.go): the same origin/target/up shape as its 2D X/Y/Zoom/
// Rotation, generalised to 3D, and the same gween-driven ScrollTo animation
// pattern repurposed into TweenTo for interpolating between two stashed
// viewpoints instead of panning a 2D viewport.
type Camera struct {
	Name string

	Origin point.Point3D
	Target point.Point3D
	Up     point.Point3D
	FOV    float32 // degrees

	Perspective bool // true: perspective projection, false: orthographic

	tween *cameraTween
}

// cameraTween holds the nine independent gween.Tween instances animating a
// Camera's Origin/Target/Up components, mirroring the teacher's scrollAnim
// (one tween per animated axis, advanced together, torn down when every
// component finishes).
type cameraTween struct {
	tweens [9]*gween.Tween
	done   [9]bool
}

// NewCamera returns a default camera: origin at the world origin looking
// down +Z with +Y up, a 45 degree perspective field of view.
func NewCamera(name string) *Camera {
	return &Camera{
		Name:        name,
		Target:      point.Point3D{Z: 1},
		Up:          point.Point3D{Y: 1},
		FOV:         45,
		Perspective: true,
	}
}

// TweenTo starts an animation from the camera's current Origin/Target/Up to
// the given values over duration seconds, using easeFn. Call Update each
// frame to advance it; a zero duration snaps immediately on the first
// Update call.
func (c *Camera) TweenTo(origin, target, up point.Point3D, duration float32, easeFn ease.TweenFunc) {
	from := [9]float32{
		c.Origin.X, c.Origin.Y, c.Origin.Z,
		c.Target.X, c.Target.Y, c.Target.Z,
		c.Up.X, c.Up.Y, c.Up.Z,
	}
	to := [9]float32{
		origin.X, origin.Y, origin.Z,
		target.X, target.Y, target.Z,
		up.X, up.Y, up.Z,
	}
	t := &cameraTween{}
	for i := range from {
		t.tweens[i] = gween.New(from[i], to[i], duration, easeFn)
	}
	c.tween = t
}

// Animating reports whether a TweenTo animation is still in progress.
func (c *Camera) Animating() bool { return c.tween != nil }

// Update advances any in-progress TweenTo animation by dt seconds, writing
// interpolated values into Origin/Target/Up. No-op if no animation is
// active.
func (c *Camera) Update(dt float32) {
	if c.tween == nil {
		return
	}
	vals := [9]*float32{
		&c.Origin.X, &c.Origin.Y, &c.Origin.Z,
		&c.Target.X, &c.Target.Y, &c.Target.Z,
		&c.Up.X, &c.Up.Y, &c.Up.Z,
	}
	allDone := true
	for i, tw := range c.tween.tweens {
		if c.tween.done[i] {
			continue
		}
		val, done := tw.Update(dt)
		*vals[i] = val
		c.tween.done[i] = done
		if !done {
			allDone = false
		}
	}
	if allDone {
		c.tween = nil
	}
}

// Clone returns an independent copy of c, with any in-progress animation
// dropped -- used when a camera is appended to the stash or duplicated into
// a new session.
func (c *Camera) Clone() *Camera {
	clone := *c
	clone.tween = nil
	return &clone
}
