// Package camera provides the orbit camera and its fly-to animation state
// machine. The package is pure Go so flights and framing are testable
// without a window or a real clock; raylib types enter only at the scene
// boundary.
package camera

import (
	"math"

	"github.com/oddscape/oddscape/components"
	"github.com/oddscape/oddscape/config"
)

// Mode is the animation state. Orbit input is accepted in Idle and
// suppressed while Flying.
type Mode int

const (
	ModeIdle Mode = iota
	ModeFlying
)

// Keep a sliver away from the poles so the view basis never degenerates.
const pitchLimit = math.Pi/2 - 0.05

// Camera holds the current pose and any active flight.
// Advance runs every tick regardless of mode: in Flying it interpolates
// toward the target pose; in Idle it applies damped orbit velocities.
type Camera struct {
	Position components.Vec3
	LookAt   components.Vec3
	Up       components.Vec3
	FovY     float32 // degrees

	mode       Mode
	targetPos  components.Vec3
	targetLook components.Vec3

	cfg config.CameraConfig

	// Damped orbit input state, accumulated by Orbit/Dolly.
	yawVel   float32
	pitchVel float32
	dollyVel float32
}

// New creates an idle camera at the configured initial distance, looking
// at the origin.
func New(cfg config.CameraConfig) *Camera {
	d := cfg.InitialDistance
	return &Camera{
		Position: components.Vec3{X: d * 0.55, Y: d * 0.45, Z: d * 0.7}.Normalize().Scale(d),
		LookAt:   components.Vec3{},
		Up:       components.Vec3{Y: 1},
		FovY:     cfg.FovY,
		cfg:      cfg,
	}
}

// Mode returns the current animation state.
func (c *Camera) Mode() Mode {
	return c.mode
}

// FocusOn starts a flight toward a pose offset outward from the target
// along the target's direction from the origin, falling back to a fixed
// axis when the target sits at the origin. Non-finite targets are rejected
// at the call boundary with no state transition. A new call supersedes any
// flight in progress; last call wins.
func (c *Camera) FocusOn(target components.Vec3) {
	if !target.IsFinite() {
		return
	}

	dir := target.Normalize()
	if dir.Length() == 0 {
		dir = components.Vec3{Z: 1}
	}

	c.targetLook = target
	c.targetPos = target.Add(dir.Scale(c.cfg.Standoff))
	c.beginFlight()
}

// FrameAll starts a flight to a pose that fits every point on screen with
// margin, derived from the points' bounding volume and the vertical field
// of view. The current view direction is preserved. Empty or fully
// non-finite input is a no-op.
func (c *Camera) FrameAll(points []components.Vec3) {
	var min, max components.Vec3
	seen := false
	for _, p := range points {
		if !p.IsFinite() {
			continue
		}
		if !seen {
			min, max = p, p
			seen = true
			continue
		}
		min = components.Vec3{X: minf(min.X, p.X), Y: minf(min.Y, p.Y), Z: minf(min.Z, p.Z)}
		max = components.Vec3{X: maxf(max.X, p.X), Y: maxf(max.Y, p.Y), Z: maxf(max.Z, p.Z)}
	}
	if !seen {
		return
	}

	center := min.Add(max).Scale(0.5)
	ext := max.Sub(min)
	largest := maxf(ext.X, maxf(ext.Y, ext.Z))

	halfFov := float64(c.FovY) * math.Pi / 360
	dist := c.cfg.FrameMargin * (largest*0.5)/float32(math.Tan(halfFov)) + largest*0.5
	dist = clamp(dist, c.cfg.MinDistance, c.cfg.MaxDistance)

	dir := c.Position.Sub(c.LookAt).Normalize()
	if dir.Length() == 0 {
		dir = components.Vec3{Z: 1}
	}

	c.targetLook = center
	c.targetPos = center.Add(dir.Scale(dist))
	c.beginFlight()
}

func (c *Camera) beginFlight() {
	c.mode = ModeFlying
	c.yawVel = 0
	c.pitchVel = 0
	c.dollyVel = 0
}

// Orbit adds rotational velocity from a pointer drag, in pixels.
// Ignored while Flying.
func (c *Camera) Orbit(dxPx, dyPx float32) {
	if c.mode == ModeFlying {
		return
	}
	c.yawVel -= dxPx * c.cfg.OrbitSpeed
	c.pitchVel += dyPx * c.cfg.OrbitSpeed
}

// Dolly adds zoom velocity from wheel notches. Ignored while Flying.
func (c *Camera) Dolly(notches float32) {
	if c.mode == ModeFlying {
		return
	}
	c.dollyVel += notches * c.cfg.DollySpeed
}

// Advance runs one animation tick. Flying interpolates the pose with the
// fixed damping factor and snaps to the target inside epsilon, returning
// to Idle; geometric convergence with a fixed factor never stalls for
// finite start/target. Idle applies and damps orbit velocities.
func (c *Camera) Advance() {
	if c.mode == ModeFlying {
		c.Position = c.Position.Lerp(c.targetPos, c.cfg.FlyDamping)
		c.LookAt = c.LookAt.Lerp(c.targetLook, c.cfg.FlyDamping)

		if c.Position.Sub(c.targetPos).Length() < c.cfg.Epsilon &&
			c.LookAt.Sub(c.targetLook).Length() < c.cfg.Epsilon {
			c.Position = c.targetPos
			c.LookAt = c.targetLook
			c.mode = ModeIdle
		}
		return
	}

	if c.yawVel == 0 && c.pitchVel == 0 && c.dollyVel == 0 {
		return
	}

	offset := c.Position.Sub(c.LookAt)
	radius := offset.Length()
	if radius == 0 {
		radius = c.cfg.MinDistance
		offset = components.Vec3{Z: radius}
	}

	yaw := float32(math.Atan2(float64(offset.X), float64(offset.Z)))
	pitch := float32(math.Asin(float64(offset.Y / radius)))

	yaw += c.yawVel
	pitch = clamp(pitch+c.pitchVel, -pitchLimit, pitchLimit)
	radius = clamp(radius*(1+c.dollyVel), c.cfg.MinDistance, c.cfg.MaxDistance)

	cosP := float32(math.Cos(float64(pitch)))
	c.Position = c.LookAt.Add(components.Vec3{
		X: radius * cosP * float32(math.Sin(float64(yaw))),
		Y: radius * float32(math.Sin(float64(pitch))),
		Z: radius * cosP * float32(math.Cos(float64(yaw))),
	})

	c.yawVel *= c.cfg.OrbitDamping
	c.pitchVel *= c.cfg.OrbitDamping
	c.dollyVel *= c.cfg.OrbitDamping
	if absf(c.yawVel) < 1e-5 {
		c.yawVel = 0
	}
	if absf(c.pitchVel) < 1e-5 {
		c.pitchVel = 0
	}
	if absf(c.dollyVel) < 1e-5 {
		c.dollyVel = 0
	}
}

// ScreenRay converts a pointer position to a picking ray through the
// camera frustum. w and h are the viewport dimensions in the same pixel
// space as x and y.
func (c *Camera) ScreenRay(x, y, w, h float32) components.Ray {
	forward := c.LookAt.Sub(c.Position).Normalize()
	right := forward.Cross(c.Up).Normalize()
	up := right.Cross(forward)

	// Normalized device coordinates, +y up.
	ndx := 2*x/w - 1
	ndy := 1 - 2*y/h

	tanF := float32(math.Tan(float64(c.FovY) * math.Pi / 360))
	aspect := w / h

	dir := forward.
		Add(right.Scale(ndx * tanF * aspect)).
		Add(up.Scale(ndy * tanF)).
		Normalize()

	return components.Ray{Origin: c.Position, Dir: dir}
}

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func clamp(x, min, max float32) float32 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
