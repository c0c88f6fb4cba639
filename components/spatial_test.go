package components

import (
	"math"
	"testing"
)

func TestVec3Normalize(t *testing.T) {
	v := Vec3{X: 3, Y: 4}.Normalize()
	if math.Abs(float64(v.Length()-1)) > 1e-6 {
		t.Errorf("normalized length = %f, want 1", v.Length())
	}

	// Zero vector normalizes to zero, not NaN.
	z := Vec3{}.Normalize()
	if z.X != 0 || z.Y != 0 || z.Z != 0 {
		t.Errorf("zero normalize = %+v, want zero", z)
	}
}

func TestVec3Lerp(t *testing.T) {
	a := Vec3{X: 0, Y: 0, Z: 0}
	b := Vec3{X: 10, Y: -10, Z: 4}

	mid := a.Lerp(b, 0.5)
	if mid.X != 5 || mid.Y != -5 || mid.Z != 2 {
		t.Errorf("lerp midpoint = %+v", mid)
	}
	if got := a.Lerp(b, 0); got != a {
		t.Errorf("lerp(0) = %+v, want start", got)
	}
	if got := a.Lerp(b, 1); got != b {
		t.Errorf("lerp(1) = %+v, want end", got)
	}
}

func TestVec3IsFinite(t *testing.T) {
	if !(Vec3{X: 1, Y: 2, Z: 3}).IsFinite() {
		t.Error("finite vector reported non-finite")
	}
	nan := float32(math.NaN())
	if (Vec3{X: nan}).IsFinite() {
		t.Error("NaN vector reported finite")
	}
	inf := float32(math.Inf(1))
	if (Vec3{Z: inf}).IsFinite() {
		t.Error("Inf vector reported finite")
	}
}

func TestRayIntersectSphereHit(t *testing.T) {
	ray := Ray{Origin: Vec3{Z: -10}, Dir: Vec3{Z: 1}}

	tHit, ok := ray.IntersectSphere(Vec3{}, 1)
	if !ok {
		t.Fatal("expected a hit through the sphere center")
	}
	// Entry point at z=-1, so t=9.
	if math.Abs(float64(tHit-9)) > 1e-4 {
		t.Errorf("hit distance = %f, want 9", tHit)
	}
}

func TestRayIntersectSphereMiss(t *testing.T) {
	ray := Ray{Origin: Vec3{X: 5, Z: -10}, Dir: Vec3{Z: 1}}
	if _, ok := ray.IntersectSphere(Vec3{}, 1); ok {
		t.Error("expected a miss for an offset ray")
	}
}

func TestRayIntersectSphereBehind(t *testing.T) {
	// Sphere entirely behind the origin must not hit.
	ray := Ray{Origin: Vec3{Z: 10}, Dir: Vec3{Z: 1}}
	if _, ok := ray.IntersectSphere(Vec3{}, 1); ok {
		t.Error("expected a miss for a sphere behind the ray")
	}
}

func TestRayIntersectSphereInside(t *testing.T) {
	// Origin inside the sphere still reports a forward hit.
	ray := Ray{Origin: Vec3{}, Dir: Vec3{Z: 1}}
	tHit, ok := ray.IntersectSphere(Vec3{}, 2)
	if !ok {
		t.Fatal("expected a hit from inside the sphere")
	}
	if tHit < 0 {
		t.Errorf("hit distance %f must not be behind the origin", tHit)
	}
}
