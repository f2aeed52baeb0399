package rig

import "github.com/go-gl/mathgl/mgl64"

// Transform is a rigid position + orientation.
type Transform struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
}

func Identity() Transform {
	return Transform{Rotation: mgl64.QuatIdent()}
}

// Apply maps a point from this transform's local space into its parent space.
func (t Transform) Apply(p mgl64.Vec3) mgl64.Vec3 {
	return t.Position.Add(t.Rotation.Rotate(p))
}

// Compose returns t * local, i.e. local expressed in t's parent space.
func (t Transform) Compose(local Transform) Transform {
	return Transform{
		Position: t.Apply(local.Position),
		Rotation: t.Rotation.Mul(local.Rotation).Normalize(),
	}
}

// Up is the transform's local +Y axis in parent space.
func (t Transform) Up() mgl64.Vec3 {
	return t.Rotation.Rotate(mgl64.Vec3{0, 1, 0})
}

// Lerp interpolates position linearly and rotation spherically.
func Lerp(a, b Transform, w float64) Transform {
	if w <= 0 {
		return a
	}
	if w >= 1 {
		return b
	}
	rb := b.Rotation
	if a.Rotation.Dot(rb) < 0 {
		rb = rb.Scale(-1)
	}
	return Transform{
		Position: a.Position.Add(b.Position.Sub(a.Position).Mul(w)),
		Rotation: mgl64.QuatSlerp(a.Rotation, rb, w),
	}
}
