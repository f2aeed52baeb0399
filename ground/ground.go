package ground

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

//go:generate go tool mockgen -destination=./mocks/raycaster_mock.go -package=mocks . Raycaster

// Raycaster answers synchronous ground queries. dir need not be normalized;
// maxDistance is measured along the normalized direction.
type Raycaster interface {
	Raycast(origin, dir mgl64.Vec3, maxDistance float64) (mgl64.Vec3, bool)
}

// Plane is an infinite horizontal floor at Y = Height.
type Plane struct {
	Height float64
}

func (p Plane) Raycast(origin, dir mgl64.Vec3, maxDistance float64) (mgl64.Vec3, bool) {
	l := dir.Len()
	if l == 0 || maxDistance <= 0 {
		return mgl64.Vec3{}, false
	}
	d := dir.Mul(1 / l)
	if math.Abs(d.Y()) < 1e-9 {
		return mgl64.Vec3{}, false
	}
	t := (p.Height - origin.Y()) / d.Y()
	if t < 0 || t > maxDistance {
		return mgl64.Vec3{}, false
	}
	return origin.Add(d.Mul(t)), true
}
