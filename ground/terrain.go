package ground

import (
	"log"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
)

const (
	collisionTypeGround cp.CollisionType = iota + 1
	collisionTypeStep
)

// Box is an axis-aligned solid block in the side-view plane (X right, Y up).
type Box struct {
	L, B, R, T float64
}

// Terrain is a side-view ground made of static Chipmunk shapes. Queries are
// answered in the XY plane; the Z component of a hit is interpolated along
// the ray.
type Terrain struct {
	space   *cp.Space
	outline []mgl64.Vec2
	boxes   []Box
}

// NewTerrain builds a static space from a ground polyline and optional boxes.
func NewTerrain(outline []mgl64.Vec2, boxes []Box) *Terrain {
	space := cp.NewSpace()
	t := &Terrain{
		space:   space,
		outline: append([]mgl64.Vec2(nil), outline...),
		boxes:   append([]Box(nil), boxes...),
	}

	for i := 1; i < len(t.outline); i++ {
		a, b := t.outline[i-1], t.outline[i]
		if a.ApproxEqual(b) {
			continue
		}
		shape := cp.NewSegment(space.StaticBody, cp.Vector{X: a.X(), Y: a.Y()}, cp.Vector{X: b.X(), Y: b.Y()}, 0)
		shape.SetFriction(0.8)
		shape.SetCollisionType(collisionTypeGround)
		space.AddShape(shape)
	}
	for _, bx := range t.boxes {
		if bx.R <= bx.L || bx.T <= bx.B {
			log.Printf("Terrain: skipping degenerate box %+v", bx)
			continue
		}
		shape := cp.NewBox2(space.StaticBody, cp.BB{L: bx.L, B: bx.B, R: bx.R, T: bx.T}, 0)
		shape.SetFriction(0.8)
		shape.SetCollisionType(collisionTypeStep)
		space.AddShape(shape)
	}
	return t
}

func (t *Terrain) Raycast(origin, dir mgl64.Vec3, maxDistance float64) (mgl64.Vec3, bool) {
	if t == nil || t.space == nil || maxDistance <= 0 {
		return mgl64.Vec3{}, false
	}
	l := dir.Len()
	if l == 0 {
		return mgl64.Vec3{}, false
	}
	d := dir.Mul(1 / l)
	if (mgl64.Vec2{d.X(), d.Y()}).Len() < 1e-9 {
		// parallel to the depth axis: the side view has nothing to hit
		return mgl64.Vec3{}, false
	}
	end := origin.Add(d.Mul(maxDistance))
	info := t.space.SegmentQueryFirst(
		cp.Vector{X: origin.X(), Y: origin.Y()},
		cp.Vector{X: end.X(), Y: end.Y()},
		0,
		cp.SHAPE_FILTER_ALL,
	)
	if info.Shape == nil {
		return mgl64.Vec3{}, false
	}
	return origin.Add(end.Sub(origin).Mul(info.Alpha)), true
}

// Outline returns the ground polyline used to build the terrain.
func (t *Terrain) Outline() []mgl64.Vec2 {
	if t == nil {
		return nil
	}
	return t.outline
}

func (t *Terrain) Boxes() []Box {
	if t == nil {
		return nil
	}
	return t.boxes
}

// Top reports the highest point of the outline and boxes, or false for an
// empty terrain.
func (t *Terrain) Top() (float64, bool) {
	if t == nil {
		return 0, false
	}
	top, ok := 0.0, false
	for _, p := range t.outline {
		if !ok || p.Y() > top {
			top, ok = p.Y(), true
		}
	}
	for _, bx := range t.boxes {
		if bx.R <= bx.L || bx.T <= bx.B {
			continue
		}
		if !ok || bx.T > top {
			top, ok = bx.T, true
		}
	}
	return top, ok
}

// HeightAt casts straight down from (x, from) and reports the first
// surface height.
func (t *Terrain) HeightAt(x, from float64) (float64, bool) {
	hit, ok := t.Raycast(mgl64.Vec3{x, from, 0}, mgl64.Vec3{0, -1, 0}, 1e6)
	if !ok {
		return 0, false
	}
	return hit.Y(), true
}
