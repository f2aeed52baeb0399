package rig

import "github.com/go-gl/mathgl/mgl64"

// Pose is a set of root-local joint transforms, parallel to a joint name list.
// Driven marks joints that some clip actually animated this evaluation.
type Pose struct {
	Names  []string
	Joints []Transform
	Driven []bool
}

func NewPose(names []string) Pose {
	p := Pose{
		Names:  append([]string(nil), names...),
		Joints: make([]Transform, len(names)),
		Driven: make([]bool, len(names)),
	}
	for i := range p.Joints {
		p.Joints[i] = Identity()
	}
	return p
}

// Index returns the joint slot for name, or -1.
func (p Pose) Index(name string) int {
	for i, n := range p.Names {
		if n == name {
			return i
		}
	}
	return -1
}

// Joint returns the transform for name when the joint is driven.
func (p Pose) Joint(name string) (Transform, bool) {
	i := p.Index(name)
	if i < 0 || !p.Driven[i] {
		return Transform{}, false
	}
	return p.Joints[i], true
}

func (p Pose) Clone() Pose {
	return Pose{
		Names:  append([]string(nil), p.Names...),
		Joints: append([]Transform(nil), p.Joints...),
		Driven: append([]bool(nil), p.Driven...),
	}
}

// IKGoal is a world-space target handed to the rig's IK solver.
type IKGoal struct {
	Position       mgl64.Vec3
	Rotation       mgl64.Quat
	PositionWeight float64
	RotationWeight float64
}
