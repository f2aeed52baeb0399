package rig

import "sort"

// Rig is the character accessor the locomotion core writes into.
// Joint returns world-space transforms; SetJointLocal takes root-local ones.
type Rig interface {
	Joint(name string) (Transform, bool)
	SetJointLocal(name string, t Transform)
	SetIKGoal(name string, goal IKGoal)
	Root() Transform
	SetRoot(t Transform)
}

// Skeleton is an in-memory Rig. Joints must be declared up front; writes to
// unknown joints are ignored, mirroring an engine rig lacking that bone.
type Skeleton struct {
	root   Transform
	joints map[string]Transform
	goals  map[string]IKGoal
}

func NewSkeleton(names ...string) *Skeleton {
	s := &Skeleton{
		root:   Identity(),
		joints: make(map[string]Transform, len(names)),
		goals:  make(map[string]IKGoal, len(names)),
	}
	for _, n := range names {
		s.joints[n] = Identity()
	}
	return s
}

func (s *Skeleton) Joint(name string) (Transform, bool) {
	if s == nil {
		return Transform{}, false
	}
	local, ok := s.joints[name]
	if !ok {
		return Transform{}, false
	}
	return s.root.Compose(local), true
}

// Local returns the root-local transform of a joint.
func (s *Skeleton) Local(name string) (Transform, bool) {
	if s == nil {
		return Transform{}, false
	}
	t, ok := s.joints[name]
	return t, ok
}

func (s *Skeleton) SetJointLocal(name string, t Transform) {
	if s == nil {
		return
	}
	if _, ok := s.joints[name]; !ok {
		return
	}
	s.joints[name] = t
}

func (s *Skeleton) SetIKGoal(name string, goal IKGoal) {
	if s == nil {
		return
	}
	if _, ok := s.joints[name]; !ok {
		return
	}
	s.goals[name] = goal
}

// IKGoal returns the last goal written for a joint.
func (s *Skeleton) IKGoal(name string) (IKGoal, bool) {
	if s == nil {
		return IKGoal{}, false
	}
	g, ok := s.goals[name]
	return g, ok
}

// Resolved returns the joint's world transform with an active IK goal
// applied. Goal positions are taken as already blended by their writer, so
// any positive PositionWeight moves the joint fully onto the goal.
func (s *Skeleton) Resolved(name string) (Transform, bool) {
	t, ok := s.Joint(name)
	if !ok {
		return Transform{}, false
	}
	g, ok := s.goals[name]
	if !ok || g.PositionWeight <= 0 {
		return t, true
	}
	t.Position = g.Position
	return t, true
}

func (s *Skeleton) Root() Transform {
	if s == nil {
		return Identity()
	}
	return s.root
}

func (s *Skeleton) SetRoot(t Transform) {
	if s == nil {
		return
	}
	s.root = t
}

// Names lists declared joints in sorted order.
func (s *Skeleton) Names() []string {
	if s == nil {
		return nil
	}
	out := make([]string, 0, len(s.joints))
	for n := range s.joints {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
