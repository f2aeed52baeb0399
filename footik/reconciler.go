package footik

import (
	"log"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/stride/common"
	"github.com/milk9111/stride/ground"
	"github.com/milk9111/stride/motion"
	"github.com/milk9111/stride/rig"
)

// FootState is the per-foot memory carried between evaluations plus the
// outputs of the last one.
type FootState struct {
	Weight   float64
	Phase    FootPhase
	Grounded bool
	Animated mgl64.Vec3
	Ground   mgl64.Vec3
	Target   mgl64.Vec3
}

// Result reports one reconciliation pass.
type Result struct {
	Feet       [2]FootState
	RootOffset float64
	Root       rig.Transform
}

// Reconciler pulls animated feet toward raycast ground by their magnet
// weights and drops the root so a planted foot sits exactly on the ground.
type Reconciler struct {
	cfg    Config
	ground ground.Raycaster
	feet   [2]FootState
	warned map[string]bool
}

func NewReconciler(cfg Config, g ground.Raycaster) (*Reconciler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Reconciler{
		cfg:    cfg,
		ground: g,
		warned: make(map[string]bool),
	}, nil
}

func (r *Reconciler) Config() Config {
	if r == nil {
		return Config{}
	}
	return r.cfg
}

// SetConfig replaces the tuning after validating it. Foot memory and
// one-time warnings are reset.
func (r *Reconciler) SetConfig(cfg Config) error {
	if r == nil {
		return nil
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	r.cfg = cfg
	r.feet = [2]FootState{}
	r.warned = make(map[string]bool)
	return nil
}

// SetGround swaps the ground collaborator, e.g. after a level reload.
func (r *Reconciler) SetGround(g ground.Raycaster) {
	if r == nil {
		return
	}
	r.ground = g
}

func (r *Reconciler) Foot(f Foot) FootState {
	if r == nil || f < Left || f > Right {
		return FootState{}
	}
	return r.feet[f]
}

// Reset forgets previous weights and phases.
func (r *Reconciler) Reset() {
	if r == nil {
		return
	}
	r.feet = [2]FootState{}
}

// Reconcile reads animated joints from rg, writes IK goals for both feet and
// the hips, and moves the root vertically when a foot is in Contact.
func (r *Reconciler) Reconcile(rg rig.Rig, s motion.Signals) Result {
	var out Result
	if r == nil || rg == nil {
		return out
	}
	root := rg.Root()
	up := root.Up()

	weights := [2]float64{common.Clamp01(s.LeftFoot), common.Clamp01(s.RightFoot)}
	joints := [2]string{r.cfg.LeftFoot, r.cfg.RightFoot}

	support := -1
	for f := Left; f <= Right; f++ {
		r.trackFoot(rg, f, joints[f], weights[f], up)
		st := r.feet[f]
		if st.Phase != Contact || !st.Grounded {
			continue
		}
		if support < 0 || st.Ground.Y() < r.feet[support].Ground.Y() {
			support = int(f)
		}
	}

	if support >= 0 {
		st := r.feet[support]
		out.RootOffset = st.Ground.Y() - st.Animated.Y()
		root.Position = mgl64.Vec3{root.Position.X(), root.Position.Y() + out.RootOffset, root.Position.Z()}
		rg.SetRoot(root)
	}

	// Goals are written against the shifted root so the support foot
	// lands on its ground point for any contact weight.
	for f := Left; f <= Right; f++ {
		r.placeFoot(rg, f, joints[f], weights[f])
	}

	r.placeHips(rg, s.HipOffset, weights, up)

	out.Feet = r.feet
	out.Root = root
	return out
}

// trackFoot advances the foot's phase and finds the ground under its
// animated position. No goal is written.
func (r *Reconciler) trackFoot(rg rig.Rig, f Foot, joint string, m float64, up mgl64.Vec3) {
	st := &r.feet[f]
	if joint == "" {
		return
	}
	animated, ok := rg.Joint(joint)
	if !ok {
		if !r.warned[joint] {
			log.Printf("Reconciler: rig has no %s foot joint %q, skipping its IK", f, joint)
			r.warned[joint] = true
		}
		*st = FootState{}
		return
	}

	phase := classify(m, st.Weight, st.Phase, r.cfg)
	st.Weight = m
	st.Phase = phase
	st.Animated = animated.Position
	st.Target = animated.Position
	st.Grounded = false
	if phase == Free {
		return
	}

	groundPos, ok := r.groundUnder(animated.Position, up)
	if !ok {
		return
	}
	st.Grounded = true
	st.Ground = groundPos
}

// placeFoot re-reads the animated foot after any root move and writes its
// IK goal, blended toward the ground by m.
func (r *Reconciler) placeFoot(rg rig.Rig, f Foot, joint string, m float64) {
	if joint == "" {
		return
	}
	animated, ok := rg.Joint(joint)
	if !ok {
		return
	}
	st := &r.feet[f]
	st.Animated = animated.Position
	st.Target = animated.Position
	if st.Phase == Free || !st.Grounded {
		rg.SetIKGoal(joint, rig.IKGoal{Position: animated.Position, Rotation: animated.Rotation})
		return
	}

	st.Target = animated.Position.Add(st.Ground.Sub(animated.Position).Mul(m))
	rg.SetIKGoal(joint, rig.IKGoal{
		Position:       st.Target,
		Rotation:       animated.Rotation,
		PositionWeight: m * r.cfg.GlobalWeight,
		RotationWeight: 0,
	})
}

// groundUnder casts from above the foot along -up and returns the grounded
// foot position, or false when nothing valid is in range.
func (r *Reconciler) groundUnder(foot, up mgl64.Vec3) (mgl64.Vec3, bool) {
	if r.ground == nil {
		return mgl64.Vec3{}, false
	}
	origin := foot.Add(up.Mul(r.cfg.RayStartHeight))
	hit, ok := r.ground.Raycast(origin, up.Mul(-1), r.cfg.RayStartHeight+r.cfg.MaxFootAboveGround)
	if !ok {
		return mgl64.Vec3{}, false
	}
	below := foot.Sub(hit).Dot(up)
	if below < r.cfg.MinStepHeight || below > r.cfg.MaxFootAboveGround {
		return mgl64.Vec3{}, false
	}
	return hit.Add(up.Mul(r.cfg.FootHeight + r.cfg.FootHeightOffset)), true
}

// placeHips lowers the hips by the blended hip offset, scaled by how planted
// the most planted foot is.
func (r *Reconciler) placeHips(rg rig.Rig, offset float64, weights [2]float64, up mgl64.Vec3) {
	if r.cfg.Hips == "" {
		return
	}
	hips, ok := rg.Joint(r.cfg.Hips)
	if !ok {
		if !r.warned[r.cfg.Hips] {
			log.Printf("Reconciler: rig has no hips joint %q, skipping hip offset", r.cfg.Hips)
			r.warned[r.cfg.Hips] = true
		}
		return
	}
	drop := offset * max(weights[0], weights[1])
	if common.NearZero(drop) {
		rg.SetIKGoal(r.cfg.Hips, rig.IKGoal{Position: hips.Position, Rotation: hips.Rotation})
		return
	}
	rg.SetIKGoal(r.cfg.Hips, rig.IKGoal{
		Position:       hips.Position.Sub(up.Mul(drop)),
		Rotation:       hips.Rotation,
		PositionWeight: r.cfg.GlobalWeight,
	})
}
