package prefabs

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/stride/footik"
	"github.com/milk9111/stride/ground"
	"github.com/milk9111/stride/motion"
	"github.com/milk9111/stride/timeline"
)

const defaultSampleRate = 30.0

var (
	ErrUnknownActionClip = errors.New("prefabs: action refers to unknown clip")
	ErrBadRotation       = errors.New("prefabs: rotation must have 4 components (w, x, y, z)")
	ErrBadMapper         = errors.New("prefabs: unknown timeline mapper")
)

// BuildProfile bakes a profile spec into immutable clips and validates it.
func BuildProfile(spec *ProfileSpec) (*motion.LocomotionProfile, error) {
	if spec == nil {
		return nil, motion.ErrNoClips
	}
	rate := spec.SampleRate
	if rate <= 0 {
		rate = defaultSampleRate
	}

	profile := &motion.LocomotionProfile{
		Name:   spec.Name,
		Joints: append([]string(nil), spec.Joints...),
	}
	for _, cs := range spec.Clips {
		clip, err := buildClip(cs, rate)
		if err != nil {
			return nil, fmt.Errorf("prefabs: profile %q: %w", spec.Name, err)
		}
		profile.Clips = append(profile.Clips, clip)
	}

	actionClips := make(map[string]*motion.MotionClip, len(spec.ActionClips))
	for _, cs := range spec.ActionClips {
		clip, err := buildClip(cs, rate)
		if err != nil {
			return nil, fmt.Errorf("prefabs: profile %q: %w", spec.Name, err)
		}
		actionClips[cs.Name] = clip
	}
	for _, as := range spec.Actions {
		clipName := as.Clip
		if clipName == "" {
			clipName = as.Name
		}
		clip, ok := actionClips[clipName]
		if !ok {
			return nil, fmt.Errorf("%w: action %q wants %q", ErrUnknownActionClip, as.Name, clipName)
		}
		profile.Actions = append(profile.Actions, motion.ActionClip{
			Name:    as.Name,
			Clip:    clip,
			FadeIn:  as.FadeIn,
			FadeOut: as.FadeOut,
		})
	}

	if err := profile.Validate(); err != nil {
		return nil, fmt.Errorf("prefabs: %w", err)
	}
	return profile, nil
}

// LoadProfile loads and builds a profile in one step.
func LoadProfile(filename string) (*motion.LocomotionProfile, error) {
	spec, err := LoadProfileSpec(filename)
	if err != nil {
		return nil, err
	}
	return BuildProfile(spec)
}

func buildClip(cs ClipSpec, rate float64) (*motion.MotionClip, error) {
	clip := &motion.MotionClip{
		Name:     cs.Name,
		Duration: cs.Duration,
		Point:    mgl64.Vec2{cs.Point[0], cs.Point[1]},
	}
	if err := clip.Validate(); err != nil {
		return nil, err
	}
	clip.LeftFoot = buildCurve(cs.Curves.LeftFoot, cs.Duration, rate)
	clip.RightFoot = buildCurve(cs.Curves.RightFoot, cs.Duration, rate)
	clip.HipOffset = buildCurve(cs.Curves.HipOffset, cs.Duration, rate)
	for _, ts := range cs.Tracks {
		tr, err := buildTrack(ts, cs.Duration, rate)
		if err != nil {
			return nil, fmt.Errorf("clip %q: %w", cs.Name, err)
		}
		clip.Tracks = append(clip.Tracks, tr)
	}
	return clip, nil
}

func buildCurve(cs CurveSpec, duration, rate float64) motion.Curve {
	if len(cs.Samples) > 0 {
		r := cs.SampleRate
		if r <= 0 {
			r = rate
		}
		return motion.Curve{SampleRate: r, Samples: append([]float64(nil), cs.Samples...)}
	}
	switch len(cs.Keys) {
	case 0:
		return motion.ConstantCurve(0)
	case 1:
		return motion.ConstantCurve(cs.Keys[0][1])
	}

	keys := append([][2]float64(nil), cs.Keys...)
	sort.SliceStable(keys, func(i, j int) bool { return keys[i][0] < keys[j][0] })
	n := sampleCount(duration, rate)
	c := motion.Curve{SampleRate: rate, Samples: make([]float64, n)}
	for i := range c.Samples {
		c.Samples[i] = keyValue(keys, float64(i)/rate)
	}
	return c
}

// keyValue interpolates piecewise-linearly through sorted keys, holding the
// end values outside them.
func keyValue(keys [][2]float64, t float64) float64 {
	if t <= keys[0][0] {
		return keys[0][1]
	}
	for i := 1; i < len(keys); i++ {
		if t <= keys[i][0] {
			a, b := keys[i-1], keys[i]
			span := b[0] - a[0]
			if span <= 0 {
				return b[1]
			}
			return a[1] + (b[1]-a[1])*(t-a[0])/span
		}
	}
	return keys[len(keys)-1][1]
}

func buildTrack(ts TrackSpec, duration, rate float64) (motion.Track, error) {
	tr := motion.Track{Joint: ts.Joint, SampleRate: rate}
	if len(ts.Keys) == 0 {
		return tr, nil
	}

	keys := append([]KeySpec(nil), ts.Keys...)
	sort.SliceStable(keys, func(i, j int) bool { return keys[i].T < keys[j].T })
	rots := make([]mgl64.Quat, len(keys))
	anyRot := false
	for i, k := range keys {
		q, err := keyRotation(k.Rot)
		if err != nil {
			return motion.Track{}, fmt.Errorf("track %q key %d: %w", ts.Joint, i, err)
		}
		rots[i] = q
		anyRot = anyRot || len(k.Rot) > 0
	}

	if len(keys) == 1 {
		tr.Positions = []mgl64.Vec3{vec3(keys[0].Pos)}
		tr.Rotations = []mgl64.Quat{rots[0]}
		return tr, nil
	}

	n := sampleCount(duration, rate)
	tr.Positions = make([]mgl64.Vec3, n)
	if anyRot {
		tr.Rotations = make([]mgl64.Quat, n)
	} else {
		tr.Rotations = []mgl64.Quat{mgl64.QuatIdent()}
	}
	for i := 0; i < n; i++ {
		t := float64(i) / rate
		j, frac := keySpan(keys, t)
		a, b := vec3(keys[j].Pos), vec3(keys[min(j+1, len(keys)-1)].Pos)
		tr.Positions[i] = a.Add(b.Sub(a).Mul(frac))
		if anyRot {
			qa, qb := rots[j], rots[min(j+1, len(keys)-1)]
			if qa.Dot(qb) < 0 {
				qb = qb.Scale(-1)
			}
			tr.Rotations[i] = mgl64.QuatSlerp(qa, qb, frac)
		}
	}
	return tr, nil
}

// keySpan finds the key segment containing t and the fraction within it.
func keySpan(keys []KeySpec, t float64) (int, float64) {
	if t <= keys[0].T {
		return 0, 0
	}
	for i := 1; i < len(keys); i++ {
		if t <= keys[i].T {
			span := keys[i].T - keys[i-1].T
			if span <= 0 {
				return i, 0
			}
			return i - 1, (t - keys[i-1].T) / span
		}
	}
	return len(keys) - 1, 0
}

func keyRotation(r []float64) (mgl64.Quat, error) {
	switch len(r) {
	case 0:
		return mgl64.QuatIdent(), nil
	case 4:
		q := mgl64.Quat{W: r[0], V: mgl64.Vec3{r[1], r[2], r[3]}}
		if q.Len() == 0 {
			return mgl64.Quat{}, ErrBadRotation
		}
		return q.Normalize(), nil
	default:
		return mgl64.Quat{}, ErrBadRotation
	}
}

func sampleCount(duration, rate float64) int {
	return int(math.Ceil(duration*rate-1e-9)) + 1
}

func vec3(v [3]float64) mgl64.Vec3 {
	return mgl64.Vec3{v[0], v[1], v[2]}
}

// Config converts the spec into a validated reconciler config.
func (s *FootIKSpec) Config() (footik.Config, error) {
	if s == nil {
		return footik.DefaultConfig(), nil
	}
	cfg := footik.Config{
		LeftFoot:           s.LeftFoot,
		RightFoot:          s.RightFoot,
		Hips:               s.Hips,
		FreeThreshold:      s.FreeThreshold,
		ContactThreshold:   s.ContactThreshold,
		FootHeight:         s.FootHeight,
		FootHeightOffset:   s.FootHeightOffset,
		RayStartHeight:     s.RayStartHeight,
		MinStepHeight:      s.MinStepHeight,
		MaxFootAboveGround: s.MaxFootAboveGround,
		GlobalWeight:       s.GlobalWeight,
	}
	if err := cfg.Validate(); err != nil {
		return footik.Config{}, fmt.Errorf("prefabs: foot ik: %w", err)
	}
	return cfg, nil
}

// BuildReconciler loads a foot IK spec and returns a reconciler over g.
func BuildReconciler(filename string, g ground.Raycaster) (*footik.Reconciler, error) {
	spec, err := LoadFootIKSpec(filename)
	if err != nil {
		return nil, err
	}
	cfg, err := spec.Config()
	if err != nil {
		return nil, err
	}
	return footik.NewReconciler(cfg, g)
}

// BuildTerrain turns a ground spec into a Chipmunk-backed raycaster.
func BuildTerrain(spec GroundSpec) *ground.Terrain {
	outline := make([]mgl64.Vec2, 0, len(spec.Outline))
	for _, p := range spec.Outline {
		outline = append(outline, mgl64.Vec2{p[0], p[1]})
	}
	boxes := make([]ground.Box, 0, len(spec.Boxes))
	for _, b := range spec.Boxes {
		boxes = append(boxes, ground.Box{L: b[0], B: b[1], R: b[2], T: b[3]})
	}
	return ground.NewTerrain(outline, boxes)
}

// BuildTimeline converts a timeline spec. mapper is "scrub" (default) or
// "distance".
func BuildTimeline(spec TimelineSpec) (*timeline.Timeline, error) {
	tl := &timeline.Timeline{
		Path:   timeline.Path{Speed: spec.Speed},
		Origin: vec3(spec.Origin),
	}
	for _, p := range spec.Path {
		tl.Path.Waypoints = append(tl.Path.Waypoints, mgl64.Vec2{p[0], p[1]})
	}
	for _, s := range spec.Spans {
		tl.Spans = append(tl.Spans, timeline.ActionSpan{Action: s.Action, Start: s.Start})
	}
	switch spec.Mapper {
	case "", "scrub":
		tl.Mapper = timeline.ScrubMapper{Rate: spec.Rate}
	case "distance":
		speed := spec.Rate
		if speed == 0 {
			speed = spec.Speed
		}
		tl.Mapper = timeline.DistanceMapper{Speed: speed}
	default:
		return nil, fmt.Errorf("%w: %q", ErrBadMapper, spec.Mapper)
	}
	return tl, nil
}
