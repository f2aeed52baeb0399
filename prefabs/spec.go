package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/milk9111/stride/footik"
	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// ProfileSpec is the on-disk form of a locomotion profile.
type ProfileSpec struct {
	Name        string       `yaml:"name"`
	SampleRate  float64      `yaml:"sample_rate"`
	Joints      []string     `yaml:"joints"`
	Clips       []ClipSpec   `yaml:"clips"`
	ActionClips []ClipSpec   `yaml:"action_clips"`
	Actions     []ActionSpec `yaml:"actions"`
}

type ClipSpec struct {
	Name     string      `yaml:"name"`
	Point    [2]float64  `yaml:"point"`
	Duration float64     `yaml:"duration"`
	Curves   CurvesSpec  `yaml:"curves"`
	Tracks   []TrackSpec `yaml:"tracks"`
}

type CurvesSpec struct {
	LeftFoot  CurveSpec `yaml:"left_foot"`
	RightFoot CurveSpec `yaml:"right_foot"`
	HipOffset CurveSpec `yaml:"hip_offset"`
}

// CurveSpec is either pre-baked samples or (time, value) keys that are
// resampled on load. Samples win when both are present.
type CurveSpec struct {
	Samples    []float64    `yaml:"samples"`
	SampleRate float64      `yaml:"sample_rate"`
	Keys       [][2]float64 `yaml:"keys"`
}

type TrackSpec struct {
	Joint string    `yaml:"joint"`
	Keys  []KeySpec `yaml:"keys"`
}

// KeySpec is one joint pose key. Rot is (w, x, y, z); omitted means identity.
type KeySpec struct {
	T   float64    `yaml:"t"`
	Pos [3]float64 `yaml:"pos"`
	Rot []float64  `yaml:"rot"`
}

// ActionSpec names an action clip with fades as fractions of its duration.
type ActionSpec struct {
	Name    string  `yaml:"name"`
	Clip    string  `yaml:"clip"`
	FadeIn  float64 `yaml:"fade_in"`
	FadeOut float64 `yaml:"fade_out"`
}

func LoadProfileSpec(filename string) (*ProfileSpec, error) {
	spec, err := LoadSpec[ProfileSpec](filename)
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

// FootIKSpec mirrors footik.Config. Fields missing from the file keep their
// defaults.
type FootIKSpec struct {
	LeftFoot           string  `yaml:"left_foot"`
	RightFoot          string  `yaml:"right_foot"`
	Hips               string  `yaml:"hips"`
	FreeThreshold      float64 `yaml:"free_threshold"`
	ContactThreshold   float64 `yaml:"contact_threshold"`
	FootHeight         float64 `yaml:"foot_height"`
	FootHeightOffset   float64 `yaml:"foot_height_offset"`
	RayStartHeight     float64 `yaml:"ray_start_height"`
	MinStepHeight      float64 `yaml:"min_step_height"`
	MaxFootAboveGround float64 `yaml:"max_foot_above_ground"`
	GlobalWeight       float64 `yaml:"global_weight"`
}

func footIKSpecFrom(c footik.Config) FootIKSpec {
	return FootIKSpec{
		LeftFoot:           c.LeftFoot,
		RightFoot:          c.RightFoot,
		Hips:               c.Hips,
		FreeThreshold:      c.FreeThreshold,
		ContactThreshold:   c.ContactThreshold,
		FootHeight:         c.FootHeight,
		FootHeightOffset:   c.FootHeightOffset,
		RayStartHeight:     c.RayStartHeight,
		MinStepHeight:      c.MinStepHeight,
		MaxFootAboveGround: c.MaxFootAboveGround,
		GlobalWeight:       c.GlobalWeight,
	}
}

func LoadFootIKSpec(filename string) (*FootIKSpec, error) {
	data, err := Load(filename)
	if err != nil {
		return nil, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}
	spec := footIKSpecFrom(footik.DefaultConfig())
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}
	return &spec, nil
}

// ViewerSpec configures the preview scene.
type ViewerSpec struct {
	Profile  string       `yaml:"profile"`
	FootIK   string       `yaml:"foot_ik"`
	Director string       `yaml:"director"`
	Scale    float64      `yaml:"scale"`
	StartX   float64      `yaml:"start_x"`
	Ground   GroundSpec   `yaml:"ground"`
	Timeline TimelineSpec `yaml:"timeline"`
	Colors   ColorsSpec   `yaml:"colors"`
}

// GroundSpec is a side-view terrain: a polyline plus solid boxes given as
// [left, bottom, right, top].
type GroundSpec struct {
	Outline [][2]float64 `yaml:"outline"`
	Boxes   [][4]float64 `yaml:"boxes"`
}

// TimelineSpec scripts a scrubbable performance.
type TimelineSpec struct {
	Path   [][2]float64 `yaml:"path"`
	Speed  float64      `yaml:"speed"`
	Mapper string       `yaml:"mapper"`
	Rate   float64      `yaml:"rate"`
	Spans  []SpanSpec   `yaml:"spans"`
	Origin [3]float64   `yaml:"origin"`
}

type SpanSpec struct {
	Action string  `yaml:"action"`
	Start  float64 `yaml:"start"`
}

type ColorsSpec struct {
	Background *YAMLColor `yaml:"background"`
	Ground     *YAMLColor `yaml:"ground"`
	Bones      *YAMLColor `yaml:"bones"`
	Targets    *YAMLColor `yaml:"targets"`
}

func LoadViewerSpec(filename string) (*ViewerSpec, error) {
	spec, err := LoadSpec[ViewerSpec](filename)
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}

// Or returns the colour, or fallback when unset.
func (c *YAMLColor) Or(fallback color.Color) color.Color {
	if c == nil || c.Color == nil {
		return fallback
	}
	return c.Color
}
