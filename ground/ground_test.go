package ground

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestPlaneRaycast(t *testing.T) {
	p := Plane{Height: 0.5}
	down := mgl64.Vec3{0, -1, 0}

	cases := []struct {
		name   string
		origin mgl64.Vec3
		dir    mgl64.Vec3
		max    float64
		hit    bool
		wantY  float64
	}{
		{"hit_below", mgl64.Vec3{1, 2, 3}, down, 5, true, 0.5},
		{"unnormalized_dir", mgl64.Vec3{0, 2, 0}, mgl64.Vec3{0, -4, 0}, 5, true, 0.5},
		{"too_far", mgl64.Vec3{0, 10, 0}, down, 5, false, 0},
		{"pointing_up", mgl64.Vec3{0, 2, 0}, mgl64.Vec3{0, 1, 0}, 5, false, 0},
		{"horizontal", mgl64.Vec3{0, 2, 0}, mgl64.Vec3{1, 0, 0}, 5, false, 0},
		{"zero_dir", mgl64.Vec3{0, 2, 0}, mgl64.Vec3{}, 5, false, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, ok := p.Raycast(c.origin, c.dir, c.max)
			if ok != c.hit {
				t.Fatalf("hit = %v, want %v", ok, c.hit)
			}
			if ok && math.Abs(got.Y()-c.wantY) > 1e-9 {
				t.Fatalf("hit y = %v, want %v", got.Y(), c.wantY)
			}
		})
	}
}

func TestTerrainRaycast(t *testing.T) {
	terrain := NewTerrain(
		[]mgl64.Vec2{{-10, 0}, {10, 0}},
		[]Box{{L: 2, B: 0, R: 4, T: 0.25}, {L: 5, B: 0, R: 5, T: 1}},
	)
	down := mgl64.Vec3{0, -1, 0}

	cases := []struct {
		name   string
		origin mgl64.Vec3
		hit    bool
		wantY  float64
	}{
		{"flat", mgl64.Vec3{0, 1, 0.3}, true, 0},
		{"on_step", mgl64.Vec3{3, 1, 0}, true, 0.25},
		{"off_the_edge", mgl64.Vec3{20, 1, 0}, false, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, ok := terrain.Raycast(c.origin, down, 3)
			if ok != c.hit {
				t.Fatalf("hit = %v, want %v", ok, c.hit)
			}
			if !ok {
				return
			}
			if math.Abs(got.Y()-c.wantY) > 1e-6 {
				t.Fatalf("hit y = %v, want %v", got.Y(), c.wantY)
			}
			if math.Abs(got.Z()-c.origin.Z()) > 1e-9 {
				t.Fatalf("hit z = %v, want %v", got.Z(), c.origin.Z())
			}
		})
	}

	if len(terrain.Boxes()) != 2 || len(terrain.Outline()) != 2 {
		t.Fatalf("terrain should remember its authored shapes")
	}
	if _, ok := terrain.Raycast(mgl64.Vec3{0, 1, 0}, mgl64.Vec3{0, 0, -1}, 3); ok {
		t.Fatalf("depth-axis ray should never hit the side view")
	}
}

func TestTerrainHeightAt(t *testing.T) {
	terrain := NewTerrain([]mgl64.Vec2{{0, 0}, {10, 1}}, nil)
	h, ok := terrain.HeightAt(5, 100)
	if !ok {
		t.Fatalf("expected ground under x=5")
	}
	if math.Abs(h-0.5) > 1e-6 {
		t.Fatalf("height = %v, want 0.5", h)
	}
}

func TestTerrainTop(t *testing.T) {
	cases := []struct {
		name    string
		outline []mgl64.Vec2
		boxes   []Box
		want    float64
		ok      bool
	}{
		{"empty", nil, nil, 0, false},
		{"outline", []mgl64.Vec2{{0, -1}, {2, 0.25}, {4, -0.3}}, nil, 0.25, true},
		{"box_above_outline", []mgl64.Vec2{{0, 0}, {4, 0}}, []Box{{L: 1, B: 0, R: 2, T: 0.6}}, 0.6, true},
		{"degenerate_box_ignored", []mgl64.Vec2{{0, 0}, {4, 0}}, []Box{{L: 2, B: 0, R: 1, T: 3}}, 0, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, ok := NewTerrain(c.outline, c.boxes).Top()
			if ok != c.ok || math.Abs(got-c.want) > 1e-9 {
				t.Fatalf("Top = %v, %v; want %v, %v", got, ok, c.want, c.ok)
			}
		})
	}
}
