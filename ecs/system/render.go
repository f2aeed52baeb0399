package system

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/stride/ecs"
	"github.com/milk9111/stride/ecs/component"
	"github.com/milk9111/stride/footik"
	"github.com/milk9111/stride/prefabs"
	"golang.org/x/image/colornames"
)

const (
	boneWidth   = 3
	groundWidth = 2
	targetSize  = 6
	jointSize   = 4
)

// RenderSystem draws the terrain and every character as a stick figure,
// with foot IK targets marked when the overlay is on.
type RenderSystem struct{}

func NewRenderSystem() *RenderSystem {
	return &RenderSystem{}
}

func (r *RenderSystem) Update(w *ecs.World) {}

func (r *RenderSystem) Draw(w *ecs.World, screen *ebiten.Image) {
	if r == nil || w == nil || screen == nil {
		return
	}
	camEntity, ok := ecs.First(w, component.CameraComponent.Kind())
	if !ok {
		return
	}
	cam, ok := ecs.Get(w, camEntity, component.CameraComponent.Kind())
	if !ok {
		return
	}
	scene, ok := singleton(w, component.SceneComponent)
	if !ok {
		scene = &component.Scene{}
		ApplyColors(scene, prefabs.ColorsSpec{})
	}
	if scene.Background != nil {
		screen.Fill(scene.Background)
	}

	drawTerrain(screen, *cam, scene)

	ecs.ForEach(w, component.CharacterComponent.Kind(), func(e ecs.Entity, ch *component.Character) {
		drawCharacter(screen, *cam, scene, ch)
	})
}

func drawTerrain(screen *ebiten.Image, cam component.Camera, scene *component.Scene) {
	if scene.Terrain == nil {
		return
	}
	clr := scene.Ground
	if clr == nil {
		clr = colornames.Darkolivegreen
	}
	outline := scene.Terrain.Outline()
	for i := 1; i < len(outline); i++ {
		x0, y0 := cam.ToScreen(outline[i-1].X(), outline[i-1].Y())
		x1, y1 := cam.ToScreen(outline[i].X(), outline[i].Y())
		vector.StrokeLine(screen, x0, y0, x1, y1, groundWidth, clr, true)
	}
	for _, b := range scene.Terrain.Boxes() {
		x0, y0 := cam.ToScreen(b.L, b.T)
		x1, y1 := cam.ToScreen(b.R, b.B)
		vector.FillRect(screen, x0, y0, x1-x0, y1-y0, clr, false)
	}
}

func drawCharacter(screen *ebiten.Image, cam component.Camera, scene *component.Scene, ch *component.Character) {
	if ch.Skeleton == nil {
		return
	}
	clr := scene.Bones
	if clr == nil {
		clr = colornames.Whitesmoke
	}
	for _, seg := range BoneSegments(cam, ch) {
		vector.StrokeLine(screen, seg.X0, seg.Y0, seg.X1, seg.Y1, boneWidth, clr, true)
		vector.FillRect(screen, seg.X1-jointSize/2, seg.Y1-jointSize/2, jointSize, jointSize, clr, false)
	}

	if !scene.Debug {
		return
	}
	target := scene.Targets
	if target == nil {
		target = colornames.Orangered
	}
	for _, foot := range ch.Last.Feet {
		if foot.Phase == footik.Free {
			continue
		}
		x, y := cam.ToScreen(foot.Target.X(), foot.Target.Y())
		vector.StrokeRect(screen, x-targetSize/2, y-targetSize/2, targetSize, targetSize, 1, target, false)
		if foot.Grounded {
			gx, gy := cam.ToScreen(foot.Ground.X(), foot.Ground.Y())
			vector.StrokeLine(screen, x, y, gx, gy, 1, target, false)
		}
	}
}

// BoneSegment is one bone projected to screen space, parent end first.
type BoneSegment struct {
	X0, Y0, X1, Y1 float32
}

// BoneSegments projects the character's bones using resolved joint
// positions. Bones naming a joint the skeleton lacks are skipped.
func BoneSegments(cam component.Camera, ch *component.Character) []BoneSegment {
	if ch == nil || ch.Skeleton == nil {
		return nil
	}
	root := ch.Skeleton.Root().Position
	segs := make([]BoneSegment, 0, len(ch.Bones))
	for _, bone := range ch.Bones {
		from, ok := root, true
		if bone[0] != "" {
			t, found := ch.Skeleton.Resolved(bone[0])
			from, ok = t.Position, found
		}
		to, found := ch.Skeleton.Resolved(bone[1])
		if !ok || !found {
			continue
		}
		x0, y0 := cam.ToScreen(from.X(), from.Y())
		x1, y1 := cam.ToScreen(to.Position.X(), to.Position.Y())
		segs = append(segs, BoneSegment{X0: x0, Y0: y0, X1: x1, Y1: y1})
	}
	return segs
}
