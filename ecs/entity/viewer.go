package entity

import (
	"fmt"

	"github.com/milk9111/stride/ecs"
	"github.com/milk9111/stride/ecs/component"
	"github.com/milk9111/stride/ecs/system"
	"github.com/milk9111/stride/prefabs"
)

const (
	defaultDT        = 1.0 / 60
	defaultScale     = 100
	defaultSmoothing = 0.12
)

// Viewer holds the entities NewViewer created.
type Viewer struct {
	Scene     ecs.Entity
	Clock     ecs.Entity
	Camera    ecs.Entity
	Character ecs.Entity
}

// NewViewer populates w from a viewer spec: scene and terrain, clock,
// camera and one scripted character carrying the viewer timeline.
func NewViewer(w *ecs.World, name string, width, height float64) (Viewer, error) {
	var v Viewer
	spec, err := prefabs.LoadViewerSpec(name)
	if err != nil {
		return v, fmt.Errorf("viewer: load spec: %w", err)
	}

	scene := &component.Scene{ViewerName: name, Terrain: prefabs.BuildTerrain(spec.Ground)}
	system.ApplyColors(scene, spec.Colors)
	v.Scene = ecs.CreateEntity(w)
	if err := ecs.Add(w, v.Scene, component.SceneComponent.Kind(), scene); err != nil {
		return v, fmt.Errorf("viewer: add scene: %w", err)
	}

	v.Clock = ecs.CreateEntity(w)
	if err := ecs.Add(w, v.Clock, component.ClockComponent.Kind(), &component.Clock{DT: defaultDT, ScrubRate: 1}); err != nil {
		return v, fmt.Errorf("viewer: add clock: %w", err)
	}

	scale := spec.Scale
	if scale <= 0 {
		scale = defaultScale
	}
	v.Camera = ecs.CreateEntity(w)
	if err := ecs.Add(w, v.Camera, component.CameraComponent.Kind(), &component.Camera{
		X:          spec.StartX,
		Y:          0,
		Scale:      scale,
		Smoothness: defaultSmoothing,
		Width:      width,
		Height:     height,
	}); err != nil {
		return v, fmt.Errorf("viewer: add camera: %w", err)
	}

	v.Character, err = NewCharacter(w, CharacterSpec{
		Profile: spec.Profile,
		FootIK:  spec.FootIK,
		Script:  spec.Director,
		X:       spec.StartX,
	}, scene.Terrain)
	if err != nil {
		return v, fmt.Errorf("viewer: %w", err)
	}

	tl, err := prefabs.BuildTimeline(spec.Timeline)
	if err != nil {
		return v, fmt.Errorf("viewer: %w", err)
	}
	ch, _ := ecs.Get(w, v.Character, component.CharacterComponent.Kind())
	if err := tl.Validate(ch.Controller.Profile()); err != nil {
		return v, fmt.Errorf("viewer: timeline: %w", err)
	}
	if err := ecs.Add(w, v.Character, component.TimelineComponent.Kind(), &component.Timeline{Timeline: tl}); err != nil {
		return v, fmt.Errorf("viewer: add timeline: %w", err)
	}
	return v, nil
}
