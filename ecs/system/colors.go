package system

import (
	"github.com/milk9111/stride/ecs/component"
	"github.com/milk9111/stride/prefabs"
	"golang.org/x/image/colornames"
)

// ApplyColors copies viewer colours into the scene, falling back to fixed
// defaults for any left out.
func ApplyColors(scene *component.Scene, colors prefabs.ColorsSpec) {
	if scene == nil {
		return
	}
	scene.Background = colors.Background.Or(colornames.Midnightblue)
	scene.Ground = colors.Ground.Or(colornames.Darkolivegreen)
	scene.Bones = colors.Bones.Or(colornames.Whitesmoke)
	scene.Targets = colors.Targets.Or(colornames.Orangered)
}
