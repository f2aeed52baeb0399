package component

import (
	"image/color"

	"github.com/milk9111/stride/ground"
)

// Scene is the singleton holding the level geometry and viewer settings.
type Scene struct {
	ViewerName string
	Terrain    *ground.Terrain
	Debug      bool

	Background color.Color
	Ground     color.Color
	Bones      color.Color
	Targets    color.Color
}

var SceneComponent = NewComponent[Scene]()
