package component

import (
	"github.com/milk9111/stride/footik"
	"github.com/milk9111/stride/locomotion"
	"github.com/milk9111/stride/rig"
)

// Character is one animated figure: its controller, the skeleton the
// controller writes into and the reconciler planting its feet.
type Character struct {
	Name       string
	Controller *locomotion.Controller
	Skeleton   *rig.Skeleton
	Feet       *footik.Reconciler

	// Prefab names the character was built from, matched on reload.
	ProfileName string
	FootIKName  string

	// Bones are joint pairs drawn as lines; an empty parent means the root.
	Bones [][2]string
	Last  locomotion.Result
}

// DefaultBones is a stick figure for the biped joint set.
var DefaultBones = [][2]string{
	{"", "hips"},
	{"hips", "spine"},
	{"spine", "head"},
	{"spine", "left_hand"},
	{"spine", "right_hand"},
	{"hips", "left_foot"},
	{"hips", "right_foot"},
}

var CharacterComponent = NewComponent[Character]()
