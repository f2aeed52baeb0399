package system

import (
	"github.com/milk9111/stride/ecs"
	"github.com/milk9111/stride/ecs/component"
)

// singleton returns the first instance of a component meant to exist once.
func singleton[T any](w *ecs.World, h component.ComponentHandle[T]) (*T, bool) {
	e, ok := ecs.First(w, h.Kind())
	if !ok {
		return nil, false
	}
	return ecs.Get(w, e, h.Kind())
}
