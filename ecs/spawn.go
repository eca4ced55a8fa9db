package ecs

import (
	"github.com/milk9111/shapecache/ecs/component"
	"github.com/milk9111/shapecache/physics"
)

// Spawn creates an entity drawn with sprite at (x, y) and attaches the body
// registered for the sprite name. The entity is kept even when no body
// matches; the second result reports whether one was attached.
func Spawn(w *World, f *physics.Factory, sprite string, x, y float64) (Entity, bool) {
	e := w.CreateEntity()
	_ = w.SetTransform(e, &component.Transform{X: x, Y: y})
	_ = w.SetSprite(e, &component.Sprite{Name: sprite})
	return e, f.Attach(sprite, w.Target(e))
}
