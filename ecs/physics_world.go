package ecs

import "github.com/jakecoffman/cp"

// PhysicsWorld owns the Chipmunk space entity bodies are attached to. It is
// also the system that steps the space and syncs transforms.
type PhysicsWorld struct {
	space    *cp.Space
	timestep float64
}

// NewPhysicsWorld creates a space with the given gravity. Each Update
// advances the simulation by timestep.
func NewPhysicsWorld(gravity cp.Vector, iterations int, timestep float64) *PhysicsWorld {
	space := cp.NewSpace()
	if iterations > 0 {
		space.Iterations = uint(iterations)
	}
	space.SetGravity(gravity)
	return &PhysicsWorld{space: space, timestep: timestep}
}

// Space returns the underlying Chipmunk space.
func (pw *PhysicsWorld) Space() *cp.Space {
	if pw == nil {
		return nil
	}
	return pw.space
}

// Step advances the physics simulation.
func (pw *PhysicsWorld) Step(dt float64) {
	if pw == nil || pw.space == nil || dt <= 0 {
		return
	}
	pw.space.Step(dt)
}

func (pw *PhysicsWorld) Update(w *World) {
	if pw == nil || w == nil {
		return
	}
	pw.Step(pw.timestep)
	w.syncTransforms()
}
