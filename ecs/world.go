package ecs

import (
	"errors"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/shapecache/ecs/component"
	"github.com/milk9111/shapecache/physics"
)

var (
	ErrEntityNotAlive = errors.New("ecs: entity not alive")
	ErrNilComponent   = errors.New("ecs: component is nil")
	ErrNoPhysicsWorld = errors.New("ecs: no physics world attached")
)

// World owns entities, their components and the system order.
type World struct {
	entities  entityStore
	scheduler Scheduler
	events    EventQueue

	transforms SparseSet[*component.Transform]
	sprites    SparseSet[*component.Sprite]
	bodies     SparseSet[*component.PhysicsBody]

	physicsWorld *PhysicsWorld
}

// NewWorld creates an empty ECS world.
func NewWorld() *World {
	return &World{}
}

// CreateEntity allocates a new entity.
func (w *World) CreateEntity() Entity {
	return w.entities.create()
}

// DestroyEntity removes an entity, its components and its body.
func (w *World) DestroyEntity(e Entity) bool {
	if !w.entities.isAlive(e) {
		return false
	}
	w.RemovePhysicsBody(e)
	w.transforms.remove(e.id())
	w.sprites.remove(e.id())
	return w.entities.destroy(e)
}

// IsAlive reports whether an entity handle is valid.
func (w *World) IsAlive(e Entity) bool {
	return w.entities.isAlive(e)
}

// Len returns the number of live entities.
func (w *World) Len() int {
	return w.entities.count()
}

// AddSystem appends a system to the update order.
func (w *World) AddSystem(s System) {
	w.scheduler.Add(s)
}

// Update runs all systems once.
func (w *World) Update() {
	if w == nil {
		return
	}
	w.scheduler.Update(w)
}

// Events returns the world event queue.
func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}

// SetPhysicsWorld attaches a physics world to this ECS world.
func (w *World) SetPhysicsWorld(pw *PhysicsWorld) {
	if w == nil {
		return
	}
	w.physicsWorld = pw
}

// PhysicsWorld returns the attached physics world, if any.
func (w *World) PhysicsWorld() *PhysicsWorld {
	if w == nil {
		return nil
	}
	return w.physicsWorld
}

func (w *World) SetTransform(e Entity, t *component.Transform) error {
	if !w.entities.isAlive(e) {
		return ErrEntityNotAlive
	}
	if t == nil {
		return ErrNilComponent
	}
	w.transforms.set(e.id(), t)
	return nil
}

func (w *World) Transform(e Entity) (*component.Transform, bool) {
	if !w.entities.isAlive(e) {
		return nil, false
	}
	return w.transforms.get(e.id())
}

func (w *World) SetSprite(e Entity, s *component.Sprite) error {
	if !w.entities.isAlive(e) {
		return ErrEntityNotAlive
	}
	if s == nil {
		return ErrNilComponent
	}
	w.sprites.set(e.id(), s)
	return nil
}

func (w *World) Sprite(e Entity) (*component.Sprite, bool) {
	if !w.entities.isAlive(e) {
		return nil, false
	}
	return w.sprites.get(e.id())
}

// SetPhysicsBody places b at the entity's transform and adds it to the
// physics space, replacing any body the entity already had.
func (w *World) SetPhysicsBody(e Entity, b *physics.Body) error {
	if !w.entities.isAlive(e) {
		return ErrEntityNotAlive
	}
	if b == nil || b.Body == nil {
		return ErrNilComponent
	}
	if w.physicsWorld == nil {
		return ErrNoPhysicsWorld
	}

	w.RemovePhysicsBody(e)
	if t, ok := w.transforms.get(e.id()); ok {
		b.Body.SetPosition(cp.Vector{X: t.X, Y: t.Y})
		b.Body.SetAngle(t.Rotation)
	}
	b.AddToSpace(w.physicsWorld.Space())
	w.bodies.set(e.id(), &component.PhysicsBody{Body: b})
	w.events.Push(Event{Kind: EventBodyAttached, Entity: e, Name: b.Name})
	return nil
}

func (w *World) PhysicsBody(e Entity) (*component.PhysicsBody, bool) {
	if !w.entities.isAlive(e) {
		return nil, false
	}
	return w.bodies.get(e.id())
}

// RemovePhysicsBody detaches the entity's body from the space.
func (w *World) RemovePhysicsBody(e Entity) bool {
	if !w.entities.isAlive(e) {
		return false
	}
	pb, ok := w.bodies.remove(e.id())
	if !ok {
		return false
	}
	if w.physicsWorld != nil && pb != nil {
		pb.Body.RemoveFromSpace(w.physicsWorld.Space())
	}
	name := ""
	if pb != nil && pb.Body != nil {
		name = pb.Body.Name
	}
	w.events.Push(Event{Kind: EventBodyDetached, Entity: e, Name: name})
	return true
}

// Target adapts an entity to physics.Target so factories can attach bodies
// to it.
func (w *World) Target(e Entity) physics.Target {
	return entityTarget{world: w, entity: e}
}

type entityTarget struct {
	world  *World
	entity Entity
}

func (t entityTarget) SetPhysicsBody(b *physics.Body) error {
	return t.world.SetPhysicsBody(t.entity, b)
}

// syncTransforms copies body positions back into transforms.
func (w *World) syncTransforms() {
	for _, id := range intersect(&w.transforms, &w.bodies) {
		t, _ := w.transforms.get(id)
		pb, _ := w.bodies.get(id)
		if t == nil || pb == nil || pb.Body == nil || pb.Body.Body == nil {
			continue
		}
		pos := pb.Body.Body.Position()
		t.X = pos.X
		t.Y = pos.Y
		t.Rotation = pb.Body.Body.Angle()
	}
}
