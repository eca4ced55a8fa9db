package physics

import (
	"math"

	"github.com/jakecoffman/cp"
)

// ShapeInfo is stored as UserData on every shape built by the Factory so
// collision handlers can recover the fixture a shape came from.
type ShapeInfo struct {
	Body               string
	Fixture            int
	Tag                int
	HasTag             bool
	ContactTestMask    uint32
	HasContactTestMask bool
}

// Body is a Chipmunk body together with the shapes built for it. The shapes
// reference Body but are not part of any space until AddToSpace.
type Body struct {
	// Name is the name that was asked for; Template the catalog key that
	// matched it.
	Name     string
	Template string
	Anchor   cp.Vector

	Body   *cp.Body
	Shapes []*cp.Shape

	lockRotation bool
}

// AddToSpace adds the body and all its shapes to space.
func (b *Body) AddToSpace(space *cp.Space) {
	if b == nil || b.Body == nil || space == nil {
		return
	}
	space.AddBody(b.Body)
	for _, shape := range b.Shapes {
		space.AddShape(shape)
	}
	// shapes with density reset the moment while being added
	if b.lockRotation && b.Body.GetType() == cp.BODY_DYNAMIC {
		b.Body.SetMoment(math.Inf(1))
	}
}

// RemoveFromSpace undoes AddToSpace.
func (b *Body) RemoveFromSpace(space *cp.Space) {
	if b == nil || b.Body == nil || space == nil {
		return
	}
	for _, shape := range b.Shapes {
		space.RemoveShape(shape)
	}
	space.RemoveBody(b.Body)
}
