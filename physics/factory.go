package physics

import (
	"math"
	"strings"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/shapecache/catalog"
)

// Engine defaults used for dynamic bodies that get no mass from their
// template or shapes.
const (
	defaultMass   = 1.0
	defaultMoment = 200.0
)

// Factory turns catalog templates into Chipmunk bodies.
type Factory struct {
	catalog *catalog.Catalog
}

func NewFactory(c *catalog.Catalog) *Factory {
	return &Factory{catalog: c}
}

// Resolve finds the template for name. A name with an extension such as
// "banana.png" falls back to "banana".
func (f *Factory) Resolve(name string) (catalog.BodyTemplate, bool) {
	if f == nil || f.catalog == nil {
		return catalog.BodyTemplate{}, false
	}
	if tmpl, ok := f.catalog.Lookup(name); ok {
		return tmpl, true
	}
	if i := strings.LastIndex(name, "."); i >= 0 {
		return f.catalog.Lookup(name[:i])
	}
	return catalog.BodyTemplate{}, false
}

// CreateBody builds a body for name. It reports false when no template
// matches; that is an expected outcome, not an error.
func (f *Factory) CreateBody(name string) (*Body, bool) {
	tmpl, ok := f.Resolve(name)
	if !ok {
		return nil, false
	}
	return Build(name, tmpl, f.catalog.Options().Mode), true
}

// Build instantiates tmpl under the given accuracy mode.
func Build(name string, tmpl catalog.BodyTemplate, mode catalog.Mode) *Body {
	body, prescribed := newBody(tmpl, mode)
	if tmpl.IsDynamic {
		body.SetVelocityUpdateFunc(velocityUpdate(tmpl, mode))
	}

	out := &Body{
		Name:         name,
		Template:     tmpl.Name,
		Anchor:       tmpl.Anchor,
		Body:         body,
		Shapes:       make([]*cp.Shape, 0, tmpl.ShapeCount()),
		lockRotation: tmpl.IsDynamic && !tmpl.AllowsRotation,
	}
	body.UserData = out

	for i, fixture := range tmpl.Fixtures {
		info := &ShapeInfo{
			Body:               tmpl.Name,
			Fixture:            i,
			Tag:                fixture.Tag,
			HasTag:             fixture.HasTag,
			ContactTestMask:    fixture.ContactTestMask,
			HasContactTestMask: fixture.HasContactTestMask,
		}
		switch fixture.Type {
		case catalog.FixtureCircle:
			shape := cp.NewCircle(body, fixture.Radius, fixture.Center)
			applyFixture(shape, fixture, info, mode, prescribed)
			out.Shapes = append(out.Shapes, shape)
		case catalog.FixturePolygon:
			for _, poly := range fixture.Polygons {
				shape := cp.NewPolyShape(body, len(poly.Vertices), poly.Vertices, cp.NewTransformIdentity(), 0)
				applyFixture(shape, fixture, info, mode, prescribed)
				out.Shapes = append(out.Shapes, shape)
			}
		}
	}
	return out
}

// newBody reports whether mass and moment were prescribed at the body level.
func newBody(tmpl catalog.BodyTemplate, mode catalog.Mode) (*cp.Body, bool) {
	if !tmpl.IsDynamic {
		return cp.NewStaticBody(), false
	}

	if mode == catalog.MassAccurate && tmpl.Mass > 0 {
		moment := tmpl.Moment
		if !tmpl.AllowsRotation || moment <= 0 {
			moment = math.Inf(1)
		}
		return cp.NewBody(tmpl.Mass, moment), true
	}

	if mode == catalog.CollisionOnly && carriesDensity(tmpl) {
		// mass is accumulated from shape densities once added to a space
		return cp.NewBody(0, 0), false
	}

	moment := defaultMoment
	if !tmpl.AllowsRotation {
		moment = math.Inf(1)
	}
	return cp.NewBody(defaultMass, moment), true
}

// carriesDensity reports whether some shape will give the body mass once it
// is added to a space. Zero-area shapes contribute none.
func carriesDensity(tmpl catalog.BodyTemplate) bool {
	for _, f := range tmpl.Fixtures {
		if f.Density > 0 && f.Area > 0 {
			return true
		}
	}
	return false
}

func applyFixture(shape *cp.Shape, fixture catalog.FixtureTemplate, info *ShapeInfo, mode catalog.Mode, prescribed bool) {
	shape.SetFriction(fixture.Friction)
	switch mode {
	case catalog.MassAccurate:
		shape.SetElasticity(fixture.Elasticity)
	default:
		shape.SetElasticity(fixture.Restitution)
		if !prescribed && fixture.Density > 0 {
			shape.SetDensity(fixture.Density)
		}
	}
	shape.SetFilter(cp.NewShapeFilter(uint(fixture.Group), uint(fixture.CategoryMask), uint(fixture.CollisionMask)))
	shape.SetSensor(fixture.IsSensor)
	if fixture.HasCollisionType {
		shape.SetCollisionType(cp.CollisionType(fixture.CollisionType))
	}
	shape.UserData = info
}

func velocityUpdate(tmpl catalog.BodyTemplate, mode catalog.Mode) func(*cp.Body, cp.Vector, float64, float64) {
	return func(body *cp.Body, gravity cp.Vector, damping float64, dt float64) {
		if !tmpl.AffectedByGravity {
			gravity = cp.Vector{}
		}
		cp.BodyUpdateVelocity(body, gravity, damping, dt)

		switch mode {
		case catalog.MassAccurate:
			if limit := tmpl.VelocityLimit; limit > 0 {
				if v := body.Velocity(); v.Length() > limit {
					body.SetVelocityVector(v.Mult(limit / v.Length()))
				}
			}
			if limit := tmpl.AngularVelocityLimit; limit > 0 {
				body.SetAngularVelocity(clamp(body.AngularVelocity(), -limit, limit))
			}
		default:
			if d := tmpl.LinearDamping; d > 0 {
				body.SetVelocityVector(body.Velocity().Mult(clamp(1-dt*d, 0, 1)))
			}
			if d := tmpl.AngularDamping; d > 0 {
				body.SetAngularVelocity(body.AngularVelocity() * clamp(1-dt*d, 0, 1))
			}
		}
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
