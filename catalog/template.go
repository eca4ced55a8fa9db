package catalog

import (
	"fmt"
	"strings"

	"github.com/jakecoffman/cp"
)

// SupportedFormat is the only definition document version understood.
const SupportedFormat = 1

// AllBits is the mask used when a document leaves a filter mask out.
const AllBits uint32 = 0xFFFFFFFF

type FixtureType int

const (
	FixturePolygon FixtureType = iota
	FixtureCircle
)

func (t FixtureType) String() string {
	switch t {
	case FixturePolygon:
		return "POLYGON"
	case FixtureCircle:
		return "CIRCLE"
	default:
		return fmt.Sprintf("FixtureType(%d)", int(t))
	}
}

// ParseFixtureType maps a document tag to a FixtureType.
func ParseFixtureType(s string) (FixtureType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "POLYGON":
		return FixturePolygon, nil
	case "CIRCLE":
		return FixtureCircle, nil
	default:
		return 0, fmt.Errorf("%w %q", ErrUnknownFixtureType, s)
	}
}

// Mode selects which mass data the loader derives and the factory applies.
type Mode int

const (
	// CollisionOnly leaves mass and inertia to the physics engine, which
	// derives them from shape density.
	CollisionOnly Mode = iota
	// MassAccurate computes body mass and moment from declared fixture masses
	// and geometry.
	MassAccurate
)

func (m Mode) String() string {
	switch m {
	case CollisionOnly:
		return "collision_only"
	case MassAccurate:
		return "mass_accurate"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "collision_only":
		return CollisionOnly, nil
	case "mass_accurate":
		return MassAccurate, nil
	default:
		return 0, fmt.Errorf("catalog: unknown accuracy mode %q", s)
	}
}

type Options struct {
	Mode Mode
	// NormalizeScale divides every coordinate by the document scale factor.
	NormalizeScale bool
}

func DefaultOptions() Options {
	return Options{Mode: CollisionOnly, NormalizeScale: true}
}

// PolygonTemplate is one convex piece of a polygon fixture.
type PolygonTemplate struct {
	Vertices []cp.Vector
	// Area is signed; counter-clockwise loops are positive.
	Area   float64
	Mass   float64
	Moment float64
}

type FixtureTemplate struct {
	Type FixtureType

	Density     float64
	Restitution float64
	Friction    float64
	Elasticity  float64
	Mass        float64

	Group              uint32
	CategoryMask       uint32
	CollisionMask      uint32
	ContactTestMask    uint32
	HasContactTestMask bool
	Tag                int
	HasTag             bool
	CollisionType      int
	HasCollisionType   bool
	IsSensor           bool

	Area   float64
	Moment float64

	Center cp.Vector
	Radius float64

	Polygons []PolygonTemplate
}

// BodyTemplate describes a named body before instantiation. Templates are
// immutable once committed to a Catalog.
type BodyTemplate struct {
	Name   string
	Source string

	// Anchor is informational; it is not applied to created bodies.
	Anchor            cp.Vector
	IsDynamic         bool
	AffectedByGravity bool
	AllowsRotation    bool

	LinearDamping  float64
	AngularDamping float64

	VelocityLimit        float64
	AngularVelocityLimit float64

	// Mass and Moment are only derived in MassAccurate mode.
	Mass   float64
	Moment float64

	Fixtures []FixtureTemplate
}

// ShapeCount is the number of runtime shapes the template expands to.
func (t BodyTemplate) ShapeCount() int {
	n := 0
	for _, f := range t.Fixtures {
		if f.Type == FixtureCircle {
			n++
			continue
		}
		n += len(f.Polygons)
	}
	return n
}
