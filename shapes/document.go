package shapes

import (
	"fmt"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/shapecache/common"
	"gopkg.in/yaml.v3"
)

// Document is the on-disk form of a shape definition file.
type Document struct {
	Metadata    Metadata            `yaml:"metadata"`
	ScaleFactor float64             `yaml:"scale_factor"`
	Bodies      map[string]BodySpec `yaml:"bodies"`
}

type Metadata struct {
	Format int `yaml:"format"`
}

// Empty reports whether nothing at all was decoded.
func (d Document) Empty() bool {
	return d.Metadata.Format == 0 && d.ScaleFactor == 0 && len(d.Bodies) == 0
}

type BodySpec struct {
	AnchorPoint       Point `yaml:"anchorpoint"`
	IsDynamic         bool  `yaml:"is_dynamic"`
	AffectedByGravity bool  `yaml:"affected_by_gravity"`
	AllowsRotation    bool  `yaml:"allows_rotation"`

	LinearDamping  float64 `yaml:"linear_damping"`
	AngularDamping float64 `yaml:"angular_damping"`

	VelocityLimit        float64 `yaml:"velocity_limit"`
	AngularVelocityLimit float64 `yaml:"angular_velocity_limit"`

	// Friction and Elasticity apply to fixtures that leave them out. Mass is
	// spread over the fixtures when none of them declares one.
	Friction   float64 `yaml:"friction"`
	Elasticity float64 `yaml:"elasticity"`
	Mass       float64 `yaml:"mass"`

	Fixtures []FixtureSpec `yaml:"fixtures"`
}

type FixtureSpec struct {
	FixtureType string `yaml:"fixture_type"`

	Density     float64  `yaml:"density"`
	Restitution float64  `yaml:"restitution"`
	Friction    *float64 `yaml:"friction"`
	Elasticity  *float64 `yaml:"elasticity"`
	Mass        float64  `yaml:"mass"`

	Tag             *int   `yaml:"tag"`
	Group           int64  `yaml:"group"`
	CategoryMask    *int64 `yaml:"category_mask"`
	CollisionMask   *int64 `yaml:"collision_mask"`
	ContactTestMask *int64 `yaml:"contact_test_mask"`
	CollisionType   *int   `yaml:"collision_type"`
	IsSensor        bool   `yaml:"is_sensor"`

	Polygons [][]Point   `yaml:"polygons"`
	Circle   *CircleSpec `yaml:"circle"`
}

type CircleSpec struct {
	Radius   float64 `yaml:"radius"`
	Position Point   `yaml:"position"`
}

// Point decodes either an "x,y" / "{x, y}" string or a [x, y] sequence.
type Point struct {
	cp.Vector
}

func (p *Point) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		v, err := common.ParsePoint(value.Value)
		if err != nil {
			return err
		}
		p.Vector = v
		return nil
	case yaml.SequenceNode:
		var xy []float64
		if err := value.Decode(&xy); err != nil {
			return err
		}
		if len(xy) != 2 {
			return fmt.Errorf("point must have 2 components, got %d", len(xy))
		}
		p.Vector = cp.Vector{X: xy[0], Y: xy[1]}
		return nil
	default:
		return fmt.Errorf("point must be a string or a sequence")
	}
}

// Decode parses a definition document.
func Decode(data []byte) (Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Document{}, err
	}
	return doc, nil
}
