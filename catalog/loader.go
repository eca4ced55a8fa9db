package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"math"
	"sort"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/shapecache/common"
	"github.com/milk9111/shapecache/shapes"
	"gonum.org/v1/gonum/floats"
)

// Load parses the document at path and merges its bodies into the catalog.
// Either every body of the document is committed or none is.
func (c *Catalog) Load(path string) error {
	staged, err := c.parseFile(path)
	if err != nil {
		return fmt.Errorf("catalog: load %s: %w", path, err)
	}
	c.commit(path, staged, false)
	return nil
}

// LoadBytes behaves like Load for a document already in memory. name is
// recorded as the templates' source.
func (c *Catalog) LoadBytes(name string, data []byte) error {
	staged, err := c.parse(name, data)
	if err != nil {
		return fmt.Errorf("catalog: load %s: %w", name, err)
	}
	c.commit(name, staged, false)
	return nil
}

// Reload replaces every body previously loaded from path with the document's
// current contents. On failure the catalog is left untouched.
func (c *Catalog) Reload(path string) error {
	staged, err := c.parseFile(path)
	if err != nil {
		return fmt.Errorf("catalog: reload %s: %w", path, err)
	}
	c.commit(path, staged, true)
	return nil
}

func (c *Catalog) parseFile(path string) (map[string]BodyTemplate, error) {
	data, err := readDocument(path)
	if err != nil {
		return nil, err
	}
	return c.parse(path, data)
}

func readDocument(path string) ([]byte, error) {
	data, err := shapes.Load(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrFileNotFound, err)
	}
	return data, nil
}

func decodeDocument(data []byte) (shapes.Document, error) {
	doc, err := shapes.Decode(data)
	if err != nil {
		return shapes.Document{}, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	if doc.Empty() {
		return shapes.Document{}, ErrEmptyDocument
	}
	if doc.Metadata.Format != SupportedFormat {
		return shapes.Document{}, fmt.Errorf("%w: %d", ErrUnsupportedFormat, doc.Metadata.Format)
	}
	return doc, nil
}

func (c *Catalog) parse(source string, data []byte) (map[string]BodyTemplate, error) {
	doc, err := decodeDocument(data)
	if err != nil {
		return nil, err
	}

	opts := c.Options()
	scale, err := documentScale(doc.ScaleFactor, opts.NormalizeScale)
	if err != nil {
		return nil, err
	}

	staged := make(map[string]BodyTemplate, len(doc.Bodies))
	for _, name := range sortedNames(doc) {
		tmpl, err := buildBody(name, doc.Bodies[name], scale, opts.Mode)
		if err != nil {
			return nil, fmt.Errorf("body %q: %w", name, err)
		}
		tmpl.Source = source
		staged[name] = tmpl
	}
	return staged, nil
}

// documentScale returns the divisor applied to document coordinates. A
// missing (zero) factor means 1.
func documentScale(factor float64, normalize bool) (float64, error) {
	if math.IsNaN(factor) || math.IsInf(factor, 0) || factor < 0 {
		return 0, fmt.Errorf("%w: %v", ErrInvalidScale, factor)
	}
	if !normalize || factor == 0 {
		return 1, nil
	}
	return factor, nil
}

func sortedNames(doc shapes.Document) []string {
	names := make([]string, 0, len(doc.Bodies))
	for name := range doc.Bodies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func buildBody(name string, spec shapes.BodySpec, scale float64, mode Mode) (BodyTemplate, error) {
	tmpl := BodyTemplate{
		Name:                 name,
		Anchor:               spec.AnchorPoint.Vector,
		IsDynamic:            spec.IsDynamic,
		AffectedByGravity:    spec.AffectedByGravity,
		AllowsRotation:       spec.AllowsRotation,
		LinearDamping:        spec.LinearDamping,
		AngularDamping:       spec.AngularDamping,
		VelocityLimit:        spec.VelocityLimit,
		AngularVelocityLimit: spec.AngularVelocityLimit,
		Fixtures:             make([]FixtureTemplate, 0, len(spec.Fixtures)),
	}

	if err := checkMaterial(
		material{"body friction", spec.Friction},
		material{"body elasticity", spec.Elasticity},
		material{"body mass", spec.Mass},
	); err != nil {
		return BodyTemplate{}, err
	}

	for i, fixtureSpec := range spec.Fixtures {
		fixture, err := buildFixture(fixtureSpec, spec, scale)
		if err != nil {
			return BodyTemplate{}, fmt.Errorf("fixture %d: %w", i, err)
		}
		tmpl.Fixtures = append(tmpl.Fixtures, fixture)
	}

	if mode == MassAccurate {
		spreadBodyMass(&tmpl, spec.Mass)
		deriveMass(&tmpl)
	}
	return tmpl, nil
}

func buildFixture(spec shapes.FixtureSpec, body shapes.BodySpec, scale float64) (FixtureTemplate, error) {
	typ, err := ParseFixtureType(spec.FixtureType)
	if err != nil {
		return FixtureTemplate{}, err
	}

	friction := body.Friction
	if spec.Friction != nil {
		friction = *spec.Friction
	}
	elasticity := body.Elasticity
	if spec.Elasticity != nil {
		elasticity = *spec.Elasticity
	}
	if err := checkMaterial(
		material{"density", spec.Density},
		material{"restitution", spec.Restitution},
		material{"friction", friction},
		material{"elasticity", elasticity},
		material{"mass", spec.Mass},
	); err != nil {
		return FixtureTemplate{}, err
	}

	f := FixtureTemplate{
		Type:          typ,
		Density:       spec.Density,
		Restitution:   spec.Restitution,
		Friction:      friction,
		Elasticity:    elasticity,
		Mass:          spec.Mass,
		Group:         uint32(spec.Group),
		CategoryMask:  maskOrAll(spec.CategoryMask),
		CollisionMask: maskOrAll(spec.CollisionMask),
		IsSensor:      spec.IsSensor,
	}
	if spec.ContactTestMask != nil {
		f.ContactTestMask = uint32(*spec.ContactTestMask)
		f.HasContactTestMask = true
	}
	if spec.Tag != nil {
		f.Tag = *spec.Tag
		f.HasTag = true
	}
	if spec.CollisionType != nil {
		f.CollisionType = *spec.CollisionType
		f.HasCollisionType = true
	}

	switch typ {
	case FixturePolygon:
		if len(spec.Polygons) == 0 {
			return FixtureTemplate{}, fmt.Errorf("%w: polygon fixture without polygons", ErrInvalidGeometry)
		}
		f.Polygons = make([]PolygonTemplate, 0, len(spec.Polygons))
		for i, points := range spec.Polygons {
			if len(points) < 3 {
				return FixtureTemplate{}, fmt.Errorf("%w: polygon %d has %d vertices", ErrInvalidGeometry, i, len(points))
			}
			verts := make([]cp.Vector, len(points))
			for j, p := range points {
				verts[j] = p.Vector
			}
			common.ScaleVertices(verts, scale)
			if !finite(verts...) {
				return FixtureTemplate{}, fmt.Errorf("%w: polygon %d has a non-finite vertex", ErrInvalidGeometry, i)
			}
			area := common.PolygonArea(verts)
			f.Polygons = append(f.Polygons, PolygonTemplate{Vertices: verts, Area: area})
			f.Area += math.Abs(area)
		}
	case FixtureCircle:
		if spec.Circle == nil {
			return FixtureTemplate{}, fmt.Errorf("%w: circle fixture without circle", ErrInvalidGeometry)
		}
		f.Radius = spec.Circle.Radius / scale
		f.Center = spec.Circle.Position.Vector.Mult(1 / scale)
		if !(f.Radius > 0) || math.IsInf(f.Radius, 1) {
			return FixtureTemplate{}, fmt.Errorf("%w: circle radius %v is not positive and finite", ErrInvalidGeometry, f.Radius)
		}
		if !finite(f.Center) {
			return FixtureTemplate{}, fmt.Errorf("%w: circle center is not finite", ErrInvalidGeometry)
		}
		f.Area = common.CircleArea(f.Radius)
	}
	return f, nil
}

type material struct {
	name  string
	value float64
}

func checkMaterial(values ...material) error {
	for _, v := range values {
		if v.value < 0 || math.IsNaN(v.value) || math.IsInf(v.value, 0) {
			return fmt.Errorf("%w: %s is %v", ErrInvalidMaterial, v.name, v.value)
		}
	}
	return nil
}

func finite(vs ...cp.Vector) bool {
	for _, v := range vs {
		if math.IsNaN(v.X) || math.IsNaN(v.Y) || math.IsInf(v.X, 0) || math.IsInf(v.Y, 0) {
			return false
		}
	}
	return true
}

func maskOrAll(v *int64) uint32 {
	if v == nil {
		return AllBits
	}
	return uint32(*v)
}

// spreadBodyMass hands a body-level mass to the fixtures, in proportion to
// their area, when no fixture declares a mass of its own.
func spreadBodyMass(tmpl *BodyTemplate, mass float64) {
	if mass <= 0 || len(tmpl.Fixtures) == 0 {
		return
	}
	shares := make([]float64, len(tmpl.Fixtures))
	for i, f := range tmpl.Fixtures {
		if f.Mass > 0 {
			return
		}
		shares[i] = f.Area
	}
	total := floats.Sum(shares)
	if total == 0 {
		for i := range shares {
			shares[i] = 1
		}
		total = float64(len(shares))
	}
	floats.Scale(mass/total, shares)
	for i := range tmpl.Fixtures {
		tmpl.Fixtures[i].Mass = shares[i]
	}
}

// deriveMass fills polygon, fixture and body mass data from declared fixture
// masses. Polygon masses are proportional to their share of the fixture area.
func deriveMass(tmpl *BodyTemplate) {
	masses := make([]float64, len(tmpl.Fixtures))
	moments := make([]float64, len(tmpl.Fixtures))
	for i := range tmpl.Fixtures {
		f := &tmpl.Fixtures[i]
		switch f.Type {
		case FixtureCircle:
			f.Moment = common.CircleMoment(f.Mass, 0, f.Radius, f.Center)
		case FixturePolygon:
			apportionMass(f)
		}
		masses[i] = f.Mass
		moments[i] = f.Moment
	}
	tmpl.Mass = floats.Sum(masses)
	tmpl.Moment = floats.Sum(moments)
}

func apportionMass(f *FixtureTemplate) {
	if len(f.Polygons) == 0 {
		return
	}
	shares := make([]float64, len(f.Polygons))
	for i, p := range f.Polygons {
		shares[i] = math.Abs(p.Area)
	}
	total := floats.Sum(shares)
	if total == 0 {
		for i := range shares {
			shares[i] = 1
		}
		total = float64(len(shares))
	}
	floats.Scale(f.Mass/total, shares)

	moments := make([]float64, len(f.Polygons))
	for i := range f.Polygons {
		p := &f.Polygons[i]
		p.Mass = shares[i]
		p.Moment = common.PolygonMoment(p.Vertices, p.Mass, cp.Vector{})
		moments[i] = p.Moment
	}
	f.Moment = floats.Sum(moments)
}

func (c *Catalog) commit(source string, staged map[string]BodyTemplate, replaceSource bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if replaceSource {
		for name, tmpl := range c.bodies {
			if tmpl.Source == source {
				delete(c.bodies, name)
			}
		}
	}
	for name, tmpl := range staged {
		if prev, ok := c.bodies[name]; ok && prev.Source != source {
			log.Printf("Catalog: body %q from %s replaces definition from %s", name, source, prev.Source)
		}
		c.bodies[name] = tmpl
	}
	log.Printf("Catalog: loaded %d bodies from %s", len(staged), source)
}
