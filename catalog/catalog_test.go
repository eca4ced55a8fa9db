package catalog

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const crateDoc = `
metadata: {format: 1}
bodies:
  crate:
    anchorpoint: "0.5,0.5"
    is_dynamic: true
    affected_by_gravity: true
    allows_rotation: true
    linear_damping: 0.1
    angular_damping: 0.2
    fixtures:
      - fixture_type: POLYGON
        density: 1
        friction: 0.5
        group: 2
        category_mask: 4
        polygons:
          - ["0,0", "2,0", "2,2", "0,2"]
  orange:
    anchorpoint: "0.5,0.5"
    is_dynamic: true
    fixtures:
      - fixture_type: CIRCLE
        mass: 2
        circle: {radius: 3, position: "1,0"}
`

func writeDoc(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadBuildsTemplates(t *testing.T) {
	c := New(DefaultOptions())
	require.NoError(t, c.Load(writeDoc(t, "crate.yaml", crateDoc)))
	assert.Equal(t, []string{"crate", "orange"}, c.Names())

	crate, ok := c.Lookup("crate")
	require.True(t, ok)
	assert.Equal(t, "crate", crate.Name)
	assert.Equal(t, cp.Vector{X: 0.5, Y: 0.5}, crate.Anchor)
	assert.True(t, crate.IsDynamic)
	assert.True(t, crate.AffectedByGravity)
	assert.True(t, crate.AllowsRotation)
	assert.Equal(t, 0.1, crate.LinearDamping)
	assert.Equal(t, 0.2, crate.AngularDamping)
	require.Len(t, crate.Fixtures, 1)

	f := crate.Fixtures[0]
	assert.Equal(t, FixturePolygon, f.Type)
	assert.Equal(t, uint32(2), f.Group)
	assert.Equal(t, uint32(4), f.CategoryMask)
	assert.Equal(t, AllBits, f.CollisionMask)
	assert.False(t, f.HasTag)
	assert.False(t, f.HasContactTestMask)
	assert.InDelta(t, 4, f.Area, 1e-6)
	require.Len(t, f.Polygons, 1)
	assert.InDelta(t, 4, f.Polygons[0].Area, 1e-6)

	// collision-only mode leaves mass data to the engine
	assert.Zero(t, crate.Mass)
	assert.Zero(t, crate.Moment)
	assert.Equal(t, 1, crate.ShapeCount())
}

func TestCircleFixtureArea(t *testing.T) {
	c := New(DefaultOptions())
	require.NoError(t, c.Load(writeDoc(t, "crate.yaml", crateDoc)))

	orange, ok := c.Lookup("orange")
	require.True(t, ok)
	require.Len(t, orange.Fixtures, 1)
	f := orange.Fixtures[0]
	assert.Equal(t, FixtureCircle, f.Type)
	assert.Equal(t, 3.0, f.Radius)
	assert.Equal(t, cp.Vector{X: 1, Y: 0}, f.Center)
	assert.InDelta(t, math.Pi*9, f.Area, 1e-6)
}

func TestLoadFailuresLeaveCatalogUnchanged(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		want error
	}{
		{
			name: "unsupported_format",
			doc: `
metadata: {format: 2}
bodies:
  crate:
    fixtures:
      - fixture_type: CIRCLE
        circle: {radius: 1, position: "0,0"}
`,
			want: ErrUnsupportedFormat,
		},
		{
			name: "missing_metadata",
			doc:  `bodies: {crate: {}}`,
			want: ErrUnsupportedFormat,
		},
		{
			name: "unknown_fixture_type",
			doc: `
metadata: {format: 1}
bodies:
  alpha:
    fixtures:
      - fixture_type: CIRCLE
        circle: {radius: 1, position: "0,0"}
  zeta:
    fixtures:
      - fixture_type: CIRCLE
        circle: {radius: 1, position: "0,0"}
      - fixture_type: POLYLINE
        polygons: [["0,0", "1,0", "1,1"]]
`,
			want: ErrUnknownFixtureType,
		},
		{
			name: "short_polygon",
			doc: `
metadata: {format: 1}
bodies:
  alpha:
    fixtures:
      - fixture_type: POLYGON
        polygons: [["0,0", "1,0"]]
`,
			want: ErrInvalidGeometry,
		},
		{
			name: "circle_without_radius",
			doc: `
metadata: {format: 1}
bodies:
  alpha:
    fixtures:
      - fixture_type: CIRCLE
`,
			want: ErrInvalidGeometry,
		},
		{
			name: "negative_friction",
			doc: `
metadata: {format: 1}
bodies:
  alpha:
    fixtures:
      - fixture_type: CIRCLE
        friction: -1
        circle: {radius: 1, position: "0,0"}
`,
			want: ErrInvalidMaterial,
		},
		{
			name: "negative_scale",
			doc: `
metadata: {format: 1}
scale_factor: -2
bodies:
  alpha:
    fixtures:
      - fixture_type: CIRCLE
        circle: {radius: 2, position: "0,0"}
`,
			want: ErrInvalidScale,
		},
		{
			name: "nan_scale",
			doc: `
metadata: {format: 1}
scale_factor: .nan
bodies:
  alpha:
    fixtures:
      - fixture_type: POLYGON
        polygons: [["0,0", "1,0", "1,1"]]
`,
			want: ErrInvalidGeometry,
		},
		{
			name: "infinite_scale",
			doc: `
metadata: {format: 1}
scale_factor: .inf
bodies:
  alpha:
    fixtures:
      - fixture_type: CIRCLE
        circle: {radius: 2, position: "0,0"}
`,
			want: ErrInvalidScale,
		},
		{
			name: "negative_radius",
			doc: `
metadata: {format: 1}
scale_factor: 2
bodies:
  alpha:
    fixtures:
      - fixture_type: CIRCLE
        circle: {radius: -4, position: "0,0"}
`,
			want: ErrInvalidGeometry,
		},
		{
			name: "non_finite_vertex",
			doc: `
metadata: {format: 1}
bodies:
  alpha:
    fixtures:
      - fixture_type: POLYGON
        polygons: [["0,0", "NaN,0", "1,1"]]
`,
			want: ErrInvalidGeometry,
		},
		{
			name: "negative_body_mass",
			doc: `
metadata: {format: 1}
bodies:
  alpha:
    mass: -1
    fixtures:
      - fixture_type: CIRCLE
        circle: {radius: 1, position: "0,0"}
`,
			want: ErrInvalidMaterial,
		},
		{
			name: "malformed",
			doc:  "metadata: [unterminated",
			want: ErrMalformedDocument,
		},
		{
			name: "empty",
			doc:  "",
			want: ErrFileNotFound,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := New(DefaultOptions())
			require.NoError(t, c.Load(writeDoc(t, "base.yaml", crateDoc)))

			err := c.Load(writeDoc(t, "bad.yaml", tc.doc))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.want), "got %v", err)

			assert.Equal(t, []string{"crate", "orange"}, c.Names())
			for _, name := range []string{"alpha", "zeta"} {
				_, ok := c.Lookup(name)
				assert.False(t, ok, name)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	c := New(DefaultOptions())
	err := c.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFileNotFound))
	assert.Zero(t, c.Len())
}

func TestLoadEmbeddedDocument(t *testing.T) {
	c := New(DefaultOptions())
	require.NoError(t, c.Load("Shapes.yaml"))
	assert.Equal(t, []string{"banana", "cherries", "crate", "ground", "orange"}, c.Names())
}

func TestScaleNormalization(t *testing.T) {
	doc := `
metadata: {format: 1}
scale_factor: 2
bodies:
  box:
    fixtures:
      - fixture_type: POLYGON
        polygons: [["0,0", "4,0", "4,4", "0,4"]]
      - fixture_type: CIRCLE
        circle: {radius: 6, position: "2,4"}
`
	t.Run("enabled", func(t *testing.T) {
		c := New(DefaultOptions())
		require.NoError(t, c.LoadBytes("box.yaml", []byte(doc)))
		box, ok := c.Lookup("box")
		require.True(t, ok)
		assert.Equal(t, cp.Vector{X: 2, Y: 2}, box.Fixtures[0].Polygons[0].Vertices[2])
		assert.InDelta(t, 4, box.Fixtures[0].Area, 1e-6)
		assert.Equal(t, 3.0, box.Fixtures[1].Radius)
		assert.Equal(t, cp.Vector{X: 1, Y: 2}, box.Fixtures[1].Center)
	})
	t.Run("disabled", func(t *testing.T) {
		c := New(Options{Mode: CollisionOnly})
		require.NoError(t, c.LoadBytes("box.yaml", []byte(doc)))
		box, ok := c.Lookup("box")
		require.True(t, ok)
		assert.Equal(t, cp.Vector{X: 4, Y: 4}, box.Fixtures[0].Polygons[0].Vertices[2])
		assert.Equal(t, 6.0, box.Fixtures[1].Radius)
	})
}

func TestMassAccurateApportionment(t *testing.T) {
	doc := `
metadata: {format: 1}
bodies:
  split:
    is_dynamic: true
    fixtures:
      - fixture_type: POLYGON
        mass: 8
        polygons:
          - ["0,0", "3,0", "3,1", "0,1"]
          - ["0,1", "0,2", "1,2", "1,1"]
      - fixture_type: CIRCLE
        mass: 2
        circle: {radius: 1, position: "3,4"}
`
	c := New(Options{Mode: MassAccurate, NormalizeScale: true})
	require.NoError(t, c.LoadBytes("split.yaml", []byte(doc)))
	split, ok := c.Lookup("split")
	require.True(t, ok)

	poly := split.Fixtures[0]
	require.Len(t, poly.Polygons, 2)
	// second loop is clockwise; apportioning uses the absolute area
	assert.InDelta(t, 3, poly.Polygons[0].Area, 1e-6)
	assert.InDelta(t, -1, poly.Polygons[1].Area, 1e-6)
	assert.InDelta(t, 4, poly.Area, 1e-6)
	assert.InDelta(t, 0.75*8, poly.Polygons[0].Mass, 1e-6)
	assert.InDelta(t, 0.25*8, poly.Polygons[1].Mass, 1e-6)
	assert.InDelta(t, 8, poly.Polygons[0].Mass+poly.Polygons[1].Mass, 1e-9)
	assert.InDelta(t, poly.Polygons[0].Moment+poly.Polygons[1].Moment, poly.Moment, 1e-9)
	assert.Greater(t, poly.Moment, 0.0)

	circle := split.Fixtures[1]
	assert.InDelta(t, 2*(0.5+25), circle.Moment, 1e-9)

	assert.InDelta(t, 10, split.Mass, 1e-9)
	assert.InDelta(t, poly.Moment+circle.Moment, split.Moment, 1e-9)
}

func TestMassAccurateZeroAreaSplitsEvenly(t *testing.T) {
	doc := `
metadata: {format: 1}
bodies:
  flat:
    fixtures:
      - fixture_type: POLYGON
        mass: 3
        polygons:
          - ["0,0", "1,0", "2,0"]
          - ["0,1", "1,1", "2,1"]
`
	c := New(Options{Mode: MassAccurate})
	require.NoError(t, c.LoadBytes("flat.yaml", []byte(doc)))
	flat, ok := c.Lookup("flat")
	require.True(t, ok)
	assert.InDelta(t, 1.5, flat.Fixtures[0].Polygons[0].Mass, 1e-9)
	assert.InDelta(t, 1.5, flat.Fixtures[0].Polygons[1].Mass, 1e-9)
	assert.InDelta(t, 3, flat.Mass, 1e-9)
}

func TestBodyMaterialDefaults(t *testing.T) {
	doc := `
metadata: {format: 1}
bodies:
  crate:
    friction: 0.7
    elasticity: 0.3
    fixtures:
      - fixture_type: POLYGON
        polygons: [["0,0", "2,0", "2,2", "0,2"]]
      - fixture_type: CIRCLE
        friction: 0
        elasticity: 0.9
        circle: {radius: 1, position: "0,0"}
`
	c := New(Options{Mode: MassAccurate})
	require.NoError(t, c.LoadBytes("crate.yaml", []byte(doc)))
	crate, ok := c.Lookup("crate")
	require.True(t, ok)

	assert.Equal(t, 0.7, crate.Fixtures[0].Friction)
	assert.Equal(t, 0.3, crate.Fixtures[0].Elasticity)
	// fixture values win, including an explicit zero
	assert.Equal(t, 0.0, crate.Fixtures[1].Friction)
	assert.Equal(t, 0.9, crate.Fixtures[1].Elasticity)
}

func TestMassAccurateBodyMass(t *testing.T) {
	cases := []struct {
		name  string
		doc   string
		mass  float64
		parts []float64
	}{
		{
			name: "spread_by_area",
			doc: `
metadata: {format: 1}
bodies:
  crate:
    mass: 10
    fixtures:
      - fixture_type: POLYGON
        polygons: [["0,0", "3,0", "3,1", "0,1"]]
      - fixture_type: POLYGON
        polygons: [["0,0", "1,0", "1,1", "0,1"]]
`,
			mass:  10,
			parts: []float64{7.5, 2.5},
		},
		{
			name: "fixture_masses_win",
			doc: `
metadata: {format: 1}
bodies:
  crate:
    mass: 10
    fixtures:
      - fixture_type: POLYGON
        mass: 1
        polygons: [["0,0", "3,0", "3,1", "0,1"]]
      - fixture_type: POLYGON
        polygons: [["0,0", "1,0", "1,1", "0,1"]]
`,
			mass:  1,
			parts: []float64{1, 0},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := New(Options{Mode: MassAccurate})
			require.NoError(t, c.LoadBytes("crate.yaml", []byte(tc.doc)))
			crate, ok := c.Lookup("crate")
			require.True(t, ok)
			assert.InDelta(t, tc.mass, crate.Mass, 1e-9)
			for i, want := range tc.parts {
				assert.InDelta(t, want, crate.Fixtures[i].Mass, 1e-9, "fixture %d", i)
			}
		})
	}
}

func TestDuplicateNamesLastWriteWins(t *testing.T) {
	c := New(DefaultOptions())
	first := `
metadata: {format: 1}
bodies:
  crate:
    fixtures:
      - fixture_type: CIRCLE
        circle: {radius: 1, position: "0,0"}
`
	second := `
metadata: {format: 1}
bodies:
  crate:
    fixtures:
      - fixture_type: CIRCLE
        circle: {radius: 5, position: "0,0"}
`
	require.NoError(t, c.LoadBytes("first.yaml", []byte(first)))
	require.NoError(t, c.LoadBytes("second.yaml", []byte(second)))

	crate, ok := c.Lookup("crate")
	require.True(t, ok)
	assert.Equal(t, 5.0, crate.Fixtures[0].Radius)
	assert.Equal(t, "second.yaml", crate.Source)
}

func TestRemoveByFile(t *testing.T) {
	c := New(DefaultOptions())
	path := writeDoc(t, "crate.yaml", crateDoc)
	require.NoError(t, c.Load(path))
	c.Insert("ground", BodyTemplate{})

	require.NoError(t, c.RemoveByFile(path))
	_, ok := c.Lookup("crate")
	assert.False(t, ok)
	_, ok = c.Lookup("orange")
	assert.False(t, ok)
	_, ok = c.Lookup("ground")
	assert.True(t, ok)

	err := c.RemoveByFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, errors.Is(err, ErrFileNotFound))

	bad := writeDoc(t, "bad.yaml", "metadata: {format: 3}\nbodies: {ground: {}}")
	err = c.RemoveByFile(bad)
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
	_, ok = c.Lookup("ground")
	assert.True(t, ok)
}

func TestRemoveAll(t *testing.T) {
	c := New(DefaultOptions())
	require.NoError(t, c.Load(writeDoc(t, "crate.yaml", crateDoc)))
	c.RemoveAll()
	assert.Zero(t, c.Len())
	for _, name := range []string{"crate", "orange"} {
		_, ok := c.Lookup(name)
		assert.False(t, ok, name)
	}
	// the catalog stays usable
	require.NoError(t, c.Load(writeDoc(t, "crate.yaml", crateDoc)))
	assert.Equal(t, 2, c.Len())
}

func TestReload(t *testing.T) {
	c := New(DefaultOptions())
	path := writeDoc(t, "crate.yaml", crateDoc)
	require.NoError(t, c.Load(path))

	require.NoError(t, os.WriteFile(path, []byte(`
metadata: {format: 1}
bodies:
  barrel:
    fixtures:
      - fixture_type: CIRCLE
        circle: {radius: 2, position: "0,0"}
`), 0o644))
	require.NoError(t, c.Reload(path))
	assert.Equal(t, []string{"barrel"}, c.Names())

	require.NoError(t, os.WriteFile(path, []byte("metadata: {format: 9}"), 0o644))
	err := c.Reload(path)
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
	assert.Equal(t, []string{"barrel"}, c.Names())
}

func TestReloadEvictsBySource(t *testing.T) {
	c := New(DefaultOptions())
	base := writeDoc(t, "base.yaml", crateDoc)
	require.NoError(t, c.Load(base))

	override := writeDoc(t, "override.yaml", `
metadata: {format: 1}
bodies:
  orange:
    fixtures:
      - fixture_type: CIRCLE
        circle: {radius: 9, position: "0,0"}
`)
	require.NoError(t, c.Load(override))

	// crate is evicted and re-committed; orange belongs to override.yaml
	// until base.yaml writes it again
	require.NoError(t, c.Reload(base))
	orange, ok := c.Lookup("orange")
	require.True(t, ok)
	assert.Equal(t, base, orange.Source)

	// reloading a file re-commits every name it defines
	require.NoError(t, c.Reload(override))
	orange, ok = c.Lookup("orange")
	require.True(t, ok)
	assert.Equal(t, override, orange.Source)
	assert.Equal(t, 9.0, orange.Fixtures[0].Radius)

	require.NoError(t, os.WriteFile(override, []byte(`
metadata: {format: 1}
bodies:
  pear:
    fixtures:
      - fixture_type: CIRCLE
        circle: {radius: 1, position: "0,0"}
`), 0o644))
	require.NoError(t, c.Reload(override))
	_, ok = c.Lookup("orange")
	assert.False(t, ok, "orange was owned by override.yaml and is gone from it")
	assert.Equal(t, []string{"crate", "pear"}, c.Names())
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("mass_accurate")
	require.NoError(t, err)
	assert.Equal(t, MassAccurate, m)

	m, err = ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, CollisionOnly, m)

	_, err = ParseMode("exact")
	assert.Error(t, err)
}

func TestParseFixtureType(t *testing.T) {
	typ, err := ParseFixtureType("polygon")
	require.NoError(t, err)
	assert.Equal(t, FixturePolygon, typ)

	_, err = ParseFixtureType("POLYLINE")
	assert.True(t, errors.Is(err, ErrUnknownFixtureType))
}

func TestDefaultLifecycle(t *testing.T) {
	DestroyDefault()
	a := Default()
	assert.Same(t, a, Default())

	a.Insert("crate", BodyTemplate{})
	DestroyDefault()
	_, ok := a.Lookup("crate")
	assert.False(t, ok)

	b := Default()
	assert.NotSame(t, a, b)
	assert.Zero(t, b.Len())
	DestroyDefault()
}
