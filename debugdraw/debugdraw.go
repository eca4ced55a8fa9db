// Package debugdraw renders a Chipmunk space as wireframes on an ebiten image.
package debugdraw

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/shapecache/physics"
	"golang.org/x/image/colornames"
)

const (
	circleSegments = 24
	dotSize        = 4
)

// Camera maps space coordinates to screen pixels.
type Camera struct {
	X, Y float64
	Zoom float64
}

func (c Camera) toScreen(v cp.Vector) (float64, float64) {
	zoom := c.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	return (v.X - c.X) * zoom, (v.Y - c.Y) * zoom
}

type lineFunc func(x1, y1, x2, y2 float64, c color.Color)

// DrawSpace draws every shape in space onto screen.
func DrawSpace(screen *ebiten.Image, space *cp.Space, cam Camera) {
	if screen == nil || space == nil {
		return
	}
	cp.DrawSpace(space, newDrawer(cam, func(x1, y1, x2, y2 float64, c color.Color) {
		ebitenutil.DrawLine(screen, x1, y1, x2, y2, c)
	}))
}

// DrawText prints debug text at the top left of screen.
func DrawText(screen *ebiten.Image, text string) {
	if screen == nil {
		return
	}
	ebitenutil.DebugPrintAt(screen, text, 10, 10)
}

type drawer struct {
	cam  Camera
	line lineFunc
}

func newDrawer(cam Camera, line lineFunc) *drawer {
	return &drawer{cam: cam, line: line}
}

func (d *drawer) DrawCircle(pos cp.Vector, angle, radius float64, outline, fill cp.FColor, data interface{}) {
	if radius <= 0 {
		return
	}
	d.drawCircle(pos, radius, outline)
	// angle indicator
	end := cp.Vector{X: pos.X + math.Cos(angle)*radius, Y: pos.Y + math.Sin(angle)*radius}
	d.drawLine(pos, end, outline)
}

func (d *drawer) DrawSegment(a, b cp.Vector, fill cp.FColor, data interface{}) {
	d.drawLine(a, b, fill)
}

func (d *drawer) DrawFatSegment(a, b cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	d.drawLine(a, b, outline)
	if radius > 0 {
		d.drawCircle(a, radius, outline)
		d.drawCircle(b, radius, outline)
	}
}

func (d *drawer) DrawPolygon(count int, verts []cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	if count <= 0 {
		return
	}
	d.drawPolygon(verts[:count], outline)
}

func (d *drawer) DrawDot(size float64, pos cp.Vector, fill cp.FColor, data interface{}) {
	if size <= 0 {
		size = dotSize
	}
	half := size / 2
	d.drawLine(cp.Vector{X: pos.X - half, Y: pos.Y}, cp.Vector{X: pos.X + half, Y: pos.Y}, fill)
	d.drawLine(cp.Vector{X: pos.X, Y: pos.Y - half}, cp.Vector{X: pos.X, Y: pos.Y + half}, fill)
}

func (d *drawer) Flags() uint {
	return cp.DRAW_SHAPES
}

func (d *drawer) OutlineColor() cp.FColor {
	return toFColor(colornames.Limegreen)
}

// ShapeColor picks a color from the body type and the fixture the shape was
// built from.
func (d *drawer) ShapeColor(shape *cp.Shape, data interface{}) cp.FColor {
	return toFColor(shapeColor(shape))
}

func (d *drawer) ConstraintColor() cp.FColor {
	return toFColor(colornames.Orange)
}

func (d *drawer) CollisionPointColor() cp.FColor {
	return toFColor(colornames.Red)
}

func (d *drawer) Data() interface{} {
	return nil
}

func shapeColor(shape *cp.Shape) color.RGBA {
	if shape == nil {
		return colornames.White
	}
	if shape.Sensor() {
		return colornames.Gold
	}
	if body := shape.Body(); body != nil && body.GetType() == cp.BODY_STATIC {
		return colornames.Cornflowerblue
	}
	if info, ok := shape.UserData.(*physics.ShapeInfo); ok && info.HasTag {
		return colornames.Tomato
	}
	return colornames.Orchid
}

func (d *drawer) drawLine(a, b cp.Vector, c cp.FColor) {
	x1, y1 := d.cam.toScreen(a)
	x2, y2 := d.cam.toScreen(b)
	d.line(x1, y1, x2, y2, toNRGBA(c))
}

func (d *drawer) drawPolygon(verts []cp.Vector, c cp.FColor) {
	for i := range verts {
		d.drawLine(verts[i], verts[(i+1)%len(verts)], c)
	}
}

func (d *drawer) drawCircle(center cp.Vector, radius float64, c cp.FColor) {
	points := make([]cp.Vector, 0, circleSegments)
	for i := 0; i < circleSegments; i++ {
		t := (2 * math.Pi) * (float64(i) / float64(circleSegments))
		points = append(points, cp.Vector{X: center.X + math.Cos(t)*radius, Y: center.Y + math.Sin(t)*radius})
	}
	d.drawPolygon(points, c)
}

func toFColor(c color.RGBA) cp.FColor {
	return cp.FColor{
		R: float32(c.R) / 255,
		G: float32(c.G) / 255,
		B: float32(c.B) / 255,
		A: float32(c.A) / 255,
	}
}

func toNRGBA(c cp.FColor) color.NRGBA {
	return color.NRGBA{
		R: uint8(clamp01(c.R) * 255),
		G: uint8(clamp01(c.G) * 255),
		B: uint8(clamp01(c.B) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
