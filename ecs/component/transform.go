package component

// Transform is an entity's world position and rotation in radians.
type Transform struct {
	X        float64
	Y        float64
	Rotation float64
}
