package component

// Sprite names the image an entity is drawn with. The name doubles as the
// key used to look up the entity's body template.
type Sprite struct {
	Name string
}
