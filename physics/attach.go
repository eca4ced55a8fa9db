package physics

import "log"

// Target receives bodies from Attach. Implementations either take ownership of
// the body or return an error and keep nothing.
type Target interface {
	SetPhysicsBody(b *Body) error
}

// Attach builds the body for name and hands it to target. It reports whether
// the target now owns a body.
func (f *Factory) Attach(name string, target Target) bool {
	if target == nil {
		return false
	}
	body, ok := f.CreateBody(name)
	if !ok {
		return false
	}
	if err := target.SetPhysicsBody(body); err != nil {
		log.Printf("Factory: attach %q: %v", name, err)
		return false
	}
	return true
}
