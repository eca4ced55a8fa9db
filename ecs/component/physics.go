package component

import "github.com/milk9111/shapecache/physics"

// PhysicsBody holds the body built for an entity. The body is owned by the
// entity and lives in the world's space while attached.
type PhysicsBody struct {
	Body *physics.Body
}
