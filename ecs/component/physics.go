package component

import "github.com/jakecoffman/cp"

// PhysicsBody stores Chipmunk2D runtime data and collider configuration. The
// chipmunk plane maps world X to cp X and world Z to cp Y.
type PhysicsBody struct {
	Body      *cp.Body
	Shape     *cp.Shape
	Width     float64
	Depth     float64
	Radius    float64
	Mass      float64
	Friction  float64
	Static    bool
	Kinematic bool
}

var PhysicsBodyComponent = NewComponent[PhysicsBody]()

// Collider is the floor-plane footprint used for overlap checks. Disabled
// colliders are skipped by sensors and turned into non-solid shapes.
type Collider struct {
	Width   float64
	Depth   float64
	Enabled bool
}

var ColliderComponent = NewComponent[Collider]()
