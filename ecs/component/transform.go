package component

import "github.com/milk9111/roomtrials/common"

// Transform is an entity pose. When Parent is non-zero, Position and Rotation
// are local to the parent's world pose. Parent holds an ecs.Entity value.
type Transform struct {
	Position common.Vec3
	Rotation common.Quat
	Parent   uint64
}

var TransformComponent = NewComponent[Transform]()

// Name is a display/debug label.
type Name struct {
	Value string
}

var NameComponent = NewComponent[Name]()
