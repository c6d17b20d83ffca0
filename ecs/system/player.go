package system

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/roomtrials/common"
	"github.com/milk9111/roomtrials/ecs"
	"github.com/milk9111/roomtrials/ecs/component"
)

const playerSpeed = 3.0 // world units per second

// PlayerControllerSystem turns movement input into player velocity. It runs
// before physics; players without a body are moved directly.
type PlayerControllerSystem struct{}

func NewPlayerControllerSystem() *PlayerControllerSystem { return &PlayerControllerSystem{} }

func (s *PlayerControllerSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	ecs.ForEach2(w, component.PlayerTagComponent.Kind(), component.InputComponent.Kind(), func(e ecs.Entity, _ *component.PlayerTag, in *component.Input) {
		vx, vz := in.MoveX, in.MoveZ
		if l := math.Hypot(vx, vz); l > 1 {
			vx, vz = vx/l, vz/l
		}
		vx *= playerSpeed
		vz *= playerSpeed

		if body, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind()); ok && body.Body != nil {
			body.Body.SetVelocityVector(cp.Vector{X: vx, Y: vz})
			return
		}
		if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
			t.Position.X += vx * common.TickDelta
			t.Position.Z += vz * common.TickDelta
		}
	})
}

// Teleport puts the player at (x, z) at rest. Scripted hosts use it to walk
// into rooms.
func Teleport(w *ecs.World, player ecs.Entity, x, z float64) {
	t, ok := ecs.Get(w, player, component.TransformComponent.Kind())
	if !ok {
		return
	}
	t.Position.X, t.Position.Z = x, z
	if body, ok := ecs.Get(w, player, component.PhysicsBodyComponent.Kind()); ok && body.Body != nil {
		body.Body.SetPosition(cp.Vector{X: x, Y: z})
		body.Body.SetVelocityVector(cp.Vector{})
	}
}
