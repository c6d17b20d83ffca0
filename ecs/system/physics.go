package system

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/roomtrials/common"
	"github.com/milk9111/roomtrials/ecs"
	"github.com/milk9111/roomtrials/ecs/component"
)

const (
	collisionTypeSolid cp.CollisionType = iota + 1
	collisionTypePlayer
)

const (
	// floor friction stand-in; the plane has no gravity
	spaceDamping = 0.2
	spaceIters   = 10
)

// PhysicsSystem runs a top-down chipmunk space. World X maps to cp X and
// world Z to cp Y; yaw maps to the body angle.
type PhysicsSystem struct {
	space    *cp.Space
	entities map[ecs.Entity]*bodyInfo
}

type bodyInfo struct {
	body   *cp.Body
	shape  *cp.Shape
	static bool
	sensor bool
}

func NewPhysicsSystem() *PhysicsSystem {
	return &PhysicsSystem{space: newSpace(), entities: make(map[ecs.Entity]*bodyInfo)}
}

func newSpace() *cp.Space {
	space := cp.NewSpace()
	space.Iterations = spaceIters
	space.SetGravity(cp.Vector{})
	space.SetDamping(spaceDamping)
	return space
}

func (ps *PhysicsSystem) Space() *cp.Space {
	if ps == nil {
		return nil
	}
	return ps.space
}

func (ps *PhysicsSystem) Update(w *ecs.World) {
	if ps == nil || w == nil {
		return
	}
	if ps.space == nil {
		ps.space = newSpace()
	}

	ps.cleanupEntities(w)
	ps.syncEntities(w)
	ps.space.Step(common.TickDelta)
	ps.syncTransforms(w)
}

func (ps *PhysicsSystem) syncEntities(w *ecs.World) {
	for _, e := range ecs.Query(w, component.PhysicsBodyComponent.Kind().ID(), component.TransformComponent.Kind().ID()) {
		bodyComp, _ := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
		info := ps.entities[e]
		if info == nil {
			info = ps.createBody(w, e, bodyComp)
			ps.entities[e] = info
			bodyComp.Body = info.body
			bodyComp.Shape = info.shape
		}

		solid := IsActive(w, e) && !IsGrabbed(w, e)
		if col, ok := ecs.Get(w, e, component.ColliderComponent.Kind()); ok {
			solid = solid && col.Enabled
		}
		if info.sensor == solid {
			info.sensor = !solid
			info.shape.SetSensor(info.sensor)
		}

		if info.static {
			continue
		}
		if bodyComp.Kinematic || IsGrabbed(w, e) {
			// held and kinematic bodies follow their transform
			pos, rot, _ := WorldPose(w, e)
			info.body.SetPosition(cp.Vector{X: pos.X, Y: pos.Z})
			info.body.SetAngle(yawToAngle(rot.Yaw()))
			info.body.SetVelocityVector(cp.Vector{})
			info.body.SetAngularVelocity(0)
		}
	}
}

func (ps *PhysicsSystem) createBody(w *ecs.World, e ecs.Entity, bodyComp *component.PhysicsBody) *bodyInfo {
	pos, rot, _ := WorldPose(w, e)
	width, depth, radius := bodyComp.Width, bodyComp.Depth, bodyComp.Radius
	if radius <= 0 && (width <= 0 || depth <= 0) {
		radius = 0.25
	}

	info := &bodyInfo{static: bodyComp.Static}
	if bodyComp.Static {
		body := cp.NewStaticBody()
		body.SetPosition(cp.Vector{X: pos.X, Y: pos.Z})
		body.SetAngle(yawToAngle(rot.Yaw()))
		var shape *cp.Shape
		if radius > 0 {
			shape = cp.NewCircle(body, radius, cp.Vector{})
		} else {
			shape = cp.NewBox(body, width, depth, 0)
		}
		shape.SetFriction(bodyComp.Friction)
		shape.SetCollisionType(collisionTypeSolid)
		ps.space.AddBody(body)
		ps.space.AddShape(shape)
		info.body = body
		info.shape = shape
		return info
	}

	mass := bodyComp.Mass
	if mass <= 0 {
		mass = 1
	}
	var moment float64
	if radius > 0 {
		moment = cp.MomentForCircle(mass, 0, radius, cp.Vector{})
	} else {
		moment = cp.MomentForBox(mass, width, depth)
	}
	if ecs.Has(w, e, component.PlayerTagComponent.Kind()) {
		// the player never spins
		moment = math.Inf(1)
	}

	body := cp.NewBody(mass, moment)
	body.SetPosition(cp.Vector{X: pos.X, Y: pos.Z})
	body.SetAngle(yawToAngle(rot.Yaw()))

	var shape *cp.Shape
	if radius > 0 {
		shape = cp.NewCircle(body, radius, cp.Vector{})
	} else {
		shape = cp.NewBox(body, width, depth, 0)
	}
	shape.SetFriction(bodyComp.Friction)
	shape.SetCollisionType(collisionTypeSolid)
	if ecs.Has(w, e, component.PlayerTagComponent.Kind()) {
		shape.SetCollisionType(collisionTypePlayer)
	}

	ps.space.AddBody(body)
	ps.space.AddShape(shape)
	info.body = body
	info.shape = shape
	return info
}

func (ps *PhysicsSystem) syncTransforms(w *ecs.World) {
	for e, info := range ps.entities {
		if info.static {
			continue
		}
		bodyComp, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
		if !ok || bodyComp.Kinematic || IsGrabbed(w, e) {
			continue
		}
		pos, _, ok := WorldPose(w, e)
		if !ok {
			continue
		}
		p := info.body.Position()
		pos.X, pos.Z = p.X, p.Y
		SetWorldPose(w, e, pos, common.QuatFromYaw(angleToYaw(info.body.Angle())))
	}
}

func (ps *PhysicsSystem) cleanupEntities(w *ecs.World) {
	for e, info := range ps.entities {
		if ecs.IsAlive(w, e) && ecs.Has(w, e, component.PhysicsBodyComponent.Kind()) {
			continue
		}
		if info.shape != nil {
			ps.space.RemoveShape(info.shape)
		}
		if info.body != nil {
			ps.space.RemoveBody(info.body)
		}
		delete(ps.entities, e)
	}
}

func yawToAngle(yaw float64) float64 { return -yaw * math.Pi / 180 }
func angleToYaw(angle float64) float64 { return -angle * 180 / math.Pi }
