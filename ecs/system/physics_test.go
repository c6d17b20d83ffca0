package system

import (
	"testing"

	"github.com/milk9111/roomtrials/common"
	"github.com/milk9111/roomtrials/ecs"
	"github.com/milk9111/roomtrials/ecs/component"
)

func TestPhysicsCreatesBodies(t *testing.T) {
	w := ecs.NewWorld()
	box := newBox(t, w, 2, 1)
	mustAdd(t, w, box, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{Width: 0.5, Depth: 0.5, Mass: 1})
	wall := ecs.CreateEntity(w)
	mustAdd(t, w, wall, component.TransformComponent.Kind(), &component.Transform{Position: common.Vec3{X: -5}})
	mustAdd(t, w, wall, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{Width: 1, Depth: 10, Static: true})

	ps := NewPhysicsSystem()
	ps.Update(w)

	for _, e := range []ecs.Entity{box, wall} {
		pb, _ := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
		if pb.Body == nil || pb.Shape == nil {
			t.Fatalf("entity %v has no body after update", e)
		}
	}
	pb, _ := ecs.Get(w, box, component.PhysicsBodyComponent.Kind())
	if p := pb.Body.Position(); !approx(p.X, 2, 1e-6) || !approx(p.Y, 1, 1e-6) {
		t.Fatalf("body created at %+v", p)
	}
}

func TestPlayerMovesThroughPhysics(t *testing.T) {
	w := ecs.NewWorld()
	player := newPlayer(t, w, 0, 0)
	mustAdd(t, w, player, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{Radius: 0.3, Mass: 1})
	ps := NewPhysicsSystem()
	pc := NewPlayerControllerSystem()
	ps.Update(w)

	in, _ := ecs.Get(w, player, component.InputComponent.Kind())
	in.MoveX = 1
	for i := 0; i < common.TickRate; i++ {
		pc.Update(w)
		ps.Update(w)
	}

	pos, _, _ := WorldPose(w, player)
	if pos.X < 1 {
		t.Fatalf("expected player to move along X, got %+v", pos)
	}
	if !approx(pos.Z, 0, 1e-6) {
		t.Fatalf("player drifted in Z: %+v", pos)
	}
}

func TestHeldBodyFollowsTransform(t *testing.T) {
	w := ecs.NewWorld()
	player := newPlayer(t, w, 0, 0)
	box := newBox(t, w, 1, 0)
	mustAdd(t, w, box, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{Width: 0.5, Depth: 0.5, Mass: 1})
	ps := NewPhysicsSystem()
	ps.Update(w)

	Grab(w, player, box)
	moveTo(w, player, 3, 4)
	ps.Update(w)

	pb, _ := ecs.Get(w, box, component.PhysicsBodyComponent.Kind())
	if p := pb.Body.Position(); !approx(p.X, 4, 1e-6) || !approx(p.Y, 4, 1e-6) {
		t.Fatalf("held body should follow the player, got %+v", p)
	}
}

func TestPhysicsRemovesDestroyedEntities(t *testing.T) {
	w := ecs.NewWorld()
	box := newBox(t, w, 0, 0)
	mustAdd(t, w, box, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{Radius: 0.2})
	ps := NewPhysicsSystem()
	ps.Update(w)
	if len(ps.entities) != 1 {
		t.Fatalf("expected one tracked body")
	}

	ecs.DestroyEntity(w, box)
	ps.Update(w)
	if len(ps.entities) != 0 {
		t.Fatalf("destroyed entity still tracked")
	}
}

func TestTransformReparentKeepsWorldPose(t *testing.T) {
	w := ecs.NewWorld()
	parent := ecs.CreateEntity(w)
	mustAdd(t, w, parent, component.TransformComponent.Kind(), &component.Transform{Position: common.Vec3{X: 5, Z: 5}, Rotation: common.QuatFromYaw(90)})
	child := newBox(t, w, 6, 5)

	Reparent(w, child, uint64(parent))
	pos, _, _ := WorldPose(w, child)
	if !approx(pos.X, 6, 1e-9) || !approx(pos.Z, 5, 1e-9) {
		t.Fatalf("world pose changed on reparent: %+v", pos)
	}

	tr, _ := ecs.Get(w, parent, component.TransformComponent.Kind())
	tr.Position.X = 7
	pos, _, _ = WorldPose(w, child)
	if !approx(pos.X, 8, 1e-9) {
		t.Fatalf("child should follow its parent, got %+v", pos)
	}

	Reparent(w, child, 0)
	pos, _, _ = WorldPose(w, child)
	if !approx(pos.X, 8, 1e-9) || !approx(pos.Z, 5, 1e-9) {
		t.Fatalf("world pose changed on unparent: %+v", pos)
	}
}
