package system

import (
	"github.com/milk9111/roomtrials/common"
	"github.com/milk9111/roomtrials/ecs"
	"github.com/milk9111/roomtrials/ecs/component"
)

const maxParentDepth = 16

// WorldPose resolves e's Transform through its parent chain.
func WorldPose(w *ecs.World, e ecs.Entity) (common.Vec3, common.Quat, bool) {
	return worldPose(w, e, 0)
}

func worldPose(w *ecs.World, e ecs.Entity, depth int) (common.Vec3, common.Quat, bool) {
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		return common.Vec3{}, common.IdentityQuat, false
	}
	rot := rotationOrIdentity(t.Rotation)
	if t.Parent == 0 || depth >= maxParentDepth {
		return t.Position, rot, true
	}
	parent := ecs.Entity(t.Parent)
	if !ecs.IsAlive(w, parent) {
		return t.Position, rot, true
	}
	ppos, prot, ok := worldPose(w, parent, depth+1)
	if !ok {
		return t.Position, rot, true
	}
	return ppos.Add(prot.Rotate(t.Position)), prot.Mul(rot), true
}

// SetWorldPose writes e's local Transform so that its world pose equals
// pos/rot under its current parent.
func SetWorldPose(w *ecs.World, e ecs.Entity, pos common.Vec3, rot common.Quat) {
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		return
	}
	if t.Parent != 0 && ecs.IsAlive(w, ecs.Entity(t.Parent)) {
		ppos, prot, ok := WorldPose(w, ecs.Entity(t.Parent))
		if ok {
			inv := prot.Conjugate()
			t.Position = inv.Rotate(pos.Sub(ppos))
			t.Rotation = inv.Mul(rot)
			return
		}
	}
	t.Position = pos
	t.Rotation = rot
}

// Reparent moves e under parent (0 for the scene root) keeping its world pose.
func Reparent(w *ecs.World, e ecs.Entity, parent uint64) {
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok || t.Parent == parent {
		return
	}
	pos, rot, _ := WorldPose(w, e)
	t.Parent = parent
	SetWorldPose(w, e, pos, rot)
}

func rotationOrIdentity(q common.Quat) common.Quat {
	if q == (common.Quat{}) {
		return common.IdentityQuat
	}
	return q
}
