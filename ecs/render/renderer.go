package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/roomtrials/common"
	"github.com/milk9111/roomtrials/ecs"
	"github.com/milk9111/roomtrials/ecs/component"
	"github.com/milk9111/roomtrials/ecs/system"
	"golang.org/x/image/colornames"
)

var (
	backgroundColor = color.NRGBA{R: 0x14, G: 0x16, B: 0x1c, A: 0xff}
	wallColor       = colornames.Slategray
	doorColor       = colornames.Burlywood
	playerColor     = colornames.Crimson
	rewardColor     = colornames.Gold
	playfulColor    = colornames.Hotpink
	boringColor     = colornames.Gray
	sensorColor     = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0x30}
)

// DrawWorld draws the floor plan top-down: rooms, walls, doors, props,
// boxes and the player, in that order.
func DrawWorld(w *ecs.World, screen *ebiten.Image, v View, debug bool) {
	if w == nil || screen == nil {
		return
	}
	screen.Fill(backgroundColor)

	ecs.ForEach(w, component.RoomComponent.Kind(), func(e ecs.Entity, r *component.Room) {
		fill := color.Color(color.NRGBA{R: 0x2b, G: 0x2f, B: 0x3a, A: 0xff})
		if c, ok := ecs.Get(w, e, component.ColorComponent.Kind()); ok && c.Color != nil {
			fill = c.Color
		}
		x, y := v.ToScreen(r.Bounds.X, r.Bounds.Z)
		vector.DrawFilledRect(screen, x, y, v.Length(r.Bounds.Width), v.Length(r.Bounds.Depth), fill, false)
	})

	if debug {
		ecs.ForEach(w, component.RoomSensorComponent.Kind(), func(e ecs.Entity, s *component.RoomSensor) {
			pos, _, _ := system.WorldPose(w, e)
			x, y := v.ToScreen(pos.X+s.Bounds.X, pos.Z+s.Bounds.Z)
			vector.StrokeRect(screen, x, y, v.Length(s.Bounds.Width), v.Length(s.Bounds.Depth), 1, sensorColor, false)
		})
	}

	ecs.ForEach2(w, component.ColliderComponent.Kind(), component.PhysicsBodyComponent.Kind(), func(e ecs.Entity, c *component.Collider, b *component.PhysicsBody) {
		if !b.Static || isDoorLeaf(w, e) {
			return
		}
		pos, _, ok := system.WorldPose(w, e)
		if !ok {
			return
		}
		x, y := v.ToScreen(pos.X-c.Width/2, pos.Z-c.Depth/2)
		vector.DrawFilledRect(screen, x, y, v.Length(c.Width), v.Length(c.Depth), wallColor, false)
	})

	ecs.ForEach(w, component.DoorComponent.Kind(), func(e ecs.Entity, d *component.Door) {
		pos, rot, ok := system.WorldPose(w, ecs.Entity(d.Hinge))
		if !ok {
			return
		}
		tip := pos.Add(rot.Rotate(common.Vec3{X: d.Width}))
		x0, y0 := v.ToScreen(pos.X, pos.Z)
		x1, y1 := v.ToScreen(tip.X, tip.Z)
		vector.StrokeLine(screen, x0, y0, x1, y1, v.Length(0.15), doorColor, true)
		vector.DrawFilledCircle(screen, x0, y0, v.Length(0.1), doorColor, true)
	})

	ecs.ForEach(w, component.CueComponent.Kind(), func(e ecs.Entity, c *component.Cue) {
		fill := boringColor
		if c.Playful {
			fill = playfulColor
		}
		drawDisc(w, screen, v, e, 0.35, fill)
	})
	ecs.ForEach(w, component.RewardTagComponent.Kind(), func(e ecs.Entity, _ *component.RewardTag) {
		drawDisc(w, screen, v, e, 0.5, rewardColor)
	})

	ecs.ForEach(w, component.SelectableComponent.Kind(), func(e ecs.Entity, sel *component.Selectable) {
		if !system.IsActive(w, e) {
			return
		}
		pos, _, ok := system.WorldPose(w, e)
		if !ok {
			return
		}
		size := 0.5
		if b, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind()); ok && b.Width > 0 {
			size = b.Width
		}
		fill := color.Color(colornames.White)
		if c, ok := ecs.Get(w, e, component.ColorComponent.Kind()); ok && c.Color != nil {
			fill = c.Color
		}
		x, y := v.ToScreen(pos.X-size/2, pos.Z-size/2)
		vector.DrawFilledRect(screen, x, y, v.Length(size), v.Length(size), fill, false)
		if sel.Interactable {
			vector.StrokeRect(screen, x, y, v.Length(size), v.Length(size), 2, colornames.White, false)
		}
	})

	ecs.ForEach(w, component.PlayerTagComponent.Kind(), func(e ecs.Entity, _ *component.PlayerTag) {
		radius := 0.3
		if b, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind()); ok && b.Radius > 0 {
			radius = b.Radius
		}
		drawDisc(w, screen, v, e, radius, playerColor)
	})
}

func drawDisc(w *ecs.World, screen *ebiten.Image, v View, e ecs.Entity, radius float64, fill color.Color) {
	if !system.IsActive(w, e) {
		return
	}
	pos, _, ok := system.WorldPose(w, e)
	if !ok {
		return
	}
	x, y := v.ToScreen(pos.X, pos.Z)
	vector.DrawFilledCircle(screen, x, y, v.Length(radius), fill, true)
}

func isDoorLeaf(w *ecs.World, e ecs.Entity) bool {
	leaf := false
	ecs.ForEach(w, component.DoorComponent.Kind(), func(_ ecs.Entity, d *component.Door) {
		if ecs.Entity(d.Leaf) == e {
			leaf = true
		}
	})
	return leaf
}
