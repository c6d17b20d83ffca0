package entity

import (
	"fmt"

	"github.com/milk9111/roomtrials/common"
	"github.com/milk9111/roomtrials/ecs"
	"github.com/milk9111/roomtrials/ecs/component"
	"github.com/milk9111/roomtrials/prefabs"
)

// Layout indexes the entities built from one experiment spec.
type Layout struct {
	Player     ecs.Entity
	Boxes      []ecs.Entity
	Rooms      map[string]ecs.Entity
	Sensors    map[string]ecs.Entity
	Doors      map[component.DoorRole]ecs.Entity
	Panels     map[component.PanelID]ecs.Entity
	Walls      []ecs.Entity
	Reward     ecs.Entity
	PlayfulCue ecs.Entity
	BoringCue  ecs.Entity
}

// BuildExperiment creates every entity the experiment describes. Doors, sensors and
// rooms are only built for the rooms variant.
func BuildExperiment(w *ecs.World, spec prefabs.ExperimentSpec) (*Layout, error) {
	l := &Layout{
		Rooms:   make(map[string]ecs.Entity),
		Sensors: make(map[string]ecs.Entity),
		Doors:   make(map[component.DoorRole]ecs.Entity),
		Panels:  make(map[component.PanelID]ecs.Entity),
	}

	var err error
	if l.Player, err = NewPlayer(w, spec.Player, spec.SensorTag); err != nil {
		return nil, err
	}
	for i, b := range spec.Boxes {
		e, err := NewBox(w, b, i)
		if err != nil {
			return nil, err
		}
		l.Boxes = append(l.Boxes, e)
	}
	for _, r := range spec.Rooms {
		room, err := NewRoom(w, r)
		if err != nil {
			return nil, err
		}
		l.Rooms[r.ID] = room
		if spec.Variant == prefabs.VariantGrab {
			continue
		}
		sensor, err := NewRoomSensor(w, r, spec.SensorTag)
		if err != nil {
			return nil, err
		}
		l.Sensors[r.ID] = sensor
	}
	for _, b := range spec.Walls {
		wall, err := NewWall(w, b)
		if err != nil {
			return nil, err
		}
		l.Walls = append(l.Walls, wall)
	}
	if spec.Variant != prefabs.VariantGrab {
		for _, d := range spec.Doors {
			door, err := NewDoor(w, d)
			if err != nil {
				return nil, err
			}
			l.Doors[component.DoorRole(d.Role)] = door
		}
	}
	for _, p := range spec.Panels {
		panel, err := NewPanel(w, p)
		if err != nil {
			return nil, err
		}
		l.Panels[component.PanelID(p.ID)] = panel
	}

	if l.Reward, err = NewProp(w, spec.Reward, "reward"); err != nil {
		return nil, err
	}
	if err := ecs.Add(w, l.Reward, component.RewardTagComponent.Kind(), &component.RewardTag{}); err != nil {
		return nil, fmt.Errorf("reward: %w", err)
	}
	if l.PlayfulCue, err = newCue(w, spec.Cues.Playful, "cue_playful", true); err != nil {
		return nil, err
	}
	if l.BoringCue, err = newCue(w, spec.Cues.Boring, "cue_boring", false); err != nil {
		return nil, err
	}
	return l, nil
}

func NewPlayer(w *ecs.World, spec prefabs.PlayerSpec, tag string) (ecs.Entity, error) {
	e := ecs.CreateEntity(w)
	radius := spec.Radius
	if radius <= 0 {
		radius = 0.3
	}
	if err := addAll(w, e,
		add(component.TransformComponent.Kind(), &component.Transform{Position: vec(spec.Transform), Rotation: yaw(spec.Transform)}),
		add(component.NameComponent.Kind(), &component.Name{Value: "player"}),
		add(component.PlayerTagComponent.Kind(), &component.PlayerTag{}),
		add(component.TagComponent.Kind(), &component.Tag{Name: tag}),
		add(component.InputComponent.Kind(), &component.Input{}),
		add(component.GrabberComponent.Kind(), &component.Grabber{Reach: spec.Reach}),
		add(component.ColliderComponent.Kind(), &component.Collider{Width: radius * 2, Depth: radius * 2, Enabled: true}),
		add(component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{Radius: radius, Mass: spec.Mass}),
	); err != nil {
		return 0, fmt.Errorf("player: %w", err)
	}
	return e, nil
}

func NewBox(w *ecs.World, spec prefabs.BoxSpec, index int) (ecs.Entity, error) {
	e := ecs.CreateEntity(w)
	size := spec.Size
	if size <= 0 {
		size = 0.5
	}
	name := spec.Name
	if name == "" {
		name = fmt.Sprintf("box_%d", index)
	}
	if err := addAll(w, e,
		add(component.TransformComponent.Kind(), &component.Transform{Position: vec(spec.Transform), Rotation: yaw(spec.Transform)}),
		add(component.NameComponent.Kind(), &component.Name{Value: name}),
		add(component.SelectableComponent.Kind(), &component.Selectable{
			Index:        index,
			Interactable: true,
			BeginSelect:  &common.Signal[uint64]{},
			EndSelect:    &common.Signal[uint64]{},
		}),
		add(component.ColliderComponent.Kind(), &component.Collider{Width: size, Depth: size, Enabled: true}),
		add(component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{Width: size, Depth: size, Mass: spec.Mass, Friction: spec.Friction}),
		add(component.ActiveComponent.Kind(), &component.Active{On: true}),
	); err != nil {
		return 0, fmt.Errorf("box %s: %w", name, err)
	}
	if spec.Color != nil {
		if err := ecs.Add(w, e, component.ColorComponent.Kind(), &component.Color{Color: spec.Color.Color}); err != nil {
			return 0, fmt.Errorf("box %s: %w", name, err)
		}
	}
	return e, nil
}

func NewRoom(w *ecs.World, spec prefabs.RoomSpec) (ecs.Entity, error) {
	e := ecs.CreateEntity(w)
	if err := addAll(w, e,
		add(component.TransformComponent.Kind(), &component.Transform{Rotation: common.IdentityQuat}),
		add(component.NameComponent.Kind(), &component.Name{Value: "room_" + spec.ID}),
		add(component.RoomComponent.Kind(), &component.Room{ID: spec.ID, Bounds: aabb(spec.Bounds)}),
	); err != nil {
		return 0, fmt.Errorf("room %s: %w", spec.ID, err)
	}
	if spec.Color != nil {
		if err := ecs.Add(w, e, component.ColorComponent.Kind(), &component.Color{Color: spec.Color.Color}); err != nil {
			return 0, fmt.Errorf("room %s: %w", spec.ID, err)
		}
	}
	return e, nil
}

func NewRoomSensor(w *ecs.World, spec prefabs.RoomSpec, tag string) (ecs.Entity, error) {
	e := ecs.CreateEntity(w)
	bounds := spec.Sensor
	if bounds.Empty() {
		bounds = spec.Bounds
	}
	if err := addAll(w, e,
		add(component.TransformComponent.Kind(), &component.Transform{Rotation: common.IdentityQuat}),
		add(component.NameComponent.Kind(), &component.Name{Value: "sensor_" + spec.ID}),
		add(component.RoomSensorComponent.Kind(), &component.RoomSensor{
			Room:    spec.ID,
			Tag:     tag,
			Bounds:  aabb(bounds),
			Inside:  make(map[uint64]bool),
			Entered: &common.Signal[uint64]{},
		}),
	); err != nil {
		return 0, fmt.Errorf("sensor %s: %w", spec.ID, err)
	}
	return e, nil
}

func NewWall(w *ecs.World, spec prefabs.AABBSpec) (ecs.Entity, error) {
	e := ecs.CreateEntity(w)
	cx, cz := spec.Center()
	if err := addAll(w, e,
		add(component.TransformComponent.Kind(), &component.Transform{Position: common.Vec3{X: cx, Z: cz}, Rotation: common.IdentityQuat}),
		add(component.ColliderComponent.Kind(), &component.Collider{Width: spec.Width, Depth: spec.Depth, Enabled: true}),
		add(component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{Width: spec.Width, Depth: spec.Depth, Static: true}),
	); err != nil {
		return 0, fmt.Errorf("wall: %w", err)
	}
	return e, nil
}

// NewDoor creates the door entity, its hinge and the leaf that blocks the
// doorway. The leaf is a child of the hinge, centered along its local X axis.
func NewDoor(w *ecs.World, spec prefabs.DoorSpec) (ecs.Entity, error) {
	width := spec.Width
	if width <= 0 {
		width = 2
	}

	hinge := ecs.CreateEntity(w)
	if err := addAll(w, hinge,
		add(component.TransformComponent.Kind(), &component.Transform{Position: vec(spec.Hinge), Rotation: yaw(spec.Hinge)}),
		add(component.NameComponent.Kind(), &component.Name{Value: "hinge_" + spec.Role}),
	); err != nil {
		return 0, fmt.Errorf("door %s: hinge: %w", spec.Role, err)
	}

	// the leaf collider is authored in the closed pose
	leaf := ecs.CreateEntity(w)
	rot := yaw(spec.Hinge)
	center := vec(spec.Hinge).Add(rot.Rotate(common.Vec3{X: width / 2}))
	leafW, leafD := width, 0.2
	if r := rot.Yaw(); r > 45 && r < 135 || r < -45 && r > -135 {
		leafW, leafD = leafD, leafW
	}
	if err := addAll(w, leaf,
		add(component.TransformComponent.Kind(), &component.Transform{Position: center, Rotation: common.IdentityQuat}),
		add(component.NameComponent.Kind(), &component.Name{Value: "leaf_" + spec.Role}),
		add(component.ColliderComponent.Kind(), &component.Collider{Width: leafW, Depth: leafD, Enabled: true}),
		add(component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{Width: leafW, Depth: leafD, Static: true}),
	); err != nil {
		return 0, fmt.Errorf("door %s: leaf: %w", spec.Role, err)
	}

	e := ecs.CreateEntity(w)
	if err := addAll(w, e,
		add(component.NameComponent.Kind(), &component.Name{Value: "door_" + spec.Role}),
		add(component.DoorComponent.Kind(), &component.Door{
			Role:       component.DoorRole(spec.Role),
			Hinge:      uint64(hinge),
			Leaf:       uint64(leaf),
			Width:      width,
			SwingAngle: spec.Swing,
			Speed:      spec.Speed,
		}),
	); err != nil {
		return 0, fmt.Errorf("door %s: %w", spec.Role, err)
	}
	return e, nil
}

func NewPanel(w *ecs.World, spec prefabs.PanelSpec) (ecs.Entity, error) {
	e := ecs.CreateEntity(w)
	if err := addAll(w, e,
		add(component.NameComponent.Kind(), &component.Name{Value: "panel_" + spec.ID}),
		add(component.PanelComponent.Kind(), &component.Panel{ID: component.PanelID(spec.ID), Text: spec.Text}),
		add(component.ActiveComponent.Kind(), &component.Active{}),
	); err != nil {
		return 0, fmt.Errorf("panel %s: %w", spec.ID, err)
	}
	return e, nil
}

// NewProp creates a positioned, initially active scene object.
func NewProp(w *ecs.World, spec prefabs.PropSpec, fallbackName string) (ecs.Entity, error) {
	name := spec.Name
	if name == "" {
		name = fallbackName
	}
	e := ecs.CreateEntity(w)
	if err := addAll(w, e,
		add(component.TransformComponent.Kind(), &component.Transform{Position: vec(spec.Transform), Rotation: yaw(spec.Transform)}),
		add(component.NameComponent.Kind(), &component.Name{Value: name}),
		add(component.ActiveComponent.Kind(), &component.Active{On: true}),
	); err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	return e, nil
}

func newCue(w *ecs.World, spec prefabs.PropSpec, fallbackName string, playful bool) (ecs.Entity, error) {
	e, err := NewProp(w, spec, fallbackName)
	if err != nil {
		return 0, err
	}
	if err := ecs.Add(w, e, component.CueComponent.Kind(), &component.Cue{Playful: playful}); err != nil {
		return 0, fmt.Errorf("%s: %w", fallbackName, err)
	}
	return e, nil
}

type addFn func(w *ecs.World, e ecs.Entity) error

func add[T any](kind component.ComponentKind[T], v *T) addFn {
	return func(w *ecs.World, e ecs.Entity) error {
		return ecs.Add(w, e, kind, v)
	}
}

func addAll(w *ecs.World, e ecs.Entity, fns ...addFn) error {
	for _, fn := range fns {
		if err := fn(w, e); err != nil {
			return err
		}
	}
	return nil
}

func vec(t prefabs.TransformSpec) common.Vec3 {
	return common.Vec3{X: t.X, Y: t.Y, Z: t.Z}
}

func yaw(t prefabs.TransformSpec) common.Quat {
	return common.QuatFromYaw(t.Yaw)
}

func aabb(b prefabs.AABBSpec) component.AABB {
	return component.AABB{X: b.X, Z: b.Z, Width: b.Width, Depth: b.Depth}
}
