// Package sim composes one running experiment: the ECS world built from an
// experiment prefab, the fixed system order and the trial controller wired
// to the world through the system adapters. Every host (window, terminal,
// scripted runner) drives a Simulation one tick at a time.
package sim

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/milk9111/roomtrials/common"
	"github.com/milk9111/roomtrials/ecs"
	"github.com/milk9111/roomtrials/ecs/component"
	"github.com/milk9111/roomtrials/ecs/entity"
	"github.com/milk9111/roomtrials/ecs/system"
	"github.com/milk9111/roomtrials/logging"
	"github.com/milk9111/roomtrials/prefabs"
	"github.com/milk9111/roomtrials/trial"
)

type Option func(*options)

type options struct {
	input  ecs.System
	render []ecs.System
}

// WithInput runs sys first in every tick.
func WithInput(sys ecs.System) Option {
	return func(o *options) { o.input = sys }
}

// WithLateSystems appends systems after the door system.
func WithLateSystems(systems ...ecs.System) Option {
	return func(o *options) { o.render = append(o.render, systems...) }
}

type Simulation struct {
	World      *ecs.World
	Spec       prefabs.ExperimentSpec
	Layout     *entity.Layout
	Controller *trial.Controller
	Timers     *system.TimerSystem
	Spawns     *system.SpawnRegistry
	Gate       *system.SelectionGate
	Panels     *system.PanelSwitcher
	Physics    *system.PhysicsSystem

	scheduler  *ecs.Scheduler
	log        *slog.Logger
	transcript []string
}

// New builds the world for spec and starts the controller.
func New(spec prefabs.ExperimentSpec, logger *slog.Logger, opts ...Option) (*Simulation, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	log := logging.OrDiscard(logger)

	w := ecs.NewWorld()
	layout, err := entity.BuildExperiment(w, spec)
	if err != nil {
		return nil, fmt.Errorf("sim: build %s: %w", spec.Name, err)
	}

	s := &Simulation{
		World:   w,
		Spec:    spec,
		Layout:  layout,
		Timers:  system.NewTimerSystem(w, log),
		Spawns:  system.NewSpawnRegistry(w, log),
		Gate:    system.NewSelectionGate(w, layout.Boxes, log),
		Panels:  system.NewPanelSwitcher(w, log),
		Physics: system.NewPhysicsSystem(),
		log:     log,
	}

	cfg := spec.TrialConfig()
	deps := trial.Deps{
		Gate:        s.Gate,
		Selectables: s.Gate.Handles(),
		Panels:      s.Panels,
		Spawns:      s.Spawns,
		Reward:      system.NewToggle(w, layout.Reward),
		PlayfulCue:  system.NewToggle(w, layout.PlayfulCue),
		BoringCue:   system.NewToggle(w, layout.BoringCue),
	}
	if cfg.Rooms {
		deps.Clock = s.Timers
		deps.Doors = make(map[trial.DoorRole]trial.Door, len(layout.Doors))
		for role, e := range layout.Doors {
			deps.Doors[trial.DoorRole(role)] = system.NewDoorHandle(w, e, log)
		}
		deps.Sensors = make(map[trial.Room]trial.Sensor, len(layout.Sensors))
		for room, e := range layout.Sensors {
			deps.Sensors[trial.Room(room)] = system.NewSensorHandle(w, e)
		}
	}
	s.Controller = trial.NewController(cfg, deps, log)

	s.scheduler = ecs.NewScheduler()
	if o.input != nil {
		s.scheduler.Add(o.input)
	}
	s.scheduler.Add(system.NewPlayerControllerSystem())
	s.scheduler.Add(system.NewGrabSystem(log))
	s.scheduler.Add(s.Physics)
	s.scheduler.Add(system.NewRoomSensorSystem(log))
	s.scheduler.Add(s.Timers)
	s.scheduler.Add(system.NewDoorSystem(log))
	for _, sys := range o.render {
		s.scheduler.Add(sys)
	}

	s.Controller.OnOutcome(func(out trial.Outcome) {
		s.note("outcome trial=%d choice=%d success=%t forced=%t", out.Trial+1, out.Choice, out.Success, out.Forced)
	})
	s.Controller.OnPhase(func(p trial.Phase) {
		s.note("phase %s", p)
	})
	s.Controller.Start()
	s.flushEvents()
	return s, nil
}

// Close stops the controller. The world stays readable.
func (s *Simulation) Close() {
	s.Controller.Stop()
}

// Step runs one tick.
func (s *Simulation) Step() {
	s.scheduler.Update(s.World)
	s.flushEvents()
	if in, ok := ecs.Get(s.World, s.Layout.Player, component.InputComponent.Kind()); ok {
		in.GrabPressed = false
	}
}

// Advance steps for at least d of simulated time.
func (s *Simulation) Advance(d time.Duration) {
	for i := uint64(0); i < common.TicksFor(d); i++ {
		s.Step()
	}
}

// Grab picks up box i regardless of distance. It reports whether the
// begin-select was emitted.
func (s *Simulation) Grab(i int) bool {
	if i < 0 || i >= len(s.Layout.Boxes) {
		return false
	}
	if system.IsGrabbed(s.World, s.Layout.Boxes[i]) {
		return false
	}
	system.Release(s.World, s.Layout.Player)
	return system.Grab(s.World, s.Layout.Player, s.Layout.Boxes[i])
}

// Release drops whatever the player holds.
func (s *Simulation) Release() bool {
	return system.Release(s.World, s.Layout.Player)
}

// Walk teleports the player into the middle of a room's sensor and runs one
// tick so the sensor can fire.
func (s *Simulation) Walk(room string) error {
	r, ok := s.Spec.Room(room)
	if !ok {
		return fmt.Errorf("sim: unknown room %q", room)
	}
	x, z := r.Sensor.Center()
	system.Teleport(s.World, s.Layout.Player, x, z)
	s.Step()
	return nil
}

// ActivePanel returns the visible panel id, or "" when none is shown.
func (s *Simulation) ActivePanel() string {
	ids := system.ActivePanels(s.World)
	if len(ids) == 0 {
		return ""
	}
	return string(ids[0])
}

// DoorOpen reports a door's current target.
func (s *Simulation) DoorOpen(role string) bool {
	e, ok := s.Layout.Doors[component.DoorRole(role)]
	if !ok {
		return false
	}
	return system.NewDoorHandle(s.World, e, nil).IsOpen()
}

// RewardVisible reports whether the reward prop is active.
func (s *Simulation) RewardVisible() bool {
	return system.IsActive(s.World, s.Layout.Reward)
}

// PanelText returns the authored text of a panel.
func (s *Simulation) PanelText(id string) string {
	e, ok := s.Layout.Panels[component.PanelID(id)]
	if !ok {
		return ""
	}
	p, _ := ecs.Get(s.World, e, component.PanelComponent.Kind())
	if p == nil {
		return ""
	}
	return p.Text
}

// Transcript returns every logged line so far.
func (s *Simulation) Transcript() []string {
	return append([]string(nil), s.transcript...)
}

// Summary is a short multi-line status block.
func (s *Simulation) Summary() []string {
	c := s.Controller
	lines := []string{
		fmt.Sprintf("experiment %s (%s)", s.Spec.Name, s.Spec.Variant),
		fmt.Sprintf("phase %s  trial %d/%d  choice %d", c.Phase(), c.Trial()+1, c.Config().Trials, c.Choice()),
	}
	if !c.Config().Rooms {
		lines[1] = fmt.Sprintf("phase %s  grabs %d/%d", c.Phase(), c.Grabs(), c.Config().Trials)
	}
	roles := make([]string, 0, len(s.Layout.Doors))
	for role := range s.Layout.Doors {
		roles = append(roles, string(role))
	}
	sort.Strings(roles)
	for _, role := range roles {
		lines = append(lines, fmt.Sprintf("door %s open=%t", role, s.DoorOpen(role)))
	}
	return lines
}

func (s *Simulation) note(format string, args ...any) {
	line := fmt.Sprintf("%6d ", s.Timers.Tick()) + fmt.Sprintf(format, args...)
	s.transcript = append(s.transcript, line)
	logging.Trace(s.log, "transcript", "line", line)
}

func (s *Simulation) flushEvents() {
	for _, ev := range s.World.Events().Drain() {
		s.note("%s %v", ev.Type, ev.Data)
	}
}
