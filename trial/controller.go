// Package trial implements the trial-flow state machine: it owns the current
// phase, the trial counter and the per-trial selection, and drives doors,
// the selection gate, UI panels and delayed timers through the interfaces in
// deps.go.
//
// The Controller is not safe for concurrent use. Every event and timer
// callback must be delivered on the host's single tick loop.
package trial

import (
	"log/slog"

	"github.com/milk9111/roomtrials/common"
	"github.com/milk9111/roomtrials/logging"
)

// NoChoice is the selection index outside the GoWaiting..Reveal span.
const NoChoice = -1

type queuedEvent struct {
	ev  Event
	obj ObjectID
}

type Controller struct {
	cfg Config
	log *slog.Logger

	doors       map[DoorRole]Door
	gate        Gate
	selectables []Selectable
	sensors     map[Room]Sensor
	panels      Panels
	spawns      SpawnRegistry
	reward      Toggle
	playfulCue  Toggle
	boringCue   Toggle
	clock       Scheduler

	table []transition

	phase     Phase
	trial     int
	grabs     int
	choice    int
	locked    bool
	succeeded bool
	rewardOn  bool
	panel     Panel

	waitTimer Timer
	pending   []Timer
	unsubs    []func()

	started     bool
	dispatching bool
	queue       []queuedEvent

	outcomes  []Outcome
	onOutcome common.Signal[Outcome]
	onPhase   common.Signal[Phase]
}

// NewController wires a controller. Missing collaborators are replaced by
// inert stand-ins and reported once at warn level.
func NewController(cfg Config, deps Deps, logger *slog.Logger) *Controller {
	c := &Controller{
		cfg:         cfg.normalized(),
		log:         logging.OrDiscard(logger).With("component", "trial"),
		doors:       make(map[DoorRole]Door, len(doorRoles)),
		sensors:     make(map[Room]Sensor, len(rooms)),
		selectables: deps.Selectables,
		choice:      NoChoice,
	}
	c.table = buildTable(c.cfg)

	if c.cfg.Rooms {
		for _, role := range doorRoles {
			d := deps.Doors[role]
			if d == nil {
				c.log.Warn("missing door", "role", role)
				d = nopDoor{}
			}
			c.doors[role] = d
		}
		for _, room := range rooms {
			if s := deps.Sensors[room]; s != nil {
				c.sensors[room] = s
			} else {
				c.log.Warn("missing room sensor", "room", room)
			}
		}
	}

	c.gate = deps.Gate
	if c.gate == nil {
		c.log.Warn("missing selection gate")
		c.gate = nopGate{}
	}
	c.panels = deps.Panels
	if c.panels == nil {
		c.log.Warn("missing panels")
		c.panels = nopPanels{}
	}
	c.spawns = deps.Spawns
	if c.spawns == nil {
		c.log.Warn("missing spawn registry")
		c.spawns = nopSpawns{}
	}
	c.clock = deps.Clock
	if c.clock == nil {
		if c.cfg.Rooms {
			c.log.Warn("missing scheduler; waiting room will never release")
		}
		c.clock = nopScheduler{}
	}
	c.reward = orNopToggle(deps.Reward)
	c.playfulCue = orNopToggle(deps.PlayfulCue)
	c.boringCue = orNopToggle(deps.BoringCue)
	return c
}

func orNopToggle(t Toggle) Toggle {
	if t == nil {
		return nopToggle{}
	}
	return t
}

// Start subscribes to every event source, captures spawn state, closes all
// doors immediately and begins the first trial. Calling Start twice is a
// no-op.
func (c *Controller) Start() {
	if c.started {
		return
	}
	c.started = true

	hooked := 0
	ids := make([]ObjectID, 0, len(c.selectables))
	for i, s := range c.selectables {
		if s == nil {
			c.log.Warn("selectables list has a nil entry", "index", i)
			continue
		}
		c.unsubs = append(c.unsubs, s.OnBeginSelect(c.Select), s.OnEndSelect(c.Release))
		ids = append(ids, s.ID())
		hooked++
	}
	c.log.Info("hooked selectables", "count", hooked)

	for _, room := range rooms {
		s, ok := c.sensors[room]
		if !ok {
			continue
		}
		room := room
		c.unsubs = append(c.unsubs, s.OnEnter(func() { c.EnterRoom(room) }))
	}

	c.spawns.CaptureAll(ids)
	c.setReward(false)
	c.setCueVariant(c.cfg.PlayfulCue)
	if c.cfg.Rooms {
		c.closeAllDoorsImmediate()
	}
	c.startNewTrial()
}

// Stop unsubscribes from every source and cancels pending timers. The
// controller keeps its last state for inspection.
func (c *Controller) Stop() {
	if !c.started {
		return
	}
	for _, unsub := range c.unsubs {
		if unsub != nil {
			unsub()
		}
	}
	c.unsubs = nil

	if c.waitTimer != nil {
		c.waitTimer.Cancel()
		c.waitTimer = nil
	}
	for _, t := range c.pending {
		t.Cancel()
	}
	c.pending = nil
	c.queue = nil
	c.started = false
	c.log.Info("stopped", "phase", c.phase, "trial", c.trial)
}

// Select delivers a begin-select event.
func (c *Controller) Select(id ObjectID) { c.dispatch(EventSelect, id) }

// Release delivers an end-select event.
func (c *Controller) Release(id ObjectID) { c.dispatch(EventRelease, id) }

// EnterRoom delivers a room-entry event.
func (c *Controller) EnterRoom(room Room) {
	switch room {
	case RoomWaiting:
		c.dispatch(EventEnteredWaiting, 0)
	case RoomReveal:
		c.dispatch(EventEnteredReveal, 0)
	case RoomStart:
		c.dispatch(EventEnteredStart, 0)
	default:
		c.log.Warn("unknown room", "room", room)
	}
}

// dispatch runs the first matching transition row. Events raised while a
// transition is running are queued and handled after it in FIFO order.
func (c *Controller) dispatch(ev Event, obj ObjectID) bool {
	if !c.started {
		logging.Trace(c.log, "event before start ignored", "event", ev)
		return false
	}
	if c.dispatching {
		c.queue = append(c.queue, queuedEvent{ev: ev, obj: obj})
		return true
	}

	c.dispatching = true
	handled := c.step(ev, obj)
	for len(c.queue) > 0 && c.started {
		next := c.queue[0]
		c.queue = c.queue[1:]
		c.step(next.ev, next.obj)
	}
	c.dispatching = false
	return handled
}

func (c *Controller) step(ev Event, obj ObjectID) bool {
	for _, t := range c.table {
		if t.from != c.phase || t.on != ev {
			continue
		}
		if t.guard != nil && !t.guard(c, obj) {
			continue
		}
		from := c.phase
		next := t.run(c, obj)
		c.phase = next
		if from != next {
			c.log.Info("phase", "from", from, "to", next, "via", t.name, "trial", c.trial+1, "of", c.cfg.Trials)
			c.onPhase.Emit(next)
		}
		return true
	}
	logging.Trace(c.log, "event ignored", "event", ev, "phase", c.phase, "locked", c.locked)
	return false
}

func (c *Controller) startNewTrial() {
	c.spawns.RestoreAll()

	c.choice = NoChoice
	c.locked = false
	c.phase = PhaseStartSelect

	c.gate.SetEnabled(true)
	c.showOnly(PanelSelect)

	if c.cfg.Rooms {
		c.doors[DoorStartToWaiting].Close()
		c.doors[DoorWaitingToReveal].Close()
	}
	c.log.Info("trial started", "trial", c.trial+1, "of", c.cfg.Trials)
}

func (c *Controller) closeAllDoorsImmediate() {
	for _, role := range doorRoles {
		c.doors[role].SetImmediate(false)
	}
	c.log.Debug("all doors closed immediately")
}

func (c *Controller) showOnly(p Panel) {
	c.panel = p
	c.panels.ShowOnly(p)
}

func (c *Controller) setReward(on bool) {
	c.rewardOn = on
	c.reward.SetActive(on)
}

func (c *Controller) setCueVariant(playful bool) {
	c.playfulCue.SetActive(playful)
	c.boringCue.SetActive(!playful)
	c.log.Debug("cue variant", "playful", playful)
}

func (c *Controller) record(o Outcome) {
	c.outcomes = append(c.outcomes, o)
	c.onOutcome.Emit(o)
}

func (c *Controller) forgetPending(t Timer) {
	for i, p := range c.pending {
		if p == t {
			c.pending = append(c.pending[:i], c.pending[i+1:]...)
			return
		}
	}
}

// OnOutcome registers fn for every recorded outcome.
func (c *Controller) OnOutcome(fn func(Outcome)) (unsubscribe func()) {
	id := c.onOutcome.Subscribe(fn)
	return func() { c.onOutcome.Unsubscribe(id) }
}

// OnPhase registers fn for every phase change.
func (c *Controller) OnPhase(fn func(Phase)) (unsubscribe func()) {
	id := c.onPhase.Subscribe(fn)
	return func() { c.onPhase.Unsubscribe(id) }
}

func (c *Controller) Config() Config      { return c.cfg }
func (c *Controller) Phase() Phase        { return c.phase }
func (c *Controller) Trial() int          { return c.trial }
func (c *Controller) Grabs() int          { return c.grabs }
func (c *Controller) Choice() int         { return c.choice }
func (c *Controller) Locked() bool        { return c.locked }
func (c *Controller) Succeeded() bool     { return c.succeeded }
func (c *Controller) RewardVisible() bool { return c.rewardOn }
func (c *Controller) Panel() Panel        { return c.panel }
func (c *Controller) Started() bool       { return c.started }

// WaitPending reports whether the waiting-room timer is outstanding.
func (c *Controller) WaitPending() bool { return c.waitTimer != nil }

// Outcomes returns a copy of every recorded outcome in order.
func (c *Controller) Outcomes() []Outcome {
	return append([]Outcome(nil), c.outcomes...)
}
