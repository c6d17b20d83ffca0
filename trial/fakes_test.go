package trial

import (
	"sort"
	"time"
)

type fakeDoor struct {
	open      bool
	opens     int
	closes    int
	immediate int
}

func (d *fakeDoor) Open()  { d.open = true; d.opens++ }
func (d *fakeDoor) Close() { d.open = false; d.closes++ }
func (d *fakeDoor) SetImmediate(open bool) {
	d.open = open
	d.immediate++
}

type fakeGate struct {
	ids     []ObjectID
	enabled bool
	toggles int
}

func (g *fakeGate) SetEnabled(on bool) { g.enabled = on; g.toggles++ }
func (g *fakeGate) IndexOf(id ObjectID) int {
	for i, o := range g.ids {
		if o == id {
			return i
		}
	}
	return 0
}

type fakePanels struct {
	shown []Panel
}

func (p *fakePanels) ShowOnly(panel Panel) { p.shown = append(p.shown, panel) }

func (p *fakePanels) current() Panel {
	if len(p.shown) == 0 {
		return ""
	}
	return p.shown[len(p.shown)-1]
}

type fakeSpawns struct {
	captured []ObjectID
	captures int
	restores int
}

func (s *fakeSpawns) CaptureAll(ids []ObjectID) {
	s.captured = append([]ObjectID(nil), ids...)
	s.captures++
}
func (s *fakeSpawns) RestoreAll() { s.restores++ }

type fakeToggle struct{ on bool }

func (t *fakeToggle) SetActive(on bool) { t.on = on }

type fakeSelectable struct {
	id    ObjectID
	begin map[int]func(ObjectID)
	end   map[int]func(ObjectID)
	next  int
}

func newFakeSelectable(id ObjectID) *fakeSelectable {
	return &fakeSelectable{id: id, begin: map[int]func(ObjectID){}, end: map[int]func(ObjectID){}}
}

func (s *fakeSelectable) ID() ObjectID { return s.id }

func (s *fakeSelectable) OnBeginSelect(fn func(ObjectID)) func() {
	s.next++
	k := s.next
	s.begin[k] = fn
	return func() { delete(s.begin, k) }
}

func (s *fakeSelectable) OnEndSelect(fn func(ObjectID)) func() {
	s.next++
	k := s.next
	s.end[k] = fn
	return func() { delete(s.end, k) }
}

func (s *fakeSelectable) grab() {
	for _, fn := range s.begin {
		fn(s.id)
	}
}

func (s *fakeSelectable) release() {
	for _, fn := range s.end {
		fn(s.id)
	}
}

type fakeSensor struct {
	subs map[int]func()
	next int
}

func newFakeSensor() *fakeSensor { return &fakeSensor{subs: map[int]func(){}} }

func (s *fakeSensor) OnEnter(fn func()) func() {
	s.next++
	k := s.next
	s.subs[k] = fn
	return func() { delete(s.subs, k) }
}

func (s *fakeSensor) fire() {
	for _, fn := range s.subs {
		fn()
	}
}

type fakeTimer struct {
	due       time.Duration
	seq       int
	fn        func()
	cancelled bool
	fired     bool
}

func (t *fakeTimer) Cancel() bool {
	if t.cancelled || t.fired {
		return false
	}
	t.cancelled = true
	return true
}

// fakeClock is a manual scheduler. Advance fires due callbacks in due order.
type fakeClock struct {
	now    time.Duration
	seq    int
	timers []*fakeTimer
}

func (c *fakeClock) Schedule(d time.Duration, fn func()) Timer {
	c.seq++
	t := &fakeTimer{due: c.now + d, seq: c.seq, fn: fn}
	c.timers = append(c.timers, t)
	return t
}

func (c *fakeClock) Advance(d time.Duration) {
	target := c.now + d
	for {
		var due []*fakeTimer
		for _, t := range c.timers {
			if !t.cancelled && !t.fired && t.due <= target {
				due = append(due, t)
			}
		}
		if len(due) == 0 {
			break
		}
		sort.Slice(due, func(i, j int) bool {
			if due[i].due != due[j].due {
				return due[i].due < due[j].due
			}
			return due[i].seq < due[j].seq
		})
		t := due[0]
		c.now = t.due
		t.fired = true
		t.fn()
	}
	c.now = target
}

func (c *fakeClock) outstanding() int {
	n := 0
	for _, t := range c.timers {
		if !t.cancelled && !t.fired {
			n++
		}
	}
	return n
}

type rig struct {
	ctrl    *Controller
	doors   map[DoorRole]*fakeDoor
	gate    *fakeGate
	panels  *fakePanels
	spawns  *fakeSpawns
	reward  *fakeToggle
	playful *fakeToggle
	boring  *fakeToggle
	boxes   []*fakeSelectable
	sensors map[Room]*fakeSensor
	clock   *fakeClock
}

func newRig(cfg Config, boxes int) *rig {
	r := &rig{
		doors:   map[DoorRole]*fakeDoor{},
		gate:    &fakeGate{},
		panels:  &fakePanels{},
		spawns:  &fakeSpawns{},
		reward:  &fakeToggle{on: true},
		playful: &fakeToggle{},
		boring:  &fakeToggle{},
		sensors: map[Room]*fakeSensor{},
		clock:   &fakeClock{},
	}
	deps := Deps{
		Doors:      map[DoorRole]Door{},
		Gate:       r.gate,
		Sensors:    map[Room]Sensor{},
		Panels:     r.panels,
		Spawns:     r.spawns,
		Reward:     r.reward,
		PlayfulCue: r.playful,
		BoringCue:  r.boring,
		Clock:      r.clock,
	}
	for _, role := range doorRoles {
		d := &fakeDoor{open: true}
		r.doors[role] = d
		deps.Doors[role] = d
	}
	for _, room := range rooms {
		s := newFakeSensor()
		r.sensors[room] = s
		deps.Sensors[room] = s
	}
	for i := 0; i < boxes; i++ {
		b := newFakeSelectable(ObjectID(100 + i))
		r.boxes = append(r.boxes, b)
		r.gate.ids = append(r.gate.ids, b.id)
		deps.Selectables = append(deps.Selectables, b)
	}
	r.ctrl = NewController(cfg, deps, nil)
	return r
}

// runTrial drives one full select, wait, reveal cycle with box i.
func (r *rig) runTrial(i int) {
	r.boxes[i].grab()
	r.sensors[RoomWaiting].fire()
	r.clock.Advance(r.ctrl.Config().WaitDuration)
	r.sensors[RoomReveal].fire()
}
