package trial

import "time"

// ObjectID identifies a selectable object. Hosts use their entity id.
type ObjectID uint64

type DoorRole string

const (
	DoorStartToWaiting  DoorRole = "start_to_waiting"
	DoorWaitingToReveal DoorRole = "waiting_to_reveal"
	DoorRevealToStart   DoorRole = "reveal_to_start"
)

var doorRoles = []DoorRole{DoorStartToWaiting, DoorWaitingToReveal, DoorRevealToStart}

type Room string

const (
	RoomStart   Room = "start"
	RoomWaiting Room = "waiting"
	RoomReveal  Room = "reveal"
)

var rooms = []Room{RoomWaiting, RoomReveal, RoomStart}

type Panel string

const (
	PanelSelect  Panel = "select"
	PanelGoWait  Panel = "go_wait"
	PanelWaiting Panel = "waiting"
	PanelFail    Panel = "fail"
	PanelSuccess Panel = "success"
)

// Door is one animated hinge.
type Door interface {
	Open()
	Close()
	SetImmediate(open bool)
}

// Gate enables or disables every selectable as a unit.
type Gate interface {
	SetEnabled(enabled bool)
	IndexOf(id ObjectID) int
}

// Selectable fires begin/end select events. The returned func unsubscribes.
type Selectable interface {
	ID() ObjectID
	OnBeginSelect(fn func(ObjectID)) (unsubscribe func())
	OnEndSelect(fn func(ObjectID)) (unsubscribe func())
}

// Sensor fires once per qualifying entry into a room.
type Sensor interface {
	OnEnter(fn func()) (unsubscribe func())
}

// Panels shows exactly one panel at a time.
type Panels interface {
	ShowOnly(p Panel)
}

type SpawnRegistry interface {
	CaptureAll(ids []ObjectID)
	RestoreAll()
}

// Toggle switches a scene object on or off.
type Toggle interface {
	SetActive(on bool)
}

// Timer is a pending scheduled callback.
type Timer interface {
	Cancel() bool
}

// Scheduler runs fn once after d on the host's tick clock, never inside the
// call to Schedule.
type Scheduler interface {
	Schedule(d time.Duration, fn func()) Timer
}

// Deps are the collaborators a Controller drives. None are owned by the
// controller; any may be nil, which leaves that feature inert.
type Deps struct {
	Doors       map[DoorRole]Door
	Gate        Gate
	Selectables []Selectable
	Sensors     map[Room]Sensor
	Panels      Panels
	Spawns      SpawnRegistry
	Reward      Toggle
	PlayfulCue  Toggle
	BoringCue   Toggle
	Clock       Scheduler
}

type nopDoor struct{}

func (nopDoor) Open()             {}
func (nopDoor) Close()            {}
func (nopDoor) SetImmediate(bool) {}

type nopGate struct{}

func (nopGate) SetEnabled(bool)      {}
func (nopGate) IndexOf(ObjectID) int { return 0 }

type nopPanels struct{}

func (nopPanels) ShowOnly(Panel) {}

type nopSpawns struct{}

func (nopSpawns) CaptureAll([]ObjectID) {}
func (nopSpawns) RestoreAll()           {}

type nopToggle struct{}

func (nopToggle) SetActive(bool) {}

type nopTimer struct{}

func (nopTimer) Cancel() bool { return false }

type nopScheduler struct{}

func (nopScheduler) Schedule(time.Duration, func()) Timer { return nopTimer{} }
