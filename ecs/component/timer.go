package component

// Timer is a pending delayed callback. Due is an absolute tick on the
// TimerSystem clock; Seq orders timers due on the same tick.
type Timer struct {
	Due   uint64
	Seq   uint64
	Label string
	Fire  func()
}

var TimerComponent = NewComponent[Timer]()
