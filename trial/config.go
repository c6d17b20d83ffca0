package trial

import "time"

// Config is fixed for the lifetime of a Controller.
type Config struct {
	// Trials is the trial count in the rooms variant and the grab threshold
	// in the grab-counter variant.
	Trials int
	// Rooms routes each trial through the waiting and reveal rooms. When
	// false, no doors, sensors or timers are used.
	Rooms bool

	WaitDuration    time.Duration
	ReturnDoorDelay time.Duration
	PlayfulCue      bool
}

func DefaultConfig() Config {
	return Config{
		Trials:          4,
		Rooms:           true,
		WaitDuration:    20 * time.Second,
		ReturnDoorDelay: 750 * time.Millisecond,
		PlayfulCue:      true,
	}
}

// GrabCounterConfig is the single-room variant: success on the fifth grab.
func GrabCounterConfig() Config {
	return Config{
		Trials:     5,
		Rooms:      false,
		PlayfulCue: true,
	}
}

func (c Config) normalized() Config {
	if c.Trials < 1 {
		c.Trials = 1
	}
	if c.WaitDuration < 0 {
		c.WaitDuration = 0
	}
	if c.ReturnDoorDelay < 0 {
		c.ReturnDoorDelay = 0
	}
	return c
}
