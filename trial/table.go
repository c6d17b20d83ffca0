package trial

// transition is one row of the dispatch table. The first row whose phase,
// event and guard match is run; run returns the next phase.
type transition struct {
	name  string
	from  Phase
	on    Event
	guard func(c *Controller, obj ObjectID) bool
	run   func(c *Controller, obj ObjectID) Phase
}

func buildTable(cfg Config) []transition {
	if cfg.Rooms {
		return roomsTable
	}
	return grabTable
}

var roomsTable = []transition{
	{name: "select", from: PhaseStartSelect, on: EventSelect, guard: notLocked, run: (*Controller).onSelect},
	{name: "enter_waiting", from: PhaseGoWaiting, on: EventEnteredWaiting, run: (*Controller).onEnteredWaiting},
	{name: "wait_elapsed", from: PhaseWaiting, on: EventWaitElapsed, run: (*Controller).onWaitElapsed},
	{name: "reveal_success", from: PhaseWaitingDone, on: EventEnteredReveal, guard: isLastTrial, run: (*Controller).onRevealSuccess},
	{name: "reveal_fail", from: PhaseWaitingDone, on: EventEnteredReveal, run: (*Controller).onRevealFail},
	{name: "return_to_start", from: PhaseReveal, on: EventEnteredStart, run: (*Controller).onReturnedToStart},
}

var grabTable = []transition{
	{name: "grab", from: PhaseStartSelect, on: EventSelect, run: (*Controller).onGrab},
	{name: "release", from: PhaseStartSelect, on: EventRelease, run: (*Controller).onRelease},
	{name: "grab_after_success", from: PhaseComplete, on: EventSelect, run: (*Controller).reassertSuccess},
	{name: "release_after_success", from: PhaseComplete, on: EventRelease, run: (*Controller).reassertSuccess},
}

func notLocked(c *Controller, _ ObjectID) bool  { return !c.locked }
func isLastTrial(c *Controller, _ ObjectID) bool { return c.trial >= c.cfg.Trials-1 }

func (c *Controller) onSelect(obj ObjectID) Phase {
	c.locked = true
	c.choice = c.gate.IndexOf(obj)
	c.gate.SetEnabled(false)

	c.doors[DoorRevealToStart].Close()
	c.doors[DoorStartToWaiting].Open()
	c.showOnly(PanelGoWait)
	c.log.Info("selection accepted", "object", obj, "choice", c.choice, "trial", c.trial+1)
	return PhaseGoWaiting
}

func (c *Controller) onEnteredWaiting(ObjectID) Phase {
	c.showOnly(PanelWaiting)
	if c.waitTimer != nil {
		c.waitTimer.Cancel()
	}
	c.waitTimer = c.clock.Schedule(c.cfg.WaitDuration, func() {
		c.waitTimer = nil
		c.dispatch(EventWaitElapsed, 0)
	})
	c.log.Debug("wait started", "duration", c.cfg.WaitDuration)
	return PhaseWaiting
}

func (c *Controller) onWaitElapsed(ObjectID) Phase {
	c.doors[DoorWaitingToReveal].Open()
	return PhaseWaitingDone
}

func (c *Controller) onRevealSuccess(ObjectID) Phase {
	c.showOnly(PanelSuccess)
	c.setReward(true)
	c.succeeded = true
	c.record(Outcome{Trial: c.trial, Choice: c.choice, Success: true})
	return PhaseComplete
}

func (c *Controller) onRevealFail(ObjectID) Phase {
	c.showOnly(PanelFail)
	c.doors[DoorRevealToStart].Open()
	c.record(Outcome{Trial: c.trial, Choice: c.choice})
	return PhaseReveal
}

func (c *Controller) onReturnedToStart(ObjectID) Phase {
	c.trial++
	if c.trial >= c.cfg.Trials {
		c.log.Warn("trial counter overran; forcing success", "trial", c.trial, "trials", c.cfg.Trials)
		c.trial = c.cfg.Trials - 1
		c.showOnly(PanelSuccess)
		c.setReward(true)
		c.succeeded = true
		c.record(Outcome{Trial: c.trial, Choice: c.choice, Success: true, Forced: true})
		return PhaseComplete
	}

	c.setReward(false)
	c.doors[DoorStartToWaiting].SetImmediate(false)
	c.doors[DoorWaitingToReveal].SetImmediate(false)

	var t Timer
	t = c.clock.Schedule(c.cfg.ReturnDoorDelay, func() {
		c.forgetPending(t)
		c.doors[DoorRevealToStart].Close()
	})
	c.pending = append(c.pending, t)

	c.startNewTrial()
	return PhaseStartSelect
}

func (c *Controller) onGrab(obj ObjectID) Phase {
	c.grabs++
	c.choice = c.gate.IndexOf(obj)
	if c.grabs < c.cfg.Trials {
		c.showOnly(PanelFail)
		c.record(Outcome{Trial: c.grabs - 1, Choice: c.choice})
		c.log.Info("grab", "count", c.grabs, "of", c.cfg.Trials)
		return PhaseStartSelect
	}
	c.succeeded = true
	c.setReward(true)
	c.showOnly(PanelSuccess)
	c.record(Outcome{Trial: c.grabs - 1, Choice: c.choice, Success: true})
	c.log.Info("grab threshold reached", "count", c.grabs)
	return PhaseComplete
}

func (c *Controller) onRelease(ObjectID) Phase {
	c.showOnly(PanelSelect)
	return PhaseStartSelect
}

func (c *Controller) reassertSuccess(ObjectID) Phase {
	c.showOnly(PanelSuccess)
	return PhaseComplete
}
