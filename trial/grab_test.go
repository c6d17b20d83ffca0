package trial

import "testing"

func TestGrabCounterVariant(t *testing.T) {
	r := newRig(GrabCounterConfig(), 2)
	r.ctrl.Start()

	for i := 1; i <= 4; i++ {
		r.boxes[0].grab()
		if r.panels.current() != PanelFail {
			t.Fatalf("grab %d: expected fail panel, got %q", i, r.panels.current())
		}
		if r.ctrl.Grabs() != i || r.ctrl.Succeeded() {
			t.Fatalf("grab %d: count=%d succeeded=%v", i, r.ctrl.Grabs(), r.ctrl.Succeeded())
		}
		r.boxes[0].release()
		if r.panels.current() != PanelSelect {
			t.Fatalf("release %d: expected select panel, got %q", i, r.panels.current())
		}
	}

	r.boxes[0].grab()
	if r.panels.current() != PanelSuccess || !r.ctrl.Succeeded() || r.ctrl.Phase() != PhaseComplete {
		t.Fatalf("grab 5: expected success, got %q/%v", r.panels.current(), r.ctrl.Phase())
	}

	steps := []struct {
		name string
		do   func()
	}{
		{"release_same", r.boxes[0].release},
		{"grab_other", r.boxes[1].grab},
		{"release_other", r.boxes[1].release},
		{"grab_same", r.boxes[0].grab},
	}
	for _, s := range steps {
		t.Run(s.name, func(t *testing.T) {
			s.do()
			if r.panels.current() != PanelSuccess {
				t.Fatalf("success panel should persist, got %q", r.panels.current())
			}
			if r.ctrl.Grabs() != 5 {
				t.Fatalf("counter should stop at 5, got %d", r.ctrl.Grabs())
			}
		})
	}

	outcomes := r.ctrl.Outcomes()
	if len(outcomes) != 5 {
		t.Fatalf("expected 5 outcomes, got %d", len(outcomes))
	}
	for i, o := range outcomes {
		if o.Success != (i == 4) {
			t.Fatalf("outcome %d = %+v", i, o)
		}
	}
}

func TestGrabCounterUsesNoRooms(t *testing.T) {
	r := newRig(GrabCounterConfig(), 1)
	r.ctrl.Start()

	for role, d := range r.doors {
		if d.opens != 0 || d.closes != 0 || d.immediate != 0 {
			t.Fatalf("door %s touched in grab variant", role)
		}
	}
	for room, s := range r.sensors {
		if len(s.subs) != 0 {
			t.Fatalf("sensor %s subscribed in grab variant", room)
		}
	}

	r.boxes[0].grab()
	r.sensors[RoomWaiting].fire()
	if len(r.clock.timers) != 0 {
		t.Fatalf("grab variant scheduled a timer")
	}
	if !r.gate.enabled {
		t.Fatalf("grab variant should leave the gate enabled")
	}
}

func TestGrabCounterThresholdFromConfig(t *testing.T) {
	cfg := GrabCounterConfig()
	cfg.Trials = 2
	r := newRig(cfg, 1)
	r.ctrl.Start()

	r.boxes[0].grab()
	r.boxes[0].release()
	r.boxes[0].grab()
	if !r.ctrl.Succeeded() || !r.reward.on {
		t.Fatalf("expected success on grab 2")
	}
}
