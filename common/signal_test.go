package common

import "testing"

func TestSignalSubscribeEmitUnsubscribe(t *testing.T) {
	var sig Signal[int]
	var got []int

	a := sig.Subscribe(func(v int) { got = append(got, v) })
	sig.Subscribe(func(v int) { got = append(got, v*10) })

	sig.Emit(1)
	if len(got) != 2 || got[0] != 1 || got[1] != 10 {
		t.Fatalf("expected [1 10], got %v", got)
	}

	if !sig.Unsubscribe(a) {
		t.Fatalf("unsubscribe should report true for a live id")
	}
	if sig.Unsubscribe(a) {
		t.Fatalf("second unsubscribe should report false")
	}

	got = nil
	sig.Emit(2)
	if len(got) != 1 || got[0] != 20 {
		t.Fatalf("expected [20], got %v", got)
	}
}

func TestSignalUnsubscribeDuringEmit(t *testing.T) {
	var sig Signal[string]
	calls := 0
	var second SubscriptionID

	sig.Subscribe(func(string) {
		calls++
		sig.Unsubscribe(second)
	})
	second = sig.Subscribe(func(string) { calls += 100 })

	sig.Emit("x")
	if calls != 1 {
		t.Fatalf("handler removed mid-emit should not run, calls=%d", calls)
	}
	if sig.Len() != 1 {
		t.Fatalf("expected 1 subscription, got %d", sig.Len())
	}
}

func TestNilSignal(t *testing.T) {
	var sig *Signal[int]
	if sig.Subscribe(func(int) {}) != 0 {
		t.Fatalf("nil signal should not register")
	}
	sig.Emit(1)
}
