package event

import "testing"

type testEvent struct{ n int }

type otherEvent struct{}

func TestEventsDeliverNextSwap(t *testing.T) {
	b := NewBus()
	var got []int
	Subscribe(b, func(e testEvent) { got = append(got, e.n) })

	Emit(b, testEvent{n: 1})
	b.DispatchAll()
	if len(got) != 0 {
		t.Fatalf("delivered %v before swap", got)
	}

	b.SwapBuffers()
	b.DispatchAll()
	if len(got) != 1 || got[0] != 1 {
		t.Fatalf("got %v, want [1]", got)
	}

	// Same front buffer dispatched twice would double-deliver; the tick loop
	// swaps first, which clears it.
	b.SwapBuffers()
	b.DispatchAll()
	if len(got) != 1 {
		t.Fatalf("got %v after empty swap, want still [1]", got)
	}
}

func TestEmitDuringDispatchLandsNextTick(t *testing.T) {
	b := NewBus()
	var got []int
	Subscribe(b, func(e testEvent) {
		got = append(got, e.n)
		if e.n < 3 {
			Emit(b, testEvent{n: e.n + 1})
		}
	})

	Emit(b, testEvent{n: 1})
	for i := 0; i < 4; i++ {
		b.SwapBuffers()
		b.DispatchAll()
	}
	if len(got) != 3 || got[0] != 1 || got[2] != 3 {
		t.Fatalf("got %v, want [1 2 3] one per tick", got)
	}
}

func TestMultipleSubscribersAndTypes(t *testing.T) {
	b := NewBus()
	a, c, o := 0, 0, 0
	Subscribe(b, func(testEvent) { a++ })
	Subscribe(b, func(testEvent) { c++ })
	Subscribe(b, func(otherEvent) { o++ })

	Emit(b, testEvent{})
	Emit(b, otherEvent{})
	b.SwapBuffers()
	b.DispatchAll()

	if a != 1 || c != 1 || o != 1 {
		t.Fatalf("a=%d c=%d o=%d, want 1 1 1", a, c, o)
	}
}

func TestUnsubscribedTypeIsDropped(t *testing.T) {
	b := NewBus()
	Emit(b, testEvent{})
	b.SwapBuffers()
	b.DispatchAll() // no handler registered; must not panic
}
