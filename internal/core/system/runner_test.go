package system

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
)

type probe struct {
	phase Phase
	order *[]Phase
	ticks int
}

func (p *probe) Phase() Phase { return p.phase }

func (p *probe) Update(time.Duration) {
	p.ticks++
	if p.order != nil {
		*p.order = append(*p.order, p.phase)
	}
}

func TestRunnerTicksInPhaseOrder(t *testing.T) {
	var order []Phase
	r := NewRunner()
	// Registered deliberately out of order.
	r.Register(&probe{phase: PhaseCleanup, order: &order})
	r.Register(&probe{phase: PhaseSense, order: &order})
	r.Register(&probe{phase: PhaseAct, order: &order})
	r.Register(&probe{phase: PhaseDecide, order: &order})
	r.Register(&probe{phase: PhaseOutput, order: &order})

	r.Tick(100 * time.Millisecond)

	want := []Phase{PhaseSense, PhaseDecide, PhaseAct, PhaseOutput, PhaseCleanup}
	if len(order) != len(want) {
		t.Fatalf("ran %d systems, want %d", len(order), len(want))
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestRunnerSamePhaseKeepsRegistrationOrder(t *testing.T) {
	var order []Phase
	r := NewRunner()
	first := &probe{phase: PhaseDecide, order: &order}
	second := &probe{phase: PhaseDecide, order: &order}
	r.Register(first)
	r.Register(second)

	r.Tick(100 * time.Millisecond)
	r.Tick(100 * time.Millisecond)

	if first.ticks != 2 || second.ticks != 2 {
		t.Fatalf("ticks = %d/%d, want 2/2", first.ticks, second.ticks)
	}
}

func TestRegisterAfterTickResorts(t *testing.T) {
	var order []Phase
	r := NewRunner()
	r.Register(&probe{phase: PhaseAct, order: &order})
	r.Tick(100 * time.Millisecond)

	r.Register(&probe{phase: PhaseSense, order: &order})
	order = order[:0]
	r.Tick(100 * time.Millisecond)

	if len(order) != 2 || order[0] != PhaseSense || order[1] != PhaseAct {
		t.Fatalf("order = %v, want [sense act]", order)
	}
}

func TestSchedulerStopsOnCancel(t *testing.T) {
	r := NewRunner()
	p := &probe{phase: PhaseSense}
	r.Register(p)

	s := NewScheduler(r, time.Millisecond, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop after cancel")
	}

	if p.ticks == 0 {
		t.Fatal("scheduler never ticked")
	}
	if s.Ticks() != uint64(p.ticks) {
		t.Fatalf("scheduler ticks %d != system ticks %d", s.Ticks(), p.ticks)
	}
}

func TestSchedulerDefaultsInterval(t *testing.T) {
	s := NewScheduler(NewRunner(), 0, zap.NewNop())
	if s.interval != 100*time.Millisecond {
		t.Fatalf("interval = %v, want 100ms default", s.interval)
	}
}
