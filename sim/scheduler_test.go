package sim

import "testing"

func TestRoundRobin_SelectsHeadOfReadyQueue(t *testing.T) {
	rr := NewRoundRobin(50)
	ready := []*Process{newProcess(1), newProcess(2)}
	if idx := rr.Select(ready); idx != 0 {
		t.Errorf("Select() = %d, want 0", idx)
	}
}

func TestRoundRobin_EmptyReady_ReturnsMinusOne(t *testing.T) {
	rr := NewRoundRobin(50)
	if idx := rr.Select(nil); idx != -1 {
		t.Errorf("Select(nil) = %d, want -1", idx)
	}
}

func TestRoundRobin_RotatesAcrossCallsAndWraps(t *testing.T) {
	rr := NewRoundRobin(50)
	ready := []*Process{newProcess(1), newProcess(2), newProcess(3)}

	want := []int{0, 1, 2, 0, 1}
	for i, w := range want {
		if idx := rr.Select(ready); idx != w {
			t.Errorf("call %d: Select() = %d, want %d", i, idx, w)
		}
	}
}

func TestRoundRobin_RotationIsIndependentOfShortestRemaining(t *testing.T) {
	// A RoundRobin instance's rotation state must not leak into a
	// ShortestRemaining selection over the same ready set: SJF/SRTF ties
	// always break by the lowest ProcessNumber, regardless of dispatch
	// history recorded by some other policy.
	rr := NewRoundRobin(50)
	ready := []*Process{newProcess(1), newProcess(2)}
	rr.Select(ready) // advances rr.last to 1; must not affect srtf below

	p1 := newProcess(1)
	p1.TimeRemaining = 10
	p2 := newProcess(2)
	p2.TimeRemaining = 10
	srtf := NewShortestRemaining()
	if idx := srtf.Select([]*Process{p1, p2}); idx != 0 {
		t.Errorf("Select() = %d, want 0 (tie broken by lowest ProcessNumber)", idx)
	}
}

func TestShortestRemaining_SelectsSmallestTimeRemaining(t *testing.T) {
	p1 := newProcess(1)
	p1.TimeRemaining = 30
	p2 := newProcess(2)
	p2.TimeRemaining = 10
	p3 := newProcess(3)
	p3.TimeRemaining = 20

	srtf := NewShortestRemaining()
	idx := srtf.Select([]*Process{p1, p2, p3})
	if idx != 1 {
		t.Errorf("Select() = %d, want 1 (process with TimeRemaining=10)", idx)
	}
}

func TestShortestRemaining_QuantumIsZero(t *testing.T) {
	srtf := NewShortestRemaining()
	if srtf.Quantum() != 0 {
		t.Errorf("Quantum() = %d, want 0 (never force-preempts)", srtf.Quantum())
	}
}

func TestNewSchedulingPolicy_SJFAndSRTFCollapseToSameType(t *testing.T) {
	sjf := NewSchedulingPolicy(SchedSJF, 0)
	srtf := NewSchedulingPolicy(SchedSRTFP, 0)
	if _, ok := sjf.(*ShortestRemaining); !ok {
		t.Errorf("SchedSJF: got %T, want *ShortestRemaining", sjf)
	}
	if _, ok := srtf.(*ShortestRemaining); !ok {
		t.Errorf("SchedSRTFP: got %T, want *ShortestRemaining", srtf)
	}
}

func TestNewSchedulingPolicy_RR_CarriesQuantum(t *testing.T) {
	p := NewSchedulingPolicy(SchedRR, 75)
	if p.Quantum() != 75 {
		t.Errorf("Quantum() = %d, want 75", p.Quantum())
	}
}

func TestNewSchedulingPolicy_UnknownCode_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for unknown scheduling code")
		}
	}()
	NewSchedulingPolicy(SchedulingCode("bogus"), 0)
}
