// Defines SchedulingPolicy, the pluggable process-selection strategy the
// scheduler loop (simulator.go) consults every cycle, and its two
// implementations. SJF-N and SRTF-P share one implementation: with no
// new-arrival admission delay in this simulator,
// "shortest job first" and "shortest remaining time first, preemptive"
// select the same process every cycle, so ShortestRemaining serves both
// SchedSJF and SchedSRTFP config codes.

package sim

import "fmt"

// SchedulingPolicy picks the next process to run from the set of READY
// processes. Implementations do not reorder the input slice; Select's
// return value is an index into it as given.
type SchedulingPolicy interface {
	// Select returns the chosen process's index into ready, or -1 if ready
	// is empty.
	Select(ready []*Process) int
	// Quantum is the cycle budget before forced preemption, or 0 for
	// run-to-completion policies.
	Quantum() int64
	String() string
}

// RoundRobin selects the ready process whose ProcessNumber comes right after
// the last one it dispatched, wrapping back to the lowest ProcessNumber once
// it runs off the end, and preempts after Quantum cycles. ready is assumed
// sorted ascending by ProcessNumber (readyProcesses scans the table in that
// order), so a single forward scan finds the successor.
type RoundRobin struct {
	quantum int64
	last    int // ProcessNumber most recently dispatched, 0 before the first pick
}

func NewRoundRobin(quantum int64) *RoundRobin {
	return &RoundRobin{quantum: quantum}
}

func (rr *RoundRobin) Select(ready []*Process) int {
	if len(ready) == 0 {
		return -1
	}
	idx := 0
	for i, p := range ready {
		if p.Control.ProcessNumber > rr.last {
			idx = i
			break
		}
	}
	rr.last = ready[idx].Control.ProcessNumber
	return idx
}

func (rr *RoundRobin) Quantum() int64 { return rr.quantum }
func (rr *RoundRobin) String() string { return fmt.Sprintf("RR(q=%d)", rr.quantum) }

// ShortestRemaining always selects the READY process with the least
// TimeRemaining, ties broken by process number (lowest first, matching
// the reference's stable scan order). It never preempts on a quantum
// (Quantum() == 0); a running process holds the CPU until it exits (an I/O
// dispatch does not end its turn), which for a single-core, non-arriving
// workload produces identical schedules for SJF-N and SRTF-P alike.
type ShortestRemaining struct{}

func NewShortestRemaining() *ShortestRemaining { return &ShortestRemaining{} }

func (s *ShortestRemaining) Select(ready []*Process) int {
	if len(ready) == 0 {
		return -1
	}
	best := 0
	for i := 1; i < len(ready); i++ {
		if ready[i].TimeRemaining < ready[best].TimeRemaining {
			best = i
		}
	}
	return best
}

func (s *ShortestRemaining) Quantum() int64 { return 0 }
func (s *ShortestRemaining) String() string { return "SRTF" }

// NewSchedulingPolicy builds a SchedulingPolicy from the config file's
// scheduling code. Panics on an unrecognized code; no fallback policy is
// substituted.
func NewSchedulingPolicy(code SchedulingCode, quantum int64) SchedulingPolicy {
	switch code {
	case SchedFCFS:
		return NewRoundRobin(0)
	case SchedRR:
		return NewRoundRobin(quantum)
	case SchedSJF, SchedSRTFP:
		return NewShortestRemaining()
	default:
		panic(fmt.Sprintf("unknown scheduling code %q", code))
	}
}
