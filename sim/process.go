// Defines the Process struct that models a single simulated program's
// lifecycle: NEW -> READY -> RUNNING -> EXIT. WAITING is part of the PCB
// state enum but, as in the reference program, no operation ever assigns
// it: dispatching I/O keeps a process RUNNING while its worker executes
// concurrently (see RunProcess). Tracks the opcode queue, remaining work,
// and the count of in-flight I/O workers the process has dispatched but
// which have not yet reported completion.

package sim

import (
	"fmt"
	"sync/atomic"
)

// ProcessState is one of the five PCB lifecycle states.
type ProcessState string

const (
	StateNew     ProcessState = "NEW"
	StateReady   ProcessState = "READY"
	StateRunning ProcessState = "RUNNING"
	StateWaiting ProcessState = "WAITING"
	StateExit    ProcessState = "EXIT"
)

// ControlBlock is the PCB proper: state plus the 1-based process number
// assigned in metadata-file order.
type ControlBlock struct {
	State         ProcessState
	ProcessNumber int
}

// Process models one simulated program's lifecycle in the simulator.
// A process reaches StateExit iff an A(end) opcode has been consumed for it;
// it may still hold outstanding I/O workers at that point (RunningThreadCount > 0),
// in which case "OS: process N completed" must not yet be emitted.
type Process struct {
	Control    ControlBlock
	CacheCount int // completed M(cache) operations; biases subsequent P(run) durations

	Queue   []*Opcode // opcodes not yet dequeued, consumed head-first
	Current *Opcode   // the opcode presently (partially) executing

	TimeRemaining int64 // summed remaining cycles across queued + current opcodes
	Completed     bool  // "OS: process N completed" has been emitted
	Prepared      bool  // "OS: preparing process N" has been emitted

	// RunningThreadCount counts I/O workers dispatched but not yet reported
	// done. Incremented by the runner before spawn, decremented by the
	// worker on exit; must be atomic since spawn and worker-exit race.
	RunningThreadCount atomic.Int32
}

func newProcess(number int) *Process {
	return &Process{
		Control: ControlBlock{State: StateNew, ProcessNumber: number},
	}
}

// Dequeue pops the next opcode off Queue into Current, applying the cache
// discount to P(run) opcodes. Returns false if the queue is
// empty (the reference treats this as "nothing left to run").
func (p *Process) Dequeue() bool {
	if len(p.Queue) == 0 {
		return false
	}
	op := p.Queue[0]
	p.Queue = p.Queue[1:]
	p.Current = op

	if op.Code == ClassProcessor && op.Descriptor == "run" {
		discounted := op.Cycles - 2*p.CacheCount
		if discounted < 1 {
			discounted = 1
		}
		p.TimeRemaining -= int64(op.Cycles - discounted)
		op.Cycles = discounted
	}
	return true
}

// NeedsDequeue reports whether the runner must fetch a new Current opcode:
// the current one is exhausted, or it belongs to the I/O class (I/O opcodes
// are always logically complete from the runner's point of view once
// dispatched).
func (p *Process) NeedsDequeue() bool {
	return p.Current == nil || p.Current.Cycles <= 0 || p.Current.Code.IsIO()
}

// String renders a short debugging summary.
func (p *Process) String() string {
	return fmt.Sprintf("Process(N=%d, state=%s, remaining=%d, cache=%d)",
		p.Control.ProcessNumber, p.Control.State, p.TimeRemaining, p.CacheCount)
}
