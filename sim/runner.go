// Implements RunProcess, the quantum-bounded execution of one process's
// opcode stream. This is where a READY process becomes RUNNING, consumes
// CPU/memory/I/O opcodes until it exhausts its quantum or reaches its
// A(end) opcode, at which point control returns to the scheduler loop.
// Dispatching an I/O opcode ends that opcode's turn but not the process's:
// the worker runs concurrently while RunProcess moves on to the process's
// remaining opcodes within the same quantum, matching the reference
// runProcess/run split where an I/O dispatch just jumps the cycle counter
// forward instead of suspending the caller.

package sim

import (
	"context"
	"fmt"

	"github.com/procsim/procsim/sim/device"
)

// RunOutcome tells the scheduler loop why RunProcess returned.
type RunOutcome int

const (
	OutcomePreempted RunOutcome = iota // quantum exhausted; process moved to READY
	OutcomeExited                      // A(end) consumed; process moved to EXIT
)

// Devices bundles the resources RunProcess needs to service opcodes,
// grouped so callers don't have to thread five parameters through every
// call. Cfg supplies each device/opcode family's msec-per-cycle
// coefficient.
type Devices struct {
	Clock     *Clock
	Log       *LogSink
	Allocator *Allocator
	Arbiter   *device.Arbiter
	Cfg       *Config
}

// RunProcess drives p forward until it is preempted or exits.
// quantum <= 0 means "run until exit" (SJF-N/SRTF-P/FCFS-N).
func RunProcess(ctx context.Context, p *Process, quantum int64, d *Devices) (RunOutcome, error) {
	p.Control.State = StateRunning
	var spent int64

	for {
		if p.NeedsDequeue() {
			if !p.Dequeue() {
				p.Control.State = StateExit
				return OutcomeExited, nil
			}
		}
		op := p.Current

		switch op.Code {
		case ClassSimulator:
			// S(start)/S(end): simulator lifecycle markers with no cycle
			// cost and no log line of their own; consume and continue.
			op.Cycles = 0
			continue

		case ClassApp:
			if op.Descriptor == "end" {
				p.Control.State = StateExit
				return OutcomeExited, nil
			}
			// A(start): a bookend with no cycle cost, consume and continue.
			op.Cycles = 0
			continue

		case ClassProcessor:
			outcome, ran := d.runCPUCycles(p, op, quantum, &spent, "processing action", d.Cfg.ProcessorCycleMsec)
			if outcome != -1 {
				return outcome, nil
			}
			_ = ran

		case ClassMemory:
			switch op.Descriptor {
			case "allocate":
				outcome, _ := d.runAllocate(p, op, quantum, &spent)
				if outcome != -1 {
					return outcome, nil
				}
			case "cache":
				outcome, _ := d.runCPUCycles(p, op, quantum, &spent, "memory caching", d.Cfg.MemoryCycleMsec)
				if op.Cycles <= 0 {
					p.CacheCount++
				}
				if outcome != -1 {
					return outcome, nil
				}
			default:
				return OutcomeExited, fmt.Errorf("runner: unknown memory descriptor %q", op.Descriptor)
			}

		case ClassInput, ClassOutput:
			// The opcode is logically complete the moment the worker has
			// begun: its cycles count against this quantum exactly as a
			// CPU opcode's would, but the actual device wait happens off
			// in the dispatched worker, not here.
			consumed := int64(op.Cycles)
			d.dispatchIO(ctx, p, op)
			p.TimeRemaining -= consumed
			spent += consumed
			if quantum > 0 && spent >= quantum {
				p.Control.State = StateReady
				return OutcomePreempted, nil
			}

		default:
			return OutcomeExited, fmt.Errorf("runner: unknown opcode class %q", op.Code)
		}
	}
}

// runCPUCycles executes op cycle-by-cycle (via a single proportional sleep
// per call, since the quantum check only needs to happen at opcode
// granularity for this simulator's coarse cycle counts), honoring the
// caller's quantum. Returns outcome != -1 if the caller should return that
// outcome immediately.
func (d *Devices) runCPUCycles(p *Process, op *Opcode, quantum int64, spent *int64, label string, cyclePerMsec float64) (RunOutcome, bool) {
	if !op.Started {
		op.Started = true
		d.Log.Logf("Process %d start %s", p.Control.ProcessNumber, label)
	}

	remainingBudget := op.Cycles
	if quantum > 0 {
		budget := quantum - *spent
		if budget <= 0 {
			d.Log.Logf("Process %d interrupt %s", p.Control.ProcessNumber, label)
			p.Control.State = StateReady
			return OutcomePreempted, false
		}
		if int64(remainingBudget) > budget {
			remainingBudget = int(budget)
		}
	}

	d.Clock.Wait(remainingBudget, cyclePerMsec)
	op.Cycles -= remainingBudget
	p.TimeRemaining -= int64(remainingBudget)
	*spent += int64(remainingBudget)

	if op.Cycles > 0 {
		d.Log.Logf("Process %d interrupt %s", p.Control.ProcessNumber, label)
		p.Control.State = StateReady
		return OutcomePreempted, true
	}

	d.Log.Logf("Process %d end %s", p.Control.ProcessNumber, label)
	if quantum > 0 && *spent >= quantum {
		p.Control.State = StateReady
		return OutcomePreempted, true
	}
	return -1, true
}

// runAllocate services an M(allocate) opcode. Unlike P(run) and M(cache), it
// has no symmetric start/end phrasing: the first touch emits "allocating
// memory", a quantum interruption mid-wait emits "interrupt memory
// allocation", and completion calls the external allocator and emits
// "memory allocated at <addr>" instead of a generic "end" line. The cycle
// and quantum bookkeeping otherwise mirrors runCPUCycles exactly, so a
// multi-cycle allocation is preemptible and debits p.TimeRemaining like any
// other opcode. Returns outcome != -1 if the caller should return that
// outcome immediately.
func (d *Devices) runAllocate(p *Process, op *Opcode, quantum int64, spent *int64) (RunOutcome, bool) {
	if !op.Started {
		op.Started = true
		d.Log.Logf("Process %d allocating memory", p.Control.ProcessNumber)
	}

	remainingBudget := op.Cycles
	if quantum > 0 {
		budget := quantum - *spent
		if budget <= 0 {
			d.Log.Logf("Process %d interrupt memory allocation", p.Control.ProcessNumber)
			p.Control.State = StateReady
			return OutcomePreempted, false
		}
		if int64(remainingBudget) > budget {
			remainingBudget = int(budget)
		}
	}

	d.Clock.Wait(remainingBudget, d.Cfg.MemoryCycleMsec)
	op.Cycles -= remainingBudget
	p.TimeRemaining -= int64(remainingBudget)
	*spent += int64(remainingBudget)

	if op.Cycles > 0 {
		d.Log.Logf("Process %d interrupt memory allocation", p.Control.ProcessNumber)
		p.Control.State = StateReady
		return OutcomePreempted, true
	}

	addr, _ := d.Allocator.Allocate()
	d.Log.Logf("Process %d memory allocated at %s", p.Control.ProcessNumber, FormatAddr(addr))

	if quantum > 0 && *spent >= quantum {
		p.Control.State = StateReady
		return OutcomePreempted, true
	}
	return -1, true
}

// dispatchIO increments the process's in-flight worker count and hands the
// opcode to the device arbiter, then blocks until the worker has actually
// acquired its slot and logged its own start line — otherwise the scheduler
// loop could move on to the next process's "OS: starting" line before this
// dispatch's worker line, even though the dispatch happened first.
func (d *Devices) dispatchIO(ctx context.Context, p *Process, op *Opcode) {
	p.RunningThreadCount.Add(1)
	done := func() { p.RunningThreadCount.Add(-1) }
	n := p.Control.ProcessNumber

	var started <-chan struct{}
	switch {
	case op.Code == ClassInput && op.Descriptor == "hard drive":
		started = d.Arbiter.Dispatch(ctx, device.ClassHardDrive, n, "input", op.Cycles, d.Cfg.HardDriveCycleMsec, done)
	case op.Code == ClassOutput && op.Descriptor == "hard drive":
		started = d.Arbiter.Dispatch(ctx, device.ClassHardDrive, n, "output", op.Cycles, d.Cfg.HardDriveCycleMsec, done)
	case op.Code == ClassOutput && op.Descriptor == "printer":
		started = d.Arbiter.Dispatch(ctx, device.ClassPrinter, n, "output", op.Cycles, d.Cfg.PrinterCycleMsec, done)
	case op.Code == ClassInput && op.Descriptor == "keyboard":
		started = d.Arbiter.DispatchSimple(ctx, device.ClassKeyboard, n, "keyboard input", op.Cycles, d.Cfg.KeyboardCycleMsec, done)
	case op.Code == ClassOutput && op.Descriptor == "monitor":
		started = d.Arbiter.DispatchSimple(ctx, device.ClassMonitor, n, "monitor output", op.Cycles, d.Cfg.MonitorCycleMsec, done)
	default:
		done()
		d.Log.Logf("Process %d unrecognized device descriptor %q", n, op.Descriptor)
		op.Cycles = 0
		return
	}
	<-started
	op.Cycles = 0
}
