// Implements Simulator, the scheduler loop that drives every process in a
// ProcessTable to completion using a SchedulingPolicy. This replaces the
// reference program's single-threaded checkCompleted/getSchedule loop with
// the same decision structure, but backed by real goroutines for device I/O.

package sim

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/procsim/procsim/sim/device"
)

// ProgressReporter is notified as processes complete, so a CLI can drive a
// progress bar without the simulator importing any terminal library itself.
type ProgressReporter interface {
	Add(n int)
	Finish()
}

type noopProgress struct{}

func (noopProgress) Add(int) {}
func (noopProgress) Finish() {}

// Simulator owns one run's process table, scheduling policy, device
// arbiter, and log sink.
type Simulator struct {
	Table    *ProcessTable
	Policy   SchedulingPolicy
	Cfg      *Config
	Clock    *Clock
	Log      *LogSink
	Progress ProgressReporter

	devices *Devices
	group   *errgroup.Group
	ctx     context.Context
}

// NewSimulator wires a ProcessTable, a Config, and a SchedulingPolicy into a
// runnable Simulator, constructing the memory allocator and device arbiter
// from the config's device counts and cycle coefficients.
func NewSimulator(ctx context.Context, table *ProcessTable, cfg *Config, policy SchedulingPolicy, progress ProgressReporter) *Simulator {
	if progress == nil {
		progress = noopProgress{}
	}
	clock := NewClock()
	log := NewLogSink(clock)
	alloc := NewAllocator(cfg.MemoryBytes, cfg.MemoryBlockBytes)

	group, gctx := errgroup.WithContext(ctx)
	arb := device.NewArbiter(log, clock, group, map[device.Class]int{
		device.ClassHardDrive: cfg.HardDriveCount,
		device.ClassPrinter:   cfg.PrinterCount,
		device.ClassKeyboard:  1,
		device.ClassMonitor:   1,
	})

	return &Simulator{
		Table:    table,
		Policy:   policy,
		Cfg:      cfg,
		Clock:    clock,
		Log:      log,
		Progress: progress,
		devices: &Devices{
			Clock:     clock,
			Log:       log,
			Allocator: alloc,
			Arbiter:   arb,
			Cfg:       cfg,
		},
		group: group,
		ctx:   gctx,
	}
}

// RunID exposes the log sink's run identifier for CLI summaries.
func (s *Simulator) RunID() uuid.UUID { return s.Log.RunID() }

// Run drives the process table to completion: repeatedly select a READY
// process by policy, execute it until it is preempted or exits, emit
// completion lines for processes whose I/O workers have all drained, and
// finish once every process has reached EXIT and no worker is outstanding.
func (s *Simulator) Run() error {
	s.Log.Logf("Simulator program starting")

	for {
		s.emitCompletions()

		if s.Table.AllExited() && !s.hasOutstandingWork() {
			break
		}

		ready := s.readyProcesses()
		idx := s.Policy.Select(ready)
		if idx < 0 {
			if s.hasOutstandingWork() {
				// Nothing runnable right now, but I/O is still in flight;
				// yield until a worker's completion unblocks a process.
				if err := s.drainOne(); err != nil {
					return err
				}
				continue
			}
			break
		}

		proc := ready[idx]
		if !proc.Prepared {
			proc.Prepared = true
			s.Log.Logf("OS: preparing process %d", proc.Control.ProcessNumber)
		}
		s.Log.Logf("OS: starting process %d", proc.Control.ProcessNumber)
		outcome, err := RunProcess(s.ctx, proc, s.Policy.Quantum(), s.devices)
		if err != nil {
			return fmt.Errorf("simulator: process %d: %w", proc.Control.ProcessNumber, err)
		}
		switch outcome {
		case OutcomePreempted:
			// already set to StateReady by the runner
		case OutcomeExited:
			// already set to StateExit by the runner
		}
	}

	if err := s.group.Wait(); err != nil {
		return fmt.Errorf("simulator: device worker: %w", err)
	}
	s.emitCompletions()

	s.Log.Logf("Simulator program ending")
	s.Progress.Finish()
	return nil
}

// readyProcesses returns the subset of the table currently in StateReady or
// StateNew (a NEW process becomes eligible immediately; this simulator has
// no admission delay), in table order, i.e. ascending by ProcessNumber.
// Policies that care about dispatch history (RoundRobin) track their own
// rotation state instead of relying on this ordering to encode it, so a
// history-independent policy like ShortestRemaining always tie-breaks by
// the same fixed process-number order regardless of what ran last.
func (s *Simulator) readyProcesses() []*Process {
	var ready []*Process
	for _, p := range s.Table.Items() {
		if p.Control.State == StateReady || p.Control.State == StateNew {
			ready = append(ready, p)
		}
	}
	return ready
}

// hasOutstandingWork reports whether any process still has an I/O worker
// in flight. A dispatched worker outlives the RunProcess call that spawned
// it, so this is tracked via RunningThreadCount rather than process state:
// dispatching I/O no longer parks the process in StateWaiting (see
// RunProcess), so that state is never actually entered, matching the
// reference program's own PCB enum, which defines WAITING but never
// assigns it either.
func (s *Simulator) hasOutstandingWork() bool {
	for _, p := range s.Table.Items() {
		if p.RunningThreadCount.Load() > 0 {
			return true
		}
	}
	return false
}

// emitCompletions logs "OS: process N completed" for every EXIT process
// whose I/O workers have all drained and which hasn't been reported yet.
func (s *Simulator) emitCompletions() {
	for _, p := range s.Table.Items() {
		if p.Control.State == StateExit && !p.Completed && p.RunningThreadCount.Load() == 0 {
			p.Completed = true
			s.Log.Logf("OS: process %d completed", p.Control.ProcessNumber)
			s.Progress.Add(1)
		}
	}
}

// drainOne yields briefly so outstanding device workers get CPU time before
// the loop reassesses readiness, avoiding a tight busy-spin while the only
// runnable work is off in goroutines the scheduler loop doesn't otherwise
// block on.
func (s *Simulator) drainOne() error {
	select {
	case <-s.ctx.Done():
		return s.ctx.Err()
	case <-time.After(time.Millisecond):
		return nil
	}
}
