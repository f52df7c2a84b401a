// Package device implements the multi-slot device arbiter that the runner
// (sim.RunProcess) dispatches I/O opcodes to. It lives outside package sim
// so that its LogWriter dependency stays a narrow interface rather than
// importing sim's full LogSink type.
//
// Each device class (hard drive, printer, keyboard, monitor) has a fixed
// slot count read from the config; keyboard and monitor are always
// single-slot. A semaphore.Weighted bounds concurrent occupancy per class,
// and a bitmap tracks which numbered slot ("HDD 0", "PRNTR 1", ...) a given
// worker acquired, since the reference log lines name the specific unit a
// process was served by.
package device

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Class identifies a device family.
type Class int

const (
	ClassHardDrive Class = iota
	ClassPrinter
	ClassKeyboard
	ClassMonitor
)

func (c Class) label() string {
	switch c {
	case ClassHardDrive:
		return "HDD"
	case ClassPrinter:
		return "PRNTR"
	case ClassKeyboard:
		return "KYBRD"
	case ClassMonitor:
		return "MNTR"
	default:
		return "DEV"
	}
}

// LogWriter is the subset of sim.LogSink the arbiter needs to emit device
// event lines.
type LogWriter interface {
	Logf(format string, args ...any)
}

// Waiter blocks for the given number of cycles, converted to real time by
// the caller's per-device cycle-time coefficient. *sim.Clock implements it
// directly; the coefficient is passed in, so this package stays free of
// sim's Config type.
type Waiter interface {
	Wait(cycles int, cyclePerMsec float64)
}

// class holds one device family's slot pool.
type class struct {
	sem   *semaphore.Weighted
	mu    sync.Mutex
	slots []bool // occupancy bitmap, len == slot count
}

// Arbiter arbitrates access to all device classes for one simulation run.
type Arbiter struct {
	classes map[Class]*class
	log     LogWriter
	clock   Waiter
	group   *errgroup.Group
}

// NewArbiter builds an Arbiter with the given per-class slot counts.
// Classes with a zero count are omitted; Dispatch on an omitted class panics,
// which should never happen since the config always supplies HDD/printer
// counts and keyboard/monitor are implicitly single-slot.
func NewArbiter(log LogWriter, clock Waiter, group *errgroup.Group, slotCounts map[Class]int) *Arbiter {
	a := &Arbiter{classes: make(map[Class]*class), log: log, clock: clock, group: group}
	for c, n := range slotCounts {
		if n <= 0 {
			continue
		}
		a.classes[c] = &class{sem: semaphore.NewWeighted(int64(n)), slots: make([]bool, n)}
	}
	return a
}

// Dispatch spawns a goroutine (tracked by the Arbiter's errgroup) that
// acquires a free slot in class c, runs the device operation for the given
// cycle count and per-cycle msec coefficient, emits the paired start/end log
// lines for descriptor (e.g. "input"/"output"), and releases the slot.
// done is invoked after the slot is released, so the caller can decrement
// its own in-flight worker count. The returned channel closes the moment the
// worker has acquired its slot and logged its start line — replacing the
// reference program's threadCreated spin wait — so the caller can block
// until the worker has genuinely begun before moving on.
func (a *Arbiter) Dispatch(ctx context.Context, c Class, processNumber int, descriptor string, cycles int, cyclePerMsec float64, done func()) <-chan struct{} {
	cl, ok := a.classes[c]
	if !ok {
		panic(fmt.Sprintf("device: dispatch on unconfigured class %d", c))
	}

	started := make(chan struct{})
	a.group.Go(func() error {
		defer done()

		if err := cl.sem.Acquire(ctx, 1); err != nil {
			close(started)
			return err
		}
		// Deferred in this order so the slot is cleared before the permit
		// is released: the next permit holder must find a free slot.
		defer cl.sem.Release(1)
		slot := cl.acquireSlot()
		defer cl.releaseSlot(slot)

		verb := ioVerb(c, descriptor)
		a.log.Logf("Process %d start %s on %s %d", processNumber, verb, c.label(), slot)
		close(started)
		a.clock.Wait(cycles, cyclePerMsec)
		a.log.Logf("Process %d end %s on %s %d", processNumber, verb, c.label(), slot)
		return nil
	})
	return started
}

// ioVerb renders the reference program's device-specific phrasing. Keyboard
// and monitor omit the "on <unit> <slot>" suffix in the original log text,
// but callers still pass a class/slot so the arbiter's bookkeeping stays
// uniform; DispatchSimple below handles the single-slot phrasing.
func ioVerb(c Class, descriptor string) string {
	switch c {
	case ClassHardDrive:
		return "hard drive " + descriptor
	case ClassPrinter:
		return "printer " + descriptor
	default:
		return descriptor
	}
}

// DispatchSimple is used for single-slot classes (keyboard input, monitor
// output) whose reference log lines never mention a unit number. Like
// Dispatch, it returns a channel that closes once the worker has logged its
// start line.
func (a *Arbiter) DispatchSimple(ctx context.Context, c Class, processNumber int, verb string, cycles int, cyclePerMsec float64, done func()) <-chan struct{} {
	cl, ok := a.classes[c]
	if !ok {
		panic(fmt.Sprintf("device: dispatch on unconfigured class %d", c))
	}

	started := make(chan struct{})
	a.group.Go(func() error {
		defer done()

		if err := cl.sem.Acquire(ctx, 1); err != nil {
			close(started)
			return err
		}
		defer cl.sem.Release(1)

		a.log.Logf("Process %d start %s", processNumber, verb)
		close(started)
		a.clock.Wait(cycles, cyclePerMsec)
		a.log.Logf("Process %d end %s", processNumber, verb)
		return nil
	})
	return started
}

func (cl *class) acquireSlot() int {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	for i, occupied := range cl.slots {
		if !occupied {
			cl.slots[i] = true
			return i
		}
	}
	// Unreachable: the semaphore already bounds concurrent holders to
	// len(slots), so a free slot always exists here.
	panic("device: no free slot despite semaphore permit")
}

func (cl *class) releaseSlot(i int) {
	cl.mu.Lock()
	cl.slots[i] = false
	cl.mu.Unlock()
}
