package device

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"golang.org/x/sync/errgroup"
)

type fakeLog struct {
	mu    sync.Mutex
	lines []string
}

func (f *fakeLog) Logf(format string, args ...any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lines = append(f.lines, fmt.Sprintf(format, args...))
}

type fakeClock struct{}

func (fakeClock) Wait(cycles int, cyclePerMsec float64) {}

// gatedClock blocks Wait until release is closed, letting a test observe
// state between a worker's start line and its end line.
type gatedClock struct{ release chan struct{} }

func (g gatedClock) Wait(cycles int, cyclePerMsec float64) { <-g.release }

func TestArbiter_DispatchHardDrive_EmitsStartAndEndLines(t *testing.T) {
	log := &fakeLog{}
	group, ctx := errgroup.WithContext(context.Background())
	arb := NewArbiter(log, fakeClock{}, group, map[Class]int{ClassHardDrive: 1})

	doneCh := make(chan struct{}, 1)
	arb.Dispatch(ctx, ClassHardDrive, 1, "input", 5, 1.0, func() { doneCh <- struct{}{} })

	if err := group.Wait(); err != nil {
		t.Fatalf("group.Wait: %v", err)
	}
	<-doneCh

	if len(log.lines) != 2 {
		t.Fatalf("len(lines) = %d, want 2", len(log.lines))
	}
	if !contains(log.lines[0], "start hard drive input on HDD 0") {
		t.Errorf("line[0] = %q, missing expected text", log.lines[0])
	}
	if !contains(log.lines[1], "end hard drive input on HDD 0") {
		t.Errorf("line[1] = %q, missing expected text", log.lines[1])
	}
}

func TestArbiter_SlotBitmap_LimitsConcurrentSlotReuse(t *testing.T) {
	log := &fakeLog{}
	group, ctx := errgroup.WithContext(context.Background())
	arb := NewArbiter(log, fakeClock{}, group, map[Class]int{ClassPrinter: 1})

	var wg sync.WaitGroup
	wg.Add(2)
	for i := 0; i < 2; i++ {
		arb.Dispatch(ctx, ClassPrinter, i+1, "output", 1, 1.0, wg.Done)
	}
	if err := group.Wait(); err != nil {
		t.Fatalf("group.Wait: %v", err)
	}
	wg.Wait()

	if len(log.lines) != 4 {
		t.Fatalf("len(lines) = %d, want 4 (2 workers x start/end)", len(log.lines))
	}
	for _, line := range log.lines {
		if !contains(line, "PRNTR 0") {
			t.Errorf("single-slot printer class emitted a non-zero slot: %q", line)
		}
	}
}

func TestArbiter_DispatchSimple_OmitsUnitSuffix(t *testing.T) {
	log := &fakeLog{}
	group, ctx := errgroup.WithContext(context.Background())
	arb := NewArbiter(log, fakeClock{}, group, map[Class]int{ClassKeyboard: 1})

	done := make(chan struct{}, 1)
	arb.DispatchSimple(ctx, ClassKeyboard, 1, "keyboard input", 3, 1.0, func() { done <- struct{}{} })
	if err := group.Wait(); err != nil {
		t.Fatalf("group.Wait: %v", err)
	}
	<-done

	if len(log.lines) != 2 {
		t.Fatalf("len(lines) = %d, want 2", len(log.lines))
	}
	if contains(log.lines[0], "KYBRD") {
		t.Errorf("DispatchSimple must not include a unit suffix, got %q", log.lines[0])
	}
}

func TestArbiter_Dispatch_ReadySignalPrecedesDeviceCompletion(t *testing.T) {
	log := &fakeLog{}
	gate := make(chan struct{})
	group, ctx := errgroup.WithContext(context.Background())
	arb := NewArbiter(log, gatedClock{release: gate}, group, map[Class]int{ClassHardDrive: 1})

	started := arb.Dispatch(ctx, ClassHardDrive, 1, "input", 5, 1.0, func() {})
	<-started

	log.mu.Lock()
	n := len(log.lines)
	log.mu.Unlock()
	if n != 1 {
		t.Fatalf("after the ready signal, len(lines) = %d, want 1 (only the start line)", n)
	}

	close(gate)
	if err := group.Wait(); err != nil {
		t.Fatalf("group.Wait: %v", err)
	}
}

func contains(s, sub string) bool {
	return len(s) >= len(sub) && indexOf(s, sub) >= 0
}

func indexOf(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}
