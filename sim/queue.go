// Implements ProcessTable, the fixed-size collection of processes the
// scheduler loop owns for the lifetime of a simulation run. Unlike the
// per-opcode FIFO queue inside a Process, the table supports indexed and
// scanning access, since RR/SJF/SRTF selection needs both.

package sim

import (
	"fmt"
	"strings"
)

// ProcessTable holds every process parsed from the metadata file, indexed by
// (assignment order - 1). It never grows or shrinks after construction.
type ProcessTable struct {
	processes []*Process
}

// NewProcessTable wraps an already-parsed process slice.
func NewProcessTable(processes []*Process) *ProcessTable {
	return &ProcessTable{processes: processes}
}

// Len returns the number of processes in the table.
func (t *ProcessTable) Len() int {
	return len(t.processes)
}

// At returns the process at index i.
func (t *ProcessTable) At(i int) *Process {
	return t.processes[i]
}

// Items returns the table's contents for iteration. Callers must not append
// to or reslice the returned slice.
func (t *ProcessTable) Items() []*Process {
	return t.processes
}

// AllExited reports whether every process has reached StateExit.
func (t *ProcessTable) AllExited() bool {
	for _, p := range t.processes {
		if p.Control.State != StateExit {
			return false
		}
	}
	return true
}

// AnyOutstandingWork reports whether any exited process still has undelivered
// completion output: it has reached StateExit, has no in-flight I/O workers,
// but "OS: process N completed" has not yet been emitted for it.
func (t *ProcessTable) AnyOutstandingWork() bool {
	for _, p := range t.processes {
		if p.Control.State == StateExit && !p.Completed && p.RunningThreadCount.Load() == 0 {
			return true
		}
	}
	return false
}

func (t *ProcessTable) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, p := range t.processes {
		sb.WriteString(fmt.Sprint(p))
		if i < len(t.processes)-1 {
			sb.WriteString(" ")
		}
	}
	sb.WriteString("]")
	return sb.String()
}
