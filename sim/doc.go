// Package sim implements the process-scheduling simulator: a config and
// metadata-driven engine that models cooperating/preemptive CPU scheduling,
// device arbitration, and memory allocation over a fixed process table.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - config.go: config file grammar and Config
//   - opcode.go: metadata file grammar, Opcode, ParseMetadata
//   - process.go: Process lifecycle (NEW -> READY -> RUNNING -> EXIT; WAITING is defined but never entered)
//   - runner.go: quantum-bounded execution of one process's opcode stream
//   - scheduler.go: SchedulingPolicy (RR / SJF-N / SRTF-P)
//   - simulator.go: the scheduler loop tying everything together
//
// # Architecture
//
// device/ holds the device arbiter and I/O worker goroutines, isolated from
// sim to keep the log sink's write path free of an import cycle between the
// process table and the arbiter's dispatch log lines.
package sim
