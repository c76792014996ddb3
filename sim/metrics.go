// Tracks pool-level and per-sequence observables plus aggregate counters
// over a scenario run, for final reporting.

package sim

import "fmt"

// PoolStats is an O(1) snapshot of block pool utilization.
type PoolStats struct {
	Total       int     // fixed inventory size
	Free        int     // unallocated blocks
	Allocated   int     // blocks owned by live sequences
	Utilization float64 // Allocated / Total
}

// SequenceStats captures the per-sequence observables an external
// caller may read.
type SequenceStats struct {
	ID     string
	State  SequenceState
	Tokens int
	Blocks int
}

// Metrics aggregates statistics about a scenario run for final
// reporting. Useful for evaluating pool behavior and debugging
// allocation patterns over time.
type Metrics struct {
	StepsExecuted    int // scenario steps applied
	TokensAppended   int // tokens successfully appended across all sequences
	BlocksAllocated  int // pool allocations performed
	BlocksFreed      int // blocks returned to the pool
	RejectedAppends  int // appends that hit pool exhaustion
	SequencesCreated int
	SequencesFreed   int
	PeakAllocated    int // max simultaneously allocated blocks
}

// Observe folds a pool snapshot into the running peak.
func (m *Metrics) Observe(ps PoolStats) {
	if ps.Allocated > m.PeakAllocated {
		m.PeakAllocated = ps.Allocated
	}
}

// Print displays aggregated metrics at the end of a run.
func (m *Metrics) Print() {
	fmt.Println("=== Scenario Metrics ===")
	fmt.Printf("Steps Executed    : %d\n", m.StepsExecuted)
	fmt.Printf("Tokens Appended   : %d\n", m.TokensAppended)
	fmt.Printf("Blocks Allocated  : %d\n", m.BlocksAllocated)
	fmt.Printf("Blocks Freed      : %d\n", m.BlocksFreed)
	fmt.Printf("Rejected Appends  : %d\n", m.RejectedAppends)
	fmt.Printf("Sequences Created : %d\n", m.SequencesCreated)
	fmt.Printf("Sequences Freed   : %d\n", m.SequencesFreed)
	fmt.Printf("Peak KV Usage     : %d blocks\n", m.PeakAllocated)
}
