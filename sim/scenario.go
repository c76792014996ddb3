package sim

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

// StepOp enumerates the operations a scenario step may perform.
type StepOp string

const (
	OpAppend StepOp = "append" // append Tokens tokens to Sequence
	OpFree   StepOp = "free"   // release all of Sequence's blocks
	OpLookup StepOp = "lookup" // resolve token index Tokens to its physical location
	OpStatus StepOp = "status" // snapshot the pool and live sequences
)

// Step is one scripted operation against the cache.
type Step struct {
	Op       StepOp
	Sequence string // target sequence; append creates it on first reference
	Tokens   int    // append: token count; lookup: token index
	// ExpectOOM marks an append whose expected outcome is pool
	// exhaustion. The rejection is recorded and the run continues.
	ExpectOOM bool
}

// Scenario is a named script that drives one pool and store.
type Scenario struct {
	Name  string
	Cache CacheConfig
	Steps []Step
}

// StatusSnapshot captures pool and sequence state at a status step.
type StatusSnapshot struct {
	AfterStep int             // index of the status step that took the snapshot
	Pool      PoolStats
	Sequences []SequenceStats // live sequences, in creation order
}

// Runner executes a Scenario's steps sequentially against a single
// BlockPool and CacheStore, creating sequences on first reference and
// collecting metrics and snapshots along the way.
type Runner struct {
	scenario  Scenario
	pool      *BlockPool
	store     *CacheStore
	sequences map[string]*Sequence
	order     []string             // sequence creation order, for stable reporting
	metrics   Metrics
	snapshots []StatusSnapshot
}

// NewRunner builds the pool and store for a scenario.
func NewRunner(sc Scenario) (*Runner, error) {
	pool, err := NewBlockPool(sc.Cache)
	if err != nil {
		return nil, fmt.Errorf("scenario %q: %w", sc.Name, err)
	}
	return &Runner{
		scenario:  sc,
		pool:      pool,
		store:     NewCacheStore(sc.Cache),
		sequences: make(map[string]*Sequence),
	}, nil
}

// Run executes every step in order. An append failing with
// ErrOutOfMemory while its step carries ExpectOOM counts as a rejection
// and the run continues; any other failure aborts with step context.
func (r *Runner) Run() error {
	logrus.Infof("scenario %q: %d blocks x %d tokens, %d steps",
		r.scenario.Name, r.scenario.Cache.NumBlocks, r.scenario.Cache.BlockSize, len(r.scenario.Steps))
	for i, step := range r.scenario.Steps {
		if err := r.apply(i, step); err != nil {
			return fmt.Errorf("scenario %q step %d (%s %s): %w",
				r.scenario.Name, i, step.Op, step.Sequence, err)
		}
		r.metrics.StepsExecuted++
		r.metrics.Observe(r.pool.Stats())
	}
	return nil
}

func (r *Runner) apply(i int, step Step) error {
	switch step.Op {
	case OpAppend:
		seq := r.sequence(step.Sequence)
		blocksBefore := seq.BlockCount()
		tokensBefore := seq.TokenCount()
		err := seq.AppendTokens(r.pool, step.Tokens)
		// count what was actually acquired, including partial growth
		r.metrics.BlocksAllocated += seq.BlockCount() - blocksBefore
		r.metrics.TokensAppended += seq.TokenCount() - tokensBefore
		if err != nil {
			if step.ExpectOOM && errors.Is(err, ErrOutOfMemory) {
				r.metrics.RejectedAppends++
				logrus.Infof("<< append %s rejected as expected: %v", step.Sequence, err)
				return nil
			}
			return err
		}
		if step.ExpectOOM {
			return fmt.Errorf("expected pool exhaustion, append succeeded")
		}
		logrus.Debugf("<< append %s: %d tokens, %d blocks held, %d blocks free",
			step.Sequence, step.Tokens, seq.BlockCount(), r.pool.FreeBlockCount())
		return nil

	case OpFree:
		seq, ok := r.sequences[step.Sequence]
		if !ok {
			return fmt.Errorf("unknown sequence %q", step.Sequence)
		}
		held := seq.BlockCount()
		if err := seq.FreeAllBlocks(r.pool); err != nil {
			return err
		}
		r.metrics.BlocksFreed += held
		r.metrics.SequencesFreed++
		logrus.Debugf("<< free %s: %d blocks returned, %d blocks free",
			step.Sequence, held, r.pool.FreeBlockCount())
		return nil

	case OpLookup:
		seq, ok := r.sequences[step.Sequence]
		if !ok {
			return fmt.Errorf("unknown sequence %q", step.Sequence)
		}
		blockID, offset, err := seq.PhysicalLocation(r.pool, step.Tokens)
		if err != nil {
			return err
		}
		logrus.Infof("<< token %d of %s -> physical block %d, offset %d",
			step.Tokens, step.Sequence, blockID, offset)
		return nil

	case OpStatus:
		r.snapshots = append(r.snapshots, r.snapshot(i))
		return nil

	default:
		return fmt.Errorf("unknown op %q", step.Op)
	}
}

// sequence returns the named sequence, creating it when first referenced.
func (r *Runner) sequence(id string) *Sequence {
	if seq, ok := r.sequences[id]; ok {
		return seq
	}
	seq := NewSequence(id)
	r.sequences[id] = seq
	r.order = append(r.order, id)
	r.metrics.SequencesCreated++
	return seq
}

// snapshot records the pool and every live sequence in creation order.
func (r *Runner) snapshot(afterStep int) StatusSnapshot {
	snap := StatusSnapshot{AfterStep: afterStep, Pool: r.pool.Stats()}
	for _, id := range r.order {
		if seq := r.sequences[id]; !seq.Terminated() {
			snap.Sequences = append(snap.Sequences, seq.Stats())
		}
	}
	return snap
}

// Pool exposes the runner's pool for inspection.
func (r *Runner) Pool() *BlockPool { return r.pool }

// Store exposes the runner's backing store.
func (r *Runner) Store() *CacheStore { return r.store }

// Metrics returns the counters aggregated so far.
func (r *Runner) Metrics() Metrics { return r.metrics }

// Snapshots returns the status snapshots taken during the run.
func (r *Runner) Snapshots() []StatusSnapshot { return r.snapshots }
