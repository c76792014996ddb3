// Defines the Sequence struct that models one inference request's
// logical memory view: a contiguous growing token stream backed by
// physical blocks that can sit anywhere in the pool.

package sim

import "fmt"

// SequenceState represents the lifecycle state of a sequence.
type SequenceState string

const (
	StateActive     SequenceState = "active"
	StateTerminated SequenceState = "terminated"
)

// Sequence maps a request's logical token positions onto physical pool
// blocks. Entry i of the block table backs logical tokens
// [i*blockSize, (i+1)*blockSize). Every entry is exclusively owned by
// this sequence until FreeAllBlocks returns it to the pool.
//
// A Sequence is not safe for concurrent use; the pool it allocates from
// may be shared, a single sequence may not.
type Sequence struct {
	ID string // opaque request identifier, bookkeeping only

	state      SequenceState
	tokenCount int
	blockTable []int         // logical block index to physical block ID
}

// NewSequence creates an active sequence with no tokens and no blocks.
func NewSequence(id string) *Sequence {
	return &Sequence{ID: id, state: StateActive}
}

// AppendTokens advances the sequence by n tokens, acquiring one physical
// block from pool for each logical block boundary crossed. n == 0 is a
// no-op.
//
// When the pool runs dry mid-growth the call returns ErrOutOfMemory, but
// blocks acquired earlier in the same call stay owned by the sequence
// and the token count stops at the capacity of the blocks it holds.
// Partial growth is a valid recoverable state: the caller may retry the
// remainder once other sequences release blocks.
func (s *Sequence) AppendTokens(pool *BlockPool, n int) error {
	if s.state == StateTerminated {
		return fmt.Errorf("%w: cannot append to sequence %s", ErrSequenceFreed, s.ID)
	}
	if n < 0 {
		return fmt.Errorf("%w: negative token count %d", ErrOutOfRange, n)
	}
	target := s.tokenCount + n
	for len(s.blockTable)*pool.BlockSize() < target {
		id, err := pool.AllocateBlock()
		if err != nil {
			covered := len(s.blockTable) * pool.BlockSize()
			applied := covered - s.tokenCount
			s.tokenCount = covered
			return fmt.Errorf("sequence %s: appending %d tokens, %d applied, %d blocks free: %w",
				s.ID, n, applied, pool.FreeBlockCount(), err)
		}
		s.blockTable = append(s.blockTable, id)
	}
	s.tokenCount = target
	return nil
}

// FreeAllBlocks returns every owned block to the pool and terminates the
// sequence. A terminated sequence rejects all further operations.
//
// A mid-release failure can only mean the pool was corrupted elsewhere;
// entries already returned are dropped from the table before the error
// surfaces, so a later release cannot double-free them.
func (s *Sequence) FreeAllBlocks(pool *BlockPool) error {
	if s.state == StateTerminated {
		return fmt.Errorf("%w: sequence %s", ErrSequenceFreed, s.ID)
	}
	for len(s.blockTable) > 0 {
		id := s.blockTable[0]
		if err := pool.FreeBlock(id); err != nil {
			return fmt.Errorf("sequence %s: releasing block %d: %w", s.ID, id, err)
		}
		s.blockTable = s.blockTable[1:]
	}
	s.blockTable = nil
	s.state = StateTerminated
	return nil
}

// PhysicalLocation resolves a logical token index to its physical block
// ID and the offset within that block. Pure lookup, no allocation.
func (s *Sequence) PhysicalLocation(pool *BlockPool, tokenIndex int) (blockID, offset int, err error) {
	if s.state == StateTerminated {
		return 0, 0, fmt.Errorf("%w: sequence %s", ErrSequenceFreed, s.ID)
	}
	if tokenIndex < 0 || tokenIndex >= s.tokenCount {
		return 0, 0, fmt.Errorf("%w: token %d, sequence %s holds %d tokens",
			ErrOutOfRange, tokenIndex, s.ID, s.tokenCount)
	}
	bs := pool.BlockSize()
	return s.blockTable[tokenIndex/bs], tokenIndex % bs, nil
}

// TokenCount returns the number of tokens appended so far.
func (s *Sequence) TokenCount() int { return s.tokenCount }

// BlockCount returns the number of physical blocks owned.
func (s *Sequence) BlockCount() int { return len(s.blockTable) }

// BlockTable returns a copy of the logical-to-physical mapping.
func (s *Sequence) BlockTable() []int {
	table := make([]int, len(s.blockTable))
	copy(table, s.blockTable)
	return table
}

// Terminated reports whether FreeAllBlocks has run.
func (s *Sequence) Terminated() bool { return s.state == StateTerminated }

// Stats returns the per-sequence observables.
func (s *Sequence) Stats() SequenceStats {
	return SequenceStats{ID: s.ID, State: s.state, Tokens: s.tokenCount, Blocks: len(s.blockTable)}
}

// This method returns a human-readable string representation of a Sequence.
func (s Sequence) String() string {
	return fmt.Sprintf("Sequence: (ID: %s, State: %s, Tokens: %d, Blocks: %d)",
		s.ID, s.state, s.tokenCount, len(s.blockTable))
}
