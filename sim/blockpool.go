package sim

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

// BlockPool owns the fixed inventory of physical KV blocks and is the
// sole authority on their free/allocated status. Any free block can back
// any logical position: sequences indirect through their block tables,
// so the pool never has to find a contiguous run of identifiers. This is
// what makes external fragmentation a non-issue — each growth step only
// needs a single free slot, wherever it sits.
//
// The free queue starts in ascending ID order and is consumed from the
// head, so a fresh pool hands out blocks lowest-ID-first. Freed blocks
// rejoin at the tail. The resulting allocation order is deterministic
// for any given history of operations, which keeps fixtures reproducible.
type BlockPool struct {
	mu        sync.Mutex
	numBlocks int
	blockSize int
	allocated []bool     // indexed by block ID
	freeQueue []int      // FIFO of free block IDs
}

// NewBlockPool creates a pool with every block ID in [0, NumBlocks)
// free. The config's storage-shape fields are validated here too, since
// the same config sizes the CacheStore.
func NewBlockPool(cfg CacheConfig) (*BlockPool, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p := &BlockPool{
		numBlocks: cfg.NumBlocks,
		blockSize: cfg.BlockSize,
		allocated: make([]bool, cfg.NumBlocks),
		freeQueue: make([]int, cfg.NumBlocks),
	}
	for i := range p.freeQueue {
		p.freeQueue[i] = i
	}
	return p, nil
}

// NumBlocks returns the fixed total block count.
func (p *BlockPool) NumBlocks() int { return p.numBlocks }

// BlockSize returns the number of tokens per block.
func (p *BlockPool) BlockSize() int { return p.blockSize }

// AllocateBlock removes one block ID from the free queue and returns it.
// Returns ErrOutOfMemory when the queue is empty; the caller decides
// whether to retry later or reject.
func (p *BlockPool) AllocateBlock() (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.freeQueue) == 0 {
		logrus.Debugf("block pool exhausted: all %d blocks allocated", p.numBlocks)
		return -1, fmt.Errorf("%w: all %d blocks allocated", ErrOutOfMemory, p.numBlocks)
	}
	id := p.freeQueue[0]
	p.freeQueue = p.freeQueue[1:]
	p.allocated[id] = true
	return id, nil
}

// FreeBlock returns a previously allocated block ID to the free queue.
// The pool is left untouched when the ID is out of range or already
// free; both cases are caller bugs and are reported, not absorbed.
func (p *BlockPool) FreeBlock(id int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if id < 0 || id >= p.numBlocks {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrInvalidBlockID, id, p.numBlocks)
	}
	if !p.allocated[id] {
		return fmt.Errorf("%w: block %d is already free", ErrDoubleFree, id)
	}
	p.allocated[id] = false
	p.freeQueue = append(p.freeQueue, id)
	return nil
}

// FreeBlockCount returns the number of currently unallocated blocks.
func (p *BlockPool) FreeBlockCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.freeQueue)
}

// Stats returns a snapshot of pool utilization.
func (p *BlockPool) Stats() PoolStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	free := len(p.freeQueue)
	alloc := p.numBlocks - free
	return PoolStats{
		Total:       p.numBlocks,
		Free:        free,
		Allocated:   alloc,
		Utilization: float64(alloc) / float64(p.numBlocks),
	}
}
