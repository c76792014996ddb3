package sim

import (
	"fmt"

	"github.com/x448/float16"
)

// CacheStore is the storage medium behind a BlockPool: key and value
// buffers for every block, allocated upfront and addressed by the
// physical block IDs the pool hands out. The allocator never reads the
// store; callers pair a pool ID with the store view it indexes.
//
// Per block the layout is NumLayers x NumHeads x BlockSize x HeadSize
// half-precision entries, for keys and values separately.
type CacheStore struct {
	cfg             CacheConfig
	entriesPerBlock int
	keys            []float16.Float16
	values          []float16.Float16
}

// NewCacheStore allocates both buffers, zeroed. The config must already
// be validated (NewBlockPool does this for the shared config).
func NewCacheStore(cfg CacheConfig) *CacheStore {
	cfg = cfg.withDefaults()
	per := cfg.NumLayers * cfg.NumHeads * cfg.BlockSize * cfg.HeadSize
	return &CacheStore{
		cfg:             cfg,
		entriesPerBlock: per,
		keys:            make([]float16.Float16, cfg.NumBlocks*per),
		values:          make([]float16.Float16, cfg.NumBlocks*per),
	}
}

// Device returns the storage target the store was configured with.
func (cs *CacheStore) Device() string { return cs.cfg.Device }

// KeyBlock returns the key-cache view for one physical block. The view
// aliases the store's buffer; writes through it are visible to later
// callers of the same block.
func (cs *CacheStore) KeyBlock(id int) ([]float16.Float16, error) {
	if id < 0 || id >= cs.cfg.NumBlocks {
		return nil, fmt.Errorf("%w: %d not in [0, %d)", ErrInvalidBlockID, id, cs.cfg.NumBlocks)
	}
	start := id * cs.entriesPerBlock
	end := start + cs.entriesPerBlock
	return cs.keys[start:end:end], nil
}

// ValueBlock returns the value-cache view for one physical block.
func (cs *CacheStore) ValueBlock(id int) ([]float16.Float16, error) {
	if id < 0 || id >= cs.cfg.NumBlocks {
		return nil, fmt.Errorf("%w: %d not in [0, %d)", ErrInvalidBlockID, id, cs.cfg.NumBlocks)
	}
	start := id * cs.entriesPerBlock
	end := start + cs.entriesPerBlock
	return cs.values[start:end:end], nil
}

// BlockBytes returns the key+value footprint of a single block.
func (cs *CacheStore) BlockBytes() int64 {
	// 2 bytes per float16 entry, keys and values.
	return int64(cs.entriesPerBlock) * 2 * 2
}

// TotalBytes returns the full pre-allocated footprint of the store.
func (cs *CacheStore) TotalBytes() int64 {
	return cs.BlockBytes() * int64(cs.cfg.NumBlocks)
}
